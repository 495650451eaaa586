package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"absenceportal/internal/model"
)

// respondError maps domain errors to HTTP status codes. Unclassified errors
// become opaque 500s.
func respondError(c *gin.Context, err error) {
	switch {
	case model.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": model.ErrInvalidRole.Error()})
	case errors.Is(err, model.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": model.ErrInvalidCredentials.Error()})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
