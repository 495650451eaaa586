package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"absenceportal/internal/token"
)

const (
	// ContextUserID is the gin context key for the authenticated account id.
	ContextUserID = "user_id"
	// ContextRole is the gin context key for the authenticated role.
	ContextRole = "role"
)

// Auth validates the Bearer session token and stores the caller identity in
// the request context.
func Auth(tokens token.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			return
		}

		userID, role, err := tokens.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
			return
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Next()
	}
}
