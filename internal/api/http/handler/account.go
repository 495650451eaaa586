package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"absenceportal/internal/logger"
	"absenceportal/internal/model"
	"absenceportal/internal/service"
)

// AccountService defines account operations consumed by the HTTP layer.
type AccountService interface {
	Login(ctx context.Context, email, password string, role model.Role) (service.LoginResult, error)
	GetUser(ctx context.Context, id uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (model.User, error)
	UpdateProfileImage(ctx context.Context, id uuid.UUID, image string) (model.User, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
}

// Account handles HTTP endpoints for login and account management.
type Account struct {
	service AccountService
	logger  *logger.Logger
}

func NewAccount(service AccountService, logger *logger.Logger) *Account {
	return &Account{
		service: service,
		logger:  logger,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

type loginResponse struct {
	model.User
	Token string `json:"token"`
}

// Login handles POST /login.
func (h *Account) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password, model.Role(req.Role))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse{User: result.User, Token: result.Token})
}

// Get handles GET /users/:id.
func (h *Account) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /users/:id.
func (h *Account) UpdateProfile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
		return
	}

	var update model.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type profileImageRequest struct {
	ProfileImage string `json:"profile_image" binding:"required"`
}

// UpdateProfileImage handles PUT /users/:id/profile-picture.
func (h *Account) UpdateProfileImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
		return
	}

	var req profileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.service.UpdateProfileImage(c.Request.Context(), id, req.ProfileImage)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword handles PUT /users/:id/password.
func (h *Account) ChangePassword(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": model.ErrNotFound.Error()})
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}
