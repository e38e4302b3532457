package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seoulmate/backend/internal/api/middleware"
	"seoulmate/backend/internal/models"
	"seoulmate/backend/internal/service"
)

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role"`
}

// Register creates an account. Rate limited per client IP.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "error": err.Error()})
		return
	}

	user, err := h.Auth.Register(service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     models.Role(req.Role),
	}, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
		"role":  user.Role,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "error": err.Error()})
		return
	}

	token, user, err := h.Auth.Login(req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":   user.ID,
			"name": user.Name,
			"role": user.Role,
		},
	})
}

// Me returns the caller's own account.
func (h *Handler) Me(c *gin.Context) {
	user, err := h.Auth.Me(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateProfileRequest struct {
	Name  *string `json:"name"`
	Image *string `json:"image"`

	Bio          *string  `json:"bio"`
	Languages    []string `json:"languages"`
	Categories   []string `json:"categories"`
	PricePerHour *int     `json:"pricePerHour"`

	Nationality *string  `json:"nationality"`
	Interests   []string `json:"interests"`
}

// UpdateProfile applies partial profile updates for the caller.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "error": err.Error()})
		return
	}

	user, err := h.Auth.UpdateProfile(middleware.UserID(c), service.UpdateProfileInput{
		Name:         req.Name,
		Image:        req.Image,
		Bio:          req.Bio,
		Languages:    req.Languages,
		Categories:   req.Categories,
		PricePerHour: req.PricePerHour,
		Nationality:  req.Nationality,
		Interests:    req.Interests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
