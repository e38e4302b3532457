package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"seoulmate/backend/internal/chathub"
	"seoulmate/backend/internal/service"
	apperrors "seoulmate/backend/pkg/errors"
)

// Handler bundles the services behind the HTTP API.
type Handler struct {
	Auth        *service.AuthService
	Tours       *service.TourService
	Chat        *service.ChatService
	Reviews     *service.ReviewService
	Guides      *service.GuideService
	Translation *service.TranslationService
	Hub         *chathub.Hub
}

func NewHandler(
	auth *service.AuthService,
	tours *service.TourService,
	chat *service.ChatService,
	reviews *service.ReviewService,
	guides *service.GuideService,
	translation *service.TranslationService,
	hub *chathub.Hub,
) *Handler {
	return &Handler{
		Auth:        auth,
		Tours:       tours,
		Chat:        chat,
		Reviews:     reviews,
		Guides:      guides,
		Translation: translation,
		Hub:         hub,
	}
}

// respondError maps a service error onto its HTTP status and a stable
// code the frontend can branch on.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(apperrors.HTTPStatus(appErr.Code), gin.H{
			"code":  appErr.Code,
			"error": appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":  apperrors.CodeInternal,
		"error": "internal error",
	})
}
