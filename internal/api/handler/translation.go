package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"seoulmate/backend/internal/api/middleware"
)

type translateRequest struct {
	Text       string `json:"text" binding:"required"`
	TargetLang string `json:"targetLang"`
}

// Translate runs the caller's text through the translation provider.
// Rate limited per user because every call costs money.
func (h *Handler) Translate(c *gin.Context) {
	var req translateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "error": err.Error()})
		return
	}

	result, err := h.Translation.Translate(c.Request.Context(), middleware.UserID(c), req.Text, req.TargetLang)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type translateBatchRequest struct {
	Texts      []string `json:"texts" binding:"required"`
	TargetLang string   `json:"targetLang"`
}

// TranslateBatch translates up to 10 texts in one call, charged once
// against the caller's translation budget.
func (h *Handler) TranslateBatch(c *gin.Context) {
	var req translateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "error": err.Error()})
		return
	}

	result, err := h.Translation.TranslateBatch(c.Request.Context(), middleware.UserID(c), req.Texts, req.TargetLang)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
