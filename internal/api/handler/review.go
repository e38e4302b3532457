package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seoulmate/backend/internal/api/middleware"
	"seoulmate/backend/internal/service"
)

type createReviewRequest struct {
	TourRequestID string `json:"tourRequestId" binding:"required"`
	Rating        int    `json:"rating" binding:"required"`
	Comment       string `json:"comment" binding:"required"`
}

// CreateReview writes the traveler's review of a completed tour.
func (h *Handler) CreateReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "error": err.Error()})
		return
	}

	review, err := h.Reviews.Create(middleware.UserID(c), service.CreateReviewInput{
		TourRequestID: req.TourRequestID,
		Rating:        req.Rating,
		Comment:       req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// ListGuideReviews pages through a guide's reviews. Public.
func (h *Handler) ListGuideReviews(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	page, err := h.Reviews.ListByGuide(c.Param("id"), limit, c.Query("cursor"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// MyReviews lists reviews the calling guide received.
func (h *Handler) MyReviews(c *gin.Context) {
	reviews, err := h.Reviews.MyReviews(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// SentReviews lists reviews the calling traveler wrote.
func (h *Handler) SentReviews(c *gin.Context) {
	reviews, err := h.Reviews.SentReviews(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

type updateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// UpdateReview edits the caller's own review.
func (h *Handler) UpdateReview(c *gin.Context) {
	var req updateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "error": err.Error()})
		return
	}

	review, err := h.Reviews.Update(middleware.UserID(c), c.Param("id"), service.UpdateReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

// DeleteReview removes the caller's own review.
func (h *Handler) DeleteReview(c *gin.Context) {
	if err := h.Reviews.Delete(middleware.UserID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
