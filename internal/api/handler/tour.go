package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"seoulmate/backend/internal/api/middleware"
	"seoulmate/backend/internal/models"
	"seoulmate/backend/internal/service"
)

type createTourRequestRequest struct {
	GuideID       string    `json:"guideId" binding:"required"`
	RequestedDate time.Time `json:"requestedDate" binding:"required"`
	Message       string    `json:"message" binding:"required"`
	Category      string    `json:"category" binding:"required"`
	IsOnline      bool      `json:"isOnline"`
}

// CreateTourRequest files a new tour request (traveler only).
func (h *Handler) CreateTourRequest(c *gin.Context) {
	var req createTourRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "error": err.Error()})
		return
	}

	created, err := h.Tours.Create(middleware.UserID(c), service.CreateTourRequestInput{
		GuideID:       req.GuideID,
		RequestedDate: req.RequestedDate,
		Message:       req.Message,
		Category:      models.TourCategory(req.Category),
		IsOnline:      req.IsOnline,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// MyTourRequests lists the caller's sent requests.
func (h *Handler) MyTourRequests(c *gin.Context) {
	requests, err := h.Tours.MyRequests(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// ReceivedTourRequests lists the requests the calling guide received.
func (h *Handler) ReceivedTourRequests(c *gin.Context) {
	requests, err := h.Tours.ReceivedRequests(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

// GetTourRequest returns one request to either of its parties.
func (h *Handler) GetTourRequest(c *gin.Context) {
	req, err := h.Tours.GetByID(middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// AcceptTourRequest accepts a PENDING request and opens its chat room.
func (h *Handler) AcceptTourRequest(c *gin.Context) {
	req, room, err := h.Tours.Accept(middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tourRequest": req, "chatRoom": room})
}

// RejectTourRequest rejects a PENDING request.
func (h *Handler) RejectTourRequest(c *gin.Context) {
	req, err := h.Tours.Reject(middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// CancelTourRequest lets the traveler withdraw a request.
func (h *Handler) CancelTourRequest(c *gin.Context) {
	req, err := h.Tours.Cancel(middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// CompleteTourRequest marks an accepted tour as done.
func (h *Handler) CompleteTourRequest(c *gin.Context) {
	req, err := h.Tours.Complete(middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}
