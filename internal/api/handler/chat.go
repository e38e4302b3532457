package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"seoulmate/backend/internal/api/middleware"
	"seoulmate/backend/internal/models"
)

// ListChatRooms returns the caller's rooms, most recent activity first.
func (h *Handler) ListChatRooms(c *gin.Context) {
	rooms, err := h.Chat.ListRooms(middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// GetChatRoomInfo returns one room, its tour request and the other party.
func (h *Handler) GetChatRoomInfo(c *gin.Context) {
	info, err := h.Chat.GetRoomInfo(middleware.UserID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// ListChatMessages pages through a room's history using the cursor from
// the previous response.
func (h *Handler) ListChatMessages(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	page, err := h.Chat.ListMessages(middleware.UserID(c), c.Param("id"), limit, c.Query("cursor"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`

	PlaceID      *string  `json:"placeId"`
	PlaceName    *string  `json:"placeName"`
	PlaceAddress *string  `json:"placeAddress"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

// location assembles the all-or-nothing place group. A partially filled
// group is a validation error, not a silently truncated location.
func (r *sendMessageRequest) location() (*models.Location, bool) {
	fields := 0
	for _, set := range []bool{r.PlaceID != nil, r.PlaceName != nil, r.PlaceAddress != nil, r.Latitude != nil, r.Longitude != nil} {
		if set {
			fields++
		}
	}
	switch fields {
	case 0:
		return nil, true
	case 5:
		return &models.Location{
			PlaceID:      *r.PlaceID,
			PlaceName:    *r.PlaceName,
			PlaceAddress: *r.PlaceAddress,
			Latitude:     *r.Latitude,
			Longitude:    *r.Longitude,
		}, true
	default:
		return nil, false
	}
}

// SendChatMessage appends a message to the room and notifies every live
// subscriber before responding.
func (h *Handler) SendChatMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_ARGUMENT", "error": err.Error()})
		return
	}

	loc, ok := req.location()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"code":  "INVALID_ARGUMENT",
			"error": "location fields must all be present or all be absent",
		})
		return
	}

	msg, err := h.Chat.SendMessage(middleware.UserID(c), c.Param("id"), req.Content, loc)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
