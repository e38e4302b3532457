package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"seoulmate/backend/internal/api/middleware"
)

// StreamChatRoom is the SSE endpoint for room updates. Every event is an
// invalidation signal: the client refetches the message list on receipt
// and never applies the payload directly. On transport error the client
// reopens the stream after a fixed 5s backoff and resyncs regardless, so
// a dropped event only delays the refresh.
func (h *Handler) StreamChatRoom(c *gin.Context) {
	roomID := c.Param("id")

	// Same authorization as reading the room.
	if _, err := h.Chat.GetRoomInfo(middleware.UserID(c), roomID); err != nil {
		respondError(c, err)
		return
	}

	sub := h.Hub.Subscribe(roomID)
	defer h.Hub.Unsubscribe(sub)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event, ok := <-sub.Events():
			if !ok {
				return false
			}
			c.SSEvent("message", event)
			return true
		}
	})
}
