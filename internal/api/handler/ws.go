package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"seoulmate/backend/internal/api/middleware"
	"seoulmate/backend/internal/chathub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production!
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeChatRoomSocket upgrades the connection and forwards room events
// over a websocket, as an alternative to the SSE stream. The socket
// carries the same invalidation signals; messages are still sent over
// the REST API.
func (h *Handler) ServeChatRoomSocket(c *gin.Context) {
	roomID := c.Param("id")
	userID := middleware.UserID(c)

	if _, err := h.Chat.GetRoomInfo(userID, roomID); err != nil {
		respondError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, conn, userID, roomID)
	client.Run()
}
