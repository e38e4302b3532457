package chathub

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// WebSocketClient pushes the room events of one subscription over a
// websocket connection. The channel carries invalidation signals only;
// the browser refetches the message list on every event, so a dropped
// frame costs nothing but a delayed resync.
type WebSocketClient struct {
	UserID string
	Conn   *websocket.Conn

	hub *Hub
	sub *Subscription
}

func NewWebSocketClient(hub *Hub, conn *websocket.Conn, userID, roomID string) *WebSocketClient {
	return &WebSocketClient{
		UserID: userID,
		Conn:   conn,
		hub:    hub,
		sub:    hub.Subscribe(roomID),
	}
}

// Run starts the read and write pumps.
func (c *WebSocketClient) Run() {
	go c.writePump()
	go c.readPump()
}

// readPump discards inbound frames (messages are sent over the REST API,
// not the socket) and exists to notice the peer going away.
func (c *WebSocketClient) readPump() {
	defer func() {
		c.hub.Unsubscribe(c.sub)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error reading message: %v", err)
			}
			break
		}
	}
}

// writePump forwards subscription events to the websocket and keeps the
// connection alive with pings.
func (c *WebSocketClient) writePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.sub.Events():
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Subscription revoked by the hub.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(event)
			if err != nil {
				log.Printf("Error encoding JSON for client %s: %v", c.UserID, err)
				continue
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
