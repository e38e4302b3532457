package chathub

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"seoulmate/backend/internal/models"
)

const bridgeChannel = "chat:events"

type bridgeEnvelope struct {
	Origin string           `json:"origin"`
	RoomID string           `json:"room_id"`
	Event  models.RoomEvent `json:"event"`
}

// Bridge mirrors hub broadcasts across processes through Redis pub/sub.
// It implements Broadcaster: events are delivered to local subscribers
// synchronously and published to Redis best-effort, so the single-process
// delivery contract of Hub is unchanged.
type Bridge struct {
	hub    *Hub
	rdb    *redis.Client
	origin string
}

func NewBridge(hub *Hub, rdb *redis.Client) *Bridge {
	return &Bridge{
		hub:    hub,
		rdb:    rdb,
		origin: uuid.New().String(),
	}
}

// Broadcast fans out locally, then mirrors the event to other processes.
func (b *Bridge) Broadcast(roomID string, event models.RoomEvent) {
	b.hub.Broadcast(roomID, event)

	payload, err := json.Marshal(bridgeEnvelope{Origin: b.origin, RoomID: roomID, Event: event})
	if err != nil {
		log.Printf("ERROR: Failed to encode bridge event for room %s: %v", roomID, err)
		return
	}
	if err := b.rdb.Publish(context.Background(), bridgeChannel, payload).Err(); err != nil {
		log.Printf("ERROR: Failed to publish bridge event for room %s: %v", roomID, err)
	}
}

// Run subscribes to the bridge channel and replays events published by
// other processes into the local hub. Blocks until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	pubsub := b.rdb.Subscribe(ctx, bridgeChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env bridgeEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				log.Printf("ERROR: Failed to decode bridge event: %v", err)
				continue
			}
			if env.Origin == b.origin {
				// Our own broadcast, already delivered locally.
				continue
			}
			b.hub.Broadcast(env.RoomID, env.Event)
		}
	}
}
