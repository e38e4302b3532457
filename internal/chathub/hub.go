package chathub

import (
	"sync"

	"seoulmate/backend/internal/models"
)

// Broadcaster is the part of the hub message senders depend on.
type Broadcaster interface {
	Broadcast(roomID string, event models.RoomEvent)
}

const subscriptionBuffer = 16

// Subscription is one live server-push connection's registration for a
// single chat room. The handle is revocable via Hub.Unsubscribe.
type Subscription struct {
	roomID string
	ch     chan models.RoomEvent
}

// Events is the channel the hub delivers room events on. It is closed
// when the subscription is revoked.
func (s *Subscription) Events() <-chan models.RoomEvent { return s.ch }

// RoomID returns the room this subscription is bound to.
func (s *Subscription) RoomID() string { return s.roomID }

// Hub is the process-wide registry fanning out new-message events to all
// live subscribers of a chat room. It is in-memory and single-process;
// cross-process mirroring is layered on top (see Bridge).
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Subscription]struct{})}
}

// Subscribe registers a new subscriber channel for roomID.
func (h *Hub) Subscribe(roomID string) *Subscription {
	sub := &Subscription{
		roomID: roomID,
		ch:     make(chan models.RoomEvent, subscriptionBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[roomID]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.rooms[roomID] = set
	}
	set[sub] = struct{}{}
	return sub
}

// Unsubscribe removes the subscription and closes its channel. Safe to
// call multiple times and for connections that already errored.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.rooms[sub.roomID]
	if !ok {
		return
	}
	if _, registered := set[sub]; !registered {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.rooms, sub.roomID)
	}
	close(sub.ch)
}

// Broadcast delivers event to every current subscriber of roomID.
// Delivery is fire-and-forget per subscriber: a subscriber whose buffer
// is full misses the event, which is fine because the event is a resync
// trigger, not a message bus. Sends happen under the registry lock, so
// per-room delivery order matches Broadcast call order and a concurrent
// Unsubscribe can never close a channel mid-send.
func (h *Hub) Broadcast(roomID string, event models.RoomEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.rooms[roomID] {
		select {
		case sub.ch <- event:
		default:
		}
	}
}

// SubscriberCount reports the number of live subscriptions for a room.
func (h *Hub) SubscriberCount(roomID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}
