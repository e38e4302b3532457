package models

import "time"

// RoomEvent is the payload fanned out to live subscribers of a chat room.
// It is an invalidation signal: clients must refetch the message list and
// must not apply the payload as a state patch.
type RoomEvent struct {
	ChatRoomID string       `json:"chatRoomId"`
	Message    MessageEvent `json:"message"`
}

// MessageEvent mirrors the fields of the just-created message for display
// purposes only.
type MessageEvent struct {
	ID        string     `json:"id"`
	SenderID  string     `json:"senderId"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	Sender    PublicUser `json:"sender"`
	Location  *Location  `json:"location,omitempty"`
}
