package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is the optional place payload a message can carry. The five
// fields travel as one unit: a message has either a full location or none.
type Location struct {
	PlaceID      string  `json:"placeId"`
	PlaceName    string  `json:"placeName"`
	PlaceAddress string  `json:"placeAddress"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// Message is one immutable entry in a chat room's ordered log.
// Ordering is by CreatedAt with ID as tie-break.
type Message struct {
	ID         string `gorm:"primaryKey" json:"id"`
	ChatRoomID string `gorm:"not null;index:idx_room_created" json:"chatRoomId"`
	SenderID   string `gorm:"not null" json:"senderId"`
	Content    string `gorm:"type:text;not null" json:"content"`

	// Location columns are flat for the database but only ever written
	// together, via the Location value on the service boundary.
	PlaceID      *string  `json:"placeId,omitempty"`
	PlaceName    *string  `json:"placeName,omitempty"`
	PlaceAddress *string  `json:"placeAddress,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `gorm:"index:idx_room_created" json:"createdAt"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// SetLocation attaches the full location group to the message.
func (m *Message) SetLocation(loc Location) {
	m.PlaceID = &loc.PlaceID
	m.PlaceName = &loc.PlaceName
	m.PlaceAddress = &loc.PlaceAddress
	m.Latitude = &loc.Latitude
	m.Longitude = &loc.Longitude
}

// GetLocation returns the location group, or nil when the message has none.
func (m *Message) GetLocation() *Location {
	if m.PlaceID == nil {
		return nil
	}
	return &Location{
		PlaceID:      *m.PlaceID,
		PlaceName:    *m.PlaceName,
		PlaceAddress: *m.PlaceAddress,
		Latitude:     *m.Latitude,
		Longitude:    *m.Longitude,
	}
}
