package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatRoom is the message container bound 1:1 to an accepted tour request.
// It is created atomically with the accept transition and never deleted;
// UpdatedAt is bumped on every message send and drives room list ordering.
type ChatRoom struct {
	ID            string `gorm:"primaryKey" json:"id"`
	TourRequestID string `gorm:"uniqueIndex;not null" json:"tourRequestId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *ChatRoom) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
