package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is the traveler's rating of a completed tour. At most one review
// exists per tour request.
type Review struct {
	ID            string `gorm:"primaryKey" json:"id"`
	TourRequestID string `gorm:"uniqueIndex;not null" json:"tourRequestId"`
	AuthorID      string `gorm:"not null;index" json:"authorId"`
	ReceiverID    string `gorm:"not null;index" json:"receiverId"`
	Rating        int    `gorm:"not null" json:"rating"`
	Comment       string `gorm:"type:text;not null" json:"comment"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}
