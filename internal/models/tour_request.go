package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TourRequestStatus is the lifecycle state of a tour request.
// PENDING is the initial state; REJECTED, CANCELLED and COMPLETED are terminal.
type TourRequestStatus string

const (
	StatusPending   TourRequestStatus = "PENDING"
	StatusAccepted  TourRequestStatus = "ACCEPTED"
	StatusRejected  TourRequestStatus = "REJECTED"
	StatusCancelled TourRequestStatus = "CANCELLED"
	StatusCompleted TourRequestStatus = "COMPLETED"
)

// TourCategory is the kind of tour the traveler is asking for.
type TourCategory string

const (
	CategoryFood      TourCategory = "FOOD"
	CategoryCafe      TourCategory = "CAFE"
	CategoryHistory   TourCategory = "HISTORY"
	CategoryNature    TourCategory = "NATURE"
	CategoryShopping  TourCategory = "SHOPPING"
	CategoryNightlife TourCategory = "NIGHTLIFE"
)

// ValidCategory reports whether c is one of the recognized tour categories.
func ValidCategory(c TourCategory) bool {
	switch c {
	case CategoryFood, CategoryCafe, CategoryHistory, CategoryNature, CategoryShopping, CategoryNightlife:
		return true
	}
	return false
}

// TourRequest is one traveler's ask to one guide for a tour on a given date.
// The associated ChatRoom exists only after the guide accepts, and at most
// one Review exists, created after completion.
type TourRequest struct {
	ID            string            `gorm:"primaryKey" json:"id"`
	TravelerID    string            `gorm:"not null;index" json:"travelerId"`
	GuideID       string            `gorm:"not null;index" json:"guideId"`
	RequestedDate time.Time         `gorm:"not null" json:"requestedDate"`
	Message       string            `gorm:"type:text;not null" json:"message"`
	Category      TourCategory      `gorm:"type:text;not null" json:"category"`
	IsOnline      bool              `json:"isOnline"`
	Status        TourRequestStatus `gorm:"type:text;not null;default:PENDING" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Traveler *User     `gorm:"foreignKey:TravelerID" json:"traveler,omitempty"`
	Guide    *User     `gorm:"foreignKey:GuideID" json:"guide,omitempty"`
	ChatRoom *ChatRoom `json:"chatRoom,omitempty"`
	Review   *Review   `json:"review,omitempty"`
}

func (r *TourRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return
}

// IsParty reports whether userID is one of the two parties bound to the request.
func (r *TourRequest) IsParty(userID string) bool {
	return r.TravelerID == userID || r.GuideID == userID
}

// OtherParty returns the id of the counterpart of userID on this request.
func (r *TourRequest) OtherParty(userID string) string {
	if r.TravelerID == userID {
		return r.GuideID
	}
	return r.TravelerID
}
