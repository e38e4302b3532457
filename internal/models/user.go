package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Role distinguishes the two sides of the marketplace.
type Role string

const (
	RoleTraveler Role = "TRAVELER"
	RoleGuide    Role = "GUIDE"
)

// User represents a registered account, either a traveler or a guide.
type User struct {
	ID       string `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Name     string `gorm:"not null" json:"name"`
	Image    string `json:"image"`
	Role     Role   `gorm:"type:text;not null" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	GuideProfile    *GuideProfile    `json:"guideProfile,omitempty"`
	TravelerProfile *TravelerProfile `json:"travelerProfile,omitempty"`
}

// BeforeCreate is a GORM hook that assigns a UUID when the ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}

// PublicUser is the subset of User safe to embed in responses about
// other people (chat counterparts, review authors).
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Image: u.Image}
}

// GuideProfile holds guide-only attributes and the rating aggregates
// recomputed on every review change.
type GuideProfile struct {
	ID            uint           `gorm:"primaryKey" json:"-"`
	UserID        string         `gorm:"uniqueIndex;not null" json:"userId"`
	Bio           string         `gorm:"type:text" json:"bio"`
	Languages     pq.StringArray `gorm:"type:text[]" json:"languages"`
	Categories    pq.StringArray `gorm:"type:text[]" json:"categories"`
	PricePerHour  int            `json:"pricePerHour"`
	AverageRating float64        `json:"averageRating"`
	TotalTours    int            `json:"totalTours"`
}

// TravelerProfile holds traveler-only attributes.
type TravelerProfile struct {
	ID          uint           `gorm:"primaryKey" json:"-"`
	UserID      string         `gorm:"uniqueIndex;not null" json:"userId"`
	Nationality string         `json:"nationality"`
	Interests   pq.StringArray `gorm:"type:text[]" json:"interests"`
}
