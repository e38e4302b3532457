package storage

import (
	"gorm.io/gorm"

	"seoulmate/backend/internal/models"
)

// Storage is everything the service layer needs from persistence. Get
// methods return (nil, nil) when the entity does not exist; callers
// translate that into their own not-found errors.
type Storage interface {
	// Users
	CreateUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetGuideByID(id string) (*models.User, error)
	UpdateUser(user *models.User) error
	SaveGuideProfile(profile *models.GuideProfile) error
	SaveTravelerProfile(profile *models.TravelerProfile) error
	ListGuides(filter GuideFilter) ([]models.User, error)

	// Tour requests
	CreateTourRequest(req *models.TourRequest) error
	GetTourRequestByID(id string) (*models.TourRequest, error)
	GetTourRequestDetail(id string) (*models.TourRequest, error)
	ListRequestsByTraveler(travelerID string) ([]models.TourRequest, error)
	ListRequestsByGuide(guideID string) ([]models.TourRequest, error)
	UpdateTourRequestStatus(id string, from []models.TourRequestStatus, to models.TourRequestStatus) (bool, error)
	AcceptTourRequest(id string) (*models.ChatRoom, bool, error)

	// Chat
	GetRoomByID(roomID string) (*models.ChatRoom, error)
	GetRoomWithRequest(roomID string) (*models.ChatRoom, *models.TourRequest, error)
	ListRoomRequestsForUser(userID string) ([]models.TourRequest, error)
	GetLastMessage(roomID string) (*models.Message, error)
	ListMessages(roomID string, limit int, cursor string) ([]models.Message, error)
	CreateMessage(msg *models.Message) error

	// Reviews
	CreateReview(review *models.Review) error
	GetReviewByID(id string) (*models.Review, error)
	UpdateReview(review *models.Review) error
	DeleteReview(review *models.Review) error
	ListReviewsByGuide(guideID string, limit int, cursor string) ([]models.Review, error)
	ListReviewsByAuthor(authorID string) ([]models.Review, error)
	ListReviewsReceived(guideID string) ([]models.Review, error)
}

// GuideFilter narrows and orders the guide directory listing.
type GuideFilter struct {
	Languages  []string
	Categories []string
	MinRating  float64
	SortBy     string // "rating", "tours" or "recent"
	Limit      int
	Page       int
}

type Service struct {
	DB *gorm.DB
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB) *Service {
	return &Service{DB: db}
}
