package storage

import (
	"errors"
	"log"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"seoulmate/backend/internal/models"
)

// CreateUser saves a new user in PostgreSQL.
func (s *Service) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

// GetUserByID loads a user with both profile relations.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Preload("GuideProfile").Preload("TravelerProfile").
		Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetGuideByID loads a user only when they hold the guide role.
func (s *Service) GetGuideByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Preload("GuideProfile").
		Where("id = ? AND role = ?", id, models.RoleGuide).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) UpdateUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) SaveGuideProfile(profile *models.GuideProfile) error {
	return s.DB.Save(profile).Error
}

func (s *Service) SaveTravelerProfile(profile *models.TravelerProfile) error {
	return s.DB.Save(profile).Error
}

// ListGuides returns guides matching the filter, page by page.
func (s *Service) ListGuides(filter GuideFilter) ([]models.User, error) {
	q := s.DB.Model(&models.User{}).
		Joins("JOIN guide_profiles ON guide_profiles.user_id = users.id").
		Where("users.role = ?", models.RoleGuide).
		Preload("GuideProfile")

	if len(filter.Languages) > 0 {
		q = q.Where("guide_profiles.languages && ?", pq.StringArray(filter.Languages))
	}
	if len(filter.Categories) > 0 {
		q = q.Where("guide_profiles.categories && ?", pq.StringArray(filter.Categories))
	}
	if filter.MinRating > 0 {
		q = q.Where("guide_profiles.average_rating >= ?", filter.MinRating)
	}

	switch filter.SortBy {
	case "tours":
		q = q.Order("guide_profiles.total_tours DESC")
	case "recent":
		q = q.Order("users.created_at DESC")
	default:
		q = q.Order("guide_profiles.average_rating DESC")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var guides []models.User
	if err := q.Limit(limit).Offset((page - 1) * limit).Find(&guides).Error; err != nil {
		log.Printf("ERROR: Failed to list guides: %v", err)
		return nil, err
	}
	return guides, nil
}
