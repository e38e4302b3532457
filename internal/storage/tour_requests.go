package storage

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"seoulmate/backend/internal/models"
)

// CreateTourRequest saves a new PENDING request in PostgreSQL.
func (s *Service) CreateTourRequest(req *models.TourRequest) error {
	return s.DB.Create(req).Error
}

// GetTourRequestByID loads a request without relations.
func (s *Service) GetTourRequestByID(id string) (*models.TourRequest, error) {
	var req models.TourRequest
	err := s.DB.Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// GetTourRequestDetail loads a request with both parties, the chat room
// and the review.
func (s *Service) GetTourRequestDetail(id string) (*models.TourRequest, error) {
	var req models.TourRequest
	err := s.DB.
		Preload("Traveler").Preload("Traveler.TravelerProfile").
		Preload("Guide").Preload("Guide.GuideProfile").
		Preload("ChatRoom").Preload("Review").
		Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *Service) ListRequestsByTraveler(travelerID string) ([]models.TourRequest, error) {
	var requests []models.TourRequest
	err := s.DB.
		Preload("Guide").Preload("Guide.GuideProfile").
		Preload("ChatRoom").Preload("Review").
		Where("traveler_id = ?", travelerID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		log.Printf("ERROR: Failed to list requests for traveler %s: %v", travelerID, err)
		return nil, err
	}
	return requests, nil
}

func (s *Service) ListRequestsByGuide(guideID string) ([]models.TourRequest, error) {
	var requests []models.TourRequest
	err := s.DB.
		Preload("Traveler").Preload("Traveler.TravelerProfile").
		Preload("ChatRoom").Preload("Review").
		Where("guide_id = ?", guideID).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		log.Printf("ERROR: Failed to list requests for guide %s: %v", guideID, err)
		return nil, err
	}
	return requests, nil
}

// UpdateTourRequestStatus moves a request to the target status only when
// its current status is one of from. The conditional UPDATE makes the
// transition race-safe: of two concurrent callers exactly one observes
// RowsAffected == 1.
func (s *Service) UpdateTourRequestStatus(id string, from []models.TourRequestStatus, to models.TourRequestStatus) (bool, error) {
	res := s.DB.Model(&models.TourRequest{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		log.Printf("ERROR: Failed to update status of request %s: %v", id, res.Error)
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AcceptTourRequest performs the PENDING -> ACCEPTED transition and the
// chat room creation as one transaction. Both writes succeed together or
// neither does: no request is left ACCEPTED without a room and no orphan
// room is created. Returns applied = false when the request was not
// PENDING anymore (lost race or already processed).
func (s *Service) AcceptTourRequest(id string) (*models.ChatRoom, bool, error) {
	var room *models.ChatRoom
	applied := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.TourRequest{}).
			Where("id = ? AND status = ?", id, models.StatusPending).
			Update("status", models.StatusAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		newRoom := &models.ChatRoom{TourRequestID: id}
		if err := tx.Create(newRoom).Error; err != nil {
			return err
		}

		room = newRoom
		applied = true
		return nil
	})
	if err != nil {
		log.Printf("ERROR: Failed to accept request %s: %v", id, err)
		return nil, false, err
	}
	return room, applied, nil
}
