package storage

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"seoulmate/backend/internal/models"
)

func (s *Service) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	var room models.ChatRoom
	err := s.DB.Where("id = ?", roomID).First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		log.Printf("ERROR: Failed to get room %s: %v", roomID, err)
		return nil, err
	}
	return &room, nil
}

// GetRoomWithRequest loads a room together with its tour request and
// both parties, which every chat authorization check needs.
func (s *Service) GetRoomWithRequest(roomID string) (*models.ChatRoom, *models.TourRequest, error) {
	room, err := s.GetRoomByID(roomID)
	if err != nil || room == nil {
		return nil, nil, err
	}

	var req models.TourRequest
	err = s.DB.
		Preload("Traveler").Preload("Guide").Preload("Guide.GuideProfile").
		Where("id = ?", room.TourRequestID).First(&req).Error
	if err != nil {
		log.Printf("ERROR: Failed to load request for room %s: %v", roomID, err)
		return nil, nil, err
	}
	return room, &req, nil
}

// ListRoomRequestsForUser returns the tour requests that have a chat room
// and involve the user, newest room activity first.
func (s *Service) ListRoomRequestsForUser(userID string) ([]models.TourRequest, error) {
	var requests []models.TourRequest
	err := s.DB.
		Joins("JOIN chat_rooms ON chat_rooms.tour_request_id = tour_requests.id").
		Preload("ChatRoom").Preload("Traveler").Preload("Guide").
		Where("tour_requests.traveler_id = ? OR tour_requests.guide_id = ?", userID, userID).
		Order("chat_rooms.updated_at DESC").
		Find(&requests).Error
	if err != nil {
		log.Printf("ERROR: Failed to list rooms for user %s: %v", userID, err)
		return nil, err
	}
	return requests, nil
}

// GetLastMessage returns the newest message of a room, or nil for an
// empty room.
func (s *Service) GetLastMessage(roomID string) (*models.Message, error) {
	var msg models.Message
	err := s.DB.Preload("Sender").
		Where("chat_room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns up to limit messages newest-first, starting at the
// cursor message when a cursor is given. The anchor is included: callers
// hand out the first not-yet-shown row as the cursor, so the next page
// must begin with it or pagination would skip one row per page. Ordering
// is (created_at, id) so same-timestamp messages paginate stably.
func (s *Service) ListMessages(roomID string, limit int, cursor string) ([]models.Message, error) {
	q := s.DB.Preload("Sender").
		Where("chat_room_id = ?", roomID).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursor != "" {
		var anchor models.Message
		err := s.DB.Where("id = ? AND chat_room_id = ?", cursor, roomID).First(&anchor).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Stale cursor: treat as first page rather than failing the view.
			log.Printf("WARNING: Stale message cursor %s for room %s", cursor, roomID)
		} else if err != nil {
			return nil, err
		} else {
			q = q.Where("(created_at < ?) OR (created_at = ? AND id <= ?)",
				anchor.CreatedAt, anchor.CreatedAt, anchor.ID)
		}
	}

	var messages []models.Message
	if err := q.Find(&messages).Error; err != nil {
		log.Printf("ERROR: Failed to list messages for room %s: %v", roomID, err)
		return nil, err
	}
	return messages, nil
}

// CreateMessage persists a message and bumps the room's updated_at in the
// same transaction, so room list ordering can never miss a send.
func (s *Service) CreateMessage(msg *models.Message) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			log.Printf("ERROR: Failed to save message for room %s: %v", msg.ChatRoomID, err)
			return err
		}
		return tx.Model(&models.ChatRoom{}).
			Where("id = ?", msg.ChatRoomID).
			Update("updated_at", time.Now()).Error
	})
}
