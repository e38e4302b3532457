package storage

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"seoulmate/backend/internal/models"
)

// CreateReview saves the review and recomputes the guide's aggregates in
// one transaction: averageRating becomes the mean over all received
// ratings and totalTours is incremented.
func (s *Service) CreateReview(review *models.Review) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return recomputeGuideStats(tx, review.ReceiverID, 1)
	})
}

func (s *Service) GetReviewByID(id string) (*models.Review, error) {
	var review models.Review
	err := s.DB.Where("id = ?", id).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// UpdateReview saves the edited review and refreshes the guide's average.
func (s *Service) UpdateReview(review *models.Review) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(review).Error; err != nil {
			return err
		}
		return recomputeGuideStats(tx, review.ReceiverID, 0)
	})
}

// DeleteReview removes the review and refreshes the guide's aggregates,
// decrementing totalTours.
func (s *Service) DeleteReview(review *models.Review) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Review{}, "id = ?", review.ID).Error; err != nil {
			return err
		}
		return recomputeGuideStats(tx, review.ReceiverID, -1)
	})
}

// recomputeGuideStats rewrites the guide's averageRating from fresh
// aggregates and applies toursDelta to totalTours (floored at zero).
func recomputeGuideStats(tx *gorm.DB, guideID string, toursDelta int) error {
	var stats struct {
		Avg   float64
		Count int64
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Where("receiver_id = ?", guideID).
		Scan(&stats).Error
	if err != nil {
		return err
	}

	var profile models.GuideProfile
	if err := tx.Where("user_id = ?", guideID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Guide has no profile yet; nothing to update.
			log.Printf("WARNING: Guide %s has no profile, skipping stats update", guideID)
			return nil
		}
		return err
	}

	profile.AverageRating = stats.Avg
	profile.TotalTours += toursDelta
	if profile.TotalTours < 0 {
		profile.TotalTours = 0
	}
	return tx.Save(&profile).Error
}

// ListReviewsByGuide returns up to limit reviews for a guide newest-first,
// anchored at the cursor review when a cursor is given. The anchor is
// included, matching the message pagination: the cursor names the first
// not-yet-shown row, so the next page must begin with it.
func (s *Service) ListReviewsByGuide(guideID string, limit int, cursor string) ([]models.Review, error) {
	q := s.DB.Preload("Author").
		Where("receiver_id = ?", guideID).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if cursor != "" {
		var anchor models.Review
		err := s.DB.Where("id = ?", cursor).First(&anchor).Error
		if err == nil {
			q = q.Where("(created_at < ?) OR (created_at = ? AND id <= ?)",
				anchor.CreatedAt, anchor.CreatedAt, anchor.ID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var reviews []models.Review
	if err := q.Find(&reviews).Error; err != nil {
		log.Printf("ERROR: Failed to list reviews for guide %s: %v", guideID, err)
		return nil, err
	}
	return reviews, nil
}

func (s *Service) ListReviewsByAuthor(authorID string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *Service) ListReviewsReceived(guideID string) ([]models.Review, error) {
	var reviews []models.Review
	err := s.DB.Preload("Author").
		Where("receiver_id = ?", guideID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
