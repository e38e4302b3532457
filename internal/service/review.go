package service

import (
	"log"
	"strings"

	"seoulmate/backend/internal/models"
	"seoulmate/backend/internal/storage"
	apperrors "seoulmate/backend/pkg/errors"
)

const (
	minReviewCommentLength = 10
	maxReviewCommentLength = 500
	defaultReviewPageSize  = 10
	maxReviewPageSize      = 50
)

// ReviewService handles review creation and the guide rating aggregates
// derived from it.
type ReviewService struct {
	Storage storage.Storage
}

func NewReviewService(s storage.Storage) *ReviewService {
	return &ReviewService{Storage: s}
}

type CreateReviewInput struct {
	TourRequestID string
	Rating        int
	Comment       string
}

// ReviewPage is one page of a guide's reviews plus the next cursor.
type ReviewPage struct {
	Reviews    []models.Review `json:"reviews"`
	NextCursor string          `json:"nextCursor,omitempty"`
}

func validateReviewContent(rating int, comment string) (string, error) {
	if rating < 1 || rating > 5 {
		return "", apperrors.InvalidArg("rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if len(comment) < minReviewCommentLength || len(comment) > maxReviewCommentLength {
		return "", apperrors.InvalidArg("comment must be between 10 and 500 characters")
	}
	return comment, nil
}

// Create writes the traveler's review of a completed tour. One review per
// tour request; on success the guide's averageRating is recomputed over
// all received reviews and totalTours is incremented.
func (r *ReviewService) Create(actorID string, input CreateReviewInput) (*models.Review, error) {
	req, err := r.Storage.GetTourRequestDetail(input.TourRequestID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load tour request", err)
	}
	if req == nil {
		return nil, apperrors.NotFound("tour request not found")
	}
	if req.TravelerID != actorID {
		return nil, apperrors.Forbidden("only the traveler of this tour can review it")
	}
	if req.Status != models.StatusCompleted {
		return nil, apperrors.ErrTourNotCompleted
	}
	if req.Review != nil {
		return nil, apperrors.ErrReviewExists
	}

	comment, err := validateReviewContent(input.Rating, input.Comment)
	if err != nil {
		return nil, err
	}

	review := &models.Review{
		TourRequestID: input.TourRequestID,
		AuthorID:      actorID,
		ReceiverID:    req.GuideID,
		Rating:        input.Rating,
		Comment:       comment,
	}
	if err := r.Storage.CreateReview(review); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create review", err)
	}

	log.Printf("INFO: Review %s created for guide %s (rating %d)", review.ID, req.GuideID, input.Rating)
	return review, nil
}

// ListByGuide pages through a guide's received reviews, newest first.
// Public: no session required.
func (r *ReviewService) ListByGuide(guideID string, limit int, cursor string) (*ReviewPage, error) {
	if limit <= 0 {
		limit = defaultReviewPageSize
	}
	if limit > maxReviewPageSize {
		limit = maxReviewPageSize
	}

	reviews, err := r.Storage.ListReviewsByGuide(guideID, limit+1, cursor)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list reviews", err)
	}

	nextCursor := ""
	if len(reviews) > limit {
		nextCursor = reviews[limit].ID
		reviews = reviews[:limit]
	}
	return &ReviewPage{Reviews: reviews, NextCursor: nextCursor}, nil
}

// MyReviews lists the reviews the caller received as a guide.
func (r *ReviewService) MyReviews(actorID string) ([]models.Review, error) {
	reviews, err := r.Storage.ListReviewsReceived(actorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list reviews", err)
	}
	return reviews, nil
}

// SentReviews lists the reviews the caller wrote as a traveler.
func (r *ReviewService) SentReviews(actorID string) ([]models.Review, error) {
	reviews, err := r.Storage.ListReviewsByAuthor(actorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list reviews", err)
	}
	return reviews, nil
}

type UpdateReviewInput struct {
	Rating  *int
	Comment *string
}

// Update edits the caller's own review and refreshes the guide's average.
func (r *ReviewService) Update(actorID, reviewID string, input UpdateReviewInput) (*models.Review, error) {
	review, err := r.Storage.GetReviewByID(reviewID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load review", err)
	}
	if review == nil || review.AuthorID != actorID {
		return nil, apperrors.ErrReviewNotFound
	}

	rating := review.Rating
	comment := review.Comment
	if input.Rating != nil {
		rating = *input.Rating
	}
	if input.Comment != nil {
		comment = *input.Comment
	}
	comment, err = validateReviewContent(rating, comment)
	if err != nil {
		return nil, err
	}

	review.Rating = rating
	review.Comment = comment
	if err := r.Storage.UpdateReview(review); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to update review", err)
	}
	return review, nil
}

// Delete removes the caller's own review and refreshes the guide's
// aggregates.
func (r *ReviewService) Delete(actorID, reviewID string) error {
	review, err := r.Storage.GetReviewByID(reviewID)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to load review", err)
	}
	if review == nil || review.AuthorID != actorID {
		return apperrors.ErrReviewNotFound
	}

	if err := r.Storage.DeleteReview(review); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to delete review", err)
	}
	return nil
}
