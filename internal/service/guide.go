package service

import (
	"seoulmate/backend/internal/models"
	"seoulmate/backend/internal/storage"
	apperrors "seoulmate/backend/pkg/errors"
)

// GuideService serves the public guide directory.
type GuideService struct {
	Storage storage.Storage
}

func NewGuideService(s storage.Storage) *GuideService {
	return &GuideService{Storage: s}
}

// List returns guides matching the filter. Public: no session required.
func (g *GuideService) List(filter storage.GuideFilter) ([]models.User, error) {
	guides, err := g.Storage.ListGuides(filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list guides", err)
	}
	for i := range guides {
		guides[i].Password = ""
	}
	return guides, nil
}

// GuideDetail is a guide's public page: account, profile and their most
// recent reviews.
type GuideDetail struct {
	Guide   *models.User    `json:"guide"`
	Reviews []models.Review `json:"reviews"`
}

func (g *GuideService) GetByID(guideID string) (*GuideDetail, error) {
	guide, err := g.Storage.GetGuideByID(guideID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load guide", err)
	}
	if guide == nil {
		return nil, apperrors.ErrGuideNotFound
	}
	guide.Password = ""

	reviews, err := g.Storage.ListReviewsByGuide(guideID, 3, "")
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load reviews", err)
	}
	return &GuideDetail{Guide: guide, Reviews: reviews}, nil
}
