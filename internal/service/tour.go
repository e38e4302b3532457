package service

import (
	"log"
	"strings"
	"time"

	"seoulmate/backend/internal/models"
	"seoulmate/backend/internal/ratelimit"
	"seoulmate/backend/internal/storage"
	apperrors "seoulmate/backend/pkg/errors"
)

// TourService owns the tour-request lifecycle:
//
//	PENDING -> ACCEPTED -> COMPLETED
//	PENDING -> REJECTED
//	PENDING/ACCEPTED -> CANCELLED
//
// REJECTED, CANCELLED and COMPLETED are terminal. The accept transition
// is the only place a chat room is ever created.
type TourService struct {
	Storage storage.Storage
	Limiter *ratelimit.Limiter
}

func NewTourService(s storage.Storage, limiter *ratelimit.Limiter) *TourService {
	return &TourService{Storage: s, Limiter: limiter}
}

type CreateTourRequestInput struct {
	GuideID       string
	RequestedDate time.Time
	Message       string
	Category      models.TourCategory
	IsOnline      bool
}

// Create files a new PENDING request from a traveler to a guide.
func (t *TourService) Create(actorID string, input CreateTourRequestInput) (*models.TourRequest, error) {
	if res := t.Limiter.Check(ratelimit.ActionTourRequest, actorID); !res.Allowed {
		return nil, tooManyRequests("too many tour requests", res)
	}

	actor, err := t.Storage.GetUserByID(actorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load user", err)
	}
	if actor == nil || actor.Role != models.RoleTraveler {
		return nil, apperrors.ErrTravelerOnly
	}

	guide, err := t.Storage.GetGuideByID(input.GuideID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load guide", err)
	}
	if guide == nil {
		return nil, apperrors.ErrGuideNotFound
	}

	input.Message = strings.TrimSpace(input.Message)
	if input.Message == "" || len(input.Message) > 2000 {
		return nil, apperrors.InvalidArg("message must be between 1 and 2000 characters")
	}
	if !models.ValidCategory(input.Category) {
		return nil, apperrors.InvalidArg("unknown tour category")
	}
	if input.RequestedDate.IsZero() {
		return nil, apperrors.InvalidArg("requested date is required")
	}

	req := &models.TourRequest{
		TravelerID:    actorID,
		GuideID:       input.GuideID,
		RequestedDate: input.RequestedDate,
		Message:       input.Message,
		Category:      input.Category,
		IsOnline:      input.IsOnline,
		Status:        models.StatusPending,
	}
	if err := t.Storage.CreateTourRequest(req); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create tour request", err)
	}

	log.Printf("INFO: Tour request %s created by %s for guide %s", req.ID, actorID, input.GuideID)
	return req, nil
}

// ownedByGuide loads the request and verifies the acting guide owns it.
// The original surfaces "not found" for foreign requests too, so ids
// cannot be probed.
func (t *TourService) ownedByGuide(actorID, requestID string) (*models.TourRequest, error) {
	actor, err := t.Storage.GetUserByID(actorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load user", err)
	}
	if actor == nil || actor.Role != models.RoleGuide {
		return nil, apperrors.ErrGuideOnly
	}

	req, err := t.Storage.GetTourRequestByID(requestID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load tour request", err)
	}
	if req == nil || req.GuideID != actorID {
		return nil, apperrors.ErrRequestNotFound
	}
	return req, nil
}

// Accept moves a PENDING request to ACCEPTED and creates its chat room.
// The two writes are one atomic unit; concurrent accepts resolve to
// exactly one winner and the loser sees "already processed".
func (t *TourService) Accept(actorID, requestID string) (*models.TourRequest, *models.ChatRoom, error) {
	req, err := t.ownedByGuide(actorID, requestID)
	if err != nil {
		return nil, nil, err
	}
	if req.Status != models.StatusPending {
		return nil, nil, apperrors.ErrAlreadyProcessed
	}

	room, applied, err := t.Storage.AcceptTourRequest(requestID)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, "failed to accept tour request", err)
	}
	if !applied {
		// Lost the race against another transition.
		return nil, nil, apperrors.ErrAlreadyProcessed
	}

	req.Status = models.StatusAccepted
	req.ChatRoom = room
	log.Printf("INFO: Tour request %s accepted, chat room %s created", requestID, room.ID)
	return req, room, nil
}

// Reject moves a PENDING request to REJECTED. No side effects.
func (t *TourService) Reject(actorID, requestID string) (*models.TourRequest, error) {
	req, err := t.ownedByGuide(actorID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusPending {
		return nil, apperrors.ErrAlreadyProcessed
	}

	applied, err := t.Storage.UpdateTourRequestStatus(requestID,
		[]models.TourRequestStatus{models.StatusPending}, models.StatusRejected)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to reject tour request", err)
	}
	if !applied {
		return nil, apperrors.ErrAlreadyProcessed
	}

	req.Status = models.StatusRejected
	return req, nil
}

// Cancel lets the traveler withdraw a PENDING or ACCEPTED request. An
// existing chat room is kept for history.
func (t *TourService) Cancel(actorID, requestID string) (*models.TourRequest, error) {
	req, err := t.Storage.GetTourRequestByID(requestID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load tour request", err)
	}
	if req == nil || req.TravelerID != actorID {
		return nil, apperrors.ErrRequestNotFound
	}
	if req.Status != models.StatusPending && req.Status != models.StatusAccepted {
		return nil, apperrors.ErrNotCancellable
	}

	applied, err := t.Storage.UpdateTourRequestStatus(requestID,
		[]models.TourRequestStatus{models.StatusPending, models.StatusAccepted}, models.StatusCancelled)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to cancel tour request", err)
	}
	if !applied {
		return nil, apperrors.ErrNotCancellable
	}

	req.Status = models.StatusCancelled
	return req, nil
}

// Complete moves an ACCEPTED request to COMPLETED, enabling review
// creation by the traveler.
func (t *TourService) Complete(actorID, requestID string) (*models.TourRequest, error) {
	req, err := t.ownedByGuide(actorID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.StatusAccepted {
		return nil, apperrors.ErrNotCompletable
	}

	applied, err := t.Storage.UpdateTourRequestStatus(requestID,
		[]models.TourRequestStatus{models.StatusAccepted}, models.StatusCompleted)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to complete tour request", err)
	}
	if !applied {
		return nil, apperrors.ErrNotCompletable
	}

	req.Status = models.StatusCompleted
	return req, nil
}

// GetByID returns the full request to either of its parties.
func (t *TourService) GetByID(actorID, requestID string) (*models.TourRequest, error) {
	req, err := t.Storage.GetTourRequestDetail(requestID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load tour request", err)
	}
	if req == nil {
		return nil, apperrors.NotFound("tour request not found")
	}
	if !req.IsParty(actorID) {
		return nil, apperrors.Forbidden("you are not a party to this request")
	}
	return req, nil
}

// MyRequests lists the requests the traveler sent.
func (t *TourService) MyRequests(actorID string) ([]models.TourRequest, error) {
	requests, err := t.Storage.ListRequestsByTraveler(actorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list tour requests", err)
	}
	return requests, nil
}

// ReceivedRequests lists the requests a guide received.
func (t *TourService) ReceivedRequests(actorID string) ([]models.TourRequest, error) {
	actor, err := t.Storage.GetUserByID(actorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load user", err)
	}
	if actor == nil || actor.Role != models.RoleGuide {
		return nil, apperrors.ErrGuideOnly
	}

	requests, err := t.Storage.ListRequestsByGuide(actorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list tour requests", err)
	}
	return requests, nil
}
