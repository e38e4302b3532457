package service

import (
	"strings"

	"seoulmate/backend/internal/chathub"
	"seoulmate/backend/internal/models"
	"seoulmate/backend/internal/ratelimit"
	"seoulmate/backend/internal/storage"
	apperrors "seoulmate/backend/pkg/errors"
)

const (
	defaultMessagePageSize = 50
	maxMessagePageSize     = 100
	maxMessageLength       = 2000
)

// ChatService authorizes and serves chat room access: room info, message
// history and message sending with realtime fan-out.
type ChatService struct {
	Storage     storage.Storage
	Limiter     *ratelimit.Limiter
	Broadcaster chathub.Broadcaster
}

func NewChatService(s storage.Storage, limiter *ratelimit.Limiter, b chathub.Broadcaster) *ChatService {
	return &ChatService{Storage: s, Limiter: limiter, Broadcaster: b}
}

// RoomInfo is the room view for one of its participants.
type RoomInfo struct {
	ChatRoom    *models.ChatRoom    `json:"chatRoom"`
	TourRequest *models.TourRequest `json:"tourRequest"`
	OtherUser   models.PublicUser   `json:"otherUser"`
}

// RoomSummary is one entry of the caller's room list.
type RoomSummary struct {
	ID            string            `json:"id"`
	TourRequestID string            `json:"tourRequestId"`
	Traveler      models.PublicUser `json:"traveler"`
	Guide         models.PublicUser `json:"guide"`
	LastMessage   *models.Message   `json:"lastMessage"`
	UpdatedAt     string            `json:"updatedAt"`
}

// MessagePage is one page of chronological messages plus the cursor for
// the next (older) page.
type MessagePage struct {
	Messages   []models.Message `json:"messages"`
	NextCursor string           `json:"nextCursor,omitempty"`
}

// authorizeRoom loads the room and verifies the actor is one of the two
// parties bound via the room's tour request.
func (c *ChatService) authorizeRoom(actorID, roomID string) (*models.ChatRoom, *models.TourRequest, error) {
	room, req, err := c.Storage.GetRoomWithRequest(roomID)
	if err != nil {
		return nil, nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load chat room", err)
	}
	if room == nil {
		return nil, nil, apperrors.ErrRoomNotFound
	}
	if !req.IsParty(actorID) {
		return nil, nil, apperrors.ErrNotParticipant
	}
	return room, req, nil
}

// GetRoomInfo returns the room, its tour request and the counterpart of
// the actor.
func (c *ChatService) GetRoomInfo(actorID, roomID string) (*RoomInfo, error) {
	room, req, err := c.authorizeRoom(actorID, roomID)
	if err != nil {
		return nil, err
	}

	var other models.PublicUser
	if req.TravelerID == actorID {
		if req.Guide != nil {
			other = req.Guide.Public()
		}
	} else if req.Traveler != nil {
		other = req.Traveler.Public()
	}

	return &RoomInfo{ChatRoom: room, TourRequest: req, OtherUser: other}, nil
}

// ListRooms returns the caller's chat rooms, most recent activity first.
func (c *ChatService) ListRooms(actorID string) ([]RoomSummary, error) {
	requests, err := c.Storage.ListRoomRequestsForUser(actorID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list chat rooms", err)
	}

	summaries := make([]RoomSummary, 0, len(requests))
	for _, req := range requests {
		if req.ChatRoom == nil {
			continue
		}
		last, err := c.Storage.GetLastMessage(req.ChatRoom.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load last message", err)
		}
		summary := RoomSummary{
			ID:            req.ChatRoom.ID,
			TourRequestID: req.ID,
			LastMessage:   last,
			UpdatedAt:     req.ChatRoom.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if req.Traveler != nil {
			summary.Traveler = req.Traveler.Public()
		}
		if req.Guide != nil {
			summary.Guide = req.Guide.Public()
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ListMessages pages backwards through a room's history. Storage is read
// newest-first with one extra row; the extra row becomes the next cursor
// and the page is reversed so each page displays oldest-first.
func (c *ChatService) ListMessages(actorID, roomID string, limit int, cursor string) (*MessagePage, error) {
	if _, _, err := c.authorizeRoom(actorID, roomID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultMessagePageSize
	}
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}

	messages, err := c.Storage.ListMessages(roomID, limit+1, cursor)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to list messages", err)
	}

	nextCursor := ""
	if len(messages) > limit {
		nextCursor = messages[limit].ID
		messages = messages[:limit]
	}

	// Reverse newest-first to chronological display order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return &MessagePage{Messages: messages, NextCursor: nextCursor}, nil
}

// SendMessage persists a message and notifies every live subscriber of
// the room before returning. The broadcast is part of the synchronous
// contract: when this returns, the stored message is queryable and all
// connected viewers have been signalled.
func (c *ChatService) SendMessage(actorID, roomID, content string, location *models.Location) (*models.Message, error) {
	if res := c.Limiter.Check(ratelimit.ActionChatSend, actorID); !res.Allowed {
		return nil, tooManyRequests("sending messages too fast", res)
	}

	_, req, err := c.authorizeRoom(actorID, roomID)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.InvalidArg("message cannot be empty")
	}
	if len(content) > maxMessageLength {
		return nil, apperrors.InvalidArg("message cannot exceed 2000 characters")
	}

	msg := &models.Message{
		ChatRoomID: roomID,
		SenderID:   actorID,
		Content:    content,
	}
	if location != nil {
		msg.SetLocation(*location)
	}

	if err := c.Storage.CreateMessage(msg); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to save message", err)
	}

	var sender models.PublicUser
	if req.TravelerID == actorID && req.Traveler != nil {
		sender = req.Traveler.Public()
	} else if req.Guide != nil {
		sender = req.Guide.Public()
	}

	c.Broadcaster.Broadcast(roomID, models.RoomEvent{
		ChatRoomID: roomID,
		Message: models.MessageEvent{
			ID:        msg.ID,
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt,
			Sender:    sender,
			Location:  msg.GetLocation(),
		},
	})

	return msg, nil
}
