package service_test

import (
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"seoulmate/backend/internal/models"
	"seoulmate/backend/internal/service"
	apperrors "seoulmate/backend/pkg/errors"
)

// roomFixture is a room bound to an accepted request between traveler1
// and guide1, with both parties preloaded.
func roomFixture() (*models.ChatRoom, *models.TourRequest) {
	room := &models.ChatRoom{ID: "room1", TourRequestID: "req1", UpdatedAt: time.Now()}
	req := &models.TourRequest{
		ID:         "req1",
		TravelerID: "traveler1",
		GuideID:    "guide1",
		Status:     models.StatusAccepted,
		Traveler:   newTraveler("traveler1"),
		Guide:      newGuide("guide1"),
		ChatRoom:   room,
	}
	return room, req
}

func newChatService(storageMock *MockStorage) (*service.ChatService, *mockBroadcaster) {
	broadcaster := &mockBroadcaster{}
	return service.NewChatService(storageMock, newTestLimiter(), broadcaster), broadcaster
}

func TestChatService_GetRoomInfo(t *testing.T) {
	storageMock := new(MockStorage)
	svc, _ := newChatService(storageMock)

	room, req := roomFixture()
	storageMock.On("GetRoomWithRequest", "room1").Return(room, req, nil)

	info, err := svc.GetRoomInfo("traveler1", "room1")
	assert.NoError(t, err)
	assert.Equal(t, "room1", info.ChatRoom.ID)
	assert.Equal(t, "guide1", info.OtherUser.ID)

	info, err = svc.GetRoomInfo("guide1", "room1")
	assert.NoError(t, err)
	assert.Equal(t, "traveler1", info.OtherUser.ID)
}

func TestChatService_GetRoomInfo_Stranger(t *testing.T) {
	storageMock := new(MockStorage)
	svc, _ := newChatService(storageMock)

	room, req := roomFixture()
	storageMock.On("GetRoomWithRequest", "room1").Return(room, req, nil)

	_, err := svc.GetRoomInfo("stranger", "room1")

	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
	assert.Equal(t, apperrors.CodePermissionDenied, apperrors.CodeOf(err))
}

func TestChatService_GetRoomInfo_MissingRoom(t *testing.T) {
	storageMock := new(MockStorage)
	svc, _ := newChatService(storageMock)

	storageMock.On("GetRoomWithRequest", "ghost").Return(nil, nil, nil)

	_, err := svc.GetRoomInfo("traveler1", "ghost")

	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
}

func TestChatService_ListMessages_Pagination(t *testing.T) {
	storageMock := new(MockStorage)
	svc, _ := newChatService(storageMock)

	room, req := roomFixture()
	storageMock.On("GetRoomWithRequest", "room1").Return(room, req, nil)

	base := time.Now()
	// Storage order: newest first, one extra row beyond the page.
	newestFirst := []models.Message{
		{ID: "m3", ChatRoomID: "room1", Content: "three", CreatedAt: base},
		{ID: "m2", ChatRoomID: "room1", Content: "two", CreatedAt: base.Add(-time.Minute)},
		{ID: "m1", ChatRoomID: "room1", Content: "one", CreatedAt: base.Add(-2 * time.Minute)},
	}
	storageMock.On("ListMessages", "room1", 3, "").Return(newestFirst, nil)

	page, err := svc.ListMessages("traveler1", "room1", 2, "")

	assert.NoError(t, err)
	assert.Len(t, page.Messages, 2)
	// Chronological within the page, extra row becomes the cursor.
	assert.Equal(t, "m2", page.Messages[0].ID)
	assert.Equal(t, "m3", page.Messages[1].ID)
	assert.Equal(t, "m1", page.NextCursor)
}

func TestChatService_ListMessages_LastPage(t *testing.T) {
	storageMock := new(MockStorage)
	svc, _ := newChatService(storageMock)

	room, req := roomFixture()
	storageMock.On("GetRoomWithRequest", "room1").Return(room, req, nil)

	// The cursor names the first not-yet-shown row, so storage returns it
	// as the head of the next page.
	newestFirst := []models.Message{
		{ID: "m3", ChatRoomID: "room1", Content: "three"},
		{ID: "m2", ChatRoomID: "room1", Content: "two"},
		{ID: "m1", ChatRoomID: "room1", Content: "one"},
	}
	storageMock.On("ListMessages", "room1", 6, "m3").Return(newestFirst, nil)

	page, err := svc.ListMessages("traveler1", "room1", 5, "m3")

	assert.NoError(t, err)
	assert.Len(t, page.Messages, 3)
	assert.Equal(t, "m1", page.Messages[0].ID)
	assert.Equal(t, "m3", page.Messages[2].ID)
	assert.Empty(t, page.NextCursor)
}

func TestChatService_ListMessages_LimitClamped(t *testing.T) {
	storageMock := new(MockStorage)
	svc, _ := newChatService(storageMock)

	room, req := roomFixture()
	storageMock.On("GetRoomWithRequest", "room1").Return(room, req, nil)

	// Zero falls back to the default page size, oversized is capped.
	storageMock.On("ListMessages", "room1", 51, "").Return([]models.Message{}, nil)
	storageMock.On("ListMessages", "room1", 101, "").Return([]models.Message{}, nil)

	_, err := svc.ListMessages("traveler1", "room1", 0, "")
	assert.NoError(t, err)
	_, err = svc.ListMessages("traveler1", "room1", 1000, "")
	assert.NoError(t, err)

	storageMock.AssertCalled(t, "ListMessages", "room1", 51, "")
	storageMock.AssertCalled(t, "ListMessages", "room1", 101, "")
}

// messageStore reimplements the storage pagination query in memory:
// newest-first (created_at, id) ordering, limited, with an inclusive
// anchor at the cursor row. Keeping it faithful to the SQL lets the
// round-trip test below exercise the service and the query contract
// together.
type messageStore struct {
	*MockStorage
	messages []models.Message
}

func (s *messageStore) ListMessages(roomID string, limit int, cursor string) ([]models.Message, error) {
	sorted := make([]models.Message, len(s.messages))
	copy(sorted, s.messages)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})

	var anchor *models.Message
	if cursor != "" {
		for i := range sorted {
			if sorted[i].ID == cursor {
				anchor = &sorted[i]
				break
			}
		}
	}

	var out []models.Message
	for _, m := range sorted {
		if anchor != nil {
			atOrBelow := m.CreatedAt.Before(anchor.CreatedAt) ||
				(m.CreatedAt.Equal(anchor.CreatedAt) && m.ID <= anchor.ID)
			if !atOrBelow {
				continue
			}
		}
		out = append(out, m)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func TestChatService_ListMessages_RoundTrip(t *testing.T) {
	storageMock := new(MockStorage)
	room, req := roomFixture()
	storageMock.On("GetRoomWithRequest", "room1").Return(room, req, nil)

	// 10 messages in chronological order, including same-timestamp runs
	// that force the id tie-break.
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	var all []models.Message
	for i := 0; i < 10; i++ {
		all = append(all, models.Message{
			ID:         fmt.Sprintf("m%02d", i),
			ChatRoomID: "room1",
			Content:    fmt.Sprintf("msg-%d", i),
			CreatedAt:  base.Add(time.Duration(i/3) * time.Minute),
		})
	}

	store := &messageStore{MockStorage: storageMock, messages: all}
	svc := service.NewChatService(store, newTestLimiter(), &mockBroadcaster{})

	for _, k := range []int{1, 2, 3, 4, 5, 7, 10, 11} {
		var got []string
		cursor := ""
		for {
			page, err := svc.ListMessages("traveler1", "room1", k, cursor)
			assert.NoError(t, err)
			assert.LessOrEqual(t, len(page.Messages), k)
			for _, m := range page.Messages {
				got = append(got, m.ID)
			}
			if page.NextCursor == "" {
				break
			}
			cursor = page.NextCursor
		}

		// Pages walk backwards (newest page first) and each page is
		// chronological within itself.
		var want []string
		for start := len(all); start > 0; start -= k {
			lo := start - k
			if lo < 0 {
				lo = 0
			}
			for i := lo; i < start; i++ {
				want = append(want, all[i].ID)
			}
		}
		assert.Equal(t, want, got, "page size %d must reconstruct the history with no gaps or duplicates", k)
	}
}

func TestChatService_SendMessage(t *testing.T) {
	storageMock := new(MockStorage)
	svc, broadcaster := newChatService(storageMock)

	room, req := roomFixture()
	storageMock.On("GetRoomWithRequest", "room1").Return(room, req, nil)
	storageMock.On("CreateMessage", mock.AnythingOfType("*models.Message")).Return(nil)

	msg, err := svc.SendMessage("traveler1", "room1", "  annyeong!  ", nil)

	assert.NoError(t, err)
	assert.Equal(t, "annyeong!", msg.Content)
	assert.Equal(t, "traveler1", msg.SenderID)
	assert.Nil(t, msg.GetLocation())

	events := broadcaster.Events()
	assert.Len(t, events, 1)
	assert.Equal(t, "room1", events[0].ChatRoomID)
	assert.Equal(t, "annyeong!", events[0].Message.Content)
	assert.Equal(t, "traveler1", events[0].Message.Sender.ID)
}

func TestChatService_SendMessage_WithLocation(t *testing.T) {
	storageMock := new(MockStorage)
	svc, broadcaster := newChatService(storageMock)

	room, req := roomFixture()
	storageMock.On("GetRoomWithRequest", "room1").Return(room, req, nil)
	storageMock.On("CreateMessage", mock.AnythingOfType("*models.Message")).Return(nil)

	loc := models.Location{
		PlaceID:      "place-123",
		PlaceName:    "Gyeongbokgung",
		PlaceAddress: "161 Sajik-ro, Jongno-gu",
		Latitude:     37.5796,
		Longitude:    126.977,
	}
	msg, err := svc.SendMessage("guide1", "room1", "meet here", &loc)

	assert.NoError(t, err)
	got := msg.GetLocation()
	assert.NotNil(t, got)
	assert.Equal(t, loc, *got)

	events := broadcaster.Events()
	assert.Len(t, events, 1)
	assert.Equal(t, &loc, events[0].Message.Location)
	assert.Equal(t, "guide1", events[0].Message.Sender.ID)
}

func TestChatService_SendMessage_Validation(t *testing.T) {
	storageMock := new(MockStorage)
	svc, broadcaster := newChatService(storageMock)

	room, req := roomFixture()
	storageMock.On("GetRoomWithRequest", "room1").Return(room, req, nil)

	_, err := svc.SendMessage("traveler1", "room1", "   ", nil)
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	_, err = svc.SendMessage("traveler1", "room1", strings.Repeat("a", 2001), nil)
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	storageMock.AssertNotCalled(t, "CreateMessage", mock.Anything)
	assert.Empty(t, broadcaster.Events())
}

func TestChatService_SendMessage_Stranger(t *testing.T) {
	storageMock := new(MockStorage)
	svc, broadcaster := newChatService(storageMock)

	room, req := roomFixture()
	storageMock.On("GetRoomWithRequest", "room1").Return(room, req, nil)

	_, err := svc.SendMessage("stranger", "room1", "hello", nil)

	assert.ErrorIs(t, err, apperrors.ErrNotParticipant)
	assert.Empty(t, broadcaster.Events())
}

func TestChatService_SendMessage_RateLimited(t *testing.T) {
	storageMock := new(MockStorage)
	svc, broadcaster := newChatService(storageMock)

	room, req := roomFixture()
	storageMock.On("GetRoomWithRequest", "room1").Return(room, req, nil)
	storageMock.On("CreateMessage", mock.AnythingOfType("*models.Message")).Return(nil)

	for i := 0; i < 5; i++ {
		_, err := svc.SendMessage("traveler1", "room1", "spam", nil)
		assert.NoError(t, err)
	}

	_, err := svc.SendMessage("traveler1", "room1", "spam", nil)

	assert.Equal(t, apperrors.CodeResourceExhausted, apperrors.CodeOf(err))
	assert.Len(t, broadcaster.Events(), 5)
}

func TestChatService_ListRooms(t *testing.T) {
	storageMock := new(MockStorage)
	svc, _ := newChatService(storageMock)

	_, withRoom := roomFixture()
	noRoom := &models.TourRequest{
		ID:         "req2",
		TravelerID: "traveler1",
		GuideID:    "guide2",
		Status:     models.StatusPending,
		Traveler:   newTraveler("traveler1"),
		Guide:      newGuide("guide2"),
	}
	storageMock.On("ListRoomRequestsForUser", "traveler1").Return(
		[]models.TourRequest{*withRoom, *noRoom}, nil)

	last := &models.Message{ID: "m9", ChatRoomID: "room1", Content: "see you at 3"}
	storageMock.On("GetLastMessage", "room1").Return(last, nil)

	summaries, err := svc.ListRooms("traveler1")

	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "room1", summaries[0].ID)
	assert.Equal(t, "req1", summaries[0].TourRequestID)
	assert.Equal(t, "guide1", summaries[0].Guide.ID)
	assert.Equal(t, "see you at 3", summaries[0].LastMessage.Content)
}
