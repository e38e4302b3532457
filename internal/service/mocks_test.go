package service_test

import (
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"seoulmate/backend/internal/models"
	"seoulmate/backend/internal/ratelimit"
	"seoulmate/backend/internal/storage"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStorage) GetGuideByID(id string) (*models.User, error) {
	args := m.Called(id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *MockStorage) UpdateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) SaveGuideProfile(profile *models.GuideProfile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *MockStorage) SaveTravelerProfile(profile *models.TravelerProfile) error {
	args := m.Called(profile)
	return args.Error(0)
}

func (m *MockStorage) ListGuides(filter storage.GuideFilter) ([]models.User, error) {
	args := m.Called(filter)
	guides, _ := args.Get(0).([]models.User)
	return guides, args.Error(1)
}

func (m *MockStorage) CreateTourRequest(req *models.TourRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockStorage) GetTourRequestByID(id string) (*models.TourRequest, error) {
	args := m.Called(id)
	req, _ := args.Get(0).(*models.TourRequest)
	return req, args.Error(1)
}

func (m *MockStorage) GetTourRequestDetail(id string) (*models.TourRequest, error) {
	args := m.Called(id)
	req, _ := args.Get(0).(*models.TourRequest)
	return req, args.Error(1)
}

func (m *MockStorage) ListRequestsByTraveler(travelerID string) ([]models.TourRequest, error) {
	args := m.Called(travelerID)
	requests, _ := args.Get(0).([]models.TourRequest)
	return requests, args.Error(1)
}

func (m *MockStorage) ListRequestsByGuide(guideID string) ([]models.TourRequest, error) {
	args := m.Called(guideID)
	requests, _ := args.Get(0).([]models.TourRequest)
	return requests, args.Error(1)
}

func (m *MockStorage) UpdateTourRequestStatus(id string, from []models.TourRequestStatus, to models.TourRequestStatus) (bool, error) {
	args := m.Called(id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) AcceptTourRequest(id string) (*models.ChatRoom, bool, error) {
	args := m.Called(id)
	room, _ := args.Get(0).(*models.ChatRoom)
	return room, args.Bool(1), args.Error(2)
}

func (m *MockStorage) GetRoomByID(roomID string) (*models.ChatRoom, error) {
	args := m.Called(roomID)
	room, _ := args.Get(0).(*models.ChatRoom)
	return room, args.Error(1)
}

func (m *MockStorage) GetRoomWithRequest(roomID string) (*models.ChatRoom, *models.TourRequest, error) {
	args := m.Called(roomID)
	room, _ := args.Get(0).(*models.ChatRoom)
	req, _ := args.Get(1).(*models.TourRequest)
	return room, req, args.Error(2)
}

func (m *MockStorage) ListRoomRequestsForUser(userID string) ([]models.TourRequest, error) {
	args := m.Called(userID)
	requests, _ := args.Get(0).([]models.TourRequest)
	return requests, args.Error(1)
}

func (m *MockStorage) GetLastMessage(roomID string) (*models.Message, error) {
	args := m.Called(roomID)
	msg, _ := args.Get(0).(*models.Message)
	return msg, args.Error(1)
}

func (m *MockStorage) ListMessages(roomID string, limit int, cursor string) ([]models.Message, error) {
	args := m.Called(roomID, limit, cursor)
	messages, _ := args.Get(0).([]models.Message)
	return messages, args.Error(1)
}

func (m *MockStorage) CreateMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) CreateReview(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockStorage) GetReviewByID(id string) (*models.Review, error) {
	args := m.Called(id)
	review, _ := args.Get(0).(*models.Review)
	return review, args.Error(1)
}

func (m *MockStorage) UpdateReview(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockStorage) DeleteReview(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockStorage) ListReviewsByGuide(guideID string, limit int, cursor string) ([]models.Review, error) {
	args := m.Called(guideID, limit, cursor)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

func (m *MockStorage) ListReviewsByAuthor(authorID string) ([]models.Review, error) {
	args := m.Called(authorID)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

func (m *MockStorage) ListReviewsReceived(guideID string) ([]models.Review, error) {
	args := m.Called(guideID)
	reviews, _ := args.Get(0).([]models.Review)
	return reviews, args.Error(1)
}

// mockBroadcaster records every broadcast so tests can assert on the
// events published by SendMessage.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []models.RoomEvent
}

func (b *mockBroadcaster) Broadcast(roomID string, event models.RoomEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *mockBroadcaster) Events() []models.RoomEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]models.RoomEvent, len(b.events))
	copy(out, b.events)
	return out
}

// newTestLimiter builds a limiter with production budgets and a sweep
// interval long enough to stay out of the way.
func newTestLimiter() *ratelimit.Limiter {
	return ratelimit.NewLimiter(ratelimit.DefaultBudgets, time.Hour)
}
