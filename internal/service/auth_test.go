package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"seoulmate/backend/internal/models"
	"seoulmate/backend/internal/service"
	apperrors "seoulmate/backend/pkg/errors"
)

const testSecret = "test-secret"

func TestAuthService_Register(t *testing.T) {
	storageMock := new(MockStorage)
	svc := service.NewAuthService(storageMock, newTestLimiter(), testSecret)

	storageMock.On("GetUserByEmail", "jiho@example.com").Return(nil, nil)
	storageMock.On("CreateUser", mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Register(service.RegisterInput{
		Email:    "  JiHo@Example.com ",
		Password: "secret123",
		Name:     "Jiho",
		Role:     models.RoleGuide,
	}, "10.0.0.1")

	assert.NoError(t, err)
	assert.Equal(t, "jiho@example.com", user.Email)
	assert.Equal(t, models.RoleGuide, user.Role)
	// Stored as a bcrypt hash, never plaintext.
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
}

func TestAuthService_Register_DefaultsToTraveler(t *testing.T) {
	storageMock := new(MockStorage)
	svc := service.NewAuthService(storageMock, newTestLimiter(), testSecret)

	storageMock.On("GetUserByEmail", "amy@example.com").Return(nil, nil)
	storageMock.On("CreateUser", mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Register(service.RegisterInput{
		Email:    "amy@example.com",
		Password: "secret123",
		Name:     "Amy",
	}, "10.0.0.1")

	assert.NoError(t, err)
	assert.Equal(t, models.RoleTraveler, user.Role)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	storageMock := new(MockStorage)
	svc := service.NewAuthService(storageMock, newTestLimiter(), testSecret)

	storageMock.On("GetUserByEmail", "jiho@example.com").Return(
		&models.User{ID: "user1", Email: "jiho@example.com"}, nil)

	_, err := svc.Register(service.RegisterInput{
		Email:    "jiho@example.com",
		Password: "secret123",
		Name:     "Jiho",
	}, "10.0.0.1")

	assert.ErrorIs(t, err, apperrors.ErrEmailTaken)
	assert.Equal(t, apperrors.CodeAlreadyExists, apperrors.CodeOf(err))
}

func TestAuthService_Register_Validation(t *testing.T) {
	storageMock := new(MockStorage)
	svc := service.NewAuthService(storageMock, newTestLimiter(), testSecret)

	_, err := svc.Register(service.RegisterInput{Email: "not-an-email", Password: "secret123", Name: "X"}, "10.0.0.1")
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	_, err = svc.Register(service.RegisterInput{Email: "a@b.c", Password: "short", Name: "X"}, "10.0.0.1")
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	_, err = svc.Register(service.RegisterInput{Email: "a@b.c", Password: "secret123", Name: "  "}, "10.0.0.1")
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	_, err = svc.Register(service.RegisterInput{Email: "a@b.c", Password: "secret123", Name: "X", Role: "ADMIN"}, "10.0.0.1")
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	storageMock.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestAuthService_Register_RateLimitedPerIP(t *testing.T) {
	storageMock := new(MockStorage)
	svc := service.NewAuthService(storageMock, newTestLimiter(), testSecret)

	storageMock.On("GetUserByEmail", mock.AnythingOfType("string")).Return(nil, nil)
	storageMock.On("CreateUser", mock.AnythingOfType("*models.User")).Return(nil)

	input := service.RegisterInput{Email: "a@b.c", Password: "secret123", Name: "X"}
	for i := 0; i < 3; i++ {
		_, err := svc.Register(input, "10.0.0.1")
		assert.NoError(t, err)
	}

	_, err := svc.Register(input, "10.0.0.1")
	assert.Equal(t, apperrors.CodeResourceExhausted, apperrors.CodeOf(err))

	// A different IP is a different window.
	_, err = svc.Register(input, "10.0.0.2")
	assert.NoError(t, err)
}

func TestAuthService_LoginAndParseToken(t *testing.T) {
	storageMock := new(MockStorage)
	svc := service.NewAuthService(storageMock, newTestLimiter(), testSecret)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	stored := &models.User{ID: "user1", Email: "jiho@example.com", Password: string(hash), Role: models.RoleGuide}
	storageMock.On("GetUserByEmail", "jiho@example.com").Return(stored, nil)

	token, user, err := svc.Login("JiHo@example.com", "secret123", "10.0.0.1")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "user1", user.ID)

	session, err := svc.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user1", session.UserID)
	assert.Equal(t, models.RoleGuide, session.Role)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	storageMock := new(MockStorage)
	svc := service.NewAuthService(storageMock, newTestLimiter(), testSecret)

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	stored := &models.User{ID: "user1", Email: "jiho@example.com", Password: string(hash)}
	storageMock.On("GetUserByEmail", "jiho@example.com").Return(stored, nil)

	_, _, err := svc.Login("jiho@example.com", "wrong", "10.0.0.1")

	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	storageMock := new(MockStorage)
	svc := service.NewAuthService(storageMock, newTestLimiter(), testSecret)

	storageMock.On("GetUserByEmail", "ghost@example.com").Return(nil, nil)

	_, _, err := svc.Login("ghost@example.com", "whatever", "10.0.0.1")

	// Same error as a wrong password, so emails cannot be probed.
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_ParseToken_Garbage(t *testing.T) {
	svc := service.NewAuthService(new(MockStorage), newTestLimiter(), testSecret)

	_, err := svc.ParseToken("not.a.token")

	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
}

func TestAuthService_ParseToken_WrongSecret(t *testing.T) {
	issuer := service.NewAuthService(new(MockStorage), newTestLimiter(), "other-secret")
	verifier := service.NewAuthService(new(MockStorage), newTestLimiter(), testSecret)

	storageMock := new(MockStorage)
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	stored := &models.User{ID: "user1", Email: "jiho@example.com", Password: string(hash)}
	storageMock.On("GetUserByEmail", "jiho@example.com").Return(stored, nil)
	issuer.Storage = storageMock

	token, _, err := issuer.Login("jiho@example.com", "secret123", "10.0.0.1")
	assert.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Equal(t, apperrors.CodeUnauthenticated, apperrors.CodeOf(err))
}

func TestAuthService_UpdateProfile_Guide(t *testing.T) {
	storageMock := new(MockStorage)
	svc := service.NewAuthService(storageMock, newTestLimiter(), testSecret)

	storageMock.On("GetUserByID", "guide1").Return(newGuide("guide1"), nil)
	storageMock.On("UpdateUser", mock.AnythingOfType("*models.User")).Return(nil)
	storageMock.On("SaveGuideProfile", mock.AnythingOfType("*models.GuideProfile")).Return(nil)

	bio := "Licensed guide, ten years around Jongno"
	price := 30000
	user, err := svc.UpdateProfile("guide1", service.UpdateProfileInput{
		Bio:          &bio,
		Languages:    []string{"ko", "en"},
		Categories:   []string{"HISTORY", "FOOD"},
		PricePerHour: &price,
	})

	assert.NoError(t, err)
	assert.Equal(t, bio, user.GuideProfile.Bio)
	assert.Equal(t, 30000, user.GuideProfile.PricePerHour)
	storageMock.AssertCalled(t, "SaveGuideProfile", mock.AnythingOfType("*models.GuideProfile"))
	storageMock.AssertNotCalled(t, "SaveTravelerProfile", mock.Anything)
}

func TestAuthService_UpdateProfile_ShortBio(t *testing.T) {
	storageMock := new(MockStorage)
	svc := service.NewAuthService(storageMock, newTestLimiter(), testSecret)

	storageMock.On("GetUserByID", "guide1").Return(newGuide("guide1"), nil)
	storageMock.On("UpdateUser", mock.AnythingOfType("*models.User")).Return(nil)

	bio := "short"
	_, err := svc.UpdateProfile("guide1", service.UpdateProfileInput{Bio: &bio})

	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
	storageMock.AssertNotCalled(t, "SaveGuideProfile", mock.Anything)
}

func TestAuthService_UpdateProfile_Traveler(t *testing.T) {
	storageMock := new(MockStorage)
	svc := service.NewAuthService(storageMock, newTestLimiter(), testSecret)

	storageMock.On("GetUserByID", "traveler1").Return(newTraveler("traveler1"), nil)
	storageMock.On("UpdateUser", mock.AnythingOfType("*models.User")).Return(nil)
	storageMock.On("SaveTravelerProfile", mock.AnythingOfType("*models.TravelerProfile")).Return(nil)

	nationality := "FR"
	user, err := svc.UpdateProfile("traveler1", service.UpdateProfileInput{
		Nationality: &nationality,
		Interests:   []string{"FOOD", "NATURE"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "FR", user.TravelerProfile.Nationality)
	storageMock.AssertNotCalled(t, "SaveGuideProfile", mock.Anything)
}
