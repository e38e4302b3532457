package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"seoulmate/backend/internal/models"
	"seoulmate/backend/internal/ratelimit"
	"seoulmate/backend/internal/storage"
	apperrors "seoulmate/backend/pkg/errors"
)

// Session is the authenticated caller identity attached to every
// protected operation.
type Session struct {
	UserID string
	Role   models.Role
}

// AuthService handles registration, login and session tokens.
type AuthService struct {
	Storage storage.Storage
	Limiter *ratelimit.Limiter

	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuthService(s storage.Storage, limiter *ratelimit.Limiter, jwtSecret string) *AuthService {
	return &AuthService{
		Storage:   s,
		Limiter:   limiter,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  72 * time.Hour,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     models.Role
}

// Register creates a new account. Rate limited per client IP to slow
// down bulk signups.
func (a *AuthService) Register(input RegisterInput, clientIP string) (*models.User, error) {
	if res := a.Limiter.Check(ratelimit.ActionRegister, clientIP); !res.Allowed {
		return nil, tooManyRequests("too many registrations", res)
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return nil, apperrors.InvalidArg("a valid email is required")
	}
	if len(input.Password) < 6 {
		return nil, apperrors.InvalidArg("password must be at least 6 characters")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidArg("name is required")
	}
	if input.Role == "" {
		input.Role = models.RoleTraveler
	}
	if input.Role != models.RoleTraveler && input.Role != models.RoleGuide {
		return nil, apperrors.InvalidArg("role must be TRAVELER or GUIDE")
	}

	existing, err := a.Storage.GetUserByEmail(input.Email)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to check email", err)
	}
	if existing != nil {
		return nil, apperrors.ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to hash password", err)
	}

	user := &models.User{
		Email:    input.Email,
		Password: string(hashed),
		Name:     strings.TrimSpace(input.Name),
		Role:     input.Role,
	}
	if err := a.Storage.CreateUser(user); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create user", err)
	}

	log.Printf("INFO: New user registered: %s (%s)", user.ID, user.Role)
	return user, nil
}

// Login verifies credentials and issues a session token. Rate limited
// per client IP against brute force.
func (a *AuthService) Login(email, password, clientIP string) (string, *models.User, error) {
	if res := a.Limiter.Check(ratelimit.ActionLogin, clientIP); !res.Allowed {
		return "", nil, tooManyRequests("too many login attempts", res)
	}

	user, err := a.Storage.GetUserByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load user", err)
	}
	if user == nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := a.issueToken(user)
	if err != nil {
		return "", nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create token", err)
	}
	return token, user, nil
}

func (a *AuthService) issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    string(user.Role),
		"exp":     time.Now().Add(a.tokenTTL).Unix(),
		"iss":     "seoulmate-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ParseToken validates a session token and extracts the session.
func (a *AuthService) ParseToken(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apperrors.Unauthorized("invalid token claims")
	}
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" {
		return nil, apperrors.Unauthorized("invalid token claims")
	}
	return &Session{UserID: userID, Role: models.Role(role)}, nil
}

// Me returns the caller's own account with profiles.
func (a *AuthService) Me(userID string) (*models.User, error) {
	user, err := a.Storage.GetUserByID(userID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load user", err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user not found")
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name  *string
	Image *string

	// Guide profile fields
	Bio          *string
	Languages    []string
	Categories   []string
	PricePerHour *int

	// Traveler profile fields
	Nationality *string
	Interests   []string
}

// UpdateProfile applies partial updates to the account and its
// role-specific profile.
func (a *AuthService) UpdateProfile(userID string, input UpdateProfileInput) (*models.User, error) {
	user, err := a.Me(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.InvalidArg("name cannot be empty")
		}
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Image != nil {
		user.Image = *input.Image
	}
	if err := a.Storage.UpdateUser(user); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to update user", err)
	}

	switch user.Role {
	case models.RoleGuide:
		profile := user.GuideProfile
		if profile == nil {
			profile = &models.GuideProfile{UserID: user.ID}
		}
		if input.Bio != nil {
			if len(strings.TrimSpace(*input.Bio)) < 10 {
				return nil, apperrors.InvalidArg("bio must be at least 10 characters")
			}
			profile.Bio = strings.TrimSpace(*input.Bio)
		}
		if input.Languages != nil {
			profile.Languages = input.Languages
		}
		if input.Categories != nil {
			profile.Categories = input.Categories
		}
		if input.PricePerHour != nil {
			profile.PricePerHour = *input.PricePerHour
		}
		if err := a.Storage.SaveGuideProfile(profile); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to save guide profile", err)
		}
		user.GuideProfile = profile
	case models.RoleTraveler:
		profile := user.TravelerProfile
		if profile == nil {
			profile = &models.TravelerProfile{UserID: user.ID}
		}
		if input.Nationality != nil {
			profile.Nationality = *input.Nationality
		}
		if input.Interests != nil {
			profile.Interests = input.Interests
		}
		if err := a.Storage.SaveTravelerProfile(profile); err != nil {
			return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to save traveler profile", err)
		}
		user.TravelerProfile = profile
	}

	return user, nil
}

// tooManyRequests builds the rate-limit error with the window end, so
// users know when to retry.
func tooManyRequests(what string, res ratelimit.Result) error {
	return apperrors.TooManyRequests(
		fmt.Sprintf("%s, retry after %s", what, res.ResetAt.Format(time.RFC3339)))
}
