// Package service implements the application's business logic on top of
// the repository layer.
package service

import (
	"context"
	"strconv"
	"time"

	"aura/internal/models"
	"aura/internal/repository"
	"aura/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserService provides account and profile business logic.
type UserService struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

// RegisterInput carries signup fields.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

// UpdateProfileInput carries profile mutation fields. Empty strings leave
// the existing value untouched.
type UpdateProfileInput struct {
	UserID         uint
	DisplayName    string
	Bio            string
	Avatar         string
	DefaultPrivacy models.Privacy
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository, jwtSecret string) *UserService {
	return &UserService{userRepo: userRepo, jwtSecret: jwtSecret}
}

// Register creates a new account after validating uniqueness and password policy.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	if existing, err := s.userRepo.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Email already in use")
	}
	if existing, err := s.userRepo.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewValidationError("Username already taken")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:       in.Username,
		Email:          in.Email,
		Password:       string(hashed),
		DisplayName:    in.DisplayName,
		DefaultPrivacy: models.PrivacyPublic,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and returns a signed JWT plus the user.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, models.NewUnauthorizedError("Invalid email or password")
	}
	if user.IsBanned {
		return "", nil, models.NewUnauthorizedError("Account is suspended")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, models.NewUnauthorizedError("Invalid email or password")
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

func (s *UserService) issueToken(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetUserByID returns a user's profile.
func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// ListUsers returns a page of users.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// SearchUsers finds users by username or display name.
func (s *UserService) SearchUsers(ctx context.Context, query string, limit, offset int) ([]models.User, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	return s.userRepo.Search(ctx, query, limit, offset)
}

// UpdateProfile applies profile mutations for the user.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	const maxBioLen = 500
	const maxDisplayNameLen = 60

	if in.DisplayName != "" {
		if len(in.DisplayName) > maxDisplayNameLen {
			return nil, models.NewValidationError("Display name too long (max 60 characters)")
		}
		user.DisplayName = in.DisplayName
	}
	if in.Bio != "" {
		if len(in.Bio) > maxBioLen {
			return nil, models.NewValidationError("Bio too long (max 500 characters)")
		}
		user.Bio = in.Bio
	}
	if in.Avatar != "" {
		user.Avatar = in.Avatar
	}
	if in.DefaultPrivacy != "" {
		if !in.DefaultPrivacy.Valid() {
			return nil, models.NewValidationError("Invalid default privacy level")
		}
		user.DefaultPrivacy = in.DefaultPrivacy
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
