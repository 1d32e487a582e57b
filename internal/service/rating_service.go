package service

import (
	"context"

	"aura/internal/models"
	"aura/internal/repository"
)

// RatingService provides the 1-7 energy rating between users.
type RatingService struct {
	engRepo  repository.EngagementRepository
	userRepo repository.UserRepository
}

// AuraSummary is a user's aggregate rating.
type AuraSummary struct {
	UserID  uint    `json:"user_id"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// NewRatingService returns a new RatingService.
func NewRatingService(engRepo repository.EngagementRepository, userRepo repository.UserRepository) *RatingService {
	return &RatingService{engRepo: engRepo, userRepo: userRepo}
}

// RateUser records the rater's current rating of another user. Re-rating
// replaces the previous value rather than adding a second one.
func (s *RatingService) RateUser(ctx context.Context, raterID, rateeID uint, value int) error {
	if raterID == rateeID {
		return models.NewValidationError("You cannot rate yourself")
	}
	if value < models.EnergyRatingMin || value > models.EnergyRatingMax {
		return models.NewValidationError("Rating must be between 1 and 7")
	}
	if _, err := s.userRepo.GetByID(ctx, rateeID); err != nil {
		return err
	}
	return s.engRepo.RateUser(ctx, raterID, rateeID, value)
}

// GetAura returns a user's aggregate rating.
func (s *RatingService) GetAura(ctx context.Context, userID uint) (*AuraSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &AuraSummary{
		UserID:  user.ID,
		Average: user.AuraAverage(),
		Count:   user.AuraCount,
	}, nil
}
