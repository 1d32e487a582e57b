package repository

import (
	"context"
	"errors"

	"aura/internal/models"

	"gorm.io/gorm"
)

// FriendRepository defines the interface for friendship data operations
type FriendRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	GetByID(ctx context.Context, id uint) (*models.Friendship, error)
	GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error)
	AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error)
	GetFriends(ctx context.Context, userID uint) ([]models.User, error)
	GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error)
	GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error)
	UpdateStatus(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error
	Delete(ctx context.Context, friendshipID uint) error
}

type friendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a new friend repository
func NewFriendRepository(db *gorm.DB) FriendRepository {
	return &friendRepository{db: db}
}

func (r *friendRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	return r.db.WithContext(ctx).Create(friendship).Error
}

func (r *friendRepository) GetByID(ctx context.Context, id uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Preload("Addressee").
		First(&friendship, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Friend request", id)
	}
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

// GetFriendshipBetweenUsers matches both row orientations; a pair is
// stored once regardless of who initiated.
func (r *friendRepository) GetFriendshipBetweenUsers(ctx context.Context, userID1, userID2 uint) (*models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userID1, userID2, userID2, userID1).
		First(&friendship).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &friendship, nil
}

func (r *friendRepository) AreFriends(ctx context.Context, userID1, userID2 uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("status = ?", models.FriendshipStatusAccepted).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userID1, userID2, userID2, userID1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *friendRepository) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN friendships ON (friendships.requester_id = users.id AND friendships.addressee_id = ?) OR (friendships.addressee_id = users.id AND friendships.requester_id = ?)",
			userID, userID).
		Where("friendships.status = ?", models.FriendshipStatusAccepted).
		Find(&users).Error
	return users, err
}

func (r *friendRepository) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	var requests []models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Requester").
		Where("addressee_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *friendRepository) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	var requests []models.Friendship
	err := r.db.WithContext(ctx).
		Preload("Addressee").
		Where("requester_id = ? AND status = ?", userID, models.FriendshipStatusPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *friendRepository) UpdateStatus(ctx context.Context, friendshipID uint, status models.FriendshipStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Friendship{}).
		Where("id = ?", friendshipID).
		Update("status", status).Error
}

func (r *friendRepository) Delete(ctx context.Context, friendshipID uint) error {
	return r.db.WithContext(ctx).Delete(&models.Friendship{}, friendshipID).Error
}
