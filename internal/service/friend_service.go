package service

import (
	"context"

	"aura/internal/models"
	"aura/internal/notifications"
	"aura/internal/repository"
)

// FriendService provides friend-request and friendship business logic.
type FriendService struct {
	friendRepo repository.FriendRepository
	userRepo   repository.UserRepository
	notifRepo  repository.NotificationRepository
	notifier   *notifications.Notifier
}

// NewFriendService returns a new FriendService.
func NewFriendService(
	friendRepo repository.FriendRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	notifier *notifications.Notifier,
) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
		notifRepo:  notifRepo,
		notifier:   notifier,
	}
}

func (s *FriendService) notify(ctx context.Context, n *models.Notification) {
	if s.notifRepo == nil {
		return
	}
	if err := s.notifRepo.Create(ctx, nil, n); err != nil {
		return
	}
	if s.notifier != nil {
		_ = s.notifier.PublishNotification(ctx, n)
	}
}

// SendFriendRequest sends a friend request to the target user.
func (s *FriendService) SendFriendRequest(ctx context.Context, userID, targetUserID uint) (*models.Friendship, error) {
	if userID == targetUserID {
		return nil, models.NewValidationError("Cannot send friend request to yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.FriendshipStatusAccepted:
			return nil, models.NewValidationError("You are already friends")
		case models.FriendshipStatusPending:
			if existing.RequesterID == userID {
				return nil, models.NewValidationError("Friend request already sent")
			}
			return nil, models.NewValidationError("You already have a pending friend request from this user")
		}
	}

	friendship := &models.Friendship{
		RequesterID: userID,
		AddresseeID: targetUserID,
		Status:      models.FriendshipStatusPending,
	}
	if err := s.friendRepo.Create(ctx, friendship); err != nil {
		return nil, err
	}

	actorID := userID
	s.notify(ctx, &models.Notification{
		UserID:  targetUserID,
		ActorID: &actorID,
		Type:    models.NotificationFriendRequest,
		Message: "sent you a friend request",
	})

	return s.friendRepo.GetByID(ctx, friendship.ID)
}

// GetPendingRequests returns pending friend requests for the user.
func (s *FriendService) GetPendingRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetPendingRequests(ctx, userID)
}

// GetSentRequests returns friend requests sent by the user.
func (s *FriendService) GetSentRequests(ctx context.Context, userID uint) ([]models.Friendship, error) {
	return s.friendRepo.GetSentRequests(ctx, userID)
}

// AcceptFriendRequest accepts a pending friend request.
func (s *FriendService) AcceptFriendRequest(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.AddresseeID != userID {
		return nil, models.NewUnauthorizedError("You can only accept friend requests sent to you")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewValidationError("Friend request is not pending")
	}

	if err := s.friendRepo.UpdateStatus(ctx, requestID, models.FriendshipStatusAccepted); err != nil {
		return nil, err
	}

	actorID := userID
	s.notify(ctx, &models.Notification{
		UserID:  friendship.RequesterID,
		ActorID: &actorID,
		Type:    models.NotificationFriendAccepted,
		Message: "accepted your friend request",
	})

	return s.friendRepo.GetByID(ctx, requestID)
}

// RejectFriendRequest rejects or cancels a pending friend request.
func (s *FriendService) RejectFriendRequest(ctx context.Context, userID, requestID uint) (*models.Friendship, error) {
	friendship, err := s.friendRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if friendship.AddresseeID != userID && friendship.RequesterID != userID {
		return nil, models.NewUnauthorizedError("You can only reject or cancel your own pending requests")
	}
	if friendship.Status != models.FriendshipStatusPending {
		return nil, models.NewValidationError("Friend request is not pending")
	}

	if err := s.friendRepo.Delete(ctx, requestID); err != nil {
		return nil, err
	}

	return friendship, nil
}

// RemoveFriend dissolves an accepted friendship with the target user.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, targetUserID uint) error {
	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return err
	}
	if friendship == nil || friendship.Status != models.FriendshipStatusAccepted {
		return models.NewNotFoundError("Friendship", targetUserID)
	}
	return s.friendRepo.Delete(ctx, friendship.ID)
}

// GetFriends returns the list of friends for the user.
func (s *FriendService) GetFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friendRepo.GetFriends(ctx, userID)
}

// AreFriends reports whether two users share an accepted friendship.
// The check is symmetric regardless of who sent the original request.
func (s *FriendService) AreFriends(ctx context.Context, userID, otherID uint) (bool, error) {
	return s.friendRepo.AreFriends(ctx, userID, otherID)
}

// GetFriendshipStatus returns the friendship state between two users:
// "none", "pending_sent", "pending_received" or "accepted".
func (s *FriendService) GetFriendshipStatus(ctx context.Context, userID, targetUserID uint) (string, *models.Friendship, error) {
	friendship, err := s.friendRepo.GetFriendshipBetweenUsers(ctx, userID, targetUserID)
	if err != nil {
		return "", nil, err
	}
	if friendship == nil {
		return "none", nil, nil
	}
	switch friendship.Status {
	case models.FriendshipStatusAccepted:
		return "accepted", friendship, nil
	case models.FriendshipStatusPending:
		if friendship.RequesterID == userID {
			return "pending_sent", friendship, nil
		}
		return "pending_received", friendship, nil
	default:
		return "none", friendship, nil
	}
}
