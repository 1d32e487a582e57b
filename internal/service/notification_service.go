package service

import (
	"context"

	"aura/internal/models"
	"aura/internal/repository"
)

// NotificationService provides notification listing and read-acknowledgement.
type NotificationService struct {
	notifRepo repository.NotificationRepository
}

// NewNotificationService returns a new NotificationService.
func NewNotificationService(notifRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifRepo: notifRepo}
}

// List returns a page of the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	return s.notifRepo.ListForUser(ctx, userID, limit, offset)
}

// UnreadCount returns the number of unviewed notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.notifRepo.UnreadCount(ctx, userID)
}

// MarkViewed acknowledges one notification. The row is only touched when
// it belongs to the caller.
func (s *NotificationService) MarkViewed(ctx context.Context, userID, notificationID uint) error {
	return s.notifRepo.MarkViewed(ctx, userID, notificationID)
}

// MarkAllViewed acknowledges all of the user's notifications.
func (s *NotificationService) MarkAllViewed(ctx context.Context, userID uint) error {
	return s.notifRepo.MarkAllViewed(ctx, userID)
}
