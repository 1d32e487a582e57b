package service

import (
	"context"
	"fmt"

	"aura/internal/models"
	"aura/internal/notifications"
	"aura/internal/observability"
	"aura/internal/repository"
	"aura/internal/visibility"

	"gorm.io/gorm"
)

// ModerationService handles community flagging. When a post accumulates
// enough distinct flags it is removed automatically, queued for admin
// review, and its author is notified.
type ModerationService struct {
	engRepo   repository.EngagementRepository
	postRepo  repository.PostRepository
	notifRepo repository.NotificationRepository
	policy    *visibility.Policy
	notifier  *notifications.Notifier
	db        *gorm.DB
	threshold int64
}

// FlagResult reports the outcome of a flag submission.
type FlagResult struct {
	Flagged bool  `json:"flagged"`
	Count   int64 `json:"count"`
	Removed bool  `json:"removed"`
}

// NewModerationService returns a new ModerationService. threshold is the
// distinct-flag count at which a post is auto-removed.
func NewModerationService(
	engRepo repository.EngagementRepository,
	postRepo repository.PostRepository,
	notifRepo repository.NotificationRepository,
	policy *visibility.Policy,
	notifier *notifications.Notifier,
	db *gorm.DB,
	threshold int64,
) *ModerationService {
	return &ModerationService{
		engRepo:   engRepo,
		postRepo:  postRepo,
		notifRepo: notifRepo,
		policy:    policy,
		notifier:  notifier,
		db:        db,
		threshold: threshold,
	}
}

// FlagPost records a flag against a post. A user's repeated flags count
// once. Reaching the threshold removes the post, files it for review, and
// records an auto moderation action, all in one transaction.
func (s *ModerationService) FlagPost(ctx context.Context, userID, postID uint, reason string) (*FlagResult, error) {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if !s.policy.IsVisible(ctx, post, post.List, userID) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if post.UserID == userID {
		return nil, models.NewValidationError("You cannot flag your own post")
	}

	inserted, err := s.engRepo.Flag(ctx, userID, postID, reason)
	if err != nil {
		return nil, err
	}
	if inserted {
		observability.FlagsRecorded.Inc()
	}

	count, err := s.engRepo.FlagCount(ctx, postID)
	if err != nil {
		return nil, err
	}

	result := &FlagResult{Flagged: inserted, Count: count}
	if count < s.threshold {
		return result, nil
	}

	var removal *models.Notification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, postID)
		if res.Error != nil {
			return res.Error
		}
		// Another flag may have raced the removal past the threshold.
		if res.RowsAffected == 0 {
			return nil
		}

		item := &models.ReviewQueueItem{
			ContentType: "post",
			ContentID:   postID,
			Priority:    int(count),
			Status:      models.ReviewStatusPending,
			Notes:       fmt.Sprintf("auto-removed after %d flags", count),
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}

		action := &models.ModerationAction{
			ContentType: "post",
			ContentID:   postID,
			Action:      "auto_remove",
			Reason:      fmt.Sprintf("flag threshold reached (%d)", count),
			Status:      models.ModerationActionActive,
		}
		if err := tx.Create(action).Error; err != nil {
			return err
		}

		removal = &models.Notification{
			UserID:  post.UserID,
			Type:    models.NotificationPostRemoved,
			PostID:  &postID,
			Message: "Your post was removed after community flags",
		}
		if s.notifRepo != nil {
			return s.notifRepo.Create(ctx, tx, removal)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if removal != nil {
		result.Removed = true
		observability.PostsAutoRemoved.Inc()
		if s.notifier != nil {
			_ = s.notifier.PublishNotification(ctx, removal)
		}
	}
	return result, nil
}
