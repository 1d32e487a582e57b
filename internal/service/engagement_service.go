package service

import (
	"context"

	"aura/internal/models"
	"aura/internal/notifications"
	"aura/internal/repository"
	"aura/internal/visibility"
)

// EngagementService provides likes, saves, shares, reposts, views and
// RSVPs. Every action requires the post to be visible to the actor, and
// every insert is idempotent: repeating an action neither errors nor
// produces a second notification.
type EngagementService struct {
	engRepo   repository.EngagementRepository
	postRepo  repository.PostRepository
	notifRepo repository.NotificationRepository
	policy    *visibility.Policy
	notifier  *notifications.Notifier
}

// NewEngagementService returns a new EngagementService.
func NewEngagementService(
	engRepo repository.EngagementRepository,
	postRepo repository.PostRepository,
	notifRepo repository.NotificationRepository,
	policy *visibility.Policy,
	notifier *notifications.Notifier,
) *EngagementService {
	return &EngagementService{
		engRepo:   engRepo,
		postRepo:  postRepo,
		notifRepo: notifRepo,
		policy:    policy,
		notifier:  notifier,
	}
}

// visiblePost loads a post and enforces the visibility policy for the actor.
func (s *EngagementService) visiblePost(ctx context.Context, postID, actorID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}
	if !s.policy.IsVisible(ctx, post, post.List, actorID) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

func (s *EngagementService) notify(ctx context.Context, n *models.Notification) {
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

// Like records a like. The author is notified only on first insertion.
func (s *EngagementService) Like(ctx context.Context, userID, postID uint) error {
	post, err := s.visiblePost(ctx, postID, userID)
	if err != nil {
		return err
	}
	inserted, err := s.engRepo.Like(ctx, userID, postID)
	if err != nil {
		return err
	}
	if inserted && post.UserID != userID {
		actorID := userID
		s.notify(ctx, &models.Notification{
			UserID:  post.UserID,
			ActorID: &actorID,
			Type:    models.NotificationPostLike,
			PostID:  &postID,
			Message: "liked your post",
		})
	}
	return nil
}

// Unlike removes a like; removing an absent like is a no-op.
func (s *EngagementService) Unlike(ctx context.Context, userID, postID uint) error {
	return s.engRepo.Unlike(ctx, userID, postID)
}

// Save bookmarks a post for the user.
func (s *EngagementService) Save(ctx context.Context, userID, postID uint) error {
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return err
	}
	_, err := s.engRepo.SavePost(ctx, userID, postID)
	return err
}

// Unsave removes a bookmark.
func (s *EngagementService) Unsave(ctx context.Context, userID, postID uint) error {
	return s.engRepo.UnsavePost(ctx, userID, postID)
}

// Share records that the user shared the post.
func (s *EngagementService) Share(ctx context.Context, userID, postID uint) error {
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return err
	}
	_, err := s.engRepo.Share(ctx, userID, postID)
	return err
}

// Repost records a repost.
func (s *EngagementService) Repost(ctx context.Context, userID, postID uint) error {
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return err
	}
	_, err := s.engRepo.Repost(ctx, userID, postID)
	return err
}

// RecordView marks the post as viewed by the user. Only the first view of
// a post is stored.
func (s *EngagementService) RecordView(ctx context.Context, userID, postID uint) error {
	if _, err := s.visiblePost(ctx, postID, userID); err != nil {
		return err
	}
	return s.engRepo.RecordView(ctx, userID, postID)
}

// RSVP records or updates the user's RSVP to an event post.
func (s *EngagementService) RSVP(ctx context.Context, userID, postID uint, status models.RSVPStatus) error {
	post, err := s.visiblePost(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !post.AllowRSVP {
		return models.NewValidationError("This post does not accept RSVPs")
	}
	if !models.ValidRSVPStatus(status) {
		return models.NewValidationError("RSVP status must be going, maybe, or declined")
	}

	existing, err := s.engRepo.ListRSVPs(ctx, postID)
	if err != nil {
		return err
	}
	firstResponse := true
	for _, r := range existing {
		if r.UserID == userID {
			firstResponse = false
			break
		}
	}

	if err := s.engRepo.UpsertRSVP(ctx, &models.RSVP{PostID: postID, UserID: userID, Status: status}); err != nil {
		return err
	}

	if firstResponse && post.UserID != userID {
		actorID := userID
		s.notify(ctx, &models.Notification{
			UserID:  post.UserID,
			ActorID: &actorID,
			Type:    models.NotificationRSVP,
			PostID:  &postID,
			Message: "responded to your event",
		})
	}
	return nil
}

// ListRSVPs returns RSVP responses for an event post the viewer can see.
func (s *EngagementService) ListRSVPs(ctx context.Context, viewerID, postID uint) ([]models.RSVP, error) {
	if _, err := s.visiblePost(ctx, postID, viewerID); err != nil {
		return nil, err
	}
	return s.engRepo.ListRSVPs(ctx, postID)
}

// SavedPosts returns the user's bookmarked posts. Posts that have since
// become invisible to the user are filtered out.
func (s *EngagementService) SavedPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	posts, err := s.engRepo.SavedPosts(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.policy.FilterVisible(ctx, posts, userID), nil
}
