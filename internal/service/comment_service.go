package service

import (
	"context"
	"strings"

	"aura/internal/models"
	"aura/internal/notifications"
	"aura/internal/repository"
	"aura/internal/visibility"
)

// CommentService provides comments on posts. Commenting follows post
// visibility: a user can only comment on posts they can see.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	notifRepo   repository.NotificationRepository
	policy      *visibility.Policy
	notifier    *notifications.Notifier
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	notifRepo repository.NotificationRepository,
	policy *visibility.Policy,
	notifier *notifications.Notifier,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		notifRepo:   notifRepo,
		policy:      policy,
		notifier:    notifier,
	}
}

func (s *CommentService) visiblePost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	if !s.policy.IsVisible(ctx, post, post.List, viewerID) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

// Create adds a comment and notifies the post author.
func (s *CommentService) Create(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}
	if len(content) > 10000 {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	post, err := s.visiblePost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if post.UserID != userID && s.notifRepo != nil {
		actorID := userID
		n := &models.Notification{
			UserID:  post.UserID,
			ActorID: &actorID,
			Type:    models.NotificationPostComment,
			PostID:  &postID,
			Message: "commented on your post",
		}
		if err := s.notifRepo.Create(ctx, nil, n); err == nil && s.notifier != nil {
			_ = s.notifier.PublishNotification(ctx, n)
		}
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListForPost returns a post's comments, oldest first.
func (s *CommentService) ListForPost(ctx context.Context, viewerID, postID uint, limit, offset int) ([]models.Comment, error) {
	if _, err := s.visiblePost(ctx, postID, viewerID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListForPost(ctx, postID, limit, offset)
}

// Update lets the comment author edit their comment.
func (s *CommentService) Update(ctx context.Context, userID, commentID uint, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, models.NewValidationError("Comment content is required")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, models.NewUnauthorizedError("You can only edit your own comments")
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment. The comment author or the post author may
// delete it.
func (s *CommentService) Delete(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		post, err := s.postRepo.GetByID(ctx, comment.PostID, userID)
		if err != nil {
			return err
		}
		if post.UserID != userID {
			return models.NewUnauthorizedError("You cannot delete this comment")
		}
	}
	return s.commentRepo.Delete(ctx, commentID)
}
