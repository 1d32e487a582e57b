package service

import (
	"context"
	"net/url"
	"time"

	"aura/internal/models"
	"aura/internal/notifications"
	"aura/internal/observability"
	"aura/internal/repository"
	"aura/internal/visibility"

	"gorm.io/gorm"
)

// ContentService provides post creation, feeds and hashtag browsing. All
// read paths run through the visibility policy so callers never see posts
// their viewer may not.
type ContentService struct {
	postRepo    repository.PostRepository
	listRepo    repository.ListRepository
	userRepo    repository.UserRepository
	tagRepo     repository.TagRepository
	hashtagRepo repository.HashtagRepository
	notifRepo   repository.NotificationRepository
	policy      *visibility.Policy
	roles       *CollaborationService
	notifier    *notifications.Notifier
	db          *gorm.DB
}

// CreatePostInput carries the fields for a new post.
type CreatePostInput struct {
	UserID        uint
	Title         string
	Content       string
	ListID        uint
	Privacy       models.Privacy
	LinkURL       string
	MediaURL      string
	EventDate     *time.Time
	Recurrence    string
	TaskList      string
	AllowRSVP     bool
	Hashtags      []string
	TaggedUserIDs []uint
}

// UpdatePostInput carries post mutation fields.
type UpdatePostInput struct {
	UserID   uint
	PostID   uint
	Title    string
	Content  string
	Privacy  models.Privacy
	LinkURL  string
	MediaURL string
}

// NewContentService returns a new ContentService.
func NewContentService(
	postRepo repository.PostRepository,
	listRepo repository.ListRepository,
	userRepo repository.UserRepository,
	tagRepo repository.TagRepository,
	hashtagRepo repository.HashtagRepository,
	notifRepo repository.NotificationRepository,
	policy *visibility.Policy,
	roles *CollaborationService,
	notifier *notifications.Notifier,
	db *gorm.DB,
) *ContentService {
	return &ContentService{
		postRepo:    postRepo,
		listRepo:    listRepo,
		userRepo:    userRepo,
		tagRepo:     tagRepo,
		hashtagRepo: hashtagRepo,
		notifRepo:   notifRepo,
		policy:      policy,
		roles:       roles,
		notifier:    notifier,
		db:          db,
	}
}

// CreatePost validates and stores a post, its hashtags, and its tagged
// recipients in a single transaction. Tagged users are notified after the
// transaction commits.
func (s *ContentService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const maxTitleLen = 300
	const maxContentLen = 50000

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}
	if in.LinkURL != "" {
		if _, err := url.ParseRequestURI(in.LinkURL); err != nil {
			return nil, models.NewValidationError("link_url must be a valid URL")
		}
	}
	if in.MediaURL != "" {
		if _, err := url.ParseRequestURI(in.MediaURL); err != nil {
			return nil, models.NewValidationError("media_url must be a valid URL")
		}
	}
	if in.Recurrence != "" && in.EventDate == nil {
		return nil, models.NewValidationError("Recurrence requires an event date")
	}
	if in.AllowRSVP && in.EventDate == nil {
		return nil, models.NewValidationError("RSVP requires an event date")
	}

	author, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	// Unspecified privacy falls back to the author's profile default.
	privacy := in.Privacy
	if privacy == "" {
		privacy = author.DefaultPrivacy
	}
	if !privacy.Valid() {
		return nil, models.NewValidationError("Invalid privacy level")
	}

	listID := in.ListID
	if listID == 0 {
		listID = models.GeneralListID
	}
	if listID != models.GeneralListID {
		role, err := s.roles.ResolveRole(ctx, listID, in.UserID)
		if err != nil {
			return nil, err
		}
		if role != models.ListRoleOwner && role != models.ListRoleCollaborator {
			return nil, models.NewUnauthorizedError("You cannot post to this list")
		}
	}

	taggedIDs := make([]uint, 0, len(in.TaggedUserIDs))
	for _, id := range in.TaggedUserIDs {
		if id == in.UserID {
			continue
		}
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		taggedIDs = append(taggedIDs, id)
	}

	post := &models.Post{
		Title:      in.Title,
		Content:    in.Content,
		UserID:     in.UserID,
		ListID:     listID,
		Privacy:    privacy,
		LinkURL:    in.LinkURL,
		MediaURL:   in.MediaURL,
		EventDate:  in.EventDate,
		Recurrence: in.Recurrence,
		TaskList:   in.TaskList,
		AllowRSVP:  in.AllowRSVP,
	}

	var created []models.Notification
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		hashtags, err := s.hashtagRepo.EnsureTags(ctx, tx, in.Hashtags)
		if err != nil {
			return err
		}
		if err := s.hashtagRepo.AttachToPost(ctx, tx, post.ID, hashtags); err != nil {
			return err
		}

		if err := s.tagRepo.TagUsers(ctx, tx, post.ID, taggedIDs); err != nil {
			return err
		}

		actorID := in.UserID
		postID := post.ID
		for _, recipientID := range taggedIDs {
			created = append(created, models.Notification{
				UserID:  recipientID,
				ActorID: &actorID,
				Type:    models.NotificationPostTag,
				PostID:  &postID,
				Message: "tagged you in a post",
			})
		}
		return s.notifRepo.CreateBatch(ctx, tx, created)
	})
	if err != nil {
		return nil, err
	}

	observability.PostsCreated.WithLabelValues(string(privacy)).Inc()

	if s.notifier != nil {
		for i := range created {
			_ = s.notifier.PublishNotification(ctx, &created[i])
		}
	}

	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// GetPost returns a post if the viewer may see it. Invisible posts read as
// not found so the response does not leak their existence.
func (s *ContentService) GetPost(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}
	if !s.policy.IsVisible(ctx, post, post.List, viewerID) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

// Feed returns recent posts visible to the viewer.
func (s *ContentService) Feed(ctx context.Context, viewerID uint, limit, offset int) ([]*models.Post, error) {
	posts, err := s.postRepo.List(ctx, limit, offset, viewerID)
	if err != nil {
		return nil, err
	}
	return s.policy.FilterVisible(ctx, posts, viewerID), nil
}

// UserPosts returns a user's posts, filtered for the viewer.
func (s *ContentService) UserPosts(ctx context.Context, userID, viewerID uint, limit, offset int) ([]*models.Post, error) {
	posts, err := s.postRepo.GetByUserID(ctx, userID, limit, offset, viewerID)
	if err != nil {
		return nil, err
	}
	return s.policy.FilterVisible(ctx, posts, viewerID), nil
}

// ListPosts returns a list's posts, filtered for the viewer.
func (s *ContentService) ListPosts(ctx context.Context, listID, viewerID uint, limit, offset int) ([]*models.Post, error) {
	if _, err := s.listRepo.GetByID(ctx, listID); err != nil {
		return nil, err
	}
	posts, err := s.postRepo.GetByListID(ctx, listID, limit, offset, viewerID)
	if err != nil {
		return nil, err
	}
	return s.policy.FilterVisible(ctx, posts, viewerID), nil
}

// HashtagPosts returns posts carrying a hashtag, filtered for the viewer.
func (s *ContentService) HashtagPosts(ctx context.Context, tag string, viewerID uint, limit, offset int) ([]*models.Post, error) {
	normalized := repository.NormalizeTag(tag)
	if normalized == "" {
		return nil, models.NewValidationError("Invalid hashtag")
	}
	posts, err := s.postRepo.GetByHashtag(ctx, normalized, limit, offset, viewerID)
	if err != nil {
		return nil, err
	}
	return s.policy.FilterVisible(ctx, posts, viewerID), nil
}

// SearchPosts finds posts matching the query, filtered for the viewer.
func (s *ContentService) SearchPosts(ctx context.Context, query string, viewerID uint, limit, offset int) ([]*models.Post, error) {
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	posts, err := s.postRepo.Search(ctx, query, limit, offset, viewerID)
	if err != nil {
		return nil, err
	}
	return s.policy.FilterVisible(ctx, posts, viewerID), nil
}

// UpdatePost applies author-only post mutations.
func (s *ContentService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.UserID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only edit your own posts")
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Content != "" {
		post.Content = in.Content
	}
	if in.Privacy != "" {
		if !in.Privacy.Valid() {
			return nil, models.NewValidationError("Invalid privacy level")
		}
		post.Privacy = in.Privacy
	}
	if in.LinkURL != "" {
		if _, err := url.ParseRequestURI(in.LinkURL); err != nil {
			return nil, models.NewValidationError("link_url must be a valid URL")
		}
		post.LinkURL = in.LinkURL
	}
	if in.MediaURL != "" {
		if _, err := url.ParseRequestURI(in.MediaURL); err != nil {
			return nil, models.NewValidationError("media_url must be a valid URL")
		}
		post.MediaURL = in.MediaURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID, in.UserID)
}

// DeletePost removes a post. The author may always delete; the owner of
// the containing list may also curate posts out of their list.
func (s *ContentService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		list, err := s.listRepo.GetByID(ctx, post.ListID)
		if err != nil {
			return err
		}
		if list.IsGeneral() || list.OwnerID != userID {
			return models.NewUnauthorizedError("You cannot delete this post")
		}
	}
	return s.postRepo.Delete(ctx, postID)
}

// FollowHashtag subscribes the user to a hashtag.
func (s *ContentService) FollowHashtag(ctx context.Context, userID uint, tag string) error {
	return s.hashtagRepo.Follow(ctx, userID, tag)
}

// UnfollowHashtag removes a hashtag subscription.
func (s *ContentService) UnfollowHashtag(ctx context.Context, userID uint, tag string) error {
	return s.hashtagRepo.Unfollow(ctx, userID, tag)
}

// FollowedHashtags returns the user's hashtag subscriptions.
func (s *ContentService) FollowedHashtags(ctx context.Context, userID uint) ([]models.Hashtag, error) {
	return s.hashtagRepo.Followed(ctx, userID)
}

// TrendingHashtags returns the most used hashtags over the past week.
func (s *ContentService) TrendingHashtags(ctx context.Context, limit int) ([]repository.TrendingTag, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	return s.hashtagRepo.Trending(ctx, time.Now().AddDate(0, 0, -7), limit)
}
