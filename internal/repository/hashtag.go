package repository

import (
	"context"
	"strings"
	"time"

	"aura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TrendingTag is a hashtag with its recent post count.
type TrendingTag struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// HashtagRepository defines the interface for hashtag data operations
type HashtagRepository interface {
	// EnsureTags resolves tag strings to Hashtag rows, creating missing
	// ones. Tags are normalized (lowercased, '#' stripped).
	EnsureTags(ctx context.Context, tx *gorm.DB, tags []string) ([]models.Hashtag, error)
	AttachToPost(ctx context.Context, tx *gorm.DB, postID uint, hashtags []models.Hashtag) error
	Follow(ctx context.Context, userID uint, tag string) error
	Unfollow(ctx context.Context, userID uint, tag string) error
	Followed(ctx context.Context, userID uint) ([]models.Hashtag, error)
	Trending(ctx context.Context, since time.Time, limit int) ([]TrendingTag, error)
}

type hashtagRepository struct {
	db *gorm.DB
}

// NewHashtagRepository creates a new hashtag repository
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

// NormalizeTag lowercases a tag and strips a leading '#'.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

func (r *hashtagRepository) EnsureTags(ctx context.Context, tx *gorm.DB, tags []string) ([]models.Hashtag, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	seen := map[string]struct{}{}
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		normalized = append(normalized, n)
	}
	if len(normalized) == 0 {
		return nil, nil
	}

	rows := make([]models.Hashtag, 0, len(normalized))
	for _, n := range normalized {
		rows = append(rows, models.Hashtag{Tag: n})
	}
	if err := db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error; err != nil {
		return nil, err
	}

	// Re-read to pick up IDs of rows that already existed.
	var out []models.Hashtag
	if err := db.WithContext(ctx).
		Where("tag IN ?", normalized).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *hashtagRepository) AttachToPost(ctx context.Context, tx *gorm.DB, postID uint, hashtags []models.Hashtag) error {
	if len(hashtags) == 0 {
		return nil
	}
	db := r.db
	if tx != nil {
		db = tx
	}

	type postHashtag struct {
		PostID    uint `gorm:"primaryKey;autoIncrement:false"`
		HashtagID uint `gorm:"primaryKey;autoIncrement:false"`
	}
	rows := make([]postHashtag, 0, len(hashtags))
	for _, h := range hashtags {
		rows = append(rows, postHashtag{PostID: postID, HashtagID: h.ID})
	}
	return db.WithContext(ctx).
		Table("post_hashtags").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *hashtagRepository) Follow(ctx context.Context, userID uint, tag string) error {
	hashtags, err := r.EnsureTags(ctx, nil, []string{tag})
	if err != nil {
		return err
	}
	if len(hashtags) == 0 {
		return models.NewValidationError("Invalid hashtag")
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.HashtagFollow{UserID: userID, HashtagID: hashtags[0].ID}).Error
}

func (r *hashtagRepository) Unfollow(ctx context.Context, userID uint, tag string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND hashtag_id IN (SELECT id FROM hashtags WHERE tag = ?)",
			userID, NormalizeTag(tag)).
		Delete(&models.HashtagFollow{}).Error
}

func (r *hashtagRepository) Followed(ctx context.Context, userID uint) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	err := r.db.WithContext(ctx).
		Joins("JOIN hashtag_follows ON hashtag_follows.hashtag_id = hashtags.id").
		Where("hashtag_follows.user_id = ?", userID).
		Find(&tags).Error
	return tags, err
}

func (r *hashtagRepository) Trending(ctx context.Context, since time.Time, limit int) ([]TrendingTag, error) {
	var rows []TrendingTag
	err := r.db.WithContext(ctx).
		Table("hashtags").
		Select("hashtags.tag, COUNT(post_hashtags.post_id) as count").
		Joins("JOIN post_hashtags ON post_hashtags.hashtag_id = hashtags.id").
		Joins("JOIN posts ON posts.id = post_hashtags.post_id AND posts.deleted_at IS NULL").
		Where("posts.created_at > ?", since).
		Group("hashtags.tag").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
