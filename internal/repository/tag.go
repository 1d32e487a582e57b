package repository

import (
	"context"

	"aura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository covers tagged-recipient rows on posts.
type TagRepository interface {
	TagUsers(ctx context.Context, tx *gorm.DB, postID uint, userIDs []uint) error
	IsTagged(ctx context.Context, postID, userID uint) (bool, error)
	TaggedUserIDs(ctx context.Context, postID uint) ([]uint, error)
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) TagUsers(ctx context.Context, tx *gorm.DB, postID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	db := r.db
	if tx != nil {
		db = tx
	}
	rows := make([]models.PostTag, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, models.PostTag{PostID: postID, UserID: id})
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *tagRepository) IsTagged(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PostTag{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *tagRepository) TaggedUserIDs(ctx context.Context, postID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.PostTag{}).
		Where("post_id = ?", postID).
		Pluck("user_id", &ids).Error
	return ids, err
}
