package repository

import (
	"context"

	"aura/internal/cache"
	"aura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngagementRepository covers the (post, actor) engagement records:
// likes, saves, shares, reposts, views, flags, RSVPs and energy ratings.
// All inserts are idempotent via the composite primary key plus
// ON CONFLICT DO NOTHING; the bool result reports whether a row was
// actually inserted so callers can avoid duplicate notifications.
type EngagementRepository interface {
	Like(ctx context.Context, userID, postID uint) (bool, error)
	Unlike(ctx context.Context, userID, postID uint) error
	SavePost(ctx context.Context, userID, postID uint) (bool, error)
	UnsavePost(ctx context.Context, userID, postID uint) error
	Share(ctx context.Context, userID, postID uint) (bool, error)
	Repost(ctx context.Context, userID, postID uint) (bool, error)
	RecordView(ctx context.Context, userID, postID uint) error
	Flag(ctx context.Context, userID, postID uint, reason string) (bool, error)
	FlagCount(ctx context.Context, postID uint) (int64, error)
	UpsertRSVP(ctx context.Context, rsvp *models.RSVP) error
	ListRSVPs(ctx context.Context, postID uint) ([]models.RSVP, error)
	// RateUser upserts a rating row and recomputes the ratee's aggregate
	// in one transaction.
	RateUser(ctx context.Context, raterID, rateeID uint, value int) error
	SavedPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error)
}

type engagementRepository struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new engagement repository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepository{db: db}
}

// insertIgnoringConflict inserts the value and reports whether a new row
// was written. Conflicts on the composite key are silently dropped, which
// is what makes double-submission idempotent.
func (r *engagementRepository) insertIgnoringConflict(ctx context.Context, value interface{}) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(value)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *engagementRepository) Like(ctx context.Context, userID, postID uint) (bool, error) {
	inserted, err := r.insertIgnoringConflict(ctx, &models.Like{UserID: userID, PostID: postID})
	if err == nil && inserted {
		cache.Invalidate(ctx, cache.PostKey(postID))
	}
	return inserted, err
}

func (r *engagementRepository) Unlike(ctx context.Context, userID, postID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Like{}).Error
	if err == nil {
		cache.Invalidate(ctx, cache.PostKey(postID))
	}
	return err
}

func (r *engagementRepository) SavePost(ctx context.Context, userID, postID uint) (bool, error) {
	return r.insertIgnoringConflict(ctx, &models.Save{UserID: userID, PostID: postID})
}

func (r *engagementRepository) UnsavePost(ctx context.Context, userID, postID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.Save{}).Error
}

func (r *engagementRepository) Share(ctx context.Context, userID, postID uint) (bool, error) {
	return r.insertIgnoringConflict(ctx, &models.Share{UserID: userID, PostID: postID})
}

func (r *engagementRepository) Repost(ctx context.Context, userID, postID uint) (bool, error) {
	return r.insertIgnoringConflict(ctx, &models.Repost{UserID: userID, PostID: postID})
}

func (r *engagementRepository) RecordView(ctx context.Context, userID, postID uint) error {
	_, err := r.insertIgnoringConflict(ctx, &models.PostView{UserID: userID, PostID: postID})
	return err
}

func (r *engagementRepository) Flag(ctx context.Context, userID, postID uint, reason string) (bool, error) {
	return r.insertIgnoringConflict(ctx, &models.Flag{UserID: userID, PostID: postID, Reason: reason})
}

func (r *engagementRepository) FlagCount(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Flag{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (r *engagementRepository) UpsertRSVP(ctx context.Context, rsvp *models.RSVP) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(rsvp).Error
}

func (r *engagementRepository) ListRSVPs(ctx context.Context, postID uint) ([]models.RSVP, error) {
	var rsvps []models.RSVP
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Find(&rsvps).Error
	return rsvps, err
}

func (r *engagementRepository) RateUser(ctx context.Context, raterID, rateeID uint, value int) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rating := &models.EnergyRating{RaterID: raterID, RateeID: rateeID, Value: value}
		if err := tx.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "rater_id"}, {Name: "ratee_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).
			Create(rating).Error; err != nil {
			return err
		}

		// Recompute the aggregate from the rating rows rather than
		// patching it incrementally, so re-rating stays correct.
		var agg struct {
			Sum   int
			Count int
		}
		if err := tx.Model(&models.EnergyRating{}).
			Select("COALESCE(SUM(value), 0) as sum, COUNT(*) as count").
			Where("ratee_id = ?", rateeID).
			Scan(&agg).Error; err != nil {
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", rateeID).
			Updates(map[string]interface{}{"aura_sum": agg.Sum, "aura_count": agg.Count}).Error
	})
	if err == nil {
		cache.InvalidateUser(ctx, rateeID)
	}
	return err
}

func (r *engagementRepository) SavedPosts(ctx context.Context, userID uint, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("List").
		Joins("JOIN saves ON saves.post_id = posts.id").
		Where("saves.user_id = ?", userID).
		Order("saves.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}
