package repository

import (
	"context"
	"errors"

	"aura/internal/cache"
	"aura/internal/models"

	"gorm.io/gorm"
)

// ListRepository defines the interface for list data operations
type ListRepository interface {
	Create(ctx context.Context, list *models.List) error
	GetByID(ctx context.Context, id uint) (*models.List, error)
	GetByOwner(ctx context.Context, ownerID uint) ([]models.List, error)
	Update(ctx context.Context, list *models.List) error
	// Delete removes a list and reassigns its posts to the General list.
	Delete(ctx context.Context, id uint) error
}

type listRepository struct {
	db *gorm.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *gorm.DB) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(ctx context.Context, list *models.List) error {
	return r.db.WithContext(ctx).Create(list).Error
}

func (r *listRepository) GetByID(ctx context.Context, id uint) (*models.List, error) {
	var list models.List
	err := cache.Aside(ctx, cache.ListKey(id), &list, cache.ListTTL, func() error {
		return r.db.WithContext(ctx).First(&list, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("List", id)
		}
		return nil, err
	}
	return &list, nil
}

func (r *listRepository) GetByOwner(ctx context.Context, ownerID uint) ([]models.List, error) {
	var lists []models.List
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&lists).Error
	return lists, err
}

func (r *listRepository) Update(ctx context.Context, list *models.List) error {
	if err := r.db.WithContext(ctx).Save(list).Error; err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.ListKey(list.ID))
	return nil
}

// Delete reassigns the list's posts to the General list before removing
// the list itself, in one transaction. Contained posts are never deleted.
func (r *listRepository) Delete(ctx context.Context, id uint) error {
	if id == models.GeneralListID {
		return models.NewValidationError("The General list cannot be deleted")
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("list_id = ?", id).
			Update("list_id", models.GeneralListID).Error; err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", id).Delete(&models.ListAccess{}).Error; err != nil {
			return err
		}
		if err := tx.Where("list_id = ?", id).Delete(&models.AccessRequest{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.List{}, id).Error
	})
	if err != nil {
		return err
	}
	cache.Invalidate(ctx, cache.ListKey(id))
	cache.InvalidatePostsList(ctx)
	return nil
}
