package repository

import (
	"context"
	"errors"

	"aura/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccessRepository defines the interface for list access and access
// request data operations.
type AccessRepository interface {
	// UpsertInvite inserts a pending access row, or resets an existing
	// (list, user) row to the invited role and pending status.
	UpsertInvite(ctx context.Context, access *models.ListAccess) error
	GetByID(ctx context.Context, id uint) (*models.ListAccess, error)
	GetAccess(ctx context.Context, listID, userID uint) (*models.ListAccess, error)
	HasAcceptedAccess(ctx context.Context, listID, userID uint) (bool, error)
	ListForList(ctx context.Context, listID uint) ([]models.ListAccess, error)
	UpdateStatus(ctx context.Context, accessID uint, status models.ListAccessStatus) error
	DeleteAccess(ctx context.Context, listID, userID uint) error
	// InsertAccepted inserts an already-accepted access row (access
	// request approval path, which bypasses the pending invite flow).
	InsertAccepted(ctx context.Context, tx *gorm.DB, access *models.ListAccess) error

	CreateRequest(ctx context.Context, req *models.AccessRequest) error
	GetRequestByID(ctx context.Context, id uint) (*models.AccessRequest, error)
	GetRequest(ctx context.Context, listID, userID uint) (*models.AccessRequest, error)
	ListRequestsForList(ctx context.Context, listID uint) ([]models.AccessRequest, error)
	DeleteRequest(ctx context.Context, tx *gorm.DB, id uint) error
}

type accessRepository struct {
	db *gorm.DB
}

// NewAccessRepository creates a new access repository
func NewAccessRepository(db *gorm.DB) AccessRepository {
	return &accessRepository{db: db}
}

func (r *accessRepository) UpsertInvite(ctx context.Context, access *models.ListAccess) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "list_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "status", "invited_by_id", "updated_at"}),
		}).
		Create(access).Error
}

func (r *accessRepository) GetByID(ctx context.Context, id uint) (*models.ListAccess, error) {
	var access models.ListAccess
	err := r.db.WithContext(ctx).Preload("List").First(&access, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("List access", id)
	}
	if err != nil {
		return nil, err
	}
	return &access, nil
}

func (r *accessRepository) GetAccess(ctx context.Context, listID, userID uint) (*models.ListAccess, error) {
	var access models.ListAccess
	err := r.db.WithContext(ctx).
		Where("list_id = ? AND user_id = ?", listID, userID).
		First(&access).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// HasAcceptedAccess only honors accepted rows; pending and rejected
// grants confer nothing.
func (r *accessRepository) HasAcceptedAccess(ctx context.Context, listID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ListAccess{}).
		Where("list_id = ? AND user_id = ? AND status = ?", listID, userID, models.ListAccessStatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *accessRepository) ListForList(ctx context.Context, listID uint) ([]models.ListAccess, error) {
	var rows []models.ListAccess
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("list_id = ?", listID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *accessRepository) UpdateStatus(ctx context.Context, accessID uint, status models.ListAccessStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.ListAccess{}).
		Where("id = ?", accessID).
		Update("status", status).Error
}

func (r *accessRepository) DeleteAccess(ctx context.Context, listID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("list_id = ? AND user_id = ?", listID, userID).
		Delete(&models.ListAccess{}).Error
}

func (r *accessRepository) InsertAccepted(ctx context.Context, tx *gorm.DB, access *models.ListAccess) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	access.Status = models.ListAccessStatusAccepted
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "list_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "status", "updated_at"}),
		}).
		Create(access).Error
}

func (r *accessRepository) CreateRequest(ctx context.Context, req *models.AccessRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *accessRepository) GetRequestByID(ctx context.Context, id uint) (*models.AccessRequest, error) {
	var req models.AccessRequest
	err := r.db.WithContext(ctx).Preload("List").Preload("User").First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Access request", id)
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *accessRepository) GetRequest(ctx context.Context, listID, userID uint) (*models.AccessRequest, error) {
	var req models.AccessRequest
	err := r.db.WithContext(ctx).
		Where("list_id = ? AND user_id = ?", listID, userID).
		First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *accessRepository) ListRequestsForList(ctx context.Context, listID uint) ([]models.AccessRequest, error) {
	var reqs []models.AccessRequest
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("list_id = ?", listID).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *accessRepository) DeleteRequest(ctx context.Context, tx *gorm.DB, id uint) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Delete(&models.AccessRequest{}, id).Error
}
