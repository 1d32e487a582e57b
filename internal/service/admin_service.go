package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aura/internal/models"
	"aura/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AdminService backs the moderation dashboard. Admin accounts and their
// sessions live in their own tables; a valid dashboard token never grants
// access to the user-facing API and vice versa.
type AdminService struct {
	db         *gorm.DB
	sessionTTL time.Duration
}

// AdminAnalytics is the dashboard's summary snapshot.
type AdminAnalytics struct {
	TotalUsers      int64 `json:"total_users"`
	BannedUsers     int64 `json:"banned_users"`
	TotalPosts      int64 `json:"total_posts"`
	RemovedPosts    int64 `json:"removed_posts"`
	TotalLists      int64 `json:"total_lists"`
	OpenFlags       int64 `json:"open_flags"`
	PendingReviews  int64 `json:"pending_reviews"`
	ActionsThisWeek int64 `json:"actions_this_week"`
	SignupsThisWeek int64 `json:"signups_this_week"`
	PostsThisWeek   int64 `json:"posts_this_week"`

	// AverageAura is the mean of all submitted energy ratings (1-7 scale).
	AverageAura float64 `json:"average_aura"`
	// CosmicScore is total engagement points amplified by the community's
	// average rating: points * (1 + average/max).
	CosmicScore float64 `json:"cosmic_score"`
}

// NewAdminService returns a new AdminService.
func NewAdminService(db *gorm.DB, sessionTTL time.Duration) *AdminService {
	return &AdminService{db: db, sessionTTL: sessionTTL}
}

// CreateAdmin provisions an admin account with a bcrypt-hashed password.
func (s *AdminService) CreateAdmin(ctx context.Context, username, email, password string) (*models.AdminUser, error) {
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.AdminUser{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, models.NewValidationError("Admin username or email already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	admin := &models.AdminUser{Username: username, Email: email, Password: string(hash)}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// Login verifies admin credentials and mints an opaque session token.
func (s *AdminService) Login(ctx context.Context, username, password string) (*models.AdminSession, error) {
	var admin models.AdminUser
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&admin).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewUnauthorizedError("Invalid admin credentials")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid admin credentials")
	}

	session := &models.AdminSession{
		AdminUserID: admin.ID,
		Token:       strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", ""),
		ExpiresAt:   time.Now().Add(s.sessionTTL),
	}
	if err := s.db.WithContext(ctx).Create(session).Error; err != nil {
		return nil, err
	}

	s.audit(ctx, admin.ID, "login", "admin_user", admin.ID, "")
	return session, nil
}

// ValidateSession resolves a dashboard token to its admin user. Expired
// sessions are deleted on sight.
func (s *AdminService) ValidateSession(ctx context.Context, token string) (*models.AdminUser, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("Admin session required")
	}

	var session models.AdminSession
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&session).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, models.NewUnauthorizedError("Invalid admin session")
		}
		return nil, err
	}
	if session.Expired(time.Now()) {
		s.db.WithContext(ctx).Delete(&models.AdminSession{}, session.ID)
		return nil, models.NewUnauthorizedError("Admin session expired")
	}

	var admin models.AdminUser
	if err := s.db.WithContext(ctx).First(&admin, session.AdminUserID).Error; err != nil {
		return nil, models.NewUnauthorizedError("Invalid admin session")
	}
	return &admin, nil
}

// Logout revokes a session token. Unknown tokens are a no-op.
func (s *AdminService) Logout(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.AdminSession{}).Error
}

// audit appends to the audit log. Failures are swallowed so the audit
// trail never blocks the action itself.
func (s *AdminService) audit(ctx context.Context, adminID uint, action, targetType string, targetID uint, details string) {
	entry := &models.AuditLog{
		AdminUserID: adminID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		Details:     details,
	}
	_ = s.db.WithContext(ctx).Create(entry).Error
}

// BanUser suspends a user account. Banned users keep their content but
// cannot log in.
func (s *AdminService) BanUser(ctx context.Context, adminID, userID uint, reason string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_banned", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", userID)
	}

	action := &models.ModerationAction{
		AdminUserID: adminID,
		ContentType: "user",
		ContentID:   userID,
		Action:      "ban",
		Reason:      reason,
		Status:      models.ModerationActionActive,
	}
	if err := s.db.WithContext(ctx).Create(action).Error; err != nil {
		return err
	}
	s.audit(ctx, adminID, "ban_user", "user", userID, reason)
	return nil
}

// UnbanUser lifts a suspension and reverses the ban action record.
func (s *AdminService) UnbanUser(ctx context.Context, adminID, userID uint) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_banned", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("User", userID)
	}

	s.db.WithContext(ctx).Model(&models.ModerationAction{}).
		Where("content_type = ? AND content_id = ? AND action = ? AND status = ?",
			"user", userID, "ban", models.ModerationActionActive).
		Update("status", models.ModerationActionReversed)

	s.audit(ctx, adminID, "unban_user", "user", userID, "")
	return nil
}

// RemovePost takes a post down by admin decision and records a reversible
// moderation action.
func (s *AdminService) RemovePost(ctx context.Context, adminID, postID uint, reason string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Post{}, postID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", postID)
		}
		action := &models.ModerationAction{
			AdminUserID: adminID,
			ContentType: "post",
			ContentID:   postID,
			Action:      "remove",
			Reason:      reason,
			Status:      models.ModerationActionActive,
		}
		return tx.Create(action).Error
	})
	if err != nil {
		return err
	}
	s.audit(ctx, adminID, "remove_post", "post", postID, reason)
	return nil
}

// ReverseAction undoes a moderation action. Post removals are restored by
// clearing the soft-delete marker; bans are lifted.
func (s *AdminService) ReverseAction(ctx context.Context, adminID, actionID uint) error {
	var action models.ModerationAction
	err := s.db.WithContext(ctx).First(&action, actionID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return models.NewNotFoundError("ModerationAction", actionID)
		}
		return err
	}
	if action.Status != models.ModerationActionActive {
		return models.NewValidationError("Action is not active")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch {
		case action.ContentType == "post":
			if err := tx.Unscoped().Model(&models.Post{}).
				Where("id = ?", action.ContentID).
				Update("deleted_at", nil).Error; err != nil {
				return err
			}
		case action.ContentType == "user" && action.Action == "ban":
			if err := tx.Model(&models.User{}).
				Where("id = ?", action.ContentID).
				Update("is_banned", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.ModerationAction{}).
			Where("id = ?", actionID).
			Update("status", models.ModerationActionReversed).Error
	})
	if err != nil {
		return err
	}
	s.audit(ctx, adminID, "reverse_action", "moderation_action", actionID,
		fmt.Sprintf("%s %s %d", action.Action, action.ContentType, action.ContentID))
	return nil
}

// ReviewQueue returns queue items by status, highest priority first.
func (s *AdminService) ReviewQueue(ctx context.Context, status models.ReviewStatus, limit, offset int) ([]models.ReviewQueueItem, error) {
	q := s.db.WithContext(ctx).Model(&models.ReviewQueueItem{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var items []models.ReviewQueueItem
	err := q.Order("priority DESC, created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

// AssignReview claims a pending queue item for an admin.
func (s *AdminService) AssignReview(ctx context.Context, adminID, itemID uint) error {
	res := s.db.WithContext(ctx).Model(&models.ReviewQueueItem{}).
		Where("id = ? AND status = ?", itemID, models.ReviewStatusPending).
		Updates(map[string]interface{}{
			"status":         models.ReviewStatusAssigned,
			"assigned_to_id": adminID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewValidationError("Review item is not pending")
	}
	s.audit(ctx, adminID, "assign_review", "review_queue_item", itemID, "")
	return nil
}

// ResolveReview closes a queue item with the reviewer's notes.
func (s *AdminService) ResolveReview(ctx context.Context, adminID, itemID uint, notes string) error {
	res := s.db.WithContext(ctx).Model(&models.ReviewQueueItem{}).
		Where("id = ? AND status <> ?", itemID, models.ReviewStatusReviewed).
		Updates(map[string]interface{}{
			"status": models.ReviewStatusReviewed,
			"notes":  notes,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.NewValidationError("Review item is already resolved")
	}
	s.audit(ctx, adminID, "resolve_review", "review_queue_item", itemID, notes)
	return nil
}

// AuditTrail returns recent audit entries, newest first.
func (s *AdminService) AuditTrail(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	var entries []models.AuditLog
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	return entries, err
}

// Analytics computes the dashboard summary counters and derived scores.
func (s *AdminService) Analytics(ctx context.Context) (*AdminAnalytics, error) {
	out := &AdminAnalytics{}
	weekAgo := time.Now().AddDate(0, 0, -7)

	db := s.db.WithContext(ctx)
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&out.TotalUsers, db.Model(&models.User{})},
		{&out.BannedUsers, db.Model(&models.User{}).Where("is_banned = ?", true)},
		{&out.TotalPosts, db.Model(&models.Post{})},
		{&out.RemovedPosts, db.Model(&models.Post{}).Unscoped().Where("deleted_at IS NOT NULL")},
		{&out.TotalLists, db.Model(&models.List{})},
		{&out.OpenFlags, db.Model(&models.Flag{})},
		{&out.PendingReviews, db.Model(&models.ReviewQueueItem{}).Where("status = ?", models.ReviewStatusPending)},
		{&out.ActionsThisWeek, db.Model(&models.ModerationAction{}).Where("created_at >= ?", weekAgo)},
		{&out.SignupsThisWeek, db.Model(&models.User{}).Where("created_at >= ?", weekAgo)},
		{&out.PostsThisWeek, db.Model(&models.Post{}).Where("created_at >= ?", weekAgo)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Model(&models.EnergyRating{}).
		Select("COALESCE(AVG(value), 0)").
		Scan(&out.AverageAura).Error; err != nil {
		return nil, err
	}

	var points int64
	for _, model := range []interface{}{
		&models.Like{}, &models.Comment{}, &models.Share{}, &models.Repost{}, &models.Save{},
	} {
		var n int64
		if err := db.Model(model).Count(&n).Error; err != nil {
			return nil, err
		}
		points += n
	}
	out.CosmicScore = float64(points) * (1 + out.AverageAura/models.EnergyRatingMax)

	return out, nil
}
