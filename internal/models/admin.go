package models

import "time"

// AdminUser is a moderation principal. Admins live in a separate table and
// authenticate with opaque session tokens, entirely apart from ordinary
// user JWT auth.
type AdminUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"unique;not null" json:"username"`
	Email     string    `gorm:"unique;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminSession is a bearer token with expiry for an admin user.
type AdminSession struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AdminUserID uint      `gorm:"not null;index" json:"admin_user_id"`
	Token       string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Expired reports whether the session is past its expiry.
func (s *AdminSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// AuditLog is an append-only record of an admin action.
type AuditLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	AdminUserID uint      `gorm:"not null;index" json:"admin_user_id"`
	Action      string    `gorm:"size:80;not null" json:"action"`
	TargetType  string    `gorm:"size:40" json:"target_type"`
	TargetID    uint      `json:"target_id"`
	Details     string    `gorm:"type:text" json:"details"`
	CreatedAt   time.Time `json:"created_at"`
}

// ModerationActionStatus tracks whether an action is still in force.
type ModerationActionStatus string

const (
	// ModerationActionActive indicates the action is in force.
	ModerationActionActive ModerationActionStatus = "active"
	// ModerationActionReversed indicates the action was undone via status
	// flag; the row itself is never deleted.
	ModerationActionReversed ModerationActionStatus = "reversed"
)

// ModerationAction records a reversible moderation decision against a
// piece of content or a user.
type ModerationAction struct {
	ID          uint                   `gorm:"primaryKey" json:"id"`
	AdminUserID uint                   `gorm:"not null;index" json:"admin_user_id"`
	ContentType string                 `gorm:"size:40;not null" json:"content_type"`
	ContentID   uint                   `gorm:"not null" json:"content_id"`
	Action      string                 `gorm:"size:40;not null" json:"action"`
	Reason      string                 `gorm:"type:text" json:"reason"`
	Status      ModerationActionStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// ReviewStatus is the lifecycle state of a review queue item.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusAssigned ReviewStatus = "assigned"
	ReviewStatusReviewed ReviewStatus = "reviewed"
)

// ReviewQueueItem is a flagged piece of content awaiting admin review.
type ReviewQueueItem struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	ContentType  string       `gorm:"size:40;not null" json:"content_type"`
	ContentID    uint         `gorm:"not null;index" json:"content_id"`
	Priority     int          `gorm:"not null;default:0" json:"priority"`
	Status       ReviewStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	AssignedToID *uint        `json:"assigned_to_id,omitempty"`
	Notes        string       `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (ReviewQueueItem) TableName() string {
	return "review_queue_items"
}
