package models

import "time"

// ListRole defines what a non-owner may do on a list.
type ListRole string

const (
	// ListRoleOwner is the implicit role of the list's owner; never stored.
	ListRoleOwner ListRole = "owner"
	// ListRoleCollaborator grants read-write access to a private list.
	ListRoleCollaborator ListRole = "collaborator"
	// ListRoleViewer grants read-only access to a private list.
	ListRoleViewer ListRole = "viewer"
)

// GrantableRole reports whether r can be stored on a ListAccess row.
func GrantableRole(r ListRole) bool {
	return r == ListRoleCollaborator || r == ListRoleViewer
}

// ListAccessStatus is the lifecycle state of a list access grant.
type ListAccessStatus string

const (
	// ListAccessStatusPending indicates an invitation awaiting a response.
	ListAccessStatusPending ListAccessStatus = "pending"
	// ListAccessStatusAccepted indicates the grant is live.
	ListAccessStatusAccepted ListAccessStatus = "accepted"
	// ListAccessStatusRejected indicates the invitee declined.
	ListAccessStatusRejected ListAccessStatus = "rejected"
)

// ListAccess grants a user a role on a list. Only accepted rows confer
// access; visibility checks must never honor pending or rejected rows.
// The (list_id, user_id) pair is unique so duplicate invites collapse into
// a single row.
type ListAccess struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	ListID      uint             `gorm:"not null;uniqueIndex:idx_list_access_list_user" json:"list_id"`
	List        *List            `gorm:"foreignKey:ListID" json:"list,omitempty"`
	UserID      uint             `gorm:"not null;uniqueIndex:idx_list_access_list_user" json:"user_id"`
	User        *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Role        ListRole         `gorm:"type:varchar(20);not null" json:"role"`
	Status      ListAccessStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	InvitedByID *uint            `json:"invited_by_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (ListAccess) TableName() string {
	return "list_accesses"
}
