package models

import "time"

// AccessRequest is a user's solicitation for a role on a list they do not
// yet have access to. The list owner resolves it: approval inserts an
// accepted ListAccess row and deletes the request, rejection just deletes
// the request.
type AccessRequest struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ListID        uint      `gorm:"not null;index" json:"list_id"`
	List          *List     `gorm:"foreignKey:ListID" json:"list,omitempty"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	RequestedRole ListRole  `gorm:"type:varchar(20);not null" json:"requested_role"`
	Message       string    `gorm:"type:text" json:"message"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (AccessRequest) TableName() string {
	return "access_requests"
}
