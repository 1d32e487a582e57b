package models

import "time"

// GeneralListID is the built-in catch-all list every deployment seeds at
// bootstrap. Posts created without an explicit list land here, and posts of
// a deleted list are reassigned here rather than removed.
const GeneralListID uint = 1

// List is a named, privacy-scoped container of posts owned by one user.
// Its privacy level composes with each contained post's own privacy: the
// stricter of the two wins (see internal/visibility).
type List struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	OwnerID      uint      `gorm:"not null;index" json:"owner_id"`
	Owner        *User     `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	PrivacyLevel Privacy   `gorm:"type:varchar(20);not null;default:'public'" json:"privacy_level"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (List) TableName() string {
	return "lists"
}

// IsGeneral reports whether this is the built-in catch-all list.
func (l *List) IsGeneral() bool {
	return l.ID == GeneralListID
}
