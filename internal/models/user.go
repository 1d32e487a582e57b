package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user in the Aura application.
type User struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Username       string  `gorm:"unique;not null" json:"username"`
	Email          string  `gorm:"unique;not null" json:"email"`
	Password       string  `gorm:"not null" json:"-"`
	DisplayName    string  `json:"display_name"`
	Bio            string  `json:"bio"`
	Avatar         string  `json:"avatar"`
	DefaultPrivacy Privacy `gorm:"type:varchar(20);not null;default:'public'" json:"default_privacy"`
	// AuraSum and AuraCount hold the aggregate energy rating (1-7 scale).
	AuraSum   int            `gorm:"not null;default:0" json:"aura_sum"`
	AuraCount int            `gorm:"not null;default:0" json:"aura_count"`
	IsBanned  bool           `gorm:"not null;default:false" json:"is_banned"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}

// AuraAverage returns the user's mean energy rating, or 0 when unrated.
func (u *User) AuraAverage() float64 {
	if u.AuraCount == 0 {
		return 0
	}
	return float64(u.AuraSum) / float64(u.AuraCount)
}
