package models

import "time"

// Hashtag is a normalized (lowercase, no '#') topic tag.
type Hashtag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Tag       string    `gorm:"size:80;not null;uniqueIndex" json:"tag"`
	CreatedAt time.Time `json:"created_at"`
}

// HashtagFollow subscribes a user to a hashtag.
type HashtagFollow struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	HashtagID uint      `gorm:"primaryKey;autoIncrement:false" json:"hashtag_id"`
	Hashtag   *Hashtag  `gorm:"foreignKey:HashtagID" json:"hashtag,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (HashtagFollow) TableName() string {
	return "hashtag_follows"
}
