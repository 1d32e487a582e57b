package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a shared link or media item in the Aura application.
// Every post belongs to exactly one list (GeneralListID when unspecified)
// and carries its own privacy level independent of the list's.
type Post struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Title   string  `gorm:"not null" json:"title"`
	Content string  `gorm:"type:text" json:"content"`
	UserID  uint    `gorm:"not null;index" json:"user_id"`
	User    User    `gorm:"foreignKey:UserID" json:"user"`
	ListID  uint    `gorm:"not null;index;default:1" json:"list_id"`
	List    *List   `gorm:"foreignKey:ListID" json:"list,omitempty"`
	Privacy Privacy `gorm:"type:varchar(20);not null;default:'public'" json:"privacy"`

	LinkURL  string `json:"link_url"`
	MediaURL string `json:"media_url"`

	// Event metadata, present when the post doubles as an event.
	EventDate  *time.Time `json:"event_date,omitempty"`
	Recurrence string     `gorm:"size:40" json:"recurrence,omitempty"`
	TaskList   string     `gorm:"type:text" json:"task_list,omitempty"`
	AllowRSVP  bool       `gorm:"not null;default:false" json:"allow_rsvp"`

	Hashtags    []Hashtag `gorm:"many2many:post_hashtags" json:"hashtags,omitempty"`
	TaggedUsers []PostTag `gorm:"foreignKey:PostID" json:"tagged_users,omitempty"`

	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked bool `gorm:"->" json:"liked"`
	// Saved indicates whether the current requesting user saved this post (computed)
	Saved bool `gorm:"->" json:"saved"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// PostTag marks a user as a tagged recipient of a post. Tagged users can
// see an otherwise-private post (secondary visibility path).
type PostTag struct {
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (PostTag) TableName() string {
	return "post_tags"
}
