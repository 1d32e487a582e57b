package models

import "time"

// RSVPStatus is a user's reply to an event post.
type RSVPStatus string

const (
	RSVPGoing    RSVPStatus = "going"
	RSVPMaybe    RSVPStatus = "maybe"
	RSVPDeclined RSVPStatus = "declined"
)

// ValidRSVPStatus reports whether s is a defined RSVP reply.
func ValidRSVPStatus(s RSVPStatus) bool {
	switch s {
	case RSVPGoing, RSVPMaybe, RSVPDeclined:
		return true
	}
	return false
}

// RSVP is a user's reply to an event post. One row per (post, user);
// replying again overwrites the previous status.
type RSVP struct {
	PostID    uint       `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	UserID    uint       `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	Status    RSVPStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (RSVP) TableName() string {
	return "rsvps"
}
