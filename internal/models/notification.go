package models

import "time"

// NotificationType tags what action produced a notification.
type NotificationType string

const (
	NotificationFriendRequest  NotificationType = "friend_request"
	NotificationFriendAccepted NotificationType = "friend_accepted"
	NotificationListInvite     NotificationType = "list_invite"
	NotificationAccessRequest  NotificationType = "access_request"
	NotificationAccessGranted  NotificationType = "access_granted"
	NotificationPostTag        NotificationType = "post_tag"
	NotificationPostLike       NotificationType = "post_like"
	NotificationPostComment    NotificationType = "post_comment"
	NotificationPostRemoved    NotificationType = "post_removed"
	NotificationRSVP           NotificationType = "rsvp"
)

// Notification is a directed (recipient, actor, subject) record. It is
// created by the action that warrants it and mutated only by
// read-acknowledgement.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	ActorID   *uint            `json:"actor_id,omitempty"`
	Actor     *User            `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
	Type      NotificationType `gorm:"type:varchar(40);not null" json:"type"`
	PostID    *uint            `json:"post_id,omitempty"`
	ListID    *uint            `json:"list_id,omitempty"`
	Message   string           `gorm:"type:text" json:"message"`
	Viewed    bool             `gorm:"not null;default:false;index" json:"viewed"`
	CreatedAt time.Time        `json:"created_at"`
}
