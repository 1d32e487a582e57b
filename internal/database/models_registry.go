package database

import "aura/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.List{},
		&models.Post{},
		&models.PostTag{},
		&models.Comment{},
		&models.Like{},
		&models.Save{},
		&models.Share{},
		&models.Repost{},
		&models.PostView{},
		&models.Flag{},
		&models.RSVP{},
		&models.EnergyRating{},
		&models.Hashtag{},
		&models.HashtagFollow{},
		&models.Friendship{},
		&models.ListAccess{},
		&models.AccessRequest{},
		&models.Notification{},
		&models.AdminUser{},
		&models.AdminSession{},
		&models.AuditLog{},
		&models.ModerationAction{},
		&models.ReviewQueueItem{},
	}
}
