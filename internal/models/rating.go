package models

import "time"

// EnergyRating bounds for the 1-7 aura scale.
const (
	EnergyRatingMin = 1
	EnergyRatingMax = 7
)

// EnergyRating is one user's aura rating of another, on a 1-7 scale.
// A rater holds at most one rating per ratee; re-rating updates the row
// and the ratee's aggregate.
type EnergyRating struct {
	RaterID   uint      `gorm:"primaryKey;autoIncrement:false" json:"rater_id"`
	RateeID   uint      `gorm:"primaryKey;autoIncrement:false" json:"ratee_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (EnergyRating) TableName() string {
	return "energy_ratings"
}
