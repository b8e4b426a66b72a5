package models

import "time"

// Favorite marks a catalog property as saved by a user. One row per pair.
type Favorite struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_user_property" json:"user_id"`
	PropertyID string    `gorm:"type:varchar(191);not null;uniqueIndex:idx_user_property" json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Favorite) TableName() string {
	return "favorites"
}
