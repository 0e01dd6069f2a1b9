// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment attached to a tweet. Comments have no edit
// or delete path.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Body      string         `gorm:"not null" json:"body"`
	UserID    uint           `gorm:"not null" json:"user_id"`
	TweetID   uint           `gorm:"not null;index" json:"tweet_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Tweet     Tweet          `gorm:"foreignKey:TweetID" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
