// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Profile is the per-user social-graph extension record: avatar plus the
// directed follow relation. The follows edge points from follower profile
// to followed profile.
type Profile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	AvatarURL string         `json:"avatar_url"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Follows holds the profiles this profile follows (directed edge).
	Follows []*Profile `gorm:"many2many:follows;joinForeignKey:ProfileID;joinReferences:TargetID" json:"follows,omitempty"`

	// FollowersCount and FollowingCount are not persisted; computed at query time.
	FollowersCount int `gorm:"->" json:"followers_count"`
	FollowingCount int `gorm:"->" json:"following_count"`
	// Followed indicates whether the requesting user's profile follows this one (computed).
	Followed bool `gorm:"->" json:"followed"`
}
