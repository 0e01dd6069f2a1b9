package models

import "time"

// Follow is the join row behind Profile.Follows. The pair is unique so a
// duplicate follow is a conflict the store resolves to a no-op, not an
// error.
type Follow struct {
	ProfileID uint      `gorm:"primaryKey;uniqueIndex:idx_profile_target" json:"profile_id"`
	TargetID  uint      `gorm:"primaryKey;uniqueIndex:idx_profile_target" json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName matches the many2many table on Profile.Follows.
func (Follow) TableName() string { return "follows" }
