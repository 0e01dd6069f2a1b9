// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// ProfileRepository defines the interface for profile and follow-graph
// operations. Profiles are addressed by their owning user's ID, which is
// the identifier the HTTP surface exposes.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uint, currentProfileID uint) (*models.Profile, error)
	ListExcept(ctx context.Context, excludeUserID uint, limit, offset int, currentProfileID uint) ([]*models.Profile, error)
	// Follow adds a directed edge follower -> target. Adding an existing
	// edge is a no-op; the insert is conditional at the store so crossing
	// requests cannot produce duplicates.
	Follow(ctx context.Context, followerID, targetID uint) error
	// Unfollow removes the edge if present; removing an absent edge is a no-op.
	Unfollow(ctx context.Context, followerID, targetID uint) error
	IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error)
	Followers(ctx context.Context, profileID uint) ([]*models.Profile, error)
	Following(ctx context.Context, profileID uint) ([]*models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// applyProfileDetails adds subqueries computing follower/following counts
// and, for an authenticated caller, whether the caller follows the row.
func (r *profileRepository) applyProfileDetails(db *gorm.DB, currentProfileID uint) *gorm.DB {
	selectQuery := "profiles.*, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.target_id = profiles.id) as followers_count, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.profile_id = profiles.id) as following_count"

	if currentProfileID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM follows WHERE follows.profile_id = ? AND follows.target_id = profiles.id) as followed", currentProfileID)
	}

	return db.Select(selectQuery + ", false as followed")
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID uint, currentProfileID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.applyProfileDetails(r.db.WithContext(ctx), currentProfileID).
		Preload("User").
		Where("profiles.user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Profile", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) ListExcept(ctx context.Context, excludeUserID uint, limit, offset int, currentProfileID uint) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.applyProfileDetails(r.db.WithContext(ctx), currentProfileID).
		Preload("User").
		Where("profiles.user_id <> ?", excludeUserID).
		Order("profiles.created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Follow(ctx context.Context, followerID, targetID uint) error {
	// INSERT ... ON CONFLICT DO NOTHING makes the toggle atomic and
	// idempotent under concurrent requests from the same user.
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO follows (profile_id, target_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (profile_id, target_id) DO NOTHING`,
		followerID, targetID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	return nil
}

func (r *profileRepository) Unfollow(ctx context.Context, followerID, targetID uint) error {
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND target_id = ?", followerID, targetID).
		Delete(&models.Follow{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *profileRepository) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Where("profile_id = ? AND target_id = ?", followerID, targetID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *profileRepository) Followers(ctx context.Context, profileID uint) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN follows f ON profiles.id = f.profile_id").
		Where("f.target_id = ?", profileID).
		Order("f.created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

func (r *profileRepository) Following(ctx context.Context, profileID uint) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN follows f ON profiles.id = f.target_id").
		Where("f.profile_id = ?", profileID).
		Order("f.created_at DESC").
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}
