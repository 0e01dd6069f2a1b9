package service

import (
	"context"

	"chirp/internal/models"
	"chirp/internal/repository"
)

// Follow actions accepted by FollowAction.
const (
	ActionFollow   = "follow"
	ActionUnfollow = "unfollow"
)

type ProfileService struct {
	profileRepo repository.ProfileRepository
}

type ListProfilesInput struct {
	CurrentUserID    uint
	CurrentProfileID uint
	Limit            int
	Offset           int
}

type FollowActionInput struct {
	CurrentUserID    uint
	CurrentProfileID uint
	TargetUserID     uint
	Action           string
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uint, currentProfileID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID, currentProfileID)
}

// ListProfiles returns every profile except the caller's own.
func (s *ProfileService) ListProfiles(ctx context.Context, in ListProfilesInput) ([]*models.Profile, error) {
	return s.profileRepo.ListExcept(ctx, in.CurrentUserID, in.Limit, in.Offset, in.CurrentProfileID)
}

// FollowAction applies a follow or unfollow edge from the caller to the
// target. Both directions are idempotent: following an already-followed
// profile and unfollowing a never-followed one are no-ops.
func (s *ProfileService) FollowAction(ctx context.Context, in FollowActionInput) (*models.Profile, error) {
	if in.Action != ActionFollow && in.Action != ActionUnfollow {
		return nil, models.NewValidationError("action must be \"follow\" or \"unfollow\"")
	}
	if in.TargetUserID == in.CurrentUserID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}

	target, err := s.profileRepo.GetByUserID(ctx, in.TargetUserID, in.CurrentProfileID)
	if err != nil {
		return nil, err
	}

	switch in.Action {
	case ActionFollow:
		err = s.profileRepo.Follow(ctx, in.CurrentProfileID, target.ID)
	case ActionUnfollow:
		err = s.profileRepo.Unfollow(ctx, in.CurrentProfileID, target.ID)
	}
	if err != nil {
		return nil, err
	}

	// Re-read so follower counts and the followed flag reflect the change.
	return s.profileRepo.GetByUserID(ctx, in.TargetUserID, in.CurrentProfileID)
}

// GetFollowers returns the profiles following the given user. Only the
// profile owner may view the list.
func (s *ProfileService) GetFollowers(ctx context.Context, currentUserID, targetUserID uint) ([]*models.Profile, error) {
	if currentUserID != targetUserID {
		return nil, models.NewForbiddenError("That's Not Your Profile Page...")
	}
	profile, err := s.profileRepo.GetByUserID(ctx, targetUserID, 0)
	if err != nil {
		return nil, err
	}
	return s.profileRepo.Followers(ctx, profile.ID)
}

// GetFollowing returns the profiles the given user follows, owner-only
// like GetFollowers.
func (s *ProfileService) GetFollowing(ctx context.Context, currentUserID, targetUserID uint) ([]*models.Profile, error) {
	if currentUserID != targetUserID {
		return nil, models.NewForbiddenError("That's Not Your Profile Page...")
	}
	profile, err := s.profileRepo.GetByUserID(ctx, targetUserID, 0)
	if err != nil {
		return nil, err
	}
	return s.profileRepo.Following(ctx, profile.ID)
}
