package service

import (
	"context"
	"strings"

	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/validation"
)

type AccountService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
}

type UpdateAccountInput struct {
	UserID    uint
	Username  string
	Email     string
	AvatarURL string
}

func NewAccountService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// UpdateAccount applies username, email and avatar changes. The user and
// profile rows are written in one transaction so a failure leaves both
// untouched.
func (s *AccountService) UpdateAccount(ctx context.Context, in UpdateAccountInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, in.UserID, 0)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		username := strings.TrimSpace(in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Username = username
	}
	if in.Email != "" {
		email := strings.TrimSpace(in.Email)
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		user.Email = email
	}
	if in.AvatarURL != "" {
		profile.AvatarURL = in.AvatarURL
	}

	if err := s.userRepo.UpdateWithProfile(ctx, user, profile); err != nil {
		return nil, err
	}

	user.Profile = profile
	return user, nil
}

// SetAvatar points the caller's profile at a freshly stored avatar image.
func (s *AccountService) SetAvatar(ctx context.Context, userID uint, avatarURL string) (*models.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profileRepo.GetByUserID(ctx, userID, 0)
	if err != nil {
		return nil, err
	}

	profile.AvatarURL = avatarURL
	if err := s.userRepo.UpdateWithProfile(ctx, user, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
