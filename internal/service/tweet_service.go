package service

import (
	"context"
	"strings"

	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/validation"
)

type TweetService struct {
	tweetRepo repository.TweetRepository
}

type CreateTweetInput struct {
	UserID uint
	Body   string
}

type ListTweetsInput struct {
	Limit         int
	Offset        int
	CurrentUserID uint
}

type UpdateTweetInput struct {
	UserID  uint
	TweetID uint
	Body    string
}

type DeleteTweetInput struct {
	UserID  uint
	TweetID uint
}

func NewTweetService(tweetRepo repository.TweetRepository) *TweetService {
	return &TweetService{tweetRepo: tweetRepo}
}

func (s *TweetService) CreateTweet(ctx context.Context, in CreateTweetInput) (*models.Tweet, error) {
	body := strings.TrimSpace(in.Body)
	if err := validation.ValidateTweetBody(body); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	tweet := &models.Tweet{
		Body:   body,
		UserID: in.UserID,
	}
	if err := s.tweetRepo.Create(ctx, tweet); err != nil {
		return nil, err
	}

	return s.tweetRepo.GetByID(ctx, tweet.ID, in.UserID)
}

func (s *TweetService) ListTweets(ctx context.Context, in ListTweetsInput) ([]*models.Tweet, error) {
	return s.tweetRepo.List(ctx, in.Limit, in.Offset, in.CurrentUserID)
}

func (s *TweetService) GetTweet(ctx context.Context, id uint, currentUserID uint) (*models.Tweet, error) {
	return s.tweetRepo.GetByID(ctx, id, currentUserID)
}

func (s *TweetService) GetUserTweets(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Tweet, error) {
	return s.tweetRepo.GetByUserID(ctx, userID, limit, offset, currentUserID)
}

func (s *TweetService) UpdateTweet(ctx context.Context, in UpdateTweetInput) (*models.Tweet, error) {
	tweet, err := s.tweetRepo.GetByID(ctx, in.TweetID, in.UserID)
	if err != nil {
		return nil, err
	}

	if tweet.UserID != in.UserID {
		return nil, models.NewForbiddenError("Não é seu Tweet!!")
	}

	body := strings.TrimSpace(in.Body)
	if err := validation.ValidateTweetBody(body); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	tweet.Body = body

	if err := s.tweetRepo.Update(ctx, tweet); err != nil {
		return nil, err
	}
	return tweet, nil
}

func (s *TweetService) DeleteTweet(ctx context.Context, in DeleteTweetInput) error {
	tweet, err := s.tweetRepo.GetByID(ctx, in.TweetID, in.UserID)
	if err != nil {
		return err
	}

	if tweet.UserID != in.UserID {
		return models.NewForbiddenError("Não é seu Tweet!!")
	}

	return s.tweetRepo.Delete(ctx, in.TweetID)
}

// ToggleLike flips the caller's like on a tweet. The insert and delete are
// conditional at the store, so concurrent toggles from one user converge.
func (s *TweetService) ToggleLike(ctx context.Context, userID, tweetID uint) (*models.Tweet, error) {
	if _, err := s.tweetRepo.GetByID(ctx, tweetID, userID); err != nil {
		return nil, err
	}

	isLiked, err := s.tweetRepo.IsLiked(ctx, userID, tweetID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		if err := s.tweetRepo.Unlike(ctx, userID, tweetID); err != nil {
			return nil, err
		}
	} else {
		if err := s.tweetRepo.Like(ctx, userID, tweetID); err != nil {
			return nil, err
		}
	}

	return s.tweetRepo.GetByID(ctx, tweetID, userID)
}
