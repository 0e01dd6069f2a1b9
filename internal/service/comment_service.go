package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"chirp/internal/models"
	"chirp/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	tweetRepo   repository.TweetRepository
}

type CreateCommentInput struct {
	UserID  uint
	TweetID uint
	Body    string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	tweetRepo repository.TweetRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		tweetRepo:   tweetRepo,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if _, err := s.tweetRepo.GetByID(ctx, in.TweetID, 0); err != nil {
		return nil, err
	}
	const maxCommentLen = 10000

	body := strings.TrimSpace(in.Body)
	if body == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	if utf8.RuneCountInString(body) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		Body:    body,
		UserID:  in.UserID,
		TweetID: in.TweetID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, tweetID uint) ([]*models.Comment, error) {
	if _, err := s.tweetRepo.GetByID(ctx, tweetID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByTweet(ctx, tweetID)
}
