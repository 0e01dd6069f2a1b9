package repository

import (
	"context"
	"errors"

	"chirp/internal/cache"
	"chirp/internal/models"

	"gorm.io/gorm"
)

// TweetRepository defines the interface for tweet data operations
type TweetRepository interface {
	Create(ctx context.Context, tweet *models.Tweet) error
	GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Tweet, error)
	GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Tweet, error)
	List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Tweet, error)
	Update(ctx context.Context, tweet *models.Tweet) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, userID, tweetID uint) (bool, error)
	Like(ctx context.Context, userID, tweetID uint) error
	Unlike(ctx context.Context, userID, tweetID uint) error
}

// tweetRepository implements TweetRepository
type tweetRepository struct {
	db *gorm.DB
}

// NewTweetRepository creates a new tweet repository
func NewTweetRepository(db *gorm.DB) TweetRepository {
	return &tweetRepository{db: db}
}

func (r *tweetRepository) Create(ctx context.Context, tweet *models.Tweet) error {
	err := r.db.WithContext(ctx).Create(tweet).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *tweetRepository) GetByID(ctx context.Context, id uint, currentUserID uint) (*models.Tweet, error) {
	var tweet models.Tweet

	var err error
	if currentUserID == 0 {
		// Anonymous reads share one cache entry; liked is always false.
		err = cache.Aside(ctx, cache.TweetKey(id), &tweet, cache.TweetTTL, func() error {
			return r.applyTweetDetails(r.db.WithContext(ctx), 0).
				Preload("User").
				First(&tweet, id).Error
		})
	} else {
		err = r.applyTweetDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			First(&tweet, id).Error
	}

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("tweet", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &tweet, nil
}

func (r *tweetRepository) GetByUserID(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Tweet, error) {
	var tweets []*models.Tweet
	err := r.applyTweetDetails(r.db.WithContext(ctx), currentUserID).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&tweets).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}

func (r *tweetRepository) List(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Tweet, error) {
	var tweets []*models.Tweet

	fetch := func() error {
		return r.applyTweetDetails(r.db.WithContext(ctx), currentUserID).
			Preload("User").
			Order("created_at DESC, id DESC").
			Limit(limit).
			Offset(offset).
			Find(&tweets).Error
	}

	var err error
	if currentUserID == 0 {
		err = cache.Aside(ctx, cache.FeedKey(limit, offset), &tweets, cache.FeedTTL, fetch)
	} else {
		err = fetch()
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tweets, nil
}

// applyTweetDetails adds subqueries to fetch counts and liked status in a single query.
func (r *tweetRepository) applyTweetDetails(db *gorm.DB, currentUserID uint) *gorm.DB {
	selectQuery := "tweets.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.tweet_id = tweets.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.tweet_id = tweets.id) as likes_count"

	if currentUserID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.tweet_id = tweets.id AND likes.user_id = ?) as liked", currentUserID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *tweetRepository) Update(ctx context.Context, tweet *models.Tweet) error {
	if err := r.db.WithContext(ctx).Save(tweet).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTweet(ctx, tweet.ID)
	return nil
}

func (r *tweetRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Tweet{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTweet(ctx, id)
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *tweetRepository) IsLiked(ctx context.Context, userID, tweetID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *tweetRepository) Like(ctx context.Context, userID, tweetID uint) error {
	// Use INSERT ... ON CONFLICT DO NOTHING to handle race conditions
	// This is atomic and prevents duplicate key errors
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO likes (user_id, tweet_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, tweet_id) DO NOTHING`,
		userID, tweetID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	cache.InvalidateTweet(ctx, tweetID)
	return nil
}

func (r *tweetRepository) Unlike(ctx context.Context, userID, tweetID uint) error {
	// Hard delete the like record (not soft delete)
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND tweet_id = ?", userID, tweetID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateTweet(ctx, tweetID)
	return nil
}
