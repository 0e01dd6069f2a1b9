package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"chirp/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTweetFixtures(t *testing.T, db *gorm.DB) (author, reader models.User, tweet models.Tweet) {
	t.Helper()
	author = models.User{Username: "author", Email: "author@example.com", Password: "pw", Profile: &models.Profile{}}
	reader = models.User{Username: "reader", Email: "reader@example.com", Password: "pw", Profile: &models.Profile{}}
	require.NoError(t, db.Create(&author).Error)
	require.NoError(t, db.Create(&reader).Error)
	tweet = models.Tweet{Body: "hello", UserID: author.ID}
	require.NoError(t, db.Create(&tweet).Error)
	return author, reader, tweet
}

func TestTweetRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTweetRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "tweets"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), &models.Tweet{Body: "hello", UserID: 1})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTweetRepository_Like_SQLShape(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTweetRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO likes (user_id, tweet_id, created_at)`)).
		WithArgs(uint(2), uint(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Like(context.Background(), 2, 1)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTweetRepository_LikeIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTweetRepository(db)
	ctx := context.Background()
	_, reader, tweet := createTweetFixtures(t, db)

	require.NoError(t, repo.Like(ctx, reader.ID, tweet.ID))
	require.NoError(t, repo.Like(ctx, reader.ID, tweet.ID))

	var count int64
	db.Model(&models.Like{}).Count(&count)
	assert.Equal(t, int64(1), count)

	liked, err := repo.IsLiked(ctx, reader.ID, tweet.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestTweetRepository_UnlikeAbsentIsNoop(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTweetRepository(db)
	ctx := context.Background()
	_, reader, tweet := createTweetFixtures(t, db)

	require.NoError(t, repo.Unlike(ctx, reader.ID, tweet.ID))

	require.NoError(t, repo.Like(ctx, reader.ID, tweet.ID))
	require.NoError(t, repo.Unlike(ctx, reader.ID, tweet.ID))

	liked, err := repo.IsLiked(ctx, reader.ID, tweet.ID)
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestTweetRepository_GetByID_Details(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTweetRepository(db)
	ctx := context.Background()
	author, reader, tweet := createTweetFixtures(t, db)

	require.NoError(t, repo.Like(ctx, reader.ID, tweet.ID))
	require.NoError(t, db.Create(&models.Comment{Body: "hi", UserID: reader.ID, TweetID: tweet.ID}).Error)

	got, err := repo.GetByID(ctx, tweet.ID, reader.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LikesCount)
	assert.Equal(t, 1, got.CommentsCount)
	assert.True(t, got.Liked)
	assert.Equal(t, author.Username, got.User.Username)

	// The author never liked it.
	got, err = repo.GetByID(ctx, tweet.ID, author.ID)
	require.NoError(t, err)
	assert.False(t, got.Liked)
}

func TestTweetRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTweetRepository(db)

	_, err := repo.GetByID(context.Background(), 999, 0)
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

func TestTweetRepository_DeleteHidesFromList(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTweetRepository(db)
	ctx := context.Background()
	_, reader, tweet := createTweetFixtures(t, db)

	require.NoError(t, repo.Delete(ctx, tweet.ID))

	tweets, err := repo.List(ctx, 10, 0, reader.ID)
	require.NoError(t, err)
	assert.Empty(t, tweets)
}
