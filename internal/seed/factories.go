// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"time"

	"chirp/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the plaintext password every seeded user gets, so
// seeded accounts can be logged into during development.
const SeedPassword = "Password123!Seed"

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db      *gorm.DB
	rng     *rand.Rand
	maxDays int
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:      db,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		maxDays: 90,
	}
}

// CreateUser constructs and persists a sample user with its profile.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: gofakeit.Username() + fmt.Sprintf("%d", gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: string(hashed),
		Profile: &models.Profile{
			AvatarURL: fmt.Sprintf("https://i.pravatar.cc/256?u=%s", gofakeit.UUID()),
		},
	}
	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildTweet constructs a tweet struct with a realistic created_at spread
// but does not persist it. Useful for batching.
func (f *Factory) BuildTweet(user *models.User, overrides ...func(*models.Tweet)) *models.Tweet {
	tweet := &models.Tweet{
		Body:   chirpBody(f.rng),
		UserID: user.ID,
	}

	daysBack := f.rng.Intn(f.maxDays)
	hoursBack := f.rng.Intn(24)
	minsBack := f.rng.Intn(60)
	tweet.CreatedAt = time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)

	for _, override := range overrides {
		override(tweet)
	}
	return tweet
}

// CreateTweetsBatch persists multiple tweets in a single DB call.
func (f *Factory) CreateTweetsBatch(tweets []*models.Tweet) error {
	if len(tweets) == 0 {
		return nil
	}
	return f.db.Create(&tweets).Error
}

// CreateComment persists a comment by user on tweet.
func (f *Factory) CreateComment(user *models.User, tweet *models.Tweet) (*models.Comment, error) {
	comment := &models.Comment{
		Body:    gofakeit.Sentence(f.rng.Intn(10) + 3),
		UserID:  user.ID,
		TweetID: tweet.ID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike records a like; duplicate pairs are silently skipped.
func (f *Factory) CreateLike(user *models.User, tweet *models.Tweet) error {
	return f.db.Exec(
		`INSERT INTO likes (user_id, tweet_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, tweet_id) DO NOTHING`,
		user.ID, tweet.ID,
	).Error
}

// CreateFollow records a follow edge; duplicate pairs are silently skipped.
func (f *Factory) CreateFollow(follower, target *models.User) error {
	if follower.Profile == nil || target.Profile == nil {
		return fmt.Errorf("both users must have profiles loaded")
	}
	return f.db.Exec(
		`INSERT INTO follows (profile_id, target_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (profile_id, target_id) DO NOTHING`,
		follower.Profile.ID, target.Profile.ID,
	).Error
}

// chirpBody generates a short tweet-sized sentence under the length cap.
func chirpBody(rng *rand.Rand) string {
	body := gofakeit.Sentence(rng.Intn(12) + 3)
	if len(body) > models.MaxTweetLen {
		body = body[:models.MaxTweetLen]
	}
	return body
}
