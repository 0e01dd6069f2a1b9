package seed

import (
	"fmt"
	"log"

	"chirp/internal/models"

	"gorm.io/gorm"
)

// Options control how much data Seed generates.
type Options struct {
	NumUsers    int
	NumTweets   int
	ShouldClean bool
}

// Seed populates the database with test data: users with profiles, a
// follow mesh, tweets, likes and comments.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("🌱 Starting database seeding with %d users and %d tweets...", opts.NumUsers, opts.NumTweets)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("⚠️  Warning: Could not clear all existing data, but continuing anyway...")
		}
	}

	f := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return fmt.Errorf("failed to create users: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("✓ %d test users created", len(users))

	if err := seedFollowMesh(f, users); err != nil {
		return fmt.Errorf("failed to create follow mesh: %w", err)
	}
	log.Println("✓ follow mesh created")

	tweets := make([]*models.Tweet, 0, opts.NumTweets)
	for i := 0; i < opts.NumTweets; i++ {
		author := users[f.rng.Intn(len(users))]
		tweets = append(tweets, f.BuildTweet(author))
	}
	if err := f.CreateTweetsBatch(tweets); err != nil {
		return fmt.Errorf("failed to create tweets: %w", err)
	}
	log.Printf("✓ %d tweets created", len(tweets))

	likes, comments, err := seedEngagement(f, users, tweets)
	if err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}
	log.Printf("✓ %d likes and %d comments created", likes, comments)

	log.Println("🌱 Seeding complete")
	return nil
}

// seedFollowMesh gives every user a handful of random follow targets.
func seedFollowMesh(f *Factory, users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	for _, follower := range users {
		targets := f.rng.Intn(5) + 1
		for i := 0; i < targets; i++ {
			target := users[f.rng.Intn(len(users))]
			if target.ID == follower.ID {
				continue
			}
			if err := f.CreateFollow(follower, target); err != nil {
				return err
			}
		}
	}
	return nil
}

// seedEngagement sprinkles likes and comments across the tweets.
func seedEngagement(f *Factory, users []*models.User, tweets []*models.Tweet) (int, int, error) {
	var likes, comments int
	for _, tweet := range tweets {
		for i := 0; i < f.rng.Intn(4); i++ {
			user := users[f.rng.Intn(len(users))]
			if err := f.CreateLike(user, tweet); err != nil {
				return likes, comments, err
			}
			likes++
		}
		for i := 0; i < f.rng.Intn(3); i++ {
			user := users[f.rng.Intn(len(users))]
			if _, err := f.CreateComment(user, tweet); err != nil {
				return likes, comments, err
			}
			comments++
		}
	}
	return likes, comments, nil
}

// clearData removes seeded rows in dependency order.
func clearData(db *gorm.DB) error {
	tables := []string{"likes", "comments", "tweets", "follows", "profiles", "users"}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
