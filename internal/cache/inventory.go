package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix    = "user:%d"
	ProfileKeyPrefix = "profile:%d"
	TweetKeyPrefix   = "tweet:%d"
	FeedKeyPrefix    = "feed:%d:%d"
)

const (
	UserTTL    = 5 * time.Minute
	ProfileTTL = 5 * time.Minute
	TweetTTL   = 30 * time.Minute
	FeedTTL    = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

// ProfileKey is keyed by the owning user's ID, the identifier the API
// exposes, not the profile row ID.
func ProfileKey(userID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

func TweetKey(tweetID uint) string {
	return fmt.Sprintf(TweetKeyPrefix, tweetID)
}

func FeedKey(limit, offset int) string {
	return fmt.Sprintf(FeedKeyPrefix, limit, offset)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
	Invalidate(ctx, ProfileKey(userID))
}

func InvalidateTweet(ctx context.Context, tweetID uint) {
	Invalidate(ctx, TweetKey(tweetID))
}

// InvalidateFeed drops all cached feed pages.
func InvalidateFeed(ctx context.Context) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, "feed:*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
