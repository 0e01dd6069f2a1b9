package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedTweet struct {
	ID   uint   `json:"id"`
	Body string `json:"body"`
}

func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
	return mr
}

func TestAside_MissThenHit(t *testing.T) {
	useMiniredis(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *cachedTweet) func() error {
		return func() error {
			fetches++
			dest.ID = 1
			dest.Body = "from the database"
			return nil
		}
	}

	var first cachedTweet
	require.NoError(t, Aside(ctx, TweetKey(1), &first, TweetTTL, fetch(&first)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, "from the database", first.Body)

	// Second read is served from Redis; fetch must not run again.
	var second cachedTweet
	require.NoError(t, Aside(ctx, TweetKey(1), &second, TweetTTL, fetch(&second)))
	assert.Equal(t, 1, fetches)
	assert.Equal(t, first, second)
}

func TestAside_FetchErrorNotCached(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	var dest cachedTweet
	err := Aside(ctx, TweetKey(2), &dest, TweetTTL, func() error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.False(t, mr.Exists(TweetKey(2)))
}

func TestAside_NoClientAlwaysFetches(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()

	fetches := 0
	for i := 0; i < 2; i++ {
		var dest cachedTweet
		require.NoError(t, Aside(ctx, TweetKey(3), &dest, TweetTTL, func() error {
			fetches++
			return nil
		}))
	}
	assert.Equal(t, 2, fetches)
}

func TestInvalidate(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, TweetKey(5), cachedTweet{ID: 5}, time.Minute))
	require.True(t, mr.Exists(TweetKey(5)))

	InvalidateTweet(ctx, 5)
	assert.False(t, mr.Exists(TweetKey(5)))
}

func TestInvalidateUser_DropsProfileToo(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, UserKey(7), cachedTweet{ID: 7}, time.Minute))
	require.NoError(t, SetJSON(ctx, ProfileKey(7), cachedTweet{ID: 7}, time.Minute))

	InvalidateUser(ctx, 7)
	assert.False(t, mr.Exists(UserKey(7)))
	assert.False(t, mr.Exists(ProfileKey(7)))
}

func TestInvalidateFeed(t *testing.T) {
	mr := useMiniredis(t)
	ctx := context.Background()

	require.NoError(t, SetJSON(ctx, FeedKey(20, 0), []cachedTweet{{ID: 1}}, time.Minute))
	require.NoError(t, SetJSON(ctx, FeedKey(20, 20), []cachedTweet{{ID: 2}}, time.Minute))
	require.NoError(t, SetJSON(ctx, TweetKey(1), cachedTweet{ID: 1}, time.Minute))

	InvalidateFeed(ctx)
	assert.False(t, mr.Exists(FeedKey(20, 0)))
	assert.False(t, mr.Exists(FeedKey(20, 20)))
	// Unrelated keys survive.
	assert.True(t, mr.Exists(TweetKey(1)))
}
