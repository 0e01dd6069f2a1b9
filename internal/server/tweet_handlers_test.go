package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chirp/internal/config"
	"chirp/internal/database"
	"chirp/internal/models"
	"chirp/internal/repository"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

// newTestServer wires a Server against the given DB without Redis or metrics.
func newTestServer(db *gorm.DB) *Server {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config:      &config.Config{JWTSecret: "test_secret"},
		db:          db,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tweetRepo:   tweetRepo,
		commentRepo: commentRepo,
	}
	s.tweetService = service.NewTweetService(tweetRepo)
	s.profileService = service.NewProfileService(profileRepo)
	s.commentService = service.NewCommentService(commentRepo, tweetRepo)
	s.accountService = service.NewAccountService(userRepo, profileRepo)
	return s
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "pw",
		Profile:  &models.Profile{},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func asUser(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}
}

func jsonRequest(method, target string, payload any) *http.Request {
	var body *bytes.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	} else {
		body = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateTweet_AnonymousRejected(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)

	app := fiber.New()
	app.Post("/tweets", s.AuthRequired(), s.CreateTweet)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/tweets", map[string]string{"body": "sneaky"}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var count int64
	if err := db.Model(&models.Tweet{}).Count(&count).Error; err != nil {
		t.Fatalf("count tweets: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no tweets persisted, found %d", count)
	}
}

func TestTweetLifecycleFlow(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	author := createTestUser(t, db, "author")

	app := fiber.New()
	app.Use(asUser(author.ID))
	app.Post("/tweets", s.CreateTweet)
	app.Put("/tweets/:id", s.UpdateTweet)
	app.Delete("/tweets/:id", s.DeleteTweet)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/tweets", map[string]string{"body": "first chirp"}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var created struct {
		Message string       `json:"message"`
		Tweet   models.Tweet `json:"tweet"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Message != "Your Tweet Has Been Posted!" {
		t.Fatalf("unexpected message %q", created.Message)
	}
	if created.Tweet.Body != "first chirp" {
		t.Fatalf("unexpected body %q", created.Tweet.Body)
	}

	resp, err = app.Test(jsonRequest(http.MethodPut, "/tweets/1", map[string]string{"body": "edited chirp"}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var stored models.Tweet
	if err := db.First(&stored, created.Tweet.ID).Error; err != nil {
		t.Fatalf("reload tweet: %v", err)
	}
	if stored.Body != "edited chirp" {
		t.Fatalf("expected edited body, got %q", stored.Body)
	}

	resp, err = app.Test(jsonRequest(http.MethodDelete, "/tweets/1", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Tweet{}).Count(&count)
	if count != 0 {
		t.Fatalf("expected tweet gone, found %d", count)
	}
}

func TestUpdateTweet_NonOwnerRejected(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	author := createTestUser(t, db, "owner")
	intruder := createTestUser(t, db, "intruder")

	tweet := models.Tweet{Body: "mine", UserID: author.ID}
	if err := db.Create(&tweet).Error; err != nil {
		t.Fatalf("create tweet: %v", err)
	}

	app := fiber.New()
	app.Use(asUser(intruder.ID))
	app.Put("/tweets/:id", s.UpdateTweet)
	app.Delete("/tweets/:id", s.DeleteTweet)

	resp, err := app.Test(jsonRequest(http.MethodPut, "/tweets/1", map[string]string{"body": "hijacked"}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Não é seu Tweet!!" {
		t.Fatalf("unexpected error %q", body["error"])
	}

	resp, err = app.Test(jsonRequest(http.MethodDelete, "/tweets/1", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}

	var stored models.Tweet
	if err := db.First(&stored, tweet.ID).Error; err != nil {
		t.Fatalf("tweet should survive: %v", err)
	}
	if stored.Body != "mine" {
		t.Fatalf("tweet body changed to %q", stored.Body)
	}
}

func TestLikeTweet_Toggles(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	author := createTestUser(t, db, "liker_author")
	liker := createTestUser(t, db, "liker")

	tweet := models.Tweet{Body: "like me", UserID: author.ID}
	if err := db.Create(&tweet).Error; err != nil {
		t.Fatalf("create tweet: %v", err)
	}

	app := fiber.New()
	app.Use(asUser(liker.ID))
	app.Post("/tweets/:id/like", s.LikeTweet)

	like := func() models.Tweet {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/tweets/1/like", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var result models.Tweet
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return result
	}

	first := like()
	if !first.Liked || first.LikesCount != 1 {
		t.Fatalf("expected liked with count 1, got liked=%v count=%d", first.Liked, first.LikesCount)
	}

	second := like()
	if second.Liked || second.LikesCount != 0 {
		t.Fatalf("expected unliked with count 0, got liked=%v count=%d", second.Liked, second.LikesCount)
	}

	var likes int64
	db.Model(&models.Like{}).Count(&likes)
	if likes != 0 {
		t.Fatalf("expected no like rows, found %d", likes)
	}
}

func TestLikeTweet_MissingTweet(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	liker := createTestUser(t, db, "lost_liker")

	app := fiber.New()
	app.Use(asUser(liker.ID))
	app.Post("/tweets/:id/like", s.LikeTweet)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/tweets/999/like", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}

	var likes int64
	db.Model(&models.Like{}).Count(&likes)
	if likes != 0 {
		t.Fatalf("expected no like rows, found %d", likes)
	}
}

func TestGetFeed_NewestFirstWithCounts(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	author := createTestUser(t, db, "feed_author")

	older := models.Tweet{Body: "older", UserID: author.ID}
	if err := db.Create(&older).Error; err != nil {
		t.Fatalf("create tweet: %v", err)
	}
	newer := models.Tweet{Body: "newer", UserID: author.ID}
	if err := db.Create(&newer).Error; err != nil {
		t.Fatalf("create tweet: %v", err)
	}
	if err := db.Create(&models.Comment{Body: "hi", UserID: author.ID, TweetID: older.ID}).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}

	app := fiber.New()
	app.Get("/feed", s.GetFeed)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/feed", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var tweets []models.Tweet
	if err := json.NewDecoder(resp.Body).Decode(&tweets); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tweets) != 2 {
		t.Fatalf("expected 2 tweets, got %d", len(tweets))
	}
	if tweets[0].ID != newer.ID {
		t.Fatalf("expected newest first, got tweet %d", tweets[0].ID)
	}
	if tweets[1].CommentsCount != 1 {
		t.Fatalf("expected 1 comment on older tweet, got %d", tweets[1].CommentsCount)
	}
}
