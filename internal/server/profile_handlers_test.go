package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"chirp/internal/models"

	"github.com/gofiber/fiber/v2"
)

func TestFollowUnfollowFlow(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")

	app := fiber.New()
	app.Use(asUser(alice.ID))
	app.Post("/profiles/:userId/follow", s.FollowProfile)

	follow := func(action string) models.Profile {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/profiles/2/follow", map[string]string{"action": action}))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		var profile models.Profile
		if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return profile
	}

	followed := follow("follow")
	if !followed.Followed || followed.FollowersCount != 1 {
		t.Fatalf("expected followed with 1 follower, got followed=%v count=%d", followed.Followed, followed.FollowersCount)
	}
	if followed.UserID != bob.ID {
		t.Fatalf("expected bob's profile, got user %d", followed.UserID)
	}

	// Following again changes nothing.
	again := follow("follow")
	if again.FollowersCount != 1 {
		t.Fatalf("expected follow to be idempotent, got %d followers", again.FollowersCount)
	}

	unfollowed := follow("unfollow")
	if unfollowed.Followed || unfollowed.FollowersCount != 0 {
		t.Fatalf("expected unfollowed with 0 followers, got followed=%v count=%d", unfollowed.Followed, unfollowed.FollowersCount)
	}

	var edges int64
	db.Model(&models.Follow{}).Count(&edges)
	if edges != 0 {
		t.Fatalf("expected no follow rows, found %d", edges)
	}
}

func TestFollowProfile_SelfRejected(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	alice := createTestUser(t, db, "self_alice")

	app := fiber.New()
	app.Use(asUser(alice.ID))
	app.Post("/profiles/:userId/follow", s.FollowProfile)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/profiles/1/follow", map[string]string{"action": "follow"}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestFollowProfile_InvalidAction(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	alice := createTestUser(t, db, "action_alice")
	createTestUser(t, db, "action_bob")

	app := fiber.New()
	app.Use(asUser(alice.ID))
	app.Post("/profiles/:userId/follow", s.FollowProfile)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/profiles/2/follow", map[string]string{"action": "befriend"}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestGetFollowers_OtherUserForbidden(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	alice := createTestUser(t, db, "list_alice")
	createTestUser(t, db, "list_bob")

	app := fiber.New()
	app.Use(asUser(alice.ID))
	app.Get("/profiles/:userId/followers", s.GetFollowers)
	app.Get("/profiles/:userId/following", s.GetFollowing)

	for _, target := range []string{"/profiles/2/followers", "/profiles/2/following"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("%s: expected 403, got %d", target, resp.StatusCode)
		}

		var body map[string]string
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["error"] != "That's Not Your Profile Page..." {
			t.Fatalf("unexpected error %q", body["error"])
		}
	}
}

func TestGetFollowers_Own(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	alice := createTestUser(t, db, "own_alice")
	bob := createTestUser(t, db, "own_bob")

	// bob follows alice
	if err := db.Create(&models.Follow{ProfileID: bob.Profile.ID, TargetID: alice.Profile.ID}).Error; err != nil {
		t.Fatalf("create follow: %v", err)
	}

	app := fiber.New()
	app.Use(asUser(alice.ID))
	app.Get("/profiles/:userId/followers", s.GetFollowers)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/profiles/1/followers", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var followers []models.Profile
	if err := json.NewDecoder(resp.Body).Decode(&followers); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(followers) != 1 || followers[0].UserID != bob.ID {
		t.Fatalf("expected bob as the only follower, got %+v", followers)
	}
}

func TestGetProfiles_ExcludesSelf(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	alice := createTestUser(t, db, "page_alice")
	createTestUser(t, db, "page_bob")
	createTestUser(t, db, "page_carol")

	app := fiber.New()
	app.Use(asUser(alice.ID))
	app.Get("/profiles", s.GetProfiles)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/profiles", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var profiles []models.Profile
	if err := json.NewDecoder(resp.Body).Decode(&profiles); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(profiles))
	}
	for _, p := range profiles {
		if p.UserID == alice.ID {
			t.Fatalf("caller's own profile leaked into listing")
		}
	}
}
