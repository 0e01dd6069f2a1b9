package server

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"chirp/internal/models"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
)

func TestUpdateAccountFlow(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	user := createTestUser(t, db, "renamer")

	app := fiber.New()
	app.Use(asUser(user.ID))
	app.Put("/account", s.UpdateAccount)

	resp, err := app.Test(jsonRequest(http.MethodPut, "/account", map[string]string{
		"username": "renamed",
		"email":    "renamed@example.com",
	}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Message != "Seu Usuário foi atualizado" {
		t.Fatalf("unexpected message %q", payload.Message)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Username != "renamed" || stored.Email != "renamed@example.com" {
		t.Fatalf("account not updated: %+v", stored)
	}
}

func TestUpdateAccount_TakenUsernameRejected(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	user := createTestUser(t, db, "claimer")
	createTestUser(t, db, "taken")

	app := fiber.New()
	app.Use(asUser(user.ID))
	app.Put("/account", s.UpdateAccount)

	resp, err := app.Test(jsonRequest(http.MethodPut, "/account", map[string]string{
		"username": "taken",
	}))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var stored models.User
	if err := db.First(&stored, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.Username != "claimer" {
		t.Fatalf("username changed despite conflict: %q", stored.Username)
	}
}

func TestUpdateAvatarFlow(t *testing.T) {
	t.Parallel()

	db := setupHandlerTestDB(t)
	s := newTestServer(db)
	dir := t.TempDir()
	s.avatarService = service.NewAvatarService(dir)
	user := createTestUser(t, db, "portrait")

	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("avatar", "me.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write(pngBuf.Bytes()); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	app := fiber.New()
	app.Use(asUser(user.ID))
	app.Put("/account/avatar", s.UpdateAvatar)

	req := httptest.NewRequest(http.MethodPut, "/account/avatar", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var payload struct {
		Message string         `json:"message"`
		Profile models.Profile `json:"profile"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	wantURL := "/media/avatars/1.webp"
	if payload.Profile.AvatarURL != wantURL {
		t.Fatalf("expected %q, got %q", wantURL, payload.Profile.AvatarURL)
	}

	if _, err := os.Stat(filepath.Join(dir, "1.webp")); err != nil {
		t.Fatalf("avatar file missing: %v", err)
	}

	var stored models.Profile
	if err := db.Where("user_id = ?", user.ID).First(&stored).Error; err != nil {
		t.Fatalf("reload profile: %v", err)
	}
	if stored.AvatarURL != wantURL {
		t.Fatalf("profile not updated, got %q", stored.AvatarURL)
	}
}
