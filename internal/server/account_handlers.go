// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"io"

	"chirp/internal/models"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateAccount handles PUT /api/account
// @Summary Update account
// @Description Username, email and avatar URL change together or not at all
// @Tags account
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,avatar_url=string} true "Account fields"
// @Success 200 {object} object{message=string,user=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /account [put]
func (s *Server) UpdateAccount(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		AvatarURL string `json:"avatar_url"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.accountService.UpdateAccount(ctx, service.UpdateAccountInput{
		UserID:    userID,
		Username:  req.Username,
		Email:     req.Email,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Seu Usuário foi atualizado",
		"user":    user,
	})
}

// UpdateAvatar handles PUT /api/account/avatar
// @Summary Upload avatar
// @Description Multipart image; stored as a 256px square WebP
// @Tags account
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Image file"
// @Success 200 {object} object{message=string,profile=models.Profile}
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /account/avatar [put]
func (s *Server) UpdateAvatar(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No file uploaded"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}

	avatarURL, err := s.avatarService.Process(ctx, userID, content)
	if err != nil {
		return respondServiceError(c, err)
	}

	profile, err := s.accountService.SetAvatar(ctx, userID, avatarURL)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Seu Usuário foi atualizado",
		"profile": profile,
	})
}
