// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"chirp/internal/models"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfiles handles GET /api/profiles
// @Summary List profiles
// @Description Every profile except the caller's own
// @Tags profiles
// @Produce json
// @Success 200 {array} models.Profile
// @Security BearerAuth
// @Router /profiles [get]
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)
	page := parsePagination(c, 20)

	profileID, err := s.profileIDForUser(c, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	profiles, err := s.profileService.ListProfiles(ctx, service.ListProfilesInput{
		CurrentUserID:    userID,
		CurrentProfileID: profileID,
		Limit:            page.Limit,
		Offset:           page.Offset,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profiles)
}

// GetProfile handles GET /api/profiles/:userId
// @Summary Profile page
// @Description Target profile plus their tweets newest-first
// @Tags profiles
// @Produce json
// @Param userId path int true "Owning user ID"
// @Success 200 {object} object{profile=models.Profile,tweets=[]models.Tweet}
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /profiles/{userId} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	profileID, err := s.profileIDForUser(c, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	profile, err := s.profileService.GetProfile(ctx, targetUserID, profileID)
	if err != nil {
		return respondServiceError(c, err)
	}

	page := parsePagination(c, 20)
	tweets, err := s.tweetService.GetUserTweets(ctx, targetUserID, page.Limit, page.Offset, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"profile": profile,
		"tweets":  tweets,
	})
}

// FollowProfile handles POST /api/profiles/:userId/follow
// @Summary Follow or unfollow a profile
// @Description Idempotent in both directions
// @Tags profiles
// @Accept json
// @Produce json
// @Param userId path int true "Owning user ID"
// @Param request body object{action=string} true "\"follow\" or \"unfollow\""
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /profiles/{userId}/follow [post]
func (s *Server) FollowProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Action string `json:"action"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profileID, err := s.profileIDForUser(c, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	profile, err := s.profileService.FollowAction(ctx, service.FollowActionInput{
		CurrentUserID:    userID,
		CurrentProfileID: profileID,
		TargetUserID:     targetUserID,
		Action:           req.Action,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profile)
}

// GetFollowers handles GET /api/profiles/:userId/followers
// @Summary List followers
// @Description Self-only; other callers get 403
// @Tags profiles
// @Produce json
// @Param userId path int true "Owning user ID"
// @Success 200 {array} models.Profile
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /profiles/{userId}/followers [get]
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	ctx := c.Context()
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	profiles, err := s.profileService.GetFollowers(ctx, userID, targetUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profiles)
}

// GetFollowing handles GET /api/profiles/:userId/following
// @Summary List followed profiles
// @Description Self-only; other callers get 403
// @Tags profiles
// @Produce json
// @Param userId path int true "Owning user ID"
// @Success 200 {array} models.Profile
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /profiles/{userId}/following [get]
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	ctx := c.Context()
	targetUserID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	profiles, err := s.profileService.GetFollowing(ctx, userID, targetUserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(profiles)
}
