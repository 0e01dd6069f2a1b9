// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"chirp/internal/models"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/feed
// @Summary Feed
// @Description All tweets newest-first; liked flags reflect the caller when a token is present
// @Tags tweets
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.Tweet
// @Router /feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	userID, _ := s.optionalUserID(c)

	tweets, err := s.tweetService.ListTweets(ctx, service.ListTweetsInput{
		Limit:         page.Limit,
		Offset:        page.Offset,
		CurrentUserID: userID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tweets)
}

// CreateTweet handles POST /api/tweets
// @Summary Create tweet
// @Tags tweets
// @Accept json
// @Produce json
// @Param request body object{body=string} true "Tweet body"
// @Success 201 {object} object{message=string,tweet=models.Tweet}
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /tweets [post]
func (s *Server) CreateTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := currentUserID(c)

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.CreateTweet(ctx, service.CreateTweetInput{
		UserID: userID,
		Body:   req.Body,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Your Tweet Has Been Posted!",
		"tweet":   tweet,
	})
}

// GetTweet handles GET /api/tweets/:id
func (s *Server) GetTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	tweet, err := s.tweetService.GetTweet(ctx, id, userID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tweet)
}

// UpdateTweet handles PUT /api/tweets/:id
// @Summary Edit tweet
// @Description Owner-only; others get 403
// @Tags tweets
// @Accept json
// @Produce json
// @Param id path int true "Tweet ID"
// @Param request body object{body=string} true "New body"
// @Success 200 {object} object{message=string,tweet=models.Tweet}
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /tweets/{id} [put]
func (s *Server) UpdateTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tweet, err := s.tweetService.UpdateTweet(ctx, service.UpdateTweetInput{
		UserID:  userID,
		TweetID: id,
		Body:    req.Body,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Foi atualizado!",
		"tweet":   tweet,
	})
}

// DeleteTweet handles DELETE /api/tweets/:id
// @Summary Delete tweet
// @Description Owner-only; others get 403
// @Tags tweets
// @Produce json
// @Param id path int true "Tweet ID"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /tweets/{id} [delete]
func (s *Server) DeleteTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	if err := s.tweetService.DeleteTweet(ctx, service.DeleteTweetInput{
		UserID:  userID,
		TweetID: id,
	}); err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Deletado!",
	})
}

// LikeTweet handles POST /api/tweets/:id/like
// @Summary Toggle like
// @Description Likes the tweet, or removes the caller's existing like
// @Tags tweets
// @Produce json
// @Param id path int true "Tweet ID"
// @Success 200 {object} models.Tweet
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /tweets/{id}/like [post]
func (s *Server) LikeTweet(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	tweet, err := s.tweetService.ToggleLike(ctx, userID, id)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(tweet)
}
