// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"chirp/internal/models"
	"chirp/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/tweets/:id/comments
// @Summary Comment on a tweet
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Tweet ID"
// @Param request body object{body=string} true "Comment body"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /tweets/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	tweetID, err := s.parseID(c, "id")
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

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:  userID,
		TweetID: tweetID,
		Body:    req.Body,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/tweets/:id/comments
// @Summary List comments on a tweet
// @Tags comments
// @Produce json
// @Param id path int true "Tweet ID"
// @Success 200 {array} models.Comment
// @Failure 404 {object} models.ErrorResponse
// @Router /tweets/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	tweetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comments, err := s.commentService.ListComments(ctx, tweetID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comments)
}
