package server

import (
	"hikari/internal/models"
	"hikari/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/shows/:id/comments. With episodeId set it
// returns the per-episode thread instead of the show thread.
func (s *Server) GetComments(c *fiber.Ctx) error {
	showID, err := requireParam(c, "id", "show ID")
	if err != nil {
		return nil
	}

	comments, next, err := s.commentService.ListComments(c.Context(), service.ListCommentsInput{
		ShowID:    showID,
		EpisodeID: c.Query("episodeId"),
		Cursor:    parseCursor(c),
		Limit:     s.parseLimit(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return pagedResponse(c, "comments", comments, next)
}

// CreateComment handles POST /api/shows/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	if s.flags.Enabled("disable_comments", currentUserID(c)) {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			models.NewFailedPreconditionError("Comments are temporarily disabled", nil))
	}

	showID, err := requireParam(c, "id", "show ID")
	if err != nil {
		return nil
	}
	var req struct {
		EpisodeID string `json:"episodeId"`
		Text      string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:    currentUserID(c),
		ShowID:    showID,
		EpisodeID: req.EpisodeID,
		Text:      req.Text,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "comment ID")
	if err != nil {
		return nil
	}

	userID := currentUserID(c)
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	if err := s.commentService.DeleteComment(c.Context(), id, userID, user.IsAdmin()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
