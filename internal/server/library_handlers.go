package server

import (
	"hikari/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetBookmarks handles GET /api/bookmarks
func (s *Server) GetBookmarks(c *fiber.Ctx) error {
	bookmarks, err := s.bookmarkService.ListBookmarks(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bookmarks": bookmarks})
}

// AddBookmark handles POST /api/bookmarks/:showId
func (s *Server) AddBookmark(c *fiber.Ctx) error {
	showID, err := requireParam(c, "showId", "show ID")
	if err != nil {
		return nil
	}
	bookmark, err := s.bookmarkService.AddBookmark(c.Context(), currentUserID(c), showID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(bookmark)
}

// CheckBookmark handles GET /api/bookmarks/:showId, used by the player page
// to render the save button state.
func (s *Server) CheckBookmark(c *fiber.Ctx) error {
	showID, err := requireParam(c, "showId", "show ID")
	if err != nil {
		return nil
	}
	saved, err := s.bookmarkService.IsBookmarked(c.Context(), currentUserID(c), showID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"bookmarked": saved})
}

// RemoveBookmark handles DELETE /api/bookmarks/:showId
func (s *Server) RemoveBookmark(c *fiber.Ctx) error {
	showID, err := requireParam(c, "showId", "show ID")
	if err != nil {
		return nil
	}
	if err := s.bookmarkService.RemoveBookmark(c.Context(), currentUserID(c), showID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetHistory handles GET /api/history
func (s *Server) GetHistory(c *fiber.Ctx) error {
	entries, err := s.historyService.ListHistory(c.Context(), currentUserID(c), s.parseLimit(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"history": entries})
}

// RecordProgress handles POST /api/history
func (s *Server) RecordProgress(c *fiber.Ctx) error {
	var req struct {
		EpisodeID string `json:"episodeId"`
	}
	if err := c.BodyParser(&req); err != nil || req.EpisodeID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Episode ID is required"))
	}

	entry, err := s.historyService.RecordProgress(c.Context(), currentUserID(c), req.EpisodeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entry)
}

// DeleteHistoryEntry handles DELETE /api/history/:showId
func (s *Server) DeleteHistoryEntry(c *fiber.Ctx) error {
	showID, err := requireParam(c, "showId", "show ID")
	if err != nil {
		return nil
	}
	if err := s.historyService.DeleteEntry(c.Context(), currentUserID(c), showID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetNotifications handles GET /api/notifications
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	items, err := s.notificationService.List(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"notifications": items})
}

// GetUnreadCount handles GET /api/notifications/unread-count
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	n, err := s.notificationService.UnreadCount(c.Context(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"count": n})
}

// MarkNotificationRead handles POST /api/notifications/:key/read
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	key, err := requireParam(c, "key", "notification key")
	if err != nil {
		return nil
	}
	if err := s.notificationService.MarkRead(c.Context(), currentUserID(c), key); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MarkAllNotificationsRead handles POST /api/notifications/read-all
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	if err := s.notificationService.MarkAllRead(c.Context(), currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
