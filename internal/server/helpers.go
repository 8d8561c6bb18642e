package server

import (
	"errors"
	"strconv"

	"hikari/internal/models"
	"hikari/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const maxListLimit = 100

// parseLimit extracts the limit query parameter, clamped to the configured
// page size by default.
func (s *Server) parseLimit(c *fiber.Ctx) int {
	limit := c.QueryInt("limit", s.config.PageSize)
	if limit <= 0 {
		limit = s.config.PageSize
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit
}

// parseCursor reads the cursor query parameter. The cursor is opaque to
// clients; decoding is deferred to the repository that produced it.
func parseCursor(c *fiber.Ctx) pagination.Cursor {
	return pagination.Cursor(c.Query("cursor"))
}

// requireParam extracts a non-empty route parameter. On failure it writes a
// 400 JSON response and returns errResponseWritten; callers should then
// return nil.
func requireParam(c *fiber.Ctx, name, label string) (string, error) {
	v := c.Params(name)
	if v == "" {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+label))
		return "", errResponseWritten
	}
	return v, nil
}

// parseUintParam extracts a positive integer route parameter.
func parseUintParam(c *fiber.Ctx, name, label string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+label))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// viewerKey identifies the viewer for view throttling: the user ID when
// authenticated, otherwise an anonymous client token header, otherwise the
// client IP.
func (s *Server) viewerKey(c *fiber.Ctx) string {
	if userID, ok := s.optionalUserID(c); ok {
		return "u:" + strconv.FormatUint(uint64(userID), 10)
	}
	if token := c.Get("X-Client-Token"); token != "" && len(token) <= 64 {
		return "c:" + token
	}
	return "ip:" + c.IP()
}

// respondError renders an AppError with the right status code.
func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

// pagedResponse is the standard list envelope: items plus the cursor for the
// next page, empty when the listing is exhausted.
func pagedResponse(c *fiber.Ctx, itemsKey string, items any, next pagination.Cursor) error {
	return c.JSON(fiber.Map{
		itemsKey:     items,
		"nextCursor": string(next),
	})
}
