package server

import (
	"hikari/internal/models"
	"hikari/internal/service"

	"github.com/gofiber/fiber/v2"
)

type showRequest struct {
	Title        string  `json:"title"`
	AltTitle     string  `json:"altTitle"`
	Description  string  `json:"description"`
	ThumbnailURL string  `json:"thumbnailUrl"`
	Studio       string  `json:"studio"`
	Year         int     `json:"year"`
	Rating       float64 `json:"rating"`
	Type         string  `json:"type"`
	TagIDs       []uint  `json:"tagIds"`
	IsCompleted  bool    `json:"isCompleted"`
}

// GetAdminShows handles GET /api/admin/shows. Pages are numbered for the
// console; a q parameter switches to a single keyword-search page.
func (s *Server) GetAdminShows(c *fiber.Ctx) error {
	shows, page, hasNext, err := s.showService.AdminListPage(c.Context(), service.AdminListInput{
		Page:  c.QueryInt("page", 1),
		Query: c.Query("q"),
		Limit: c.QueryInt("limit", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"shows":   shows,
		"page":    page,
		"hasNext": hasNext,
	})
}

// CreateShow handles POST /api/admin/shows
func (s *Server) CreateShow(c *fiber.Ctx) error {
	var req showRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	show, err := s.showService.CreateShow(c.Context(), service.CreateShowInput{
		Title:        req.Title,
		AltTitle:     req.AltTitle,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		Studio:       req.Studio,
		Year:         req.Year,
		Rating:       req.Rating,
		Type:         req.Type,
		TagIDs:       req.TagIDs,
		IsCompleted:  req.IsCompleted,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(show)
}

// UpdateShow handles PUT /api/admin/shows/:id
func (s *Server) UpdateShow(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "show ID")
	if err != nil {
		return nil
	}
	var req showRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	show, err := s.showService.UpdateShow(c.Context(), service.UpdateShowInput{
		ShowID:       id,
		Title:        req.Title,
		AltTitle:     req.AltTitle,
		Description:  req.Description,
		ThumbnailURL: req.ThumbnailURL,
		Studio:       req.Studio,
		Year:         req.Year,
		Rating:       req.Rating,
		Type:         req.Type,
		TagIDs:       req.TagIDs,
		IsCompleted:  req.IsCompleted,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(show)
}

// DeleteShow handles DELETE /api/admin/shows/:id
func (s *Server) DeleteShow(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "show ID")
	if err != nil {
		return nil
	}
	if err := s.showService.DeleteShow(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type episodeRequest struct {
	Number   float64 `json:"number"`
	Title    string  `json:"title"`
	VideoURL string  `json:"videoUrl"`
	Status   string  `json:"status"`
}

// CreateEpisode handles POST /api/admin/shows/:id/episodes
func (s *Server) CreateEpisode(c *fiber.Ctx) error {
	showID, err := requireParam(c, "id", "show ID")
	if err != nil {
		return nil
	}
	var req episodeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	episode, err := s.episodeService.CreateEpisode(c.Context(), service.CreateEpisodeInput{
		ShowID:   showID,
		Number:   req.Number,
		Title:    req.Title,
		VideoURL: req.VideoURL,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(episode)
}

// UpdateEpisode handles PUT /api/admin/episodes/:id
func (s *Server) UpdateEpisode(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "episode ID")
	if err != nil {
		return nil
	}
	var req episodeRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	episode, err := s.episodeService.UpdateEpisode(c.Context(), service.UpdateEpisodeInput{
		EpisodeID: id,
		Number:    req.Number,
		Title:     req.Title,
		VideoURL:  req.VideoURL,
		Status:    req.Status,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(episode)
}

// DeleteEpisode handles DELETE /api/admin/episodes/:id
func (s *Server) DeleteEpisode(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "episode ID")
	if err != nil {
		return nil
	}
	if err := s.episodeService.DeleteEpisode(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
