package server

import (
	"hikari/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetShows handles GET /api/shows. Supports cursor pagination plus tag and
// completion filters.
func (s *Server) GetShows(c *fiber.Ctx) error {
	shows, next, err := s.showService.ListShows(c.Context(), service.ListShowsInput{
		TagSlug:       c.Query("tag"),
		CompletedOnly: c.QueryBool("completed", false),
		Cursor:        parseCursor(c),
		Limit:         s.parseLimit(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return pagedResponse(c, "shows", shows, next)
}

// GetShow handles GET /api/shows/:id
func (s *Server) GetShow(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "show ID")
	if err != nil {
		return nil
	}
	show, err := s.showService.GetShow(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(show)
}

// GetShowEpisodes handles GET /api/shows/:id/episodes. Returns the full
// ordered list by default; with a cursor parameter it pages instead.
func (s *Server) GetShowEpisodes(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "show ID")
	if err != nil {
		return nil
	}

	if c.Query("cursor") != "" || c.Query("limit") != "" {
		episodes, next, err := s.episodeService.ListEpisodesPage(
			c.Context(), id, parseCursor(c), s.parseLimit(c))
		if err != nil {
			return respondError(c, err)
		}
		return pagedResponse(c, "episodes", episodes, next)
	}

	episodes, err := s.episodeService.ListEpisodes(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"episodes": episodes})
}

// GetEpisode handles GET /api/episodes/:id
func (s *Server) GetEpisode(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "episode ID")
	if err != nil {
		return nil
	}
	episode, err := s.episodeService.GetEpisode(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(episode)
}

// SearchShows handles GET /api/search?q=
func (s *Server) SearchShows(c *fiber.Ctx) error {
	results, err := s.searchService.Search(c.Context(), c.Query("q"), c.QueryInt("limit", 20))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"results": results})
}

// SearchKeywords handles GET /api/search/keywords?q=: exact prefix lookup
// against the stored keyword table. Independent of the fuzzy index and allowed
// to disagree with it.
func (s *Server) SearchKeywords(c *fiber.Ctx) error {
	results, err := s.searchService.SearchExact(c.Context(), c.Query("q"), c.QueryInt("limit", 20))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"results": results})
}

// GetShowsByTag handles GET /api/tags/:slug/shows, the tag deep-link listing.
func (s *Server) GetShowsByTag(c *fiber.Ctx) error {
	slug, err := requireParam(c, "slug", "tag slug")
	if err != nil {
		return nil
	}
	if _, err := s.tagRepo.GetBySlug(c.Context(), slug); err != nil {
		return respondError(c, err)
	}
	shows, next, err := s.showService.ListShows(c.Context(), service.ListShowsInput{
		TagSlug: slug,
		Cursor:  parseCursor(c),
		Limit:   s.parseLimit(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return pagedResponse(c, "shows", shows, next)
}

// RegisterView handles POST /api/shows/:id/view. Always returns 204: the
// caller cannot distinguish a counted view from a throttled one.
func (s *Server) RegisterView(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "show ID")
	if err != nil {
		return nil
	}
	if err := s.viewService.RegisterView(c.Context(), id, s.viewerKey(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetTags handles GET /api/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.tagRepo.List(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}
