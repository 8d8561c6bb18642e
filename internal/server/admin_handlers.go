package server

import (
	"sync"

	"hikari/internal/models"
	"hikari/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetDashboard handles GET /api/admin/dashboard: entity counts fetched
// concurrently for the admin landing page.
func (s *Server) GetDashboard(c *fiber.Ctx) error {
	ctx := c.Context()

	counts := make(map[string]int64, 5)
	errs := make(map[string]error, 5)
	var mu sync.Mutex
	var wg sync.WaitGroup

	count := func(name string, fn func() (int64, error)) {
		defer wg.Done()
		n, err := fn()
		mu.Lock()
		counts[name], errs[name] = n, err
		mu.Unlock()
	}

	wg.Add(5)
	go count("shows", func() (int64, error) { return s.showRepo.Count(ctx) })
	go count("episodes", func() (int64, error) { return s.episodeRepo.Count(ctx) })
	go count("users", func() (int64, error) { return s.userRepo.Count(ctx) })
	go count("reports", func() (int64, error) { return s.reportRepo.Count(ctx) })
	go count("comments", func() (int64, error) { return s.commentRepo.Count(ctx) })
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return respondError(c, err)
		}
	}

	return c.JSON(fiber.Map{
		"counts":           counts,
		"searchIndexSize":  s.searchIndex.Size(),
		"searchIndexBuilt": s.searchIndex.Built(),
		"featureFlags":     s.flags.Raw(),
	})
}

// CreateReport handles POST /api/reports (public)
func (s *Server) CreateReport(c *fiber.Ctx) error {
	var req struct {
		EpisodeID string `json:"episodeId"`
		Reason    string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil || req.EpisodeID == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Episode ID is required"))
	}

	report, err := s.reportService.CreateReport(c.Context(), service.CreateReportInput{
		EpisodeID: req.EpisodeID,
		Reason:    req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

// GetReports handles GET /api/admin/reports
func (s *Server) GetReports(c *fiber.Ctx) error {
	reports, err := s.reportService.ListReports(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reports": reports})
}

// ResolveReport handles POST /api/admin/reports/:id/resolve
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "report ID")
	if err != nil {
		return nil
	}
	var req struct {
		Fixed bool `json:"fixed"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.reportService.ResolveReport(c.Context(), id, req.Fixed); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateTag handles POST /api/admin/tags
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Slug string `json:"slug"`
	}
	if err := c.BodyParser(&req); err != nil || req.Name == "" || req.Slug == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Tag name and slug are required"))
	}

	tag := &models.Tag{Name: req.Name, Slug: req.Slug}
	if err := s.tagRepo.Create(c.Context(), tag); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// DeleteTag handles DELETE /api/admin/tags/:id
func (s *Server) DeleteTag(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id", "tag ID")
	if err != nil {
		return nil
	}
	if err := s.tagRepo.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RebuildSearchIndex handles POST /api/admin/search/rebuild. Bypasses the
// cached snapshot so edits are visible immediately.
func (s *Server) RebuildSearchIndex(c *fiber.Ctx) error {
	n, err := s.searchService.Rebuild(c.Context(), true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"indexed": n})
}

// CreateClientLog handles POST /api/logs: best-effort error reports from the
// frontend. Always answers 202; a failed insert is logged server-side only.
func (s *Server) CreateClientLog(c *fiber.Ctx) error {
	var req struct {
		Level   string `json:"level"`
		Message string `json:"message"`
		Source  string `json:"source"`
	}
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.SendStatus(fiber.StatusAccepted)
	}

	level := req.Level
	if level == "" {
		level = "error"
	}
	entry := &models.ClientLog{
		Level:   level,
		Message: req.Message,
		Source:  req.Source,
	}
	if userID, ok := s.optionalUserID(c); ok {
		entry.UserID = userID
	}
	_ = s.clientLogRepo.Create(c.Context(), entry)
	return c.SendStatus(fiber.StatusAccepted)
}

// GetClientLogs handles GET /api/admin/logs
func (s *Server) GetClientLogs(c *fiber.Ctx) error {
	entries, err := s.clientLogRepo.List(c.Context(), c.QueryInt("limit", 100))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"logs": entries})
}
