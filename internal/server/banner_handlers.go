package server

import (
	"hikari/internal/models"
	"hikari/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBanners handles GET /api/banners: the active carousel in display order.
func (s *Server) GetBanners(c *fiber.Ctx) error {
	banners, err := s.bannerService.ListActiveBanners(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"banners": banners})
}

// GetAllBanners handles GET /api/admin/banners
func (s *Server) GetAllBanners(c *fiber.Ctx) error {
	banners, err := s.bannerService.ListAllBanners(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"banners": banners})
}

type bannerRequest struct {
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl"`
	LinkURL  string `json:"linkUrl"`
	ShowID   string `json:"showId"`
	IsActive bool   `json:"isActive"`
}

// CreateBanner handles POST /api/admin/banners
func (s *Server) CreateBanner(c *fiber.Ctx) error {
	var req bannerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	banner, err := s.bannerService.CreateBanner(c.Context(), service.CreateBannerInput{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		ShowID:   req.ShowID,
		IsActive: req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(banner)
}

// UpdateBanner handles PUT /api/admin/banners/:id
func (s *Server) UpdateBanner(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "banner ID")
	if err != nil {
		return nil
	}
	var req bannerRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	banner, err := s.bannerService.UpdateBanner(c.Context(), service.UpdateBannerInput{
		BannerID: id,
		Title:    req.Title,
		ImageURL: req.ImageURL,
		LinkURL:  req.LinkURL,
		ShowID:   req.ShowID,
		IsActive: req.IsActive,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(banner)
}

// DeleteBanner handles DELETE /api/admin/banners/:id
func (s *Server) DeleteBanner(c *fiber.Ctx) error {
	id, err := requireParam(c, "id", "banner ID")
	if err != nil {
		return nil
	}
	if err := s.bannerService.DeleteBanner(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ReorderBanners handles POST /api/admin/banners/reorder
func (s *Server) ReorderBanners(c *fiber.Ctx) error {
	var req struct {
		OrderedIDs []string `json:"orderedIds"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if err := s.bannerService.ReorderBanners(c.Context(), req.OrderedIDs); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
