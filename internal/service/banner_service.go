package service

import (
	"context"
	"strings"

	"hikari/internal/models"
	"hikari/internal/repository"

	"github.com/google/uuid"
)

type BannerService struct {
	bannerRepo repository.BannerRepository
	showRepo   repository.ShowRepository
}

type CreateBannerInput struct {
	Title    string
	ImageURL string
	LinkURL  string
	ShowID   string
	IsActive bool
}

type UpdateBannerInput struct {
	BannerID string
	Title    string
	ImageURL string
	LinkURL  string
	ShowID   string
	IsActive bool
}

func NewBannerService(bannerRepo repository.BannerRepository, showRepo repository.ShowRepository) *BannerService {
	return &BannerService{bannerRepo: bannerRepo, showRepo: showRepo}
}

func (s *BannerService) CreateBanner(ctx context.Context, in CreateBannerInput) (*models.Banner, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Banner title is required")
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		return nil, models.NewValidationError("Banner image URL is required")
	}
	if in.ShowID != "" {
		if _, err := s.showRepo.GetByID(ctx, in.ShowID); err != nil {
			return nil, err
		}
	}

	existing, err := s.bannerRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	banner := &models.Banner{
		ID:       uuid.NewString(),
		Title:    strings.TrimSpace(in.Title),
		ImageURL: strings.TrimSpace(in.ImageURL),
		LinkURL:  in.LinkURL,
		ShowID:   in.ShowID,
		IsActive: in.IsActive,
		Order:    len(existing), // new banners go last
	}
	if err := s.bannerRepo.Create(ctx, banner); err != nil {
		return nil, err
	}
	return banner, nil
}

func (s *BannerService) UpdateBanner(ctx context.Context, in UpdateBannerInput) (*models.Banner, error) {
	banner, err := s.bannerRepo.GetByID(ctx, in.BannerID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) != "" {
		banner.Title = strings.TrimSpace(in.Title)
	}
	if strings.TrimSpace(in.ImageURL) != "" {
		banner.ImageURL = strings.TrimSpace(in.ImageURL)
	}
	banner.LinkURL = in.LinkURL
	banner.ShowID = in.ShowID
	banner.IsActive = in.IsActive

	if err := s.bannerRepo.Update(ctx, banner); err != nil {
		return nil, err
	}
	return banner, nil
}

func (s *BannerService) DeleteBanner(ctx context.Context, id string) error {
	return s.bannerRepo.Delete(ctx, id)
}

func (s *BannerService) ListActiveBanners(ctx context.Context) ([]models.Banner, error) {
	return s.bannerRepo.ListActive(ctx)
}

func (s *BannerService) ListAllBanners(ctx context.Context) ([]models.Banner, error) {
	return s.bannerRepo.ListAll(ctx)
}

// ReorderBanners rewrites carousel positions to match the given ID sequence.
func (s *BannerService) ReorderBanners(ctx context.Context, orderedIDs []string) error {
	if len(orderedIDs) == 0 {
		return models.NewValidationError("Banner order is required")
	}
	seen := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			return models.NewValidationError("Duplicate banner ID in order")
		}
		seen[id] = struct{}{}
	}
	return s.bannerRepo.Reorder(ctx, orderedIDs)
}
