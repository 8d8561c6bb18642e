package service

import (
	"context"
	"time"

	"hikari/internal/cache"
	"hikari/internal/middleware"
	"hikari/internal/models"
	"hikari/internal/repository"
)

// ViewService throttles view counting so one viewer bumps a show at most once
// per window.
type ViewService struct {
	showRepo repository.ShowRepository
	cooldown *cache.Cooldown
	window   time.Duration
}

func NewViewService(showRepo repository.ShowRepository, cooldown *cache.Cooldown, window time.Duration) *ViewService {
	if window <= 0 {
		window = cache.ViewThrottleTTL
	}
	return &ViewService{showRepo: showRepo, cooldown: cooldown, window: window}
}

// RegisterView counts one view of showID from viewerKey (a user ID or an
// anonymous client token). Repeat views inside the window are absorbed
// silently: the caller cannot tell a throttled view from a counted one.
func (s *ViewService) RegisterView(ctx context.Context, showID, viewerKey string) error {
	if viewerKey == "" {
		return models.NewValidationError("Viewer key is required")
	}

	allowed, err := s.cooldown.Allow(ctx, cache.ViewThrottleKey(showID, viewerKey), s.window)
	if err != nil {
		// Treat a broken throttle as "allowed": losing a duplicate count
		// beats losing real views.
		allowed = true
	}
	if !allowed {
		middleware.ViewThrottled.Inc()
		return nil
	}

	if err := s.showRepo.IncrementViewCount(ctx, showID); err != nil {
		return err
	}
	middleware.ViewIncrements.Inc()
	return nil
}
