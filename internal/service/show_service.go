// Package service implements the application's business rules on top of the
// repository layer.
package service

import (
	"context"
	"strings"

	"hikari/internal/cache"
	"hikari/internal/keywords"
	"hikari/internal/middleware"
	"hikari/internal/models"
	"hikari/internal/observability"
	"hikari/internal/pagination"
	"hikari/internal/repository"
	"hikari/internal/search"

	"github.com/google/uuid"
)

type ShowService struct {
	showRepo     repository.ShowRepository
	episodeRepo  repository.EpisodeRepository
	bookmarkRepo repository.BookmarkRepository
	tagRepo      repository.TagRepository
	deleter      *repository.BatchDeleter
	index        *search.Index
	log          *observability.Logger
}

type CreateShowInput struct {
	Title        string
	AltTitle     string
	Description  string
	ThumbnailURL string
	Studio       string
	Year         int
	Rating       float64
	Type         string
	TagIDs       []uint
	IsCompleted  bool
}

type UpdateShowInput struct {
	ShowID       string
	Title        string
	AltTitle     string
	Description  string
	ThumbnailURL string
	Studio       string
	Year         int
	Rating       float64
	Type         string
	TagIDs       []uint
	IsCompleted  bool
}

type ListShowsInput struct {
	TagSlug       string
	CompletedOnly bool
	Cursor        pagination.Cursor
	Limit         int
}

func NewShowService(
	showRepo repository.ShowRepository,
	episodeRepo repository.EpisodeRepository,
	bookmarkRepo repository.BookmarkRepository,
	tagRepo repository.TagRepository,
	deleter *repository.BatchDeleter,
	index *search.Index,
) *ShowService {
	return &ShowService{
		showRepo:     showRepo,
		episodeRepo:  episodeRepo,
		bookmarkRepo: bookmarkRepo,
		tagRepo:      tagRepo,
		deleter:      deleter,
		index:        index,
		log:          observability.GlobalLogger,
	}
}

func (s *ShowService) CreateShow(ctx context.Context, in CreateShowInput) (*models.Show, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	showType := in.Type
	if showType == "" {
		showType = models.ShowTypeTV
	}

	tags, err := s.tagRepo.GetByIDs(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(in.TagIDs) {
		return nil, models.NewValidationError("Unknown tag ID")
	}

	show := &models.Show{
		ID:           uuid.NewString(),
		Title:        strings.TrimSpace(in.Title),
		AltTitle:     strings.TrimSpace(in.AltTitle),
		Description:  in.Description,
		ThumbnailURL: in.ThumbnailURL,
		Studio:       in.Studio,
		Year:         in.Year,
		Rating:       in.Rating,
		Type:         showType,
		Tags:         tags,
		IsCompleted:  in.IsCompleted,
	}

	if err := s.showRepo.Create(ctx, show, searchKeywords(show)); err != nil {
		return nil, err
	}

	s.patchIndex(ctx, show)
	cache.InvalidateSearchSnapshot(ctx)
	return show, nil
}

func (s *ShowService) UpdateShow(ctx context.Context, in UpdateShowInput) (*models.Show, error) {
	show, err := s.showRepo.GetByID(ctx, in.ShowID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}

	tags, err := s.tagRepo.GetByIDs(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(in.TagIDs) {
		return nil, models.NewValidationError("Unknown tag ID")
	}

	show.Title = strings.TrimSpace(in.Title)
	show.AltTitle = strings.TrimSpace(in.AltTitle)
	show.Description = in.Description
	show.ThumbnailURL = in.ThumbnailURL
	show.Studio = in.Studio
	show.Year = in.Year
	show.Rating = in.Rating
	if in.Type != "" {
		show.Type = in.Type
	}
	show.Tags = tags
	show.IsCompleted = in.IsCompleted

	if err := s.showRepo.Update(ctx, show, searchKeywords(show)); err != nil {
		return nil, err
	}

	// Saved lists carry a copy of these fields; push the edit through.
	tagNames := make([]string, len(tags))
	for i, t := range tags {
		tagNames[i] = t.Name
	}
	if err := s.bookmarkRepo.RefreshSnapshot(ctx, show.ID, show.Title, show.ThumbnailURL,
		strings.Join(tagNames, ", "), show.LatestEpisodeNumber); err != nil {
		s.log.WarnContext(ctx, "bookmark snapshot refresh failed", "show_id", show.ID, "error", err)
	}

	s.patchIndex(ctx, show)
	cache.InvalidateSearchSnapshot(ctx)
	return show, nil
}

func (s *ShowService) GetShow(ctx context.Context, id string) (*models.Show, error) {
	return s.showRepo.GetByID(ctx, id)
}

func (s *ShowService) ListShows(ctx context.Context, in ListShowsInput) ([]models.Show, pagination.Cursor, error) {
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	filter := repository.ShowFilter{TagSlug: in.TagSlug, CompletedOnly: in.CompletedOnly}
	return s.showRepo.ListPage(ctx, filter, in.Cursor, limit)
}

// AdminListInput selects one numbered page of the admin catalog list, or a
// single keyword-search page when Query is set.
type AdminListInput struct {
	Page  int
	Query string
	Limit int
}

// AdminListPage serves the admin console's numbered show list. Pages are
// reached by walking cursors forward from page 1; a keyword query switches to
// a single exact-match page instead. Returns the rows, the page actually
// served (an empty page under a concurrent delete heals backwards, and a page
// past the end stops at the last one), and whether a next page is believed to
// exist.
func (s *ShowService) AdminListPage(ctx context.Context, in AdminListInput) ([]models.Show, int, bool, error) {
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	if term := firstKeywordTerm(in.Query); term != "" {
		shows, err := s.showRepo.SearchByKeyword(ctx, term, limit)
		if err != nil {
			return nil, 0, false, err
		}
		return shows, 1, false, nil
	}

	pager := pagination.New(limit,
		func(ctx context.Context, after pagination.Cursor, lim int) ([]models.Show, pagination.Cursor, error) {
			return s.showRepo.ListPage(ctx, repository.ShowFilter{}, after, lim)
		})
	shows, err := pager.Reset(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	for pager.Page() < in.Page && pager.HasNext() {
		if shows, err = pager.Next(ctx); err != nil {
			return nil, 0, false, err
		}
	}
	return shows, pager.Page(), pager.HasNext(), nil
}

// DeleteShow removes the show and all dependent rows in chunks, then drops it
// from the search index.
func (s *ShowService) DeleteShow(ctx context.Context, id string) error {
	if _, err := s.showRepo.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.deleter.DeleteShowCascade(ctx, id); err != nil {
		return err
	}
	if err := s.index.Delete(id); err != nil {
		s.log.WarnContext(ctx, "search index delete failed", "show_id", id, "error", err)
	}
	return nil
}

// RecomputeCounters refreshes the denormalized latest-episode and
// episode-count fields from the episodes table. The two reads and the write
// are not atomic; a concurrent episode mutation re-triggers the recompute, so
// the fields converge.
func (s *ShowService) RecomputeCounters(ctx context.Context, showID string) error {
	latest, _, err := s.episodeRepo.MaxNumber(ctx, showID)
	if err != nil {
		middleware.CounterRecomputes.WithLabelValues("error").Inc()
		return err
	}
	count, err := s.episodeRepo.CountByShow(ctx, showID)
	if err != nil {
		middleware.CounterRecomputes.WithLabelValues("error").Inc()
		return err
	}
	if err := s.showRepo.UpdateCounters(ctx, showID, latest, count); err != nil {
		middleware.CounterRecomputes.WithLabelValues("error").Inc()
		return err
	}
	middleware.CounterRecomputes.WithLabelValues("ok").Inc()

	if show, err := s.showRepo.GetByID(ctx, showID); err == nil {
		s.patchIndex(ctx, show)
	}
	return nil
}

func (s *ShowService) patchIndex(ctx context.Context, show *models.Show) {
	if err := s.index.Upsert(search.RecordFromShow(show)); err != nil {
		s.log.WarnContext(ctx, "search index upsert failed", "show_id", show.ID, "error", err)
	}
}

// searchKeywords builds the stored prefix set from the show's titles. The two
// generated sets can overlap, and the keyword rows have a composite primary
// key, so duplicates are dropped here.
func searchKeywords(show *models.Show) []string {
	kws := keywords.Generate(show.Title)
	if show.AltTitle == "" {
		return kws
	}
	seen := make(map[string]struct{}, len(kws))
	for _, k := range kws {
		seen[k] = struct{}{}
	}
	for _, k := range keywords.Generate(show.AltTitle) {
		if _, ok := seen[k]; !ok {
			seen[k] = struct{}{}
			kws = append(kws, k)
		}
	}
	return kws
}
