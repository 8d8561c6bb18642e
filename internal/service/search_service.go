package service

import (
	"context"
	"strings"
	"time"

	"hikari/internal/keywords"
	"hikari/internal/middleware"
	"hikari/internal/models"
	"hikari/internal/observability"
	"hikari/internal/repository"
	"hikari/internal/search"
)

// SearchService serves catalog search from the in-memory index, falling back
// to the stored keyword prefixes while the index has not been built yet.
type SearchService struct {
	index       *search.Index
	showRepo    repository.ShowRepository
	snapshotTTL time.Duration
	log         *observability.Logger
}

func NewSearchService(index *search.Index, showRepo repository.ShowRepository, snapshotTTL time.Duration) *SearchService {
	return &SearchService{
		index:       index,
		showRepo:    showRepo,
		snapshotTTL: snapshotTTL,
		log:         observability.GlobalLogger,
	}
}

// Search returns matching catalog records for a free-text query.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]search.Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	if s.index.Built() {
		return s.index.Search(query, limit)
	}

	// Index not built yet: fall back to exact keyword-prefix lookup, which
	// only needs the database.
	shows, err := s.showRepo.SearchByKeyword(ctx, firstKeywordTerm(query), limit)
	if err != nil {
		return nil, err
	}
	records := make([]search.Record, len(shows))
	for i := range shows {
		records[i] = search.RecordFromShow(&shows[i])
	}
	return records, nil
}

// SearchExact looks the query up against the stored keyword prefixes only,
// bypassing the fuzzy index. Used by the admin list, where an exact match on
// what was indexed at write time matters more than recall.
func (s *SearchService) SearchExact(ctx context.Context, query string, limit int) ([]search.Record, error) {
	term := firstKeywordTerm(query)
	if term == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	shows, err := s.showRepo.SearchByKeyword(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	records := make([]search.Record, len(shows))
	for i := range shows {
		records[i] = search.RecordFromShow(&shows[i])
	}
	return records, nil
}

// Rebuild reloads the catalog snapshot and reindexes it. With force set the
// cached snapshot is bypassed and the database is read directly.
func (s *SearchService) Rebuild(ctx context.Context, force bool) (int, error) {
	source := "cache"
	if force {
		source = "database"
	}
	records, err := search.LoadRecords(ctx, s.showRepo, s.snapshotTTL, force)
	if err != nil {
		return 0, err
	}
	if err := s.index.Rebuild(records); err != nil {
		return 0, err
	}
	middleware.SearchRebuilds.WithLabelValues(source).Inc()
	s.log.Info("search index rebuilt", "records", len(records), "source", source)
	return len(records), nil
}

// firstKeywordTerm reduces a query to the single lowercase term the stored
// keyword prefixes are built from.
func firstKeywordTerm(query string) string {
	fields := strings.Fields(keywords.Canonicalize(query))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
