package search

import (
	"context"
	"time"

	"hikari/internal/cache"
	"hikari/internal/models"
	"hikari/internal/pagination"
	"hikari/internal/repository"
)

// snapshotPageSize is the sweep page size used when rebuilding the snapshot
// from the database.
const snapshotPageSize = 500

// RecordFromShow projects a show into its searchable form.
func RecordFromShow(show *models.Show) Record {
	tags := make([]string, len(show.Tags))
	for i, t := range show.Tags {
		tags[i] = t.Name
	}
	return Record{
		ID:                  show.ID,
		Title:               show.Title,
		AltTitle:            show.AltTitle,
		Tags:                tags,
		Studio:              show.Studio,
		Year:                show.Year,
		ThumbnailURL:        show.ThumbnailURL,
		LatestEpisodeNumber: show.LatestEpisodeNumber,
		EpisodeCount:        show.EpisodeCount,
		IsCompleted:         show.IsCompleted,
	}
}

// LoadRecords returns the catalog snapshot the index is built from. A cached
// copy is served when present; otherwise the catalog is read from the
// database and the snapshot is written back with the given TTL (ttl <= 0
// selects the default). The force flag skips the cache, used by the admin
// rebuild endpoint.
func LoadRecords(ctx context.Context, shows repository.ShowRepository, ttl time.Duration, force bool) ([]Record, error) {
	if ttl <= 0 {
		ttl = cache.SearchSnapshotTTL
	}
	var records []Record
	if !force && cache.GetJSON(ctx, cache.SearchSnapshotKey, &records) {
		return records, nil
	}

	pager := pagination.New(snapshotPageSize,
		func(ctx context.Context, after pagination.Cursor, limit int) ([]models.Show, pagination.Cursor, error) {
			return shows.ListPage(ctx, repository.ShowFilter{}, after, limit)
		})

	records = records[:0]
	page, err := pager.Reset(ctx)
	for {
		if err != nil {
			return nil, err
		}
		for i := range page {
			records = append(records, RecordFromShow(&page[i]))
		}
		if !pager.HasNext() {
			break
		}
		page, err = pager.Next(ctx)
	}

	cache.PutJSON(ctx, cache.SearchSnapshotKey, records, ttl)
	return records, nil
}
