// Package search maintains an in-memory full-text index over the show
// catalog. The index is rebuilt from a cached catalog snapshot on startup and
// on demand, and patched incrementally as shows change.
package search

import (
	"strings"
	"sync"

	"hikari/internal/keywords"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Record is one searchable show, carrying enough denormalized fields to
// render a result row without a database read.
type Record struct {
	ID                  string   `json:"id"`
	Title               string   `json:"title"`
	AltTitle            string   `json:"altTitle,omitempty"`
	Tags                []string `json:"tags,omitempty"`
	Studio              string   `json:"studio,omitempty"`
	Year                int      `json:"year,omitempty"`
	ThumbnailURL        string   `json:"thumbnailUrl,omitempty"`
	LatestEpisodeNumber float64  `json:"latestEpisodeNumber"`
	EpisodeCount        int64    `json:"episodeCount"`
	IsCompleted         bool     `json:"isCompleted"`
}

// Index wraps a bleve index behind a build flag. Searches before the first
// Rebuild return no results rather than an error, so the API degrades to
// "no matches" while the catalog is still loading.
type Index struct {
	mu      sync.RWMutex
	idx     bleve.Index
	records map[string]Record
	built   bool
}

// NewIndex returns an empty, unbuilt index.
func NewIndex() *Index {
	return &Index{records: make(map[string]Record)}
}

func indexMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("title", text)
	doc.AddFieldMappingsAt("altTitle", text)
	doc.AddFieldMappingsAt("tags", text)
	doc.AddFieldMappingsAt("studio", text)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	return m
}

// Rebuild replaces the whole index with the given records. The new index is
// assembled off to the side and swapped in under the lock, so concurrent
// searches never observe a half-built state.
func (s *Index) Rebuild(records []Record) error {
	idx, err := bleve.NewMemOnly(indexMapping())
	if err != nil {
		return err
	}

	batch := idx.NewBatch()
	byID := make(map[string]Record, len(records))
	for _, rec := range records {
		if err := batch.Index(rec.ID, rec); err != nil {
			return err
		}
		byID[rec.ID] = rec
	}
	if err := idx.Batch(batch); err != nil {
		return err
	}

	s.mu.Lock()
	old := s.idx
	s.idx = idx
	s.records = byID
	s.built = true
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return nil
}

// Upsert adds or replaces one record without a full rebuild.
func (s *Index) Upsert(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.built {
		return nil
	}
	if err := s.idx.Index(rec.ID, rec); err != nil {
		return err
	}
	s.records[rec.ID] = rec
	return nil
}

// Delete drops one record from the index.
func (s *Index) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.built {
		return nil
	}
	if err := s.idx.Delete(id); err != nil {
		return err
	}
	delete(s.records, id)
	return nil
}

// Built reports whether the index has been populated at least once.
func (s *Index) Built() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.built
}

// Size returns the number of indexed records.
func (s *Index) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Search matches the query against titles (boosted), alternate titles, tags,
// and studios. Terms match exactly, by prefix, or within edit distance one,
// so close misspellings still hit.
func (s *Index) Search(raw string, limit int) ([]Record, error) {
	q := keywords.Canonicalize(strings.TrimSpace(raw))
	if q == "" || limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.built {
		return nil, nil
	}

	req := bleve.NewSearchRequestOptions(buildQuery(q), limit, 0, false)
	res, err := s.idx.Search(req)
	if err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(res.Hits))
	for _, hit := range res.Hits {
		if rec, ok := s.records[hit.ID]; ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func buildQuery(q string) query.Query {
	title := bleve.NewMatchQuery(q)
	title.SetField("title")
	title.SetBoost(2.0)

	titleFuzzy := bleve.NewMatchQuery(q)
	titleFuzzy.SetField("title")
	titleFuzzy.SetFuzziness(1)
	titleFuzzy.SetBoost(1.5)

	titlePrefix := bleve.NewPrefixQuery(q)
	titlePrefix.SetField("title")
	titlePrefix.SetBoost(1.5)

	alt := bleve.NewMatchQuery(q)
	alt.SetField("altTitle")

	altFuzzy := bleve.NewMatchQuery(q)
	altFuzzy.SetField("altTitle")
	altFuzzy.SetFuzziness(1)

	tags := bleve.NewMatchQuery(q)
	tags.SetField("tags")

	studio := bleve.NewMatchQuery(q)
	studio.SetField("studio")

	return bleve.NewDisjunctionQuery(title, titleFuzzy, titlePrefix, alt, altFuzzy, tags, studio)
}
