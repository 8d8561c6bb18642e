// Package pagination implements cursor-based page bookkeeping over any paged
// query. The paginator owns the page number and one opaque cursor per fetched
// page; the data source produces and consumes cursors without the paginator
// ever inspecting them.
package pagination

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Cursor is an opaque resume marker returned by a paged query. Callers pass it
// back verbatim to continue after the last-seen item; no ordering or structure
// is assumed beyond that.
type Cursor string

// None means "start from the beginning".
const None Cursor = ""

// Encode packs an arbitrary payload into an opaque cursor. Repositories use it
// to capture the sort key + id of the last row of a page.
func Encode(payload any) (Cursor, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return None, fmt.Errorf("encode cursor: %w", err)
	}
	return Cursor(base64.RawURLEncoding.EncodeToString(raw)), nil
}

// Decode unpacks a cursor produced by Encode into dst.
func Decode(c Cursor, dst any) error {
	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return fmt.Errorf("decode cursor: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode cursor: %w", err)
	}
	return nil
}

// FetchFunc loads one page starting after the given cursor. It returns the
// rows, plus the cursor of the last returned row (ignored when empty).
type FetchFunc[T any] func(ctx context.Context, after Cursor, limit int) ([]T, Cursor, error)

type mode int

const (
	modeReset mode = iota
	modeNext
	modePrev
	modeCurrent
)

// Paginator tracks the current page number and the last-row cursor of every
// page fetched so far, supporting forward/backward/in-place navigation.
type Paginator[T any] struct {
	pageSize int
	fetch    FetchFunc[T]

	page    int
	cursors []Cursor // cursors[p] = cursor of the last row of page p; cursors[0] = None
	hasNext bool
}

// New returns a paginator over fetch with the given page size.
func New[T any](pageSize int, fetch FetchFunc[T]) *Paginator[T] {
	return &Paginator[T]{
		pageSize: pageSize,
		fetch:    fetch,
		page:     1,
		cursors:  []Cursor{None},
	}
}

// Page returns the 1-based page currently displayed.
func (p *Paginator[T]) Page() int { return p.page }

// HasNext reports whether a next page is believed to exist. A page is "full"
// iff the fetch returned exactly pageSize rows; a page that ends exactly at the
// boundary therefore reports a next page that turns out empty, which the next
// Next call heals via the retry path in load.
func (p *Paginator[T]) HasNext() bool { return p.hasNext }

// Reset returns to page 1 and drops all recorded cursors.
func (p *Paginator[T]) Reset(ctx context.Context) ([]T, error) {
	p.page = 1
	p.cursors = []Cursor{None}
	return p.load(ctx, modeReset)
}

// Next advances one page. If no cursor was recorded for the current page (the
// cursor array is stale, e.g. after an external reset), it degrades to
// repeating the first page's query.
func (p *Paginator[T]) Next(ctx context.Context) ([]T, error) {
	if p.page >= len(p.cursors) {
		p.page = 1
		p.cursors = []Cursor{None}
		return p.load(ctx, modeReset)
	}
	p.page++
	return p.load(ctx, modeNext)
}

// Prev steps back one page, querying with the cursor stored two pages back
// (the one before the page being returned to). On page 1 it re-fetches in
// place.
func (p *Paginator[T]) Prev(ctx context.Context) ([]T, error) {
	if p.page > 1 {
		p.page--
		return p.load(ctx, modePrev)
	}
	return p.load(ctx, modeCurrent)
}

// Current re-issues the query for the page on display, used to refresh in
// place after an edit or delete.
func (p *Paginator[T]) Current(ctx context.Context) ([]T, error) {
	return p.load(ctx, modeCurrent)
}

func (p *Paginator[T]) load(ctx context.Context, m mode) ([]T, error) {
	for {
		after := None
		if p.page > 1 && p.page-1 < len(p.cursors) {
			after = p.cursors[p.page-1]
		}

		items, last, err := p.fetch(ctx, after, p.pageSize)
		if err != nil {
			return nil, err
		}

		// A concurrent delete can empty the page under us; step back and
		// retry until page 1 or a non-empty page. Bounded: page only
		// decreases.
		if len(items) == 0 && m != modeReset && p.page > 1 {
			p.page--
			m = modeCurrent
			continue
		}

		if len(items) > 0 {
			p.record(p.page, last)
		}
		p.hasNext = len(items) == p.pageSize
		return items, nil
	}
}

func (p *Paginator[T]) record(page int, c Cursor) {
	for len(p.cursors) <= page {
		p.cursors = append(p.cursors, None)
	}
	p.cursors[page] = c
}
