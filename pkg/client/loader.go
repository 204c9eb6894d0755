package client

import (
	"context"
	"sync"
)

// PageFetcher fetches one page of resources for a query. *Client
// implements it.
type PageFetcher interface {
	FetchPage(ctx context.Context, query string, page, limit int) (*ResourceList, error)
}

// Loader accumulates paginated results for one search-query session.
//
// Pages are always requested and merged in increasing page order: the
// loading flag admits a single in-flight fetch, and changing the query
// starts a new session whose generation tag invalidates any fetch still
// in flight for the old one. A stale response is discarded entirely; it
// never touches items and never clears the loading flag, which by then
// belongs to the new session.
//
// All methods are safe for concurrent use. Accessors return snapshots.
type Loader struct {
	fetcher PageFetcher
	limit   int

	mu          sync.Mutex
	items       []Resource
	nextPage    int
	hasMore     bool
	loading     bool
	searchQuery string
	generation  uint64
}

// NewLoader creates a loader that fetches pages of the given size.
// A non-positive limit lets the server apply its default.
func NewLoader(fetcher PageFetcher, limit int) *Loader {
	return &Loader{
		fetcher:  fetcher,
		limit:    limit,
		nextPage: 1,
		hasMore:  true,
	}
}

// SetQuery starts a new session for the given search term: accumulated
// items are dropped, paging restarts at 1, and page 1 is fetched in
// replace mode. Any fetch still in flight for the previous term is
// logically cancelled; its response will be discarded on arrival.
func (l *Loader) SetQuery(ctx context.Context, query string) error {
	l.mu.Lock()
	l.searchQuery = query
	l.items = nil
	l.nextPage = 1
	l.hasMore = true
	l.generation++
	l.loading = true
	gen := l.generation
	l.mu.Unlock()

	return l.fetch(ctx, query, 1, gen, true)
}

// LoadMore fetches the next page in append mode. It is a no-op while a
// fetch is in flight or after the result set is exhausted, so duplicate
// triggers (e.g. repeated scroll events) are harmless.
func (l *Loader) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	if l.loading || !l.hasMore {
		l.mu.Unlock()
		return nil
	}
	l.loading = true
	gen := l.generation
	page := l.nextPage
	query := l.searchQuery
	l.mu.Unlock()

	return l.fetch(ctx, query, page, gen, false)
}

// fetch requests one page and merges the outcome, unless the session
// has moved on since the request was issued.
func (l *Loader) fetch(ctx context.Context, query string, page int, gen uint64, replace bool) error {
	list, err := l.fetcher.FetchPage(ctx, query, page, l.limit)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		// Stale session: discard without touching anything. The
		// loading flag is owned by the fetch of the new session.
		return nil
	}

	if err != nil {
		// Transient failure must not declare exhaustion.
		l.loading = false
		return err
	}

	if replace {
		l.items = append([]Resource(nil), list.Data...)
	} else {
		l.items = append(l.items, list.Data...)
	}
	l.hasMore = page < list.Pagination.TotalPages
	l.nextPage = page + 1
	l.loading = false

	return nil
}

// Items returns a copy of the accumulated resources.
func (l *Loader) Items() []Resource {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Resource(nil), l.items...)
}

// HasMore reports whether further pages remain.
func (l *Loader) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasMore
}

// Loading reports whether a fetch is in flight.
func (l *Loader) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// NextPage returns the 1-based page number the next LoadMore will request.
func (l *Loader) NextPage() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.nextPage
}

// Query returns the current search term.
func (l *Loader) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.searchQuery
}
