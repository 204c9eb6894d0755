package client

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedFetcher serves deterministic pages out of a fixed result set.
type scriptedFetcher struct {
	mu         sync.Mutex
	totalPages int
	perPage    int
	failNext   bool
	calls      []int // Page numbers requested, in order
}

func (f *scriptedFetcher) FetchPage(_ context.Context, query string, page, _ int) (*ResourceList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, page)

	if f.failNext {
		f.failNext = false
		return nil, fmt.Errorf("boom")
	}

	items := make([]Resource, f.perPage)
	for i := range items {
		items[i] = Resource{
			ID:    fmt.Sprintf("res-%s-p%d-%d", query, page, i),
			Title: fmt.Sprintf("%s page %d item %d", query, page, i),
		}
	}

	return &ResourceList{
		Data: items,
		Pagination: Pagination{
			Total:      f.totalPages * f.perPage,
			Page:       page,
			Limit:      f.perPage,
			TotalPages: f.totalPages,
		},
	}, nil
}

func (f *scriptedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestSetQueryResetsAndFetchesPageOne(t *testing.T) {
	fetcher := &scriptedFetcher{totalPages: 3, perPage: 2}
	loader := NewLoader(fetcher, 2)
	ctx := context.Background()

	require.NoError(t, loader.SetQuery(ctx, "go"))

	assert.Len(t, loader.Items(), 2)
	assert.Equal(t, 2, loader.NextPage())
	assert.True(t, loader.HasMore())
	assert.False(t, loader.Loading())
	assert.Equal(t, "go", loader.Query())

	// A new query drops everything accumulated so far.
	require.NoError(t, loader.LoadMore(ctx))
	require.Len(t, loader.Items(), 4)

	require.NoError(t, loader.SetQuery(ctx, "rust"))
	items := loader.Items()
	require.Len(t, items, 2)
	assert.Contains(t, items[0].ID, "rust-p1")
	assert.Equal(t, 2, loader.NextPage())
}

func TestLoadMoreAppendsInPageOrder(t *testing.T) {
	fetcher := &scriptedFetcher{totalPages: 3, perPage: 2}
	loader := NewLoader(fetcher, 2)
	ctx := context.Background()

	require.NoError(t, loader.SetQuery(ctx, "q"))
	require.NoError(t, loader.LoadMore(ctx))
	require.NoError(t, loader.LoadMore(ctx))

	items := loader.Items()
	require.Len(t, items, 6)
	for i, item := range items {
		wantPage := i/2 + 1
		assert.Contains(t, item.ID, fmt.Sprintf("p%d", wantPage), "item %d out of page order", i)
	}

	assert.False(t, loader.HasMore(), "all pages consumed")
	assert.Equal(t, []int{1, 2, 3}, fetcher.calls)
}

func TestLoadMoreNoOpWhenExhausted(t *testing.T) {
	fetcher := &scriptedFetcher{totalPages: 1, perPage: 2}
	loader := NewLoader(fetcher, 2)
	ctx := context.Background()

	require.NoError(t, loader.SetQuery(ctx, "q"))
	assert.False(t, loader.HasMore())

	before := fetcher.callCount()
	require.NoError(t, loader.LoadMore(ctx))
	require.NoError(t, loader.LoadMore(ctx))
	assert.Equal(t, before, fetcher.callCount(), "exhausted loader must not fetch")
	assert.Len(t, loader.Items(), 2)
}

func TestLoadMoreBeforeFirstQuery(t *testing.T) {
	fetcher := &scriptedFetcher{totalPages: 2, perPage: 3}
	loader := NewLoader(fetcher, 3)

	// A fresh loader may load page 1 of the empty query directly.
	require.NoError(t, loader.LoadMore(context.Background()))
	assert.Len(t, loader.Items(), 3)
	assert.Equal(t, 2, loader.NextPage())
}

func TestFetchFailureLeavesStateIntact(t *testing.T) {
	fetcher := &scriptedFetcher{totalPages: 3, perPage: 2}
	loader := NewLoader(fetcher, 2)
	ctx := context.Background()

	require.NoError(t, loader.SetQuery(ctx, "q"))
	itemsBefore := loader.Items()

	fetcher.failNext = true
	err := loader.LoadMore(ctx)
	require.Error(t, err)

	assert.Equal(t, itemsBefore, loader.Items(), "failure must not corrupt items")
	assert.True(t, loader.HasMore(), "transient failure must not declare exhaustion")
	assert.False(t, loader.Loading())
	assert.Equal(t, 2, loader.NextPage(), "failed page will be retried")

	// Retry succeeds and picks up where it left off.
	require.NoError(t, loader.LoadMore(ctx))
	assert.Len(t, loader.Items(), 4)
}

// blockingFetcher hands each in-flight call to the test for manual release.
type blockingFetcher struct {
	calls chan *fetchCall
}

type fetchCall struct {
	query string
	page  int
	reply chan fetchReply
}

type fetchReply struct {
	list *ResourceList
	err  error
}

func (f *blockingFetcher) FetchPage(_ context.Context, query string, page, _ int) (*ResourceList, error) {
	call := &fetchCall{query: query, page: page, reply: make(chan fetchReply)}
	f.calls <- call
	r := <-call.reply
	return r.list, r.err
}

func onePage(id string, totalPages int) *ResourceList {
	return &ResourceList{
		Data:       []Resource{{ID: id, Title: id}},
		Pagination: Pagination{Total: totalPages, Page: 1, Limit: 1, TotalPages: totalPages},
	}
}

func TestStaleResponseDiscarded(t *testing.T) {
	fetcher := &blockingFetcher{calls: make(chan *fetchCall, 2)}
	loader := NewLoader(fetcher, 1)
	ctx := context.Background()

	// First query goes in flight and stalls.
	firstDone := make(chan error, 1)
	go func() { firstDone <- loader.SetQuery(ctx, "old") }()
	firstCall := <-fetcher.calls
	require.Equal(t, "old", firstCall.query)

	// Second query supersedes it before it resolves.
	secondDone := make(chan error, 1)
	go func() { secondDone <- loader.SetQuery(ctx, "new") }()
	secondCall := <-fetcher.calls
	require.Equal(t, "new", secondCall.query)

	// The new session resolves first.
	secondCall.reply <- fetchReply{list: onePage("res-new", 2)}
	require.NoError(t, <-secondDone)
	require.Len(t, loader.Items(), 1)
	assert.Equal(t, "res-new", loader.Items()[0].ID)

	// The stale response arrives late and must change nothing.
	firstCall.reply <- fetchReply{list: onePage("res-old", 5)}
	require.NoError(t, <-firstDone)

	items := loader.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "res-new", items[0].ID)
	assert.Equal(t, 2, loader.NextPage())
	assert.True(t, loader.HasMore())
	assert.False(t, loader.Loading())
	assert.Equal(t, "new", loader.Query())
}

func TestLoadMoreGuardedWhileInFlight(t *testing.T) {
	fetcher := &blockingFetcher{calls: make(chan *fetchCall, 2)}
	loader := NewLoader(fetcher, 1)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- loader.LoadMore(ctx) }()
	call := <-fetcher.calls

	// While the fetch is in flight, further triggers are no-ops that
	// never reach the fetcher.
	require.NoError(t, loader.LoadMore(ctx))
	require.NoError(t, loader.LoadMore(ctx))
	select {
	case extra := <-fetcher.calls:
		t.Fatalf("unexpected concurrent fetch for page %d", extra.page)
	default:
	}

	call.reply <- fetchReply{list: onePage("res-1", 1)}
	require.NoError(t, <-done)
	assert.Len(t, loader.Items(), 1)
}
