package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/linkstash/linkstash-server/internal/domain"
	"github.com/linkstash/linkstash-server/internal/store"
)

// makeTestResource creates a domain.Resource with sensible defaults for testing.
func makeTestResource(id, title string) *domain.Resource {
	now := time.Now()
	return &domain.Resource{
		ID:          id,
		Title:       title,
		URL:         "https://example.com/" + id,
		Description: "a useful page",
		Tags:        []string{"go", "reference"},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateAndGetResource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := makeTestResource("res-1", "Effective Go")

	if err := s.CreateResource(ctx, r); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	got, err := s.GetResource(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetResource: %v", err)
	}

	if got.Title != r.Title {
		t.Errorf("Title: got %q, want %q", got.Title, r.Title)
	}
	if got.URL != r.URL {
		t.Errorf("URL: got %q, want %q", got.URL, r.URL)
	}
	if got.Description != r.Description {
		t.Errorf("Description: got %q, want %q", got.Description, r.Description)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "reference" {
		t.Errorf("Tags: got %v, want %v", got.Tags, r.Tags)
	}

	// Timestamps should round-trip through RFC3339Nano.
	if got.CreatedAt.Unix() != r.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, r.CreatedAt)
	}
}

func TestCreateResourceDuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := makeTestResource("res-1", "First")
	if err := s.CreateResource(ctx, r); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	dup := makeTestResource("res-1", "Second")
	err := s.CreateResource(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetResourceNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetResource(context.Background(), "res-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetResourceNilTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := makeTestResource("res-1", "Untagged")
	r.Tags = nil

	if err := s.CreateResource(ctx, r); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	got, err := s.GetResource(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetResource: %v", err)
	}
	if got.Tags == nil {
		t.Error("Tags should scan as an empty slice, not nil")
	}
	if len(got.Tags) != 0 {
		t.Errorf("Tags: got %v, want empty", got.Tags)
	}
}

func TestGetResourcesByIDsPreservesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		id := fmt.Sprintf("res-%d", i)
		if err := s.CreateResource(ctx, makeTestResource(id, "Title "+id)); err != nil {
			t.Fatalf("CreateResource %s: %v", id, err)
		}
	}

	// Request in reverse order, with one missing ID in the middle.
	got, err := s.GetResourcesByIDs(ctx, []string{"res-3", "res-missing", "res-1"})
	if err != nil {
		t.Fatalf("GetResourcesByIDs: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(got))
	}
	if got[0].ID != "res-3" || got[1].ID != "res-1" {
		t.Errorf("order not preserved: got [%s, %s]", got[0].ID, got[1].ID)
	}
}

func TestGetResourcesByIDsEmpty(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetResourcesByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("GetResourcesByIDs: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d resources", len(got))
	}
}

func TestListResourcesOrderAndPaging(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	titles := []string{"zig", "Apple", "mango", "Banana"}
	for i, title := range titles {
		r := makeTestResource(fmt.Sprintf("res-%d", i), title)
		if err := s.CreateResource(ctx, r); err != nil {
			t.Fatalf("CreateResource: %v", err)
		}
	}

	// Title order is case-insensitive.
	all, err := s.ListResources(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListResources: %v", err)
	}
	wantOrder := []string{"Apple", "Banana", "mango", "zig"}
	if len(all) != len(wantOrder) {
		t.Fatalf("expected %d resources, got %d", len(wantOrder), len(all))
	}
	for i, want := range wantOrder {
		if all[i].Title != want {
			t.Errorf("position %d: got %q, want %q", i, all[i].Title, want)
		}
	}

	// Second page of two.
	page, err := s.ListResources(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListResources page 2: %v", err)
	}
	if len(page) != 2 || page[0].Title != "mango" || page[1].Title != "zig" {
		t.Errorf("page 2: got %v", titlesOf(page))
	}

	// Page past the end is empty, not an error.
	past, err := s.ListResources(ctx, 10, 100)
	if err != nil {
		t.Fatalf("ListResources past end: %v", err)
	}
	if len(past) != 0 {
		t.Errorf("expected empty page past end, got %d", len(past))
	}
}

func titlesOf(resources []*domain.Resource) []string {
	out := make([]string, len(resources))
	for i, r := range resources {
		out[i] = r.Title
	}
	return out
}

func TestCountResources(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	count, err := s.CountResources(ctx)
	if err != nil {
		t.Fatalf("CountResources: %v", err)
	}
	if count != 0 {
		t.Errorf("empty store count: got %d, want 0", count)
	}

	for i := 0; i < 3; i++ {
		if err := s.CreateResource(ctx, makeTestResource(fmt.Sprintf("res-%d", i), "t")); err != nil {
			t.Fatalf("CreateResource: %v", err)
		}
	}

	count, err = s.CountResources(ctx)
	if err != nil {
		t.Fatalf("CountResources: %v", err)
	}
	if count != 3 {
		t.Errorf("count: got %d, want 3", count)
	}
}

func TestUpdateResource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := makeTestResource("res-1", "Old Title")
	if err := s.CreateResource(ctx, r); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	r.Title = "New Title"
	r.Tags = []string{"updated"}
	r.UpdatedAt = time.Now().Add(time.Minute)
	if err := s.UpdateResource(ctx, r); err != nil {
		t.Fatalf("UpdateResource: %v", err)
	}

	got, err := s.GetResource(ctx, "res-1")
	if err != nil {
		t.Fatalf("GetResource: %v", err)
	}
	if got.Title != "New Title" {
		t.Errorf("Title: got %q, want %q", got.Title, "New Title")
	}
	if len(got.Tags) != 1 || got.Tags[0] != "updated" {
		t.Errorf("Tags: got %v, want [updated]", got.Tags)
	}
}

func TestUpdateResourceNotFound(t *testing.T) {
	s := newTestStore(t)

	r := makeTestResource("res-missing", "Ghost")
	err := s.UpdateResource(context.Background(), r)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteResource(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := makeTestResource("res-1", "Doomed")
	if err := s.CreateResource(ctx, r); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	if err := s.DeleteResource(ctx, "res-1"); err != nil {
		t.Fatalf("DeleteResource: %v", err)
	}

	_, err := s.GetResource(ctx, "res-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	// Deleting again is not an error.
	if err := s.DeleteResource(ctx, "res-1"); err != nil {
		t.Errorf("repeat delete: %v", err)
	}
}

// recordingIndexer captures index calls for verification.
type recordingIndexer struct {
	indexed []string
	deleted []string
}

func (r *recordingIndexer) IndexResource(_ context.Context, res *domain.Resource) error {
	r.indexed = append(r.indexed, res.ID)
	return nil
}

func (r *recordingIndexer) DeleteResource(_ context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return nil
}

func TestMutationsDriveSearchIndexer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	idx := &recordingIndexer{}
	s.SetSearchIndexer(idx)

	r := makeTestResource("res-1", "Indexed")
	if err := s.CreateResource(ctx, r); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	if err := s.UpdateResource(ctx, r); err != nil {
		t.Fatalf("UpdateResource: %v", err)
	}
	if err := s.DeleteResource(ctx, "res-1"); err != nil {
		t.Fatalf("DeleteResource: %v", err)
	}

	if len(idx.indexed) != 2 {
		t.Errorf("expected 2 index calls, got %d", len(idx.indexed))
	}
	if len(idx.deleted) != 1 || idx.deleted[0] != "res-1" {
		t.Errorf("expected delete call for res-1, got %v", idx.deleted)
	}
}
