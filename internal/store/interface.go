// Package store defines the persistence interface for the LinkStash server.
package store

import (
	"context"

	"github.com/linkstash/linkstash-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	SetSearchIndexer(indexer SearchIndexer)

	// Resources
	CreateResource(ctx context.Context, resource *domain.Resource) error
	GetResource(ctx context.Context, id string) (*domain.Resource, error)
	GetResourcesByIDs(ctx context.Context, ids []string) ([]*domain.Resource, error)
	ListResources(ctx context.Context, limit, offset int) ([]*domain.Resource, error)
	ListAllResources(ctx context.Context) ([]*domain.Resource, error)
	CountResources(ctx context.Context) (int, error)
	UpdateResource(ctx context.Context, resource *domain.Resource) error
	DeleteResource(ctx context.Context, id string) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	CountUsers(ctx context.Context) (int, error)
}

// SearchIndexer is the interface for updating the search index.
// The store calls it after every resource mutation so the index
// tracks the database without the caller having to remember.
type SearchIndexer interface {
	IndexResource(ctx context.Context, resource *domain.Resource) error
	DeleteResource(ctx context.Context, id string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexResource(context.Context, *domain.Resource) error { return nil }
func (NoopSearchIndexer) DeleteResource(context.Context, string) error          { return nil }

// NewNoopSearchIndexer returns a SearchIndexer that does nothing.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}
