// Package service contains the application services that sit between the
// HTTP layer and persistence.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/linkstash/linkstash-server/internal/domain"
	domainerrors "github.com/linkstash/linkstash-server/internal/errors"
	"github.com/linkstash/linkstash-server/internal/id"
	"github.com/linkstash/linkstash-server/internal/search"
	"github.com/linkstash/linkstash-server/internal/store"
	"github.com/linkstash/linkstash-server/internal/validation"
)

// Searcher executes full-text queries over the resource collection.
// *search.SearchIndex implements it.
type Searcher interface {
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
}

// ResourceInput is the payload for creating or updating a resource.
// Updates are full replacements, so the same shape serves both.
type ResourceInput struct {
	Title       string   `json:"title" validate:"required,min=2"`
	URL         string   `json:"url" validate:"required,url"`
	Description string   `json:"description" validate:"required,min=5"`
	Tags        []string `json:"tags" validate:"omitempty,dive,required"`
}

// ListParams selects a page of resources, optionally filtered by a
// search query.
type ListParams struct {
	Query string
	Page  store.PageParams
}

// ResourceService orchestrates resource CRUD and search.
type ResourceService struct {
	store        store.Store
	searcher     Searcher
	validator    *validation.Validator
	logger       *slog.Logger
	defaultLimit int
	maxLimit     int
}

// NewResourceService creates a new resource service.
func NewResourceService(
	store store.Store,
	searcher Searcher,
	validator *validation.Validator,
	logger *slog.Logger,
	defaultLimit, maxLimit int,
) *ResourceService {
	return &ResourceService{
		store:        store,
		searcher:     searcher,
		validator:    validator,
		logger:       logger,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

// List returns one page of resources with pagination metadata.
//
// With an empty query the full collection is returned ordered by title.
// With a query the search index supplies matching IDs by descending
// relevance and the page is hydrated from the store. A page past the end
// of the result set yields an empty page, not an error; the metadata
// still describes the full result set.
func (s *ResourceService) List(ctx context.Context, params ListParams) ([]*domain.Resource, store.Pagination, error) {
	page := params.Page
	page.Normalize(s.defaultLimit, s.maxLimit)

	if params.Query == "" {
		total, err := s.store.CountResources(ctx)
		if err != nil {
			return nil, store.Pagination{}, fmt.Errorf("count resources: %w", err)
		}

		resources, err := s.store.ListResources(ctx, page.Limit, page.Offset())
		if err != nil {
			return nil, store.Pagination{}, fmt.Errorf("list resources: %w", err)
		}

		return resources, store.NewPagination(total, page), nil
	}

	result, err := s.searcher.Search(ctx, search.SearchParams{
		Query:  params.Query,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, store.Pagination{}, fmt.Errorf("search resources: %w", err)
	}

	ids := make([]string, len(result.Hits))
	for i, hit := range result.Hits {
		ids[i] = hit.ID
	}

	// Hydration preserves the relevance order of the hits. A hit whose
	// record was deleted between indexing and hydration drops out.
	resources, err := s.store.GetResourcesByIDs(ctx, ids)
	if err != nil {
		return nil, store.Pagination{}, fmt.Errorf("hydrate search hits: %w", err)
	}

	return resources, store.NewPagination(int(result.Total), page), nil
}

// Get returns a single resource by ID.
func (s *ResourceService) Get(ctx context.Context, resourceID string) (*domain.Resource, error) {
	resource, err := s.store.GetResource(ctx, resourceID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("resource %s not found", resourceID)
	}
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}
	return resource, nil
}

// Create validates the input and persists a new resource.
func (s *ResourceService) Create(ctx context.Context, input ResourceInput) (*domain.Resource, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	resourceID, err := id.Generate("res")
	if err != nil {
		return nil, fmt.Errorf("generate resource id: %w", err)
	}

	resource := &domain.Resource{ID: resourceID}
	resource.ApplyInput(input.Title, input.URL, input.Description, input.Tags)
	resource.CreatedAt = resource.UpdatedAt

	if err := s.store.CreateResource(ctx, resource); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	s.logger.Info("resource created", "resource_id", resource.ID, "title", resource.Title)
	return resource, nil
}

// Update validates the input and fully replaces an existing resource.
// Returns a not-found error when no resource has the given ID.
func (s *ResourceService) Update(ctx context.Context, resourceID string, input ResourceInput) (*domain.Resource, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	resource, err := s.store.GetResource(ctx, resourceID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("resource %s not found", resourceID)
	}
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}

	resource.ApplyInput(input.Title, input.URL, input.Description, input.Tags)

	if err := s.store.UpdateResource(ctx, resource); err != nil {
		return nil, fmt.Errorf("update resource: %w", err)
	}

	s.logger.Info("resource updated", "resource_id", resource.ID)
	return resource, nil
}

// Delete removes a resource. Deleting an absent resource is not an
// error; the operation is idempotent.
func (s *ResourceService) Delete(ctx context.Context, resourceID string) error {
	if err := s.store.DeleteResource(ctx, resourceID); err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	s.logger.Info("resource deleted", "resource_id", resourceID)
	return nil
}
