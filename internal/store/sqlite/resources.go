package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"strings"

	"github.com/linkstash/linkstash-server/internal/domain"
	"github.com/linkstash/linkstash-server/internal/store"
)

// resourceColumns is the ordered list of columns selected in resource queries.
// Must match the scan order in scanResource.
const resourceColumns = `id, title, url, description, tags, created_at, updated_at`

// scanResource scans a sql.Row (or sql.Rows via its Scan method) into a domain.Resource.
func scanResource(scanner interface{ Scan(dest ...any) error }) (*domain.Resource, error) {
	var r domain.Resource

	var (
		tagsJSON  string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&r.ID,
		&r.Title,
		&r.URL,
		&r.Description,
		&tagsJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &r.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags for resource %s: %w", r.ID, err)
	}
	if r.Tags == nil {
		r.Tags = []string{}
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// marshalTags serializes a tag list for storage. A nil slice is stored
// as an empty JSON array so scans never see SQL NULL.
func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("marshal tags: %w", err)
	}
	return string(data), nil
}

// CreateResource inserts a new resource and indexes it for search.
// Returns store.ErrAlreadyExists on duplicate ID.
func (s *Store) CreateResource(ctx context.Context, r *domain.Resource) error {
	tags, err := marshalTags(r.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO resources (`+resourceColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.Title,
		r.URL,
		r.Description,
		tags,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := s.searchIndexer.IndexResource(ctx, r); err != nil {
		s.logger.Warn("failed to index resource", "resource_id", r.ID, "error", err)
	}

	return nil
}

// GetResource retrieves a resource by its ID.
// Returns store.ErrNotFound if the resource does not exist.
func (s *Store) GetResource(ctx context.Context, id string) (*domain.Resource, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id = ?`, id)

	r, err := scanResource(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetResourcesByIDs retrieves resources for the given IDs, preserving the
// input order. IDs with no matching row are silently skipped.
func (s *Store) GetResourcesByIDs(ctx context.Context, ids []string) ([]*domain.Resource, error) {
	if len(ids) == 0 {
		return []*domain.Resource{}, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resourceColumns+` FROM resources WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[string]*domain.Resource, len(ids))
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		byID[r.ID] = r
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	resources := make([]*domain.Resource, 0, len(byID))
	for _, id := range ids {
		if r, ok := byID[id]; ok {
			resources = append(resources, r)
		}
	}
	return resources, nil
}

// ListResources returns a page of resources ordered by title.
func (s *Store) ListResources(ctx context.Context, limit, offset int) ([]*domain.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+resourceColumns+` FROM resources
		ORDER BY title COLLATE NOCASE ASC, id ASC
		LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectResources(rows)
}

// ListAllResources returns every resource ordered by title. Used for
// search index rebuilds and exports.
func (s *Store) ListAllResources(ctx context.Context) ([]*domain.Resource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+resourceColumns+` FROM resources
		ORDER BY title COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectResources(rows)
}

// CountResources returns the total number of resources.
func (s *Store) CountResources(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resources`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateResource updates an existing resource and reindexes it.
// Returns store.ErrNotFound if the resource does not exist.
func (s *Store) UpdateResource(ctx context.Context, r *domain.Resource) error {
	tags, err := marshalTags(r.Tags)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE resources
		SET title = ?, url = ?, description = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		r.Title,
		r.URL,
		r.Description,
		tags,
		formatTime(r.UpdatedAt),
		r.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if err := s.searchIndexer.IndexResource(ctx, r); err != nil {
		s.logger.Warn("failed to reindex resource", "resource_id", r.ID, "error", err)
	}

	return nil
}

// DeleteResource removes a resource and its search index entry.
// Deleting a resource that does not exist is not an error.
func (s *Store) DeleteResource(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM resources WHERE id = ?`, id)
	if err != nil {
		return err
	}

	if err := s.searchIndexer.DeleteResource(ctx, id); err != nil {
		s.logger.Warn("failed to remove resource from index", "resource_id", id, "error", err)
	}

	return nil
}

func collectResources(rows *sql.Rows) ([]*domain.Resource, error) {
	var resources []*domain.Resource
	for rows.Next() {
		r, err := scanResource(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if resources == nil {
		resources = []*domain.Resource{}
	}
	return resources, nil
}
