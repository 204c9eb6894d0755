// Package search provides full-text search over resources using Bleve.
// Queries match titles, descriptions, and tags with fuzzy and prefix
// fallbacks, ranked by relevance.
package search

import (
	"github.com/linkstash/linkstash-server/internal/domain"
)

// SearchDocument is the document structure for the Bleve index.
type SearchDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Timestamps for sorting
	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}

	return m
}

// ResourceToSearchDocument converts a domain Resource to a SearchDocument.
func ResourceToSearchDocument(r *domain.Resource) *SearchDocument {
	return &SearchDocument{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
		CreatedAt:   r.CreatedAt.UnixMilli(),
		UpdatedAt:   r.UpdatedAt.UnixMilli(),
	}
}
