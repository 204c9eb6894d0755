// Package domain contains the core entities of the linkstash server.
package domain

import "time"

// Resource is a persisted tagged-link record.
// Title, URL and Description are always non-empty at rest; the validation
// layer enforces this at the mutation boundary, not the store.
type Resource struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"` // Insertion order from the authoring form; duplicates permitted
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Touch updates the UpdatedAt timestamp.
func (r *Resource) Touch() {
	r.UpdatedAt = time.Now()
}

// ApplyInput replaces the mutable fields of the resource.
// Updates are full replacements: title, url, description and tags are all
// overwritten, CreatedAt is preserved, UpdatedAt is refreshed.
func (r *Resource) ApplyInput(title, url, description string, tags []string) {
	r.Title = title
	r.URL = url
	r.Description = description
	r.Tags = tags
	r.Touch()
}
