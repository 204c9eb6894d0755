package domain

import (
	"testing"
	"time"
)

func TestResourceApplyInput(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r := &Resource{
		ID:          "res-1",
		Title:       "Old title",
		URL:         "https://old.example",
		Description: "old description",
		Tags:        []string{"go"},
		CreatedAt:   created,
		UpdatedAt:   created,
	}

	r.ApplyInput("New title", "https://new.example", "new description", []string{"go", "web", "go"})

	if r.Title != "New title" {
		t.Errorf("Title: got %q", r.Title)
	}
	if r.URL != "https://new.example" {
		t.Errorf("URL: got %q", r.URL)
	}
	if len(r.Tags) != 3 {
		t.Errorf("Tags should be replaced wholesale with duplicates kept, got %v", r.Tags)
	}
	if !r.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt must be immutable, got %v", r.CreatedAt)
	}
	if !r.UpdatedAt.After(created) {
		t.Errorf("UpdatedAt should be refreshed, got %v", r.UpdatedAt)
	}
}
