// Package main provides a tool to seed the database with an initial user
// and a handful of sample resources.
//
// Usage:
//
//	go run ./cmd/seed --data-path ~/linkstash --email you@example.com --password "long passphrase"
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/linkstash/linkstash-server/internal/auth"
	"github.com/linkstash/linkstash-server/internal/domain"
	"github.com/linkstash/linkstash-server/internal/id"
	"github.com/linkstash/linkstash-server/internal/search"
	"github.com/linkstash/linkstash-server/internal/store"
	"github.com/linkstash/linkstash-server/internal/store/sqlite"
)

var (
	dataPath = flag.String("data-path", "", "Base path for data storage (defaults to $HOME/linkstash)")
	email    = flag.String("email", "admin@localhost", "Email for the seeded user")
	password = flag.String("password", "", "Password for the seeded user (required)")
	samples  = flag.Bool("samples", true, "Insert sample resources")
)

func main() {
	flag.Parse()

	if *password == "" {
		log.Fatal("--password is required")
	}

	base := *dataPath
	if base == "" {
		base = os.ExpandEnv("$HOME/linkstash")
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	dbPath := filepath.Join(base, "linkstash.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	index, err := search.NewSearchIndex(search.Options{DataPath: base, Logger: logger})
	if err != nil {
		log.Fatalf("Failed to open search index: %v", err)
	}
	defer index.Close()
	s.SetSearchIndexer(index)

	ctx := context.Background()

	if err := seedUser(ctx, s, *email, *password); err != nil {
		log.Fatalf("Failed to seed user: %v", err)
	}

	if *samples {
		if err := seedResources(ctx, s); err != nil {
			log.Fatalf("Failed to seed resources: %v", err)
		}
	}

	count, _ := s.CountResources(ctx)
	fmt.Printf("Done. Database holds %d resources.\n", count)
}

func seedUser(ctx context.Context, s store.Store, email, password string) error {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	now := time.Now()
	user := &domain.User{
		ID:           id.MustGenerate("usr"),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			fmt.Printf("User %s already exists, skipping\n", email)
			return nil
		}
		return err
	}

	fmt.Printf("Created user %s (%s)\n", email, user.ID)
	return nil
}

func seedResources(ctx context.Context, s store.Store) error {
	type sample struct {
		title, url, description string
		tags                    []string
	}

	entries := []sample{
		{"Go by Example", "https://gobyexample.com", "Hands-on introduction to Go using annotated example programs.", []string{"go", "tutorial"}},
		{"Bleve", "https://blevesearch.com", "A modern text indexing library for Go.", []string{"go", "search"}},
		{"SQLite Documentation", "https://sqlite.org/docs.html", "Official documentation for the SQLite database engine.", []string{"sqlite", "database"}},
		{"The Open Graph protocol", "https://ogp.me", "Specification for turning web pages into rich objects in a social graph.", []string{"web", "metadata"}},
		{"chi router", "https://go-chi.io", "Lightweight, idiomatic and composable router for building Go HTTP services.", []string{"go", "http"}},
	}

	for _, sm := range entries {
		now := time.Now()
		r := &domain.Resource{
			ID:        id.MustGenerate("res"),
			CreatedAt: now,
		}
		r.ApplyInput(sm.title, sm.url, sm.description, sm.tags)

		if err := s.CreateResource(ctx, r); err != nil {
			return err
		}
		fmt.Printf("Created resource %q (%s)\n", sm.title, r.ID)
	}

	return nil
}
