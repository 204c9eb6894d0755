package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/linkstash/linkstash-server/internal/domain"
	"github.com/linkstash/linkstash-server/internal/store"
)

func makeTestUser(id, email string) *domain.User {
	now := time.Now()
	return &domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := makeTestUser("user-1", "alex@example.com")
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != u.Email {
		t.Errorf("Email: got %q, want %q", got.Email, u.Email)
	}
	if got.PasswordHash != u.PasswordHash {
		t.Errorf("PasswordHash: got %q, want %q", got.PasswordHash, u.PasswordHash)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alex@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	err := s.CreateUser(ctx, makeTestUser("user-2", "alex@example.com"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("user-1", "alex@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUserByEmail(ctx, "Alex@Example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("ID: got %q, want %q", got.ID, "user-1")
	}

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCountUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	count, err := s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 0 {
		t.Errorf("empty store count: got %d, want 0", count)
	}

	if err := s.CreateUser(ctx, makeTestUser("user-1", "a@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	count, err = s.CountUsers(ctx)
	if err != nil {
		t.Fatalf("CountUsers: %v", err)
	}
	if count != 1 {
		t.Errorf("count: got %d, want 1", count)
	}
}
