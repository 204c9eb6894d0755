package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/linkstash/linkstash-server/internal/domain"
	"github.com/linkstash/linkstash-server/internal/store"
)

const userColumns = `id, email, password_hash, created_at, updated_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateUser inserts a new user.
// Returns store.ErrAlreadyExists on duplicate email.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.PasswordHash,
		formatTime(u.CreatedAt),
		formatTime(u.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email. Lookup is case-insensitive.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ? COLLATE NOCASE`, email)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CountUsers returns the total number of users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
