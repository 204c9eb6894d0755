package domain

import "time"

// User represents an authenticated account that can mutate resources.
// Reads require no account; anonymous visitors browse the same collection.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Stored hashed (argon2id), never serialized
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Touch updates the UpdatedAt timestamp.
func (u *User) Touch() {
	u.UpdatedAt = time.Now()
}
