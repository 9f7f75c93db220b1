package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

// User is the durable credential record.
type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	PasswordDigest string    `json:"-"`
	Role           string    `json:"role"`
	Name           string    `json:"name"`
	Company        string    `json:"company,omitempty"`

	// TokenVersion backs future forced sign-out: bumping it would
	// invalidate outstanding refresh tokens carrying an older version.
	TokenVersion int `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrNotFound    = errors.New("user: not found")
	ErrEmailExists = errors.New("user: email already registered")
)

// Store is the persistence contract for user credentials.
//
// Emails are normalized (lowercased, trimmed) at both write and lookup
// time; implementations must apply NormalizeEmail so a mixed-case
// registration cannot bypass the duplicate check.
type Store interface {
	FindByEmail(ctx context.Context, email string) (User, error)
	// Insert hashes plainPassword and persists the record. Returns
	// ErrEmailExists if the normalized email is already registered.
	Insert(ctx context.Context, u User, plainPassword string) (User, error)
	Update(ctx context.Context, u User) (User, error)
}

// NormalizeEmail is the single normalization used everywhere an email
// keys a lookup or a rate-limit counter.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
