package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"collab-platform/pkg/utils"

	"github.com/google/uuid"
)

// PostgresStore persists users in the users table:
//
//	users(id, email UNIQUE, password_digest, role, name, company,
//	      token_version, created_at, updated_at)
type PostgresStore struct {
	db *sql.DB
	// clock is injectable for deterministic tests.
	clock func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, clock: time.Now}
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (User, error) {
	const q = `
SELECT id, email, password_digest, role, name, company, token_version, created_at, updated_at
FROM users
WHERE email = $1
`
	var u User
	err := s.db.QueryRowContext(ctx, q, NormalizeEmail(email)).Scan(
		&u.ID,
		&u.Email,
		&u.PasswordDigest,
		&u.Role,
		&u.Name,
		&u.Company,
		&u.TokenVersion,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresStore) Insert(ctx context.Context, u User, plainPassword string) (User, error) {
	digest, err := HashPassword(plainPassword)
	if err != nil {
		return User{}, err
	}

	now := s.clock().UTC()
	u.ID = uuid.NewString()
	u.Email = NormalizeEmail(u.Email)
	u.PasswordDigest = digest
	u.CreatedAt = now
	u.UpdatedAt = now

	err = utils.WithTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		// Duplicate check inside the transaction; the UNIQUE constraint
		// on email remains the backstop for concurrent registrations.
		var exists bool
		const checkQ = `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
		if err := tx.QueryRowContext(ctx, checkQ, u.Email).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return ErrEmailExists
		}

		const insertQ = `
INSERT INTO users (id, email, password_digest, role, name, company, token_version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`
		_, err := tx.ExecContext(ctx, insertQ,
			u.ID, u.Email, u.PasswordDigest, u.Role, u.Name, u.Company, u.TokenVersion, u.CreatedAt, u.UpdatedAt,
		)
		return err
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (s *PostgresStore) Update(ctx context.Context, u User) (User, error) {
	u.UpdatedAt = s.clock().UTC()
	const q = `
UPDATE users
SET role = $2, name = $3, company = $4, token_version = $5, updated_at = $6
WHERE id = $1
RETURNING email, password_digest, created_at
`
	err := s.db.QueryRowContext(ctx, q,
		u.ID, u.Role, u.Name, u.Company, u.TokenVersion, u.UpdatedAt,
	).Scan(&u.Email, &u.PasswordDigest, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}
