package user

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu      sync.Mutex
	byEmail map[string]User
	clock   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byEmail: map[string]User{}, clock: time.Now}
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *MemoryStore) Insert(ctx context.Context, u User, plainPassword string) (User, error) {
	digest, err := HashPassword(plainPassword)
	if err != nil {
		return User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	email := NormalizeEmail(u.Email)
	if _, ok := s.byEmail[email]; ok {
		return User{}, ErrEmailExists
	}

	now := s.clock().UTC()
	u.ID = uuid.NewString()
	u.Email = email
	u.PasswordDigest = digest
	u.CreatedAt = now
	u.UpdatedAt = now
	s.byEmail[email] = u
	return u, nil
}

func (s *MemoryStore) Update(ctx context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for email, existing := range s.byEmail {
		if existing.ID == u.ID {
			u.Email = existing.Email
			u.PasswordDigest = existing.PasswordDigest
			u.CreatedAt = existing.CreatedAt
			u.UpdatedAt = s.clock().UTC()
			s.byEmail[email] = u
			return u, nil
		}
	}
	return User{}, ErrNotFound
}
