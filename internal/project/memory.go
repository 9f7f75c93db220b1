package project

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and local development.
type MemoryStore struct {
	mu       sync.Mutex
	projects map[string]Project
	clock    func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: map[string]Project{}, clock: time.Now}
}

func (s *MemoryStore) ListForUser(ctx context.Context, uid string) ([]Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Project, 0)
	for _, p := range s.projects {
		if p.ClientUID == uid || p.DeveloperUID == uid {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return Project{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) Insert(ctx context.Context, p Project) (Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock().UTC()
	p.ID = uuid.NewString()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Status == "" {
		p.Status = StatusQuoteRequested
	}
	s.projects[p.ID] = p
	return p, nil
}
