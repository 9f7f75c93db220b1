package audit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Event is an immutable, append-only record of an authentication event.
//
// Invariants:
// - Events are never updated or deleted.
// - Actor and IP capture are best-effort; auth flows must not block on
//   audit failures.
type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`

	// ActorUID is the user the event concerns, when one is known.
	// Failed logins for unknown emails have no actor.
	ActorUID string `json:"actor_uid,omitempty"`
	Email    string `json:"email,omitempty"`

	// IPAddress is the resolved client IP when available.
	IPAddress string `json:"ip_address,omitempty"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EventType string

const (
	EventLoginSuccess   EventType = "login_success"
	EventLoginFailure   EventType = "login_failure"
	EventRegister       EventType = "register"
	EventLogout         EventType = "logout"
	EventRateLimitBlock EventType = "rate_limit_block"
	EventTokenRotation  EventType = "token_rotation"
)

// Repository is the persistence contract for audit events.
// It MUST be append-only; no Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Event) error
	List(ctx context.Context, limit int) ([]Event, error)
}

var ErrInvalidEvent = errors.New("audit: invalid event")

// Service logs authentication events for internal ops visibility.
// Records are not exposed to regular users.
type Service struct {
	repo  Repository
	log   *slog.Logger
	clock func() time.Time
}

func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log, clock: time.Now}
}

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Record appends best-effort: failures are logged, never propagated,
// so a broken audit store cannot take down login.
func (s *Service) Record(ctx context.Context, e Event) {
	if s == nil {
		return
	}
	if err := s.Append(ctx, e); err != nil && s.log != nil {
		s.log.Warn("audit append failed", "type", e.Type, "err", err)
	}
}

// Recent returns the newest events, most recent first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Event, error) {
	if s.repo == nil {
		return nil, errors.New("audit: repository not configured")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.repo.List(ctx, limit)
}
