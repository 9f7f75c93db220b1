package audit

import (
	"context"
	"testing"
)

func TestAppend_FillsDefaults(t *testing.T) {
	repo := NewMemoryRepo()
	s := NewService(repo, nil)
	ctx := context.Background()

	if err := s.Append(ctx, Event{Type: EventLoginSuccess, ActorUID: "u1"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	events, err := s.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID == "" || events[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp to be filled: %+v", events[0])
	}
}

func TestAppend_RejectsMissingType(t *testing.T) {
	s := NewService(NewMemoryRepo(), nil)
	if err := s.Append(context.Background(), Event{ActorUID: "u1"}); err == nil {
		t.Fatalf("expected error for missing type")
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	s := NewService(repo, nil)
	ctx := context.Background()

	_ = s.Append(ctx, Event{Type: EventLoginFailure})
	_ = s.Append(ctx, Event{Type: EventLoginSuccess})

	events, _ := s.Recent(ctx, 1)
	if len(events) != 1 || events[0].Type != EventLoginSuccess {
		t.Fatalf("expected newest event first, got %+v", events)
	}
}
