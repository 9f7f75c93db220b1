package user

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStore_InsertAndFind(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	u, err := s.Insert(ctx, User{Email: "A@B.com", Name: "A B", Role: "client"}, "secret1")
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if u.ID == "" {
		t.Fatalf("expected generated id")
	}
	if u.Email != "a@b.com" {
		t.Fatalf("expected normalized email, got %q", u.Email)
	}
	if u.PasswordDigest == "secret1" || u.PasswordDigest == "" {
		t.Fatalf("expected hashed digest")
	}

	// Lookup is case-insensitive via the same normalization.
	got, err := s.FindByEmail(ctx, "a@B.COM")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("expected same user")
	}

	if !VerifyPassword(got.PasswordDigest, "secret1") {
		t.Fatalf("expected password to verify")
	}
	if VerifyPassword(got.PasswordDigest, "secret2") {
		t.Fatalf("expected wrong password to fail")
	}
}

func TestMemoryStore_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.Insert(ctx, User{Email: "a@b.com", Name: "A"}, "secret1"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err := s.Insert(ctx, User{Email: "A@B.COM", Name: "A"}, "secret1")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestMemoryStore_FindMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.FindByEmail(context.Background(), "nobody@test.com")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Update(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	u, _ := s.Insert(ctx, User{Email: "a@b.com", Name: "A"}, "secret1")
	u.Name = "A Prime"
	u.TokenVersion = 2

	got, err := s.Update(ctx, u)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Name != "A Prime" || got.TokenVersion != 2 {
		t.Fatalf("unexpected update result: %+v", got)
	}

	found, _ := s.FindByEmail(ctx, "a@b.com")
	if found.Name != "A Prime" {
		t.Fatalf("update not persisted")
	}
}
