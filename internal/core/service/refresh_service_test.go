package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ecommerce-platform/auth-service/internal/core/domain"
)

func TestRefreshTokenService_Create(t *testing.T) {
	repo := newStubTokenRepo()
	svc := NewRefreshTokenService(repo, time.Hour, zerolog.Nop())
	user := &domain.User{ID: "user-1", Email: "a@example.com"}

	before := time.Now().UTC()
	token, err := svc.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := uuid.Parse(token.Token); err != nil {
		t.Fatalf("token identifier is not a UUID: %q", token.Token)
	}
	if token.UserID != "user-1" {
		t.Fatalf("unexpected owner: %s", token.UserID)
	}
	if token.ExpiresAt.Before(before.Add(time.Hour)) || token.ExpiresAt.After(time.Now().UTC().Add(time.Hour)) {
		t.Fatalf("unexpected expiry: %v", token.ExpiresAt)
	}

	stored, err := repo.FindByToken(context.Background(), token.Token)
	if err != nil {
		t.Fatalf("stored record missing: %v", err)
	}
	if stored.Token != token.Token {
		t.Fatalf("stored token mismatch")
	}
}

func TestRefreshTokenService_Create_UniqueIdentifiers(t *testing.T) {
	repo := newStubTokenRepo()
	svc := NewRefreshTokenService(repo, time.Hour, zerolog.Nop())
	user := &domain.User{ID: "user-1"}

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token, err := svc.Create(context.Background(), user)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, dup := seen[token.Token]; dup {
			t.Fatalf("identifier reused: %s", token.Token)
		}
		seen[token.Token] = struct{}{}
	}
}

func TestRefreshTokenService_Create_InvalidInput(t *testing.T) {
	svc := NewRefreshTokenService(newStubTokenRepo(), time.Hour, zerolog.Nop())

	if _, err := svc.Create(context.Background(), nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for nil user, got %v", err)
	}
	if _, err := svc.Create(context.Background(), &domain.User{}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for user without id, got %v", err)
	}
}

func TestRefreshTokenService_CheckNotExpired(t *testing.T) {
	repo := newStubTokenRepo()
	svc := NewRefreshTokenService(repo, time.Hour, zerolog.Nop())
	user := &domain.User{ID: "user-1"}

	token, err := svc.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.CheckNotExpired(context.Background(), token); err != nil {
		t.Fatalf("fresh token reported expired: %v", err)
	}

	svc.now = func() time.Time { return token.ExpiresAt }
	if err := svc.CheckNotExpired(context.Background(), token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	// Detection is destructive.
	if _, err := repo.FindByToken(context.Background(), token.Token); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expected expired record to be deleted, got %v", err)
	}
}

func TestRefreshTokenService_Revoke_Idempotent(t *testing.T) {
	repo := newStubTokenRepo()
	svc := NewRefreshTokenService(repo, time.Hour, zerolog.Nop())

	token, err := svc.Create(context.Background(), &domain.User{ID: "user-1"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Revoke(context.Background(), token.Token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if err := svc.Revoke(context.Background(), token.Token); err != nil {
		t.Fatalf("revoking an absent record must succeed, got %v", err)
	}
}

func TestRefreshTokenService_SweepExpired(t *testing.T) {
	repo := newStubTokenRepo()
	svc := NewRefreshTokenService(repo, time.Hour, zerolog.Nop())
	user := &domain.User{ID: "user-1"}

	live, err := svc.Create(context.Background(), user)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Two records already past expiry.
	for _, tok := range []string{"expired-1", "expired-2"} {
		err := repo.Insert(context.Background(), &domain.RefreshToken{
			Token:     tok,
			UserID:    "user-2",
			ExpiresAt: time.Now().Add(-time.Minute),
		})
		if err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	n, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("SweepExpired: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 deletions, got %d", n)
	}
	if _, err := repo.FindByToken(context.Background(), live.Token); err != nil {
		t.Fatalf("sweep must not touch live tokens: %v", err)
	}
}
