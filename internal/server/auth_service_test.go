package server

import (
	"context"
	"testing"
	"time"

	internalauth "ideavault/internal/auth"
)

func TestAuthLoginAndSession(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()
	now := time.Now()

	hash, err := internalauth.HashPassword("vault-pass-1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := st.CreateUser(ctx, "alice", hash, now.UTC().UnixMilli()); err != nil {
		t.Fatalf("create user: %v", err)
	}

	result, err := srv.authService.Login(ctx, "Alice", "vault-pass-1", now)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a session token")
	}
	if result.ExpiresAt <= now.UTC().UnixMilli() {
		t.Fatalf("expiry not in the future: %d", result.ExpiresAt)
	}

	user, err := srv.authService.AuthenticateSessionToken(ctx, result.Token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user == nil || user.Username != "alice" {
		t.Fatalf("expected alice, got %+v", user)
	}

	// Expired token resolves to nil.
	late := now.Add(defaultSessionTTL + time.Minute)
	user, err = srv.authService.AuthenticateSessionToken(ctx, result.Token, late)
	if err != nil {
		t.Fatalf("authenticate expired: %v", err)
	}
	if user != nil {
		t.Fatal("expired session must not authenticate")
	}

	// Revocation is immediate and idempotent.
	if err := srv.authService.RevokeSessionToken(ctx, result.Token, now); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	user, err = srv.authService.AuthenticateSessionToken(ctx, result.Token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("authenticate revoked: %v", err)
	}
	if user != nil {
		t.Fatal("revoked session must not authenticate")
	}
	if err := srv.authService.RevokeSessionToken(ctx, result.Token, now); err != nil {
		t.Fatalf("re-revoke: %v", err)
	}
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()
	now := time.Now()

	hash, err := internalauth.HashPassword("vault-pass-1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := st.CreateUser(ctx, "alice", hash, now.UTC().UnixMilli()); err != nil {
		t.Fatalf("create user: %v", err)
	}

	if _, err := srv.authService.Login(ctx, "alice", "wrong-pass-1", now); err == nil {
		t.Fatal("expected error for wrong password")
	}
	if _, err := srv.authService.Login(ctx, "nobody", "vault-pass-1", now); err == nil {
		t.Fatal("expected error for unknown user")
	}

	if err := st.SetUserDisabled(ctx, "alice", true, now.UTC().UnixMilli()); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if _, err := srv.authService.Login(ctx, "alice", "vault-pass-1", now); err == nil {
		t.Fatal("expected error for disabled user")
	}
}

func TestAuthRequired(t *testing.T) {
	srv, st := newTestServer(t)
	ctx := context.Background()

	required, err := srv.authService.AuthRequired(ctx, false)
	if err != nil {
		t.Fatalf("auth required: %v", err)
	}
	if required {
		t.Fatal("open mode with no users must not require auth")
	}

	required, err = srv.authService.AuthRequired(ctx, true)
	if err != nil {
		t.Fatalf("auth required with token: %v", err)
	}
	if !required {
		t.Fatal("a configured service token requires auth")
	}

	hash, err := internalauth.HashPassword("vault-pass-1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := st.CreateUser(ctx, "alice", hash, time.Now().UTC().UnixMilli()); err != nil {
		t.Fatalf("create user: %v", err)
	}
	required, err = srv.authService.AuthRequired(ctx, false)
	if err != nil {
		t.Fatalf("auth required with users: %v", err)
	}
	if !required {
		t.Fatal("provisioned users require auth")
	}
}
