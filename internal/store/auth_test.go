package store

import (
	"context"
	"strings"
	"testing"
)

func TestCreateAndGetUser(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := nowMillis()

	user, err := st.CreateUser(ctx, "alice", "hash-a", now)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if !strings.HasPrefix(user.ID, "us-") {
		t.Fatalf("unexpected user id: %s", user.ID)
	}

	got, err := st.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got == nil || got.ID != user.ID || got.PasswordHash != "hash-a" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Disabled {
		t.Fatal("new user should be enabled")
	}

	missing, err := st.GetUserByUsername(ctx, "nobody")
	if err != nil {
		t.Fatalf("get missing user: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for unknown user, got %+v", missing)
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := nowMillis()

	if _, err := st.CreateUser(ctx, "alice", "hash-a", now); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := st.CreateUser(ctx, "alice", "hash-b", now); err == nil {
		t.Fatal("expected unique violation for duplicate username")
	}
}

func TestCountEnabledUsers(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := nowMillis()

	count, err := st.CountEnabledUsers(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 users, got %d", count)
	}

	if _, err := st.CreateUser(ctx, "alice", "hash-a", now); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := st.CreateUser(ctx, "bob", "hash-b", now); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.SetUserDisabled(ctx, "bob", true, now); err != nil {
		t.Fatalf("disable: %v", err)
	}

	count, err = st.CountEnabledUsers(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 enabled user, got %d", count)
	}
}

func TestSetUserDisabledUnknown(t *testing.T) {
	st := testStore(t)
	if err := st.SetUserDisabled(context.Background(), "nobody", true, nowMillis()); err == nil {
		t.Fatal("expected error for unknown user")
	}
}

func TestSetUserPasswordHash(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := nowMillis()

	if _, err := st.CreateUser(ctx, "alice", "hash-a", now); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := st.SetUserPasswordHash(ctx, "alice", "hash-b", now+1); err != nil {
		t.Fatalf("set password hash: %v", err)
	}

	got, err := st.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PasswordHash != "hash-b" {
		t.Fatalf("password hash not updated: %q", got.PasswordHash)
	}
}

func TestSessionLifecycle(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := nowMillis()

	user, err := st.CreateUser(ctx, "alice", "hash-a", now)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	const tokenHash = "deadbeef"
	if err := st.CreateSession(ctx, user.ID, tokenHash, now+3600_000, now); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := st.GetUserBySessionTokenHash(ctx, tokenHash, now+1)
	if err != nil {
		t.Fatalf("resolve session: %v", err)
	}
	if got == nil || got.Username != "alice" {
		t.Fatalf("expected alice, got %+v", got)
	}

	// Expired sessions resolve to nil.
	expired, err := st.GetUserBySessionTokenHash(ctx, tokenHash, now+3600_001)
	if err != nil {
		t.Fatalf("resolve expired: %v", err)
	}
	if expired != nil {
		t.Fatal("expected nil for expired session")
	}

	if err := st.RevokeSessionByTokenHash(ctx, tokenHash, now+2); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err := st.GetUserBySessionTokenHash(ctx, tokenHash, now+3)
	if err != nil {
		t.Fatalf("resolve revoked: %v", err)
	}
	if revoked != nil {
		t.Fatal("expected nil for revoked session")
	}

	// Revoking again or revoking an unknown hash is a no-op.
	if err := st.RevokeSessionByTokenHash(ctx, tokenHash, now+4); err != nil {
		t.Fatalf("re-revoke: %v", err)
	}
	if err := st.RevokeSessionByTokenHash(ctx, "unknown", now+4); err != nil {
		t.Fatalf("revoke unknown: %v", err)
	}
}

func TestSessionForDisabledUser(t *testing.T) {
	st := testStore(t)
	ctx := context.Background()
	now := nowMillis()

	user, err := st.CreateUser(ctx, "alice", "hash-a", now)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := st.CreateSession(ctx, user.ID, "cafe", now+3600_000, now); err != nil {
		t.Fatalf("create session: %v", err)
	}
	if err := st.SetUserDisabled(ctx, "alice", true, now+1); err != nil {
		t.Fatalf("disable: %v", err)
	}

	got, err := st.GetUserBySessionTokenHash(ctx, "cafe", now+2)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != nil {
		t.Fatal("disabled user's session must not resolve")
	}
}
