package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	internalauth "ideavault/internal/auth"
	"ideavault/internal/store"
)

const (
	authTypeSession = "session"
	authTypeService = "service"
	authTypeOpen    = "open"
)

var (
	defaultSessionTTL     = 24 * time.Hour
	errInvalidCredentials = errors.New("invalid credentials")
)

// AuthService encapsulates login sessions backed by the store.
type AuthService struct {
	store      store.AuthStore
	sessionTTL time.Duration
}

type authLoginResult struct {
	User      *store.AuthUser
	Token     string
	ExpiresAt int64
}

func NewAuthService(authStore store.AuthStore) *AuthService {
	if authStore == nil {
		return nil
	}
	return &AuthService{store: authStore, sessionTTL: defaultSessionTTL}
}

// Login verifies credentials and mints a session token. Only the token
// hash is stored; the plaintext token goes back to the caller once.
func (a *AuthService) Login(ctx context.Context, username, password string, now time.Time) (*authLoginResult, error) {
	if a == nil || a.store == nil {
		return nil, fmt.Errorf("auth store is required")
	}

	normalized, err := internalauth.NormalizeUsername(username)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(password) == "" {
		return nil, fmt.Errorf("password is required")
	}

	user, err := a.store.GetUserByUsername(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if user == nil || user.Disabled || !internalauth.VerifyPassword(user.PasswordHash, password) {
		return nil, errInvalidCredentials
	}

	token, err := generateSessionToken()
	if err != nil {
		return nil, err
	}
	nowMillis := now.UTC().UnixMilli()
	expiresAt := now.Add(a.sessionTTL).UTC().UnixMilli()
	if err := a.store.CreateSession(ctx, user.ID, hashSessionToken(token), expiresAt, nowMillis); err != nil {
		return nil, err
	}

	return &authLoginResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// AuthenticateSessionToken resolves a bearer token to its user, or nil.
func (a *AuthService) AuthenticateSessionToken(ctx context.Context, token string, now time.Time) (*store.AuthUser, error) {
	if a == nil || a.store == nil {
		return nil, nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	return a.store.GetUserBySessionTokenHash(ctx, hashSessionToken(token), now.UTC().UnixMilli())
}

// RevokeSessionToken revokes a session. Unknown tokens are a no-op.
func (a *AuthService) RevokeSessionToken(ctx context.Context, token string, now time.Time) error {
	if a == nil || a.store == nil {
		return nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return a.store.RevokeSessionByTokenHash(ctx, hashSessionToken(token), now.UTC().UnixMilli())
}

// AuthRequired reports whether requests must carry credentials: either a
// service token is configured or local users have been provisioned.
func (a *AuthService) AuthRequired(ctx context.Context, serviceTokenConfigured bool) (bool, error) {
	if serviceTokenConfigured {
		return true, nil
	}
	if a == nil || a.store == nil {
		return false, nil
	}
	count, err := a.store.CountEnabledUsers(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func hashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func generateSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
