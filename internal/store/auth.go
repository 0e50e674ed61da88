package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
)

// AuthUser is a locally provisioned account. The username doubles as the
// opaque owner identity on ideas submitted through a session.
type AuthUser struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Disabled     bool   `json:"disabled"`
	CreatedAt    int64  `json:"created_at"`
	UpdatedAt    int64  `json:"updated_at"`
}

// CountEnabledUsers returns the number of non-disabled provisioned users.
func (s *Store) CountEnabledUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE disabled = 0").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CreateUser creates one local user.
func (s *Store) CreateUser(ctx context.Context, username, passwordHash string, now int64) (*AuthUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	userID, err := generateAuthID("us")
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, disabled, created_at, updated_at)
		VALUES (?, ?, ?, 0, ?, ?)
	`, userID, username, passwordHash, now, now)
	if err != nil {
		return nil, err
	}

	return &AuthUser{
		ID:           userID,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// GetUserByUsername returns a provisioned user by username, or nil.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*AuthUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, disabled, created_at, updated_at
		FROM users
		WHERE username = ?
		LIMIT 1
	`, username)
	return scanAuthUser(row)
}

// ListUsers returns all provisioned users sorted by username.
func (s *Store) ListUsers(ctx context.Context) ([]AuthUser, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, password_hash, disabled, created_at, updated_at
		FROM users
		ORDER BY username ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]AuthUser, 0)
	for rows.Next() {
		user, err := scanAuthUser(rows)
		if err != nil {
			return nil, err
		}
		if user == nil {
			continue
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

// SetUserDisabled updates one user's disabled state by username.
func (s *Store) SetUserDisabled(ctx context.Context, username string, disabled bool, now int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET disabled = ?, updated_at = ? WHERE username = ?
	`, boolToInt(disabled), now, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user not found: %s", username)
	}
	return nil
}

// SetUserPasswordHash replaces one user's password hash by username.
func (s *Store) SetUserPasswordHash(ctx context.Context, username, passwordHash string, now int64) error {
	if strings.TrimSpace(passwordHash) == "" {
		return fmt.Errorf("password hash is required")
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, updated_at = ? WHERE username = ?
	`, passwordHash, now, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("user not found: %s", username)
	}
	return nil
}

// CreateSession stores a hashed session token for a user.
func (s *Store) CreateSession(ctx context.Context, userID, tokenHash string, expiresAt, now int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token_hash, user_id, expires_at, created_at)
		VALUES (?, ?, ?, ?)
	`, tokenHash, userID, expiresAt, now)
	return err
}

// GetUserBySessionTokenHash resolves a live session to its user. Expired,
// revoked, or unknown sessions return nil.
func (s *Store) GetUserBySessionTokenHash(ctx context.Context, tokenHash string, now int64) (*AuthUser, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.password_hash, u.disabled, u.created_at, u.updated_at
		FROM sessions se
		JOIN users u ON u.id = se.user_id
		WHERE se.token_hash = ? AND se.revoked_at IS NULL AND se.expires_at > ? AND u.disabled = 0
		LIMIT 1
	`, tokenHash, now)
	return scanAuthUser(row)
}

// RevokeSessionByTokenHash marks a session revoked. Unknown hashes are a
// no-op so logout is safe to repeat.
func (s *Store) RevokeSessionByTokenHash(ctx context.Context, tokenHash string, now int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE sessions SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL
	`, now, tokenHash)
	return err
}

func scanAuthUser(scanner interface {
	Scan(dest ...any) error
}) (*AuthUser, error) {
	var user AuthUser
	var disabled int

	if err := scanner.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&disabled,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	user.Disabled = disabled != 0
	return &user, nil
}

func generateAuthID(prefix string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", prefix, hex.EncodeToString(b)), nil
}
