package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"matchTracker/models"
)

var (
	// ErrSessionNotFound is returned when a session is not in the store.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a stored session is past its expiry.
	ErrSessionExpired = errors.New("session expired")
)

// Session is the server-side state behind an opaque session token.
type Session struct {
	ID        string      `json:"id"`
	UserID    int64       `json:"user_id"`
	Username  string      `json:"username"`
	Role      models.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// IsExpired reports whether the session has expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// NewSession creates a session for the account valid for ttl from now.
func NewSession(acct *models.UserAccount, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        generateSessionID(),
		UserID:    acct.ID,
		Username:  acct.Username,
		Role:      acct.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

func generateSessionID() string {
	b := make([]byte, 32)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// SessionStore persists sessions. Implementations must be safe for concurrent use.
type SessionStore interface {
	// Create stores a new session.
	Create(ctx context.Context, s *Session) error

	// Get returns ErrSessionNotFound for unknown ids and ErrSessionExpired for
	// expired sessions, which are removed as a side effect.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// DeleteByUserID removes every session of a user and returns how many there were.
	DeleteByUserID(ctx context.Context, userID int64) (int, error)
}
