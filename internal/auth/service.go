package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"matchTracker/internal/apperr"
	"matchTracker/models"
)

// Accounts is the account storage the service needs.
type Accounts interface {
	Create(ctx context.Context, username, passwordHash string, role models.Role) (*models.UserAccount, error)
	GetByUsername(ctx context.Context, username string) (*models.UserAccount, error)
	GetByID(ctx context.Context, id int64) (*models.UserAccount, error)
}

const (
	msgInvalidCredentials = "invalid credentials"
	msgAdminRequired      = "admin access required"
)

// Service registers accounts, opens and closes sessions, and checks roles.
type Service struct {
	accounts   Accounts
	sessions   SessionStore
	ttl        time.Duration
	bcryptCost int
	dummyHash  []byte
	now        func() time.Time
}

// NewService returns a Service issuing sessions valid for ttl.
func NewService(accounts Accounts, sessions SessionStore, ttl time.Duration, bcryptCost int) *Service {
	return &Service{
		accounts:   accounts,
		sessions:   sessions,
		ttl:        ttl,
		bcryptCost: bcryptCost,
		dummyHash:  newDummyHash(bcryptCost),
		now:        time.Now,
	}
}

// Sessions returns the backing session store.
func (s *Service) Sessions() SessionStore { return s.sessions }

// Register creates an account with role user.
func (s *Service) Register(ctx context.Context, username, password string) (*models.UserAccount, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, apperr.Validation("username and password are required")
	}
	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	return s.accounts.Create(ctx, username, hash, models.RoleUser)
}

// Login verifies credentials and opens a session. Unknown usernames and wrong
// passwords fail with the same Unauthorized error.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	acct, err := s.accounts.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if acct == nil {
		CheckPassword(string(s.dummyHash), password)
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	if !CheckPassword(acct.PasswordHash, password) {
		return nil, apperr.Unauthorized(msgInvalidCredentials)
	}
	sess := NewSession(acct, s.now(), s.ttl)
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Logout ends a session. Unknown or empty ids are ignored.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// LogoutAll ends every session of the user.
func (s *Service) LogoutAll(ctx context.Context, userID int64) (int, error) {
	return s.sessions.DeleteByUserID(ctx, userID)
}

// Resolve returns the live session for id, or nil if there is none. The
// account is re-read so a role change applies to open sessions; a session
// whose account no longer exists is deleted.
func (s *Service) Resolve(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	sess, err := s.sessions.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionExpired) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	acct, err := s.accounts.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		if err := s.sessions.Delete(ctx, sess.ID); err != nil {
			return nil, err
		}
		return nil, nil
	}
	sess.Role = acct.Role
	return sess, nil
}

// Authorize fails with Forbidden unless sess holds the required role.
// A nil session is always denied.
func Authorize(sess *Session, role models.Role) error {
	if sess == nil || sess.Role != role {
		if role == models.RoleAdmin {
			return apperr.Forbidden(msgAdminRequired)
		}
		return apperr.Forbidden(string(role) + " access required")
	}
	return nil
}
