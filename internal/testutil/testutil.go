package testutil

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"matchTracker/internal/db"
)

// OpenInMemoryDB opens an in-memory SQLite database and applies migrations.
// The store is closed via t.Cleanup.
func OpenInMemoryDB(t *testing.T, name string) *db.Store {
	t.Helper()
	// A single pooled connection keeps the in-memory database alive for the whole test.
	s, err := db.Open("sqlite3", "file:"+name+"?mode=memory&cache=shared", db.Options{MaxOpenConns: 1})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// SeedAccount inserts a user account with a bcrypt hash of password and returns its id.
func SeedAccount(t *testing.T, s *db.Store, username, password, role string) int64 {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	var id int64
	q := s.Dialect.Rebind(`INSERT INTO useraccount(username, password_hash, role) VALUES(?, ?, ?) RETURNING user_id`)
	if err := s.DB.QueryRowContext(context.Background(), q, username, string(hash), role).Scan(&id); err != nil {
		t.Fatalf("seed account %s: %v", username, err)
	}
	return id
}

// Exec runs a raw statement against the test database, failing the test on error.
func Exec(t *testing.T, s *db.Store, query string, args ...any) {
	t.Helper()
	if _, err := s.DB.ExecContext(context.Background(), s.Dialect.Rebind(query), args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}
