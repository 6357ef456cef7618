package db

import (
	"context"
	"database/sql"
	"fmt"

	"matchTracker/internal/apperr"
)

// Querier is the subset of *sql.Conn and *sql.Tx used by repositories.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithConn acquires one connection for fn and always releases it.
func (s *Store) WithConn(ctx context.Context, fn func(q Querier) error) error {
	conn, err := s.DB.Conn(ctx)
	if err != nil {
		return apperr.ConnectionFailure(err)
	}
	defer conn.Close()
	return fn(conn)
}

// WithTx runs fn in a transaction on a dedicated connection. The transaction
// commits when fn returns nil and rolls back on error or panic; the connection
// is released on every path.
func (s *Store) WithTx(ctx context.Context, fn func(q Querier) error) (err error) {
	conn, err := s.DB.Conn(ctx)
	if err != nil {
		return apperr.ConnectionFailure(err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return apperr.ConnectionFailure(err)
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tx.Rollback()
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return apperr.Database(fmt.Errorf("commit: %w", err))
	}
	committed = true
	return nil
}
