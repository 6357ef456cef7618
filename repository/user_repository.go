package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"matchTracker/internal/apperr"
	"matchTracker/internal/db"
	"matchTracker/models"
)

type UserRepository struct {
	store *db.Store
}

func NewUserRepository(store *db.Store) *UserRepository {
	return &UserRepository{store: store}
}

var errUsernameTaken = apperr.Conflict("username already exists")

// Create inserts a new account with an already-hashed password.
// Returns Conflict if the username is taken.
func (r *UserRepository) Create(ctx context.Context, username, passwordHash string, role models.Role) (*models.UserAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	u := &models.UserAccount{Username: username, PasswordHash: passwordHash, Role: role}
	err := r.store.WithTx(ctx, func(q db.Querier) error {
		var exists int
		err := q.QueryRowContext(ctx, r.store.Dialect.Rebind(`SELECT 1 FROM useraccount WHERE username = ?`), username).Scan(&exists)
		if err == nil {
			return errUsernameTaken
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return dbError("lookup username", err)
		}
		err = q.QueryRowContext(ctx,
			r.store.Dialect.Rebind(`INSERT INTO useraccount (username, password_hash, role) VALUES (?, ?, ?) RETURNING user_id`),
			username, passwordHash, string(role)).Scan(&u.ID)
		if db.IsUniqueViolation(err) {
			return errUsernameTaken
		}
		if err != nil {
			return dbError("insert account", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.UserAccount, error) {
	return r.getOne(ctx, `SELECT user_id, username, password_hash, role FROM useraccount WHERE user_id = ?`, id)
}

// GetByUsername returns the account including its password hash, or nil if absent.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.UserAccount, error) {
	return r.getOne(ctx, `SELECT user_id, username, password_hash, role FROM useraccount WHERE username = ?`, username)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*models.UserAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var u models.UserAccount
	err := r.store.WithConn(ctx, func(q db.Querier) error {
		return q.QueryRowContext(ctx, r.store.Dialect.Rebind(query), arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, dbError("get account", err)
	}
	return &u, nil
}

// UpdateRoleByUsername sets the role for the given username and reports
// whether an account was changed. Intended for administrative flows and tests.
func (r *UserRepository) UpdateRoleByUsername(ctx context.Context, username string, role models.Role) (bool, error) {
	if !role.Valid() {
		return false, apperr.Validation("invalid role: " + string(role))
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var n int64
	err := r.store.WithTx(ctx, func(q db.Querier) error {
		res, err := q.ExecContext(ctx, r.store.Dialect.Rebind(`UPDATE useraccount SET role = ? WHERE username = ?`), string(role), username)
		if err != nil {
			return dbError("update role", err)
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
