package repository

import (
	"context"
	"time"

	"matchTracker/internal/db"
	"matchTracker/internal/registry"
	"matchTracker/internal/sqlbuild"
	"matchTracker/models"
)

// EntryRepository runs the generic table operations. Table descriptors come
// from the registry and payloads are expected to be validated already.
type EntryRepository struct {
	store   *db.Store
	builder sqlbuild.Builder
}

func NewEntryRepository(store *db.Store) *EntryRepository {
	return &EntryRepository{store: store, builder: sqlbuild.New(store.Dialect)}
}

// List returns every row of the table.
func (r *EntryRepository) List(ctx context.Context, t registry.TableDescriptor) ([]models.Row, error) {
	return r.query(ctx, "list "+t.Name, r.builder.Select(t))
}

// Get returns the row with the given primary key as a zero- or one-element slice.
func (r *EntryRepository) Get(ctx context.Context, t registry.TableDescriptor, id any) ([]models.Row, error) {
	return r.query(ctx, "get "+t.Name, r.builder.SelectByKey(t, id))
}

func (r *EntryRepository) query(ctx context.Context, op string, st sqlbuild.Statement) ([]models.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var out []models.Row
	err := r.store.WithConn(ctx, func(q db.Querier) error {
		rows, err := q.QueryContext(ctx, st.SQL, st.Args...)
		if err != nil {
			return dbError(op, err)
		}
		defer rows.Close()
		out, err = scanRows(rows)
		if err != nil {
			return dbError(op, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Insert adds a row and returns its primary key.
func (r *EntryRepository) Insert(ctx context.Context, t registry.TableDescriptor, values map[string]any) (int64, error) {
	st, err := r.builder.Insert(t, values)
	if err != nil {
		return 0, err
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var id int64
	err = r.store.WithTx(ctx, func(q db.Querier) error {
		if st.ReturnsKey {
			if err := q.QueryRowContext(ctx, st.SQL, st.Args...).Scan(&id); err != nil {
				return dbError("insert "+t.Name, err)
			}
			return nil
		}
		res, err := q.ExecContext(ctx, st.SQL, st.Args...)
		if err != nil {
			return dbError("insert "+t.Name, err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return dbError("insert "+t.Name, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update sets columns on the row with the given key and returns the number of
// rows changed. A missing row is not an error.
func (r *EntryRepository) Update(ctx context.Context, t registry.TableDescriptor, id any, values map[string]any) (int64, error) {
	st, err := r.builder.Update(t, id, values)
	if err != nil {
		return 0, err
	}
	return r.exec(ctx, "update "+t.Name, st)
}

// Delete removes the row with the given key and returns the number of rows removed.
func (r *EntryRepository) Delete(ctx context.Context, t registry.TableDescriptor, id any) (int64, error) {
	return r.exec(ctx, "delete "+t.Name, r.builder.Delete(t, id))
}

func (r *EntryRepository) exec(ctx context.Context, op string, st sqlbuild.Statement) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var n int64
	err := r.store.WithTx(ctx, func(q db.Querier) error {
		res, err := q.ExecContext(ctx, st.SQL, st.Args...)
		if err != nil {
			return dbError(op, err)
		}
		n, err = res.RowsAffected()
		if err != nil {
			return dbError(op, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return n, nil
}
