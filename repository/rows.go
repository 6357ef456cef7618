package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"matchTracker/internal/apperr"
	"matchTracker/models"
)

// timestampLayout is how time-typed columns are rendered in result rows.
const timestampLayout = "2006-01-02 15:04:05"

// scanRows reads every row into a column-keyed map.
func scanRows(rows *sql.Rows) ([]models.Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := []models.Row{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := make(models.Row, len(cols))
		for i, c := range cols {
			row[c] = normalize(vals[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case []byte:
		return string(x)
	case time.Time:
		return x.Format(timestampLayout)
	}
	return v
}

// dbError classifies a driver failure. Errors that already carry a kind pass through.
func dbError(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Database(fmt.Errorf("%s: %w", op, err))
}
