package validate

import (
	"fmt"
	"math"
	"strings"
	"time"

	"matchTracker/internal/apperr"
	"matchTracker/internal/registry"
)

// TimestampLayout is the wall-clock format accepted for current_time and stored
// for schedule columns.
const TimestampLayout = "2006-01-02 15:04:05"

// number matches json.Number from both encoding/json and goccy/go-json.
type number interface {
	Int64() (int64, error)
	Float64() (float64, error)
	String() string
}

// Scalar normalizes a decoded JSON value for binding. Integral numbers become
// int64, other numbers float64; strings, booleans and null pass through.
// Arrays and objects are rejected.
func Scalar(field string, v any) (any, error) {
	switch x := v.(type) {
	case nil, string, bool, int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		if x == math.Trunc(x) && math.Abs(x) < 1<<53 {
			return int64(x), nil
		}
		return x, nil
	case number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, apperr.Validation(fmt.Sprintf("%s must be a valid number", field))
		}
		return f, nil
	}
	return nil, apperr.Validation(fmt.Sprintf("%s must be a scalar value", field))
}

// ID normalizes a key value: required, and a string or number.
func ID(field string, v any) (any, error) {
	if v == nil {
		return nil, apperr.Validation(field + " is required")
	}
	out, err := Scalar(field, v)
	if err != nil {
		return nil, err
	}
	switch x := out.(type) {
	case bool:
		return nil, apperr.Validation(field + " must be a string or number")
	case string:
		if strings.TrimSpace(x) == "" {
			return nil, apperr.Validation(field + " is required")
		}
	}
	return out, nil
}

// InsertPayload checks every key against the table's columns and normalizes values.
func InsertPayload(td registry.TableDescriptor, entry map[string]any) (map[string]any, error) {
	return payload(td, entry, "entry", true)
}

// UpdatePayload is InsertPayload without the primary key.
func UpdatePayload(td registry.TableDescriptor, cols map[string]any) (map[string]any, error) {
	return payload(td, cols, "update_colms", false)
}

func payload(td registry.TableDescriptor, in map[string]any, field string, allowKey bool) (map[string]any, error) {
	if len(in) == 0 {
		return nil, apperr.Validation(field + " must not be empty")
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		col, ok := td.Column(k)
		if !ok {
			return nil, apperr.NotAllowed("Invalid column name: " + k)
		}
		if col == td.PrimaryKey && !allowKey {
			return nil, apperr.NotAllowed("primary key cannot be updated")
		}
		if _, dup := out[col]; dup {
			return nil, apperr.Validation("duplicate column: " + col)
		}
		val, err := Scalar(field+"."+k, v)
		if err != nil {
			return nil, err
		}
		out[col] = val
	}
	return out, nil
}

// Timestamp parses s in TimestampLayout and returns it in canonical form.
func Timestamp(field, s string) (string, error) {
	t, err := time.Parse(TimestampLayout, strings.TrimSpace(s))
	if err != nil {
		return "", apperr.Validation(field + " must be formatted as YYYY-MM-DD HH:MM:SS")
	}
	return t.Format(TimestampLayout), nil
}
