package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{Validation("x"), http.StatusBadRequest},
		{NotAllowed("x"), http.StatusBadRequest},
		{Conflict("x"), http.StatusBadRequest},
		{Unauthorized("x"), http.StatusUnauthorized},
		{Forbidden("x"), http.StatusForbidden},
		{RateLimited("x"), http.StatusTooManyRequests},
		{Database(errors.New("boom")), http.StatusInternalServerError},
		{ConnectionFailure(errors.New("down")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := HTTPStatus(c.err); got != c.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", c.err, got, c.want)
		}
	}
}

func TestWrappedKindAndMessage(t *testing.T) {
	cause := errors.New("UNIQUE constraint failed: useraccount.username")
	err := fmt.Errorf("create user: %w", Database(cause))
	if KindOf(err) != KindDatabase {
		t.Fatalf("kind = %v", KindOf(err))
	}
	if Message(err) != "database error" {
		t.Fatalf("driver detail leaked into message: %q", Message(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable through Unwrap")
	}
	if !errors.Is(err, &Error{Kind: KindDatabase}) {
		t.Fatalf("errors.Is by kind failed")
	}
	if Message(errors.New("x")) != "internal error" {
		t.Fatalf("unclassified error should get a generic message")
	}
}
