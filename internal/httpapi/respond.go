package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"matchTracker/internal/apperr"
	"matchTracker/internal/logging"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("encode response")
	}
}

// writeError maps err to its status and writes {"error": msg}. Internal
// failures are logged with their cause; clients only see the generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	l := logging.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		l.Error().Err(err).Str("kind", apperr.KindOf(err).String()).Str("path", r.URL.Path).Msg("request failed")
	} else {
		l.Debug().Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request rejected")
	}
	writeJSON(w, status, errorResponse{Error: apperr.Message(err)})
}

// decodeJSON reads a single JSON object from the body into dst. Numbers are
// kept as json.Number so integral values survive intact.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body must be a JSON object")
		case errors.As(err, &typeErr) && typeErr.Field != "":
			return apperr.Validation(fmt.Sprintf("%s has the wrong type", typeErr.Field))
		case errors.As(err, &maxErr):
			return apperr.Validation("request body too large")
		default:
			return apperr.Validation("malformed JSON body")
		}
	}
	return nil
}
