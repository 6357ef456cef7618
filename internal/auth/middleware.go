package auth

import (
	"net/http"

	"matchTracker/internal/logging"
	"matchTracker/models"
)

// ErrorWriter renders an error response.
type ErrorWriter func(w http.ResponseWriter, r *http.Request, err error)

// Middleware attaches sessions to requests and gates routes by role.
type Middleware struct {
	svc     *Service
	codec   *TokenCodec
	onError ErrorWriter
}

// NewMiddleware returns session middleware. onError renders authorization failures.
func NewMiddleware(svc *Service, codec *TokenCodec, onError ErrorWriter) *Middleware {
	if onError == nil {
		onError = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusForbidden)
		}
	}
	return &Middleware{svc: svc, codec: codec, onError: onError}
}

// Authenticate attaches the session named by the request token, if it is live.
// Requests without a valid token continue anonymously.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := m.codec.SessionID(r)
		if id == "" {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := m.svc.Resolve(r.Context(), id)
		if err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("session lookup failed")
		}
		if sess == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

// RequireRole rejects requests whose session does not hold role.
func (m *Middleware) RequireRole(role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, _ := FromContext(r.Context())
			if err := Authorize(sess, role); err != nil {
				m.onError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
