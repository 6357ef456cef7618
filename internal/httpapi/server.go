// Package httpapi serves the JSON API over chi.
package httpapi

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"net/http"
	"time"

	"matchTracker/internal/auth"
	"matchTracker/internal/config"
	"matchTracker/internal/logging"
	"matchTracker/repository"
)

// Pinger reports database reachability for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators a Server needs.
type Deps struct {
	Entries     repository.EntryRepositoryI
	Tournaments repository.TournamentRepositoryI
	Auth        *auth.Service
	Tokens      *auth.TokenCodec
	DB          Pinger
	Pool        *sql.DB // optional, exported as pool metrics
}

// Options tune the HTTP surface.
type Options struct {
	CORSOrigins     []string
	TrustedProxies  []string // peers whose X-Forwarded-For is honoured
	LoginRateLimit  int      // per IP per window on /login and /register; 0 disables
	LoginRateWindow time.Duration
	CookieSecure    bool
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

// OptionsFromConfig copies the HTTP-related settings out of cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		TrustedProxies:  cfg.HTTP.TrustedProxies,
		LoginRateLimit:  cfg.HTTP.LoginRateLimit,
		LoginRateWindow: cfg.HTTP.LoginRateWindow,
		CookieSecure:    cfg.Session.CookieSecure,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
	}
}

// Server bundles dependencies and implements the HTTP handlers.
type Server struct {
	deps    Deps
	opts    Options
	sess    *auth.Middleware
	metrics *Metrics
	handler http.Handler
}

// NewServer wires the router. deps.Auth, deps.Tokens, deps.Entries and
// deps.Tournaments are required.
func NewServer(deps Deps, opts Options) *Server {
	if deps.Auth == nil || deps.Tokens == nil || deps.Entries == nil || deps.Tournaments == nil {
		panic("httpapi: missing dependencies")
	}
	s := &Server{deps: deps, opts: opts, metrics: NewMetrics(deps.Pool)}
	s.sess = auth.NewMiddleware(deps.Auth, deps.Tokens, writeError)
	s.handler = s.routes()
	return s
}

// ServeHTTP lets a Server be used directly as an http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Start listens on addr and serves in the background. The returned function
// shuts the server down gracefully.
func Start(addr string, s *Server) (func(context.Context) error, error) {
	if addr == "" {
		addr = ":5000"
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}
	go func() {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("http server stopped")
		}
	}()
	return srv.Shutdown, nil
}
