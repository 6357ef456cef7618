package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"matchTracker/models"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(requestIDWithLogging)
	r.Use(trustedRealIP(parseProxies(s.opts.TrustedProxies)))
	r.Use(chimiddleware.Recoverer)
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(corsMiddleware(s.opts.CORSOrigins))
	}
	r.Use(accessLog)
	r.Use(s.metrics.Middleware)
	r.Use(s.sess.Authenticate)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	r.Get("/healthz", s.health)
	r.Handle("/metrics", s.metrics.Handler())
	r.Get("/tables", s.tables)

	// Credentials
	r.Group(func(r chi.Router) {
		if s.opts.LoginRateLimit > 0 {
			r.Use(credentialLimiter(s.opts.LoginRateLimit, s.opts.LoginRateWindow))
		}
		r.Post("/register", s.register)
		r.Post("/login", s.login)
	})
	r.Post("/logout", s.logout)

	// Reads
	r.Post("/getTable", s.getTable)
	r.Post("/getEntry", s.getEntry)
	r.Post("/upcomingTournaments", s.upcomingTournaments)
	r.Post("/getFormat", s.getFormat)
	r.Post("/getPlacementPoints", s.getPlacementPoints)
	r.Post("/getMatchesInTournament", s.getMatchesInTournament)
	r.Post("/getTeamsInMatch", s.getTeamsInMatch)
	r.Post("/getTeamWins", s.getTeamWins)
	r.Post("/byGame", s.byGame)

	// Writes are admin-only; the gate runs before the body is read.
	r.Group(func(r chi.Router) {
		r.Use(s.sess.RequireRole(models.RoleAdmin))
		r.Post("/insertEntry", s.insertEntry)
		r.Put("/updateEntry", s.updateEntry)
		r.Delete("/deleteEntry", s.deleteEntry)
	})

	return r
}
