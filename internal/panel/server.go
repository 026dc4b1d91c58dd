// Package panel is the server-rendered web adapter for the login and
// dashboard controllers.
package panel

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/edvin/crmpanel/internal/dashboard"
	"github.com/edvin/crmpanel/internal/login"
	mw "github.com/edvin/crmpanel/internal/panel/middleware"
	"github.com/edvin/crmpanel/internal/session"
)

// API is what the panel needs from the CRM client.
type API interface {
	login.Authenticator
	dashboard.API
}

type Options struct {
	// ServeMetrics mounts /metrics on the panel router. Leave it off when a
	// separate metrics listener is running.
	ServeMetrics bool
}

type Server struct {
	router    chi.Router
	logger    zerolog.Logger
	store     session.Store
	login     *login.Controller
	dashboard *dashboard.Controller
	pages     *renderer
	opts      Options
}

func NewServer(logger zerolog.Logger, api API, store session.Store, opts Options) (*Server, error) {
	pages, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger,
		store:     store,
		login:     login.NewController(api, store),
		dashboard: dashboard.NewController(api, store),
		pages:     pages,
		opts:      opts,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(chimw.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	if s.opts.ServeMetrics {
		s.router.Handle("/metrics", promhttp.Handler())
	}
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Group(func(r chi.Router) {
		r.Use(session.Middleware)

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		})

		r.Get("/login", s.handleLoginPage)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", s.handleDashboard)

			r.Get("/customers/new", s.handleNewCustomer)
			r.Get("/customers/dismiss", s.handleDismissCustomer)
			r.Get("/customers/{id}/edit", s.handleEditCustomer)
			r.Get("/customers/{id}/contact", s.handleAddContact)
			r.Post("/customers", s.handleSubmitCustomer)
			r.Post("/customers/{id}/delete", s.handleDeleteCustomer)

			r.Post("/contacts", s.handleSubmitContact)
		})
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// signedInAs returns the email claim of the stored token, if any.
func (s *Server) signedInAs(ctx context.Context) string {
	token, err := s.store.Token(ctx)
	if err != nil {
		return ""
	}
	email, _ := session.Email(token)
	return email
}
