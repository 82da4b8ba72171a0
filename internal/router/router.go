package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quiz-backend/internal/config"
	"quiz-backend/internal/graph"
	"quiz-backend/internal/handler"
	"quiz-backend/internal/metrics"
	"quiz-backend/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Health  *handler.HealthHandler
	GraphQL http.Handler
}

func New(
	cfg *config.Config,
	authMiddleware *middleware.AuthMiddleware,
	m *metrics.Metrics,
	h Handlers,
) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(m.Instrument)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Check)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Group(func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		// Login, signup and refresh never read the Authorization header, so a
		// stale access token left on the client cannot block a refresh.
		api.Route("/api/v1/auth", func(auth chi.Router) {
			auth.Post("/login", h.Auth.Login)
			auth.Post("/signup", h.Auth.Signup)
			auth.Post("/refresh", h.Auth.Refresh)
			auth.With(authMiddleware.Authenticate, authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.With(authMiddleware.Authenticate).Method(http.MethodGet, "/graphql", h.GraphQL)
		api.With(authMiddleware.Authenticate).Method(http.MethodPost, "/graphql", h.GraphQL)
	})

	if cfg.GraphiQLEnabled {
		r.Method(http.MethodGet, "/", graph.GraphiQL("/graphql"))
	}

	return r
}
