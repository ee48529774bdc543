package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sighting-intake-service/internal/api/handlers"
	"sighting-intake-service/internal/api/session"
	"sighting-intake-service/internal/config"
	"sighting-intake-service/internal/ports"
)

const msgTooManyRequests = "Too many requests"

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg *config.Config, repo ports.SightingRepository) (http.Handler, error) {
	sessions, err := session.NewManager(
		cfg.Security.SessionCookieName,
		cfg.Security.CookieSecret,
		cfg.Security.SessionTTL,
	)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()

	r.Use(requestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Security.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	}))
	r.Use(securityHeadersMiddleware)
	r.Use(bodyLimitMiddleware(cfg.Server.MaxBodyBytes))
	if cfg.Security.RateLimitRequests > 0 {
		r.Use(httprate.Limit(
			cfg.Security.RateLimitRequests,
			cfg.Security.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByIP),
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				handlers.WriteError(w, r, http.StatusTooManyRequests, msgTooManyRequests)
			}),
		))
	}
	r.Use(sessions.Middleware)

	sightingHandler := &handlers.SightingHandler{Repo: repo}

	r.Get("/health", handlers.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/sightings", func(r chi.Router) {
		r.Post("/", sightingHandler.Submit)
		r.Get("/", sightingHandler.List)
	})

	r.Handle("/*", http.FileServer(http.Dir(cfg.Server.PublicDir)))

	return r, nil
}
