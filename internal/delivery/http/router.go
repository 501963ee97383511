package http

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mmuslimabdulj/goat-call/internal/config"
	"github.com/mmuslimabdulj/goat-call/internal/middleware"
)

// NewRouter wires routes and middleware. The returned func stops the rate limiter janitors.
func NewRouter(h *Handler, cfg *config.Config, logger zerolog.Logger) (*chi.Mux, func()) {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)
	r.Use(middleware.SecurityHeaders)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	wsLimiter := middleware.NewIPRateLimiter(cfg.RateLimitWS, cfg.RateLimitWSBurst)
	apiLimiter := middleware.NewIPRateLimiter(cfg.RateLimitWS*2, cfg.RateLimitWSBurst*2)

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", h.HandleHealth)

	// WebSocket route with rate limiting
	r.With(middleware.RateLimitMiddleware(wsLimiter, "ws", logger)).Get("/ws", h.HandleWebSocket)

	// Read-only inspection API
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(apiLimiter, "api", logger))
		r.Get("/rooms", h.HandleListRooms)
		r.Get("/rooms/{room}/members", h.HandleListMembers)
	})

	return r, func() {
		wsLimiter.Stop()
		apiLimiter.Stop()
	}
}
