package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/pratik-mahalle/ytgate/docs"
	"github.com/pratik-mahalle/ytgate/internal/api/handlers"
	"github.com/pratik-mahalle/ytgate/internal/api/middleware"
	"github.com/pratik-mahalle/ytgate/internal/config"
	"github.com/pratik-mahalle/ytgate/internal/pkg/logger"
	"github.com/pratik-mahalle/ytgate/internal/pkg/metrics"
	"github.com/pratik-mahalle/ytgate/internal/pkg/ratelimit"
)

type Handlers struct {
	Health  *handlers.HealthHandler
	Auth    *handlers.AuthHandler
	Video   *handlers.VideoHandler
	Account *handlers.AccountHandler
	Paywall *handlers.PaywallHandler
}

// Deps are the cross-cutting collaborators of the middleware chain
type Deps struct {
	Verifier middleware.TokenVerifier
	// Limiter is nil when rate limiting is disabled
	Limiter ratelimit.Limiter
}

func New(cfg *config.Config, log *logger.Logger, h *Handlers, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery(log))
	r.Use(metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	if deps.Limiter != nil {
		r.Use(middleware.RateLimit(deps.Limiter, log))
	}

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.NotFound)

	// Preflight for every path
	r.Options("/*", handlers.Preflight)

	// Public routes
	r.Group(func(r chi.Router) {
		// Swagger documentation
		r.Get("/swagger/*", httpSwagger.WrapHandler)

		// Health checks
		r.Get("/health", h.Health.Healthz)
		r.Get("/healthz", h.Health.Healthz)
		r.Get("/readyz", h.Health.Readyz)
		r.Method(http.MethodGet, "/metrics", metrics.Handler())

		// Auth
		r.Post("/api/auth/register", h.Auth.Register)
		r.Post("/api/auth/login", h.Auth.Login)

		// Paywall
		r.Get("/api/paywall/plans", h.Paywall.Plans)
	})

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(deps.Verifier))

		r.Get("/api/account", h.Account.Me)
		r.Post("/api/youtube/getVideoInfo", h.Video.GetVideoInfo)
	})

	return r
}
