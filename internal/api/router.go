package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hugh/buddy-tracker/internal/api/handlers"
	"github.com/hugh/buddy-tracker/internal/api/middleware"
	"github.com/hugh/buddy-tracker/internal/api/rpc"
	"github.com/hugh/buddy-tracker/internal/auth"
	"github.com/hugh/buddy-tracker/internal/policy"
	"github.com/hugh/buddy-tracker/internal/repository"
	"github.com/redis/go-redis/v9"
)

type Router struct {
	chi.Router
	limiter *middleware.RateLimiter
}

type RouterConfig struct {
	Store       *repository.Store
	Redis       *redis.Client
	Logger      *slog.Logger
	AuthService *auth.Service
	// OAuth is nil when no identity provider is configured; the login routes
	// are not mounted then.
	OAuth          auth.IdentityProvider
	Cookie         handlers.CookieConfig
	CSRFSecret     string
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	router := &Router{Router: r}

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(logger))

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.CSRFHeaderName},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", middleware.CSRFHeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if cfg.AuthService != nil {
		r.Use(middleware.Session(cfg.AuthService, cfg.Cookie.Name))
	}
	r.Use(middleware.Logging(logger))

	repos := repository.New(cfg.Store)
	dispatcher := rpc.NewDispatcher(repos, policy.New(), logger)

	var sessions handlers.SessionService
	if cfg.AuthService != nil {
		sessions = cfg.AuthService
	}

	healthHandler := handlers.NewHealthHandler(cfg.Store, cfg.Redis)
	rpcHandler := handlers.NewRPCHandler(dispatcher, sessions, cfg.Cookie, logger)

	// Health endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimitReqs > 0 {
			router.limiter = middleware.NewRateLimiter(cfg.RateLimitReqs, cfg.RateLimitSecs)
			r.Use(router.limiter.Handler)
		}
		r.Use(middleware.CSRF(middleware.CSRFConfig{
			Secret:         cfg.CSRFSecret,
			SessionCookie:  cfg.Cookie.Name,
			AllowedOrigins: allowedOrigins,
		}))

		r.Get("/rpc/{operation}", rpcHandler.Call)
		r.Post("/rpc/{operation}", rpcHandler.Call)

		if cfg.OAuth != nil && cfg.AuthService != nil {
			oauthHandler := handlers.NewOAuthHandler(cfg.OAuth, cfg.AuthService, cfg.Cookie, logger)
			r.Get("/oauth/login", oauthHandler.Login)
			r.Get("/oauth/callback", oauthHandler.Callback)
		}
	})

	return router
}

// Close stops background work owned by the router.
func (r *Router) Close() {
	if r.limiter != nil {
		r.limiter.Stop()
	}
}
