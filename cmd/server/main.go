package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/hugh/buddy-tracker/internal/api"
	"github.com/hugh/buddy-tracker/internal/api/handlers"
	"github.com/hugh/buddy-tracker/internal/auth"
	"github.com/hugh/buddy-tracker/internal/database"
	"github.com/hugh/buddy-tracker/internal/repository"
	"github.com/hugh/buddy-tracker/pkg/config"
	"github.com/hugh/buddy-tracker/pkg/util"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := util.NewLogger(cfg.Server.Env, "server")
	slog.SetDefault(logger)

	logger.Info("starting buddy-tracker server",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Addr(),
	)

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Env,
		}); err != nil {
			logger.Warn("failed to initialise sentry", "error", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	// Connect to database. Without one the server still starts; reads degrade
	// to empty results when allowed and writes fail.
	db, err := database.Connect(&cfg.Database, cfg.Server.Env, logger)
	switch {
	case errors.Is(err, database.ErrDisabled):
		logger.Warn("no database configured")
		db = nil
	case err != nil:
		logger.Error("failed to connect to database", "error", err)
		db = nil
	default:
		if err := database.Migrate(db, cfg.Database.Driver, logger); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}
	if db == nil && !cfg.Database.AllowDegradedReads {
		logger.Error("database unavailable and degraded reads are disabled")
		os.Exit(1)
	}

	store := repository.NewStore(db, repository.Options{
		AllowDegradedReads: cfg.Database.AllowDegradedReads,
		Logger:             logger,
	})

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Warn("failed to connect to Redis, session revocation disabled", "error", err)
		redisClient.Close()
		redisClient = nil
	}

	// Initialize services
	jwtService := auth.NewJWTService(cfg.Session.Secret, cfg.Session.Expiry())
	opts := auth.ServiceOptions{
		OwnerExternalID: cfg.OAuth.OwnerExternalID,
		Logger:          logger,
	}
	if redisClient != nil {
		opts.Revocations = auth.NewRedisRevocationList(redisClient)
	}
	authService := auth.NewService(repository.New(store).Users, jwtService, opts)

	var provider auth.IdentityProvider
	if cfg.OAuth.Enabled() {
		provider = auth.NewOAuthProvider(&cfg.OAuth)
	} else {
		logger.Warn("OAuth is not configured, sign-in is disabled")
	}

	// Create router
	router := api.NewRouter(api.RouterConfig{
		Store:       store,
		Redis:       redisClient,
		Logger:      logger,
		AuthService: authService,
		OAuth:       provider,
		Cookie: handlers.CookieConfig{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.Expiry(),
		},
		CSRFSecret:     cfg.Session.Secret,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateLimitReqs:  cfg.RateLimit.Requests,
		RateLimitSecs:  cfg.RateLimit.WindowSeconds,
	})
	defer router.Close()

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Server.Addr())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	closeDB(db, logger)
	logger.Info("server stopped")
}

func closeDB(db *gorm.DB, logger *slog.Logger) {
	if err := database.Close(db); err != nil {
		logger.Error("closing database", "error", err)
	}
}
