package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/hugh/buddy-tracker/internal/database"
	"github.com/hugh/buddy-tracker/internal/repository"
	"github.com/hugh/buddy-tracker/internal/tasks"
	"github.com/hugh/buddy-tracker/pkg/config"
	"github.com/hugh/buddy-tracker/pkg/queue"
	"github.com/hugh/buddy-tracker/pkg/util"
	"github.com/joho/godotenv"
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
	logger := util.NewLogger(cfg.Server.Env, "worker")
	slog.SetDefault(logger)

	logger.Info("starting buddy-tracker worker")

	if err := util.ValidateCronExpr(cfg.Worker.OverdueCron); err != nil {
		logger.Error("invalid overdue sweep schedule", "cron", cfg.Worker.OverdueCron, "error", err)
		os.Exit(1)
	}

	// The worker only writes, so it has no use for a degraded store.
	db, err := database.Connect(&cfg.Database, cfg.Server.Env, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	repos := repository.New(repository.NewStore(db, repository.Options{Logger: logger}))

	// Create Asynq server
	srv := queue.NewServer(&cfg.Redis, cfg.Worker.Concurrency)

	// Create task handler
	handler := tasks.NewHandler(repos.Tasks, logger)

	// Register handlers
	mux := asynq.NewServeMux()
	handler.RegisterHandlers(mux)

	// Schedule the overdue sweep
	scheduler := queue.NewScheduler(&cfg.Redis)
	task, err := tasks.NewMarkOverdueTask(tasks.MarkOverduePayload{})
	if err != nil {
		logger.Error("failed to build overdue task", "error", err)
		os.Exit(1)
	}
	entryID, err := scheduler.Register(cfg.Worker.OverdueCron, task)
	if err != nil {
		logger.Error("failed to register overdue sweep", "error", err)
		os.Exit(1)
	}
	nextRun, err := util.NextCronTime(cfg.Worker.OverdueCron, time.Now())
	if err != nil {
		logger.Error("invalid overdue sweep schedule", "cron", cfg.Worker.OverdueCron, "error", err)
		os.Exit(1)
	}
	logger.Info("overdue sweep scheduled", "entry_id", entryID, "cron", cfg.Worker.OverdueCron, "next_run", nextRun)

	if err := scheduler.Start(); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	if err := srv.Start(mux); err != nil {
		logger.Error("worker error", "error", err)
		scheduler.Shutdown()
		os.Exit(1)
	}

	logger.Info("worker started, waiting for tasks...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down worker...")
	scheduler.Shutdown()
	srv.Shutdown()

	logger.Info("worker stopped")
}
