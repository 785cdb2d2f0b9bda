// Package main is the entry point for the goal progress engine.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wealthloop/goal-engine/internal/config"
	"github.com/wealthloop/goal-engine/internal/database"
	"github.com/wealthloop/goal-engine/internal/gamification"
	"github.com/wealthloop/goal-engine/internal/goal"
	"github.com/wealthloop/goal-engine/internal/jobs"
	"github.com/wealthloop/goal-engine/internal/logger"
	"github.com/wealthloop/goal-engine/internal/repository"
	"github.com/wealthloop/goal-engine/internal/scheduler"
	"github.com/wealthloop/goal-engine/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("goal-engine %s (commit: %s, built: %s)\n", version, commit, date)
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load config")
	}

	logger.SetLevel(cfg.LogLevel)
	logger.InitHashSalt()

	shutdownMetrics, err := telemetry.Init(ctx)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}
	defer func() {
		if err := shutdownMetrics(context.Background()); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to shut down metrics")
		}
	}()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := database.RunMigrations(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if err := database.SeedCategories(ctx, pool); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to seed categories")
	}

	logger.Log.Info().Msg("Database initialized successfully")

	goalRepo := repository.NewGoalRepository(pool)
	aggRepo := repository.NewAggregationRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	dispatcher := repository.NewNotificationRepository(pool)

	rewards := gamification.NewEngine(goalRepo)
	service := goal.NewService(goalRepo, aggRepo, categoryRepo, rewards, dispatcher, cfg.DebtMarkers)

	queue := jobs.NewQueue(cfg.JobQueueSize)
	worker := jobs.NewWorker(queue, service, goalRepo, dispatcher, cfg.JobMaxAttempts, cfg.JobBackoffBase)

	sched, err := scheduler.New(cfg, queue)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	sched.Start()
	defer sched.Stop()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info().Msg("Shutting down...")
		cancel()
	}()

	worker.Run(ctx)
}
