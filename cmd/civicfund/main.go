// Command civicfund is the administrative entry point for the community
// funding platform: it runs schema migrations, seeds the badge catalog and
// can backfill badge awards over the whole dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"civicfund/internal/cache"
	"civicfund/internal/config"
	"civicfund/internal/database"
	"civicfund/internal/events"
	"civicfund/internal/repositories"
	"civicfund/internal/services"
)

func main() {
	var (
		migrate     = flag.Bool("migrate", true, "run schema migrations on startup")
		seed        = flag.Bool("seed", true, "seed the badge catalog")
		recalculate = flag.Bool("recalculate", false, "re-evaluate badges for every user and project")
		timeout     = flag.Duration("timeout", 30*time.Minute, "overall run deadline")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger, *migrate, *seed, *recalculate, *timeout); err != nil {
		logger.Fatal("run failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger, migrate, seed, recalculate bool, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("starting civicfund admin",
		zap.String("environment", cfg.Environment),
		zap.Bool("migrate", migrate),
		zap.Bool("seed", seed),
		zap.Bool("recalculate", recalculate))

	db, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if migrate {
		if err := db.Migrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Info("migrations applied")
	}

	cacheStore, err := cache.New(&cache.Config{
		Provider:        cfg.Cache.Provider,
		TTL:             cfg.Cache.DefaultTTL,
		MaxKeys:         cfg.Cache.MaxKeys,
		CleanupInterval: cfg.Cache.CleanupInterval,
		RedisURL:        cfg.Cache.RedisURL,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}
	defer cacheStore.Close()

	eventBus := events.NewInMemoryEventBus(&events.Config{
		BufferSize:  cfg.Badges.EventBufferSize,
		WorkerCount: cfg.Badges.EventWorkers,
	}, logger)
	if err := eventBus.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		if err := eventBus.Stop(stopCtx); err != nil {
			logger.Warn("event bus shutdown incomplete", zap.Error(err))
		}
	}()

	repos, err := repositories.NewCollection(db, logger)
	if err != nil {
		return fmt.Errorf("failed to create repositories: %w", err)
	}

	svcs, err := services.NewCollection(services.Dependencies{
		Repos:    repos,
		Cache:    cacheStore,
		EventBus: eventBus,
		Logger:   logger,
		Badges:   cfg.Badges,
	})
	if err != nil {
		return fmt.Errorf("failed to create services: %w", err)
	}

	if seed {
		if err := svcs.Badge.SeedCatalog(ctx); err != nil {
			return fmt.Errorf("failed to seed badge catalog: %w", err)
		}
	}

	if recalculate {
		result, err := svcs.Badge.RecalculateAll(ctx)
		if err != nil {
			return fmt.Errorf("recalculation failed: %w", err)
		}
		logger.Info("recalculation complete",
			zap.Int("users_evaluated", result.UsersEvaluated),
			zap.Int("projects_evaluated", result.ProjectsEvaluated),
			zap.Int("user_badges_awarded", result.UserBadgesAwarded),
			zap.Int("project_badges_awarded", result.ProjectBadgesAwarded),
			zap.Int("subject_failures", result.SubjectFailures))
		if result.SubjectFailures > 0 {
			return fmt.Errorf("recalculation finished with %d subject failures", result.SubjectFailures)
		}
	}

	logger.Info("done")
	return nil
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var zapCfg zap.Config
	switch cfg.Format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
