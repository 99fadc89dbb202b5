package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/foodiebot/backend/config"
	"github.com/foodiebot/backend/internal/domain"
	"github.com/foodiebot/backend/internal/infrastructure/cache"
	"github.com/foodiebot/backend/internal/infrastructure/sqlite"
	"github.com/foodiebot/backend/internal/observability"
)

// app holds the process-wide dependencies shared by subcommands
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *sql.DB
	cache  closableCache
}

type closableCache interface {
	domain.CacheRepository
	Close() error
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	db, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	c, err := newCache(ctx, cfg.Cache)
	if err != nil {
		_ = db.Close()
		_ = logger.Sync()
		return nil, err
	}

	logger.Info("dependencies ready",
		zap.String("version", version),
		zap.String("environment", cfg.Server.Environment),
		zap.String("database", cfg.Database.Path),
		zap.String("cache", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	return &app{cfg: cfg, logger: logger, db: db, cache: c}, nil
}

func newCache(ctx context.Context, cfg config.CacheConfig) (closableCache, error) {
	switch cfg.Type {
	case "redis":
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return cache.NewMemoryCache(), nil
	}
}

func (a *app) Close() {
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("close cache", zap.Error(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
