package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"popupkit/jokebox/internal/config"
	"popupkit/jokebox/internal/model"
	"popupkit/jokebox/internal/repository"
	"popupkit/jokebox/internal/service"
)

// app holds the wired components shared by every subcommand.
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	store        repository.KVStore
	jokeProvider service.JokeProvider
	notes        service.NotesService
	tabs         service.TabService
	autosaver    *service.Autosaver

	closers []func() error
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(level)
	}
	return zc.Build()
}

func newApp(configPath string) (*app, error) {
	// 1. Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// 2. Initialize logger
	logger, err := newLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	// 3. Initialize key-value store
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, redisClient.Close)
		a.store = repository.NewRedisKVStore(redisClient, cfg.Database.Redis.KeyPrefix)
		logger.Info("using Redis store", zap.String("key_prefix", cfg.Database.Redis.KeyPrefix))
	case "postgres":
		db, err := config.NewPostgresDB(cfg.Database.Postgres)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			a.closers = append(a.closers, sqlDB.Close)
		}
		if cfg.Database.Postgres.AutoMigrate {
			if err := model.AutoMigrate(db); err != nil {
				return nil, fmt.Errorf("auto-migrate: %w", err)
			}
			logger.Info("database migration completed")
		}
		a.store = repository.NewPGKVStore(db)
		logger.Info("using Postgres store")
	case "memory":
		a.store = repository.NewMemoryKVStore()
		logger.Info("using in-memory store")
	default:
		return nil, fmt.Errorf("unknown state backend %q", cfg.State.Backend)
	}

	// 4. Initialize services
	prefs := repository.NewPreferencesRepository(a.store)
	a.jokeProvider = service.NewJokeProvider(
		repository.NewJokeCacheRepository(a.store),
		service.NewHTTPJokeSource(cfg.Jokes.SourceURL, cfg.Jokes.RequestTimeout),
		cfg.Jokes.FreshnessWindow,
		logger.Named("jokes"),
	)
	a.notes = service.NewNotesService(prefs)
	a.tabs = service.NewTabService(prefs)
	a.autosaver = service.NewAutosaver(a.notes, cfg.Notes.AutosaveDelay, logger.Named("autosave"))

	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}
