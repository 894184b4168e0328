package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/loomkit/loom/internal/analytics"
	"github.com/loomkit/loom/internal/catalog"
	"github.com/loomkit/loom/internal/config"
	"github.com/loomkit/loom/internal/service"
)

// cliEnv bundles what every command needs: configuration, logger and the
// service stack over the loaded catalog.
type cliEnv struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *service.Service
}

// setup loads configuration and builds the service. The optional dispatcher
// wires analytics into the service (serve only; one-shot commands skip it).
func setup(dispatcher *analytics.Dispatcher) (*cliEnv, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	return setupWith(cfg, logger, dispatcher)
}

// setupWith builds the service over an already-loaded configuration.
func setupWith(cfg *config.Config, logger *zap.Logger, dispatcher *analytics.Dispatcher) (*cliEnv, error) {
	snap, err := catalog.Load(cfg.Catalog.Path, logger)
	if err != nil {
		return nil, err
	}

	svc, err := service.New(snap, service.Options{
		BaseURL:   cfg.Server.BaseURL,
		Analytics: dispatcher,
	}, logger)
	if err != nil {
		return nil, err
	}

	return &cliEnv{cfg: cfg, logger: logger, service: svc}, nil
}

// buildAnalytics constructs the dispatcher for the configured backend, or
// nil for the none backend.
func buildAnalytics(cfg *config.Config, logger *zap.Logger) (*analytics.Dispatcher, error) {
	var sink analytics.Sink

	switch cfg.Analytics.Backend {
	case "none":
		return nil, nil
	case "memory":
		sink = analytics.NewMemorySink(1024)
	case "redis":
		var err error
		sink, err = analytics.NewRedisSink(analytics.RedisConfig{
			Addr:     cfg.Analytics.Redis.Addr,
			Password: cfg.Analytics.Redis.Password,
			DB:       cfg.Analytics.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("analytics redis backend: %w", err)
		}
	case "sqlite":
		var err error
		sink, err = analytics.NewSQLiteSink(cfg.Analytics.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("analytics sqlite backend: %w", err)
		}
	case "postgres":
		var err error
		sink, err = analytics.NewPostgresSink(context.Background(), cfg.Analytics.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("analytics postgres backend: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown analytics backend: %s", cfg.Analytics.Backend)
	}

	return analytics.NewDispatcher(sink, analytics.DefaultConfig(), logger), nil
}
