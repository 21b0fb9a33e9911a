package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	catalog "carte/contexts/catalog"
	postgresadapter "carte/contexts/catalog/adapters/postgres"
	workerapp "carte/contexts/catalog/application/workers"
	"carte/contexts/catalog/ports"
	"carte/internal/platform/cache"
	"carte/internal/platform/config"
	"carte/internal/platform/db"
	"carte/internal/platform/httpserver"
	"carte/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	redis    *cache.Redis
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	publisher    io.Closer
	outboxRelay  workerapp.OutboxRelay
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	// Reads survive a dead cache, so a Redis failure downgrades the API
	// to direct store reads instead of refusing to start.
	var cacheStore ports.CacheStore
	redis, err := cache.Connect(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Warn("redis unavailable, serving reads without cache",
			"event", "bootstrap_cache_unavailable",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"error", err.Error(),
			"redis_addr", cfg.RedisAddr,
		)
	} else {
		cacheStore = redis
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := catalog.NewModule(catalog.Dependencies{
		Reader:      repo,
		Writer:      repo,
		Cache:       cacheStore,
		Clock:       postgresadapter.SystemClock{},
		IDGenerator: postgresadapter.UUIDGenerator{},
		CacheTTL:    cfg.CacheTTL,
		Logger:      logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		redis:    redis,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	publisher, closer, err := buildPublisher(cfg, logger)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres:  pg,
		publisher: closer,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: publisher,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: cfg.OutboxBatchSize,
			Logger:    logger,
		},
		pollInterval: cfg.OutboxPollInterval,
		logger:       logger,
	}, nil
}

// buildPublisher prefers JetStream; without NATS_URL the relay drains into
// the in-process bus, which keeps local runs broker-free.
func buildPublisher(cfg config.Config, logger *slog.Logger) (ports.EventPublisher, io.Closer, error) {
	if cfg.NATSURL != "" {
		nc, err := messaging.ConnectNATS(cfg.NATSURL, cfg.ServiceName, logger)
		if err != nil {
			return nil, nil, err
		}
		return nc, closerFunc(func() error {
			nc.Close()
			return nil
		}), nil
	}
	bus := messaging.NewBus(logger)
	return bus, closerFunc(func() error { return nil }), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		// Relay failures are transient (broker or DB hiccups); rows stay
		// pending, so log and retry on the next tick instead of exiting.
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			w.logger.Error("outbox relay pass failed",
				"event", "bootstrap_relay_pass_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.publisher != nil {
		_ = w.publisher.Close()
	}
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
