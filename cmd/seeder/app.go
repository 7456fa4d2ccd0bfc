package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"arc-framework/seeder/internal/api"
	"arc-framework/seeder/internal/clients"
	"arc-framework/seeder/internal/config"
	"arc-framework/seeder/internal/database"
	"arc-framework/seeder/internal/orchestrator"
	"arc-framework/seeder/internal/seeding"
	"arc-framework/seeder/internal/store"
	"arc-framework/seeder/internal/telemetry"
)

// AppContext holds all constructed application dependencies shared across
// subcommands. It is built once in PersistentPreRunE.
type AppContext struct {
	cfg          *config.Config
	otelProvider *telemetry.Provider
	db           *gorm.DB
	nats         *clients.NATSClient
	seeder       *seeding.Service
	orchestrator *orchestrator.Orchestrator
	router       *api.Router
}

// buildAppContext constructs all application dependencies from cfg:
//  1. Initialises the OTEL provider (best-effort, non-fatal)
//  2. Opens and migrates the database
//  3. Creates the database, NATS and Redis clients, one circuit breaker each
//  4. Creates the seeding service, the orchestrator and the HTTP router
//
// NATS and Redis are optional: an empty URL or host leaves them out.
func buildAppContext(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	app := &AppContext{cfg: cfg}

	tp, err := telemetry.InitProvider(ctx, cfg.Telemetry, version)
	if err != nil {
		slog.Warn("OTEL provider init failed, telemetry disabled", "err", err)
		tp = telemetry.Disabled()
	}
	if cfg.Telemetry.OTLPEndpoint == "" {
		slog.Info("OTEL telemetry disabled (no endpoint configured)")
	}
	app.otelProvider = tp

	app.db, err = database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	st := store.New(app.db)
	if err := st.Ping(ctx); err != nil {
		_ = database.Close(app.db)
		return nil, fmt.Errorf("database unreachable: %w", err)
	}
	if err := database.Migrate(ctx, app.db); err != nil {
		_ = database.Close(app.db)
		return nil, err
	}

	var dbClient orchestrator.DBProber
	switch cfg.Database.Driver {
	case "postgres":
		dbClient = clients.NewPostgresClient(cfg.Database.Postgres, clients.NewCircuitBreaker("database"))
	default:
		sqlDB, err := app.db.DB()
		if err != nil {
			_ = database.Close(app.db)
			return nil, fmt.Errorf("sql handle: %w", err)
		}
		dbClient = clients.NewSQLClient(sqlDB, clients.NewCircuitBreaker("database"))
	}

	opts := []seeding.Option{seeding.WithLogger(slog.Default())}

	var events orchestrator.EventProvisioner
	if cfg.NATS.URL != "" {
		nc := clients.NewNATSClient(cfg.NATS, clients.NewCircuitBreaker("nats"))
		app.nats = nc
		events = nc
		opts = append(opts, seeding.WithPublisher(nc))
	} else {
		slog.Info("NATS not configured, seeder events disabled")
	}

	var locks orchestrator.LockProber
	if cfg.Redis.Host != "" {
		rc := clients.NewRedisClient(cfg.Redis, clients.NewCircuitBreaker("redis"))
		locks = rc
		opts = append(opts, seeding.WithLocker(rc, cfg.Seeding.LockTTL))
	} else {
		slog.Info("Redis not configured, seed lock disabled")
	}

	app.seeder = seeding.New(st, opts...)
	app.orchestrator = orchestrator.New(dbClient, events, locks, app.seeder)
	app.router = api.NewRouter(app.orchestrator, app.seeder, cfg.Seeding.Timeout)

	return app, nil
}

// Close releases the NATS publish connection and the database pool, then
// flushes telemetry. It is safe to call more than once.
func (a *AppContext) Close(ctx context.Context) error {
	var errs []error

	if a.nats != nil {
		a.nats.Close()
		a.nats = nil
	}

	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			errs = append(errs, fmt.Errorf("closing database: %w", err))
		}
		a.db = nil
	}

	if a.otelProvider != nil {
		shutCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := a.otelProvider.Shutdown(shutCtx); err != nil {
			slog.Warn("OTEL shutdown error", "err", err)
		}
		a.otelProvider = nil
	}

	return errors.Join(errs...)
}
