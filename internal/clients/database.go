package clients

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sony/gobreaker"

	"arc-framework/seeder/internal/config"
	"arc-framework/seeder/internal/orchestrator"
)

const (
	probeName       = "arc-oracle"
	sqliteProbeName = "sqlite"
)

// dbPinger abstracts the pool methods used in Probe so that tests can inject
// a fake without standing up a real database. Both *pgxpool.Pool and the
// database/sql adapter satisfy it.
type dbPinger interface {
	Ping(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// DatabaseClient probes the seeder database through a circuit breaker.
type DatabaseClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	connect func(ctx context.Context) (dbPinger, error)
}

// NewPostgresClient creates a DatabaseClient that opens a short-lived pgx pool
// for every probe. No connection is made at construction time.
func NewPostgresClient(cfg config.PostgresConfig, cb *gobreaker.CircuitBreaker) *DatabaseClient {
	return &DatabaseClient{
		name: probeName,
		cb:   cb,
		connect: func(ctx context.Context) (dbPinger, error) {
			return realConnect(ctx, cfg)
		},
	}
}

// NewSQLClient creates a DatabaseClient that probes an already open
// database/sql pool, as used by the sqlite driver. The pool is never closed
// by the client.
func NewSQLClient(db *sql.DB, cb *gobreaker.CircuitBreaker) *DatabaseClient {
	return &DatabaseClient{
		name: sqliteProbeName,
		cb:   cb,
		connect: func(context.Context) (dbPinger, error) {
			return sqlPinger{db: db}, nil
		},
	}
}

// Probe pings the database and verifies the users table is queryable, i.e.
// migrations have run. Persistent failures trip the breaker after three
// consecutive errors.
func (c *DatabaseClient) Probe(ctx context.Context) orchestrator.ProbeResult {
	start := time.Now()

	_, err := c.cb.Execute(func() (any, error) {
		pool, err := c.connect(ctx)
		if err != nil {
			return nil, err
		}
		defer pool.Close()

		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping: %w", err)
		}

		var users int64
		if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&users); err != nil {
			return nil, fmt.Errorf("users table not queryable: %w", err)
		}

		return nil, nil
	})

	return probeResult(c.name, start, err)
}

// realConnect opens a pgxpool.Pool using the provided PostgresConfig.
func realConnect(ctx context.Context, cfg config.PostgresConfig) (dbPinger, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing postgres DSN: %w", err)
	}
	poolCfg.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("opening postgres pool: %w", err)
	}

	return pool, nil
}

// sqlPinger adapts *sql.DB to dbPinger. *sql.Row already satisfies pgx.Row.
type sqlPinger struct {
	db *sql.DB
}

func (s sqlPinger) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s sqlPinger) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	return s.db.QueryRowContext(ctx, query, args...)
}

func (s sqlPinger) Close() {}
