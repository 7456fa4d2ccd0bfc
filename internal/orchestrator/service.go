package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// ErrBootstrapInProgress is returned when RunBootstrap is called while a
// bootstrap is already running.
var ErrBootstrapInProgress = errors.New("bootstrap already in progress")

// Phase names as they appear in BootstrapResult.Phases and deep health.
const (
	PhaseDatabase = "database"
	PhaseNATS     = "nats"
	PhaseRedis    = "redis"
	PhaseSeed     = "seed"
)

// DBProber is satisfied by *clients.DatabaseClient.
type DBProber interface {
	Probe(ctx context.Context) ProbeResult
}

// EventProvisioner is satisfied by *clients.NATSClient.
type EventProvisioner interface {
	ProvisionStreams(ctx context.Context) error
	Probe(ctx context.Context) ProbeResult
}

// LockProber is satisfied by *clients.RedisClient.
type LockProber interface {
	Probe(ctx context.Context) ProbeResult
}

// Seeder is satisfied by *seeding.Service.
type Seeder interface {
	SeedDatabase(ctx context.Context)
	Verify(ctx context.Context) error
}

// Orchestrator runs bootstrap phases and health probes. The NATS and Redis
// dependencies are optional; a nil value reports the phase as skipped.
type Orchestrator struct {
	db     DBProber
	nats   EventProvisioner
	redis  LockProber
	seeder Seeder

	bootstrapInProgress atomic.Bool
	lastResult          *BootstrapResult
	resultMu            sync.RWMutex
}

// New constructs an Orchestrator. db and seeder are required.
func New(db DBProber, nats EventProvisioner, redis LockProber, seeder Seeder) *Orchestrator {
	return &Orchestrator{
		db:     db,
		nats:   nats,
		redis:  redis,
		seeder: seeder,
	}
}

// RunBootstrap checks the database, provisions NATS streams and probes Redis
// concurrently, then seeds the database. A phase failure is recorded in
// BootstrapResult but does not cancel the other infrastructure phases. The
// seed phase is skipped when the database phase failed. Returns
// ErrBootstrapInProgress if a bootstrap is already running.
func (o *Orchestrator) RunBootstrap(ctx context.Context) (*BootstrapResult, error) {
	if !o.bootstrapInProgress.CompareAndSwap(false, true) {
		return nil, ErrBootstrapInProgress
	}
	defer o.bootstrapInProgress.Store(false)

	result := &BootstrapResult{
		Status: StatusInProgress,
		Phases: make(map[string]PhaseResult),
	}
	record := func(phase PhaseResult) {
		logPhase(ctx, phase)
		result.Lock()
		result.Phases[phase.Name] = phase
		result.Unlock()
	}

	ctx, span := otel.Tracer("arc-seeder").Start(ctx, "seeder.bootstrap")
	defer span.End()

	start := time.Now()
	slog.InfoContext(ctx, "bootstrap started")

	// Use a plain errgroup (no context) so a phase failure does not cancel
	// the context passed to sibling phases.
	var g errgroup.Group

	g.Go(func() error {
		record(probeToPhase(PhaseDatabase, o.db.Probe(ctx)))
		return nil
	})

	g.Go(func() error {
		if o.nats == nil {
			record(skippedPhase(PhaseNATS))
			return nil
		}
		record(provisionToPhase(PhaseNATS, o.nats.ProvisionStreams(ctx)))
		return nil
	})

	g.Go(func() error {
		if o.redis == nil {
			record(skippedPhase(PhaseRedis))
			return nil
		}
		record(probeToPhase(PhaseRedis, o.redis.Probe(ctx)))
		return nil
	})

	// g.Wait() never returns an error because all goroutines return nil.
	_ = g.Wait()

	if result.Phases[PhaseDatabase].Status == StatusOK {
		o.seeder.SeedDatabase(ctx)
		record(provisionToPhase(PhaseSeed, o.seeder.Verify(ctx)))
	} else {
		record(PhaseResult{Name: PhaseSeed, Status: StatusSkipped, Error: "database unavailable"})
	}

	// Determine overall status.
	result.Status = StatusOK
	for _, phase := range result.Phases {
		if phase.Status == StatusError {
			result.Status = StatusError
			break
		}
	}

	span.SetAttributes(
		attribute.String("bootstrap.status", result.Status),
		attribute.Int64("bootstrap.duration_ms", time.Since(start).Milliseconds()),
	)
	if result.Status == StatusError {
		span.SetStatus(codes.Error, "one or more bootstrap phases failed")
		slog.WarnContext(ctx, "bootstrap completed with errors", "status", result.Status)
	} else {
		span.SetStatus(codes.Ok, "")
		slog.InfoContext(ctx, "bootstrap completed", "status", result.Status)
	}

	o.resultMu.Lock()
	o.lastResult = result
	o.resultMu.Unlock()

	return result, nil
}

// RunDeepHealth probes every configured dependency concurrently and checks
// that the seeded tables are populated. Unconfigured dependencies are left
// out of the map.
func (o *Orchestrator) RunDeepHealth(ctx context.Context) map[string]ProbeResult {
	results := make(map[string]ProbeResult, 4)
	var mu sync.Mutex
	var g errgroup.Group

	probe := func(name string, fn func() ProbeResult) {
		g.Go(func() error {
			res := fn()
			mu.Lock()
			results[name] = res
			mu.Unlock()
			return nil
		})
	}

	probe(PhaseDatabase, func() ProbeResult { return o.db.Probe(ctx) })
	if o.nats != nil {
		probe(PhaseNATS, func() ProbeResult { return o.nats.Probe(ctx) })
	}
	if o.redis != nil {
		probe(PhaseRedis, func() ProbeResult { return o.redis.Probe(ctx) })
	}
	probe(PhaseSeed, func() ProbeResult {
		start := time.Now()
		err := o.seeder.Verify(ctx)
		res := ProbeResult{Name: PhaseSeed, OK: err == nil, LatencyMs: time.Since(start).Milliseconds()}
		if err != nil {
			res.Error = err.Error()
		}
		return res
	})

	_ = g.Wait()
	return results
}

// IsBootstrapInProgress returns true while a bootstrap run is active.
func (o *Orchestrator) IsBootstrapInProgress() bool {
	return o.bootstrapInProgress.Load()
}

// IsReady returns true if the last bootstrap completed with StatusOK.
func (o *Orchestrator) IsReady() bool {
	o.resultMu.RLock()
	defer o.resultMu.RUnlock()
	return o.lastResult != nil && o.lastResult.Status == StatusOK
}

// LastResult returns the result of the most recent bootstrap, or nil.
func (o *Orchestrator) LastResult() *BootstrapResult {
	o.resultMu.RLock()
	defer o.resultMu.RUnlock()
	return o.lastResult
}

// logPhase emits a trace-correlated log for a bootstrap phase result.
// Errors log at WARN so they are visible without being fatal.
func logPhase(ctx context.Context, p PhaseResult) {
	switch p.Status {
	case StatusOK:
		slog.InfoContext(ctx, "bootstrap phase ok", "phase", p.Name)
	case StatusSkipped:
		slog.InfoContext(ctx, "bootstrap phase skipped", "phase", p.Name, "reason", p.Error)
	default:
		slog.WarnContext(ctx, "bootstrap phase failed", "phase", p.Name, "error", p.Error)
	}
}

// probeToPhase converts a ProbeResult to a PhaseResult.
func probeToPhase(name string, p ProbeResult) PhaseResult {
	if p.OK {
		return PhaseResult{Name: name, Status: StatusOK}
	}
	return PhaseResult{Name: name, Status: StatusError, Error: p.Error}
}

// provisionToPhase converts a provision error to a PhaseResult.
func provisionToPhase(name string, err error) PhaseResult {
	if err == nil {
		return PhaseResult{Name: name, Status: StatusOK}
	}
	return PhaseResult{Name: name, Status: StatusError, Error: err.Error()}
}

func skippedPhase(name string) PhaseResult {
	return PhaseResult{Name: name, Status: StatusSkipped, Error: "not configured"}
}
