package main

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arc-framework/seeder/internal/orchestrator"
)

// blockingRunner holds RunBootstrap open until its context ends.
type blockingRunner struct {
	started  chan struct{}
	finished atomic.Bool
	deadline atomic.Bool
}

func (b *blockingRunner) RunBootstrap(ctx context.Context) (*orchestrator.BootstrapResult, error) {
	_, ok := ctx.Deadline()
	b.deadline.Store(ok)
	close(b.started)
	<-ctx.Done()
	// Simulate cleanup still touching the database after cancellation.
	time.Sleep(50 * time.Millisecond)
	b.finished.Store(true)
	return nil, ctx.Err()
}

func TestStartBootstrap_StopWaitsForRun(t *testing.T) {
	t.Parallel()

	r := &blockingRunner{started: make(chan struct{})}
	stop := startBootstrap(context.Background(), r, time.Minute)

	select {
	case <-r.started:
	case <-time.After(5 * time.Second):
		t.Fatal("bootstrap was not started")
	}
	assert.True(t, r.deadline.Load(), "startup bootstrap must be bounded by the timeout")

	stop()
	assert.True(t, r.finished.Load(), "stop must not return before the run has")
}

func TestStartBootstrap_ParentCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	r := &blockingRunner{started: make(chan struct{})}
	stop := startBootstrap(ctx, r, 0)

	<-r.started
	assert.False(t, r.deadline.Load())

	cancel()
	stop()
	require.True(t, r.finished.Load())
}

type resultRunner struct {
	result *orchestrator.BootstrapResult
	err    error
	calls  atomic.Int32
}

func (r *resultRunner) RunBootstrap(context.Context) (*orchestrator.BootstrapResult, error) {
	r.calls.Add(1)
	return r.result, r.err
}

func TestStartBootstrap_Outcomes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		runner *resultRunner
	}{
		{name: "ok", runner: &resultRunner{result: &orchestrator.BootstrapResult{Status: orchestrator.StatusOK}}},
		{name: "degraded", runner: &resultRunner{result: &orchestrator.BootstrapResult{Status: orchestrator.StatusError}}},
		{name: "in progress", runner: &resultRunner{err: orchestrator.ErrBootstrapInProgress}},
		{name: "failed", runner: &resultRunner{err: context.DeadlineExceeded}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			stop := startBootstrap(context.Background(), tc.runner, time.Second)
			stop()
			assert.EqualValues(t, 1, tc.runner.calls.Load())
		})
	}
}
