package orchestrator

import "sync"

// Status values used across BootstrapResult and PhaseResult.
const (
	StatusOK         = "ok"
	StatusError      = "error"
	StatusInProgress = "in-progress"
	StatusSkipped    = "skipped"
)

// BootstrapResult is the aggregate result of a bootstrap run: the database,
// nats and redis phases followed by the seed phase. The embedded mutex guards
// Phases while phase goroutines are still writing.
type BootstrapResult struct {
	sync.Mutex
	Status string                 `json:"status"` // "ok", "error", "in-progress"
	Phases map[string]PhaseResult `json:"phases"`
}

// PhaseResult represents the outcome of a single bootstrap phase. Error also
// carries the reason for a skipped phase.
type PhaseResult struct {
	Name   string `json:"name"`
	Status string `json:"status"` // "ok", "error", "skipped"
	Error  string `json:"error,omitempty"`
}

// ProbeResult is returned by RunDeepHealth for each dependency.
type ProbeResult struct {
	Name      string `json:"name"`
	OK        bool   `json:"ok"`
	LatencyMs int64  `json:"latencyMs"`
	Error     string `json:"error,omitempty"`
}
