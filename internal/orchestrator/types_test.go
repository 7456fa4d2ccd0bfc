package orchestrator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapResult_JSONShape(t *testing.T) {
	t.Parallel()

	r := BootstrapResult{
		Status: StatusError,
		Phases: map[string]PhaseResult{
			PhaseDatabase: {Name: PhaseDatabase, Status: StatusError, Error: "connection refused"},
			PhaseSeed:     {Name: PhaseSeed, Status: StatusSkipped, Error: "database unavailable"},
			PhaseNATS:     {Name: PhaseNATS, Status: StatusOK},
		},
	}

	data, err := json.Marshal(&r)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "error", got["status"])
	phases, ok := got["phases"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, phases, 3)

	seed, ok := phases["seed"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "skipped", seed["status"])
	assert.Equal(t, "database unavailable", seed["error"])

	// "error" field must be absent when empty (omitempty).
	nats, ok := phases["nats"].(map[string]any)
	require.True(t, ok)
	_, hasError := nats["error"]
	assert.False(t, hasError)
}

func TestProbeResult_JSONShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ProbeResult{Name: "arc-sonic", OK: true, LatencyMs: 3})
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"arc-sonic","ok":true,"latencyMs":3}`, string(data))
}
