package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arc-framework/seeder/internal/orchestrator"
)

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADMIN_SECRET=from-dotenv\nSEEDER_DATABASE_DRIVER=sqlite\n"), 0o600))

	t.Setenv("SEEDER_DATABASE_DRIVER", "postgres")
	t.Setenv("ADMIN_SECRET", "")
	require.NoError(t, os.Unsetenv("ADMIN_SECRET"))

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "from-dotenv", os.Getenv("ADMIN_SECRET"))
	// Variables already present in the environment win over the file.
	assert.Equal(t, "postgres", os.Getenv("SEEDER_DATABASE_DRIVER"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
	assert.NoError(t, loadEnvFile(""))
}

func TestPrintJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printJSON(&buf, &orchestrator.BootstrapResult{
		Status: orchestrator.StatusOK,
		Phases: map[string]orchestrator.PhaseResult{
			orchestrator.PhaseSeed: {Name: orchestrator.PhaseSeed, Status: orchestrator.StatusOK},
		},
	})

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "ok", got["status"])
}

func TestPrintJSON_Unencodable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printJSON(&buf, make(chan int))
	assert.JSONEq(t, `{"status":"error"}`, buf.String())
}
