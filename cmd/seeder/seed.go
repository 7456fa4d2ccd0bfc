package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"arc-framework/seeder/internal/orchestrator"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run one-shot bootstrap and seeding, then exit",
	Long: `Seed checks the database, provisions the NATS event streams and probes
Redis, then seeds reference data (permissions, roles) and, on a database
without users, the sample business data.

The command runs once, prints a JSON result to stdout, and exits 0 on
success or non-zero on failure.`,
	RunE: runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Seeding.Timeout)
	defer cancel()

	slog.Info("starting bootstrap")

	result, err := app.orchestrator.RunBootstrap(ctx)
	if err != nil {
		printJSON(os.Stdout, map[string]string{"status": orchestrator.StatusError, "error": err.Error()})
		return fmt.Errorf("bootstrap failed: %w", err)
	}

	printJSON(os.Stdout, result)
	if result.Status == orchestrator.StatusError {
		return errors.New("bootstrap completed with errors")
	}

	slog.Info("bootstrap completed successfully")
	return nil
}

// printJSON writes v as indented JSON. Encoding failures fall back to a
// minimal status line so callers always get parseable output.
func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(w, `{"status":%q}`+"\n", orchestrator.StatusError)
	}
}
