package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"arc-framework/seeder/internal/config"
	"arc-framework/seeder/internal/telemetry"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	cfgFile  string
	envFile  string
	logLevel string

	// cfg is populated by PersistentPreRunE and shared with all subcommands.
	cfg *config.Config

	// app holds all wired dependencies; populated by PersistentPreRunE.
	app *AppContext
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "A.R.C. Seeder: database seeding and bootstrap service",
	Long: `Seeder populates the platform database with reference data (permissions,
roles) and, on an empty database, a set of sample business records. It also
creates super-admin accounts gated by a shared secret and exposes a
health/status HTTP API.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before config; ignored if missing")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		initLogger(logLevel)

		if err := loadEnvFile(envFile); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// --log-level flag takes precedence over value in config file.
		if cmd.Flags().Changed("log-level") {
			cfg.Telemetry.LogLevel = logLevel
		} else if cfg.Telemetry.LogLevel != "" {
			initLogger(cfg.Telemetry.LogLevel)
		}

		app, err = buildAppContext(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("building app context: %w", err)
		}

		return nil
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		return app.Close(context.Background())
	}

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// Execute is the entry point called by main.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if app != nil {
			_ = app.Close(context.Background())
		}
		os.Exit(1)
	}
}

func initLogger(level string) {
	slog.SetDefault(telemetry.NewLogger(os.Stdout, level))
}

// loadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not an
// error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	slog.Debug("env file loaded", "path", path)
	return nil
}
