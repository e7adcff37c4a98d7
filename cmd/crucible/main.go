// Command crucible drives the critique & disposition pipeline over a
// single proposal: ingesting one role's raw critiques for a round, reporting
// the active set and convergence state, rendering lineage cards for the
// synthesis prompt, and checking a synthesis write-up for gaps.
//
// The CLI itself is a collaborator per spec.md §1/§6, not part of the core:
// it owns the SQLite-backed stores, reads raw critique JSON from disk, and
// never holds any state the core doesn't hand back to it.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kodevadam/crucible/internal/hostconfig"
	"github.com/kodevadam/crucible/internal/telemetry"
)

var (
	cfgPath  string
	dbPath   string
	noTel    bool
	cfg      hostconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "crucible",
	Short: "Drive a structured multi-round critique debate to a synthesized plan",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := hostconfig.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		if dbPath != "" {
			cfg.DBPath = dbPath
		}
		if noTel {
			cfg.TelemetryDisabled = true
		}

		shutdown, err := telemetry.Init(telemetry.Options{Disabled: cfg.TelemetryDisabled})
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		shutdownTelemetry = shutdown
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if shutdownTelemetry != nil {
			return shutdownTelemetry(cmd.Context())
		}
		return nil
	},
}

var shutdownTelemetry func(context.Context) error

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a TOML or YAML host config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "override the SQLite database path")
	rootCmd.PersistentFlags().BoolVar(&noTel, "no-telemetry", false, "disable OpenTelemetry tracing/metrics")

	rootCmd.AddCommand(roundCmd)
	rootCmd.AddCommand(lineageCmd)
	rootCmd.AddCommand(synthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
