package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"moments-backend/internal/config"
	"moments-backend/pkg/container"
	"moments-backend/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "momentctl",
	Short: "Operator tooling for the moments backend",
	Long: `Operator tooling for the moments backend.

Examples:
  momentctl migrate up
  momentctl migrate status
  momentctl sweep
  momentctl sweep --next 5
  momentctl reports export --out reports.xlsx --status pending`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		logger.Init(cfg.App.Environment, cfg.App.LogLevel)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, sweepCmd, reportsCmd)
}

// withContainer builds the full dependency graph for commands that touch
// the database and Redis, and releases it afterwards.
func withContainer(ctx context.Context, fn func(*container.Container) error) error {
	c, err := container.NewContainer(ctx)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer c.Cleanup()
	return fn(c)
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
