package main

import (
	"time"

	"github.com/spf13/cobra"

	"moments-backend/internal/config"
	"moments-backend/internal/infrastructure/queue"
	"moments-backend/pkg/container"
)

var sweepNext int

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Expire due moments now, or preview the schedule",
	Long: `Run one expiry sweep immediately and print the result as JSON.

With --next N, print the next N scheduled sweep times instead.`,
	RunE: runSweep,
}

func init() {
	sweepCmd.Flags().IntVar(&sweepNext, "next", 0, "Show the next N scheduled runs instead of sweeping")
}

func runSweep(cmd *cobra.Command, args []string) error {
	if sweepNext > 0 {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		runs, err := queue.NextRuns(cfg.Worker.ExpiryCron, time.Now(), sweepNext)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"cron": cfg.Worker.ExpiryCron,
			"next": runs,
		})
	}

	return withContainer(cmd.Context(), func(c *container.Container) error {
		result, err := c.ExpiryService.SweepNow(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	})
}
