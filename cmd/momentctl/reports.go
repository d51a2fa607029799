package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"moments-backend/pkg/container"
)

var (
	exportOut    string
	exportStatus string
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Moderation report tooling",
}

var reportsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write moderation reports to an xlsx workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Create(exportOut)
		if err != nil {
			return err
		}
		defer f.Close()

		return withContainer(cmd.Context(), func(c *container.Container) error {
			n, err := c.ReportService.WriteExport(cmd.Context(), f, exportStatus)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d reports to %s\n", n, exportOut)
			return nil
		})
	},
}

func init() {
	reportsExportCmd.Flags().StringVar(&exportOut, "out", "reports.xlsx", "Output file")
	reportsExportCmd.Flags().StringVar(&exportStatus, "status", "", "Only export reports with this status")
	reportsCmd.AddCommand(reportsExportCmd)
}
