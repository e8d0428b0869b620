package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/sla-service/internal/dataset"
	"github.com/spec-kit/sla-service/internal/service"
	"github.com/spec-kit/sla-service/internal/sla"
)

func newReportCmd(c *cli) *cobra.Command {
	var (
		window     windowFlags
		format     string
		threshold  int
		partitions int
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the compliance report for a window and the one before it",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := window.query()
			if err != nil {
				return err
			}
			ds, err := dataset.Load(window.input)
			if err != nil {
				return err
			}

			report, err := service.BuildComplianceReport(cmd.Context(), service.ReportInput{
				Window:             q.Window,
				SectorID:           q.SectorID,
				Now:                q.Now,
				Policies:           ds.Policies,
				Current:            ds.Select(q.Window, q.SectorID),
				Previous:           ds.Select(q.Window.Previous(), q.SectorID),
				ParallelThreshold:  threshold,
				ParallelPartitions: partitions,
			})
			if err != nil {
				return err
			}
			c.logWarnings(report.Current.Warnings)

			switch format {
			case "json":
				return writeJSON(cmd.OutOrStdout(), report)
			case "csv":
				return sla.WriteCSV(cmd.OutOrStdout(), sla.ExportRows(report.Current, q.Window.Label(), window.sector))
			default:
				return fmt.Errorf("unknown format %q (want json or csv)", format)
			}
		},
	}
	window.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or csv")
	cmd.Flags().IntVar(&threshold, "parallel-threshold", 5000, "partition aggregation above this many tickets (0 disables)")
	cmd.Flags().IntVar(&partitions, "partitions", 4, "number of aggregation partitions")
	return cmd
}

func newResolutionCmd(c *cli) *cobra.Command {
	var window windowFlags
	cmd := &cobra.Command{
		Use:   "resolution",
		Short: "Print time-to-resolution statistics for tickets created in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, err := window.query()
			if err != nil {
				return err
			}
			ds, err := dataset.Load(window.input)
			if err != nil {
				return err
			}

			report := service.ResolutionTimeReport{
				Window:           q.Window,
				SectorID:         q.SectorID,
				GeneratedAt:      q.Now,
				ResolutionReport: sla.AnalyzeResolution(ds.Select(q.Window, q.SectorID), q.Window),
			}
			c.logWarnings(report.Warnings)
			return writeJSON(cmd.OutOrStdout(), report)
		},
	}
	window.register(cmd)
	return cmd
}
