package commands

import (
	"encoding/json"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-service/internal/api/dto"
	"github.com/spec-kit/sla-service/internal/config"
	"github.com/spec-kit/sla-service/internal/observability"
	"github.com/spec-kit/sla-service/internal/service"
	"github.com/spec-kit/sla-service/internal/sla"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

type cli struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "slactl",
		Short: "Compute SLA compliance reports from ticket dataset files",
		Long: `slactl runs the SLA engine over a YAML or JSON dataset of sector policies
and tickets and prints the same reports the SLA service serves over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if c.verbose {
				level = "debug"
			}
			logger, err := observability.NewLogger(config.LoggerConfig{Level: level, Output: "stderr"})
			if err != nil {
				return err
			}
			c.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = c.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newReportCmd(c), newResolutionCmd(c), newTicketCmd(c), newTokenCmd(c), newVersionCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func (c *cli) logWarnings(warnings []sla.DataWarning) {
	for _, w := range warnings {
		c.logger.Warn("ticket data quality",
			zap.String("ticket_id", w.TicketID),
			zap.String("kind", string(w.Kind)),
			zap.String("detail", w.Detail))
	}
}

// windowFlags are the report window options shared by report commands.
type windowFlags struct {
	input  string
	now    string
	from   string
	to     string
	sector string
	days   int
}

func (f *windowFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "dataset file (YAML or JSON)")
	cmd.Flags().StringVar(&f.now, "now", "", "reference time, RFC3339 (default: current time)")
	cmd.Flags().StringVar(&f.from, "from", "", "window start, RFC3339 (default: to minus --days)")
	cmd.Flags().StringVar(&f.to, "to", "", "window end, RFC3339 (default: --now)")
	cmd.Flags().StringVar(&f.sector, "sector", "", "restrict to one sector id")
	cmd.Flags().IntVar(&f.days, "days", 30, "default window length in days")
	_ = cmd.MarkFlagRequired("input")
}

func (f *windowFlags) query() (service.ReportQuery, error) {
	now, err := parseNow(f.now)
	if err != nil {
		return service.ReportQuery{}, err
	}
	q := dto.ReportQuery{From: f.from, To: f.to, SectorID: f.sector}
	return q.ToServiceQuery(now, time.Duration(f.days)*24*time.Hour)
}

func parseNow(value string) (time.Time, error) {
	if value == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse(time.RFC3339, value)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
