package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/sla-service/internal/api/dto"
	"github.com/spec-kit/sla-service/internal/dataset"
	"github.com/spec-kit/sla-service/internal/service"
)

func newTicketCmd(c *cli) *cobra.Command {
	var input, id, now string
	cmd := &cobra.Command{
		Use:   "ticket",
		Short: "Print the SLA classification of one ticket",
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := parseNow(now)
			if err != nil {
				return err
			}
			ds, err := dataset.Load(input)
			if err != nil {
				return err
			}
			tk, ok := ds.Ticket(id)
			if !ok {
				return fmt.Errorf("ticket %q not found in %s", id, input)
			}

			result := service.ClassifyTicket(tk, ds.Policies, ref)
			c.logWarnings(result.Classification.Warnings)
			return writeJSON(cmd.OutOrStdout(), dto.NewTicketSLAResponse(result))
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "dataset file (YAML or JSON)")
	cmd.Flags().StringVar(&id, "id", "", "ticket id")
	cmd.Flags().StringVar(&now, "now", "", "reference time, RFC3339 (default: current time)")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
