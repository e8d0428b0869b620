package service

import (
	"context"
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/sla"
)

// ReportInput is everything needed to build a compliance report without storage.
type ReportInput struct {
	Window   domain.Window
	SectorID *string
	Now      time.Time
	Policies []domain.Policy
	Current  []domain.Ticket
	Previous []domain.Ticket

	// Above ParallelThreshold tickets aggregation is split into
	// ParallelPartitions partial snapshots and merged. Zero disables it.
	ParallelThreshold  int
	ParallelPartitions int
}

// BuildComplianceReport aggregates both windows and compares them.
func BuildComplianceReport(ctx context.Context, in ReportInput) (*ComplianceReport, error) {
	table := sla.NewPolicyTable(in.Policies)

	current, err := aggregate(ctx, in, in.Current, table)
	if err != nil {
		return nil, err
	}
	previous, err := aggregate(ctx, in, in.Previous, table)
	if err != nil {
		return nil, err
	}

	return &ComplianceReport{
		Window:         in.Window,
		PreviousWindow: in.Window.Previous(),
		SectorID:       in.SectorID,
		GeneratedAt:    in.Now,
		Current:        current,
		Previous:       previous,
		Trends:         sla.CompareSnapshots(current, previous),
	}, nil
}

func aggregate(ctx context.Context, in ReportInput, tickets []domain.Ticket, table *sla.PolicyTable) (*sla.ComplianceSnapshot, error) {
	if in.ParallelThreshold > 0 && len(tickets) > in.ParallelThreshold {
		return sla.AggregateParallel(ctx, tickets, table, in.Now, in.ParallelPartitions)
	}
	return sla.Aggregate(tickets, table, in.Now), nil
}

// ClassifyTicket evaluates one ticket against policies at now.
func ClassifyTicket(ticket *domain.Ticket, policies []domain.Policy, now time.Time) *TicketSLA {
	cl := sla.Classify(ticket, sla.NewPolicyTable(policies), now)
	result := &TicketSLA{Ticket: ticket, Classification: cl}
	if slack, ok := cl.Slack(ticket, now); ok {
		seconds := slack.Seconds()
		result.SlackSeconds = &seconds
	}
	return result
}
