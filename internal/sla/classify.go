package sla

import (
	"fmt"
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
)

// Classification is the SLA verdict for one ticket at a reference instant.
type Classification struct {
	TicketID    string                `json:"ticket_id"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	PolicyHours float64               `json:"policy_hours"`
	Deadline    *time.Time            `json:"deadline,omitempty"`
	Finished    bool                  `json:"finished"`
	IsOverdue   bool                  `json:"is_overdue"`
	// IsCompliant is only meaningful when Evaluated is true.
	IsCompliant bool `json:"is_compliant"`
	// Evaluated is set for finished tickets whose timestamps allow a compliance verdict.
	Evaluated bool          `json:"evaluated"`
	Warnings  []DataWarning `json:"warnings,omitempty"`
}

// Classify evaluates a ticket against its deadline. Finished tickets are judged at
// resolvedAt, active ones at now. Resolving exactly at the deadline is compliant.
func Classify(ticket *domain.Ticket, resolver PolicyResolver, now time.Time) Classification {
	c := Classification{
		TicketID: ticket.ID,
		Status:   ticket.Status,
		Priority: ticket.Priority,
		Finished: ticket.Status.IsFinished(),
	}

	if !ticket.Priority.IsKnown() {
		c.warn(WarnUnknownPriority, fmt.Sprintf("priority %q treated as P3", ticket.Priority))
	}
	if !ticket.Status.IsKnown() {
		c.warn(WarnUnknownStatus, fmt.Sprintf("status %q", ticket.Status))
	}

	c.PolicyHours = resolver.Resolve(ticket.SectorID, ticket.Priority)

	var deadline time.Time
	switch {
	case ticket.ExplicitDeadline != nil:
		deadline = ComputeDeadline(ticket, c.PolicyHours)
	case ticket.CreatedAt.IsZero():
		c.warn(WarnMissingCreatedAt, "")
	default:
		deadline = ComputeDeadline(ticket, c.PolicyHours)
	}
	if !deadline.IsZero() {
		c.Deadline = &deadline
	}

	malformed := false
	if ticket.ResolvedAt != nil && !ticket.CreatedAt.IsZero() && ticket.ResolvedAt.Before(ticket.CreatedAt) {
		c.warn(WarnResolvedBeforeCreated, "")
		malformed = true
	}

	switch {
	case c.Finished:
		if ticket.ResolvedAt == nil {
			c.warn(WarnMissingResolvedAt, "")
			return c
		}
		if malformed || c.Deadline == nil {
			return c
		}
		c.Evaluated = true
		c.IsCompliant = !ticket.ResolvedAt.After(deadline)
		c.IsOverdue = !c.IsCompliant
	case ticket.Status.IsActive():
		if c.Deadline != nil {
			c.IsOverdue = now.After(deadline)
		}
	}
	return c
}

// Slack returns the time left before the deadline at the classification's reference
// instant. Negative values are time past the deadline.
func (c Classification) Slack(ticket *domain.Ticket, now time.Time) (time.Duration, bool) {
	if c.Deadline == nil {
		return 0, false
	}
	ref := now
	if c.Finished {
		if ticket.ResolvedAt == nil {
			return 0, false
		}
		ref = *ticket.ResolvedAt
	}
	return c.Deadline.Sub(ref), true
}

func (c *Classification) warn(kind WarningKind, detail string) {
	c.Warnings = append(c.Warnings, DataWarning{TicketID: c.TicketID, Kind: kind, Detail: detail})
}
