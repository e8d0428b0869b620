package sla

import (
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
)

// ComputeDeadline returns the instant a ticket must be resolved by.
// An explicit deadline always wins; otherwise the budget is added to the
// creation time in wall-clock hours.
func ComputeDeadline(ticket *domain.Ticket, hours float64) time.Time {
	if ticket.ExplicitDeadline != nil {
		return *ticket.ExplicitDeadline
	}
	return ticket.CreatedAt.Add(hoursToDuration(hours))
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
