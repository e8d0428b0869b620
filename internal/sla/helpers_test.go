package sla

import (
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
)

var base = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

func at(hours float64) time.Time {
	return base.Add(time.Duration(hours * float64(time.Hour)))
}

func ptr[T any](v T) *T { return &v }

func ticket(id string, p domain.TicketPriority, s domain.TicketStatus) domain.Ticket {
	return domain.Ticket{ID: id, Priority: p, Status: s, CreatedAt: base}
}

func resolvedAfter(t domain.Ticket, hours float64) domain.Ticket {
	t.ResolvedAt = ptr(t.CreatedAt.Add(time.Duration(hours * float64(time.Hour))))
	return t
}
