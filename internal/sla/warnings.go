package sla

// WarningKind classifies a structural problem found in an input ticket.
type WarningKind string

const (
	WarnMissingCreatedAt      WarningKind = "missing_created_at"
	WarnResolvedBeforeCreated WarningKind = "resolved_before_created"
	WarnMissingResolvedAt     WarningKind = "missing_resolved_at"
	WarnInvertedProgress      WarningKind = "inverted_progress"
	WarnUnknownPriority       WarningKind = "unknown_priority"
	WarnUnknownStatus         WarningKind = "unknown_status"
)

// DataWarning reports a ticket that was excluded from, or coerced in, an aggregate.
// Warnings are data-quality signals for the caller to log, never failures.
type DataWarning struct {
	TicketID string      `json:"ticket_id"`
	Kind     WarningKind `json:"kind"`
	Detail   string      `json:"detail,omitempty"`
}
