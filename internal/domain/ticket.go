package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// KnownStatuses lists the statuses in reporting order.
var KnownStatuses = []TicketStatus{
	TicketStatusOpen,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
}

// IsFinished reports whether the ticket no longer needs action.
func (s TicketStatus) IsFinished() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// IsActive reports whether the ticket is still being worked.
func (s TicketStatus) IsActive() bool {
	return s == TicketStatusOpen || s == TicketStatusInProgress
}

// IsKnown reports whether s is one of the four lifecycle states.
func (s TicketStatus) IsKnown() bool {
	return s.IsActive() || s.IsFinished()
}

// TicketPriority enumerates SLA urgency. P0 is the most urgent.
type TicketPriority string

const (
	TicketPriorityP0 TicketPriority = "P0"
	TicketPriorityP1 TicketPriority = "P1"
	TicketPriorityP2 TicketPriority = "P2"
	TicketPriorityP3 TicketPriority = "P3"
)

// KnownPriorities lists priorities from most to least urgent.
var KnownPriorities = []TicketPriority{
	TicketPriorityP0,
	TicketPriorityP1,
	TicketPriorityP2,
	TicketPriorityP3,
}

// IsKnown reports whether p is one of P0..P3.
func (p TicketPriority) IsKnown() bool {
	switch p {
	case TicketPriorityP0, TicketPriorityP1, TicketPriorityP2, TicketPriorityP3:
		return true
	}
	return false
}

// Ticket is the read-only view of a support request the SLA engine works on.
type Ticket struct {
	ID                string         `json:"id" yaml:"id"`
	SectorID          *string        `json:"sector_id,omitempty" yaml:"sector_id,omitempty"`
	Team              string         `json:"team,omitempty" yaml:"team,omitempty"`
	Priority          TicketPriority `json:"priority" yaml:"priority"`
	Status            TicketStatus   `json:"status" yaml:"status"`
	Tags              []string       `json:"tags,omitempty" yaml:"tags,omitempty"`
	CreatedAt         time.Time      `json:"created_at" yaml:"created_at"`
	FirstInProgressAt *time.Time     `json:"first_in_progress_at,omitempty" yaml:"first_in_progress_at,omitempty"`
	ResolvedAt        *time.Time     `json:"resolved_at,omitempty" yaml:"resolved_at,omitempty"`
	ExplicitDeadline  *time.Time     `json:"explicit_deadline,omitempty" yaml:"explicit_deadline,omitempty"`
}

// SectorLabel returns the grouping label used for per-sector breakdowns.
func (t *Ticket) SectorLabel() string {
	if t.SectorID != nil && *t.SectorID != "" {
		return *t.SectorID
	}
	if t.Team != "" {
		return t.Team
	}
	return UnassignedSector
}

// PrimaryTag returns the first tag, or NoTag when the ticket is untagged.
func (t *Ticket) PrimaryTag() string {
	if len(t.Tags) == 0 || t.Tags[0] == "" {
		return NoTag
	}
	return t.Tags[0]
}

const (
	// UnassignedSector labels tickets carrying neither a sector nor a team.
	UnassignedSector = "unassigned"
	// NoTag labels untagged tickets in per-tag statistics.
	NoTag = "(no tag)"
)
