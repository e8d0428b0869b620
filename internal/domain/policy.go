package domain

// Policy holds per-priority resolution budgets, in hours, for one sector.
// A nil budget means the field was never configured.
type Policy struct {
	SectorID string   `json:"sector_id" yaml:"sector_id"`
	P0Hours  *float64 `json:"p0_hours" yaml:"p0_hours"`
	P1Hours  *float64 `json:"p1_hours" yaml:"p1_hours"`
	P2Hours  *float64 `json:"p2_hours" yaml:"p2_hours"`
	P3Hours  *float64 `json:"p3_hours" yaml:"p3_hours"`
}

// Hours returns the configured budget for priority, if any.
func (p Policy) Hours(priority TicketPriority) (float64, bool) {
	var v *float64
	switch priority {
	case TicketPriorityP0:
		v = p.P0Hours
	case TicketPriorityP1:
		v = p.P1Hours
	case TicketPriorityP2:
		v = p.P2Hours
	case TicketPriorityP3:
		v = p.P3Hours
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

func hours(v float64) *float64 { return &v }

// SystemDefaultPolicy applies to sectors without a policy of their own.
var SystemDefaultPolicy = Policy{
	P0Hours: hours(4),
	P1Hours: hours(24),
	P2Hours: hours(72),
	P3Hours: hours(168),
}
