package sla

import "github.com/spec-kit/sla-service/internal/domain"

// PolicyResolver returns the resolution budget in hours for a sector and priority.
type PolicyResolver interface {
	Resolve(sectorID *string, priority domain.TicketPriority) float64
}

// PolicyTable resolves budgets from sector policies, falling back to the system default.
type PolicyTable struct {
	bySector map[string]domain.Policy
}

// NewPolicyTable indexes policies by sector. A later duplicate replaces an earlier one.
func NewPolicyTable(policies []domain.Policy) *PolicyTable {
	bySector := make(map[string]domain.Policy, len(policies))
	for _, p := range policies {
		bySector[p.SectorID] = p
	}
	return &PolicyTable{bySector: bySector}
}

// Resolve applies the lookup order:
//  1. the sector's own budget for the priority;
//  2. the sector's own P3 budget when that priority is unset;
//  3. the system default for the priority.
//
// Unknown priorities resolve as P3.
func (t *PolicyTable) Resolve(sectorID *string, priority domain.TicketPriority) float64 {
	if !priority.IsKnown() {
		priority = domain.TicketPriorityP3
	}
	if t != nil && sectorID != nil {
		if policy, ok := t.bySector[*sectorID]; ok {
			if h, ok := policy.Hours(priority); ok {
				return h
			}
			if h, ok := policy.Hours(domain.TicketPriorityP3); ok {
				return h
			}
		}
	}
	h, _ := domain.SystemDefaultPolicy.Hours(priority)
	return h
}

// Len returns the number of sector policies in the table.
func (t *PolicyTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.bySector)
}
