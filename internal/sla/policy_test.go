package sla

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/sla-service/internal/domain"
)

func TestPolicyTable_DefaultsWithoutPolicy(t *testing.T) {
	table := NewPolicyTable(nil)
	want := map[domain.TicketPriority]float64{
		domain.TicketPriorityP0: 4,
		domain.TicketPriorityP1: 24,
		domain.TicketPriorityP2: 72,
		domain.TicketPriorityP3: 168,
	}
	for p, hours := range want {
		assert.Equal(t, hours, table.Resolve(ptr("unknown-sector"), p), "priority %s", p)
		assert.Equal(t, hours, table.Resolve(nil, p), "nil sector, priority %s", p)
	}
}

func TestPolicyTable_SectorPolicy(t *testing.T) {
	table := NewPolicyTable([]domain.Policy{{
		SectorID: "billing",
		P0Hours:  ptr(2.0),
		P1Hours:  ptr(8.0),
		P2Hours:  ptr(48.0),
		P3Hours:  ptr(96.0),
	}})

	assert.Equal(t, 2.0, table.Resolve(ptr("billing"), domain.TicketPriorityP0))
	assert.Equal(t, 8.0, table.Resolve(ptr("billing"), domain.TicketPriorityP1))
	assert.Equal(t, 24.0, table.Resolve(ptr("support"), domain.TicketPriorityP1))
	assert.Equal(t, 1, table.Len())
}

func TestPolicyTable_PartialPolicyAnchorsToOwnP3(t *testing.T) {
	table := NewPolicyTable([]domain.Policy{{
		SectorID: "S",
		P0Hours:  ptr(4.0),
		P2Hours:  ptr(72.0),
		P3Hours:  ptr(168.0),
	}})

	assert.Equal(t, 168.0, table.Resolve(ptr("S"), domain.TicketPriorityP1))
}

func TestPolicyTable_PartialPolicyWithoutP3UsesDefault(t *testing.T) {
	table := NewPolicyTable([]domain.Policy{{SectorID: "S", P0Hours: ptr(1.0)}})

	assert.Equal(t, 1.0, table.Resolve(ptr("S"), domain.TicketPriorityP0))
	assert.Equal(t, 24.0, table.Resolve(ptr("S"), domain.TicketPriorityP1))
}

func TestPolicyTable_UnknownPriorityResolvesAsP3(t *testing.T) {
	table := NewPolicyTable([]domain.Policy{{SectorID: "S", P3Hours: ptr(100.0)}})

	assert.Equal(t, 100.0, table.Resolve(ptr("S"), domain.TicketPriority("P9")))
	assert.Equal(t, 168.0, table.Resolve(nil, domain.TicketPriority("")))
}

func TestPolicyTable_NilTable(t *testing.T) {
	var table *PolicyTable
	assert.Equal(t, 72.0, table.Resolve(ptr("S"), domain.TicketPriorityP2))
	assert.Equal(t, 0, table.Len())
}
