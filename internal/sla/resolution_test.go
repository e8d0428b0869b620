package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sla-service/internal/domain"
)

func worked(id string, p domain.TicketPriority, startH, endH float64, tags ...string) domain.Ticket {
	tk := ticket(id, p, domain.TicketStatusResolved)
	tk.FirstInProgressAt = ptr(at(startH))
	tk.ResolvedAt = ptr(at(endH))
	tk.Tags = tags
	return tk
}

func TestAnalyzeResolution_PrimaryTagOnly(t *testing.T) {
	tickets := []domain.Ticket{worked("T", domain.TicketPriorityP1, 1, 5, "billing", "urgent")}

	report := AnalyzeResolution(tickets, domain.Window{})

	require.Contains(t, report.ByTag, "billing")
	assert.NotContains(t, report.ByTag, "urgent")
	assert.Equal(t, 1, report.ByTag["billing"].Count)
	assert.Equal(t, 4*3600.0, report.ByTag["billing"].AverageSeconds)
	assert.Equal(t, "4h", report.ByTag["billing"].Average)
	assert.Equal(t, 4*3600.0, report.AverageSeconds)
}

func TestAnalyzeResolution_Statistics(t *testing.T) {
	tickets := []domain.Ticket{
		worked("a", domain.TicketPriorityP0, 0, 1),
		worked("b", domain.TicketPriorityP0, 0, 3, "network"),
		worked("c", domain.TicketPriorityP2, 0, 2, "network", "vpn"),
		worked("d", domain.TicketPriorityP2, 0, 10),
	}

	report := AnalyzeResolution(tickets, domain.Window{})

	assert.Equal(t, 4, report.Count)
	assert.InDelta(t, 4*3600.0, report.AverageSeconds, 1e-9)
	require.NotNil(t, report.MedianSeconds)
	assert.InDelta(t, 2.5*3600, *report.MedianSeconds, 1e-9)
	assert.Equal(t, "2h 30m", report.Median)
	require.NotNil(t, report.P90Seconds)
	// Sorted hours 1,2,3,10; rank 2.7 -> 3 + 0.7*7.
	assert.InDelta(t, 7.9*3600, *report.P90Seconds, 1e-6)

	assert.Equal(t, 2, report.ByPriority[domain.TicketPriorityP0].Count)
	assert.InDelta(t, 2*3600.0, report.ByPriority[domain.TicketPriorityP0].AverageSeconds, 1e-9)
	assert.InDelta(t, 6*3600.0, report.ByPriority[domain.TicketPriorityP2].AverageSeconds, 1e-9)

	assert.Equal(t, 2, report.ByTag["network"].Count)
	assert.Equal(t, 2, report.ByTag[domain.NoTag].Count)
	assert.NotContains(t, report.ByTag, "vpn")
}

func TestAnalyzeResolution_Exclusions(t *testing.T) {
	missingStart := ticket("no-start", domain.TicketPriorityP1, domain.TicketStatusResolved)
	missingStart.ResolvedAt = ptr(at(2))
	open := ticket("open", domain.TicketPriorityP1, domain.TicketStatusInProgress)
	open.FirstInProgressAt = ptr(at(1))
	inverted := worked("inverted", domain.TicketPriorityP1, 5, 3)

	// Picked up and resolved before it was created.
	beforeCreated := ticket("before-created", domain.TicketPriorityP1, domain.TicketStatusResolved)
	beforeCreated.FirstInProgressAt = ptr(at(-10))
	beforeCreated.ResolvedAt = ptr(at(-2))

	undated := worked("undated", domain.TicketPriorityP1, 0, 100)
	undated.CreatedAt = time.Time{}

	tickets := []domain.Ticket{missingStart, open, inverted, beforeCreated, undated, worked("ok", domain.TicketPriorityP1, 1, 2)}
	report := AnalyzeResolution(tickets, domain.Window{})

	assert.Equal(t, 1, report.Count)
	assert.Equal(t, 3600.0, report.AverageSeconds)

	kinds := make(map[string]WarningKind, len(report.Warnings))
	for _, w := range report.Warnings {
		kinds[w.TicketID] = w.Kind
	}
	assert.Equal(t, map[string]WarningKind{
		"inverted":       WarnInvertedProgress,
		"before-created": WarnResolvedBeforeCreated,
		"undated":        WarnMissingCreatedAt,
	}, kinds)
}

func TestAnalyzeResolution_AgreesWithAggregateOnMalformedTickets(t *testing.T) {
	beforeCreated := ticket("before-created", domain.TicketPriorityP1, domain.TicketStatusResolved)
	beforeCreated.FirstInProgressAt = ptr(at(-10))
	beforeCreated.ResolvedAt = ptr(at(-2))
	tickets := []domain.Ticket{beforeCreated}

	report := AnalyzeResolution(tickets, domain.Window{})
	snap := Aggregate(tickets, NewPolicyTable(nil), at(24))

	assert.Equal(t, 0, report.Count)
	require.Len(t, report.Warnings, 1)
	require.Len(t, snap.Warnings, 1)
	assert.Equal(t, snap.Warnings[0].Kind, report.Warnings[0].Kind)
}

func TestAnalyzeResolution_ZeroDurationIncluded(t *testing.T) {
	report := AnalyzeResolution([]domain.Ticket{worked("z", domain.TicketPriorityP3, 2, 2)}, domain.Window{})
	assert.Equal(t, 1, report.Count)
	assert.Equal(t, 0.0, report.AverageSeconds)
}

func TestAnalyzeResolution_WindowFiltersByCreation(t *testing.T) {
	inside := worked("in", domain.TicketPriorityP1, 1, 2)
	outside := worked("out", domain.TicketPriorityP1, 1, 9)
	outside.CreatedAt = base.Add(-48 * time.Hour)

	window := domain.Window{Start: base.Add(-time.Hour), End: base.Add(time.Hour)}
	report := AnalyzeResolution([]domain.Ticket{inside, outside}, window)

	assert.Equal(t, 1, report.Count)
	assert.Equal(t, 3600.0, report.AverageSeconds)
}

func TestAnalyzeResolution_Empty(t *testing.T) {
	report := AnalyzeResolution(nil, domain.Window{})
	assert.Equal(t, 0, report.Count)
	assert.Nil(t, report.MedianSeconds)
	assert.Nil(t, report.P90Seconds)
	assert.Equal(t, "0m", report.Average)
	assert.Empty(t, report.ByTag)
}
