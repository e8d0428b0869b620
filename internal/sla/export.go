package sla

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spec-kit/sla-service/internal/domain"
)

// ExportHeader is the column layout of compliance CSV exports.
var ExportHeader = []string{"metric", "value", "ticket_count", "period", "sector"}

// ExportRow is one line of a compliance export.
type ExportRow struct {
	Metric      string `json:"metric"`
	Value       string `json:"value"`
	TicketCount int    `json:"ticket_count"`
	Period      string `json:"period"`
	Sector      string `json:"sector"`
}

// ExportRows flattens a snapshot into export rows, headline metrics first and
// then per-priority compliance in P0..P3 order, followed by unknown priorities.
func ExportRows(snap *ComplianceSnapshot, period, sector string) []ExportRow {
	if sector == "" {
		sector = "all"
	}
	row := func(metric, value string, count int) ExportRow {
		return ExportRow{Metric: metric, Value: value, TicketCount: count, Period: period, Sector: sector}
	}

	rows := []ExportRow{
		row("total_tickets", strconv.Itoa(snap.Total), snap.Total),
		row("resolved_tickets", strconv.Itoa(snap.ResolvedTotal), snap.ResolvedTotal),
		row("overdue_tickets", strconv.Itoa(snap.OverdueCount), snap.OverdueCount),
		row("sla_compliance", formatPct(snap.CompliancePct), snap.EvaluatedCount),
		row("avg_resolution_time", FormatSeconds(snap.AverageResolutionSeconds), snap.ResolutionCount),
	}

	for _, p := range orderedPriorities(snap.ByPriority) {
		b := snap.ByPriority[p]
		rows = append(rows, row("sla_compliance_"+string(p), formatPct(b.CompliancePct), b.EvaluatedCount))
	}
	return rows
}

// WriteCSV writes the header and rows to w.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{r.Metric, r.Value, strconv.Itoa(r.TicketCount), r.Period, r.Sector}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func orderedPriorities[V any](m map[domain.TicketPriority]V) []domain.TicketPriority {
	out := make([]domain.TicketPriority, 0, len(m))
	for _, p := range domain.KnownPriorities {
		if _, ok := m[p]; ok {
			out = append(out, p)
		}
	}
	var unknown []domain.TicketPriority
	for p := range m {
		if !p.IsKnown() {
			unknown = append(unknown, p)
		}
	}
	slices.Sort(unknown)
	return append(out, unknown...)
}
