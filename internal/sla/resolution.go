package sla

import (
	"fmt"
	"time"

	"github.com/spec-kit/sla-service/internal/domain"
)

// DurationStats is the mean time-to-resolution of one bucket.
type DurationStats struct {
	Count          int     `json:"count"`
	AverageSeconds float64 `json:"average_seconds"`
	Average        string  `json:"average"`

	total float64
}

func (d *DurationStats) add(seconds float64) {
	d.Count++
	d.total += seconds
}

func (d *DurationStats) finish() {
	if d.Count > 0 {
		d.AverageSeconds = d.total / float64(d.Count)
	}
	d.Average = FormatSeconds(d.AverageSeconds)
}

// ResolutionReport describes time from first pickup to resolution.
type ResolutionReport struct {
	Count          int      `json:"count"`
	AverageSeconds float64  `json:"average_seconds"`
	Average        string   `json:"average"`
	MedianSeconds  *float64 `json:"median_seconds,omitempty"`
	Median         string   `json:"median,omitempty"`
	P90Seconds     *float64 `json:"p90_seconds,omitempty"`
	P90            string   `json:"p90,omitempty"`

	ByPriority map[domain.TicketPriority]*DurationStats `json:"by_priority"`
	ByTag      map[string]*DurationStats                `json:"by_tag"`
	Warnings   []DataWarning                            `json:"warnings,omitempty"`
}

// AnalyzeResolution measures resolvedAt - firstInProgressAt for tickets created
// inside window (all tickets when window is zero). Tickets missing either
// timestamp are skipped. Tickets the aggregator would flag as malformed, and
// tickets resolved before pickup, are skipped and reported.
// Per-tag statistics attribute each ticket to its primary tag only.
func AnalyzeResolution(tickets []domain.Ticket, window domain.Window) ResolutionReport {
	report := ResolutionReport{
		ByPriority: make(map[domain.TicketPriority]*DurationStats),
		ByTag:      make(map[string]*DurationStats),
	}

	var durations []float64
	for i := range tickets {
		t := &tickets[i]
		if t.CreatedAt.IsZero() {
			report.Warnings = append(report.Warnings, DataWarning{TicketID: t.ID, Kind: WarnMissingCreatedAt})
			continue
		}
		if !window.IsZero() && !window.Contains(t.CreatedAt) {
			continue
		}
		if t.FirstInProgressAt == nil || t.ResolvedAt == nil {
			continue
		}
		if t.ResolvedAt.Before(t.CreatedAt) {
			report.Warnings = append(report.Warnings, DataWarning{
				TicketID: t.ID,
				Kind:     WarnResolvedBeforeCreated,
				Detail:   fmt.Sprintf("resolved %s before created %s", t.ResolvedAt.Format(time.RFC3339), t.CreatedAt.Format(time.RFC3339)),
			})
			continue
		}
		if t.ResolvedAt.Before(*t.FirstInProgressAt) {
			report.Warnings = append(report.Warnings, DataWarning{
				TicketID: t.ID,
				Kind:     WarnInvertedProgress,
				Detail:   fmt.Sprintf("resolved %s before in_progress %s", t.ResolvedAt.Format(time.RFC3339), t.FirstInProgressAt.Format(time.RFC3339)),
			})
			continue
		}

		seconds := t.ResolvedAt.Sub(*t.FirstInProgressAt).Seconds()
		durations = append(durations, seconds)
		bucketFor(report.ByPriority, t.Priority).add(seconds)
		bucketFor(report.ByTag, t.PrimaryTag()).add(seconds)
	}

	for _, b := range report.ByPriority {
		b.finish()
	}
	for _, b := range report.ByTag {
		b.finish()
	}

	report.Count = len(durations)
	if report.Count > 0 {
		var sum float64
		for _, d := range durations {
			sum += d
		}
		report.AverageSeconds = sum / float64(report.Count)

		med := median(durations)
		p90 := percentile(durations, 90)
		report.MedianSeconds = &med
		report.Median = FormatSeconds(med)
		report.P90Seconds = &p90
		report.P90 = FormatSeconds(p90)
	}
	report.Average = FormatSeconds(report.AverageSeconds)
	return report
}

func bucketFor[K comparable](m map[K]*DurationStats, key K) *DurationStats {
	b, ok := m[key]
	if !ok {
		b = &DurationStats{}
		m[key] = b
	}
	return b
}
