package sla

import "fmt"

// Direction is the sign of a period-over-period change.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// Trend compares one metric across two windows.
type Trend struct {
	Current   float64   `json:"current"`
	Previous  float64   `json:"previous"`
	Delta     float64   `json:"delta"`
	DeltaPct  float64   `json:"delta_pct"`
	Direction Direction `json:"direction"`
	Display   string    `json:"display"`
}

// Compare returns the trend from previous to current, or nil when previous is
// zero: there is no meaningful percentage change from nothing.
func Compare(current, previous float64) *Trend {
	if previous == 0 {
		return nil
	}
	delta := current - previous
	t := &Trend{
		Current:   current,
		Previous:  previous,
		Delta:     delta,
		DeltaPct:  100 * delta / previous,
		Direction: DirectionFlat,
	}
	switch {
	case delta > 0:
		t.Direction = DirectionUp
	case delta < 0:
		t.Direction = DirectionDown
	}
	t.Display = t.badge()
	return t
}

// RoundedPct returns DeltaPct rounded to one decimal place, for display only.
func (t *Trend) RoundedPct() float64 {
	return round(t.DeltaPct, 1)
}

// badge renders the rounded change. A non-zero change too small to show at one
// decimal keeps its sign so the text never contradicts Direction.
func (t *Trend) badge() string {
	switch {
	case t.Direction == DirectionFlat:
		return "0.0%"
	case t.RoundedPct() == 0 && t.Direction == DirectionUp:
		return "+<0.1%"
	case t.RoundedPct() == 0:
		return "-<0.1%"
	}
	return fmt.Sprintf("%+.1f%%", t.RoundedPct())
}

// TrendReport holds the trends shown on the compliance dashboard.
// A nil entry means the metric had no previous value to compare against.
type TrendReport struct {
	Total         *Trend `json:"total,omitempty"`
	ResolvedTotal *Trend `json:"resolved_total,omitempty"`
	OverdueCount  *Trend `json:"overdue_count,omitempty"`
	CompliancePct *Trend `json:"compliance_pct,omitempty"`
}

// CompareSnapshots computes trends between the current and previous window.
func CompareSnapshots(current, previous *ComplianceSnapshot) TrendReport {
	if current == nil || previous == nil {
		return TrendReport{}
	}
	return TrendReport{
		Total:         Compare(float64(current.Total), float64(previous.Total)),
		ResolvedTotal: Compare(float64(current.ResolvedTotal), float64(previous.ResolvedTotal)),
		OverdueCount:  Compare(float64(current.OverdueCount), float64(previous.OverdueCount)),
		CompliancePct: Compare(current.CompliancePct, previous.CompliancePct),
	}
}
