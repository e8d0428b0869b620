package sla

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/sla-service/internal/domain"
)

// Counts holds the additive counters of a compliance aggregate and the
// values derived from them.
type Counts struct {
	Total          int                         `json:"total"`
	ByStatus       map[domain.TicketStatus]int `json:"by_status"`
	OverdueCount   int                         `json:"overdue_count"`
	ResolvedTotal  int                         `json:"resolved_total"`
	CompliantCount int                         `json:"compliant_count"`
	// EvaluatedCount is the compliance denominator: finished tickets whose
	// timestamps allowed a verdict. It equals ResolvedTotal on clean data.
	EvaluatedCount  int           `json:"evaluated_count"`
	ResolutionTotal time.Duration `json:"resolution_total_ns"`
	ResolutionCount int           `json:"resolution_count"`

	CompliancePct            float64 `json:"compliance_pct"`
	AverageResolutionSeconds float64 `json:"average_resolution_seconds"`
}

func newCounts() *Counts {
	byStatus := make(map[domain.TicketStatus]int, len(domain.KnownStatuses))
	for _, s := range domain.KnownStatuses {
		byStatus[s] = 0
	}
	return &Counts{ByStatus: byStatus}
}

func (c *Counts) add(ticket *domain.Ticket, cl Classification) {
	c.Total++
	c.ByStatus[ticket.Status]++
	if ticket.Status.IsActive() && cl.IsOverdue {
		c.OverdueCount++
	}
	if !cl.Finished {
		return
	}
	c.ResolvedTotal++
	if !cl.Evaluated {
		return
	}
	c.EvaluatedCount++
	if cl.IsCompliant {
		c.CompliantCount++
	}
	if !ticket.CreatedAt.IsZero() {
		c.ResolutionTotal += ticket.ResolvedAt.Sub(ticket.CreatedAt)
		c.ResolutionCount++
	}
}

func (c *Counts) merge(o *Counts) {
	c.Total += o.Total
	for s, n := range o.ByStatus {
		c.ByStatus[s] += n
	}
	c.OverdueCount += o.OverdueCount
	c.ResolvedTotal += o.ResolvedTotal
	c.CompliantCount += o.CompliantCount
	c.EvaluatedCount += o.EvaluatedCount
	c.ResolutionTotal += o.ResolutionTotal
	c.ResolutionCount += o.ResolutionCount
}

// derive recomputes percentages from the counters. An empty denominator yields 0.
func (c *Counts) derive() {
	c.CompliancePct = 0
	if c.EvaluatedCount > 0 {
		c.CompliancePct = 100 * float64(c.CompliantCount) / float64(c.EvaluatedCount)
	}
	c.AverageResolutionSeconds = 0
	if c.ResolutionCount > 0 {
		c.AverageResolutionSeconds = c.ResolutionTotal.Seconds() / float64(c.ResolutionCount)
	}
}

// ComplianceSnapshot summarizes SLA compliance over a set of tickets.
type ComplianceSnapshot struct {
	Counts
	ByPriority map[domain.TicketPriority]*Counts `json:"by_priority"`
	BySector   map[string]int                    `json:"by_sector"`
	Warnings   []DataWarning                     `json:"warnings,omitempty"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *ComplianceSnapshot {
	return &ComplianceSnapshot{
		Counts:     *newCounts(),
		ByPriority: make(map[domain.TicketPriority]*Counts),
		BySector:   make(map[string]int),
	}
}

// Aggregate classifies every ticket at now and folds the results into a snapshot.
// Each ticket lands in exactly one status bucket; unknown statuses and priorities
// keep their own buckets so bad data stays visible.
func Aggregate(tickets []domain.Ticket, resolver PolicyResolver, now time.Time) *ComplianceSnapshot {
	snap := NewSnapshot()
	for i := range tickets {
		snap.add(&tickets[i], Classify(&tickets[i], resolver, now))
	}
	snap.derive()
	return snap
}

func (s *ComplianceSnapshot) add(ticket *domain.Ticket, cl Classification) {
	s.Counts.add(ticket, cl)
	bucket, ok := s.ByPriority[ticket.Priority]
	if !ok {
		bucket = newCounts()
		s.ByPriority[ticket.Priority] = bucket
	}
	bucket.add(ticket, cl)
	s.BySector[ticket.SectorLabel()]++
	s.Warnings = append(s.Warnings, cl.Warnings...)
}

func (s *ComplianceSnapshot) derive() {
	s.Counts.derive()
	for _, bucket := range s.ByPriority {
		bucket.derive()
	}
}

// Merge combines two snapshots over disjoint ticket sets. Counters are summed
// and percentages re-derived, so merging partitions equals aggregating the union.
// Neither input is modified.
func Merge(a, b *ComplianceSnapshot) *ComplianceSnapshot {
	out := NewSnapshot()
	for _, src := range []*ComplianceSnapshot{a, b} {
		if src == nil {
			continue
		}
		out.Counts.merge(&src.Counts)
		for p, bucket := range src.ByPriority {
			dst, ok := out.ByPriority[p]
			if !ok {
				dst = newCounts()
				out.ByPriority[p] = dst
			}
			dst.merge(bucket)
		}
		for sector, n := range src.BySector {
			out.BySector[sector] += n
		}
		out.Warnings = append(out.Warnings, src.Warnings...)
	}
	out.derive()
	return out
}

// AggregateParallel splits tickets into contiguous partitions, aggregates them
// concurrently and merges the partials in order. The result matches Aggregate.
func AggregateParallel(ctx context.Context, tickets []domain.Ticket, resolver PolicyResolver, now time.Time, partitions int) (*ComplianceSnapshot, error) {
	if partitions <= 1 || len(tickets) < partitions {
		return Aggregate(tickets, resolver, now), nil
	}

	size := (len(tickets) + partitions - 1) / partitions
	partials := make([]*ComplianceSnapshot, partitions)
	g, gCtx := errgroup.WithContext(ctx)
	for i := 0; i < partitions; i++ {
		lo := i * size
		hi := min(lo+size, len(tickets))
		if lo >= hi {
			partials[i] = NewSnapshot()
			continue
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			partials[i] = Aggregate(tickets[lo:hi], resolver, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := partials[0]
	for _, p := range partials[1:] {
		merged = Merge(merged, p)
	}
	return merged, nil
}
