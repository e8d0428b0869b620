package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/sla-service/internal/cache"
	"github.com/spec-kit/sla-service/internal/config"
	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/observability"
	"github.com/spec-kit/sla-service/internal/repository"
	"github.com/spec-kit/sla-service/internal/sla"
	"github.com/spec-kit/sla-service/pkg/util/errorutil"
)

const (
	reportCompliance = "compliance"
	reportResolution = "resolution"
)

// ReportCache stores computed reports between requests.
type ReportCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

// ComplianceService runs the SLA engine over tickets loaded from storage.
type ComplianceService struct {
	tickets  repository.TicketRepository
	policies repository.PolicyRepository
	cache    ReportCache
	logger   *zap.Logger
	metrics  *observability.Metrics
	cfg      config.SLAConfig
}

// ComplianceDependencies bundles collaborators for the compliance service.
type ComplianceDependencies struct {
	TicketRepo repository.TicketRepository
	PolicyRepo repository.PolicyRepository
	Cache      ReportCache
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	Config     config.SLAConfig
}

// ReportQuery selects the tickets a report covers. Now is the reference clock.
type ReportQuery struct {
	Window   domain.Window
	SectorID *string
	Now      time.Time
}

// ComplianceReport is the dashboard payload for one window.
type ComplianceReport struct {
	Window         domain.Window           `json:"window"`
	PreviousWindow domain.Window           `json:"previous_window"`
	SectorID       *string                 `json:"sector_id,omitempty"`
	GeneratedAt    time.Time               `json:"generated_at"`
	Current        *sla.ComplianceSnapshot `json:"current"`
	Previous       *sla.ComplianceSnapshot `json:"previous"`
	Trends         sla.TrendReport         `json:"trends"`
}

// ResolutionTimeReport wraps the resolution analysis of one window.
type ResolutionTimeReport struct {
	Window      domain.Window `json:"window"`
	SectorID    *string       `json:"sector_id,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
	sla.ResolutionReport
}

// TicketSLA is the classification of a single ticket.
type TicketSLA struct {
	Ticket         *domain.Ticket     `json:"ticket"`
	Classification sla.Classification `json:"classification"`
	// SlackSeconds is positive while time remains and negative once overdue.
	SlackSeconds *float64 `json:"slack_seconds,omitempty"`
}

// NewComplianceService constructs the service.
func NewComplianceService(deps ComplianceDependencies) *ComplianceService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ComplianceService{
		tickets:  deps.TicketRepo,
		policies: deps.PolicyRepo,
		logger:   logger,
		metrics:  deps.Metrics,
		cfg:      deps.Config,
	}
	// A typed nil *cache.SnapshotCache would defeat the nil check below.
	if c, ok := deps.Cache.(*cache.SnapshotCache); !ok || c != nil {
		svc.cache = deps.Cache
	}
	return svc
}

// ComplianceReport computes the snapshot for q.Window and its preceding window.
func (s *ComplianceService) ComplianceReport(ctx context.Context, q ReportQuery) (*ComplianceReport, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	key := cache.ReportKey(reportCompliance, q.Window, q.SectorID, q.Now)
	var cached ComplianceReport
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	started := time.Now()
	previousWindow := q.Window.Previous()

	var (
		policies []domain.Policy
		current  []domain.Ticket
		previous []domain.Ticket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		policies, err = s.policies.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		current, err = s.loadTickets(gctx, q.Window, q.SectorID)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = s.loadTickets(gctx, previousWindow, q.SectorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errorutil.MapError(fmt.Errorf("load report data: %w", err))
	}

	report, err := BuildComplianceReport(ctx, ReportInput{
		Window:             q.Window,
		SectorID:           q.SectorID,
		Now:                q.Now,
		Policies:           policies,
		Current:            current,
		Previous:           previous,
		ParallelThreshold:  s.cfg.ParallelThreshold,
		ParallelPartitions: s.cfg.ParallelPartitions,
	})
	if err != nil {
		return nil, errorutil.MapError(err)
	}

	s.logWarnings(reportCompliance, report.Current.Warnings)
	s.metrics.SetCompliance(sectorLabel(q.SectorID), report.Current.CompliancePct)
	s.metrics.RecordReport(reportCompliance, time.Since(started))
	s.toCache(ctx, key, report)
	return report, nil
}

// ResolutionTime analyzes time-to-resolution for tickets created in q.Window.
func (s *ComplianceService) ResolutionTime(ctx context.Context, q ReportQuery) (*ResolutionTimeReport, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	key := cache.ReportKey(reportResolution, q.Window, q.SectorID, q.Now)
	var cached ResolutionTimeReport
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	started := time.Now()
	tickets, err := s.loadTickets(ctx, q.Window, q.SectorID)
	if err != nil {
		return nil, errorutil.MapError(fmt.Errorf("load tickets: %w", err))
	}

	report := &ResolutionTimeReport{
		Window:           q.Window,
		SectorID:         q.SectorID,
		GeneratedAt:      q.Now,
		ResolutionReport: sla.AnalyzeResolution(tickets, q.Window),
	}
	s.logWarnings(reportResolution, report.Warnings)
	s.metrics.RecordReport(reportResolution, time.Since(started))
	s.toCache(ctx, key, report)
	return report, nil
}

// ExportCompliance writes the compliance report for q as CSV.
func (s *ComplianceService) ExportCompliance(ctx context.Context, q ReportQuery, w io.Writer) error {
	report, err := s.ComplianceReport(ctx, q)
	if err != nil {
		return err
	}
	sector := ""
	if q.SectorID != nil {
		sector = *q.SectorID
	}
	if err := sla.WriteCSV(w, sla.ExportRows(report.Current, q.Window.Label(), sector)); err != nil {
		return errorutil.NewInternalError(fmt.Errorf("write export: %w", err))
	}
	return nil
}

// TicketStatus classifies one ticket against its sector policy at now.
func (s *ComplianceService) TicketStatus(ctx context.Context, id string, now time.Time) (*TicketSLA, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorutil.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, errorutil.MapError(fmt.Errorf("load ticket: %w", err))
	}

	var policies []domain.Policy
	if ticket.SectorID != nil {
		policy, err := s.policies.GetBySector(ctx, *ticket.SectorID)
		switch {
		case err == nil:
			policies = append(policies, *policy)
		case errors.Is(err, pgx.ErrNoRows):
		default:
			return nil, errorutil.MapError(fmt.Errorf("load policy: %w", err))
		}
	}

	result := ClassifyTicket(ticket, policies, now)
	s.logWarnings("ticket", result.Classification.Warnings)
	return result, nil
}

// loadTickets fetches one row past the configured limit so a window that would
// be truncated is rejected instead of silently under-counted.
func (s *ComplianceService) loadTickets(ctx context.Context, window domain.Window, sectorID *string) ([]domain.Ticket, error) {
	limit := s.cfg.TicketFetchLimit
	filter := repository.TicketFilter{
		CreatedFrom: window.Start,
		CreatedTo:   window.End,
		SectorID:    sectorID,
	}
	if limit > 0 {
		filter.Limit = limit + 1
	}
	tickets, err := s.tickets.ListCreatedBetween(ctx, filter)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(tickets) > limit {
		return nil, errorutil.NewValidationError("window holds more tickets than the fetch limit; narrow from/to", map[string]any{
			"limit": limit,
			"from":  window.Start,
			"to":    window.End,
		})
	}
	return tickets, nil
}

func (s *ComplianceService) fromCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	s.metrics.RecordCache(hit)
	return hit
}

func (s *ComplianceService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *ComplianceService) logWarnings(report string, warnings []sla.DataWarning) {
	for _, w := range warnings {
		s.logger.Warn("ticket data quality",
			zap.String("report", report),
			zap.String("ticket_id", w.TicketID),
			zap.String("kind", string(w.Kind)),
			zap.String("detail", w.Detail),
		)
		s.metrics.RecordDataWarning(string(w.Kind))
	}
}

func validateQuery(q ReportQuery) error {
	if !q.Window.Valid() {
		return errorutil.NewValidationError("from must be before to", map[string]any{
			"from": q.Window.Start,
			"to":   q.Window.End,
		})
	}
	if q.Now.IsZero() {
		return errorutil.NewValidationError("reference time is required", nil)
	}
	return nil
}

func sectorLabel(sectorID *string) string {
	if sectorID == nil {
		return "all"
	}
	return *sectorID
}
