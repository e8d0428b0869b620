package dto

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/service"
	"github.com/spec-kit/sla-service/internal/sla"
	apperrors "github.com/spec-kit/sla-service/pkg/util/errorutil"
)

var validate = validator.New()

// ReportQuery captures the window and sector filters of reporting endpoints.
type ReportQuery struct {
	From     string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To       string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	SectorID string `query:"sector_id" validate:"omitempty,max=128"`
}

// Validate checks field formats and returns a validation DomainError naming
// each offending query parameter.
func (q ReportQuery) Validate() error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewInternalError(err)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[queryName(fe.Field())] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid query parameters", details)
}

// ToServiceQuery resolves defaults: to = now, from = to - defaultSpan.
func (q ReportQuery) ToServiceQuery(now time.Time, defaultSpan time.Duration) (service.ReportQuery, error) {
	if err := q.Validate(); err != nil {
		return service.ReportQuery{}, err
	}

	end := now
	if q.To != "" {
		end, _ = time.Parse(time.RFC3339, q.To)
	}
	start := end.Add(-defaultSpan)
	if q.From != "" {
		start, _ = time.Parse(time.RFC3339, q.From)
	}
	window := domain.Window{Start: start, End: end}
	if !window.Valid() {
		return service.ReportQuery{}, apperrors.NewValidationError("from must be before to", map[string]any{
			"from": start.Format(time.RFC3339),
			"to":   end.Format(time.RFC3339),
		})
	}

	out := service.ReportQuery{Window: window, Now: now}
	if q.SectorID != "" {
		sector := q.SectorID
		out.SectorID = &sector
	}
	return out, nil
}

func queryName(field string) string {
	switch field {
	case "From":
		return "from"
	case "To":
		return "to"
	case "SectorID":
		return "sector_id"
	}
	return field
}

// TicketSLAResponse is the per-ticket classification payload.
type TicketSLAResponse struct {
	TicketID    string                `json:"ticket_id"`
	Status      domain.TicketStatus   `json:"status"`
	Priority    domain.TicketPriority `json:"priority"`
	PolicyHours float64               `json:"policy_hours"`
	Deadline    *time.Time            `json:"deadline"`
	IsOverdue   bool                  `json:"is_overdue"`
	// IsCompliant is null until the ticket is finished and evaluable.
	IsCompliant  *bool             `json:"is_compliant"`
	SlackSeconds *float64          `json:"slack_seconds"`
	Slack        string            `json:"slack,omitempty"`
	Warnings     []sla.DataWarning `json:"warnings,omitempty"`
}

// NewTicketSLAResponse maps a service result to the response payload.
func NewTicketSLAResponse(result *service.TicketSLA) TicketSLAResponse {
	cl := result.Classification
	resp := TicketSLAResponse{
		TicketID:     cl.TicketID,
		Status:       cl.Status,
		Priority:     cl.Priority,
		PolicyHours:  cl.PolicyHours,
		Deadline:     cl.Deadline,
		IsOverdue:    cl.IsOverdue,
		SlackSeconds: result.SlackSeconds,
		Warnings:     cl.Warnings,
	}
	if cl.Evaluated {
		compliant := cl.IsCompliant
		resp.IsCompliant = &compliant
	}
	if s := result.SlackSeconds; s != nil {
		if *s < 0 {
			resp.Slack = "-" + sla.FormatSeconds(-*s)
		} else {
			resp.Slack = sla.FormatSeconds(*s)
		}
	}
	return resp
}
