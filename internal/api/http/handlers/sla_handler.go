package handlers

import (
	"bytes"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-service/internal/api/dto"
	"github.com/spec-kit/sla-service/internal/service"
	apperrors "github.com/spec-kit/sla-service/pkg/util/errorutil"
)

// SLAHandler exposes compliance reporting endpoints.
type SLAHandler struct {
	service       *service.ComplianceService
	defaultWindow time.Duration
	now           func() time.Time
}

// NewSLAHandler constructs handler.
func NewSLAHandler(svc *service.ComplianceService, defaultWindow time.Duration) *SLAHandler {
	return &SLAHandler{service: svc, defaultWindow: defaultWindow, now: time.Now}
}

// WithClock replaces the reference clock read once per request.
func (h *SLAHandler) WithClock(now func() time.Time) *SLAHandler {
	h.now = now
	return h
}

// Compliance returns the current and previous window snapshots with trends.
func (h *SLAHandler) Compliance(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return err
	}
	report, err := h.service.ComplianceReport(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// ResolutionTime returns time-to-resolution statistics.
func (h *SLAHandler) ResolutionTime(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return err
	}
	report, err := h.service.ResolutionTime(c.UserContext(), q)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

// Export streams the compliance report as CSV.
func (h *SLAHandler) Export(c *fiber.Ctx) error {
	q, err := h.parseQuery(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := h.service.ExportCompliance(c.UserContext(), q, &buf); err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="sla-compliance-%s.csv"`, q.Window.Label()))
	return c.Send(buf.Bytes())
}

// Ticket returns the SLA classification of one ticket.
func (h *SLAHandler) Ticket(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return apperrors.NewValidationError("ticket id is required", nil)
	}
	result, err := h.service.TicketStatus(c.UserContext(), id, h.now())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketSLAResponse(result))
}

func (h *SLAHandler) parseQuery(c *fiber.Ctx) (service.ReportQuery, error) {
	var query dto.ReportQuery
	if err := c.QueryParser(&query); err != nil {
		return service.ReportQuery{}, apperrors.NewValidationError("invalid query parameters", nil)
	}
	return query.ToServiceQuery(h.now(), h.defaultWindow)
}
