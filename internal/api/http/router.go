package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/sla-service/internal/api/http/handlers"
	"github.com/spec-kit/sla-service/internal/auth"
	"github.com/spec-kit/sla-service/internal/domain"
	"github.com/spec-kit/sla-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	SLA            *handlers.SLAHandler
	Metrics        *observability.Metrics
	AuthMiddleware *auth.AuthMiddleware
	// ReportRoles restricts /sla to these staff roles; empty admits any staff.
	ReportRoles    []domain.StaffRole
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	sla := app.Group("/sla", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(cfg.ReportRoles...))
	sla.Get("/compliance", cfg.SLA.Compliance)
	sla.Get("/compliance/export", cfg.SLA.Export)
	sla.Get("/resolution-time", cfg.SLA.ResolutionTime)
	sla.Get("/tickets/:id", cfg.SLA.Ticket)
}
