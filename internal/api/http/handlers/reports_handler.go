package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/sla-service/internal/service"
)

// ReportsHandler serves the dashboard and report projections.
type ReportsHandler struct {
	metrics *service.MetricsService
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(metrics *service.MetricsService, reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{metrics: metrics, reports: reports}
}

// Dashboard GET /tickets/metrics/dashboard.
func (h *ReportsHandler) Dashboard(c *fiber.Ctx) error {
	metrics, err := h.metrics.Dashboard(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}

// ByClient GET /tickets/reports/by-client.
func (h *ReportsHandler) ByClient(c *fiber.Ctx) error {
	rows, err := h.reports.TicketsByClient(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// ByTechnician GET /tickets/reports/by-technician.
func (h *ReportsHandler) ByTechnician(c *fiber.Ctx) error {
	rows, err := h.reports.TicketsByTechnician(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// ActiveByTechnician GET /tickets/reports/active-by-technician.
func (h *ReportsHandler) ActiveByTechnician(c *fiber.Ctx) error {
	rows, err := h.reports.OpenTicketsByTechnician(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// AverageResolution GET /tickets/reports/average-resolution.
func (h *ReportsHandler) AverageResolution(c *fiber.Ctx) error {
	rows, err := h.reports.AverageResolutionByTechnician(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

// SLAExpired GET /tickets/reports/sla-expired.
func (h *ReportsHandler) SLAExpired(c *fiber.Ctx) error {
	rows, err := h.reports.SLAExpired(c.Context())
	if err != nil {
		return err
	}
	items := make([]fiber.Map, 0, len(rows))
	for i := range rows {
		items = append(items, fiber.Map{
			"ticket":     ticketSummary(&rows[i].Ticket),
			"resolution": rows[i].Resolution,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}
