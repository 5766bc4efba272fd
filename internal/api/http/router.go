package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/helpdesk-kit/sla-service/internal/api/http/handlers"
	"github.com/helpdesk-kit/sla-service/internal/auth"
	"github.com/helpdesk-kit/sla-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Clients        *handlers.ClientsHandler
	Tickets        *handlers.TicketsHandler
	SLAConfig      *handlers.SLAConfigHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Users.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	adminOnly := auth.RequireRole(domain.RoleAdmin)

	protected.Post("/users", adminOnly, cfg.Users.CreateUser)

	protected.Post("/clients", adminOnly, cfg.Clients.CreateClient)
	protected.Get("/clients", cfg.Clients.ListClients)
	protected.Get("/clients/:id", cfg.Clients.GetClient)

	protected.Post("/tickets", cfg.Tickets.CreateTicket)
	protected.Get("/tickets", cfg.Tickets.ListTickets)

	// Fixed ticket sub-paths are registered before the :id wildcard.
	protected.Get("/tickets/metrics/dashboard", cfg.Reports.Dashboard)

	reports := protected.Group("/tickets/reports")
	reports.Get("/by-client", cfg.Reports.ByClient)
	reports.Get("/by-technician", cfg.Reports.ByTechnician)
	reports.Get("/active-by-technician", cfg.Reports.ActiveByTechnician)
	reports.Get("/average-resolution", cfg.Reports.AverageResolution)
	reports.Get("/sla-expired", cfg.Reports.SLAExpired)

	protected.Get("/tickets/:id", cfg.Tickets.GetTicket)
	protected.Put("/tickets/:id", cfg.Tickets.UpdateTicket)
	protected.Post("/tickets/:id/comments", cfg.Tickets.AddComment)
	protected.Post("/tickets/:id/attachments", cfg.Tickets.AddAttachment)

	protected.Get("/sla-config", cfg.SLAConfig.GetConfig)
	protected.Put("/sla-config", adminOnly, cfg.SLAConfig.PutConfig)
}
