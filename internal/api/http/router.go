package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AaronAmha/HomeManagement/internal/api/http/handlers"
	"github.com/AaronAmha/HomeManagement/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Webhook        *handlers.WebhookHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Provider webhook; fiber answers 405 for other methods on the path.
	app.Post("/webhooks/sms", cfg.Webhook.HandleInbound)

	app.Post("/auth/login", cfg.Auth.Login)

	ops := app.Group("/tickets", cfg.AuthMiddleware.Handle)
	ops.Get("/", cfg.Tickets.ListTickets)
	ops.Get("/:id", cfg.Tickets.GetTicket)
}
