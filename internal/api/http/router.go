package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/repair-service/internal/api/http/handlers"
	"github.com/spec-kit/repair-service/internal/auth"
	"github.com/spec-kit/repair-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Login     *handlers.LoginHandler
	Dashboard *handlers.DashboardHandler
	Admin     *handlers.AdminHandler
	Session   *auth.SessionMiddleware
}

// NewApp builds the fiber app. Immutable keeps request values such as route
// params valid after the handler returns, since events carrying them are
// delivered asynchronously.
func NewApp(name string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   name,
		Immutable: true,
	})
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect(auth.DashboardPath, fiber.StatusSeeOther)
	})
	app.Get(auth.LoginPath, cfg.Login.Page)
	app.Post("/login/pin", cfg.Login.LoginByPin)
	app.Post("/login/badge", cfg.Login.LoginByBadge)
	app.Post("/login/badge/scan", cfg.Login.LoginByBadgeScan)
	app.Post("/badge/simulate", cfg.Login.SimulateBadge)
	app.Post("/logout", cfg.Login.Logout)

	app.Get(auth.DashboardPath, cfg.Session.Handle, cfg.Dashboard.Whoami)
	tickets := app.Group("/tickets", cfg.Session.Handle)
	tickets.Get("/", cfg.Dashboard.ListTickets)
	tickets.Post("/", cfg.Dashboard.CreateTicket)
	tickets.Patch("/:id/status", cfg.Dashboard.UpdateStatus)
	app.Post("/vin/scan", cfg.Session.Handle, cfg.Dashboard.ScanVIN)

	admin := app.Group("/admin", cfg.Session.Handle, auth.RequireRoleHandler(domain.RoleAdmin))
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/users", cfg.Admin.CreateUser)
	admin.Delete("/users/:id", cfg.Admin.RemoveUser)
	admin.Post("/users/:id/enroll", cfg.Admin.Enroll)
}
