package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/olivernygren/sponge-boss/internal/api/http/handlers"
	"github.com/olivernygren/sponge-boss/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health            *handlers.HealthHandler
	Auth              *handlers.AuthHandler
	Admin             *handlers.AdminHandler
	Pages             *handlers.PagesHandler
	SessionMiddleware *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes. The session middleware only resolves the
// principal; page guards redirect and the gateway enforces roles per call.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Use(cfg.SessionMiddleware.Handle)

	app.Get("/auth/login", cfg.Auth.Login)
	app.Get("/auth/callback", cfg.Auth.Callback)
	app.Get("/auth/logout", cfg.Auth.Logout)

	app.Get("/", cfg.Pages.Home)
	app.Get("/unauthorized", cfg.Pages.Unauthorized)
	app.Get("/admin", auth.RequireAuth(), auth.RequireAdmin(), cfg.Pages.Admin)

	api := app.Group("/api")
	api.Get("/checklist", cfg.Admin.ListChecklist)

	adminAPI := api.Group("/admin")
	adminAPI.Get("/users", cfg.Admin.ListUsers)
	adminAPI.Post("/users", cfg.Admin.CreateUser)
	adminAPI.Put("/users/:id", cfg.Admin.UpdateUserSettings)
	adminAPI.Delete("/users/:id", cfg.Admin.DeleteUser)

	adminAPI.Post("/checklist", cfg.Admin.AddChecklistItem)
	adminAPI.Put("/checklist/order", cfg.Admin.UpdateChecklistOrder)
	adminAPI.Put("/checklist/:id", cfg.Admin.UpdateChecklistItem)
	adminAPI.Delete("/checklist/:id", cfg.Admin.DeleteChecklistItem)
}
