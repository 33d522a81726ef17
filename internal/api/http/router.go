package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/chat-service/internal/api/http/handlers"
	"github.com/spec-kit/chat-service/internal/observability"
	"github.com/spec-kit/chat-service/internal/storage"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *handlers.HealthHandler
	Users      *handlers.UsersHandler
	Moderation *handlers.ModerationHandler
	Board      *handlers.BoardHandler
	Settings   *handlers.SettingsHandler
	Socket     *handlers.SocketHandler
	Metrics    *observability.Metrics

	// AdminGuard runs before moderation routes; empty leaves them open.
	AdminGuard []fiber.Handler
	// UploadsDir is served at /uploads when set.
	UploadsDir string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Metrics.Registry, promhttp.HandlerOpts{})))
	}
	if cfg.UploadsDir != "" {
		app.Static(storage.UploadsRoute, cfg.UploadsDir)
	}
	if cfg.Socket != nil {
		app.Get("/ws", cfg.Socket.RequireUpgrade, cfg.Socket.Serve())
	}

	api := app.Group("/api")
	api.Post("/register", cfg.Users.Register)
	api.Post("/verify-otp", cfg.Users.VerifyOTP)
	api.Post("/login", cfg.Users.Login)

	api.Get("/messages", cfg.Board.ListMessages)
	api.Post("/messages", cfg.Board.PostMessage)
	api.Get("/viva-questions", cfg.Board.ListQuestions)
	api.Post("/viva-questions", cfg.Board.PostQuestion)
	api.Get("/settings", cfg.Settings.List)

	admin := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, cfg.AdminGuard...), h)
	}
	api.Get("/users", admin(cfg.Moderation.ListUsers)...)
	api.Put("/users/:id/approve", admin(cfg.Moderation.Approve)...)
	api.Delete("/users/:id", admin(cfg.Moderation.Remove)...)
	api.Put("/messages/:id/delete", admin(cfg.Board.DeleteMessage)...)
	api.Put("/viva-questions/:id/delete", admin(cfg.Board.DeleteQuestion)...)
	api.Put("/settings/:name", admin(cfg.Settings.Update)...)
}
