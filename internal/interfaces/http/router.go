package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/controle-validade/internal/application/dashboard"
	"github.com/jhoicas/controle-validade/pkg/logger"
)

// Roles de Supabase con acceso al dashboard.
var dashboardRoles = []string{"authenticated", "service_role"}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Sessions *dashboard.Sessions
	Auth     AuthConfig
	Logger   *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	app.Use(RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "sessions": deps.Sessions.Len()})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Auth), RequireRole(dashboardRoles...))

	dash := protected.Group("/dashboard")
	h := NewDashboardHandler(deps.Sessions)
	dash.Get("/", h.Get)
	dash.Delete("/", h.Close)
	dash.Get("/snapshot", h.Snapshot)
	dash.Post("/refresh", h.Refresh)
	dash.Put("/filter", h.SetFilter)
	dash.Delete("/filter", h.ClearFilter)
	dash.Put("/limit", h.SetLimit)
	dash.Put("/search", h.SetSearch)
	dash.Post("/keys", h.Key)
	dash.Post("/selection/toggle", h.ToggleSelection)
	dash.Post("/selection/all", h.SelectAll)
	dash.Post("/selection/delete", h.DeleteSelected)
	dash.Post("/modal", h.OpenCreate)
	dash.Delete("/modal", h.CloseModal)
	dash.Put("/draft", h.UpdateDraft)
	dash.Post("/draft/submit", h.Submit)
	dash.Post("/products/:id/edit", h.OpenEdit)
	dash.Delete("/products/:id", h.DeleteProduct)
	dash.Get("/products/:id/copy", h.Copy)
	dash.Delete("/alert", h.DismissAlert)
	dash.Get("/report.pdf", h.Report)
}
