package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventory-reconciliation/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Reconciliation *inventory.ReconciliationUseCase
	Sessions       *inventory.SessionQueryUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	invGroup := protected.Group("/inventory")
	h := NewInventoryHandler(deps.Reconciliation, deps.Sessions)

	sessions := invGroup.Group("/sessions")
	sessions.Get("/", h.ListSessions)
	sessions.Post("/", h.CreateSession)
	sessions.Get("/:id", h.GetSession)
	sessions.Get("/:id/pending-lines", h.PendingLines)
	sessions.Get("/:id/summary", h.Summary)
	sessions.Get("/:id/cursor", h.Cursor)
	sessions.Post("/:id/cursor/count", h.CursorCount)
	sessions.Patch("/:id/notes", h.UpdateNotes)
	// Cierre de sesión: solo supervisores
	sessions.Post("/:id/validate", RequireRole(RoleSupervisor, RoleAdmin), h.ValidateSession)
	sessions.Post("/:id/cancel", RequireRole(RoleSupervisor, RoleAdmin), h.CancelSession)

	invGroup.Post("/lines/:id/count", h.RecordCount)

	invGroup.Get("/movements", h.ListMovements)
	invGroup.Get("/movements/product/:productId", h.ListProductMovements)
}
