package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-escolar/internal/application/auth"
	"github.com/jhoicas/estoque-escolar/internal/application/inventory"
	"github.com/jhoicas/estoque-escolar/internal/application/notify"
	"github.com/jhoicas/estoque-escolar/internal/application/report"
	"github.com/jhoicas/estoque-escolar/internal/application/usecase"
	"github.com/jhoicas/estoque-escolar/internal/domain/entity"
	"github.com/jhoicas/estoque-escolar/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	ProductUC      *usecase.ProductUseCase
	UserUC         *usecase.UserUseCase
	Reconciliation *inventory.ReconciliationUseCase
	Reports        *report.Service
	Changes        notify.Subscriber
	// Shutdown cierra los streams SSE abiertos al apagar el servidor.
	Shutdown context.Context
	Log      *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Perfil de la sesión: autenticado pero sin exigir activación (pantalla "aguarde").
	authMW := AuthMiddleware(deps.AuthUC)
	api.Get("/me", authMW, authHandler.Me)

	// Rutas protegidas (requieren Bearer Token y perfil activo)
	protected := api.Group("/", authMW, RequireActive())

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/categories", productHandler.Categories)
	products.Get("/grouped", productHandler.Grouped)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Libro de entradas y salidas
	inventoryHandler := NewInventoryHandler(deps.Reconciliation, deps.Reports)
	entries := protected.Group("/entries")
	entries.Get("/", inventoryHandler.ListEntries)
	entries.Post("/", inventoryHandler.RecordEntry)
	entries.Put("/:id", inventoryHandler.EditEntry)
	entries.Delete("/:id", inventoryHandler.DeleteEntry)

	exits := protected.Group("/exits")
	exits.Get("/", inventoryHandler.ListExits)
	exits.Post("/", inventoryHandler.RecordExit)
	exits.Put("/:id", inventoryHandler.EditExit)
	exits.Delete("/:id", inventoryHandler.DeleteExit)

	// Alertas y reportes
	reportHandler := NewReportHandler(deps.Reports)
	protected.Get("/alerts/low-stock", reportHandler.LowStock)
	protected.Get("/reports/movements", reportHandler.Movements)
	protected.Get("/reports/movements/export", reportHandler.Export)

	// Users (solo admin)
	users := protected.Group("/users", RequireRole(entity.RoleAdmin))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Patch("/:id/active", userHandler.ToggleActive)
	users.Patch("/:id/role", userHandler.ChangeRole)

	// Cambios en tiempo real (SSE)
	changesHandler := NewChangesHandler(deps.Changes, deps.Shutdown, deps.Log)
	protected.Get("/changes", changesHandler.Stream)
}
