package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/stock-ledger/internal/application/auth"
	"github.com/invorya/stock-ledger/internal/application/inventory"
	"github.com/invorya/stock-ledger/internal/application/usecase"
	"github.com/invorya/stock-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC  *usecase.CompanyUseCase
	StoreUC    *usecase.StoreUseCase
	CategoryUC *usecase.CategoryUseCase
	ItemUC     *usecase.ItemUseCase
	ApplyUC    *inventory.ApplyMovementUseCase
	TransferUC *inventory.TransferStockUseCase
	RecountUC  *inventory.RecountUseCase
	QueryUC    *inventory.QueryUseCase
	AuthUC     *auth.AuthUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stores (protegido; crear tiendas es de admin/manager)
	stores := protected.Group("/stores")
	storeHandler := NewStoreHandler(deps.StoreUC)
	stores.Post("/", RequireRole(entity.RoleAdmin, entity.RoleManager), storeHandler.Create)
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)

	// Categories (protegido; el catálogo lo administran admin/manager)
	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", RequireRole(entity.RoleAdmin, entity.RoleManager), categoryHandler.Create)
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.GetByID)

	// Items (protegido; el catálogo lo administran admin/manager)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", RequireRole(entity.RoleAdmin, entity.RoleManager), itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleManager), itemHandler.Update)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.ApplyUC, deps.TransferUC, deps.RecountUC, deps.QueryUC)
	// staff puede registrar movimientos, pero solo ventas (regla en el handler)
	invGroup.Post("/movements", inventoryHandler.ApplyMovement)
	invGroup.Post("/transfers", RequireRole(entity.RoleAdmin, entity.RoleManager), inventoryHandler.Transfer)
	invGroup.Post("/recounts", RequireRole(entity.RoleAdmin, entity.RoleManager), inventoryHandler.Recount)
	invGroup.Get("/stores/:storeId", inventoryHandler.ListStoreInventory)
	invGroup.Get("/stores/:storeId/movements", inventoryHandler.ListStoreMovements)
	invGroup.Get("/stores/:storeId/items/:itemId", inventoryHandler.GetRecord)
	invGroup.Get("/records/:recordId/movements", inventoryHandler.ListRecordMovements)
}
