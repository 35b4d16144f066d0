package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sistema-facturacion/internal/application/inventory"
	"github.com/jhoicas/sistema-facturacion/internal/application/usecase"
	"github.com/jhoicas/sistema-facturacion/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	Replenishment *inventory.ReplenishmentUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	writers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/low-stock", productHandler.LowStock)
	products.Post("/", writers, productHandler.Create)
	products.Get("/:code", productHandler.GetByCode)
	products.Put("/:code", writers, productHandler.Update)
	products.Delete("/:code", RequireRole(jwt.RoleAdmin), productHandler.Delete)
	products.Post("/:code/sales", RequireRole(jwt.RoleAdmin, jwt.RoleVendedor), productHandler.RegisterSale)

	inventoryHandler := NewInventoryHandler(deps.Replenishment)
	api.Get("/inventory/replenishment", writers, inventoryHandler.Replenishment)
}
