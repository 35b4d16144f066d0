package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sistema-facturacion/internal/application/inventory"
)

// InventoryHandler expone los reportes de inventario.
type InventoryHandler struct {
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{replenishment: replenishment}
}

// Replenishment godoc
// @Summary      Lista de reposición (stock <= mínimo, más agotados primero)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ReplenishmentSuggestionDTO
// @Router       /api/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.GenerateReplenishmentList(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
