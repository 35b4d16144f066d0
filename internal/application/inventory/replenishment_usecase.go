package inventory

import (
	"context"

	"github.com/jhoicas/sistema-facturacion/internal/application/dto"
	"github.com/jhoicas/sistema-facturacion/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var idealStockFactor = decimal.RequireFromString("1.5")

// ReplenishmentUseCase genera la lista de reposición a partir de los productos con stock bajo.
type ReplenishmentUseCase struct {
	repo repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(repo repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{repo: repo}
}

// GenerateReplenishmentList devuelve los productos en o bajo su stock mínimo con la cantidad
// sugerida de pedido. Conserva el orden del repositorio (más agotados primero) como prioridad.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for i, p := range items {
		ideal := int(decimal.NewFromInt(int64(p.MinStock)).Mul(idealStockFactor).Ceil().IntPart())
		suggested := ideal - p.Stock
		if suggested < 0 {
			suggested = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:         p.ID,
			Code:              p.Code,
			ProductName:       p.Name,
			CurrentStock:      p.Stock,
			MinStock:          p.MinStock,
			IdealStock:        ideal,
			SuggestedOrderQty: suggested,
			UnitPrice:         p.Price,
			Priority:          i + 1,
		})
	}
	return suggestions, nil
}
