package dto

import "github.com/shopspring/decimal"

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su stock mínimo.
type ReplenishmentSuggestionDTO struct {
	ProductID         int64           `json:"product_id"`
	Code              string          `json:"code"`
	ProductName       string          `json:"product_name"`
	CurrentStock      int             `json:"current_stock"`
	MinStock          int             `json:"min_stock"`
	IdealStock        int             `json:"ideal_stock"`         // ceil(MinStock * 1.5)
	SuggestedOrderQty int             `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitPrice         decimal.Decimal `json:"unit_price"`
	Priority          int             `json:"priority"` // 1 = más urgente
}
