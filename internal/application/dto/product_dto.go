package dto

import (
	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. MinStock y TaxPercent toman
// los valores por defecto (5 y 12.00) si no se envían.
type CreateProductRequest struct {
	Code        string           `json:"code" validate:"required,max=50"`
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	Stock       int              `json:"stock" validate:"min=0"`
	MinStock    *int             `json:"min_stock" validate:"omitempty,min=0"`
	TaxPercent  *decimal.Decimal `json:"tax_percent"`
}

// UpdateProductRequest entrada para actualizar un producto (el código no se modifica).
// Status acepta ACTIVO o INACTIVO sin distinguir mayúsculas.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Stock       *int             `json:"stock" validate:"omitempty,min=0"`
	MinStock    *int             `json:"min_stock" validate:"omitempty,min=0"`
	TaxPercent  *decimal.Decimal `json:"tax_percent"`
	Status      *string          `json:"status"`
}

// RegisterSaleRequest body para POST /api/products/:code/sales.
type RegisterSaleRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// ProductResponse salida de un producto, con los valores derivados.
type ProductResponse struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	PriceWithTax decimal.Decimal `json:"price_with_tax"`
	Stock        int             `json:"stock"`
	MinStock     int             `json:"min_stock"`
	TaxPercent   decimal.Decimal `json:"tax_percent"`
	NeedsRestock bool            `json:"needs_restock"`
	Status       string          `json:"status"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}
