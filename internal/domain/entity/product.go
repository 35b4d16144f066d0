package entity

import (
	"fmt"
	"strings"

	"github.com/jhoicas/sistema-facturacion/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductStatus estado lógico del producto. Solo los ACTIVO aparecen en las consultas.
type ProductStatus string

const (
	StatusActive   ProductStatus = "ACTIVO"
	StatusInactive ProductStatus = "INACTIVO"
)

// Valores por defecto de un producto nuevo.
const DefaultMinStock = 5

var (
	DefaultTaxPercent = decimal.RequireFromString("12.00")
	hundred           = decimal.NewFromInt(100)
)

// Product representa un artículo vendible del inventario.
// ID lo asigna la base de datos al crear; Code es el identificador de negocio (ej. "PROD-001").
type Product struct {
	ID          int64
	Code        string
	Name        string
	Description string          // opcional
	Price       decimal.Decimal // precio de venta sin IVA
	Stock       int
	MinStock    int             // umbral de reposición
	TaxPercent  decimal.Decimal // IVA en porcentaje (ej. 12.00)
	Status      ProductStatus
}

// NewProduct crea un producto vacío con los valores por defecto.
func NewProduct() *Product {
	return &Product{
		Price:      decimal.Zero,
		MinStock:   DefaultMinStock,
		TaxPercent: DefaultTaxPercent,
		Status:     StatusActive,
	}
}

// NewProductWith crea un producto con los datos básicos.
func NewProductWith(code, name string, price decimal.Decimal, stock int) *Product {
	p := NewProduct()
	p.Code = code
	p.Name = name
	p.Price = price
	p.Stock = stock
	return p
}

// PriceWithTax calcula precio + precio × IVA / 100 con aritmética decimal exacta.
func (p *Product) PriceWithTax() decimal.Decimal {
	return p.Price.Add(p.Price.Mul(p.TaxPercent).Div(hundred))
}

// HasSufficientStock indica si alcanza el stock para vender qty unidades.
func (p *Product) HasSufficientStock(qty int) bool {
	return p.Stock >= qty
}

// NeedsRestock es true cuando el stock está en o por debajo del mínimo.
func (p *Product) NeedsRestock() bool {
	return p.Stock <= p.MinStock
}

// IsActive indica si el producto es visible en las consultas.
func (p *Product) IsActive() bool {
	return p.Status == StatusActive
}

// Validate revisa los campos obligatorios antes de persistir.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Code) == "" || strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: código y nombre son requeridos", domain.ErrInvalidInput)
	}
	if p.Price.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	if p.TaxPercent.IsNegative() {
		return fmt.Errorf("%w: el IVA no puede ser negativo", domain.ErrInvalidInput)
	}
	if p.MinStock < 0 {
		return fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrInvalidInput)
	}
	switch p.Status {
	case StatusActive, StatusInactive:
	default:
		return fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, p.Status)
	}
	return nil
}

func (p *Product) String() string {
	return fmt.Sprintf("%s - %s ($%s)", p.Code, p.Name, p.Price.StringFixed(2))
}
