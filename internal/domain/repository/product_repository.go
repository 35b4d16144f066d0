package repository

import (
	"context"

	"github.com/jhoicas/sistema-facturacion/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las búsquedas devuelven solo productos ACTIVO. FindByCode devuelve (nil, nil) si no existe.
// Update, Delete y AdjustStock devuelven domain.ErrNotFound si ninguna fila fue afectada.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) error
	FindByCode(ctx context.Context, code string) (*entity.Product, error)
	ListAll(ctx context.Context) ([]*entity.Product, error)
	FindByName(ctx context.Context, fragment string) ([]*entity.Product, error)
	ListLowStock(ctx context.Context) ([]*entity.Product, error)
	AdjustStock(ctx context.Context, id int64, quantitySold int) error
}
