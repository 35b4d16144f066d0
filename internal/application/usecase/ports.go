package usecase

import (
	"context"

	"github.com/jhoicas/sistema-facturacion/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un repositorio atado a esa tx.
// Es el límite transaccional para flujos de varios pasos (p. ej. validar stock y descontarlo).
type TxRunner interface {
	Run(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error
}
