package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/sistema-facturacion/internal/application/usecase"
	"github.com/jhoicas/sistema-facturacion/internal/domain"
	"github.com/jhoicas/sistema-facturacion/internal/domain/repository"
	"github.com/jhoicas/sistema-facturacion/pkg/logger"
)

var _ usecase.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción sobre la conexión compartida.
type TxRunner struct {
	provider *ConnectionProvider
	log      *logger.Logger
}

// NewTxRunner construye el runner con el proveedor de conexión.
func NewTxRunner(provider *ConnectionProvider, log *logger.Logger) *TxRunner {
	return &TxRunner{provider: provider, log: log}
}

// Run inicia una transacción, ejecuta fn con un repositorio atado a la tx y hace Commit o Rollback.
// La conexión queda tomada durante toda la transacción.
func (r *TxRunner) Run(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error {
	return r.provider.WithConn(ctx, func(conn *pgx.Conn) error {
		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("%w: begin transaction: %w", domain.ErrStatementFailure, err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if err := fn(NewProductRepository(tx, r.log)); err != nil {
			return err
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("%w: commit transaction: %w", domain.ErrStatementFailure, err)
		}
		return nil
	})
}
