package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/sistema-facturacion/internal/domain"
	"github.com/jhoicas/sistema-facturacion/internal/domain/entity"
	"github.com/jhoicas/sistema-facturacion/internal/domain/repository"
	"github.com/jhoicas/sistema-facturacion/pkg/logger"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id_producto, codigo, nombre, descripcion, precio, stock, stock_minimo, iva_porcentaje, estado`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL.
// Usable con el ConnectionProvider o con una tx (Querier); nunca cierra la conexión.
type ProductRepo struct {
	q   Querier
	log *logger.Logger
}

// NewProductRepository construye el adaptador de persistencia para productos.
func NewProductRepository(q Querier, log *logger.Logger) *ProductRepo {
	return &ProductRepo{q: q, log: log.Component("product_repository")}
}

// Create inserta el producto y asigna en product.ID el id generado. El estado lo fija la tabla (ACTIVO).
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (codigo, nombre, descripcion, precio, stock, stock_minimo, iva_porcentaje)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id_producto`
	var id int64
	err := r.q.QueryRow(ctx, query,
		product.Code, product.Name, nullableText(product.Description), product.Price,
		product.Stock, product.MinStock, product.TaxPercent,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			r.log.Warn().Str("op", "create").Str("code", product.Code).Msg("código de producto duplicado")
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, product.Code)
		}
		return r.fail("create product", err)
	}
	product.ID = id
	return nil
}

// Update sobrescribe los campos modificables. Código e ID no se actualizan.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET nombre = $2, descripcion = $3, precio = $4, stock = $5,
			stock_minimo = $6, iva_porcentaje = $7, estado = $8
		WHERE id_producto = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, nullableText(product.Description), product.Price,
		product.Stock, product.MinStock, product.TaxPercent, string(product.Status),
	)
	if err != nil {
		return r.fail("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, product.ID)
	}
	return nil
}

// Delete marca el producto como INACTIVO (borrado lógico). Repetirlo sobre la misma fila no falla.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET estado = $2 WHERE id_producto = $1`,
		id, string(entity.StatusInactive))
	if err != nil {
		return r.fail("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	return nil
}

// FindByCode obtiene el producto ACTIVO con ese código, o (nil, nil) si no existe.
func (r *ProductRepo) FindByCode(ctx context.Context, code string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE codigo = $1 AND estado = $2
		LIMIT 1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, code, string(entity.StatusActive)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, r.fail("find product by code", err)
	}
	return p, nil
}

// ListAll lista los productos activos ordenados por nombre.
func (r *ProductRepo) ListAll(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE estado = $1 ORDER BY nombre ASC`
	return r.list(ctx, "list products", query, string(entity.StatusActive))
}

// FindByName busca productos activos cuyo nombre contiene fragment (LIKE %fragment%).
func (r *ProductRepo) FindByName(ctx context.Context, fragment string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE nombre LIKE $1 AND estado = $2`
	return r.list(ctx, "find products by name", query, "%"+fragment+"%", string(entity.StatusActive))
}

// ListLowStock lista los productos activos con stock <= stock_minimo, los más agotados primero.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products WHERE stock <= stock_minimo AND estado = $1 ORDER BY stock ASC`
	return r.list(ctx, "list low stock", query, string(entity.StatusActive))
}

// AdjustStock descuenta quantitySold del stock. No valida que alcance: eso lo decide
// quien llama con Product.HasSufficientStock.
func (r *ProductRepo) AdjustStock(ctx context.Context, id int64, quantitySold int) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET stock = stock - $1 WHERE id_producto = $2`,
		quantitySold, id)
	if err != nil {
		return r.fail("adjust stock", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	return nil
}

func (r *ProductRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, r.fail(op, err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, r.fail(op, fmt.Errorf("scan product: %w", err))
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, r.fail(op, err)
	}
	return list, nil
}

// fail registra el error y lo tipa. Los errores de conexión ya vienen tipados (y registrados)
// desde el ConnectionProvider.
func (r *ProductRepo) fail(op string, err error) error {
	if domain.IsStorageUnavailable(err) {
		return err
	}
	r.log.Error().Err(err).Str("op", op).Msg("error en sentencia SQL")
	return fmt.Errorf("%w: %s: %w", domain.ErrStatementFailure, op, err)
}

// scanProduct mapea una fila (columnas en el orden de productColumns) a Product.
// Solo descripcion admite NULL.
func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p           entity.Product
		description *string
		status      string
	)
	if err := row.Scan(
		&p.ID, &p.Code, &p.Name, &description, &p.Price,
		&p.Stock, &p.MinStock, &p.TaxPercent, &status,
	); err != nil {
		return nil, err
	}
	if description != nil {
		p.Description = *description
	}
	p.Status = entity.ProductStatus(status)
	return &p, nil
}
