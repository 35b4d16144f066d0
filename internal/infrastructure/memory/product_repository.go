// Package memory implementa los puertos de repositorio en memoria, para tests y herramientas
// que no necesitan PostgreSQL. Replica la semántica de las consultas SQL.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/sistema-facturacion/internal/domain"
	"github.com/jhoicas/sistema-facturacion/internal/domain/entity"
	"github.com/jhoicas/sistema-facturacion/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo guarda copias de los productos; nunca retiene los punteros recibidos.
type ProductRepo struct {
	mu     sync.RWMutex
	rows   map[int64]entity.Product
	nextID int64
}

// NewProductRepository crea un repositorio vacío.
func NewProductRepository() *ProductRepo {
	return &ProductRepo{rows: make(map[int64]entity.Product)}
}

func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.rows {
		if p.Code == product.Code {
			return fmt.Errorf("%w: código %s", domain.ErrDuplicate, product.Code)
		}
	}
	r.nextID++
	row := *product
	row.ID = r.nextID
	row.Status = entity.StatusActive
	r.rows[row.ID] = row
	product.ID = row.ID
	return nil
}

func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[product.ID]
	if !ok {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, product.ID)
	}
	row.Name = product.Name
	row.Description = product.Description
	row.Price = product.Price
	row.Stock = product.Stock
	row.MinStock = product.MinStock
	row.TaxPercent = product.TaxPercent
	row.Status = product.Status
	r.rows[row.ID] = row
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	row.Status = entity.StatusInactive
	r.rows[id] = row
	return nil
}

func (r *ProductRepo) FindByCode(_ context.Context, code string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.sortedBy(byID) {
		if p.Code == code && p.IsActive() {
			return p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) ListAll(_ context.Context) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active(r.sortedBy(func(a, b *entity.Product) bool { return a.Name < b.Name }), nil), nil
}

func (r *ProductRepo) FindByName(_ context.Context, fragment string) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active(r.sortedBy(byID), func(p *entity.Product) bool {
		return strings.Contains(p.Name, fragment)
	}), nil
}

func (r *ProductRepo) ListLowStock(_ context.Context) ([]*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active(r.sortedBy(func(a, b *entity.Product) bool { return a.Stock < b.Stock }),
		(*entity.Product).NeedsRestock), nil
}

func (r *ProductRepo) AdjustStock(_ context.Context, id int64, quantitySold int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	row.Stock -= quantitySold
	r.rows[id] = row
	return nil
}

func byID(a, b *entity.Product) bool { return a.ID < b.ID }

// sortedBy devuelve copias de todas las filas, ordenadas por less y luego por ID.
func (r *ProductRepo) sortedBy(less func(a, b *entity.Product) bool) []*entity.Product {
	list := make([]*entity.Product, 0, len(r.rows))
	for _, row := range r.rows {
		p := row
		list = append(list, &p)
	}
	sort.SliceStable(list, func(i, j int) bool { return byID(list[i], list[j]) })
	sort.SliceStable(list, func(i, j int) bool { return less(list[i], list[j]) })
	return list
}

func (r *ProductRepo) active(list []*entity.Product, keep func(*entity.Product) bool) []*entity.Product {
	out := make([]*entity.Product, 0, len(list))
	for _, p := range list {
		if p.IsActive() && (keep == nil || keep(p)) {
			out = append(out, p)
		}
	}
	return out
}

// TxRunner simula el límite transaccional: si fn falla, restaura el estado previo.
type TxRunner struct {
	repo *ProductRepo
	mu   sync.Mutex
}

// NewTxRunner construye el runner sobre repo.
func NewTxRunner(repo *ProductRepo) *TxRunner {
	return &TxRunner{repo: repo}
}

func (t *TxRunner) Run(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.repo.mu.RLock()
	snapshot := make(map[int64]entity.Product, len(t.repo.rows))
	for id, row := range t.repo.rows {
		snapshot[id] = row
	}
	nextID := t.repo.nextID
	t.repo.mu.RUnlock()

	if err := fn(t.repo); err != nil {
		t.repo.mu.Lock()
		t.repo.rows = snapshot
		t.repo.nextID = nextID
		t.repo.mu.Unlock()
		return err
	}
	return nil
}
