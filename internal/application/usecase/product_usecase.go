package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/sistema-facturacion/internal/application/dto"
	"github.com/jhoicas/sistema-facturacion/internal/domain"
	"github.com/jhoicas/sistema-facturacion/internal/domain/entity"
	"github.com/jhoicas/sistema-facturacion/internal/domain/repository"
)

// ProductUseCase casos de uso sobre productos. Los productos se identifican por código hacia afuera.
type ProductUseCase struct {
	repo repository.ProductRepository
	tx   TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, tx TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, tx: tx}
}

// Create crea un nuevo producto con los valores por defecto para lo que no venga.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := entity.NewProductWith(strings.TrimSpace(in.Code), strings.TrimSpace(in.Name), in.Price, in.Stock)
	product.Description = in.Description
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.TaxPercent != nil {
		product.TaxPercent = *in.TaxPercent
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindByCode(ctx, product.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: código %s", domain.ErrDuplicate, product.Code)
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByCode obtiene un producto activo por código. Devuelve (nil, nil) si no existe.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	product, err := uc.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista los productos activos ordenados por nombre.
func (uc *ProductUseCase) List(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toProductListResponse(list), nil
}

// Search busca productos activos por fragmento del nombre.
func (uc *ProductUseCase) Search(ctx context.Context, fragment string) (*dto.ProductListResponse, error) {
	list, err := uc.repo.FindByName(ctx, fragment)
	if err != nil {
		return nil, err
	}
	return toProductListResponse(list), nil
}

// LowStock lista los productos activos en o bajo su stock mínimo, los más agotados primero.
func (uc *ProductUseCase) LowStock(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toProductListResponse(list), nil
}

// Update aplica los campos enviados. Devuelve (nil, nil) si el código no existe o está inactivo.
func (uc *ProductUseCase) Update(ctx context.Context, code string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Stock != nil {
		product.Stock = *in.Stock
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.TaxPercent != nil {
		product.TaxPercent = *in.TaxPercent
	}
	if in.Status != nil {
		product.Status = entity.ProductStatus(strings.ToUpper(*in.Status))
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Delete marca el producto como INACTIVO.
func (uc *ProductUseCase) Delete(ctx context.Context, code string) error {
	product, err := uc.repo.FindByCode(ctx, code)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("%w: código %s", domain.ErrNotFound, code)
	}
	return uc.repo.Delete(ctx, product.ID)
}

// RegisterSale descuenta quantity del stock dentro de una transacción, solo si alcanza.
func (uc *ProductUseCase) RegisterSale(ctx context.Context, code string, quantity int) (*dto.ProductResponse, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor que cero", domain.ErrInvalidInput)
	}
	var out *entity.Product
	err := uc.tx.Run(ctx, func(repo repository.ProductRepository) error {
		product, err := repo.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: código %s", domain.ErrNotFound, code)
		}
		if !product.HasSufficientStock(quantity) {
			return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, product.Stock, quantity)
		}
		if err := repo.AdjustStock(ctx, product.ID, quantity); err != nil {
			return err
		}
		product.Stock -= quantity
		out = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(out), nil
}

func toProductListResponse(list []*entity.Product) *dto.ProductListResponse {
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		PriceWithTax: p.PriceWithTax(),
		Stock:        p.Stock,
		MinStock:     p.MinStock,
		TaxPercent:   p.TaxPercent,
		NeedsRestock: p.NeedsRestock(),
		Status:       string(p.Status),
	}
}
