// seed importa productos desde un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed [ruta/productos.csv]
// Por defecto busca productos.csv en el directorio actual.
// Formato: codigo;nombre;descripcion;precio;stock;stock_minimo;iva (con encabezado).
// Los códigos que ya existen se omiten.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jhoicas/sistema-facturacion/internal/domain"
	"github.com/jhoicas/sistema-facturacion/internal/domain/entity"
	"github.com/jhoicas/sistema-facturacion/internal/domain/repository"
	"github.com/jhoicas/sistema-facturacion/internal/infrastructure/postgres"
	"github.com/jhoicas/sistema-facturacion/pkg/config"
	"github.com/jhoicas/sistema-facturacion/pkg/logger"
)

func main() {
	csvPath := "productos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	os.Exit(run(csvPath))
}

// run hace la importación y devuelve el código de salida, para que los defer se ejecuten
// antes de os.Exit.
func run(csvPath string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		return 1
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})

	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		return 1
	}
	defer f.Close()

	products, err := readProducts(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	provider := postgres.NewConnectionProvider(cfg.DB, log)
	defer func() {
		if err := provider.Close(context.Background()); err != nil {
			fmt.Fprintf(os.Stderr, "Cerrar conexión: %v\n", err)
		}
	}()
	repo := postgres.NewProductRepository(provider, log)

	created, skipped, err := importProducts(ctx, repo, products)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	fmt.Printf("Productos leídos: %d, creados: %d, omitidos (duplicados): %d\n", len(products), created, skipped)
	return 0
}

// importProducts crea cada producto; los códigos duplicados se cuentan y se omiten.
// Cualquier otro error corta la importación.
func importProducts(ctx context.Context, repo repository.ProductRepository, products []*entity.Product) (created, skipped int, err error) {
	for _, p := range products {
		err := repo.Create(ctx, p)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			return created, skipped, fmt.Errorf("crear %s: %w", p.Code, err)
		}
	}
	return created, skipped, nil
}
