package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/sistema-facturacion/internal/application/inventory"
	"github.com/jhoicas/sistema-facturacion/internal/application/usecase"
	"github.com/jhoicas/sistema-facturacion/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/sistema-facturacion/internal/interfaces/http"
	"github.com/jhoicas/sistema-facturacion/pkg/config"
	"github.com/jhoicas/sistema-facturacion/pkg/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	// Conexión única compartida; se abre en el primer uso.
	provider := postgres.NewConnectionProvider(cfg.DB, log)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Close(closeCtx); err != nil {
			log.Error().Err(err).Msg("cerrar conexión a PostgreSQL")
		}
	}()

	startCtx, cancelStart := context.WithTimeout(context.Background(), 10*time.Second)
	if err := provider.Ping(startCtx); err != nil {
		// La API arranca igual: las rutas responden 503 hasta que la base esté disponible.
		log.Warn().Err(err).Msg("PostgreSQL no disponible al iniciar")
	}
	cancelStart()

	productRepo := postgres.NewProductRepository(provider, log)
	txRunner := postgres.NewTxRunner(provider, log)
	productUC := usecase.NewProductUseCase(productRepo, txRunner)
	replenishmentUC := inventory.NewReplenishmentUseCase(productRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Sistema de Facturación API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := provider.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status":  "degraded",
				"service": cfg.App.Name,
				"db":      "unavailable",
			})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "db": "ok"})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:     productUC,
		Replenishment: replenishmentUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")
		return app.Listen(cfg.HTTP.Addr())
	})
	g.Go(func() error {
		<-gCtx.Done()
		log.Info().Msg("señal de apagado recibida, cerrando servidor...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("servidor HTTP finalizado con error")
	}

	log.Info().Msg("aplicación detenida")
}
