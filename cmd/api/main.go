package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/ensambles-api/internal/application/assembly"
	"github.com/jhoicas/ensambles-api/internal/application/bom"
	"github.com/jhoicas/ensambles-api/internal/application/catalog"
	"github.com/jhoicas/ensambles-api/internal/application/inventory"
	"github.com/jhoicas/ensambles-api/internal/application/workorder"
	infraaudit "github.com/jhoicas/ensambles-api/internal/infrastructure/audit"
	"github.com/jhoicas/ensambles-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/ensambles-api/internal/interfaces/http"
	"github.com/jhoicas/ensambles-api/pkg/config"
	"github.com/jhoicas/ensambles-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	itemRepo := postgres.NewItemRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	lqRepo := postgres.NewLocationQuantityRepository(pool)
	lotRepo := postgres.NewItemLotRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	bomRepo := postgres.NewBOMRepository(pool)
	woRepo := postgres.NewWorkOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)
	auditSink := infraaudit.NewLogSink(log.Zerolog())

	catalogUC := catalog.NewCatalogUseCase(itemRepo, locationRepo, lqRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, itemRepo, locationRepo, movRepo, lotRepo, auditSink)
	bomUC := bom.NewBOMUseCase(bomRepo, itemRepo)
	assemblyUC := assembly.NewAssemblyUseCase(txRunner, itemRepo, locationRepo, bomRepo, auditSink)
	workOrderUC := workorder.NewWorkOrderUseCase(txRunner, woRepo, itemRepo, locationRepo, assemblyUC, auditSink)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Ensambles API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:   catalogUC,
		LedgerUC:    ledgerUC,
		BOMUC:       bomUC,
		AssemblyUC:  assemblyUC,
		WorkOrderUC: workOrderUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}
