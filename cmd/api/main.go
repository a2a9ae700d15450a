package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/globaltechnology/inventario-ventas/internal/application/analytics"
	"github.com/globaltechnology/inventario-ventas/internal/application/inventory"
	"github.com/globaltechnology/inventario-ventas/internal/application/sales"
	infracache "github.com/globaltechnology/inventario-ventas/internal/infrastructure/cache"
	infrapdf "github.com/globaltechnology/inventario-ventas/internal/infrastructure/pdf"
	"github.com/globaltechnology/inventario-ventas/internal/infrastructure/postgres"
	httpRouter "github.com/globaltechnology/inventario-ventas/internal/interfaces/http"
	"github.com/globaltechnology/inventario-ventas/pkg/config"
	"github.com/globaltechnology/inventario-ventas/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	location, err := time.LoadLocation(cfg.Stock.SalesTimezone)
	if err != nil {
		log.Warn().Err(err).Str("tz", cfg.Stock.SalesTimezone).Msg("zona horaria inválida, se usa UTC")
		location = time.UTC
	}

	// Caché consultiva: sin REDIS_ADDR (o sin conexión) los tableros van siempre a la BD.
	var (
		notifier  inventory.StockChangeNotifier
		dashCache appanalytics.Cache
	)
	if cfg.Redis.Addr != "" {
		client, err := infracache.Connect(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis no disponible, caché deshabilitada")
		} else {
			defer client.Close()
			stockCache := infracache.New(client, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
			notifier = stockCache
			dashCache = stockCache
		}
	}

	repos := postgres.NewTxRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	useCaseLog := log.Component("usecase")

	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, repos.Catalog, repos.Movements, notifier, useCaseLog)
	unitUC := inventory.NewUnitUseCase(txRunner, repos.Catalog, repos.Units, notifier, useCaseLog)
	stockUC := inventory.NewStockUseCase(repos.Catalog, repos.Units, repos.Movements)
	createSaleUC := sales.NewCreateSaleUseCase(txRunner, stockUC.Sources(), notifier, useCaseLog)
	salesQueryUC := sales.NewQueryUseCase(repos.Sales, infrapdf.NewReceiptGenerator(cfg.App.Name), location)
	dashboardUC := appanalytics.NewDashboardUseCase(repos.Units, repos.Movements, repos.Sales, dashCache, cfg.Stock.LowStockThreshold)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if cfg.App.SwaggerEnabled {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Inventario y Ventas API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Units:       unitUC,
		Movements:   registerMovementUC,
		Stock:       stockUC,
		CreateSale:  createSaleUC,
		SalesQuery:  salesQueryUC,
		DashboardUC: dashboardUC,
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

	log.Info().Msg("aplicación detenida")
}
