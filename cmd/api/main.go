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
	_ "github.com/jhoicas/Pedidos-api/docs"
	"github.com/jhoicas/Pedidos-api/internal/application/auth"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/application/usecase"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/datastore"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/localcache"
	infrapdf "github.com/jhoicas/Pedidos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Pedidos-api/internal/interfaces/http"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
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
		Str("cache", cfg.Cache.Driver).
		Bool("atomic_create", cfg.Orders.AtomicCreate).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Sin remoto la app arranca igual: catálogo desde caché, usuarios y login desde la semilla.
	if err := postgres.Ping(ctx, pool); err != nil {
		log.Warn().Err(err).Msg("almacén remoto no disponible, se usarán los respaldos locales")
	}

	cache, err := localcache.Open(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir caché local")
	}
	defer cache.Close()

	store := postgres.NewStore(pool)
	productRepo := datastore.NewProductRepository(store, cache, log.Component("products"))
	userRepo := datastore.NewUserRepository(store, log.Component("users"))
	orderRepo := datastore.NewOrderRepository(store, log.Component("orders"))

	var fallback ports.CredentialFallback
	if cfg.Fallback.SeedEnabled {
		seed, err := datastore.NewSeedDirectory()
		if err != nil {
			log.Fatal().Err(err).Msg("preparar credenciales de respaldo")
		}
		fallback = seed
	}

	var aggOpts []orders.Option
	if cfg.Orders.AtomicCreate {
		aggOpts = append(aggOpts, orders.WithTxRunner(
			datastore.NewOrderTxRunner(postgres.NewTxRunner(pool), log.Component("orders")),
		))
	}
	aggregator := orders.NewAggregator(orderRepo, productRepo, log.Component("aggregator"), aggOpts...)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)

	productUC := usecase.NewProductUseCase(productRepo)
	userUC := usecase.NewUserUseCase(userRepo)
	orderUC := usecase.NewOrderUseCase(aggregator, productRepo, userRepo, pdfGenerator, log.Component("orders"))
	authUC := auth.NewAuthUseCase(store, userRepo, fallback, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Component("auth"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    10 * 1024 * 1024, // CSV de catálogo
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Pedidos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		remote := "ok"
		if err := postgres.Ping(c.UserContext(), pool); err != nil {
			remote = "unavailable"
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "remote": remote})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ProductUC: productUC,
		UserUC:    userUC,
		OrderUC:   orderUC,
		JWTSecret: cfg.JWT.Secret,
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
