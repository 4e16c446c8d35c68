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
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/wic-assist-api/internal/application/auth"
	"github.com/jhoicas/wic-assist-api/internal/application/basket"
	"github.com/jhoicas/wic-assist-api/internal/application/catalog"
	"github.com/jhoicas/wic-assist-api/internal/application/receipt"
	"github.com/jhoicas/wic-assist-api/internal/domain/repository"
	infrapdf "github.com/jhoicas/wic-assist-api/internal/infrastructure/pdf"
	"github.com/jhoicas/wic-assist-api/internal/infrastructure/postgres"
	"github.com/jhoicas/wic-assist-api/internal/infrastructure/rediscache"
	httpRouter "github.com/jhoicas/wic-assist-api/internal/interfaces/http"
	"github.com/jhoicas/wic-assist-api/pkg/config"
	"github.com/jhoicas/wic-assist-api/pkg/logger"
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

	userRepo := postgres.NewUserRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)

	// Catálogo APL: con caché Redis delante de PostgreSQL si está configurado.
	var productRepo repository.ProductRepository = postgres.NewProductRepository(pool)
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		ttl := time.Duration(cfg.Redis.TTLSeconds) * time.Second
		productRepo = rediscache.New(productRepo, rdb, ttl, log)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché Redis de catálogo activado")
	}

	// Persistencia write-behind de los documentos de beneficio
	writer := basket.NewWriter(ledgerRepo, log)
	writer.Start()
	defer writer.Stop()

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	basketUC := basket.NewUseCase(ledgerRepo, productRepo, writer, log)
	catalogUC := catalog.NewUseCase(productRepo)

	// PDF: recibo de la canasta con unidades WIC y PAID separadas
	receiptGenerator := infrapdf.NewMarotoReceiptGenerator()
	receiptUC := receipt.NewUseCase(basketUC, userRepo, receiptGenerator)

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
		Title:    "WIC Assist API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		BasketUC:  basketUC,
		CatalogUC: catalogUC,
		ReceiptUC: receiptUC,
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
