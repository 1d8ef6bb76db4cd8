package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ariefan/central-kitchen-sub010/internal/application/auth"
	"github.com/ariefan/central-kitchen-sub010/internal/application/catalog"
	"github.com/ariefan/central-kitchen-sub010/internal/application/inventory"
	"github.com/ariefan/central-kitchen-sub010/internal/application/posting"
	"github.com/ariefan/central-kitchen-sub010/internal/infrastructure/postgres"
	httpRouter "github.com/ariefan/central-kitchen-sub010/internal/interfaces/http"
	"github.com/ariefan/central-kitchen-sub010/pkg/config"
	"github.com/ariefan/central-kitchen-sub010/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repos atados al pool: solo lecturas y catálogo. Todo lo que muta
	// inventario pasa por el TxRunner con repos atados a la transacción.
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	ledgerRepo := postgres.NewStockLedgerRepository(pool)

	txRunner := postgres.NewTxRunner(pool)
	engine := inventory.NewEngine()

	goodsReceiptUC := posting.NewGoodsReceiptUseCase(txRunner, engine)
	orderUC := posting.NewOrderUseCase(txRunner, engine)
	transferUC := posting.NewTransferUseCase(txRunner, engine)
	stockCountUC := posting.NewStockCountUseCase(txRunner, engine)
	adjustmentUC := posting.NewAdjustmentUseCase(txRunner, engine)
	stockQuery := inventory.NewStockQuery(ledgerRepo)

	catalogUC := catalog.NewUseCase(companyRepo, warehouseRepo, productRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CatalogUC:      catalogUC,
		GoodsReceiptUC: goodsReceiptUC,
		OrderUC:        orderUC,
		TransferUC:     transferUC,
		StockCountUC:   stockCountUC,
		AdjustmentUC:   adjustmentUC,
		StockQuery:     stockQuery,
		JWTSecret:      cfg.JWT.Secret,
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
