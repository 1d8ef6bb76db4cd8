package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ariefan/central-kitchen-sub010/internal/application/auth"
	"github.com/ariefan/central-kitchen-sub010/internal/application/catalog"
	"github.com/ariefan/central-kitchen-sub010/internal/application/inventory"
	"github.com/ariefan/central-kitchen-sub010/internal/application/posting"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	CatalogUC       *catalog.UseCase
	GoodsReceiptUC  *posting.GoodsReceiptUseCase
	OrderUC         *posting.OrderUseCase
	TransferUC      *posting.TransferUseCase
	StockCountUC    *posting.StockCountUseCase
	AdjustmentUC    *posting.AdjustmentUseCase
	StockQuery      *inventory.StockQuery
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora: bootstrap de tenants)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CatalogUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Solo admin y bodeguero pueden contabilizar/anular documentos.
	canPost := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.CatalogUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Goods receipts
	receipts := protected.Group("/goods-receipts")
	receiptHandler := NewGoodsReceiptHandler(deps.GoodsReceiptUC)
	receipts.Post("/", receiptHandler.Create)
	receipts.Get("/:id", receiptHandler.GetByID)
	receipts.Post("/:id/post", canPost, receiptHandler.Post)
	receipts.Post("/:id/void", canPost, receiptHandler.Void)

	// Orders
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	orders.Post("/", orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/post", canPost, orderHandler.Post)
	orders.Post("/:id/void", canPost, orderHandler.Void)

	// Transfers
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/post", canPost, transferHandler.Post)
	transfers.Post("/:id/void", canPost, transferHandler.Void)

	// Stock counts
	counts := protected.Group("/stock-counts")
	countHandler := NewStockCountHandler(deps.StockCountUC)
	counts.Post("/", countHandler.Create)
	counts.Get("/:id", countHandler.GetByID)
	counts.Post("/:id/post", canPost, countHandler.Post)

	// Adjustments
	adjustments := protected.Group("/adjustments")
	adjustmentHandler := NewAdjustmentHandler(deps.AdjustmentUC)
	adjustments.Post("/", adjustmentHandler.Create)
	adjustments.Get("/:id", adjustmentHandler.GetByID)
	adjustments.Post("/:id/post", canPost, adjustmentHandler.Post)

	// Stock (consulta de existencias desde el libro)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockQuery)
	stock.Get("/on-hand", stockHandler.OnHand)
}
