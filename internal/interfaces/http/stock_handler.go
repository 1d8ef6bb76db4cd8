package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ariefan/central-kitchen-sub010/internal/application/dto"
	"github.com/ariefan/central-kitchen-sub010/internal/application/inventory"
)

// StockHandler consulta existencias desde el libro (protegido).
type StockHandler struct {
	query *inventory.StockQuery
}

// NewStockHandler construye el handler de consultas de stock.
func NewStockHandler(query *inventory.StockQuery) *StockHandler {
	return &StockHandler{query: query}
}

// OnHand devuelve la existencia de (producto, bodega[, lote]) según el libro.
// Query params: product_id, warehouse_id (requeridos), lot_id (opcional).
func (h *StockHandler) OnHand(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	var lotID *string
	if v := c.Query("lot_id"); v != "" {
		lotID = &v
	}
	onHand, err := h.query.OnHand(c.Context(), GetCompanyID(c), productID, warehouseID, lotID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.OnHandResponse{
		ProductID:   productID,
		WarehouseID: warehouseID,
		LotID:       lotID,
		OnHand:      onHand,
	})
}
