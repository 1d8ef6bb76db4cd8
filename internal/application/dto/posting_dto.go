package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Requests de documentos de inventario. Las cantidades y costos viajan como
// decimal (shopspring acepta número o string JSON); nunca float64.

// GoodsReceiptLineRequest línea de recepción.
type GoodsReceiptLineRequest struct {
	ProductID  string          `json:"product_id"`
	LotNo      string          `json:"lot_no"`
	ExpiryDate *time.Time      `json:"expiry_date"`
	MfgDate    *time.Time      `json:"mfg_date"`
	Qty        decimal.Decimal `json:"qty"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	Note       string          `json:"note"`
}

// CreateGoodsReceiptRequest borrador de recepción.
type CreateGoodsReceiptRequest struct {
	WarehouseID string                    `json:"warehouse_id"`
	DocNo       string                    `json:"doc_no"`
	Supplier    string                    `json:"supplier"`
	ReceiptDate time.Time                 `json:"receipt_date"`
	Notes       string                    `json:"notes"`
	Lines       []GoodsReceiptLineRequest `json:"lines"`
}

// OrderLineRequest línea de orden.
type OrderLineRequest struct {
	ProductID string          `json:"product_id"`
	LotID     *string         `json:"lot_id"`
	Qty       decimal.Decimal `json:"qty"`
	Note      string          `json:"note"`
}

// CreateOrderRequest borrador de orden.
type CreateOrderRequest struct {
	WarehouseID string             `json:"warehouse_id"`
	DocNo       string             `json:"doc_no"`
	OrderDate   time.Time          `json:"order_date"`
	Notes       string             `json:"notes"`
	Lines       []OrderLineRequest `json:"lines"`
}

// TransferLineRequest línea de traslado.
type TransferLineRequest struct {
	ProductID string          `json:"product_id"`
	LotID     *string         `json:"lot_id"`
	Qty       decimal.Decimal `json:"qty"`
	Note      string          `json:"note"`
}

// CreateTransferRequest borrador de traslado.
type CreateTransferRequest struct {
	FromWarehouseID string                `json:"from_warehouse_id"`
	ToWarehouseID   string                `json:"to_warehouse_id"`
	DocNo           string                `json:"doc_no"`
	TransferDate    time.Time             `json:"transfer_date"`
	Notes           string                `json:"notes"`
	Lines           []TransferLineRequest `json:"lines"`
}

// StockCountLineRequest línea de conteo.
type StockCountLineRequest struct {
	ProductID  string          `json:"product_id"`
	LotID      *string         `json:"lot_id"`
	CountedQty decimal.Decimal `json:"counted_qty"`
	Note       string          `json:"note"`
}

// CreateStockCountRequest borrador de conteo.
type CreateStockCountRequest struct {
	WarehouseID string                  `json:"warehouse_id"`
	DocNo       string                  `json:"doc_no"`
	CountDate   time.Time               `json:"count_date"`
	Notes       string                  `json:"notes"`
	Lines       []StockCountLineRequest `json:"lines"`
}

// AdjustmentLineRequest línea de ajuste (delta firmado).
type AdjustmentLineRequest struct {
	ProductID string           `json:"product_id"`
	LotID     *string          `json:"lot_id"`
	QtyDelta  decimal.Decimal  `json:"qty_delta"`
	UnitCost  *decimal.Decimal `json:"unit_cost"`
	Note      string           `json:"note"`
}

// CreateAdjustmentRequest borrador de ajuste.
type CreateAdjustmentRequest struct {
	WarehouseID string                  `json:"warehouse_id"`
	DocNo       string                  `json:"doc_no"`
	Reason      string                  `json:"reason"` // waste, spoilage, correction
	AdjustDate  time.Time               `json:"adjust_date"`
	Notes       string                  `json:"notes"`
	Lines       []AdjustmentLineRequest `json:"lines"`
}

// VoidRequest motivo de anulación.
type VoidRequest struct {
	Reason string `json:"reason"`
}

// OnHandResponse existencia de una llave de inventario.
type OnHandResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	LotID       *string         `json:"lot_id,omitempty"`
	OnHand      decimal.Decimal `json:"on_hand"`
}
