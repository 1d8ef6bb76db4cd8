package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de documento origen de un movimiento (provenance obligatoria).
const (
	RefTypeGoodsReceipt = "goods_receipt"
	RefTypeOrder        = "order"
	RefTypeTransfer     = "transfer"
	RefTypeStockCount   = "stock_count"
	RefTypeAdjustment   = "adjustment"
)

// StockLedgerEntry es un hecho inmutable del libro de inventario.
// La suma de QtyDelta por (empresa, producto, bodega[, lote]) en cualquier
// instante es la existencia de esa llave; nada más en el sistema es fuente
// de verdad para el stock. Las filas nunca se actualizan ni se borran.
type StockLedgerEntry struct {
	ID          string
	CompanyID   string
	ProductID   string
	WarehouseID string
	LotID       *string
	Type        MovementType
	QtyDelta    decimal.Decimal  // con signo, en la unidad base del producto
	UnitCost    *decimal.Decimal // nil para movimientos de solo cantidad
	RefType     string           // ver constantes RefType*
	RefID       string
	Note        string
	Metadata    map[string]any
	CreatedBy   string
	OccurredAt  time.Time // fecha de negocio del movimiento
	CreatedAt   time.Time
}
