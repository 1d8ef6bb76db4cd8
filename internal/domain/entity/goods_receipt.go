package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoodsReceipt es una recepción de mercancía en una bodega.
// Al contabilizarse genera un movimiento receipt y una capa de costo por línea.
type GoodsReceipt struct {
	ID          string
	CompanyID   string
	WarehouseID string
	DocNo       string
	Supplier    string
	Status      string // draft, posted, void
	ReceiptDate time.Time
	Notes       string
	CreatedBy   string
	PostedAt    *time.Time
	VoidedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []GoodsReceiptLine
}

// GoodsReceiptLine línea de recepción. LotNo/ExpiryDate solo para perecederos.
type GoodsReceiptLine struct {
	ID         string
	ReceiptID  string
	ProductID  string
	LotNo      string
	ExpiryDate *time.Time
	MfgDate    *time.Time
	Qty        decimal.Decimal // en unidad base, > 0
	UnitCost   decimal.Decimal
	Note       string
}
