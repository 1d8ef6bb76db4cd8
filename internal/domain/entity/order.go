package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order es una orden de venta o de cocina de un outlet.
// Al contabilizarse genera movimientos issue con el costo FIFO consumido.
type Order struct {
	ID          string
	CompanyID   string
	WarehouseID string
	DocNo       string
	Status      string // draft, posted, void
	OrderDate   time.Time
	Notes       string
	CreatedBy   string
	PostedAt    *time.Time
	VoidedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []OrderLine
}

// OrderLine línea de orden. LotID opcional: si viene, el consumo FIFO se
// restringe a ese lote.
type OrderLine struct {
	ID        string
	OrderID   string
	ProductID string
	LotID     *string
	Qty       decimal.Decimal // en unidad base, > 0
	Note      string
}
