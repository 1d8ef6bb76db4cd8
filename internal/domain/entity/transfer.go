package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transfer es un traslado de stock entre bodegas (cocina central <-> outlet).
// Al contabilizarse genera transfer_out al costo FIFO de la bodega origen y
// transfer_in creando capa al mismo costo en la bodega destino, de modo que
// la conservación por bodega se mantiene.
type Transfer struct {
	ID              string
	CompanyID       string
	FromWarehouseID string
	ToWarehouseID   string
	DocNo           string
	Status          string // draft, posted, void
	TransferDate    time.Time
	Notes           string
	CreatedBy       string
	PostedAt        *time.Time
	VoidedAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Lines           []TransferLine
}

// TransferLine línea de traslado.
type TransferLine struct {
	ID         string
	TransferID string
	ProductID  string
	LotID      *string
	Qty        decimal.Decimal // en unidad base, > 0
	Note       string
}
