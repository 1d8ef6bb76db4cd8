package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockCount es un conteo físico de inventario en una bodega.
// Al contabilizarse, cada línea genera un adjustment por la diferencia entre
// lo contado y la existencia según el libro (puede ser cero y no genera nada).
type StockCount struct {
	ID          string
	CompanyID   string
	WarehouseID string
	DocNo       string
	Status      string // draft, posted
	CountDate   time.Time
	Notes       string
	CreatedBy   string
	PostedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []StockCountLine
}

// StockCountLine línea de conteo: cantidad física encontrada.
type StockCountLine struct {
	ID           string
	StockCountID string
	ProductID    string
	LotID        *string
	CountedQty   decimal.Decimal // >= 0
	Note         string
}
