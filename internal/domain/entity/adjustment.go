package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Motivos de ajuste.
const (
	AdjustmentReasonWaste      = "waste"      // merma / desperdicio
	AdjustmentReasonSpoilage   = "spoilage"   // vencimiento
	AdjustmentReasonCorrection = "correction" // corrección manual
)

// Adjustment es un ajuste manual de inventario (merma, vencimiento, corrección).
// Líneas con QtyDelta negativo consumen FIFO; positivas crean capa de costo
// (UnitCost obligatorio en ese caso).
type Adjustment struct {
	ID          string
	CompanyID   string
	WarehouseID string
	DocNo       string
	Reason      string // ver constantes AdjustmentReason*
	Status      string // draft, posted
	AdjustDate  time.Time
	Notes       string
	CreatedBy   string
	PostedAt    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []AdjustmentLine
}

// AdjustmentLine línea de ajuste con delta firmado.
type AdjustmentLine struct {
	ID           string
	AdjustmentID string
	ProductID    string
	LotID        *string
	QtyDelta     decimal.Decimal  // != 0, con signo
	UnitCost     *decimal.Decimal // obligatorio si QtyDelta > 0
	Note         string
}
