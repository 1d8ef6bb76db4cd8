package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostLayer es una capa de costo FIFO: la cantidad restante de una entrada
// valorada al costo unitario de esa entrada. Se crea 1:1 con el movimiento
// de entrada que la origina; solo el motor decrementa QtyRemaining.
// Una capa agotada (QtyRemaining = 0) queda inerte pero se conserva para auditoría.
type CostLayer struct {
	ID           string
	CompanyID    string
	ProductID    string
	WarehouseID  string
	LotID        *string
	QtyReceived  decimal.Decimal
	QtyRemaining decimal.Decimal // monótona no creciente
	UnitCost     decimal.Decimal // inmutable desde la creación
	SourceType   string          // refType del movimiento que creó la capa
	SourceID     string
	CreatedAt    time.Time // define el orden FIFO (desempate por ID)
}

// LayerConsumption registra cuánto se consumió de una capa en una salida
// (rastro de auditoría de ConsumeFIFO).
type LayerConsumption struct {
	LayerID  string
	Qty      decimal.Decimal
	UnitCost decimal.Decimal
}
