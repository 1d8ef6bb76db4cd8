package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un insumo o producto terminado de la cocina central.
// Cost es el último costo unitario conocido (se actualiza al recibir); las
// existencias y su valoración viven en el libro y las capas de costo, nunca aquí.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	BaseUnit    string // unidad base: g, ml, unidad...
	Cost        decimal.Decimal
	Perishable  bool // si true, los movimientos exigen número de lote
	// AllowNegativeStock define la política de consumo del producto: rechazar
	// con stock insuficiente (default) o permitir negativo al último costo
	// conocido. La política es por producto; nunca se mezclan las dos.
	AllowNegativeStock bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
