package entity

import "time"

// Lot identifica un lote físico de producto perecedero.
// Llave natural única: (empresa, producto, bodega, número de lote).
// Se crea al primer uso (find-or-create) y nunca se borra.
type Lot struct {
	ID          string
	CompanyID   string
	ProductID   string
	WarehouseID string
	LotNo       string
	ExpiryDate  *time.Time
	MfgDate     *time.Time
	ReceivedAt  time.Time
	Notes       string
	Metadata    map[string]any
	CreatedAt   time.Time
}
