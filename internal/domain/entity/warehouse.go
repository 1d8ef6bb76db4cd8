package entity

import "time"

// Tipos de bodega/ubicación.
const (
	WarehouseTypeCentralKitchen = "central_kitchen"
	WarehouseTypeOutlet         = "outlet"
)

// Warehouse representa una ubicación física de inventario:
// la cocina central o un punto de venta (outlet).
type Warehouse struct {
	ID        string
	CompanyID string
	Code      string
	Name      string
	Type      string // ver constantes WarehouseType*
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
