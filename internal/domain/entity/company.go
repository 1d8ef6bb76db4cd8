package entity

import "time"

// Company representa una organización/tenant del sistema (multi-tenant).
// Toda fila del libro, capa de costo y lote lleva su CompanyID.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
