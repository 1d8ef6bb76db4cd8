package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// StockLedgerRepository define el puerto del libro de inventario.
// El libro es append-only: solo inserta y lee, nunca actualiza ni borra.
// Las implementaciones se construyen atadas a la transacción del caller.
type StockLedgerRepository interface {
	// CreateBatch inserta el lote completo y devuelve las filas con ID y
	// timestamps generados. Lote vacío: no-op, devuelve vacío.
	CreateBatch(ctx context.Context, entries []*entity.StockLedgerEntry) ([]*entity.StockLedgerEntry, error)
	// ListByRef devuelve los movimientos de un documento (para reversos).
	// Excluye los movimientos que son a su vez reversos de ese documento.
	ListByRef(ctx context.Context, companyID, refType, refID string) ([]*entity.StockLedgerEntry, error)
	// CountByRef cuenta filas del documento (guard de doble contabilización en tests).
	CountByRef(ctx context.Context, companyID, refType, refID string) (int, error)
	// OnHand devuelve la existencia de la llave: suma de QtyDelta.
	// lotID nil agrega todos los lotes de la llave.
	OnHand(ctx context.Context, companyID, productID, warehouseID string, lotID *string) (decimal.Decimal, error)
}
