package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/repository"
)

// StockQuery consulta de lectura sobre el libro (sin transacción): la
// existencia de una llave es la suma de los deltas del libro, nada más.
type StockQuery struct {
	ledger repository.StockLedgerRepository
}

// NewStockQuery construye la consulta con un repositorio de solo lectura
// (atado al pool, no a una tx).
func NewStockQuery(ledger repository.StockLedgerRepository) *StockQuery {
	return &StockQuery{ledger: ledger}
}

// OnHand devuelve la existencia de (empresa, producto, bodega[, lote]).
func (q *StockQuery) OnHand(ctx context.Context, companyID, productID, warehouseID string, lotID *string) (decimal.Decimal, error) {
	return q.ledger.OnHand(ctx, companyID, productID, warehouseID, lotID)
}
