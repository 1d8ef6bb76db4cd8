package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefan/central-kitchen-sub010/internal/application/inventory"
	"github.com/ariefan/central-kitchen-sub010/internal/domain"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

const (
	maxRetryAttempts = 3
	retryBaseBackoff = 25 * time.Millisecond
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, con todos
// los repositorios de inventario atados a la misma tx.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func newRepos(q Querier) inventory.Repos {
	return inventory.Repos{
		Ledger:        NewStockLedgerRepository(q),
		Layers:        NewCostLayerRepository(q),
		Lots:          NewLotRepository(q),
		Products:      NewProductRepository(q),
		GoodsReceipts: NewGoodsReceiptRepository(q),
		Orders:        NewOrderRepository(q),
		Transfers:     NewTransferRepository(q),
		StockCounts:   NewStockCountRepository(q),
		Adjustments:   NewAdjustmentRepository(q),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los errores de serialización/deadlock de PostgreSQL se
// traducen a domain.ErrConcurrencyConflict para que el caller decida reintentar.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newRepos(tx)); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if isSerializationFailure(err) {
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		}
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunWithRetry ejecuta fn vía Run y reintenta (transacción nueva cada vez)
// cuando el resultado es domain.ErrConcurrencyConflict, con intentos acotados
// y backoff lineal. Cualquier otro error es terminal.
func (r *TxRunner) RunWithRetry(ctx context.Context, fn func(repos inventory.Repos) error) error {
	var err error
	for attempt := 1; attempt <= maxRetryAttempts; attempt++ {
		err = r.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		if attempt == maxRetryAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * retryBaseBackoff):
		}
	}
	return err
}
