package inventory

import (
	"context"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/repository"
)

// Repos agrupa los repositorios atados a una misma transacción de BD.
// El motor nunca abre ni commitea transacciones: solo participa en la que
// el TxRunner le entrega.
type Repos struct {
	Ledger        repository.StockLedgerRepository
	Layers        repository.CostLayerRepository
	Lots          repository.LotRepository
	Products      repository.ProductRepository
	GoodsReceipts repository.GoodsReceiptRepository
	Orders        repository.OrderRepository
	Transfers     repository.TransferRepository
	StockCounts   repository.StockCountRepository
	Adjustments   repository.AdjustmentRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad: cualquier error de fn
// hace rollback del lote completo; nada queda contabilizado a medias.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
	// RunWithRetry reintenta fn (cada intento en transacción nueva) cuando
	// falla con domain.ErrConcurrencyConflict, con intentos acotados y
	// backoff. Cualquier otro error es terminal y se devuelve tal cual.
	RunWithRetry(ctx context.Context, fn func(r Repos) error) error
}
