package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// CostLayerRepository define el puerto de las capas de costo FIFO.
// Toda mutación de QtyRemaining pasa por SelectForConsume + DecrementRemaining
// dentro de una transacción; ningún otro camino escribe esa columna.
type CostLayerRepository interface {
	Create(ctx context.Context, layer *entity.CostLayer) (*entity.CostLayer, error)
	// SelectForConsume devuelve las capas con restante > 0 de la llave,
	// ordenadas por created_at asc, id asc (FIFO estricto), bloqueando las
	// filas (SELECT ... FOR UPDATE) hasta el fin de la transacción.
	SelectForConsume(ctx context.Context, companyID, productID, warehouseID string, lotID *string) ([]*entity.CostLayer, error)
	// SelectBySourceForConsume bloquea las capas creadas por un documento
	// específico (reverso de entradas), mismo orden FIFO.
	SelectBySourceForConsume(ctx context.Context, companyID, sourceType, sourceID string) ([]*entity.CostLayer, error)
	// DecrementRemaining resta qty del restante de la capa. Las
	// implementaciones deben rechazar decrementos que dejen restante < 0.
	DecrementRemaining(ctx context.Context, layerID string, qty decimal.Decimal) error
	// LastKnownUnitCost devuelve el costo de la capa más reciente de la
	// llave (con o sin restante), o nil si nunca hubo capas.
	LastKnownUnitCost(ctx context.Context, companyID, productID, warehouseID string, lotID *string) (*decimal.Decimal, error)
	// SumRemaining suma el restante de la llave (conciliación con el libro).
	SumRemaining(ctx context.Context, companyID, productID, warehouseID string, lotID *string) (decimal.Decimal, error)
}
