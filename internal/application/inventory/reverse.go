package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
	invdomain "github.com/ariefan/central-kitchen-sub010/internal/domain/inventory"
)

// ReverseOptions contexto de una anulación.
type ReverseOptions struct {
	CreatedBy  string
	OccurredAt time.Time
	Note       string
}

// ReverseByRef deriva y aplica el lote compensatorio de un documento ya
// contabilizado. No es una operación solo de libro: por cada movimiento
// original se corrige también el lado de capas para que la conciliación
// capas <-> libro se mantenga exacta después del reverso:
//
//   - original de salida  -> se reinstala una capa nueva (cantidad reversada,
//     costo el registrado en el movimiento original);
//   - original de entrada -> se consumen capas por la cantidad reversada,
//     empezando por las que ese documento creó (otras contabilizaciones
//     pueden haber consumido parte de ellas) y siguiendo FIFO general.
func (e *Engine) ReverseByRef(ctx context.Context, r Repos, companyID, refType, refID string, opts ReverseOptions) ([]*entity.StockLedgerEntry, error) {
	originals, err := r.Ledger.ListByRef(ctx, companyID, refType, refID)
	if err != nil {
		return nil, err
	}
	if len(originals) == 0 {
		return nil, fmt.Errorf("%w: sin movimientos para %s %s", domain.ErrNotFound, refType, refID)
	}

	revs, err := invdomain.BuildReversal(originals, invdomain.ReversalOptions{
		CreatedBy:  opts.CreatedBy,
		OccurredAt: opts.OccurredAt,
		Note:       opts.Note,
	})
	if err != nil {
		return nil, err
	}

	inserted, err := e.RecordEntries(ctx, r, revs)
	if err != nil {
		return nil, err
	}

	for i, orig := range originals {
		rev := inserted[i]
		switch {
		case orig.QtyDelta.IsNegative():
			// Reverso de salida: reinstalar capa al costo original registrado.
			if orig.UnitCost == nil {
				return nil, fmt.Errorf("%w: movimiento de salida %s sin costo, no se puede reinstalar capa", domain.ErrInvalidInput, orig.ID)
			}
			_, err := r.Layers.Create(ctx, &entity.CostLayer{
				CompanyID:    orig.CompanyID,
				ProductID:    orig.ProductID,
				WarehouseID:  orig.WarehouseID,
				LotID:        orig.LotID,
				QtyReceived:  orig.QtyDelta.Neg(),
				QtyRemaining: orig.QtyDelta.Neg(),
				UnitCost:     *orig.UnitCost,
				SourceType:   rev.RefType,
				SourceID:     rev.RefID,
			})
			if err != nil {
				return nil, err
			}
		case orig.QtyDelta.IsPositive():
			// Reverso de entrada: consumir la cantidad reversada.
			if err := e.consumeForInboundReversal(ctx, r, orig); err != nil {
				return nil, err
			}
		}
	}
	return inserted, nil
}

// consumeForInboundReversal consume la cantidad de un movimiento de entrada
// reversado: primero de las capas creadas por su documento, luego FIFO
// general de la llave para lo que otras contabilizaciones ya hayan drenado.
func (e *Engine) consumeForInboundReversal(ctx context.Context, r Repos, orig *entity.StockLedgerEntry) error {
	needed := orig.QtyDelta

	sourceLayers, err := r.Layers.SelectBySourceForConsume(ctx, orig.CompanyID, orig.RefType, orig.RefID)
	if err != nil {
		return err
	}
	// Solo las capas de la misma llave que el movimiento reversado.
	var candidates []*entity.CostLayer
	for _, l := range sourceLayers {
		if l.ProductID == orig.ProductID && l.WarehouseID == orig.WarehouseID && sameLot(l.LotID, orig.LotID) {
			candidates = append(candidates, l)
		}
	}

	if len(candidates) > 0 {
		res, err := invdomain.WalkFIFO(candidates, needed)
		if err != nil {
			return err
		}
		for _, c := range res.Trail {
			if err := r.Layers.DecrementRemaining(ctx, c.LayerID, c.Qty); err != nil {
				return err
			}
		}
		needed = res.Shortfall
	}
	if !needed.GreaterThan(decimal.Zero) {
		return nil
	}

	// El documento ya no respalda toda la cantidad: continuar FIFO general.
	allow, err := e.allowNegativeFor(ctx, r, orig.CompanyID, orig.ProductID)
	if err != nil {
		return err
	}
	_, err = e.ConsumeFIFO(ctx, r, ConsumeKey{
		CompanyID:   orig.CompanyID,
		ProductID:   orig.ProductID,
		WarehouseID: orig.WarehouseID,
		LotID:       orig.LotID,
	}, needed, allow)
	return err
}

func (e *Engine) allowNegativeFor(ctx context.Context, r Repos, companyID, productID string) (bool, error) {
	product, err := r.Products.GetByID(ctx, companyID, productID)
	if err != nil {
		return false, err
	}
	if product == nil {
		return false, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return product.AllowNegativeStock, nil
}

func sameLot(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
