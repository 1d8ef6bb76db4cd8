package inventory

import (
	"fmt"
	"time"

	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// ReversalOptions contexto del reverso: actor, fecha y overrides opcionales.
type ReversalOptions struct {
	// RefType/RefID identifican el documento que origina el reverso.
	// Vacíos: se conserva la referencia del movimiento original.
	RefType string
	RefID   string
	// TypeOverride fuerza el tipo de los movimientos compensatorios en lugar
	// del mapeo automático tipo -> variante de reverso.
	TypeOverride *entity.MovementType
	CreatedBy    string
	OccurredAt   time.Time
	Note         string
}

// BuildReversal deriva los movimientos compensatorios de un conjunto de
// movimientos previos: cantidad negada, costo y lote preservados, tipo
// mapeado a su variante de reverso (o el override explícito).
//
// Esta función es pura (solo libro); el motor la empareja con la
// reinstalación/consumo de capas de costo para que la conciliación
// capas <-> libro se mantenga después del reverso.
func BuildReversal(entries []*entity.StockLedgerEntry, opts ReversalOptions) ([]*entity.StockLedgerEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	out := make([]*entity.StockLedgerEntry, 0, len(entries))
	for _, e := range entries {
		revType := entity.MovementType("")
		if opts.TypeOverride != nil {
			revType = *opts.TypeOverride
		} else {
			mapped, ok := e.Type.ReversalOf()
			if !ok {
				return nil, fmt.Errorf("%w: tipo de movimiento desconocido %q", domain.ErrInvalidInput, e.Type)
			}
			revType = mapped
		}
		if !revType.Valid() {
			return nil, fmt.Errorf("%w: tipo de reverso inválido %q", domain.ErrInvalidInput, revType)
		}

		refType, refID := e.RefType, e.RefID
		if opts.RefType != "" {
			refType = opts.RefType
		}
		if opts.RefID != "" {
			refID = opts.RefID
		}

		rev := &entity.StockLedgerEntry{
			CompanyID:   e.CompanyID,
			ProductID:   e.ProductID,
			WarehouseID: e.WarehouseID,
			LotID:       e.LotID,
			Type:        revType,
			QtyDelta:    e.QtyDelta.Neg(),
			UnitCost:    e.UnitCost,
			RefType:     refType,
			RefID:       refID,
			Note:        opts.Note,
			CreatedBy:   opts.CreatedBy,
			OccurredAt:  opts.OccurredAt,
		}
		out = append(out, rev)
	}
	return out, nil
}
