package posting

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	appinv "github.com/ariefan/central-kitchen-sub010/internal/application/inventory"
	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// AdjustmentUseCase orquesta ajustes manuales (merma, vencimiento,
// corrección): deltas negativos consumen FIFO, positivos crean capa al
// costo indicado.
type AdjustmentUseCase struct {
	tx     appinv.TxRunner
	engine *appinv.Engine
}

// NewAdjustmentUseCase construye el caso de uso.
func NewAdjustmentUseCase(tx appinv.TxRunner, engine *appinv.Engine) *AdjustmentUseCase {
	return &AdjustmentUseCase{tx: tx, engine: engine}
}

// Get devuelve el ajuste con sus líneas.
func (uc *AdjustmentUseCase) Get(ctx context.Context, companyID, adjustmentID string) (*entity.Adjustment, error) {
	var adj *entity.Adjustment
	err := uc.tx.Run(ctx, func(r appinv.Repos) error {
		var err error
		adj, err = r.Adjustments.GetByID(ctx, companyID, adjustmentID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if adj == nil {
		return nil, domain.ErrNotFound
	}
	return adj, nil
}

// AdjustmentLineInput línea de ajuste con delta firmado.
type AdjustmentLineInput struct {
	ProductID string
	LotID     *string
	QtyDelta  decimal.Decimal
	UnitCost  *decimal.Decimal
	Note      string
}

// AdjustmentInput borrador de ajuste.
type AdjustmentInput struct {
	CompanyID   string
	WarehouseID string
	DocNo       string
	Reason      string
	AdjustDate  time.Time
	Notes       string
	CreatedBy   string
	Lines       []AdjustmentLineInput
}

func validReason(reason string) bool {
	switch reason {
	case entity.AdjustmentReasonWaste, entity.AdjustmentReasonSpoilage, entity.AdjustmentReasonCorrection:
		return true
	}
	return false
}

// CreateDraft valida y persiste el ajuste en estado draft.
func (uc *AdjustmentUseCase) CreateDraft(ctx context.Context, in AdjustmentInput) (*entity.Adjustment, error) {
	if in.CompanyID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !validReason(in.Reason) {
		return nil, fmt.Errorf("%w: motivo de ajuste %q", domain.ErrInvalidInput, in.Reason)
	}
	adj := &entity.Adjustment{
		CompanyID:   in.CompanyID,
		WarehouseID: in.WarehouseID,
		DocNo:       in.DocNo,
		Reason:      in.Reason,
		Status:      entity.DocStatusDraft,
		AdjustDate:  in.AdjustDate,
		Notes:       in.Notes,
		CreatedBy:   in.CreatedBy,
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || l.QtyDelta.IsZero() {
			return nil, fmt.Errorf("%w: línea de ajuste inválida", domain.ErrInvalidInput)
		}
		if l.QtyDelta.IsPositive() && (l.UnitCost == nil || l.UnitCost.IsNegative()) {
			return nil, fmt.Errorf("%w: ajuste positivo sin costo unitario", domain.ErrInvalidInput)
		}
		adj.Lines = append(adj.Lines, entity.AdjustmentLine{
			ProductID: l.ProductID,
			LotID:     l.LotID,
			QtyDelta:  l.QtyDelta,
			UnitCost:  l.UnitCost,
			Note:      l.Note,
		})
	}
	err := uc.tx.Run(ctx, func(r appinv.Repos) error {
		return r.Adjustments.Create(ctx, adj)
	})
	if err != nil {
		return nil, err
	}
	return adj, nil
}

// Post contabiliza el ajuste: guard draft -> posted y un movimiento
// adjustment por línea, todo o nada.
func (uc *AdjustmentUseCase) Post(ctx context.Context, companyID, userID, adjustmentID string) error {
	return uc.tx.RunWithRetry(ctx, func(r appinv.Repos) error {
		adj, err := r.Adjustments.GetByID(ctx, companyID, adjustmentID)
		if err != nil {
			return err
		}
		if adj == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		ok, err := r.Adjustments.MarkPosted(ctx, companyID, adjustmentID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyPosted
		}

		for _, line := range adj.Lines {
			product, err := r.Products.GetByID(ctx, companyID, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, line.ProductID)
			}
			_, err = uc.engine.PostMovement(ctx, r, appinv.MovementInput{
				CompanyID:     companyID,
				ProductID:     line.ProductID,
				WarehouseID:   adj.WarehouseID,
				LotID:         line.LotID,
				Type:          entity.MovementAdjustment,
				Qty:           line.QtyDelta,
				UnitCost:      line.UnitCost,
				RefType:       entity.RefTypeAdjustment,
				RefID:         adj.ID,
				Note:          line.Note,
				CreatedBy:     userID,
				OccurredAt:    adj.AdjustDate,
				AllowNegative: product.AllowNegativeStock,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}
