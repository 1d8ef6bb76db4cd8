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

// StockCountUseCase orquesta conteos físicos. Al contabilizar, cada línea se
// compara contra la existencia del libro y la diferencia se postea como
// adjustment firmado; una línea sin diferencia no genera movimiento.
type StockCountUseCase struct {
	tx     appinv.TxRunner
	engine *appinv.Engine
}

// NewStockCountUseCase construye el caso de uso.
func NewStockCountUseCase(tx appinv.TxRunner, engine *appinv.Engine) *StockCountUseCase {
	return &StockCountUseCase{tx: tx, engine: engine}
}

// Get devuelve el conteo con sus líneas.
func (uc *StockCountUseCase) Get(ctx context.Context, companyID, countID string) (*entity.StockCount, error) {
	var sc *entity.StockCount
	err := uc.tx.Run(ctx, func(r appinv.Repos) error {
		var err error
		sc, err = r.StockCounts.GetByID(ctx, companyID, countID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, domain.ErrNotFound
	}
	return sc, nil
}

// StockCountLineInput línea de conteo.
type StockCountLineInput struct {
	ProductID  string
	LotID      *string
	CountedQty decimal.Decimal
	Note       string
}

// StockCountInput borrador de conteo.
type StockCountInput struct {
	CompanyID   string
	WarehouseID string
	DocNo       string
	CountDate   time.Time
	Notes       string
	CreatedBy   string
	Lines       []StockCountLineInput
}

// CreateDraft valida y persiste el conteo en estado draft.
func (uc *StockCountUseCase) CreateDraft(ctx context.Context, in StockCountInput) (*entity.StockCount, error) {
	if in.CompanyID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	sc := &entity.StockCount{
		CompanyID:   in.CompanyID,
		WarehouseID: in.WarehouseID,
		DocNo:       in.DocNo,
		Status:      entity.DocStatusDraft,
		CountDate:   in.CountDate,
		Notes:       in.Notes,
		CreatedBy:   in.CreatedBy,
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || l.CountedQty.IsNegative() {
			return nil, fmt.Errorf("%w: línea de conteo inválida", domain.ErrInvalidInput)
		}
		sc.Lines = append(sc.Lines, entity.StockCountLine{
			ProductID:  l.ProductID,
			LotID:      l.LotID,
			CountedQty: l.CountedQty,
			Note:       l.Note,
		})
	}
	err := uc.tx.Run(ctx, func(r appinv.Repos) error {
		return r.StockCounts.Create(ctx, sc)
	})
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// Post contabiliza el conteo. La existencia se lee dentro de la misma
// transacción que postea la diferencia, de modo que el ajuste corresponde
// exactamente al libro en el instante del guard.
func (uc *StockCountUseCase) Post(ctx context.Context, companyID, userID, countID string) error {
	return uc.tx.RunWithRetry(ctx, func(r appinv.Repos) error {
		sc, err := r.StockCounts.GetByID(ctx, companyID, countID)
		if err != nil {
			return err
		}
		if sc == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		ok, err := r.StockCounts.MarkPosted(ctx, companyID, countID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyPosted
		}

		for _, line := range sc.Lines {
			onHand, err := r.Ledger.OnHand(ctx, companyID, line.ProductID, sc.WarehouseID, line.LotID)
			if err != nil {
				return err
			}
			delta := line.CountedQty.Sub(onHand)
			if delta.IsZero() {
				continue
			}

			product, err := r.Products.GetByID(ctx, companyID, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, line.ProductID)
			}

			in := appinv.MovementInput{
				CompanyID:     companyID,
				ProductID:     line.ProductID,
				WarehouseID:   sc.WarehouseID,
				LotID:         line.LotID,
				Type:          entity.MovementAdjustment,
				Qty:           delta,
				RefType:       entity.RefTypeStockCount,
				RefID:         sc.ID,
				Note:          line.Note,
				CreatedBy:     userID,
				OccurredAt:    sc.CountDate,
				AllowNegative: product.AllowNegativeStock,
			}
			if delta.IsPositive() {
				// Sobrante: entra al último costo conocido del producto.
				cost := product.Cost
				in.UnitCost = &cost
			}
			if _, err := uc.engine.PostMovement(ctx, r, in); err != nil {
				return err
			}
		}
		return nil
	})
}
