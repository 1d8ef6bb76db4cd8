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

// GoodsReceiptUseCase orquesta recepciones de mercancía: borrador,
// contabilización (movimiento receipt + capa por línea) y anulación.
type GoodsReceiptUseCase struct {
	tx     appinv.TxRunner
	engine *appinv.Engine
}

// NewGoodsReceiptUseCase construye el caso de uso.
func NewGoodsReceiptUseCase(tx appinv.TxRunner, engine *appinv.Engine) *GoodsReceiptUseCase {
	return &GoodsReceiptUseCase{tx: tx, engine: engine}
}

// Get devuelve la recepción con sus líneas.
func (uc *GoodsReceiptUseCase) Get(ctx context.Context, companyID, receiptID string) (*entity.GoodsReceipt, error) {
	var rec *entity.GoodsReceipt
	err := uc.tx.Run(ctx, func(r appinv.Repos) error {
		var err error
		rec, err = r.GoodsReceipts.GetByID(ctx, companyID, receiptID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

// GoodsReceiptLineInput línea de recepción.
type GoodsReceiptLineInput struct {
	ProductID  string
	LotNo      string
	ExpiryDate *time.Time
	MfgDate    *time.Time
	Qty        decimal.Decimal
	UnitCost   decimal.Decimal
	Note       string
}

// GoodsReceiptInput borrador de recepción.
type GoodsReceiptInput struct {
	CompanyID   string
	WarehouseID string
	DocNo       string
	Supplier    string
	ReceiptDate time.Time
	Notes       string
	CreatedBy   string
	Lines       []GoodsReceiptLineInput
}

// CreateDraft valida y persiste la recepción en estado draft.
// No toca inventario: eso ocurre solo al contabilizar.
func (uc *GoodsReceiptUseCase) CreateDraft(ctx context.Context, in GoodsReceiptInput) (*entity.GoodsReceipt, error) {
	if in.CompanyID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	rec := &entity.GoodsReceipt{
		CompanyID:   in.CompanyID,
		WarehouseID: in.WarehouseID,
		DocNo:       in.DocNo,
		Supplier:    in.Supplier,
		Status:      entity.DocStatusDraft,
		ReceiptDate: in.ReceiptDate,
		Notes:       in.Notes,
		CreatedBy:   in.CreatedBy,
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Qty.GreaterThan(decimal.Zero) || l.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: línea de recepción inválida", domain.ErrInvalidInput)
		}
		rec.Lines = append(rec.Lines, entity.GoodsReceiptLine{
			ProductID:  l.ProductID,
			LotNo:      l.LotNo,
			ExpiryDate: l.ExpiryDate,
			MfgDate:    l.MfgDate,
			Qty:        l.Qty,
			UnitCost:   l.UnitCost,
			Note:       l.Note,
		})
	}
	err := uc.tx.Run(ctx, func(r appinv.Repos) error {
		return r.GoodsReceipts.Create(ctx, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Post contabiliza la recepción: guard condicional draft -> posted, resuelve
// lotes, postea cada línea (movimiento + capa) y actualiza el último costo
// del producto. Todo o nada dentro de una transacción.
func (uc *GoodsReceiptUseCase) Post(ctx context.Context, companyID, userID, receiptID string) error {
	return uc.tx.RunWithRetry(ctx, func(r appinv.Repos) error {
		rec, err := r.GoodsReceipts.GetByID(ctx, companyID, receiptID)
		if err != nil {
			return err
		}
		if rec == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		ok, err := r.GoodsReceipts.MarkPosted(ctx, companyID, receiptID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyPosted
		}

		for _, line := range rec.Lines {
			product, err := r.Products.GetByID(ctx, companyID, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, line.ProductID)
			}

			var lotID *string
			if line.LotNo != "" {
				lot, err := uc.engine.FindOrCreateLot(ctx, r, &entity.Lot{
					CompanyID:   companyID,
					ProductID:   line.ProductID,
					WarehouseID: rec.WarehouseID,
					LotNo:       line.LotNo,
					ExpiryDate:  line.ExpiryDate,
					MfgDate:     line.MfgDate,
					ReceivedAt:  rec.ReceiptDate,
				})
				if err != nil {
					return err
				}
				lotID = &lot.ID
			} else if product.Perishable {
				return fmt.Errorf("%w: producto perecedero %s sin lote", domain.ErrInvalidInput, product.SKU)
			}

			cost := line.UnitCost
			_, err = uc.engine.PostMovement(ctx, r, appinv.MovementInput{
				CompanyID:   companyID,
				ProductID:   line.ProductID,
				WarehouseID: rec.WarehouseID,
				LotID:       lotID,
				Type:        entity.MovementReceipt,
				Qty:         line.Qty,
				UnitCost:    &cost,
				RefType:     entity.RefTypeGoodsReceipt,
				RefID:       rec.ID,
				Note:        line.Note,
				CreatedBy:   userID,
				OccurredAt:  rec.ReceiptDate,
			})
			if err != nil {
				return err
			}

			if err := r.Products.UpdateCost(ctx, companyID, line.ProductID, cost); err != nil {
				return err
			}
		}
		return nil
	})
}

// Void anula una recepción contabilizada: guard posted -> void y reverso
// exacto (los movimientos compensatorios consumen las capas que la
// recepción creó, FIFO desde esa fuente).
func (uc *GoodsReceiptUseCase) Void(ctx context.Context, companyID, userID, receiptID, reason string) error {
	return uc.tx.RunWithRetry(ctx, func(r appinv.Repos) error {
		now := time.Now()
		ok, err := r.GoodsReceipts.MarkVoided(ctx, companyID, receiptID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotPosted
		}
		_, err = uc.engine.ReverseByRef(ctx, r, companyID, entity.RefTypeGoodsReceipt, receiptID, appinv.ReverseOptions{
			CreatedBy:  userID,
			OccurredAt: now,
			Note:       reason,
		})
		return err
	})
}
