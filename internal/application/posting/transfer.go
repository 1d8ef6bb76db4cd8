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

// TransferUseCase orquesta traslados entre bodegas. Al contabilizar, cada
// línea sale de la bodega origen al costo FIFO consumido (transfer_out) y
// entra a la destino creando capa a ese mismo costo (transfer_in): la
// valoración viaja con el stock y la conservación se mantiene por bodega.
type TransferUseCase struct {
	tx     appinv.TxRunner
	engine *appinv.Engine
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(tx appinv.TxRunner, engine *appinv.Engine) *TransferUseCase {
	return &TransferUseCase{tx: tx, engine: engine}
}

// Get devuelve el traslado con sus líneas.
func (uc *TransferUseCase) Get(ctx context.Context, companyID, transferID string) (*entity.Transfer, error) {
	var tr *entity.Transfer
	err := uc.tx.Run(ctx, func(r appinv.Repos) error {
		var err error
		tr, err = r.Transfers.GetByID(ctx, companyID, transferID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if tr == nil {
		return nil, domain.ErrNotFound
	}
	return tr, nil
}

// TransferLineInput línea de traslado.
type TransferLineInput struct {
	ProductID string
	LotID     *string
	Qty       decimal.Decimal
	Note      string
}

// TransferInput borrador de traslado.
type TransferInput struct {
	CompanyID       string
	FromWarehouseID string
	ToWarehouseID   string
	DocNo           string
	TransferDate    time.Time
	Notes           string
	CreatedBy       string
	Lines           []TransferLineInput
}

// CreateDraft valida y persiste el traslado en estado draft.
func (uc *TransferUseCase) CreateDraft(ctx context.Context, in TransferInput) (*entity.Transfer, error) {
	if in.CompanyID == "" || in.FromWarehouseID == "" || in.ToWarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.FromWarehouseID == in.ToWarehouseID {
		return nil, fmt.Errorf("%w: traslado a la misma bodega", domain.ErrInvalidInput)
	}
	tr := &entity.Transfer{
		CompanyID:       in.CompanyID,
		FromWarehouseID: in.FromWarehouseID,
		ToWarehouseID:   in.ToWarehouseID,
		DocNo:           in.DocNo,
		Status:          entity.DocStatusDraft,
		TransferDate:    in.TransferDate,
		Notes:           in.Notes,
		CreatedBy:       in.CreatedBy,
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Qty.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: línea de traslado inválida", domain.ErrInvalidInput)
		}
		tr.Lines = append(tr.Lines, entity.TransferLine{
			ProductID: l.ProductID,
			LotID:     l.LotID,
			Qty:       l.Qty,
			Note:      l.Note,
		})
	}
	err := uc.tx.Run(ctx, func(r appinv.Repos) error {
		return r.Transfers.Create(ctx, tr)
	})
	if err != nil {
		return nil, err
	}
	return tr, nil
}

// Post contabiliza el traslado: por línea, transfer_out (consumo FIFO en
// origen) y transfer_in (capa en destino al costo estampado en la salida).
// Si la línea es por lote, el lote se replica en la bodega destino con la
// misma llave natural y fechas.
func (uc *TransferUseCase) Post(ctx context.Context, companyID, userID, transferID string) error {
	return uc.tx.RunWithRetry(ctx, func(r appinv.Repos) error {
		tr, err := r.Transfers.GetByID(ctx, companyID, transferID)
		if err != nil {
			return err
		}
		if tr == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		ok, err := r.Transfers.MarkPosted(ctx, companyID, transferID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyPosted
		}

		for _, line := range tr.Lines {
			product, err := r.Products.GetByID(ctx, companyID, line.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, line.ProductID)
			}

			outEntry, err := uc.engine.PostMovement(ctx, r, appinv.MovementInput{
				CompanyID:     companyID,
				ProductID:     line.ProductID,
				WarehouseID:   tr.FromWarehouseID,
				LotID:         line.LotID,
				Type:          entity.MovementTransferOut,
				Qty:           line.Qty.Neg(),
				RefType:       entity.RefTypeTransfer,
				RefID:         tr.ID,
				Note:          line.Note,
				CreatedBy:     userID,
				OccurredAt:    tr.TransferDate,
				AllowNegative: product.AllowNegativeStock,
			})
			if err != nil {
				return err
			}

			// Replicar el lote en la bodega destino si la línea es por lote.
			var destLotID *string
			if line.LotID != nil {
				srcLot, err := r.Lots.GetByID(ctx, companyID, *line.LotID)
				if err != nil {
					return err
				}
				if srcLot == nil {
					return fmt.Errorf("%w: lote %s", domain.ErrNotFound, *line.LotID)
				}
				destLot, err := uc.engine.FindOrCreateLot(ctx, r, &entity.Lot{
					CompanyID:   companyID,
					ProductID:   line.ProductID,
					WarehouseID: tr.ToWarehouseID,
					LotNo:       srcLot.LotNo,
					ExpiryDate:  srcLot.ExpiryDate,
					MfgDate:     srcLot.MfgDate,
					ReceivedAt:  tr.TransferDate,
				})
				if err != nil {
					return err
				}
				destLotID = &destLot.ID
			}

			_, err = uc.engine.PostMovement(ctx, r, appinv.MovementInput{
				CompanyID:   companyID,
				ProductID:   line.ProductID,
				WarehouseID: tr.ToWarehouseID,
				LotID:       destLotID,
				Type:        entity.MovementTransferIn,
				Qty:         line.Qty,
				UnitCost:    outEntry.UnitCost,
				RefType:     entity.RefTypeTransfer,
				RefID:       tr.ID,
				Note:        line.Note,
				CreatedBy:   userID,
				OccurredAt:  tr.TransferDate,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Void anula un traslado contabilizado: el reverso reinstala capas en la
// bodega origen y consume las capas que el traslado creó en la destino.
func (uc *TransferUseCase) Void(ctx context.Context, companyID, userID, transferID, reason string) error {
	return uc.tx.RunWithRetry(ctx, func(r appinv.Repos) error {
		now := time.Now()
		ok, err := r.Transfers.MarkVoided(ctx, companyID, transferID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotPosted
		}
		_, err = uc.engine.ReverseByRef(ctx, r, companyID, entity.RefTypeTransfer, transferID, appinv.ReverseOptions{
			CreatedBy:  userID,
			OccurredAt: now,
			Note:       reason,
		})
		return err
	})
}
