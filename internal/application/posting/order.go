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

// OrderUseCase orquesta órdenes de venta/cocina: al contabilizar, cada
// línea consume capas FIFO y queda en el libro como issue con el costo
// promedio ponderado del consumo.
type OrderUseCase struct {
	tx     appinv.TxRunner
	engine *appinv.Engine
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(tx appinv.TxRunner, engine *appinv.Engine) *OrderUseCase {
	return &OrderUseCase{tx: tx, engine: engine}
}

// Get devuelve la orden con sus líneas.
func (uc *OrderUseCase) Get(ctx context.Context, companyID, orderID string) (*entity.Order, error) {
	var order *entity.Order
	err := uc.tx.Run(ctx, func(r appinv.Repos) error {
		var err error
		order, err = r.Orders.GetByID(ctx, companyID, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// OrderLineInput línea de orden.
type OrderLineInput struct {
	ProductID string
	LotID     *string
	Qty       decimal.Decimal
	Note      string
}

// OrderInput borrador de orden.
type OrderInput struct {
	CompanyID   string
	WarehouseID string
	DocNo       string
	OrderDate   time.Time
	Notes       string
	CreatedBy   string
	Lines       []OrderLineInput
}

// CreateDraft valida y persiste la orden en estado draft.
func (uc *OrderUseCase) CreateDraft(ctx context.Context, in OrderInput) (*entity.Order, error) {
	if in.CompanyID == "" || in.WarehouseID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	order := &entity.Order{
		CompanyID:   in.CompanyID,
		WarehouseID: in.WarehouseID,
		DocNo:       in.DocNo,
		Status:      entity.DocStatusDraft,
		OrderDate:   in.OrderDate,
		Notes:       in.Notes,
		CreatedBy:   in.CreatedBy,
	}
	for _, l := range in.Lines {
		if l.ProductID == "" || !l.Qty.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: línea de orden inválida", domain.ErrInvalidInput)
		}
		order.Lines = append(order.Lines, entity.OrderLine{
			ProductID: l.ProductID,
			LotID:     l.LotID,
			Qty:       l.Qty,
			Note:      l.Note,
		})
	}
	err := uc.tx.Run(ctx, func(r appinv.Repos) error {
		return r.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Post contabiliza la orden: guard draft -> posted y, por línea, consumo
// FIFO (con la política de stock negativo del producto) + movimiento issue.
// Stock insuficiente en cualquier línea aborta la transacción completa.
func (uc *OrderUseCase) Post(ctx context.Context, companyID, userID, orderID string) error {
	return uc.tx.RunWithRetry(ctx, func(r appinv.Repos) error {
		order, err := r.Orders.GetByID(ctx, companyID, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}

		now := time.Now()
		ok, err := r.Orders.MarkPosted(ctx, companyID, orderID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyPosted
		}

		for _, line := range order.Lines {
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
				WarehouseID:   order.WarehouseID,
				LotID:         line.LotID,
				Type:          entity.MovementIssue,
				Qty:           line.Qty.Neg(),
				RefType:       entity.RefTypeOrder,
				RefID:         order.ID,
				Note:          line.Note,
				CreatedBy:     userID,
				OccurredAt:    order.OrderDate,
				AllowNegative: product.AllowNegativeStock,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// Void anula una orden contabilizada: guard posted -> void y reverso que
// reinstala una capa por cada salida, al costo que la salida registró.
func (uc *OrderUseCase) Void(ctx context.Context, companyID, userID, orderID, reason string) error {
	return uc.tx.RunWithRetry(ctx, func(r appinv.Repos) error {
		now := time.Now()
		ok, err := r.Orders.MarkVoided(ctx, companyID, orderID, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrNotPosted
		}
		_, err = uc.engine.ReverseByRef(ctx, r, companyID, entity.RefTypeOrder, orderID, appinv.ReverseOptions{
			CreatedBy:  userID,
			OccurredAt: now,
			Note:       reason,
		})
		return err
	})
}
