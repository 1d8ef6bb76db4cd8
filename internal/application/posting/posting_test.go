package posting_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefan/central-kitchen-sub010/internal/application/inventory"
	"github.com/ariefan/central-kitchen-sub010/internal/application/inventory/inventorytest"
	"github.com/ariefan/central-kitchen-sub010/internal/application/posting"
	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

const (
	companyID = "11111111-1111-1111-1111-111111111111"
	flourID   = "22222222-2222-2222-2222-222222222222"
	salmonID  = "55555555-5555-5555-5555-555555555555"
	kitchenID = "33333333-3333-3333-3333-333333333333"
	outletID  = "66666666-6666-6666-6666-666666666666"
	userID    = "44444444-4444-4444-4444-444444444444"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fixture struct {
	store *inventorytest.Store
	tx    *inventorytest.TxRunner

	receipts  *posting.GoodsReceiptUseCase
	orders    *posting.OrderUseCase
	transfers *posting.TransferUseCase
	counts    *posting.StockCountUseCase
	adjusts   *posting.AdjustmentUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := inventorytest.NewStore()
	store.AddProduct(&entity.Product{
		ID:        flourID,
		CompanyID: companyID,
		SKU:       "HAR-001",
		Name:      "Harina de trigo",
		BaseUnit:  "g",
		Cost:      dec("1.5000"),
	})
	store.AddProduct(&entity.Product{
		ID:         salmonID,
		CompanyID:  companyID,
		SKU:        "SAL-001",
		Name:       "Salmón fresco",
		BaseUnit:   "g",
		Perishable: true,
	})
	tx := inventorytest.NewTxRunner(store)
	engine := inventory.NewEngine()
	return &fixture{
		store:     store,
		tx:        tx,
		receipts:  posting.NewGoodsReceiptUseCase(tx, engine),
		orders:    posting.NewOrderUseCase(tx, engine),
		transfers: posting.NewTransferUseCase(tx, engine),
		counts:    posting.NewStockCountUseCase(tx, engine),
		adjusts:   posting.NewAdjustmentUseCase(tx, engine),
	}
}

func (f *fixture) onHand(t *testing.T, productID, warehouseID string) decimal.Decimal {
	t.Helper()
	v, err := f.store.Repos().Ledger.OnHand(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	return v
}

func (f *fixture) receiveFlour(t *testing.T, qty, cost string) *entity.GoodsReceipt {
	t.Helper()
	rec, err := f.receipts.CreateDraft(context.Background(), posting.GoodsReceiptInput{
		CompanyID:   companyID,
		WarehouseID: kitchenID,
		DocNo:       "GR-" + qty + "-" + cost,
		ReceiptDate: time.Now(),
		CreatedBy:   userID,
		Lines: []posting.GoodsReceiptLineInput{
			{ProductID: flourID, Qty: dec(qty), UnitCost: dec(cost)},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.receipts.Post(context.Background(), companyID, userID, rec.ID))
	return rec
}

func TestGoodsReceipt_PostGeneraMovimientoCapaYCosto(t *testing.T) {
	f := newFixture(t)

	f.receiveFlour(t, "10", "2.00")

	assert.True(t, f.onHand(t, flourID, kitchenID).Equal(dec("10")))
	require.Len(t, f.store.Layers, 1)
	assert.True(t, f.store.Layers[0].QtyRemaining.Equal(dec("10")))

	// El último costo del producto se actualiza al de la recepción.
	product, err := f.store.Repos().Products.GetByID(context.Background(), companyID, flourID)
	require.NoError(t, err)
	assert.True(t, product.Cost.Equal(dec("2.00")))
}

func TestGoodsReceipt_DoblePostRechazado(t *testing.T) {
	f := newFixture(t)

	rec := f.receiveFlour(t, "10", "2.00")

	err := f.receipts.Post(context.Background(), companyID, userID, rec.ID)
	require.ErrorIs(t, err, domain.ErrAlreadyPosted)

	// El efecto en inventario sigue siendo el de una sola contabilización.
	assert.True(t, f.onHand(t, flourID, kitchenID).Equal(dec("10")))
	n, err := f.store.Repos().Ledger.CountByRef(context.Background(), companyID, entity.RefTypeGoodsReceipt, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGoodsReceipt_PerecederoExigeLote(t *testing.T) {
	f := newFixture(t)

	rec, err := f.receipts.CreateDraft(context.Background(), posting.GoodsReceiptInput{
		CompanyID:   companyID,
		WarehouseID: kitchenID,
		DocNo:       "GR-SAL-1",
		ReceiptDate: time.Now(),
		CreatedBy:   userID,
		Lines: []posting.GoodsReceiptLineInput{
			{ProductID: salmonID, Qty: dec("3"), UnitCost: dec("12.50")},
		},
	})
	require.NoError(t, err)

	err = f.receipts.Post(context.Background(), companyID, userID, rec.ID)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	// Rollback completo: el documento sigue en draft y no hay movimientos.
	got, err := f.receipts.Get(context.Background(), companyID, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocStatusDraft, got.Status)
	assert.True(t, f.onHand(t, salmonID, kitchenID).IsZero())
}

func TestGoodsReceipt_PerecederoConLoteCreaLoteYCapa(t *testing.T) {
	f := newFixture(t)

	expiry := time.Now().Add(72 * time.Hour)
	rec, err := f.receipts.CreateDraft(context.Background(), posting.GoodsReceiptInput{
		CompanyID:   companyID,
		WarehouseID: kitchenID,
		DocNo:       "GR-SAL-2",
		ReceiptDate: time.Now(),
		CreatedBy:   userID,
		Lines: []posting.GoodsReceiptLineInput{
			{ProductID: salmonID, LotNo: "L-2026-08-27", ExpiryDate: &expiry, Qty: dec("3"), UnitCost: dec("12.50")},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.receipts.Post(context.Background(), companyID, userID, rec.ID))

	require.Len(t, f.store.Lots, 1)
	assert.Equal(t, "L-2026-08-27", f.store.Lots[0].LotNo)
	require.Len(t, f.store.Layers, 1)
	require.NotNil(t, f.store.Layers[0].LotID)
	assert.Equal(t, f.store.Lots[0].ID, *f.store.Layers[0].LotID)
}

func TestGoodsReceipt_VoidReversaExacto(t *testing.T) {
	f := newFixture(t)

	rec := f.receiveFlour(t, "10", "2.00")
	require.NoError(t, f.receipts.Void(context.Background(), companyID, userID, rec.ID, "proveedor equivocado"))

	assert.True(t, f.onHand(t, flourID, kitchenID).IsZero())
	remaining, err := f.store.Repos().Layers.SumRemaining(context.Background(), companyID, flourID, kitchenID, nil)
	require.NoError(t, err)
	assert.True(t, remaining.IsZero())

	// Void sobre draft o sobre ya anulado: ErrNotPosted.
	err = f.receipts.Void(context.Background(), companyID, userID, rec.ID, "otra vez")
	require.ErrorIs(t, err, domain.ErrNotPosted)
}

func TestOrder_PostConsumeFIFOYVoidReinstala(t *testing.T) {
	f := newFixture(t)

	f.receiveFlour(t, "10", "2.00")
	f.receiveFlour(t, "5", "3.00")

	order, err := f.orders.CreateDraft(context.Background(), posting.OrderInput{
		CompanyID:   companyID,
		WarehouseID: kitchenID,
		DocNo:       "ORD-1",
		OrderDate:   time.Now(),
		CreatedBy:   userID,
		Lines: []posting.OrderLineInput{
			{ProductID: flourID, Qty: dec("12")},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.orders.Post(context.Background(), companyID, userID, order.ID))

	assert.True(t, f.onHand(t, flourID, kitchenID).Equal(dec("3")))

	// El movimiento issue lleva el promedio ponderado del consumo.
	entries, err := f.store.Repos().Ledger.ListByRef(context.Background(), companyID, entity.RefTypeOrder, order.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "2.1667", entries[0].UnitCost.String())

	require.NoError(t, f.orders.Void(context.Background(), companyID, userID, order.ID, "cliente canceló"))
	assert.True(t, f.onHand(t, flourID, kitchenID).Equal(dec("15")))
	remaining, err := f.store.Repos().Layers.SumRemaining(context.Background(), companyID, flourID, kitchenID, nil)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("15")))
}

func TestOrder_StockInsuficienteSinPolitica(t *testing.T) {
	f := newFixture(t)

	f.receiveFlour(t, "5", "2.00")

	order, err := f.orders.CreateDraft(context.Background(), posting.OrderInput{
		CompanyID:   companyID,
		WarehouseID: kitchenID,
		DocNo:       "ORD-1",
		OrderDate:   time.Now(),
		CreatedBy:   userID,
		Lines: []posting.OrderLineInput{
			{ProductID: flourID, Qty: dec("8")},
		},
	})
	require.NoError(t, err)

	err = f.orders.Post(context.Background(), companyID, userID, order.ID)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.orders.Get(context.Background(), companyID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.DocStatusDraft, got.Status, "el guard de posteo se revierte con el lote")
	assert.True(t, f.onHand(t, flourID, kitchenID).Equal(dec("5")))
}

func TestTransfer_ElCostoViajaConElStock(t *testing.T) {
	f := newFixture(t)

	f.receiveFlour(t, "10", "2.00")

	tr, err := f.transfers.CreateDraft(context.Background(), posting.TransferInput{
		CompanyID:       companyID,
		FromWarehouseID: kitchenID,
		ToWarehouseID:   outletID,
		DocNo:           "TR-1",
		TransferDate:    time.Now(),
		CreatedBy:       userID,
		Lines: []posting.TransferLineInput{
			{ProductID: flourID, Qty: dec("4")},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.transfers.Post(context.Background(), companyID, userID, tr.ID))

	assert.True(t, f.onHand(t, flourID, kitchenID).Equal(dec("6")))
	assert.True(t, f.onHand(t, flourID, outletID).Equal(dec("4")))

	// La capa creada en destino conserva el costo FIFO consumido en origen.
	var destLayer *entity.CostLayer
	for _, l := range f.store.Layers {
		if l.WarehouseID == outletID {
			destLayer = l
		}
	}
	require.NotNil(t, destLayer)
	assert.True(t, destLayer.UnitCost.Equal(dec("2.0000")))
	assert.True(t, destLayer.QtyRemaining.Equal(dec("4")))

	// Anular el traslado devuelve el stock y las capas a origen.
	require.NoError(t, f.transfers.Void(context.Background(), companyID, userID, tr.ID, "error de destino"))
	assert.True(t, f.onHand(t, flourID, kitchenID).Equal(dec("10")))
	assert.True(t, f.onHand(t, flourID, outletID).IsZero())
}

func TestTransfer_MismaBodegaRechazado(t *testing.T) {
	f := newFixture(t)

	_, err := f.transfers.CreateDraft(context.Background(), posting.TransferInput{
		CompanyID:       companyID,
		FromWarehouseID: kitchenID,
		ToWarehouseID:   kitchenID,
		DocNo:           "TR-1",
		TransferDate:    time.Now(),
		CreatedBy:       userID,
		Lines: []posting.TransferLineInput{
			{ProductID: flourID, Qty: dec("4")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockCount_PosteaSoloLaDiferencia(t *testing.T) {
	f := newFixture(t)

	f.receiveFlour(t, "10", "2.00")

	sc, err := f.counts.CreateDraft(context.Background(), posting.StockCountInput{
		CompanyID:   companyID,
		WarehouseID: kitchenID,
		DocNo:       "SC-1",
		CountDate:   time.Now(),
		CreatedBy:   userID,
		Lines: []posting.StockCountLineInput{
			{ProductID: flourID, CountedQty: dec("7")}, // faltan 3
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.counts.Post(context.Background(), companyID, userID, sc.ID))

	assert.True(t, f.onHand(t, flourID, kitchenID).Equal(dec("7")))
	remaining, err := f.store.Repos().Layers.SumRemaining(context.Background(), companyID, flourID, kitchenID, nil)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("7")))

	entries, err := f.store.Repos().Ledger.ListByRef(context.Background(), companyID, entity.RefTypeStockCount, sc.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.MovementAdjustment, entries[0].Type)
	assert.True(t, entries[0].QtyDelta.Equal(dec("3").Neg()))
}

func TestStockCount_SinDiferenciaNoGeneraMovimiento(t *testing.T) {
	f := newFixture(t)

	f.receiveFlour(t, "10", "2.00")

	sc, err := f.counts.CreateDraft(context.Background(), posting.StockCountInput{
		CompanyID:   companyID,
		WarehouseID: kitchenID,
		DocNo:       "SC-1",
		CountDate:   time.Now(),
		CreatedBy:   userID,
		Lines: []posting.StockCountLineInput{
			{ProductID: flourID, CountedQty: dec("10")},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.counts.Post(context.Background(), companyID, userID, sc.ID))

	n, err := f.store.Repos().Ledger.CountByRef(context.Background(), companyID, entity.RefTypeStockCount, sc.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAdjustment_MermaConsumeYSobranteCreaCapa(t *testing.T) {
	f := newFixture(t)

	f.receiveFlour(t, "10", "2.00")

	cost := dec("2.50")
	adj, err := f.adjusts.CreateDraft(context.Background(), posting.AdjustmentInput{
		CompanyID:   companyID,
		WarehouseID: kitchenID,
		DocNo:       "ADJ-1",
		Reason:      entity.AdjustmentReasonWaste,
		AdjustDate:  time.Now(),
		CreatedBy:   userID,
		Lines: []posting.AdjustmentLineInput{
			{ProductID: flourID, QtyDelta: dec("2").Neg()},
			{ProductID: flourID, QtyDelta: dec("1"), UnitCost: &cost},
		},
	})
	require.NoError(t, err)
	require.NoError(t, f.adjusts.Post(context.Background(), companyID, userID, adj.ID))

	assert.True(t, f.onHand(t, flourID, kitchenID).Equal(dec("9")))
	remaining, err := f.store.Repos().Layers.SumRemaining(context.Background(), companyID, flourID, kitchenID, nil)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("9")))
}

func TestAdjustment_MotivoInvalidoRechazado(t *testing.T) {
	f := newFixture(t)

	_, err := f.adjusts.CreateDraft(context.Background(), posting.AdjustmentInput{
		CompanyID:   companyID,
		WarehouseID: kitchenID,
		DocNo:       "ADJ-1",
		Reason:      "theft",
		AdjustDate:  time.Now(),
		CreatedBy:   userID,
		Lines: []posting.AdjustmentLineInput{
			{ProductID: flourID, QtyDelta: dec("1").Neg()},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdjustment_PositivoSinCostoRechazado(t *testing.T) {
	f := newFixture(t)

	_, err := f.adjusts.CreateDraft(context.Background(), posting.AdjustmentInput{
		CompanyID:   companyID,
		WarehouseID: kitchenID,
		DocNo:       "ADJ-1",
		Reason:      entity.AdjustmentReasonCorrection,
		AdjustDate:  time.Now(),
		CreatedBy:   userID,
		Lines: []posting.AdjustmentLineInput{
			{ProductID: flourID, QtyDelta: dec("1")},
		},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
