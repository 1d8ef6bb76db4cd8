package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefan/central-kitchen-sub010/internal/application/inventory"
	"github.com/ariefan/central-kitchen-sub010/internal/application/inventory/inventorytest"
	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

const (
	companyID   = "11111111-1111-1111-1111-111111111111"
	productID   = "22222222-2222-2222-2222-222222222222"
	warehouseID = "33333333-3333-3333-3333-333333333333"
	userID      = "44444444-4444-4444-4444-444444444444"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func setupEngine(t *testing.T, allowNegative bool) (*inventory.Engine, *inventorytest.Store, *inventorytest.TxRunner) {
	t.Helper()
	store := inventorytest.NewStore()
	store.AddProduct(&entity.Product{
		ID:                 productID,
		CompanyID:          companyID,
		SKU:                "HAR-001",
		Name:               "Harina de trigo",
		BaseUnit:           "g",
		Cost:               dec("1.5000"),
		AllowNegativeStock: allowNegative,
	})
	return inventory.NewEngine(), store, inventorytest.NewTxRunner(store)
}

func receive(t *testing.T, engine *inventory.Engine, tx *inventorytest.TxRunner, refID, qty, cost string) {
	t.Helper()
	unitCost := dec(cost)
	err := tx.Run(context.Background(), func(r inventory.Repos) error {
		_, err := engine.PostMovement(context.Background(), r, inventory.MovementInput{
			CompanyID:   companyID,
			ProductID:   productID,
			WarehouseID: warehouseID,
			Type:        entity.MovementReceipt,
			Qty:         dec(qty),
			UnitCost:    &unitCost,
			RefType:     entity.RefTypeGoodsReceipt,
			RefID:       refID,
			CreatedBy:   userID,
			OccurredAt:  time.Now(),
		})
		return err
	})
	require.NoError(t, err)
}

func TestPostMovement_EntradaCreaCapaYAsientoEspejo(t *testing.T) {
	engine, store, tx := setupEngine(t, false)

	receive(t, engine, tx, "gr-1", "10", "2.00")

	repos := store.Repos()
	onHand, err := repos.Ledger.OnHand(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, onHand.Equal(dec("10")))

	remaining, err := repos.Layers.SumRemaining(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("10")), "la capa debe nacer con restante igual a lo recibido")

	require.Len(t, store.Layers, 1)
	assert.True(t, store.Layers[0].UnitCost.Equal(dec("2.0000")))
	assert.Equal(t, entity.RefTypeGoodsReceipt, store.Layers[0].SourceType)
}

func TestPostMovement_SalidaConsumePromedioPonderado(t *testing.T) {
	engine, store, tx := setupEngine(t, false)

	receive(t, engine, tx, "gr-1", "10", "2.00")
	receive(t, engine, tx, "gr-2", "5", "3.00")

	var issued *entity.StockLedgerEntry
	err := tx.Run(context.Background(), func(r inventory.Repos) error {
		var err error
		issued, err = engine.PostMovement(context.Background(), r, inventory.MovementInput{
			CompanyID:   companyID,
			ProductID:   productID,
			WarehouseID: warehouseID,
			Type:        entity.MovementIssue,
			Qty:         dec("12").Neg(),
			RefType:     entity.RefTypeOrder,
			RefID:       "ord-1",
			CreatedBy:   userID,
			OccurredAt:  time.Now(),
		})
		return err
	})
	require.NoError(t, err)

	// 10 @ 2.00 + 2 @ 3.00 = 26.00 / 12 = 2.1667 (redondeo a 4 decimales).
	require.NotNil(t, issued.UnitCost)
	assert.Equal(t, "2.1667", issued.UnitCost.String())

	repos := store.Repos()
	onHand, err := repos.Ledger.OnHand(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, onHand.Equal(dec("3")))

	remaining, err := repos.Layers.SumRemaining(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("3")), "libro y capas deben conciliar después del consumo")
}

func TestPostMovement_StockInsuficienteRechazaTodoElLote(t *testing.T) {
	engine, store, tx := setupEngine(t, false)

	receive(t, engine, tx, "gr-1", "5", "2.00")

	err := tx.Run(context.Background(), func(r inventory.Repos) error {
		_, err := engine.PostMovement(context.Background(), r, inventory.MovementInput{
			CompanyID:   companyID,
			ProductID:   productID,
			WarehouseID: warehouseID,
			Type:        entity.MovementIssue,
			Qty:         dec("8").Neg(),
			RefType:     entity.RefTypeOrder,
			RefID:       "ord-1",
			CreatedBy:   userID,
			OccurredAt:  time.Now(),
		})
		return err
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Rollback: nada quedó a medias.
	repos := store.Repos()
	onHand, err := repos.Ledger.OnHand(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, onHand.Equal(dec("5")))
	remaining, err := repos.Layers.SumRemaining(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("5")))
}

func TestPostMovement_NegativoPermitidoCompletaAlUltimoCosto(t *testing.T) {
	engine, store, tx := setupEngine(t, true)

	receive(t, engine, tx, "gr-1", "5", "2.00")

	var issued *entity.StockLedgerEntry
	err := tx.Run(context.Background(), func(r inventory.Repos) error {
		var err error
		issued, err = engine.PostMovement(context.Background(), r, inventory.MovementInput{
			CompanyID:     companyID,
			ProductID:     productID,
			WarehouseID:   warehouseID,
			Type:          entity.MovementIssue,
			Qty:           dec("8").Neg(),
			RefType:       entity.RefTypeOrder,
			RefID:         "ord-1",
			CreatedBy:     userID,
			OccurredAt:    time.Now(),
			AllowNegative: true,
		})
		return err
	})
	require.NoError(t, err)

	// 5 @ 2.00 de capas + 3 @ 2.00 (último costo conocido) = 2.0000.
	require.NotNil(t, issued.UnitCost)
	assert.Equal(t, "2.0000", issued.UnitCost.String())

	onHand, err := store.Repos().Ledger.OnHand(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, onHand.Equal(dec("3").Neg()), "la existencia queda negativa")
}

func TestReverseByRef_SalidaReinstalaCapaAlCostoOriginal(t *testing.T) {
	engine, store, tx := setupEngine(t, false)

	receive(t, engine, tx, "gr-1", "10", "2.00")

	err := tx.Run(context.Background(), func(r inventory.Repos) error {
		_, err := engine.PostMovement(context.Background(), r, inventory.MovementInput{
			CompanyID:   companyID,
			ProductID:   productID,
			WarehouseID: warehouseID,
			Type:        entity.MovementIssue,
			Qty:         dec("4").Neg(),
			RefType:     entity.RefTypeOrder,
			RefID:       "ord-1",
			CreatedBy:   userID,
			OccurredAt:  time.Now(),
		})
		return err
	})
	require.NoError(t, err)

	err = tx.Run(context.Background(), func(r inventory.Repos) error {
		_, err := engine.ReverseByRef(context.Background(), r, companyID, entity.RefTypeOrder, "ord-1", inventory.ReverseOptions{
			CreatedBy:  userID,
			OccurredAt: time.Now(),
		})
		return err
	})
	require.NoError(t, err)

	repos := store.Repos()
	onHand, err := repos.Ledger.OnHand(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, onHand.Equal(dec("10")), "el reverso restituye la existencia original")

	remaining, err := repos.Layers.SumRemaining(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("10")), "la capa reinstalada restituye el restante")

	// El reverso queda en el libro como issue_reversal con delta positivo.
	var rev *entity.StockLedgerEntry
	for _, e := range store.Entries {
		if e.Type == entity.MovementIssueReversal {
			rev = e
		}
	}
	require.NotNil(t, rev)
	assert.True(t, rev.QtyDelta.Equal(dec("4")))
	assert.Equal(t, "2.0000", rev.UnitCost.String())
}

func TestReverseByRef_EntradaConsumeCapasDelDocumento(t *testing.T) {
	engine, store, tx := setupEngine(t, false)

	receive(t, engine, tx, "gr-1", "10", "2.00")
	receive(t, engine, tx, "gr-2", "5", "3.00")

	err := tx.Run(context.Background(), func(r inventory.Repos) error {
		_, err := engine.ReverseByRef(context.Background(), r, companyID, entity.RefTypeGoodsReceipt, "gr-2", inventory.ReverseOptions{
			CreatedBy:  userID,
			OccurredAt: time.Now(),
		})
		return err
	})
	require.NoError(t, err)

	repos := store.Repos()
	onHand, err := repos.Ledger.OnHand(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, onHand.Equal(dec("10")))

	// La capa de gr-1 queda intacta; la de gr-2 agotada.
	for _, l := range store.Layers {
		switch l.SourceID {
		case "gr-1":
			assert.True(t, l.QtyRemaining.Equal(dec("10")))
		case "gr-2":
			assert.True(t, l.QtyRemaining.IsZero())
		}
	}
}

func TestReverseByRef_DobleAnulacionNoReversaReversos(t *testing.T) {
	engine, store, tx := setupEngine(t, false)

	receive(t, engine, tx, "gr-1", "10", "2.00")

	reverse := func() error {
		return tx.Run(context.Background(), func(r inventory.Repos) error {
			_, err := engine.ReverseByRef(context.Background(), r, companyID, entity.RefTypeGoodsReceipt, "gr-1", inventory.ReverseOptions{
				CreatedBy:  userID,
				OccurredAt: time.Now(),
			})
			return err
		})
	}
	require.NoError(t, reverse())

	onHand, err := store.Repos().Ledger.OnHand(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, onHand.IsZero())

	// El segundo reverso vuelve a derivar del original (ListByRef excluye
	// reversos) y consume capas que ya no existen: falla sin tocar nada.
	err = reverse()
	require.Error(t, err)
	onHand, err = store.Repos().Ledger.OnHand(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, onHand.IsZero(), "la doble anulación no duplica el efecto")
}

func TestConsumeFIFO_ConcurrenciaNoSobreconsume(t *testing.T) {
	engine, store, tx := setupEngine(t, false)

	receive(t, engine, tx, "gr-1", "10", "2.00")

	issue := func(refID string) error {
		return tx.RunWithRetry(context.Background(), func(r inventory.Repos) error {
			_, err := engine.PostMovement(context.Background(), r, inventory.MovementInput{
				CompanyID:   companyID,
				ProductID:   productID,
				WarehouseID: warehouseID,
				Type:        entity.MovementIssue,
				Qty:         dec("6").Neg(),
				RefType:     entity.RefTypeOrder,
				RefID:       refID,
				CreatedBy:   userID,
				OccurredAt:  time.Now(),
			})
			return err
		})
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, ref := range []string{"ord-1", "ord-2"} {
		wg.Add(1)
		go func(i int, ref string) {
			defer wg.Done()
			errs[i] = issue(ref)
		}(i, ref)
	}
	wg.Wait()

	// Exactamente una de las dos órdenes de 6 cabe en la capa de 10.
	ok, failed := 0, 0
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, failed)

	remaining, err := store.Repos().Layers.SumRemaining(context.Background(), companyID, productID, warehouseID, nil)
	require.NoError(t, err)
	assert.True(t, remaining.Equal(dec("4")), "el restante nunca baja de cero")
}

func TestFindOrCreateLot_MismaLlaveDevuelveMismaFila(t *testing.T) {
	engine, _, tx := setupEngine(t, false)

	var first, second *entity.Lot
	err := tx.Run(context.Background(), func(r inventory.Repos) error {
		var err error
		first, err = engine.FindOrCreateLot(context.Background(), r, &entity.Lot{
			CompanyID:   companyID,
			ProductID:   productID,
			WarehouseID: warehouseID,
			LotNo:       "L-2026-08",
		})
		if err != nil {
			return err
		}
		second, err = engine.FindOrCreateLot(context.Background(), r, &entity.Lot{
			CompanyID:   companyID,
			ProductID:   productID,
			WarehouseID: warehouseID,
			LotNo:       "L-2026-08",
		})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}
