package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/inventory"
)

func TestBuildReversal_NegaCantidadYMapeaTipo(t *testing.T) {
	cost := decimal.RequireFromString("5.00")
	lotID := "lot-1"
	orig := []*entity.StockLedgerEntry{
		{
			CompanyID:   "co-1",
			ProductID:   "prod-1",
			WarehouseID: "wh-1",
			LotID:       &lotID,
			Type:        entity.MovementReceipt,
			QtyDelta:    decimal.RequireFromString("20"),
			UnitCost:    &cost,
			RefType:     entity.RefTypeGoodsReceipt,
			RefID:       "gr-1",
		},
		{
			CompanyID:   "co-1",
			ProductID:   "prod-2",
			WarehouseID: "wh-1",
			Type:        entity.MovementIssue,
			QtyDelta:    decimal.RequireFromString("-3"),
			UnitCost:    &cost,
			RefType:     entity.RefTypeOrder,
			RefID:       "ord-1",
		},
	}

	now := time.Now()
	revs, err := inventory.BuildReversal(orig, inventory.ReversalOptions{
		CreatedBy:  "user-9",
		OccurredAt: now,
		Note:       "anulación",
	})
	require.NoError(t, err)
	require.Len(t, revs, 2)

	assert.Equal(t, entity.MovementReceiptReversal, revs[0].Type)
	assert.True(t, revs[0].QtyDelta.Equal(decimal.RequireFromString("-20")))
	assert.Equal(t, &lotID, revs[0].LotID, "el lote se preserva")
	require.NotNil(t, revs[0].UnitCost)
	assert.True(t, revs[0].UnitCost.Equal(cost), "el costo se preserva")
	assert.Equal(t, entity.RefTypeGoodsReceipt, revs[0].RefType, "referencia default: la original")
	assert.Equal(t, "gr-1", revs[0].RefID)
	assert.Equal(t, "user-9", revs[0].CreatedBy)
	assert.Equal(t, now, revs[0].OccurredAt)

	assert.Equal(t, entity.MovementIssueReversal, revs[1].Type)
	assert.True(t, revs[1].QtyDelta.Equal(decimal.RequireFromString("3")))
}

func TestBuildReversal_Overrides(t *testing.T) {
	override := entity.MovementAdjustment
	orig := []*entity.StockLedgerEntry{{
		CompanyID:   "co-1",
		ProductID:   "prod-1",
		WarehouseID: "wh-1",
		Type:        entity.MovementIssue,
		QtyDelta:    decimal.RequireFromString("-5"),
		RefType:     entity.RefTypeOrder,
		RefID:       "ord-1",
	}}

	revs, err := inventory.BuildReversal(orig, inventory.ReversalOptions{
		RefType:      entity.RefTypeAdjustment,
		RefID:        "adj-7",
		TypeOverride: &override,
		OccurredAt:   time.Now(),
	})
	require.NoError(t, err)
	require.Len(t, revs, 1)
	assert.Equal(t, entity.MovementAdjustment, revs[0].Type)
	assert.Equal(t, entity.RefTypeAdjustment, revs[0].RefType)
	assert.Equal(t, "adj-7", revs[0].RefID)
}

func TestBuildReversal_Vacio(t *testing.T) {
	revs, err := inventory.BuildReversal(nil, inventory.ReversalOptions{})
	require.NoError(t, err)
	assert.Empty(t, revs)
}

// El mapeo tipo -> reverso debe ser exhaustivo e involutivo: reversar dos
// veces vuelve al tipo original.
func TestMovementType_MapeoExhaustivo(t *testing.T) {
	base := []entity.MovementType{
		entity.MovementReceipt, entity.MovementIssue, entity.MovementAdjustment,
		entity.MovementTransferOut, entity.MovementTransferIn,
		entity.MovementProductionOut, entity.MovementProductionIn,
	}
	for _, typ := range base {
		rev, ok := typ.ReversalOf()
		require.True(t, ok, "tipo %s sin variante de reverso", typ)
		assert.True(t, rev.IsReversal())
		assert.True(t, rev.Valid())

		back, ok := rev.ReversalOf()
		require.True(t, ok)
		assert.Equal(t, typ, back)
	}

	_, ok := entity.MovementType("desconocido").ReversalOf()
	assert.False(t, ok)
	assert.False(t, entity.MovementType("desconocido").Valid())
}

func TestMovementType_Clasificacion(t *testing.T) {
	assert.True(t, entity.MovementReceipt.Inbound())
	assert.True(t, entity.MovementIssueReversal.Inbound(), "reversar una salida reinstala stock")
	assert.True(t, entity.MovementIssue.Outbound())
	assert.True(t, entity.MovementReceiptReversal.Outbound(), "reversar una entrada consume stock")

	// El ajuste no es entrada ni salida por tipo: decide el signo.
	assert.False(t, entity.MovementAdjustment.Inbound())
	assert.False(t, entity.MovementAdjustment.Outbound())
}
