package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/inventory"
)

func layer(id string, remaining, cost string, age time.Duration) *entity.CostLayer {
	return &entity.CostLayer{
		ID:           id,
		CompanyID:    "co-1",
		ProductID:    "prod-1",
		WarehouseID:  "wh-1",
		QtyReceived:  decimal.RequireFromString(remaining),
		QtyRemaining: decimal.RequireFromString(remaining),
		UnitCost:     decimal.RequireFromString(cost),
		CreatedAt:    time.Now().Add(-age),
	}
}

// Vector del diseño: capas (10 @ 2.00) y (5 @ 3.00), consumir 12 =>
// promedio ponderado (10*2.00 + 2*3.00)/12 = 2.1667 (redondeado a 4 dígitos),
// primera capa drenada por completo y segunda con 3 restantes.
func TestWalkFIFO_PromedioPonderado(t *testing.T) {
	layers := []*entity.CostLayer{
		layer("l1", "10", "2.00", 2*time.Hour),
		layer("l2", "5", "3.00", time.Hour),
	}

	res, err := inventory.WalkFIFO(layers, decimal.RequireFromString("12"))
	require.NoError(t, err)

	assert.True(t, res.Shortfall.IsZero(), "no debe faltar stock")
	assert.True(t, res.Consumed.Equal(decimal.RequireFromString("12")))
	assert.True(t, res.TotalCost.Equal(decimal.RequireFromString("26")), "10*2.00 + 2*3.00 = 26, fue %s", res.TotalCost)
	assert.Equal(t, "2.1667", inventory.RoundCost(res.UnitCost).String())

	require.Len(t, res.Trail, 2)
	assert.Equal(t, "l1", res.Trail[0].LayerID)
	assert.True(t, res.Trail[0].Qty.Equal(decimal.RequireFromString("10")), "la capa más vieja se drena completa")
	assert.Equal(t, "l2", res.Trail[1].LayerID)
	assert.True(t, res.Trail[1].Qty.Equal(decimal.RequireFromString("2")))
}

func TestWalkFIFO_Faltante(t *testing.T) {
	layers := []*entity.CostLayer{layer("l1", "4", "5.00", time.Hour)}

	res, err := inventory.WalkFIFO(layers, decimal.RequireFromString("10"))
	require.NoError(t, err)

	assert.True(t, res.Consumed.Equal(decimal.RequireFromString("4")))
	assert.True(t, res.Shortfall.Equal(decimal.RequireFromString("6")))
}

func TestWalkFIFO_FillShortfall(t *testing.T) {
	layers := []*entity.CostLayer{layer("l1", "4", "5.00", time.Hour)}

	res, err := inventory.WalkFIFO(layers, decimal.RequireFromString("10"))
	require.NoError(t, err)

	// Política de stock negativo: completar al último costo conocido.
	res.FillShortfall(decimal.RequireFromString("5.00"))
	assert.True(t, res.Shortfall.IsZero())
	assert.True(t, res.Consumed.Equal(decimal.RequireFromString("10")))
	assert.True(t, res.UnitCost.Equal(decimal.RequireFromString("5.00")))
}

func TestWalkFIFO_IgnoraCapasAgotadas(t *testing.T) {
	drained := layer("l0", "0", "1.00", 3*time.Hour)
	layers := []*entity.CostLayer{drained, layer("l1", "5", "2.00", time.Hour)}

	res, err := inventory.WalkFIFO(layers, decimal.RequireFromString("3"))
	require.NoError(t, err)

	require.Len(t, res.Trail, 1)
	assert.Equal(t, "l1", res.Trail[0].LayerID)
}

func TestWalkFIFO_CantidadInvalida(t *testing.T) {
	_, err := inventory.WalkFIFO(nil, decimal.Zero)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = inventory.WalkFIFO(nil, decimal.RequireFromString("-1"))
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestWalkFIFO_NoMutaCapas(t *testing.T) {
	l := layer("l1", "10", "2.00", time.Hour)
	_, err := inventory.WalkFIFO([]*entity.CostLayer{l}, decimal.RequireFromString("4"))
	require.NoError(t, err)
	assert.True(t, l.QtyRemaining.Equal(decimal.RequireFromString("10")),
		"WalkFIFO solo calcula; el decremento lo aplica el motor")
}
