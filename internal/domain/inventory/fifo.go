package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// CostScale es la cantidad de dígitos fraccionarios con que se persiste el
// costo unitario (columnas decimal(20,4)). El promedio ponderado se calcula
// exacto y se redondea una sola vez, al persistir.
const CostScale = 4

// FIFOResult es el resultado de un recorrido FIFO sobre capas de costo.
type FIFOResult struct {
	// UnitCost es el costo promedio ponderado exacto de lo consumido
	// (TotalCost / Consumed). Redondear con RoundCost al persistir.
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
	Consumed  decimal.Decimal
	// Shortfall es lo que faltó por cubrir cuando las capas se agotaron.
	Shortfall decimal.Decimal
	// Trail registra (capa, cantidad) en el orden consumido, para auditoría.
	Trail []entity.LayerConsumption
}

// WalkFIFO recorre las capas en el orden dado (el repositorio las entrega por
// created_at asc, id asc) consumiendo min(restante, faltante) de cada una.
// No muta las capas: devuelve el rastro para que el motor aplique los
// decrementos bajo el bloqueo de fila ya tomado.
func WalkFIFO(layers []*entity.CostLayer, needed decimal.Decimal) (*FIFOResult, error) {
	if !needed.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	res := &FIFOResult{
		TotalCost: decimal.Zero,
		Consumed:  decimal.Zero,
	}
	remaining := needed

	for _, layer := range layers {
		if remaining.IsZero() {
			break
		}
		if !layer.QtyRemaining.GreaterThan(decimal.Zero) {
			continue
		}
		take := decimal.Min(layer.QtyRemaining, remaining)
		res.Trail = append(res.Trail, entity.LayerConsumption{
			LayerID:  layer.ID,
			Qty:      take,
			UnitCost: layer.UnitCost,
		})
		res.TotalCost = res.TotalCost.Add(take.Mul(layer.UnitCost))
		res.Consumed = res.Consumed.Add(take)
		remaining = remaining.Sub(take)
	}

	res.Shortfall = remaining
	if res.Consumed.GreaterThan(decimal.Zero) {
		res.UnitCost = res.TotalCost.Div(res.Consumed)
	}
	return res, nil
}

// FillShortfall completa un recorrido con faltante usando el último costo
// conocido (política de stock negativo habilitada). Recalcula el promedio
// ponderado incluyendo la porción no respaldada por capas.
func (r *FIFOResult) FillShortfall(lastKnownCost decimal.Decimal) {
	if !r.Shortfall.GreaterThan(decimal.Zero) {
		return
	}
	r.TotalCost = r.TotalCost.Add(r.Shortfall.Mul(lastKnownCost))
	r.Consumed = r.Consumed.Add(r.Shortfall)
	r.Shortfall = decimal.Zero
	if r.Consumed.GreaterThan(decimal.Zero) {
		r.UnitCost = r.TotalCost.Div(r.Consumed)
	}
}

// RoundCost redondea un costo unitario a la precisión de persistencia.
func RoundCost(c decimal.Decimal) decimal.Decimal {
	return c.Round(CostScale)
}
