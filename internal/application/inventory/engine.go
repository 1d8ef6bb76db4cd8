package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
	invdomain "github.com/ariefan/central-kitchen-sub010/internal/domain/inventory"
)

// Engine es el motor de inventario: libro append-only, capas de costo FIFO,
// registro de lotes y reversos compensatorios. Todas las operaciones reciben
// los repositorios de la transacción abierta por el orquestador (Repos);
// el motor no tiene conexión ambiente.
type Engine struct{}

// NewEngine construye el motor.
func NewEngine() *Engine {
	return &Engine{}
}

// ConsumeKey identifica el conjunto de capas de una llave de inventario.
type ConsumeKey struct {
	CompanyID   string
	ProductID   string
	WarehouseID string
	LotID       *string
}

// MovementInput es una línea de documento ya resuelta, lista para postear.
// Qty es el delta con signo: positivo para entradas, negativo para salidas;
// para adjustment el signo decide la dirección.
type MovementInput struct {
	CompanyID   string
	ProductID   string
	WarehouseID string
	LotID       *string
	Type        entity.MovementType
	Qty         decimal.Decimal
	// UnitCost obligatorio para entradas (crea la capa); ignorado en salidas,
	// donde el costo lo determina el consumo FIFO.
	UnitCost   *decimal.Decimal
	RefType    string
	RefID      string
	Note       string
	CreatedBy  string
	OccurredAt time.Time
	// AllowNegative habilita stock negativo al último costo conocido.
	// Viene de la política del producto, nunca de un default implícito.
	AllowNegative bool
}

// validateEntry aplica las reglas del libro: tipo del conjunto cerrado,
// procedencia obligatoria, delta no nulo y signo coherente con el tipo.
func validateEntry(e *entity.StockLedgerEntry) error {
	if e == nil {
		return domain.ErrInvalidInput
	}
	if e.CompanyID == "" || e.ProductID == "" || e.WarehouseID == "" {
		return fmt.Errorf("%w: movimiento sin empresa, producto o bodega", domain.ErrInvalidInput)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, e.Type)
	}
	if e.RefType == "" || e.RefID == "" {
		return fmt.Errorf("%w: movimiento sin documento origen", domain.ErrInvalidInput)
	}
	if e.QtyDelta.IsZero() {
		return fmt.Errorf("%w: delta de cantidad cero", domain.ErrInvalidInput)
	}
	if e.Type.Inbound() && e.QtyDelta.IsNegative() {
		return fmt.Errorf("%w: tipo de entrada %q con delta negativo", domain.ErrInvalidInput, e.Type)
	}
	if e.Type.Outbound() && e.QtyDelta.IsPositive() {
		return fmt.Errorf("%w: tipo de salida %q con delta positivo", domain.ErrInvalidInput, e.Type)
	}
	return nil
}

// RecordEntries valida e inserta un lote de movimientos en el libro.
// Inserción pura: nunca toca capas de costo (el libro es un log confiable y
// tonto). Lote vacío es no-op, no error.
func (e *Engine) RecordEntries(ctx context.Context, r Repos, entries []*entity.StockLedgerEntry) ([]*entity.StockLedgerEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	for _, entry := range entries {
		if err := validateEntry(entry); err != nil {
			return nil, err
		}
	}
	return r.Ledger.CreateBatch(ctx, entries)
}

// CreateLayers crea una capa de costo por cada movimiento de entrada del
// lote (1:1 con el movimiento; las capas nunca se fusionan). Movimientos de
// salida o de solo cantidad se omiten.
func (e *Engine) CreateLayers(ctx context.Context, r Repos, entries []*entity.StockLedgerEntry) ([]*entity.CostLayer, error) {
	var layers []*entity.CostLayer
	for _, entry := range entries {
		if !entry.QtyDelta.IsPositive() || entry.UnitCost == nil {
			continue
		}
		layer, err := r.Layers.Create(ctx, &entity.CostLayer{
			CompanyID:    entry.CompanyID,
			ProductID:    entry.ProductID,
			WarehouseID:  entry.WarehouseID,
			LotID:        entry.LotID,
			QtyReceived:  entry.QtyDelta,
			QtyRemaining: entry.QtyDelta,
			UnitCost:     *entry.UnitCost,
			SourceType:   entry.RefType,
			SourceID:     entry.RefID,
		})
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return layers, nil
}

// ConsumeFIFO consume qty de las capas de la llave, de la más vieja a la más
// nueva, bajo bloqueo de fila. Devuelve el costo promedio ponderado exacto y
// el rastro por capa. Si las capas no alcanzan: ErrInsufficientStock, salvo
// allowNegative, que completa al último costo conocido de la llave.
func (e *Engine) ConsumeFIFO(ctx context.Context, r Repos, key ConsumeKey, qty decimal.Decimal, allowNegative bool) (*invdomain.FIFOResult, error) {
	layers, err := r.Layers.SelectForConsume(ctx, key.CompanyID, key.ProductID, key.WarehouseID, key.LotID)
	if err != nil {
		return nil, err
	}
	res, err := invdomain.WalkFIFO(layers, qty)
	if err != nil {
		return nil, err
	}
	if res.Shortfall.GreaterThan(decimal.Zero) {
		if !allowNegative {
			return nil, fmt.Errorf("%w: faltan %s del producto %s en bodega %s",
				domain.ErrInsufficientStock, res.Shortfall, key.ProductID, key.WarehouseID)
		}
		last, err := e.lastKnownCost(ctx, r, key)
		if err != nil {
			return nil, err
		}
		res.FillShortfall(last)
	}
	for _, c := range res.Trail {
		if err := r.Layers.DecrementRemaining(ctx, c.LayerID, c.Qty); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// lastKnownCost: costo de la capa más reciente de la llave; si nunca hubo
// capas, el último costo del producto.
func (e *Engine) lastKnownCost(ctx context.Context, r Repos, key ConsumeKey) (decimal.Decimal, error) {
	last, err := r.Layers.LastKnownUnitCost(ctx, key.CompanyID, key.ProductID, key.WarehouseID, key.LotID)
	if err != nil {
		return decimal.Zero, err
	}
	if last != nil {
		return *last, nil
	}
	product, err := r.Products.GetByID(ctx, key.CompanyID, key.ProductID)
	if err != nil {
		return decimal.Zero, err
	}
	if product == nil {
		return decimal.Zero, fmt.Errorf("%w: producto %s", domain.ErrNotFound, key.ProductID)
	}
	return product.Cost, nil
}

// FindOrCreateLot resuelve un lote por su llave natural, creándolo si no
// existe (seguro ante carreras, delega en el upsert del repositorio).
func (e *Engine) FindOrCreateLot(ctx context.Context, r Repos, lot *entity.Lot) (*entity.Lot, error) {
	if lot == nil || lot.CompanyID == "" || lot.ProductID == "" || lot.WarehouseID == "" || lot.LotNo == "" {
		return nil, fmt.Errorf("%w: lote sin llave natural completa", domain.ErrInvalidInput)
	}
	return r.Lots.FindOrCreate(ctx, lot)
}

// PostMovement es la operación de dominio "postear una línea": registra el
// movimiento en el libro y crea o consume capas de costo en el mismo paso,
// eliminando la posibilidad de que un caller olvide una de las dos mitades.
//
// Entradas: exige UnitCost, inserta el movimiento y crea su capa.
// Salidas: consume FIFO, estampa el promedio ponderado (redondeado una sola
// vez, aquí) y registra el movimiento con delta negativo.
func (e *Engine) PostMovement(ctx context.Context, r Repos, in MovementInput) (*entity.StockLedgerEntry, error) {
	if !in.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, in.Type)
	}
	if in.Qty.IsZero() {
		return nil, fmt.Errorf("%w: cantidad cero", domain.ErrInvalidInput)
	}

	inbound := in.Qty.IsPositive()
	if in.Type.Inbound() && !inbound {
		return nil, fmt.Errorf("%w: tipo de entrada %q con cantidad negativa", domain.ErrInvalidInput, in.Type)
	}
	if in.Type.Outbound() && inbound {
		return nil, fmt.Errorf("%w: tipo de salida %q con cantidad positiva", domain.ErrInvalidInput, in.Type)
	}

	entry := &entity.StockLedgerEntry{
		CompanyID:   in.CompanyID,
		ProductID:   in.ProductID,
		WarehouseID: in.WarehouseID,
		LotID:       in.LotID,
		Type:        in.Type,
		QtyDelta:    in.Qty,
		RefType:     in.RefType,
		RefID:       in.RefID,
		Note:        in.Note,
		CreatedBy:   in.CreatedBy,
		OccurredAt:  in.OccurredAt,
	}

	if inbound {
		if in.UnitCost == nil || in.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: entrada sin costo unitario", domain.ErrInvalidInput)
		}
		cost := invdomain.RoundCost(*in.UnitCost)
		entry.UnitCost = &cost
	} else {
		res, err := e.ConsumeFIFO(ctx, r, ConsumeKey{
			CompanyID:   in.CompanyID,
			ProductID:   in.ProductID,
			WarehouseID: in.WarehouseID,
			LotID:       in.LotID,
		}, in.Qty.Neg(), in.AllowNegative)
		if err != nil {
			return nil, err
		}
		cost := invdomain.RoundCost(res.UnitCost)
		entry.UnitCost = &cost
	}

	inserted, err := e.RecordEntries(ctx, r, []*entity.StockLedgerEntry{entry})
	if err != nil {
		return nil, err
	}
	entry = inserted[0]

	if inbound {
		if _, err := e.CreateLayers(ctx, r, inserted); err != nil {
			return nil, err
		}
	}
	return entry, nil
}
