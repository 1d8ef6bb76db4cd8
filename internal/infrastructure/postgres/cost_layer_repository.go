package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/repository"
)

var _ repository.CostLayerRepository = (*CostLayerRepo)(nil)

// CostLayerRepo implementación de las capas de costo FIFO sobre PostgreSQL.
// qty_remaining solo se muta vía DecrementRemaining, bajo las filas bloqueadas
// por SelectForConsume en la misma transacción.
type CostLayerRepo struct {
	q Querier
}

// NewCostLayerRepository construye el adaptador de capas. Pasar pool o tx (Querier).
func NewCostLayerRepository(q Querier) *CostLayerRepo {
	return &CostLayerRepo{q: q}
}

const costLayerColumns = `id, company_id, product_id, warehouse_id, lot_id, qty_received, qty_remaining, unit_cost, source_type, source_id, created_at`

// Create inserta una capa nueva (entrada valorada) y la devuelve con ID y created_at.
func (r *CostLayerRepo) Create(ctx context.Context, layer *entity.CostLayer) (*entity.CostLayer, error) {
	if layer.ID == "" {
		layer.ID = uuid.New().String()
	}
	query := `
		INSERT INTO cost_layers (id, company_id, product_id, warehouse_id, lot_id, qty_received, qty_remaining, unit_cost, source_type, source_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`
	err := r.q.QueryRow(ctx, query,
		layer.ID, layer.CompanyID, layer.ProductID, layer.WarehouseID, layer.LotID,
		layer.QtyReceived, layer.QtyRemaining, layer.UnitCost, layer.SourceType, layer.SourceID,
	).Scan(&layer.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert cost layer: %w", err)
	}
	return layer, nil
}

func (r *CostLayerRepo) scanLayers(rows pgx.Rows) ([]*entity.CostLayer, error) {
	defer rows.Close()
	var layers []*entity.CostLayer
	for rows.Next() {
		var l entity.CostLayer
		if err := rows.Scan(
			&l.ID, &l.CompanyID, &l.ProductID, &l.WarehouseID, &l.LotID,
			&l.QtyReceived, &l.QtyRemaining, &l.UnitCost, &l.SourceType, &l.SourceID, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cost layer: %w", err)
		}
		layers = append(layers, &l)
	}
	return layers, rows.Err()
}

// SelectForConsume devuelve las capas con restante > 0 de la llave en orden
// FIFO estricto (created_at asc, desempate por id), bloqueando las filas con
// SELECT ... FOR UPDATE hasta el fin de la transacción. Dos consumos
// concurrentes de la misma llave se serializan aquí.
func (r *CostLayerRepo) SelectForConsume(ctx context.Context, companyID, productID, warehouseID string, lotID *string) ([]*entity.CostLayer, error) {
	query := `
		SELECT ` + costLayerColumns + `
		FROM cost_layers
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND ($4::uuid IS NULL OR lot_id = $4)
		  AND qty_remaining > 0
		ORDER BY created_at ASC, id ASC
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, companyID, productID, warehouseID, lotID)
	if err != nil {
		return nil, fmt.Errorf("select layers for consume: %w", err)
	}
	return r.scanLayers(rows)
}

// SelectBySourceForConsume bloquea las capas creadas por un documento
// específico (reverso de entradas), mismo orden FIFO.
func (r *CostLayerRepo) SelectBySourceForConsume(ctx context.Context, companyID, sourceType, sourceID string) ([]*entity.CostLayer, error) {
	query := `
		SELECT ` + costLayerColumns + `
		FROM cost_layers
		WHERE company_id = $1 AND source_type = $2 AND source_id = $3
		  AND qty_remaining > 0
		ORDER BY created_at ASC, id ASC
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, companyID, sourceType, sourceID)
	if err != nil {
		return nil, fmt.Errorf("select layers by source: %w", err)
	}
	return r.scanLayers(rows)
}

// DecrementRemaining resta qty del restante de la capa. El WHERE exige
// qty_remaining >= qty: si otra transacción drenó la capa entre el SELECT y
// este UPDATE, no se afecta ninguna fila y se reporta conflicto de concurrencia
// en vez de dejar un restante negativo.
func (r *CostLayerRepo) DecrementRemaining(ctx context.Context, layerID string, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%w: decremento de capa no positivo", domain.ErrInvalidInput)
	}
	query := `
		UPDATE cost_layers
		SET qty_remaining = qty_remaining - $2
		WHERE id = $1 AND qty_remaining >= $2`
	cmd, err := r.q.Exec(ctx, query, layerID, qty)
	if err != nil {
		return fmt.Errorf("decrement cost layer: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: capa %s sin restante suficiente", domain.ErrConcurrencyConflict, layerID)
	}
	return nil
}

// LastKnownUnitCost devuelve el costo de la capa más reciente de la llave,
// agotada o no, o nil si la llave nunca tuvo capas.
func (r *CostLayerRepo) LastKnownUnitCost(ctx context.Context, companyID, productID, warehouseID string, lotID *string) (*decimal.Decimal, error) {
	query := `
		SELECT unit_cost
		FROM cost_layers
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND ($4::uuid IS NULL OR lot_id = $4)
		ORDER BY created_at DESC, id DESC
		LIMIT 1`
	var cost decimal.Decimal
	err := r.q.QueryRow(ctx, query, companyID, productID, warehouseID, lotID).Scan(&cost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("last known unit cost: %w", err)
	}
	return &cost, nil
}

// SumRemaining suma el restante de la llave (conciliación con el libro).
func (r *CostLayerRepo) SumRemaining(ctx context.Context, companyID, productID, warehouseID string, lotID *string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(qty_remaining), 0)
		FROM cost_layers
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND ($4::uuid IS NULL OR lot_id = $4)`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, productID, warehouseID, lotID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum remaining: %w", err)
	}
	return sum, nil
}
