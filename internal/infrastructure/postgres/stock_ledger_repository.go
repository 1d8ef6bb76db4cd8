package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/repository"
)

var _ repository.StockLedgerRepository = (*StockLedgerRepo)(nil)

// StockLedgerRepo implementación del libro de inventario sobre PostgreSQL.
// Solo INSERT y SELECT: el libro es append-only y la tabla no tiene caminos
// de UPDATE ni DELETE en el código.
type StockLedgerRepo struct {
	q Querier
}

// NewStockLedgerRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewStockLedgerRepository(q Querier) *StockLedgerRepo {
	return &StockLedgerRepo{q: q}
}

// CreateBatch inserta el lote completo de movimientos y devuelve las filas con
// ID y created_at asignados. Lote vacío: no-op.
func (r *StockLedgerRepo) CreateBatch(ctx context.Context, entries []*entity.StockLedgerEntry) ([]*entity.StockLedgerEntry, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	query := `
		INSERT INTO stock_ledger (id, company_id, product_id, warehouse_id, lot_id, movement_type, is_reversal, qty_delta, unit_cost, ref_type, ref_id, note, metadata, created_by, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at`
	for _, e := range entries {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		err := r.q.QueryRow(ctx, query,
			e.ID, e.CompanyID, e.ProductID, e.WarehouseID, e.LotID,
			string(e.Type), e.Type.IsReversal(), e.QtyDelta, e.UnitCost,
			e.RefType, e.RefID, e.Note, e.Metadata, e.CreatedBy, e.OccurredAt,
		).Scan(&e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("insert ledger entry: %w", err)
		}
	}
	return entries, nil
}

// ListByRef devuelve los movimientos originales de un documento en orden de
// inserción. Excluye filas de reverso: anular dos veces nunca reversa un reverso.
func (r *StockLedgerRepo) ListByRef(ctx context.Context, companyID, refType, refID string) ([]*entity.StockLedgerEntry, error) {
	query := `
		SELECT id, company_id, product_id, warehouse_id, lot_id, movement_type, qty_delta, unit_cost, ref_type, ref_id, note, metadata, created_by, occurred_at, created_at
		FROM stock_ledger
		WHERE company_id = $1 AND ref_type = $2 AND ref_id = $3 AND is_reversal = false
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, companyID, refType, refID)
	if err != nil {
		return nil, fmt.Errorf("list ledger by ref: %w", err)
	}
	defer rows.Close()

	var entries []*entity.StockLedgerEntry
	for rows.Next() {
		var e entity.StockLedgerEntry
		var movType string
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.ProductID, &e.WarehouseID, &e.LotID,
			&movType, &e.QtyDelta, &e.UnitCost, &e.RefType, &e.RefID,
			&e.Note, &e.Metadata, &e.CreatedBy, &e.OccurredAt, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.Type = entity.MovementType(movType)
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// CountByRef cuenta las filas del libro de un documento (reversos incluidos).
func (r *StockLedgerRepo) CountByRef(ctx context.Context, companyID, refType, refID string) (int, error) {
	query := `SELECT count(*) FROM stock_ledger WHERE company_id = $1 AND ref_type = $2 AND ref_id = $3`
	var n int
	if err := r.q.QueryRow(ctx, query, companyID, refType, refID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count ledger by ref: %w", err)
	}
	return n, nil
}

// OnHand devuelve la existencia de la llave: SUM(qty_delta) sobre el libro.
// lotID nil agrega todos los lotes de la llave.
func (r *StockLedgerRepo) OnHand(ctx context.Context, companyID, productID, warehouseID string, lotID *string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(qty_delta), 0)
		FROM stock_ledger
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND ($4::uuid IS NULL OR lot_id = $4)`
	var onHand decimal.Decimal
	if err := r.q.QueryRow(ctx, query, companyID, productID, warehouseID, lotID).Scan(&onHand); err != nil {
		return decimal.Zero, fmt.Errorf("on-hand: %w", err)
	}
	return onHand, nil
}
