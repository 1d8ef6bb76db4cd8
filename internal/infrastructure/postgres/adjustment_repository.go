package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ariefan/central-kitchen-sub010/internal/domain"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/repository"
)

var _ repository.AdjustmentRepository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implementación de ajustes manuales sobre PostgreSQL.
type AdjustmentRepo struct {
	q Querier
}

// NewAdjustmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAdjustmentRepository(q Querier) *AdjustmentRepo {
	return &AdjustmentRepo{q: q}
}

// Create persiste el ajuste con sus líneas.
func (r *AdjustmentRepo) Create(ctx context.Context, a *entity.Adjustment) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	query := `
		INSERT INTO adjustments (id, company_id, warehouse_id, doc_no, reason, status, adjust_date, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		a.ID, a.CompanyID, a.WarehouseID, a.DocNo, a.Reason, a.Status, a.AdjustDate, a.Notes, a.CreatedBy,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ajuste %s", domain.ErrDuplicate, a.DocNo)
		}
		return fmt.Errorf("insert adjustment: %w", err)
	}
	lineQuery := `
		INSERT INTO adjustment_lines (id, adjustment_id, product_id, lot_id, qty_delta, unit_cost, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i := range a.Lines {
		l := &a.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.AdjustmentID = a.ID
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, l.AdjustmentID, l.ProductID, l.LotID, l.QtyDelta, l.UnitCost, l.Note); err != nil {
			return fmt.Errorf("insert adjustment line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve el ajuste con sus líneas, o nil si no existe.
func (r *AdjustmentRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Adjustment, error) {
	query := `
		SELECT id, company_id, warehouse_id, doc_no, reason, status, adjust_date, notes, created_by, posted_at, created_at, updated_at
		FROM adjustments WHERE company_id = $1 AND id = $2`
	var a entity.Adjustment
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&a.ID, &a.CompanyID, &a.WarehouseID, &a.DocNo, &a.Reason, &a.Status,
		&a.AdjustDate, &a.Notes, &a.CreatedBy, &a.PostedAt, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get adjustment: %w", err)
	}
	lineQuery := `
		SELECT id, adjustment_id, product_id, lot_id, qty_delta, unit_cost, note
		FROM adjustment_lines WHERE adjustment_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get adjustment lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.AdjustmentLine
		if err := rows.Scan(&l.ID, &l.AdjustmentID, &l.ProductID, &l.LotID, &l.QtyDelta, &l.UnitCost, &l.Note); err != nil {
			return nil, fmt.Errorf("scan adjustment line: %w", err)
		}
		a.Lines = append(a.Lines, l)
	}
	return &a, rows.Err()
}

// MarkPosted UPDATE condicional draft -> posted (guard de doble posteo).
func (r *AdjustmentRepo) MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	query := `
		UPDATE adjustments
		SET status = $4, posted_at = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2 AND status = $5`
	cmd, err := r.q.Exec(ctx, query, companyID, id, at, entity.DocStatusPosted, entity.DocStatusDraft)
	if err != nil {
		return false, fmt.Errorf("mark adjustment posted: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}
