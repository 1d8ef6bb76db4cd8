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

var _ repository.StockCountRepository = (*StockCountRepo)(nil)

// StockCountRepo implementación de conteos físicos sobre PostgreSQL.
type StockCountRepo struct {
	q Querier
}

// NewStockCountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockCountRepository(q Querier) *StockCountRepo {
	return &StockCountRepo{q: q}
}

// Create persiste el conteo con sus líneas.
func (r *StockCountRepo) Create(ctx context.Context, sc *entity.StockCount) error {
	if sc.ID == "" {
		sc.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_counts (id, company_id, warehouse_id, doc_no, status, count_date, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		sc.ID, sc.CompanyID, sc.WarehouseID, sc.DocNo, sc.Status, sc.CountDate, sc.Notes, sc.CreatedBy,
	).Scan(&sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: conteo %s", domain.ErrDuplicate, sc.DocNo)
		}
		return fmt.Errorf("insert stock count: %w", err)
	}
	lineQuery := `
		INSERT INTO stock_count_lines (id, stock_count_id, product_id, lot_id, counted_qty, note)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range sc.Lines {
		l := &sc.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.StockCountID = sc.ID
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, l.StockCountID, l.ProductID, l.LotID, l.CountedQty, l.Note); err != nil {
			return fmt.Errorf("insert stock count line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve el conteo con sus líneas, o nil si no existe.
func (r *StockCountRepo) GetByID(ctx context.Context, companyID, id string) (*entity.StockCount, error) {
	query := `
		SELECT id, company_id, warehouse_id, doc_no, status, count_date, notes, created_by, posted_at, created_at, updated_at
		FROM stock_counts WHERE company_id = $1 AND id = $2`
	var sc entity.StockCount
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&sc.ID, &sc.CompanyID, &sc.WarehouseID, &sc.DocNo, &sc.Status,
		&sc.CountDate, &sc.Notes, &sc.CreatedBy, &sc.PostedAt, &sc.CreatedAt, &sc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock count: %w", err)
	}
	lineQuery := `
		SELECT id, stock_count_id, product_id, lot_id, counted_qty, note
		FROM stock_count_lines WHERE stock_count_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get stock count lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.StockCountLine
		if err := rows.Scan(&l.ID, &l.StockCountID, &l.ProductID, &l.LotID, &l.CountedQty, &l.Note); err != nil {
			return nil, fmt.Errorf("scan stock count line: %w", err)
		}
		sc.Lines = append(sc.Lines, l)
	}
	return &sc, rows.Err()
}

// MarkPosted UPDATE condicional draft -> posted (guard de doble posteo).
func (r *StockCountRepo) MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	query := `
		UPDATE stock_counts
		SET status = $4, posted_at = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2 AND status = $5`
	cmd, err := r.q.Exec(ctx, query, companyID, id, at, entity.DocStatusPosted, entity.DocStatusDraft)
	if err != nil {
		return false, fmt.Errorf("mark stock count posted: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}
