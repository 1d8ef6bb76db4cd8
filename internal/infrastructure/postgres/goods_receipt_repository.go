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

var _ repository.GoodsReceiptRepository = (*GoodsReceiptRepo)(nil)

// GoodsReceiptRepo implementación de recepciones de mercancía sobre PostgreSQL.
type GoodsReceiptRepo struct {
	q Querier
}

// NewGoodsReceiptRepository construye el adaptador. Pasar pool o tx (Querier).
func NewGoodsReceiptRepository(q Querier) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{q: q}
}

// Create persiste la recepción con sus líneas.
func (r *GoodsReceiptRepo) Create(ctx context.Context, gr *entity.GoodsReceipt) error {
	if gr.ID == "" {
		gr.ID = uuid.New().String()
	}
	query := `
		INSERT INTO goods_receipts (id, company_id, warehouse_id, doc_no, supplier, status, receipt_date, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		gr.ID, gr.CompanyID, gr.WarehouseID, gr.DocNo, gr.Supplier,
		gr.Status, gr.ReceiptDate, gr.Notes, gr.CreatedBy,
	).Scan(&gr.CreatedAt, &gr.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: recepción %s", domain.ErrDuplicate, gr.DocNo)
		}
		return fmt.Errorf("insert goods receipt: %w", err)
	}
	lineQuery := `
		INSERT INTO goods_receipt_lines (id, receipt_id, product_id, lot_no, expiry_date, mfg_date, qty, unit_cost, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i := range gr.Lines {
		l := &gr.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.ReceiptID = gr.ID
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.ReceiptID, l.ProductID, l.LotNo, l.ExpiryDate, l.MfgDate, l.Qty, l.UnitCost, l.Note,
		)
		if err != nil {
			return fmt.Errorf("insert goods receipt line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la recepción con sus líneas, o nil si no existe.
func (r *GoodsReceiptRepo) GetByID(ctx context.Context, companyID, id string) (*entity.GoodsReceipt, error) {
	query := `
		SELECT id, company_id, warehouse_id, doc_no, supplier, status, receipt_date, notes, created_by, posted_at, voided_at, created_at, updated_at
		FROM goods_receipts WHERE company_id = $1 AND id = $2`
	var gr entity.GoodsReceipt
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&gr.ID, &gr.CompanyID, &gr.WarehouseID, &gr.DocNo, &gr.Supplier,
		&gr.Status, &gr.ReceiptDate, &gr.Notes, &gr.CreatedBy,
		&gr.PostedAt, &gr.VoidedAt, &gr.CreatedAt, &gr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get goods receipt: %w", err)
	}
	lineQuery := `
		SELECT id, receipt_id, product_id, lot_no, expiry_date, mfg_date, qty, unit_cost, note
		FROM goods_receipt_lines WHERE receipt_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get goods receipt lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.GoodsReceiptLine
		if err := rows.Scan(&l.ID, &l.ReceiptID, &l.ProductID, &l.LotNo, &l.ExpiryDate, &l.MfgDate, &l.Qty, &l.UnitCost, &l.Note); err != nil {
			return nil, fmt.Errorf("scan goods receipt line: %w", err)
		}
		gr.Lines = append(gr.Lines, l)
	}
	return &gr, rows.Err()
}

// MarkPosted ejecuta el guard de contabilización: UPDATE condicional
// draft -> posted en una sola sentencia. false = el documento ya no estaba en draft.
func (r *GoodsReceiptRepo) MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	query := `
		UPDATE goods_receipts
		SET status = $4, posted_at = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2 AND status = $5`
	cmd, err := r.q.Exec(ctx, query, companyID, id, at, entity.DocStatusPosted, entity.DocStatusDraft)
	if err != nil {
		return false, fmt.Errorf("mark goods receipt posted: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// MarkVoided UPDATE condicional posted -> void. false = no estaba en posted.
func (r *GoodsReceiptRepo) MarkVoided(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	query := `
		UPDATE goods_receipts
		SET status = $4, voided_at = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2 AND status = $5`
	cmd, err := r.q.Exec(ctx, query, companyID, id, at, entity.DocStatusVoid, entity.DocStatusPosted)
	if err != nil {
		return false, fmt.Errorf("mark goods receipt voided: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}
