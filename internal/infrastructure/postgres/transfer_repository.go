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

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo implementación de traslados entre bodegas sobre PostgreSQL.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create persiste el traslado con sus líneas.
func (r *TransferRepo) Create(ctx context.Context, t *entity.Transfer) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	query := `
		INSERT INTO transfers (id, company_id, from_warehouse_id, to_warehouse_id, doc_no, status, transfer_date, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		t.ID, t.CompanyID, t.FromWarehouseID, t.ToWarehouseID, t.DocNo,
		t.Status, t.TransferDate, t.Notes, t.CreatedBy,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: traslado %s", domain.ErrDuplicate, t.DocNo)
		}
		return fmt.Errorf("insert transfer: %w", err)
	}
	lineQuery := `
		INSERT INTO transfer_lines (id, transfer_id, product_id, lot_id, qty, note)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range t.Lines {
		l := &t.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.TransferID = t.ID
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, l.TransferID, l.ProductID, l.LotID, l.Qty, l.Note); err != nil {
			return fmt.Errorf("insert transfer line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve el traslado con sus líneas, o nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Transfer, error) {
	query := `
		SELECT id, company_id, from_warehouse_id, to_warehouse_id, doc_no, status, transfer_date, notes, created_by, posted_at, voided_at, created_at, updated_at
		FROM transfers WHERE company_id = $1 AND id = $2`
	var t entity.Transfer
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&t.ID, &t.CompanyID, &t.FromWarehouseID, &t.ToWarehouseID, &t.DocNo,
		&t.Status, &t.TransferDate, &t.Notes, &t.CreatedBy,
		&t.PostedAt, &t.VoidedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	lineQuery := `
		SELECT id, transfer_id, product_id, lot_id, qty, note
		FROM transfer_lines WHERE transfer_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get transfer lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.TransferLine
		if err := rows.Scan(&l.ID, &l.TransferID, &l.ProductID, &l.LotID, &l.Qty, &l.Note); err != nil {
			return nil, fmt.Errorf("scan transfer line: %w", err)
		}
		t.Lines = append(t.Lines, l)
	}
	return &t, rows.Err()
}

// MarkPosted UPDATE condicional draft -> posted (guard de doble posteo).
func (r *TransferRepo) MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	query := `
		UPDATE transfers
		SET status = $4, posted_at = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2 AND status = $5`
	cmd, err := r.q.Exec(ctx, query, companyID, id, at, entity.DocStatusPosted, entity.DocStatusDraft)
	if err != nil {
		return false, fmt.Errorf("mark transfer posted: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// MarkVoided UPDATE condicional posted -> void.
func (r *TransferRepo) MarkVoided(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	query := `
		UPDATE transfers
		SET status = $4, voided_at = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2 AND status = $5`
	cmd, err := r.q.Exec(ctx, query, companyID, id, at, entity.DocStatusVoid, entity.DocStatusPosted)
	if err != nil {
		return false, fmt.Errorf("mark transfer voided: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}
