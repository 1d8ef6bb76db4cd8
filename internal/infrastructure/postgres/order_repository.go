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

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de órdenes de venta/cocina sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la orden con sus líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	query := `
		INSERT INTO orders (id, company_id, warehouse_id, doc_no, status, order_date, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		o.ID, o.CompanyID, o.WarehouseID, o.DocNo, o.Status, o.OrderDate, o.Notes, o.CreatedBy,
	).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: orden %s", domain.ErrDuplicate, o.DocNo)
		}
		return fmt.Errorf("insert order: %w", err)
	}
	lineQuery := `
		INSERT INTO order_lines (id, order_id, product_id, lot_id, qty, note)
		VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range o.Lines {
		l := &o.Lines[i]
		if l.ID == "" {
			l.ID = uuid.New().String()
		}
		l.OrderID = o.ID
		if _, err := r.q.Exec(ctx, lineQuery, l.ID, l.OrderID, l.ProductID, l.LotID, l.Qty, l.Note); err != nil {
			return fmt.Errorf("insert order line: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la orden con sus líneas, o nil si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Order, error) {
	query := `
		SELECT id, company_id, warehouse_id, doc_no, status, order_date, notes, created_by, posted_at, voided_at, created_at, updated_at
		FROM orders WHERE company_id = $1 AND id = $2`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&o.ID, &o.CompanyID, &o.WarehouseID, &o.DocNo, &o.Status,
		&o.OrderDate, &o.Notes, &o.CreatedBy, &o.PostedAt, &o.VoidedAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	lineQuery := `
		SELECT id, order_id, product_id, lot_id, qty, note
		FROM order_lines WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("get order lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.LotID, &l.Qty, &l.Note); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	return &o, rows.Err()
}

// MarkPosted UPDATE condicional draft -> posted (guard de doble posteo).
func (r *OrderRepo) MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET status = $4, posted_at = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2 AND status = $5`
	cmd, err := r.q.Exec(ctx, query, companyID, id, at, entity.DocStatusPosted, entity.DocStatusDraft)
	if err != nil {
		return false, fmt.Errorf("mark order posted: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}

// MarkVoided UPDATE condicional posted -> void.
func (r *OrderRepo) MarkVoided(ctx context.Context, companyID, id string, at time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET status = $4, voided_at = $3, updated_at = now()
		WHERE company_id = $1 AND id = $2 AND status = $5`
	cmd, err := r.q.Exec(ctx, query, companyID, id, at, entity.DocStatusVoid, entity.DocStatusPosted)
	if err != nil {
		return false, fmt.Errorf("mark order voided: %w", err)
	}
	return cmd.RowsAffected() == 1, nil
}
