package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
	"github.com/ariefan/central-kitchen-sub010/internal/domain/repository"
)

var _ repository.LotRepository = (*LotRepo)(nil)

// LotRepo implementación del registro de lotes sobre PostgreSQL.
type LotRepo struct {
	q Querier
}

// NewLotRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewLotRepository(q Querier) *LotRepo {
	return &LotRepo{q: q}
}

// FindOrCreate inserta el lote por su llave natural (empresa, producto,
// bodega, número de lote) o devuelve la fila existente. El ON CONFLICT con
// DO UPDATE no-op hace que el RETURNING entregue la fila en ambos casos, así
// dos contabilizaciones concurrentes del mismo lote nuevo obtienen el mismo ID
// sin error de llave duplicada.
func (r *LotRepo) FindOrCreate(ctx context.Context, lot *entity.Lot) (*entity.Lot, error) {
	if lot.ID == "" {
		lot.ID = uuid.New().String()
	}
	query := `
		INSERT INTO lots (id, company_id, product_id, warehouse_id, lot_no, expiry_date, mfg_date, received_at, notes, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (company_id, product_id, warehouse_id, lot_no)
		DO UPDATE SET lot_no = EXCLUDED.lot_no
		RETURNING id, company_id, product_id, warehouse_id, lot_no, expiry_date, mfg_date, received_at, notes, metadata, created_at`
	var out entity.Lot
	err := r.q.QueryRow(ctx, query,
		lot.ID, lot.CompanyID, lot.ProductID, lot.WarehouseID, lot.LotNo,
		lot.ExpiryDate, lot.MfgDate, lot.ReceivedAt, lot.Notes, lot.Metadata,
	).Scan(
		&out.ID, &out.CompanyID, &out.ProductID, &out.WarehouseID, &out.LotNo,
		&out.ExpiryDate, &out.MfgDate, &out.ReceivedAt, &out.Notes, &out.Metadata, &out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("find-or-create lot: %w", err)
	}
	return &out, nil
}

// GetByID obtiene un lote por ID, o nil si no existe.
func (r *LotRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Lot, error) {
	query := `
		SELECT id, company_id, product_id, warehouse_id, lot_no, expiry_date, mfg_date, received_at, notes, metadata, created_at
		FROM lots WHERE company_id = $1 AND id = $2`
	var l entity.Lot
	err := r.q.QueryRow(ctx, query, companyID, id).Scan(
		&l.ID, &l.CompanyID, &l.ProductID, &l.WarehouseID, &l.LotNo,
		&l.ExpiryDate, &l.MfgDate, &l.ReceivedAt, &l.Notes, &l.Metadata, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lot: %w", err)
	}
	return &l, nil
}
