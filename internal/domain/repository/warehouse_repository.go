package repository

import (
	"context"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// WarehouseRepository define el puerto de bodegas/outlets.
type WarehouseRepository interface {
	Create(ctx context.Context, w *entity.Warehouse) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Warehouse, error)
	List(ctx context.Context, companyID string) ([]*entity.Warehouse, error)
}
