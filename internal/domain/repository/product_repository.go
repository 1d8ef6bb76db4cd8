package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// ProductRepository define el puerto de productos.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Product, error)
	List(ctx context.Context, companyID string) ([]*entity.Product, error)
	// UpdateCost actualiza el último costo unitario conocido del producto.
	UpdateCost(ctx context.Context, companyID, id string, cost decimal.Decimal) error
}
