package repository

import (
	"context"
	"time"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// OrderRepository define el puerto de órdenes de venta/cocina.
type OrderRepository interface {
	Create(ctx context.Context, o *entity.Order) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Order, error)
	// MarkPosted UPDATE condicional draft -> posted (guard de doble posteo).
	MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error)
	// MarkVoided UPDATE condicional posted -> void.
	MarkVoided(ctx context.Context, companyID, id string, at time.Time) (bool, error)
}
