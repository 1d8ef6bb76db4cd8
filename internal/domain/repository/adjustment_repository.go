package repository

import (
	"context"
	"time"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// AdjustmentRepository define el puerto de ajustes (merma, vencimiento, corrección).
type AdjustmentRepository interface {
	Create(ctx context.Context, a *entity.Adjustment) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Adjustment, error)
	MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error)
}
