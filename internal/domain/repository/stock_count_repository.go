package repository

import (
	"context"
	"time"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// StockCountRepository define el puerto de conteos físicos.
type StockCountRepository interface {
	Create(ctx context.Context, sc *entity.StockCount) error
	GetByID(ctx context.Context, companyID, id string) (*entity.StockCount, error)
	MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error)
}
