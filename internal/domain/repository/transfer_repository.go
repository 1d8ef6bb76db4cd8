package repository

import (
	"context"
	"time"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// TransferRepository define el puerto de traslados entre bodegas.
type TransferRepository interface {
	Create(ctx context.Context, t *entity.Transfer) error
	GetByID(ctx context.Context, companyID, id string) (*entity.Transfer, error)
	MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error)
	MarkVoided(ctx context.Context, companyID, id string, at time.Time) (bool, error)
}
