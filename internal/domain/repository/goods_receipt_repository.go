package repository

import (
	"context"
	"time"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// GoodsReceiptRepository define el puerto de recepciones de mercancía.
type GoodsReceiptRepository interface {
	Create(ctx context.Context, r *entity.GoodsReceipt) error
	// GetByID devuelve el documento con sus líneas, o nil si no existe.
	GetByID(ctx context.Context, companyID, id string) (*entity.GoodsReceipt, error)
	// MarkPosted ejecuta el guard de contabilización: un único UPDATE
	// condicional draft -> posted. Devuelve false si el documento no estaba
	// en draft (cierra la ventana de doble contabilización bajo reintentos).
	MarkPosted(ctx context.Context, companyID, id string, at time.Time) (bool, error)
	// MarkVoided UPDATE condicional posted -> void.
	MarkVoided(ctx context.Context, companyID, id string, at time.Time) (bool, error)
}
