package repository

import (
	"context"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// LotRepository define el puerto del registro de lotes.
type LotRepository interface {
	// FindOrCreate busca por la llave natural (empresa, producto, bodega,
	// número de lote) e inserta si no existe. Debe ser seguro ante carreras:
	// dos contabilizaciones concurrentes del mismo lote nuevo obtienen la
	// misma fila, nunca un error de llave duplicada.
	FindOrCreate(ctx context.Context, lot *entity.Lot) (*entity.Lot, error)
	GetByID(ctx context.Context, companyID, id string) (*entity.Lot, error)
}
