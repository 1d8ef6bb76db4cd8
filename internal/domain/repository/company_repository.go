package repository

import (
	"context"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// CompanyRepository define el puerto de empresas (tenants).
type CompanyRepository interface {
	Create(ctx context.Context, c *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	List(ctx context.Context) ([]*entity.Company, error)
}
