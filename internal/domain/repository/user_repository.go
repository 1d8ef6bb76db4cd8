package repository

import (
	"context"

	"github.com/ariefan/central-kitchen-sub010/internal/domain/entity"
)

// UserRepository define el puerto de usuarios.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailAndCompany(ctx context.Context, email, companyID string) (*entity.User, error)
}
