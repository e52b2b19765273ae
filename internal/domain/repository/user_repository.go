package repository

import (
	"context"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
)

// UserRepository porta de persistência de usuários.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByEmailAndEmpresa(ctx context.Context, email, codigoEmpresa string) (*entity.User, error)
}
