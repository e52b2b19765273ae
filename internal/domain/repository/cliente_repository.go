package repository

import (
	"context"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
)

// ClienteRepository porta de persistência do destinatário.
type ClienteRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Cliente, error)
	// GetByCpfCnpj busca por documento (apenas dígitos) dentro do tenant;
	// usado pelo importador para deduplicar.
	GetByCpfCnpj(ctx context.Context, codigoEmpresa, cpfCnpjDigits string) (*entity.Cliente, error)
	Create(ctx context.Context, c *entity.Cliente) error
}
