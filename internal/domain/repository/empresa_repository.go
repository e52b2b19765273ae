package repository

import (
	"context"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
)

// EmpresaRepository porta de persistência do emitente/tenant.
type EmpresaRepository interface {
	GetByCodigoEmpresa(ctx context.Context, codigoEmpresa string) (*entity.Empresa, error)
	// GetByCNPJ localiza a empresa pelo CNPJ (apenas dígitos); usado pelo
	// webhook quando o callback não traz referência direta à comanda.
	GetByCNPJ(ctx context.Context, cnpjDigits string) (*entity.Empresa, error)
}
