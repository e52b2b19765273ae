package repository

import (
	"context"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
)

// AuditoriaRepository porta append-only do log de auditoria fiscal.
// Não existem Update nem Delete de propósito.
type AuditoriaRepository interface {
	Create(ctx context.Context, a *entity.AuditoriaFiscal) error
}
