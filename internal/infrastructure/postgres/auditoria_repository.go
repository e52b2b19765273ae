package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
)

var _ repository.AuditoriaRepository = (*AuditoriaRepo)(nil)

// AuditoriaRepo implementação append-only de AuditoriaRepository.
type AuditoriaRepo struct {
	q Querier
}

// NewAuditoriaRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewAuditoriaRepository(q Querier) *AuditoriaRepo {
	return &AuditoriaRepo{q: q}
}

// Create insere um registro de auditoria. Request/Response vazios viram NULL
// para não gravar JSON inválido nas colunas jsonb.
func (r *AuditoriaRepo) Create(ctx context.Context, a *entity.AuditoriaFiscal) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO auditoria_fiscal (id, codigo_empresa, acao, modelo, comanda_id, status, mensagem, request, response, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.CodigoEmpresa, a.Acao, a.Modelo, a.ComandaID,
		a.Status, a.Mensagem, nullIfEmptyBytes(a.Request), nullIfEmptyBytes(a.Response), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert auditoria: %w", err)
	}
	return nil
}

func nullIfEmptyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
