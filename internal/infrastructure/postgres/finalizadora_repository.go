package postgres

import (
	"context"
	"fmt"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
)

var _ repository.FinalizadoraRepository = (*FinalizadoraRepo)(nil)

// FinalizadoraRepo implementação de FinalizadoraRepository.
type FinalizadoraRepo struct {
	q Querier
}

// NewFinalizadoraRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewFinalizadoraRepository(q Querier) *FinalizadoraRepo {
	return &FinalizadoraRepo{q: q}
}

// GetByIDs lista as finalizadoras com os IDs informados.
func (r *FinalizadoraRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Finalizadora, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, codigo_empresa, COALESCE(descricao, ''), COALESCE(codigo_sefaz, ''), created_at
		FROM finalizadoras WHERE id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list finalizadoras: %w", err)
	}
	defer rows.Close()
	var list []*entity.Finalizadora
	for rows.Next() {
		var f entity.Finalizadora
		if err := rows.Scan(&f.ID, &f.CodigoEmpresa, &f.Descricao, &f.CodigoSefaz, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan finalizadora: %w", err)
		}
		list = append(list, &f)
	}
	return list, rows.Err()
}
