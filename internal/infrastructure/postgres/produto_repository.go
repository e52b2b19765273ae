package postgres

import (
	"context"
	"fmt"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
)

var _ repository.ProdutoRepository = (*ProdutoRepo)(nil)

// ProdutoRepo implementação de ProdutoRepository (usável com pool ou tx).
type ProdutoRepo struct {
	q Querier
}

// NewProdutoRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewProdutoRepository(q Querier) *ProdutoRepo {
	return &ProdutoRepo{q: q}
}

const produtoColumns = `
	id, codigo_empresa, COALESCE(codigo, ''), COALESCE(nome, ''), COALESCE(unidade, 'UN'),
	COALESCE(preco, 0), COALESCE(ncm, ''), COALESCE(cfop_interno, ''), COALESCE(csosn_interno, ''),
	COALESCE(cst_pis_saida, ''), COALESCE(cst_cofins_saida, ''), COALESCE(icms_origem, 0),
	created_at, updated_at`

func scanProduto(row interface{ Scan(...any) error }) (*entity.Produto, error) {
	var p entity.Produto
	err := row.Scan(
		&p.ID, &p.CodigoEmpresa, &p.Codigo, &p.Nome, &p.Unidade,
		&p.Preco, &p.NCM, &p.CfopInterno, &p.CsosnInterno,
		&p.CstPisSaida, &p.CstCofinsSaida, &p.IcmsOrigem,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID obtém um produto por ID.
func (r *ProdutoRepo) GetByID(ctx context.Context, id string) (*entity.Produto, error) {
	query := `SELECT` + produtoColumns + ` FROM produtos WHERE id = $1`
	p, err := scanProduto(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get produto: %w", err)
	}
	return p, nil
}

// GetByIDs devolve os produtos encontrados indexados por ID.
func (r *ProdutoRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Produto, error) {
	result := make(map[string]*entity.Produto, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	query := `SELECT` + produtoColumns + ` FROM produtos WHERE id = ANY($1)`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("list produtos: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduto(rows)
		if err != nil {
			return nil, fmt.Errorf("scan produto: %w", err)
		}
		result[p.ID] = p
	}
	return result, rows.Err()
}
