package postgres

import (
	"context"
	"fmt"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
)

var _ repository.EmpresaRepository = (*EmpresaRepo)(nil)

// EmpresaRepo implementação de EmpresaRepository (usável com pool ou tx).
type EmpresaRepo struct {
	q Querier
}

// NewEmpresaRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewEmpresaRepository(q Querier) *EmpresaRepo {
	return &EmpresaRepo{q: q}
}

const empresaColumns = `
	id, codigo_empresa, razao_social, COALESCE(nome_fantasia, ''),
	COALESCE(cnpj, ''), COALESCE(inscricao_estadual, ''), COALESCE(regime_tributario, ''),
	COALESCE(logradouro, ''), COALESCE(numero, ''), COALESCE(bairro, ''),
	COALESCE(cidade, ''), COALESCE(uf, ''), COALESCE(cep, ''),
	COALESCE(codigo_municipio_ibge, ''), COALESCE(ambiente, 'homologacao'),
	COALESCE(nfce_serie, ''), COALESCE(nfce_proximo_numero, 1), COALESCE(nfce_itoken, ''),
	created_at, updated_at`

func scanEmpresa(row interface{ Scan(...any) error }) (*entity.Empresa, error) {
	var e entity.Empresa
	err := row.Scan(
		&e.ID, &e.CodigoEmpresa, &e.RazaoSocial, &e.NomeFantasia,
		&e.CNPJ, &e.InscricaoEstadual, &e.RegimeTributario,
		&e.Logradouro, &e.Numero, &e.Bairro,
		&e.Cidade, &e.UF, &e.CEP,
		&e.CodigoMunicipioIBGE, &e.Ambiente,
		&e.NfceSerie, &e.NfceProximoNumero, &e.NfceIToken,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByCodigoEmpresa obtém a empresa pelo código de tenant.
func (r *EmpresaRepo) GetByCodigoEmpresa(ctx context.Context, codigoEmpresa string) (*entity.Empresa, error) {
	query := `SELECT` + empresaColumns + ` FROM empresas WHERE codigo_empresa = $1`
	e, err := scanEmpresa(r.q.QueryRow(ctx, query, codigoEmpresa))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa: %w", err)
	}
	return e, nil
}

// GetByCNPJ localiza a empresa pelo CNPJ. O CNPJ armazenado pode vir com
// máscara, então comparamos só os dígitos dos dois lados.
func (r *EmpresaRepo) GetByCNPJ(ctx context.Context, cnpjDigits string) (*entity.Empresa, error) {
	query := `SELECT` + empresaColumns + `
		FROM empresas
		WHERE regexp_replace(COALESCE(cnpj, ''), '\D', '', 'g') = $1
		LIMIT 1`
	e, err := scanEmpresa(r.q.QueryRow(ctx, query, cnpjDigits))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa por cnpj: %w", err)
	}
	return e, nil
}
