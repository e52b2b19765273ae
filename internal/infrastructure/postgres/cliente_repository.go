package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fluxo7arena/fiscal-api/internal/domain"
	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
)

var _ repository.ClienteRepository = (*ClienteRepo)(nil)

// ClienteRepo implementação de ClienteRepository (usável com pool ou tx).
type ClienteRepo struct {
	q Querier
}

// NewClienteRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewClienteRepository(q Querier) *ClienteRepo {
	return &ClienteRepo{q: q}
}

const clienteColumns = `
	id, codigo_empresa, COALESCE(nome, ''), COALESCE(cpf_cnpj, ''),
	COALESCE(inscricao_estadual, ''), COALESCE(email, ''), COALESCE(telefone, ''),
	COALESCE(logradouro, ''), COALESCE(numero, ''), COALESCE(complemento, ''),
	COALESCE(bairro, ''), COALESCE(cidade, ''), COALESCE(uf, ''), COALESCE(cep, ''),
	COALESCE(codigo_municipio_ibge, ''), created_at, updated_at`

func scanCliente(row interface{ Scan(...any) error }) (*entity.Cliente, error) {
	var c entity.Cliente
	err := row.Scan(
		&c.ID, &c.CodigoEmpresa, &c.Nome, &c.CpfCnpj,
		&c.InscricaoEstadual, &c.Email, &c.Telefone,
		&c.Logradouro, &c.Numero, &c.Complemento,
		&c.Bairro, &c.Cidade, &c.UF, &c.CEP,
		&c.CodigoMunicipioIBGE, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID obtém um cliente por ID.
func (r *ClienteRepo) GetByID(ctx context.Context, id string) (*entity.Cliente, error) {
	query := `SELECT` + clienteColumns + ` FROM clientes WHERE id = $1`
	c, err := scanCliente(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente: %w", err)
	}
	return c, nil
}

// GetByCpfCnpj busca por documento (só dígitos) dentro do tenant.
func (r *ClienteRepo) GetByCpfCnpj(ctx context.Context, codigoEmpresa, cpfCnpjDigits string) (*entity.Cliente, error) {
	query := `SELECT` + clienteColumns + `
		FROM clientes
		WHERE codigo_empresa = $1
		  AND regexp_replace(COALESCE(cpf_cnpj, ''), '\D', '', 'g') = $2
		LIMIT 1`
	c, err := scanCliente(r.q.QueryRow(ctx, query, codigoEmpresa, cpfCnpjDigits))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente por documento: %w", err)
	}
	return c, nil
}

// Create persiste um novo cliente.
func (r *ClienteRepo) Create(ctx context.Context, c *entity.Cliente) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	query := `
		INSERT INTO clientes (id, codigo_empresa, nome, cpf_cnpj, inscricao_estadual,
		                      email, telefone, logradouro, numero, complemento, bairro,
		                      cidade, uf, cep, codigo_municipio_ibge, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.CodigoEmpresa, c.Nome, c.CpfCnpj, c.InscricaoEstadual,
		c.Email, c.Telefone, c.Logradouro, c.Numero, c.Complemento, c.Bairro,
		c.Cidade, c.UF, c.CEP, c.CodigoMunicipioIBGE, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cliente: %w", err)
	}
	return nil
}
