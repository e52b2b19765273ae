package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
)

var _ repository.ComandaRepository = (*ComandaRepo)(nil)

// ComandaRepo implementação de ComandaRepository (usável com pool ou tx).
type ComandaRepo struct {
	q Querier
}

// NewComandaRepository constrói o adaptador. Passar pool ou tx (Querier).
func NewComandaRepository(q Querier) *ComandaRepo {
	return &ComandaRepo{q: q}
}

const comandaColumns = `
	id, codigo_empresa, COALESCE(cliente_id::text, ''), status,
	COALESCE(desconto_tipo, ''), COALESCE(desconto_valor, 0),
	aberto_em, fechado_em,
	COALESCE(nf_status, ''), COALESCE(xml_chave, ''), COALESCE(nf_numero, ''),
	COALESCE(nf_serie, ''), COALESCE(nf_pdf_url, ''), COALESCE(nf_xml_url, ''),
	COALESCE(xml_protocolo, ''), created_at, updated_at`

func scanComanda(row interface{ Scan(...any) error }) (*entity.Comanda, error) {
	var c entity.Comanda
	err := row.Scan(
		&c.ID, &c.CodigoEmpresa, &c.ClienteID, &c.Status,
		&c.DescontoTipo, &c.DescontoValor,
		&c.AbertoEm, &c.FechadoEm,
		&c.NfStatus, &c.XmlChave, &c.NfNumero,
		&c.NfSerie, &c.NfPdfURL, &c.NfXmlURL,
		&c.XmlProtocolo, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID obtém uma comanda por ID.
func (r *ComandaRepo) GetByID(ctx context.Context, id string) (*entity.Comanda, error) {
	query := `SELECT` + comandaColumns + ` FROM comandas WHERE id = $1`
	c, err := scanComanda(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comanda: %w", err)
	}
	return c, nil
}

// ListItens lista as linhas da comanda na ordem de inserção.
func (r *ComandaRepo) ListItens(ctx context.Context, comandaID string) ([]*entity.ComandaItem, error) {
	query := `
		SELECT id, comanda_id, COALESCE(produto_id::text, ''), COALESCE(descricao, ''),
		       COALESCE(quantidade, 0), COALESCE(preco_unitario, 0), COALESCE(desconto, 0), created_at
		FROM comanda_itens WHERE comanda_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, comandaID)
	if err != nil {
		return nil, fmt.Errorf("list itens: %w", err)
	}
	defer rows.Close()
	var list []*entity.ComandaItem
	for rows.Next() {
		var i entity.ComandaItem
		if err := rows.Scan(&i.ID, &i.ComandaID, &i.ProdutoID, &i.Descricao,
			&i.Quantidade, &i.PrecoUnitario, &i.Desconto, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}

// ListPagamentos lista os pagamentos da comanda na ordem de inserção.
func (r *ComandaRepo) ListPagamentos(ctx context.Context, comandaID string) ([]*entity.Pagamento, error) {
	query := `
		SELECT id, comanda_id, COALESCE(finalizadora_id::text, ''), COALESCE(valor, 0), created_at
		FROM pagamentos WHERE comanda_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, comandaID)
	if err != nil {
		return nil, fmt.Errorf("list pagamentos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Pagamento
	for rows.Next() {
		var p entity.Pagamento
		if err := rows.Scan(&p.ID, &p.ComandaID, &p.FinalizadoraID, &p.Valor, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pagamento: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// GetPrimeiroClienteAssociado resolve o primeiro cliente vinculado pela tabela
// de associação comanda_clientes, quando a comanda não tem cliente_id direto.
func (r *ComandaRepo) GetPrimeiroClienteAssociado(ctx context.Context, comandaID string) (*entity.Cliente, error) {
	query := `
		SELECT c.id, c.codigo_empresa, COALESCE(c.nome, ''), COALESCE(c.cpf_cnpj, ''),
		       COALESCE(c.inscricao_estadual, ''), COALESCE(c.email, ''), COALESCE(c.telefone, ''),
		       COALESCE(c.logradouro, ''), COALESCE(c.numero, ''), COALESCE(c.complemento, ''),
		       COALESCE(c.bairro, ''), COALESCE(c.cidade, ''), COALESCE(c.uf, ''), COALESCE(c.cep, ''),
		       COALESCE(c.codigo_municipio_ibge, ''), c.created_at, c.updated_at
		FROM comanda_clientes cc
		JOIN clientes c ON c.id = cc.cliente_id
		WHERE cc.comanda_id = $1
		ORDER BY cc.created_at
		LIMIT 1`
	cli, err := scanCliente(r.q.QueryRow(ctx, query, comandaID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cliente associado: %w", err)
	}
	return cli, nil
}

// GetMaisRecentePorChave localiza a comanda mais recente do tenant com a chave.
func (r *ComandaRepo) GetMaisRecentePorChave(ctx context.Context, codigoEmpresa, chave string) (*entity.Comanda, error) {
	query := `SELECT` + comandaColumns + `
		FROM comandas
		WHERE codigo_empresa = $1 AND xml_chave = $2
		ORDER BY aberto_em DESC
		LIMIT 1`
	c, err := scanComanda(r.q.QueryRow(ctx, query, codigoEmpresa, chave))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comanda por chave: %w", err)
	}
	return c, nil
}

// GetMaisRecentePorNumeroSerie localiza pela dupla número+série quando o
// callback não traz chave de acesso.
func (r *ComandaRepo) GetMaisRecentePorNumeroSerie(ctx context.Context, codigoEmpresa, numero, serie string) (*entity.Comanda, error) {
	query := `SELECT` + comandaColumns + `
		FROM comandas
		WHERE codigo_empresa = $1 AND nf_numero = $2 AND nf_serie = $3
		ORDER BY aberto_em DESC
		LIMIT 1`
	c, err := scanComanda(r.q.QueryRow(ctx, query, codigoEmpresa, numero, serie))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comanda por numero/serie: %w", err)
	}
	return c, nil
}

// colunas fiscais que o webhook/emissão podem atualizar
var patchColunasPermitidas = map[string]bool{
	"nf_status":     true,
	"xml_chave":     true,
	"nf_numero":     true,
	"nf_serie":      true,
	"nf_pdf_url":    true,
	"nf_xml_url":    true,
	"xml_protocolo": true,
}

// PatchFiscal aplica só os campos presentes no mapa. Colunas fora da lista
// fiscal são rejeitadas para impedir update arbitrário via payload do webhook.
func (r *ComandaRepo) PatchFiscal(ctx context.Context, id string, patch map[string]string) error {
	if len(patch) == 0 {
		return nil
	}
	sets := make([]string, 0, len(patch)+1)
	args := make([]any, 0, len(patch)+1)
	args = append(args, id)
	for col, val := range patch {
		if !patchColunasPermitidas[col] {
			return fmt.Errorf("patch fiscal: coluna %q não permitida", col)
		}
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	sets = append(sets, "updated_at = now()")
	query := fmt.Sprintf("UPDATE comandas SET %s WHERE id = $1", strings.Join(sets, ", "))
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("patch fiscal comanda: %w", err)
	}
	return nil
}
