package repository

import (
	"context"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
)

// ComandaRepository porta de persistência da comanda, seus itens e pagamentos.
type ComandaRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Comanda, error)
	ListItens(ctx context.Context, comandaID string) ([]*entity.ComandaItem, error)
	ListPagamentos(ctx context.Context, comandaID string) ([]*entity.Pagamento, error)
	// GetPrimeiroClienteAssociado resolve o primeiro cliente vinculado via
	// comanda_clientes, usado quando a comanda não tem cliente_id direto.
	GetPrimeiroClienteAssociado(ctx context.Context, comandaID string) (*entity.Cliente, error)
	// GetMaisRecentePorChave localiza a comanda mais recente do tenant com a
	// chave de acesso informada (resolução de webhook).
	GetMaisRecentePorChave(ctx context.Context, codigoEmpresa, chave string) (*entity.Comanda, error)
	GetMaisRecentePorNumeroSerie(ctx context.Context, codigoEmpresa, numero, serie string) (*entity.Comanda, error)
	// PatchFiscal aplica só os campos fiscais presentes no mapa
	// (nf_status, xml_chave, nf_numero, nf_serie, nf_pdf_url, nf_xml_url,
	// xml_protocolo). Último write vence; não há lock otimista.
	PatchFiscal(ctx context.Context, id string, patch map[string]string) error
}
