package fiscal

import (
	"context"

	"github.com/fluxo7arena/fiscal-api/internal/infrastructure/emissor"
)

// EmissorClient é o contrato dos casos de uso com o provedor fiscal.
// A implementação real é emissor.Client; testes usam um fake.
type EmissorClient interface {
	// Post envia dados para uma rota do provedor. Respostas não-2xx viram
	// *emissor.ProviderError no retorno de erro.
	Post(ctx context.Context, baseURL, apiKey, cnpj, path string, dados any) (*emissor.Resposta, error)
	// Download baixa um artefato (XML/PDF) de uma URL do provedor.
	Download(ctx context.Context, url string) ([]byte, error)
	// TestarConexao sonda a conectividade e autorização sem emitir nada.
	TestarConexao(ctx context.Context, baseURL, apiKey, cnpj string) emissor.ResultadoConexao
}

var _ EmissorClient = (*emissor.Client)(nil)
