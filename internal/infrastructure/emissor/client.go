package emissor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Envelope de toda chamada ao provedor: { ApiKey, Cnpj, Dados }.
type envelope struct {
	ApiKey string `json:"ApiKey"`
	Cnpj   string `json:"Cnpj"`
	Dados  any    `json:"Dados"`
}

// Resposta é o resultado bruto de uma chamada bem-sucedida (2xx).
// Body é o JSON decodificado, ou {"raw": texto} quando o corpo não é JSON.
type Resposta struct {
	StatusCode int
	Body       any
}

// ProviderError representa uma resposta não-2xx do provedor fiscal.
// Carrega o status HTTP e o corpo (parseado ou cru) para que o chamador
// distinga 401/403 (credencial), 404 (URL errada) e 400 (payload inválido,
// mas endpoint e credencial válidos) de falha de rede.
type ProviderError struct {
	Status   int
	Message  string
	Response any
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("emissor: HTTP %d: %s", e.Status, e.Message)
}

// ResultadoConexao é a classificação do teste de conectividade.
// Authorized fica nil quando o status não permite concluir nada.
type ResultadoConexao struct {
	Reachable  bool
	Authorized *bool
	Status     int
	Response   any
	Erro       string
}

// Client cliente HTTP do provedor fiscal (TransmiteNota).
// Sem retry em nenhuma operação: reenviar uma emissão pode duplicar o
// documento; leituras seguem a mesma política até decisão em contrário.
type Client struct {
	httpClient *http.Client
}

// NewClient constrói o cliente com timeout generoso (60 s): o provedor pode
// demorar vários segundos em emissões.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// joinURL une base e path sem duplicar barras.
func joinURL(baseURL, path string) string {
	b := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return b + path
}

// Post envia { ApiKey, Cnpj, Dados } para baseURL+path e devolve o corpo
// decodificado. Não-2xx vira *ProviderError; falha de rede vira erro comum.
func (c *Client) Post(ctx context.Context, baseURL, apiKey, cnpj, path string, dados any) (*Resposta, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("emissor: ApiKey não configurada no servidor")
	}
	if baseURL == "" {
		return nil, fmt.Errorf("emissor: base URL não configurada no servidor")
	}
	if dados == nil {
		dados = map[string]any{}
	}

	payload, err := json.Marshal(envelope{ApiKey: apiKey, Cnpj: cnpj, Dados: dados})
	if err != nil {
		return nil, fmt.Errorf("emissor: serializar payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(baseURL, path), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("emissor: criar request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("emissor: timeout ou cancelamento: %w", ctx.Err())
		}
		return nil, fmt.Errorf("emissor: chamada HTTP falhou: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20)) // max 4 MB
	if err != nil {
		return nil, fmt.Errorf("emissor: ler resposta: %w", err)
	}

	body := parseBody(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{
			Status:   resp.StatusCode,
			Message:  mensagemDoBody(body, resp.Status),
			Response: body,
		}
	}
	return &Resposta{StatusCode: resp.StatusCode, Body: body}, nil
}

// Download baixa os bytes de uma URL (XML/PDF hospedado pelo provedor).
func (c *Client) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("emissor: criar download: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("emissor: download falhou: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("emissor: download HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, 32<<20)) // max 32 MB
}

// TestarConexao posta Dados vazio no endpoint de consulta e classifica o
// resultado. 200 e 400 provam endpoint e credencial (400 = payload vazio
// rejeitado, mas a camada de transporte aceitou); 401/403 = credencial ruim;
// 404 = URL errada; falha de rede = inalcançável.
func (c *Client) TestarConexao(ctx context.Context, baseURL, apiKey, cnpj string) ResultadoConexao {
	resp, err := c.Post(ctx, baseURL, apiKey, cnpj, rotaPorAcao[AcaoTesteConexao], map[string]any{})
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) {
			return classificarStatus(pe.Status, pe.Response)
		}
		return ResultadoConexao{Reachable: false, Authorized: boolPtr(false), Erro: err.Error()}
	}
	return classificarStatus(resp.StatusCode, resp.Body)
}

func classificarStatus(status int, body any) ResultadoConexao {
	switch {
	case status == 200 || status == 400:
		return ResultadoConexao{Reachable: true, Authorized: boolPtr(true), Status: status, Response: body}
	case status == 401 || status == 403:
		return ResultadoConexao{Reachable: true, Authorized: boolPtr(false), Status: status, Response: body}
	case status == 404:
		return ResultadoConexao{Reachable: false, Authorized: boolPtr(false), Status: status, Response: body}
	default:
		return ResultadoConexao{Reachable: true, Authorized: nil, Status: status, Response: body}
	}
}

// parseBody decodifica JSON tolerantemente: corpo vazio vira nil, corpo
// não-JSON vira {"raw": texto}.
func parseBody(raw []byte) any {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return map[string]any{"raw": string(raw)}
	}
	return body
}

// mensagemDoBody extrai a melhor mensagem de erro disponível do corpo.
func mensagemDoBody(body any, fallback string) string {
	if m, ok := body.(map[string]any); ok {
		for _, k := range []string{"message", "erro", "Message"} {
			if v, ok := m[k].(string); ok && v != "" {
				return v
			}
		}
	}
	if fallback != "" {
		return fallback
	}
	return "erro na API fiscal"
}

func boolPtr(b bool) *bool { return &b }
