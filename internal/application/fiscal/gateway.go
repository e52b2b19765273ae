package fiscal

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fluxo7arena/fiscal-api/internal/application/dto"
	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
	"github.com/fluxo7arena/fiscal-api/internal/infrastructure/emissor"
	"github.com/fluxo7arena/fiscal-api/pkg/brfmt"
	"github.com/fluxo7arena/fiscal-api/pkg/config"
)

// Resultado é o que o gateway devolve ao handler: o status HTTP a responder
// e o corpo JSON. Erros do provedor saem com status 200 e corpo estruturado;
// só erros de entrada ou de configuração viram 4xx/5xx.
type Resultado struct {
	Status int
	Body   any
}

// GatewayUseCase despacha ações fiscais para o provedor. A ApiKey nunca sai
// daqui: o cliente envia só ação, ambiente, CNPJ e dados. Cada invocação
// gera um registro de auditoria, inclusive as que falham.
type GatewayUseCase struct {
	cfg           config.EmissorConfig
	client        EmissorClient
	auditoriaRepo repository.AuditoriaRepository
}

// NewGatewayUseCase constrói o gateway fiscal.
func NewGatewayUseCase(cfg config.EmissorConfig, client EmissorClient, auditoriaRepo repository.AuditoriaRepository) *GatewayUseCase {
	return &GatewayUseCase{cfg: cfg, client: client, auditoriaRepo: auditoriaRepo}
}

// Executar valida e despacha uma ação. export_zip não passa por aqui; o
// handler roteia direto para o ExportUseCase.
func (uc *GatewayUseCase) Executar(ctx context.Context, codigoEmpresa string, in *dto.GatewayRequest) Resultado {
	acao := strings.TrimSpace(in.Acao)
	ambiente := normalizarAmbiente(in.Ambiente)
	cnpj := brfmt.OnlyDigits(in.Cnpj)

	rota := emissor.RotaDaAcao(acao)
	if acao == "" || rota == "" {
		return uc.responder(ctx, codigoEmpresa, acao, in, Resultado{
			Status: 400,
			Body:   map[string]any{"message": "Ação inválida"},
		}, entity.AuditoriaError, "Ação inválida")
	}
	if cnpj == "" {
		return uc.responder(ctx, codigoEmpresa, acao, in, Resultado{
			Status: 400,
			Body:   map[string]any{"message": "CNPJ obrigatório"},
		}, entity.AuditoriaError, "CNPJ obrigatório")
	}

	baseURL := uc.cfg.BaseURL(ambiente)
	apiKey := uc.cfg.APIKey(ambiente)
	if apiKey == "" {
		return uc.responder(ctx, codigoEmpresa, acao, in, Resultado{
			Status: 500,
			Body:   map[string]any{"message": "ApiKey do emissor não configurada no servidor"},
		}, entity.AuditoriaError, "ApiKey não configurada")
	}
	if baseURL == "" {
		return uc.responder(ctx, codigoEmpresa, acao, in, Resultado{
			Status: 500,
			Body:   map[string]any{"message": "Base URL do emissor não configurada no servidor"},
		}, entity.AuditoriaError, "Base URL não configurada")
	}

	if acao == emissor.AcaoTesteConexao {
		r := uc.client.TestarConexao(ctx, baseURL, apiKey, cnpj)
		body := dto.TesteConexaoResponse{
			Status:   r.Status,
			Ok:       r.Reachable && (r.Authorized == nil || *r.Authorized),
			Via:      "api",
			Ambiente: ambiente,
			Response: r.Response,
			Erro:     r.Erro,
		}
		resultado := Resultado{Status: 200, Body: body}
		st := entity.AuditoriaSuccess
		if !body.Ok {
			st = entity.AuditoriaError
		}
		return uc.responder(ctx, codigoEmpresa, acao, in, resultado, st, r.Erro)
	}

	dados := decodificarDados(in.Dados)
	resp, err := uc.client.Post(ctx, baseURL, apiKey, cnpj, rota, dados)
	if err != nil {
		var pe *emissor.ProviderError
		if errors.As(err, &pe) {
			// Erro do provedor vai ao chamador com status HTTP 200 e o
			// corpo original dentro de response; o frontend decide.
			return uc.responder(ctx, codigoEmpresa, acao, in, Resultado{
				Status: 200,
				Body:   dto.GatewayResponse{Message: pe.Message, Status: pe.Status, Response: pe.Response},
			}, entity.AuditoriaError, pe.Message)
		}
		return uc.responder(ctx, codigoEmpresa, acao, in, Resultado{
			Status: 200,
			Body:   map[string]any{"message": err.Error()},
		}, entity.AuditoriaError, err.Error())
	}

	body := resp.Body
	if body == nil {
		body = map[string]any{"ok": true}
	}
	return uc.responder(ctx, codigoEmpresa, acao, in, Resultado{Status: 200, Body: body}, entity.AuditoriaSuccess, "")
}

// responder grava a auditoria (melhor esforço) e devolve o resultado.
func (uc *GatewayUseCase) responder(ctx context.Context, codigoEmpresa, acao string, in *dto.GatewayRequest, r Resultado, status, mensagem string) Resultado {
	if uc.auditoriaRepo == nil {
		return r
	}
	if codigoEmpresa == "" {
		codigoEmpresa = "unknown"
	}
	reqJSON, _ := json.Marshal(in)
	respJSON, _ := json.Marshal(r.Body)
	_ = uc.auditoriaRepo.Create(ctx, &entity.AuditoriaFiscal{
		ID:            uuid.New().String(),
		CodigoEmpresa: codigoEmpresa,
		Acao:          acao,
		Modelo:        modeloDaAcao(acao),
		ComandaID:     comandaIDDosDados(in.Dados),
		Status:        status,
		Mensagem:      mensagem,
		Request:       reqJSON,
		Response:      respJSON,
		CreatedAt:     time.Now(),
	})
	return r
}

// modeloDaAcao deduz o modelo fiscal do prefixo da ação; ações utilitárias
// (adicionar_empresa, teste_conexao...) ficam sem modelo.
func modeloDaAcao(acao string) string {
	switch {
	case strings.HasPrefix(acao, "nfce"):
		return "65"
	case strings.HasPrefix(acao, "nfe"):
		return "55"
	}
	return ""
}

// comandaIDDosDados extrai comanda_id de dados quando o chamador o incluiu,
// para vincular a auditoria à venda.
func comandaIDDosDados(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return ""
	}
	if v, ok := m["comanda_id"].(string); ok {
		return v
	}
	return ""
}

// decodificarDados devolve o corpo de Dados como objeto genérico; ausência
// vira objeto vazio, que o provedor aceita.
func decodificarDados(raw json.RawMessage) any {
	if len(raw) == 0 {
		return map[string]any{}
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return map[string]any{}
	}
	if v == nil {
		return map[string]any{}
	}
	return v
}

func normalizarAmbiente(ambiente string) string {
	if strings.EqualFold(strings.TrimSpace(ambiente), entity.AmbienteProducao) {
		return entity.AmbienteProducao
	}
	return entity.AmbienteHomologacao
}
