package fiscal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/fluxo7arena/fiscal-api/internal/application/dto"
	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	domfiscal "github.com/fluxo7arena/fiscal-api/internal/domain/fiscal"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
	"github.com/fluxo7arena/fiscal-api/pkg/brfmt"
)

// NormalizarEvento resolve os apelidos de campo do callback do provedor em
// um EventoWebhook canônico. É o único lugar que conhece as grafias.
func NormalizarEvento(p *dto.WebhookPayload) domfiscal.EventoWebhook {
	return domfiscal.EventoWebhook{
		CNPJ:      brfmt.OnlyDigits(primeiro(p.Cnpj, p.EmitterCnpj)),
		Status:    domfiscal.NormalizeStatus(primeiro(p.Status, p.Situacao)),
		Chave:     primeiro(p.Chave, p.ChaveAcesso),
		Numero:    valorTexto(p.Numero),
		Serie:     valorTexto(p.Serie),
		PdfURL:    primeiro(p.PdfURL, p.PdfURLAlt),
		XmlURL:    primeiro(p.XmlURL, p.XmlURLAlt),
		Protocolo: valorTexto(p.Protocolo),
		ComandaID: primeiro(p.ComandaID, p.ReferenceID),
	}
}

// WebhookUseCase reconcilia callbacks do provedor com as comandas: localiza
// a venda, aplica o patch fiscal e registra auditoria. Evento que não
// encontra comanda não é erro para o provedor; registramos e respondemos ok
// para evitar tempestade de retries.
type WebhookUseCase struct {
	empresaRepo   repository.EmpresaRepository
	comandaRepo   repository.ComandaRepository
	auditoriaRepo repository.AuditoriaRepository
}

// NewWebhookUseCase constrói o caso de uso do webhook.
func NewWebhookUseCase(empresaRepo repository.EmpresaRepository, comandaRepo repository.ComandaRepository, auditoriaRepo repository.AuditoriaRepository) *WebhookUseCase {
	return &WebhookUseCase{empresaRepo: empresaRepo, comandaRepo: comandaRepo, auditoriaRepo: auditoriaRepo}
}

// Processar aplica um evento. rawBody é o corpo original do callback, usado
// na auditoria. Reaplicar o mesmo evento produz o mesmo estado na comanda.
func (uc *WebhookUseCase) Processar(ctx context.Context, evento domfiscal.EventoWebhook, rawBody []byte) (*dto.OkResponse, error) {
	// Tenant pelo CNPJ do emitente, quando veio no callback.
	codigoEmpresa := ""
	if evento.CNPJ != "" {
		if emp, err := uc.empresaRepo.GetByCNPJ(ctx, evento.CNPJ); err == nil && emp != nil {
			codigoEmpresa = emp.CodigoEmpresa
		}
	}

	// Localização da comanda: referência direta primeiro, depois chave de
	// acesso, por fim número+série dentro do tenant.
	var comanda *entity.Comanda
	if evento.ComandaID != "" {
		if c, err := uc.comandaRepo.GetByID(ctx, evento.ComandaID); err == nil && c != nil {
			comanda = c
			codigoEmpresa = c.CodigoEmpresa
		}
	}
	if comanda == nil && codigoEmpresa != "" {
		if evento.Chave != "" {
			comanda, _ = uc.comandaRepo.GetMaisRecentePorChave(ctx, codigoEmpresa, evento.Chave)
		} else if evento.Numero != "" && evento.Serie != "" {
			comanda, _ = uc.comandaRepo.GetMaisRecentePorNumeroSerie(ctx, codigoEmpresa, evento.Numero, evento.Serie)
		}
	}

	if comanda == nil {
		uc.auditar(ctx, codigoEmpresa, evento.ComandaID, entity.AuditoriaError, "Comanda não localizada para reconcile", rawBody, nil)
		return &dto.OkResponse{Ok: true, Note: "comanda not found"}, nil
	}

	if err := uc.comandaRepo.PatchFiscal(ctx, comanda.ID, evento.CamposPatch()); err != nil {
		return nil, err
	}

	respJSON, _ := json.Marshal(evento)
	uc.auditar(ctx, codigoEmpresa, comanda.ID, entity.AuditoriaSuccess, "", rawBody, respJSON)
	return &dto.OkResponse{Ok: true}, nil
}

func (uc *WebhookUseCase) auditar(ctx context.Context, codigoEmpresa, comandaID, status, mensagem string, req, resp []byte) {
	if uc.auditoriaRepo == nil {
		return
	}
	if codigoEmpresa == "" {
		codigoEmpresa = "unknown"
	}
	_ = uc.auditoriaRepo.Create(ctx, &entity.AuditoriaFiscal{
		ID:            uuid.New().String(),
		CodigoEmpresa: codigoEmpresa,
		Acao:          "webhook",
		Modelo:        "65",
		ComandaID:     comandaID,
		Status:        status,
		Mensagem:      mensagem,
		Request:       req,
		Response:      resp,
		CreatedAt:     time.Now(),
	})
}

// primeiro devolve o primeiro valor não vazio.
func primeiro(valores ...string) string {
	for _, v := range valores {
		if v != "" {
			return v
		}
	}
	return ""
}
