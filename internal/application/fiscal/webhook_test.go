package fiscal_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxo7arena/fiscal-api/internal/application/dto"
	"github.com/fluxo7arena/fiscal-api/internal/application/fiscal"
	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	domfiscal "github.com/fluxo7arena/fiscal-api/internal/domain/fiscal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Normalização de apelidos
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizarEvento_Apelidos(t *testing.T) {
	evento := fiscal.NormalizarEvento(&dto.WebhookPayload{
		EmitterCnpj: "12.345.678/0001-90",
		Situacao:    "Autorizado",
		ChaveAcesso: chaveTeste,
		Numero:      float64(123), // provedor às vezes manda número JSON
		Serie:       "1",
		PdfURLAlt:   "https://files/doc.pdf",
		XmlURL:      "https://files/doc.xml",
		ReferenceID: "cmd-1",
	})

	assert.Equal(t, "12345678000190", evento.CNPJ)
	assert.Equal(t, domfiscal.StatusAutorizada, evento.Status)
	assert.Equal(t, chaveTeste, evento.Chave)
	assert.Equal(t, "123", evento.Numero)
	assert.Equal(t, "1", evento.Serie)
	assert.Equal(t, "https://files/doc.pdf", evento.PdfURL)
	assert.Equal(t, "https://files/doc.xml", evento.XmlURL)
	assert.Equal(t, "cmd-1", evento.ComandaID)
}

func TestNormalizarEvento_GrafiaPrincipalGanha(t *testing.T) {
	evento := fiscal.NormalizarEvento(&dto.WebhookPayload{
		Cnpj:        "11111111000111",
		EmitterCnpj: "22222222000122",
		Status:      "rejeitada",
		Situacao:    "autorizada",
	})
	assert.Equal(t, "11111111000111", evento.CNPJ)
	assert.Equal(t, domfiscal.StatusRejeitada, evento.Status)
}

func TestNormalizarEvento_StatusDesconhecidoPassaDireto(t *testing.T) {
	evento := fiscal.NormalizarEvento(&dto.WebhookPayload{Status: "Em_Analise"})
	assert.Equal(t, "em_analise", evento.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reconciliação
// ──────────────────────────────────────────────────────────────────────────────

func cenarioWebhook() (*fiscal.WebhookUseCase, *fakeComandaRepo, *fakeAuditoriaRepo) {
	empresas := &fakeEmpresaRepo{porCNPJ: map[string]*entity.Empresa{"12345678000190": empresaCompleta()}}
	comanda := comandaFechada("cmd-1")
	comandas := &fakeComandaRepo{
		comandas: map[string]*entity.Comanda{"cmd-1": comanda},
		porChave: map[string]*entity.Comanda{chaveTeste: comanda},
	}
	auditoria := &fakeAuditoriaRepo{}
	return fiscal.NewWebhookUseCase(empresas, comandas, auditoria), comandas, auditoria
}

func TestProcessar_LocalizaPorChaveEAplicaPatch(t *testing.T) {
	uc, comandas, auditoria := cenarioWebhook()

	evento := domfiscal.EventoWebhook{
		CNPJ:   "12345678000190",
		Status: domfiscal.StatusAutorizada,
		Chave:  chaveTeste,
		Numero: "123",
		Serie:  "1",
		PdfURL: "https://files/doc.pdf",
	}
	resp, err := uc.Processar(context.Background(), evento, []byte(`{"status":"autorizada"}`))
	require.NoError(t, err)
	assert.True(t, resp.Ok)
	assert.Empty(t, resp.Note)

	require.Len(t, comandas.patches, 1)
	patch := comandas.patches[0]
	assert.Equal(t, "cmd-1", comandas.patchID[0])
	assert.Equal(t, "autorizada", patch["nf_status"])
	assert.Equal(t, chaveTeste, patch["xml_chave"])
	assert.Equal(t, "123", patch["nf_numero"])
	assert.Equal(t, "https://files/doc.pdf", patch["nf_pdf_url"])
	// Campos ausentes no evento não entram no patch.
	assert.NotContains(t, patch, "nf_xml_url")
	assert.NotContains(t, patch, "xml_protocolo")

	require.Len(t, auditoria.registros, 1)
	assert.Equal(t, "success", auditoria.registros[0].Status)
	assert.Equal(t, "webhook", auditoria.registros[0].Acao)
}

func TestProcessar_ReferenciaDiretaTemPrecedencia(t *testing.T) {
	uc, comandas, _ := cenarioWebhook()

	evento := domfiscal.EventoWebhook{ComandaID: "cmd-1", Status: domfiscal.StatusCancelada}
	_, err := uc.Processar(context.Background(), evento, nil)
	require.NoError(t, err)

	require.Len(t, comandas.patches, 1)
	assert.Equal(t, "cancelada", comandas.patches[0]["nf_status"])
}

// Reaplicar o mesmo evento produz patch idêntico (idempotência).
func TestProcessar_ReplayProduzMesmoPatch(t *testing.T) {
	uc, comandas, _ := cenarioWebhook()

	evento := domfiscal.EventoWebhook{
		CNPJ:   "12345678000190",
		Status: domfiscal.StatusAutorizada,
		Chave:  chaveTeste,
	}
	_, err := uc.Processar(context.Background(), evento, nil)
	require.NoError(t, err)
	_, err = uc.Processar(context.Background(), evento, nil)
	require.NoError(t, err)

	require.Len(t, comandas.patches, 2)
	assert.Equal(t, comandas.patches[0], comandas.patches[1])
}

// Comanda não localizada não é erro para o provedor: respondemos ok com nota
// e deixamos o rastro na auditoria.
func TestProcessar_ComandaNaoLocalizada(t *testing.T) {
	uc, comandas, auditoria := cenarioWebhook()

	evento := domfiscal.EventoWebhook{
		CNPJ:   "12345678000190",
		Status: domfiscal.StatusAutorizada,
		Chave:  "chave-desconhecida",
	}
	resp, err := uc.Processar(context.Background(), evento, []byte(`{"chave":"chave-desconhecida"}`))
	require.NoError(t, err)
	assert.True(t, resp.Ok)
	assert.Equal(t, "comanda not found", resp.Note)
	assert.Empty(t, comandas.patches)

	require.Len(t, auditoria.registros, 1)
	reg := auditoria.registros[0]
	assert.Equal(t, "error", reg.Status)
	assert.Equal(t, "1042", reg.CodigoEmpresa)
	assert.JSONEq(t, `{"chave":"chave-desconhecida"}`, string(reg.Request))
}

func TestProcessar_NumeroSerieComoFallback(t *testing.T) {
	uc, comandas, _ := cenarioWebhook()
	comandas.porChave["123/1"] = comandas.comandas["cmd-1"]

	evento := domfiscal.EventoWebhook{
		CNPJ:   "12345678000190",
		Status: domfiscal.StatusAutorizada,
		Numero: "123",
		Serie:  "1",
	}
	_, err := uc.Processar(context.Background(), evento, nil)
	require.NoError(t, err)
	require.Len(t, comandas.patches, 1)
}
