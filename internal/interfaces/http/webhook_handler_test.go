package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxo7arena/fiscal-api/internal/application/fiscal"
	"github.com/fluxo7arena/fiscal-api/internal/domain"
	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	apphttp "github.com/fluxo7arena/fiscal-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes mínimos para exercitar o handler de webhook ponta a ponta
// ──────────────────────────────────────────────────────────────────────────────

type stubEmpresaRepo struct {
	empresa *entity.Empresa
	acessos int
}

func (r *stubEmpresaRepo) GetByCodigoEmpresa(_ context.Context, codigo string) (*entity.Empresa, error) {
	r.acessos++
	if r.empresa != nil && r.empresa.CodigoEmpresa == codigo {
		return r.empresa, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubEmpresaRepo) GetByCNPJ(_ context.Context, cnpj string) (*entity.Empresa, error) {
	r.acessos++
	if r.empresa != nil && r.empresa.CNPJ == cnpj {
		return r.empresa, nil
	}
	return nil, domain.ErrNotFound
}

type stubComandaRepo struct {
	porChave map[string]*entity.Comanda
	patches  []map[string]string
	patchID  string
	acessos  int
}

func (r *stubComandaRepo) GetByID(_ context.Context, id string) (*entity.Comanda, error) {
	r.acessos++
	return nil, domain.ErrNotFound
}

func (r *stubComandaRepo) ListItens(_ context.Context, _ string) ([]*entity.ComandaItem, error) {
	return nil, nil
}

func (r *stubComandaRepo) ListPagamentos(_ context.Context, _ string) ([]*entity.Pagamento, error) {
	return nil, nil
}

func (r *stubComandaRepo) GetPrimeiroClienteAssociado(_ context.Context, _ string) (*entity.Cliente, error) {
	return nil, domain.ErrNotFound
}

func (r *stubComandaRepo) GetMaisRecentePorChave(_ context.Context, _, chave string) (*entity.Comanda, error) {
	r.acessos++
	if c, ok := r.porChave[chave]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (r *stubComandaRepo) GetMaisRecentePorNumeroSerie(_ context.Context, _, _, _ string) (*entity.Comanda, error) {
	r.acessos++
	return nil, domain.ErrNotFound
}

func (r *stubComandaRepo) PatchFiscal(_ context.Context, id string, patch map[string]string) error {
	r.patchID = id
	r.patches = append(r.patches, patch)
	return nil
}

type stubAuditoriaRepo struct {
	registros []*entity.AuditoriaFiscal
}

func (r *stubAuditoriaRepo) Create(_ context.Context, a *entity.AuditoriaFiscal) error {
	r.registros = append(r.registros, a)
	return nil
}

const webhookSecret = "segredo-compartilhado"

func appComWebhook(t *testing.T) (*fiber.App, *stubEmpresaRepo, *stubComandaRepo, *stubAuditoriaRepo) {
	t.Helper()

	empresas := &stubEmpresaRepo{empresa: &entity.Empresa{
		ID:            "emp-1",
		CodigoEmpresa: "1042",
		CNPJ:          "12345678000190",
	}}
	comandas := &stubComandaRepo{porChave: map[string]*entity.Comanda{
		"35260312345678000190650010000001231000000010": {ID: "cmd-1", CodigoEmpresa: "1042"},
	}}
	auditorias := &stubAuditoriaRepo{}

	uc := fiscal.NewWebhookUseCase(empresas, comandas, auditorias)
	handler := apphttp.NewWebhookHandler(uc, webhookSecret)

	app := fiber.New()
	app.Post("/webhooks/fiscal", handler.Receber)
	return app, empresas, comandas, auditorias
}

func postWebhook(t *testing.T, app *fiber.App, secret string, payload string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/fiscal", bytes.NewReader([]byte(payload)))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("x-webhook-secret", secret)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Testes
// ──────────────────────────────────────────────────────────────────────────────

func TestWebhook_SegredoInvalido_Retorna401SemTocarNoBanco(t *testing.T) {
	app, empresas, comandas, auditorias := appComWebhook(t)

	resp := postWebhook(t, app, "segredo-errado", `{"cnpj":"12345678000190","status":"autorizado"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, empresas.acessos, "segredo inválido não deve consultar empresas")
	assert.Zero(t, comandas.acessos, "segredo inválido não deve consultar comandas")
	assert.Empty(t, auditorias.registros, "segredo inválido não deve gerar auditoria")
}

func TestWebhook_SemSegredo_Retorna401(t *testing.T) {
	app, _, _, _ := appComWebhook(t)

	resp := postWebhook(t, app, "", `{"cnpj":"12345678000190","status":"autorizado"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWebhook_EventoValido_AplicaPatchNaComanda(t *testing.T) {
	app, _, comandas, auditorias := appComWebhook(t)

	payload := `{
		"cnpj": "12.345.678/0001-90",
		"status": "authorized",
		"chave": "35260312345678000190650010000001231000000010",
		"numero": 123,
		"serie": "1",
		"pdf_url": "https://cdn.emissor.example/danfe/123.pdf"
	}`
	resp := postWebhook(t, app, webhookSecret, payload)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])

	require.Len(t, comandas.patches, 1)
	assert.Equal(t, "cmd-1", comandas.patchID)
	patch := comandas.patches[0]
	assert.Equal(t, "autorizada", patch["nf_status"], "status do provedor deve ser normalizado")
	assert.Equal(t, "123", patch["nf_numero"], "número enviado como JSON number vira string")
	assert.Equal(t, "https://cdn.emissor.example/danfe/123.pdf", patch["nf_pdf_url"])

	require.Len(t, auditorias.registros, 1)
	assert.Equal(t, "1042", auditorias.registros[0].CodigoEmpresa)
}

func TestWebhook_ReplayDoMesmoEvento_EhIdempotente(t *testing.T) {
	app, _, comandas, _ := appComWebhook(t)

	payload := `{"cnpj":"12345678000190","status":"autorizado","chave":"35260312345678000190650010000001231000000010"}`
	for i := 0; i < 2; i++ {
		resp := postWebhook(t, app, webhookSecret, payload)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	require.Len(t, comandas.patches, 2)
	assert.Equal(t, comandas.patches[0], comandas.patches[1],
		"reaplicar o mesmo evento deve produzir exatamente o mesmo patch")
}

func TestWebhook_ComandaNaoLocalizada_Retorna200ComNota(t *testing.T) {
	app, _, comandas, auditorias := appComWebhook(t)

	payload := `{"cnpj":"12345678000190","status":"autorizado","chave":"00000000000000000000000000000000000000000000"}`
	resp := postWebhook(t, app, webhookSecret, payload)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"evento sem comanda correspondente responde 200 para o provedor não reenviar")

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "comanda not found", body["note"])

	assert.Empty(t, comandas.patches, "sem comanda não há patch")
	require.Len(t, auditorias.registros, 1)
	assert.Equal(t, "error", auditorias.registros[0].Status)
}

func TestWebhook_CorpoIlegivel_NaoDerruba(t *testing.T) {
	app, _, comandas, _ := appComWebhook(t)

	resp := postWebhook(t, app, webhookSecret, `isto não é json`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, comandas.patches)
}
