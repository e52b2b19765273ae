package fiscal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fluxo7arena/fiscal-api/internal/domain/fiscal"
)

// ──────────────────────────────────────────────────────────────────────────────
// Normalização de status do provedor: o vocabulário conhecido colapsa nos
// quatro estados internos; o que não conhecemos passa adiante inalterado.
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeStatus_Vocabulario(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"autorizado", fiscal.StatusAutorizada},
		{"Aprovada", fiscal.StatusAutorizada},
		{"AUTHORIZED", fiscal.StatusAutorizada},
		{"sucesso", fiscal.StatusAutorizada},
		{"rejeitada", fiscal.StatusRejeitada},
		{"erro", fiscal.StatusRejeitada},
		{"failed", fiscal.StatusRejeitada},
		{"denied", fiscal.StatusRejeitada},
		{"cancelada", fiscal.StatusCancelada},
		{"canceled", fiscal.StatusCancelada},
		{"pendente", fiscal.StatusProcessando},
		{"processing", fiscal.StatusProcessando},
		{"enviado", fiscal.StatusProcessando},
		{"", fiscal.StatusProcessando},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, fiscal.NormalizeStatus(c.in), "entrada %q", c.in)
	}
}

func TestNormalizeStatus_DesconhecidoPassaInalterado(t *testing.T) {
	assert.Equal(t, "em_analise", fiscal.NormalizeStatus("em_analise"))
	assert.Equal(t, "em_analise", fiscal.NormalizeStatus("EM_ANALISE"))
}

func TestClassificarTipo(t *testing.T) {
	assert.Equal(t, fiscal.TipoNFCe, fiscal.ClassificarTipo("65"))
	assert.Equal(t, fiscal.TipoNFCe, fiscal.ClassificarTipo("NFC-e modelo 65"))
	assert.Equal(t, fiscal.TipoNFCe, fiscal.ClassificarTipo("nfce"))
	assert.Equal(t, fiscal.TipoEntrada, fiscal.ClassificarTipo("entrada"))
	assert.Equal(t, fiscal.TipoEntrada, fiscal.ClassificarTipo("Nota de Entrada"))
	assert.Equal(t, fiscal.TipoNFe, fiscal.ClassificarTipo("nfe"))
	assert.Equal(t, fiscal.TipoNFe, fiscal.ClassificarTipo("55"))
	assert.Equal(t, fiscal.TipoNFe, fiscal.ClassificarTipo(""))
}

func TestTipoDocumento_Modelo(t *testing.T) {
	assert.Equal(t, "65", fiscal.TipoNFCe.Modelo())
	assert.Equal(t, "55", fiscal.TipoNFe.Modelo())
	assert.Equal(t, "55", fiscal.TipoEntrada.Modelo())
}

func TestEventoWebhook_CamposPatch_Idempotente(t *testing.T) {
	ev := fiscal.EventoWebhook{
		Status: fiscal.StatusAutorizada,
		Chave:  "35250812345678000190650010000001231000000010",
		PdfURL: "https://cdn.example/danfe.pdf",
	}
	p1 := ev.CamposPatch()
	p2 := ev.CamposPatch()
	assert.Equal(t, p1, p2)
	assert.Equal(t, fiscal.StatusAutorizada, p1["nf_status"])
	assert.NotContains(t, p1, "nf_numero") // ausente no evento, ausente no patch
}
