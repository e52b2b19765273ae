package http_test

import (
	"archive/zip"
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxo7arena/fiscal-api/internal/application/fiscal"
	apphttp "github.com/fluxo7arena/fiscal-api/internal/interfaces/http"
	"github.com/fluxo7arena/fiscal-api/pkg/config"
)

const chaveEntrada = "35260312345678000190550010000004561000000015"

func appComGateway(t *testing.T) (*fiber.App, *stubAuditoriaRepo) {
	t.Helper()

	cfg := config.EmissorConfig{
		BaseURLHomologacao: "https://hml.emissor.example",
		APIKeyHomologacao:  "chave-hml",
	}
	auditorias := &stubAuditoriaRepo{}
	gatewayUC := fiscal.NewGatewayUseCase(cfg, nil, auditorias)
	exportUC := fiscal.NewExportUseCase(cfg, nil, auditorias)
	handler := apphttp.NewGatewayHandler(gatewayUC, exportUC)

	app := fiber.New()
	app.Post("/api/fiscal/emissor", handler.Executar)
	app.Post("/api/fiscal/emissor/export", handler.Exportar)
	return app, auditorias
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestGatewayHandler_AcaoInvalida_Retorna400(t *testing.T) {
	app, _ := appComGateway(t)

	resp := postJSON(t, app, "/api/fiscal/emissor", `{"acao":"nfe_explodir","cnpj":"12345678000190"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Ação inválida")
}

func TestGatewayHandler_ExportSemItens_Retorna400(t *testing.T) {
	app, _ := appComGateway(t)

	resp := postJSON(t, app, "/api/fiscal/emissor/export", `{"cnpj":"12345678000190","dados":{"itens":[]}}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "VALIDATION")
}

func TestGatewayHandler_ExportEntradaInline_DevolveZipBinario(t *testing.T) {
	app, auditorias := appComGateway(t)

	// Documento de entrada usa o XML inline; nenhum acesso ao provedor.
	xml := `<nfeProc><NFe><infNFe Id=\"NFe` + chaveEntrada + `\"></infNFe></NFe></nfeProc>`
	body := `{"dados":{"itens":[{"tipo":"entrada","xml":"` + xml + `"}]}}`

	resp := postJSON(t, app, "/api/fiscal/emissor/export", body)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `attachment; filename="fiscal_export.zip"`)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, chaveEntrada+"-nfe.xml", zr.File[0].Name)

	require.Len(t, auditorias.registros, 1)
	assert.Equal(t, "export_zip", auditorias.registros[0].Acao)
}

func TestGatewayHandler_ExportViaAcaoNoGatewayGenerico(t *testing.T) {
	app, _ := appComGateway(t)

	xml := `<nfeProc><NFe><infNFe Id=\"NFe` + chaveEntrada + `\"></infNFe></NFe></nfeProc>`
	body := `{"acao":"export_zip","dados":{"nome":"notas-marco","itens":[{"tipo":"entrada","xml":"` + xml + `"}]}}`

	resp := postJSON(t, app, "/api/fiscal/emissor", body)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), `filename="notas-marco.zip"`)
}
