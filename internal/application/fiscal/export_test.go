package fiscal_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxo7arena/fiscal-api/internal/application/dto"
	"github.com/fluxo7arena/fiscal-api/internal/application/fiscal"
	"github.com/fluxo7arena/fiscal-api/internal/domain"
	"github.com/fluxo7arena/fiscal-api/internal/infrastructure/emissor"
)

const chaveTeste = "52260312345678000190650010000001231000001234"

func lerZip(t *testing.T, b []byte) map[string][]byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	require.NoError(t, err)
	out := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		conteudo, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = conteudo
	}
	return out
}

func novoExport(client *fakeEmissor) (*fiscal.ExportUseCase, *fakeAuditoriaRepo) {
	auditoria := &fakeAuditoriaRepo{}
	return fiscal.NewExportUseCase(cfgEmissorTeste(), client, auditoria), auditoria
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportação
// ──────────────────────────────────────────────────────────────────────────────

func TestExportar_XmlDeNfce(t *testing.T) {
	client := &fakeEmissor{
		porRota: map[string]*emissor.Resposta{
			"/ConsultarXMLNfce/": {StatusCode: 200, Body: map[string]any{"url_xml": "https://files/doc.xml"}},
		},
		arquivos: map[string][]byte{"https://files/doc.xml": []byte("<NFe/>")},
	}
	uc, auditoria := novoExport(client)

	r, err := uc.Exportar(context.Background(), "1042", "homologacao", "12345678000190", &dto.ExportRequest{
		Itens: []dto.ExportItemRequest{{Tipo: "nfce", Chave: chaveTeste}},
	})
	require.NoError(t, err)

	arquivos := lerZip(t, r.Zip)
	require.Len(t, arquivos, 1)
	assert.Equal(t, []byte("<NFe/>"), arquivos[chaveTeste+"-nfce.xml"])
	assert.Empty(t, r.Ignorados)

	require.Len(t, auditoria.registros, 1)
	assert.Equal(t, "export_zip", auditoria.registros[0].Acao)
	assert.Equal(t, "success", auditoria.registros[0].Status)
}

// Falha em um documento não derruba a exportação: o item fica registrado em
// Ignorados e o restante entra no ZIP.
func TestExportar_FalhaParcialContinua(t *testing.T) {
	client := &fakeEmissor{
		porRota: map[string]*emissor.Resposta{
			"/ConsultarXMLNfce/": {StatusCode: 200, Body: map[string]any{"url_xml": "https://files/ok.xml"}},
		},
		errosPorRota: map[string]error{
			"/ConsultarXMLNfe/": &emissor.ProviderError{Status: 404, Message: "nota não encontrada"},
		},
		arquivos: map[string][]byte{"https://files/ok.xml": []byte("<NFe/>")},
	}
	uc, _ := novoExport(client)

	r, err := uc.Exportar(context.Background(), "1042", "homologacao", "12345678000190", &dto.ExportRequest{
		Itens: []dto.ExportItemRequest{
			{Tipo: "nfe", Numero: "123", Serie: "1"},
			{Tipo: "nfce", Chave: chaveTeste},
		},
	})
	require.NoError(t, err)

	arquivos := lerZip(t, r.Zip)
	require.Len(t, arquivos, 1)
	assert.Contains(t, arquivos, chaveTeste+"-nfce.xml")
	require.Len(t, r.Ignorados, 1)
	assert.Equal(t, "123", r.Ignorados[0].Ref)
}

// Documento de entrada usa o XML inline e ganha o nome pela chave extraída
// do atributo Id do infNFe.
func TestExportar_EntradaComXmlInline(t *testing.T) {
	xmlEntrada := `<nfeProc><NFe><infNFe Id="NFe` + chaveTeste + `"></infNFe></NFe></nfeProc>`
	uc, _ := novoExport(&fakeEmissor{})

	r, err := uc.Exportar(context.Background(), "1042", "homologacao", "", &dto.ExportRequest{
		IncluirPdf: true, // entrada nunca tem PDF no provedor
		Itens:      []dto.ExportItemRequest{{Tipo: "entrada", Xml: xmlEntrada}},
	})
	require.NoError(t, err)

	arquivos := lerZip(t, r.Zip)
	require.Len(t, arquivos, 1)
	assert.Contains(t, arquivos, chaveTeste+"-nfe.xml")
}

func TestExportar_EntradaSemXmlEhIgnorada(t *testing.T) {
	uc, _ := novoExport(&fakeEmissor{})

	r, err := uc.Exportar(context.Background(), "1042", "homologacao", "", &dto.ExportRequest{
		Itens: []dto.ExportItemRequest{{Tipo: "entrada"}},
	})
	require.NoError(t, err)
	assert.Empty(t, r.Arquivos)
	require.Len(t, r.Ignorados, 1)
	assert.Equal(t, "semchave", r.Ignorados[0].Ref)
}

func TestExportar_PdfOpcional(t *testing.T) {
	client := &fakeEmissor{
		porRota: map[string]*emissor.Resposta{
			"/ConsultarXMLNfce/": {StatusCode: 200, Body: map[string]any{"url_xml": "https://files/doc.xml"}},
			"/ConsultarPDFNfce/": {StatusCode: 200, Body: map[string]any{"url_pdf": "https://files/doc.pdf"}},
		},
		arquivos: map[string][]byte{
			"https://files/doc.xml": []byte("<NFe/>"),
			"https://files/doc.pdf": []byte("%PDF-1.4"),
		},
	}
	uc, _ := novoExport(client)

	r, err := uc.Exportar(context.Background(), "1042", "homologacao", "12345678000190", &dto.ExportRequest{
		IncluirPdf: true,
		Itens:      []dto.ExportItemRequest{{Tipo: "nfce", Chave: chaveTeste}},
	})
	require.NoError(t, err)

	arquivos := lerZip(t, r.Zip)
	require.Len(t, arquivos, 2)
	assert.Contains(t, arquivos, chaveTeste+"-nfce.xml")
	assert.Contains(t, arquivos, chaveTeste+"-nfce.pdf")
}

func TestExportar_CnpjObrigatorioQuandoPrecisaDoProvedor(t *testing.T) {
	uc, _ := novoExport(&fakeEmissor{})

	_, err := uc.Exportar(context.Background(), "1042", "homologacao", "", &dto.ExportRequest{
		Itens: []dto.ExportItemRequest{{Tipo: "nfce", Chave: chaveTeste}},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExportar_SemItens(t *testing.T) {
	uc, _ := novoExport(&fakeEmissor{})

	_, err := uc.Exportar(context.Background(), "1042", "homologacao", "12345678000190", &dto.ExportRequest{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Consulta por searchkey tem precedência sobre chave e número.
func TestExportar_PreferenciaSearchKey(t *testing.T) {
	client := &fakeEmissor{
		porRota: map[string]*emissor.Resposta{
			"/ConsultarXMLNfce/": {StatusCode: 200, Body: map[string]any{"url_xml": "https://files/doc.xml"}},
		},
		arquivos: map[string][]byte{"https://files/doc.xml": []byte("<NFe/>")},
	}
	uc, _ := novoExport(client)

	_, err := uc.Exportar(context.Background(), "1042", "homologacao", "12345678000190", &dto.ExportRequest{
		Itens: []dto.ExportItemRequest{{Tipo: "nfce", Chave: chaveTeste, SearchKey: "SK-123"}},
	})
	require.NoError(t, err)

	require.Len(t, client.enviados, 1)
	payload := client.enviados[0].(map[string]any)
	assert.Equal(t, "SK-123", payload["searchkey"])
	assert.NotContains(t, payload, "chave")
}
