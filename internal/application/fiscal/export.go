package fiscal

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"
	"github.com/google/uuid"

	"github.com/fluxo7arena/fiscal-api/internal/application/dto"
	"github.com/fluxo7arena/fiscal-api/internal/domain"
	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	domfiscal "github.com/fluxo7arena/fiscal-api/internal/domain/fiscal"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
	"github.com/fluxo7arena/fiscal-api/internal/infrastructure/emissor"
	"github.com/fluxo7arena/fiscal-api/pkg/brfmt"
	"github.com/fluxo7arena/fiscal-api/pkg/config"
)

// ItemIgnorado registra um documento que ficou fora do ZIP e o motivo.
type ItemIgnorado struct {
	Ref    string `json:"ref"`
	Motivo string `json:"motivo"`
}

// ExportResultado é o produto da exportação: o ZIP pronto, os arquivos
// incluídos e os documentos ignorados. Um ZIP parcial é resultado válido.
type ExportResultado struct {
	Zip       []byte
	Nome      string
	Arquivos  []string
	Ignorados []ItemIgnorado
}

// ExportUseCase monta um ZIP com XML (e opcionalmente PDF) de documentos já
// emitidos. Os itens são processados em sequência; falha em um documento não
// derruba a exportação, só o deixa de fora.
type ExportUseCase struct {
	cfg           config.EmissorConfig
	client        EmissorClient
	auditoriaRepo repository.AuditoriaRepository
}

// NewExportUseCase constrói o caso de uso de exportação.
func NewExportUseCase(cfg config.EmissorConfig, client EmissorClient, auditoriaRepo repository.AuditoriaRepository) *ExportUseCase {
	return &ExportUseCase{cfg: cfg, client: client, auditoriaRepo: auditoriaRepo}
}

// Exportar processa os descritores e devolve o ZIP. Documentos de entrada
// usam o XML inline do descritor; NFC-e/NF-e são consultados no provedor.
// CNPJ só é exigido quando algum item precisa do provedor.
func (uc *ExportUseCase) Exportar(ctx context.Context, codigoEmpresa, ambiente, cnpj string, req *dto.ExportRequest) (*ExportResultado, error) {
	if req == nil || len(req.Itens) == 0 {
		return nil, fmt.Errorf("itens obrigatórios para exportação: %w", domain.ErrInvalidInput)
	}
	ambiente = normalizarAmbiente(ambiente)
	cnpj = brfmt.OnlyDigits(cnpj)

	precisaProvedor := false
	for _, it := range req.Itens {
		if classificarDescritor(it) != domfiscal.TipoEntrada {
			precisaProvedor = true
			break
		}
	}
	if precisaProvedor && cnpj == "" {
		return nil, fmt.Errorf("CNPJ obrigatório: %w", domain.ErrInvalidInput)
	}

	baseURL := uc.cfg.BaseURL(ambiente)
	apiKey := uc.cfg.APIKey(ambiente)
	if precisaProvedor && (baseURL == "" || apiKey == "") {
		return nil, fmt.Errorf("emissor não configurado no servidor")
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	nome := sanitizarChave(strings.TrimSuffix(req.Nome, ".zip"))
	if nome == "" {
		nome = "fiscal_export"
	}
	resultado := &ExportResultado{Nome: nome + ".zip"}

	for _, it := range req.Itens {
		uc.exportarItem(ctx, zw, baseURL, apiKey, cnpj, it, req.IncluirPdf, resultado)
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("fechando zip: %w", err)
	}
	resultado.Zip = buf.Bytes()

	uc.auditar(ctx, codigoEmpresa, req, resultado)
	return resultado, nil
}

// exportarItem resolve e adiciona o XML (e PDF, se pedido) de um documento.
// Qualquer falha vira uma entrada em Ignorados e o laço segue.
func (uc *ExportUseCase) exportarItem(ctx context.Context, zw *zip.Writer, baseURL, apiKey, cnpj string, it dto.ExportItemRequest, incluirPdf bool, resultado *ExportResultado) {
	tipo := classificarDescritor(it)
	chave := sanitizarChave(it.Chave)
	numero := valorTexto(it.Numero)
	serie := valorTexto(it.Serie)

	sufixo := "nfe"
	if tipo == domfiscal.TipoNFCe {
		sufixo = "nfce"
	}

	var xmlBytes []byte
	if tipo == domfiscal.TipoEntrada {
		if strings.TrimSpace(it.Xml) == "" {
			resultado.Ignorados = append(resultado.Ignorados, ItemIgnorado{Ref: refDoItem(chave, numero), Motivo: "XML de entrada não informado"})
			return
		}
		xmlBytes = []byte(it.Xml)
		if chave == "" {
			chave = chaveDoXML(it.Xml)
		}
	} else {
		rota := emissor.RotaDaAcao(emissor.AcaoNfeXml)
		if tipo == domfiscal.TipoNFCe {
			rota = emissor.RotaDaAcao(emissor.AcaoNfceXml)
		}
		resp, err := uc.client.Post(ctx, baseURL, apiKey, cnpj, rota, payloadConsulta(it.SearchKey, chave, numero, serie))
		if err != nil {
			resultado.Ignorados = append(resultado.Ignorados, ItemIgnorado{Ref: refDoItem(chave, numero), Motivo: err.Error()})
			return
		}
		url := urlDoBody(resp.Body, "url_xml", "xml_url", "XmlUrl")
		if url == "" {
			resultado.Ignorados = append(resultado.Ignorados, ItemIgnorado{Ref: refDoItem(chave, numero), Motivo: "provedor não devolveu URL do XML"})
			return
		}
		xmlBytes, err = uc.client.Download(ctx, url)
		if err != nil || len(xmlBytes) == 0 {
			resultado.Ignorados = append(resultado.Ignorados, ItemIgnorado{Ref: refDoItem(chave, numero), Motivo: "download do XML falhou"})
			return
		}
	}

	base := chave
	if base == "" {
		base = numero
	}
	if base == "" {
		base = "semchave"
	}

	nomeXML := fmt.Sprintf("%s-%s.xml", base, sufixo)
	if err := escreverNoZip(zw, nomeXML, xmlBytes); err != nil {
		resultado.Ignorados = append(resultado.Ignorados, ItemIgnorado{Ref: refDoItem(chave, numero), Motivo: "escrita no zip falhou"})
		return
	}
	resultado.Arquivos = append(resultado.Arquivos, nomeXML)

	// PDF é acessório: falha aqui não remove o XML já incluído.
	if incluirPdf && tipo != domfiscal.TipoEntrada {
		rota := emissor.RotaDaAcao(emissor.AcaoNfePdf)
		if tipo == domfiscal.TipoNFCe {
			rota = emissor.RotaDaAcao(emissor.AcaoNfcePdf)
		}
		resp, err := uc.client.Post(ctx, baseURL, apiKey, cnpj, rota, payloadConsulta(it.SearchKey, chave, numero, serie))
		if err != nil {
			return
		}
		url := urlDoBody(resp.Body, "url_pdf", "pdf_url", "PdfUrl")
		if url == "" {
			return
		}
		pdfBytes, err := uc.client.Download(ctx, url)
		if err != nil || len(pdfBytes) == 0 {
			return
		}
		nomePDF := fmt.Sprintf("%s-%s.pdf", base, sufixo)
		if err := escreverNoZip(zw, nomePDF, pdfBytes); err == nil {
			resultado.Arquivos = append(resultado.Arquivos, nomePDF)
		}
	}
}

func (uc *ExportUseCase) auditar(ctx context.Context, codigoEmpresa string, req *dto.ExportRequest, r *ExportResultado) {
	if uc.auditoriaRepo == nil {
		return
	}
	if codigoEmpresa == "" {
		codigoEmpresa = "unknown"
	}
	reqJSON, _ := json.Marshal(req)
	respJSON, _ := json.Marshal(map[string]any{"arquivos": r.Arquivos, "ignorados": r.Ignorados})
	status := entity.AuditoriaSuccess
	if len(r.Arquivos) == 0 {
		status = entity.AuditoriaError
	}
	_ = uc.auditoriaRepo.Create(ctx, &entity.AuditoriaFiscal{
		ID:            uuid.New().String(),
		CodigoEmpresa: codigoEmpresa,
		Acao:          emissor.AcaoExportZip,
		Status:        status,
		Mensagem:      fmt.Sprintf("%d arquivos, %d ignorados", len(r.Arquivos), len(r.Ignorados)),
		Request:       reqJSON,
		Response:      respJSON,
		CreatedAt:     time.Now(),
	})
}

func escreverNoZip(zw *zip.Writer, nome string, conteudo []byte) error {
	w, err := zw.Create(nome)
	if err != nil {
		return err
	}
	_, err = w.Write(conteudo)
	return err
}

// payloadConsulta monta o corpo das consultas de XML/PDF. O provedor aceita
// as duas grafias de cada campo; preferência: searchkey > chave > numero+serie.
func payloadConsulta(searchKey, chave, numero, serie string) map[string]any {
	if searchKey != "" {
		return map[string]any{"searchkey": searchKey, "SearchKey": searchKey}
	}
	if chave != "" {
		return map[string]any{"chave": chave, "Chave": chave}
	}
	return map[string]any{"numero": numero, "Numero": numero, "serie": serie, "Serie": serie}
}

// urlDoBody procura a primeira chave presente no corpo do provedor.
func urlDoBody(body any, chaves ...string) string {
	m, ok := body.(map[string]any)
	if !ok {
		return ""
	}
	for _, k := range chaves {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// chaveDoXML extrai a chave de acesso do atributo Id de infNFe/infNFCe em um
// XML de entrada, para nomear o arquivo quando o descritor não traz a chave.
func chaveDoXML(xmlStr string) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(xmlStr); err != nil {
		return ""
	}
	for _, caminho := range []string{"//infNFe", "//infNFCe"} {
		if el := doc.FindElement(caminho); el != nil {
			id := el.SelectAttrValue("Id", "")
			id = strings.TrimPrefix(strings.TrimPrefix(id, "NFe"), "NFCe")
			if chave := brfmt.OnlyDigits(id); len(chave) == 44 {
				return chave
			}
		}
	}
	return ""
}

var chaveInvalida = regexp.MustCompile(`[^0-9A-Za-z_-]`)

func sanitizarChave(v string) string {
	return chaveInvalida.ReplaceAllString(v, "")
}

func classificarDescritor(it dto.ExportItemRequest) domfiscal.TipoDocumento {
	s := it.Tipo
	if s == "" {
		s = it.Modelo
	}
	return domfiscal.ClassificarTipo(s)
}

func refDoItem(chave, numero string) string {
	if chave != "" {
		return chave
	}
	if numero != "" {
		return numero
	}
	return "semchave"
}

// valorTexto normaliza campos que chegam como string ou número JSON.
func valorTexto(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
