package emissor

// Ações reconhecidas pelo gateway fiscal e seus endpoints no provedor.
// export_zip fica de fora de propósito: não é um proxy direto, é tratado
// pelo caso de uso de exportação.
const (
	AcaoAdicionarEmpresa  = "adicionar_empresa"
	AcaoEnviarCertificado = "enviar_certificado"
	AcaoNfeEnviar         = "nfe_enviar"
	AcaoNfeConsultar      = "nfe_consultar"
	AcaoNfeCancelar       = "nfe_cancelar"
	AcaoNfePdf            = "nfe_pdf"
	AcaoNfeXml            = "nfe_xml"
	AcaoNfceEnviar        = "nfce_enviar"
	AcaoNfceConsultar     = "nfce_consultar"
	AcaoNfceCancelar      = "nfce_cancelar"
	AcaoNfceAlterar       = "nfce_alterar"
	AcaoNfcePdf           = "nfce_pdf"
	AcaoNfceXml           = "nfce_xml"
	AcaoTesteConexao      = "teste_conexao"
	AcaoExportZip         = "export_zip"
)

// rotaPorAcao mapeia ação -> endpoint do provedor.
var rotaPorAcao = map[string]string{
	// Empresa / Certificado
	AcaoAdicionarEmpresa:  "/AdicionarEmpresa/",
	AcaoEnviarCertificado: "/EnviarCertificado/",
	// NF-e (modelo 55)
	AcaoNfeEnviar:    "/EnviarNfe/",
	AcaoNfeConsultar: "/ConsultarEmissaoNotaNfe/",
	AcaoNfeCancelar:  "/CancelarNfe/",
	AcaoNfePdf:       "/ConsultarPDFNfe/",
	AcaoNfeXml:       "/ConsultarXMLNfe/",
	// NFC-e (modelo 65)
	AcaoNfceEnviar:    "/EnviarNfce/",
	AcaoNfceConsultar: "/ConsultarEmissaoNotaNfce/",
	AcaoNfceCancelar:  "/CancelarNfce/",
	AcaoNfceAlterar:   "/AlterarDadosNfce/",
	AcaoNfcePdf:       "/ConsultarPDFNfce/",
	AcaoNfceXml:       "/ConsultarXMLNfce/",
	// O teste de conexão bate no endpoint de consulta NFC-e com Dados vazio:
	// qualquer resposta (até 400) prova que a URL e a ApiKey chegam lá.
	AcaoTesteConexao: "/ConsultarEmissaoNotaNfce/",
}

// RotaDaAcao devolve o endpoint da ação, ou "" se a ação não existe.
func RotaDaAcao(acao string) string {
	return rotaPorAcao[acao]
}
