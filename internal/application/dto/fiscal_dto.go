package dto

import "encoding/json"

// GatewayRequest corpo aceito pelo endpoint genérico do emissor.
// Dados é repassado (ou interpretado, no caso de export_zip) conforme a ação.
type GatewayRequest struct {
	Acao     string          `json:"acao" validate:"required"`
	Ambiente string          `json:"ambiente" validate:"omitempty,oneof=homologacao producao"`
	Cnpj     string          `json:"cnpj"`
	Dados    json.RawMessage `json:"dados"`
}

// GatewayResponse resultado de uma chamada ao provedor fiscal.
// Erros do provedor também chegam aqui: Status carrega o HTTP dele e
// Response o corpo original, para o frontend decidir o que exibir.
type GatewayResponse struct {
	Message  string `json:"message,omitempty"`
	Status   int    `json:"status"`
	Response any    `json:"response"`
}

// TesteConexaoResponse resultado normalizado da sondagem de conectividade.
type TesteConexaoResponse struct {
	Status   int    `json:"status"`
	Ok       bool   `json:"ok"`
	Via      string `json:"via"`
	Ambiente string `json:"ambiente"`
	Response any    `json:"response,omitempty"`
	Erro     string `json:"erro,omitempty"`
}

// ExportRequest dados da ação export_zip: lista de documentos a empacotar.
type ExportRequest struct {
	IncluirPdf bool                `json:"incluir_pdf"`
	Nome       string              `json:"nome"` // nome do arquivo ZIP; default fiscal_export.zip
	Itens      []ExportItemRequest `json:"itens" validate:"required,min=1"`
}

// ExportItemRequest descritor de um documento no export. Numero e Serie
// aceitam string ou número, conforme o chamador.
type ExportItemRequest struct {
	Tipo      string `json:"tipo"`
	Modelo    string `json:"modelo"`
	Chave     string `json:"chave"`
	Numero    any    `json:"numero"`
	Serie     any    `json:"serie"`
	SearchKey string `json:"searchkey"`
	Xml       string `json:"xml"`
}

// EmitirComandaRequest corpo de POST /comandas/:id/emitir.
// Force emite mesmo com pendências cadastrais apontadas na prévia.
type EmitirComandaRequest struct {
	Ambiente string `json:"ambiente" validate:"omitempty,oneof=homologacao producao"`
	Force    bool   `json:"force"`
}

// WebhookPayload corpo cru do callback do provedor. O provedor varia a
// grafia dos campos entre versões; cada apelido conhecido tem seu campo
// e Normalizar (no pacote fiscal) resolve o valor efetivo.
type WebhookPayload struct {
	Cnpj        string `json:"cnpj"`
	EmitterCnpj string `json:"emitterCnpj"`
	Status      string `json:"status"`
	Situacao    string `json:"situacao"`
	Chave       string `json:"chave"`
	ChaveAcesso string `json:"chaveAcesso"`
	Numero      any    `json:"numero"`
	Serie       any    `json:"serie"`
	Protocolo   any    `json:"protocolo"`
	PdfURL      string `json:"pdf_url"`
	PdfURLAlt   string `json:"pdfUrl"`
	XmlURL      string `json:"xml_url"`
	XmlURLAlt   string `json:"xmlUrl"`
	ComandaID   string `json:"comanda_id"`
	ReferenceID string `json:"referenceId"`
	Motivo      string `json:"motivo"`
	Mensagem    string `json:"mensagem"`
}

// ItemManualRequest item de formulário para emissão manual. Valores
// monetários e quantidades aceitam máscara brasileira ("1.234,56").
type ItemManualRequest struct {
	CodigoProduto string `json:"codigo_produto"`
	Descricao     string `json:"descricao" validate:"required"`
	Ncm           string `json:"ncm"`
	Cest          string `json:"cest"`
	Cfop          int    `json:"cfop"`
	Unidade       string `json:"unidade"`
	Quantidade    string `json:"quantidade" validate:"required"`
	ValorUnitario string `json:"valor_unitario" validate:"required"`
	ValorDesconto string `json:"valor_desconto"`
	ValorFrete    string `json:"valor_frete"`
	ValorSeguro   string `json:"valor_seguro"`
	ValorOutras   string `json:"valor_outras_despesas"`

	IcmsOrigem       int    `json:"icms_origem"`
	IcmsCsosn        int    `json:"icms_csosn"`
	IcmsCst          string `json:"icms_cst"`
	IcmsBaseCalculo  string `json:"icms_base_calculo"`
	IcmsAliquota     string `json:"icms_aliquota"`
	PisCst           string `json:"pis_cst"`
	PisBaseCalculo   string `json:"pis_base_calculo"`
	PisAliquota      string `json:"pis_aliquota"`
	CofinsCst        string `json:"cofins_cst"`
	CofinsBase       string `json:"cofins_base_calculo"`
	CofinsAliquota   string `json:"cofins_aliquota"`
	IpiCst           string `json:"ipi_cst"`
	IpiBaseCalculo   string `json:"ipi_base_calculo"`
	IpiAliquota      string `json:"ipi_aliquota"`
	EnquadramentoIpi string `json:"ipi_codigo_enquadramento"`
}

// DestinatarioManualRequest destinatário informado no formulário manual.
type DestinatarioManualRequest struct {
	Nome              string `json:"nome" validate:"required"`
	CpfCnpj           string `json:"cpf_cnpj" validate:"required"`
	InscricaoEstadual string `json:"inscricao_estadual"`
	Email             string `json:"email"`
	Telefone          string `json:"telefone"`
	Logradouro        string `json:"logradouro"`
	Numero            string `json:"numero"`
	Complemento       string `json:"complemento"`
	Bairro            string `json:"bairro"`
	Municipio         string `json:"municipio"`
	CodigoCidade      string `json:"codigo_cidade"`
	Uf                string `json:"uf"`
	Cep               string `json:"cep"`
}

// NfceManualRequest formulário de NFC-e avulsa.
type NfceManualRequest struct {
	Ambiente         string                     `json:"ambiente" validate:"omitempty,oneof=homologacao producao"`
	NaturezaOperacao string                     `json:"natureza_operacao"`
	MeioPagamento    string                     `json:"meio_pagamento"`
	ValorTroco       string                     `json:"valor_troco"`
	Destinatario     *DestinatarioManualRequest `json:"destinatario"`
	Itens            []ItemManualRequest        `json:"itens" validate:"required,min=1"`
}

// NfeManualRequest formulário de NF-e avulsa (modelo 55, destinatário obrigatório).
type NfeManualRequest struct {
	Ambiente              string                     `json:"ambiente" validate:"omitempty,oneof=homologacao producao"`
	NaturezaOperacao      string                     `json:"natureza_operacao"`
	TipoOperacao          int                        `json:"tipo_operacao"`
	FinalidadeEmissao     int                        `json:"finalidade_emissao"`
	ModalidadeFrete       string                     `json:"modalidade_frete"`
	MeioPagamento         string                     `json:"meio_pagamento"`
	InformacoesAdicionais string                     `json:"informacoes_adicionais"`
	Destinatario          *DestinatarioManualRequest `json:"destinatario" validate:"required"`
	Itens                 []ItemManualRequest        `json:"itens" validate:"required,min=1"`
}
