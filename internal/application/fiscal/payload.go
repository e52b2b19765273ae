// Package fiscal contém os casos de uso do gateway fiscal: montagem de
// payloads NFC-e/NF-e a partir de comandas, despacho de ações ao provedor,
// exportação de XML/PDF em ZIP e reconciliação via webhook.
package fiscal

import "github.com/fluxo7arena/fiscal-api/internal/domain/entity"

// ItemNfce é uma linha de item no formato aceito pelo provedor em
// EnviarNfce/EnviarNfe. Valores monetários trafegam como string com duas
// casas decimais e ponto; alíquotas com quatro casas, em fração (0.0165).
type ItemNfce struct {
	NumeroItem             int     `json:"numero_item"`
	CodigoProduto          string  `json:"codigo_produto"`
	Descricao              string  `json:"descricao"`
	Cfop                   int     `json:"cfop"`
	UnidadeComercial       string  `json:"unidade_comercial"`
	QuantidadeComercial    float64 `json:"quantidade_comercial"`
	ValorUnitarioComercial string  `json:"valor_unitario_comercial"`
	CodigoNcm              string  `json:"codigo_ncm"`
	Cest                   string  `json:"cest,omitempty"`
	ValorDesconto          string  `json:"valor_desconto,omitempty"`
	ValorFrete             string  `json:"valor_frete,omitempty"`
	ValorSeguro            string  `json:"valor_seguro,omitempty"`
	ValorOutrasDespesas    string  `json:"valor_outras_despesas,omitempty"`
	ValorTotal             string  `json:"valor_total"`
	ValorTotalSemDesconto  string  `json:"valor_total_sem_desconto"`

	IcmsOrig  int `json:"icms_orig"`
	IcmsCsosn int `json:"icms_csosn,omitempty"`
	// Ponteiro: CST "00" é um código válido e precisa sobreviver à
	// serialização; int com omitempty o engoliria.
	IcmsCst             *int   `json:"icms_cst,omitempty"`
	IcmsModBaseCalculo  int    `json:"icms_mod_base_calculo,omitempty"`
	IcmsBaseCalculo     string `json:"icms_base_calculo,omitempty"`
	IcmsAliquota        string `json:"icms_aliquota,omitempty"`
	IcmsValor           string `json:"icms_valor,omitempty"`

	PisSituacaoTributaria string `json:"pis_situacao_tributaria,omitempty"`
	BaseCalculoPis        string `json:"base_calculo_pis,omitempty"`
	AliquotaPis           string `json:"aliquota_pis,omitempty"`
	ValorPis              string `json:"valor_pis,omitempty"`

	CofinsSituacaoTributaria string `json:"cofins_situacao_tributaria,omitempty"`
	BaseCalculoCofins        string `json:"base_calculo_cofins,omitempty"`
	AliquotaCofins           string `json:"aliquota_cofins,omitempty"`
	ValorCofins              string `json:"valor_cofins,omitempty"`

	IpiSituacaoTributaria string `json:"ipi_situacao_tributaria,omitempty"`
	BaseCalculoIpi        string `json:"base_calculo_ipi,omitempty"`
	AliquotaIpi           string `json:"aliquota_ipi,omitempty"`
	ValorIpi              string `json:"valor_ipi,omitempty"`
}

// Destinatario é o bloco de destinatário achatado no documento. Na NFC-e o
// bloco inteiro fica ausente quando não há CPF/CNPJ (consumidor final não
// identificado); por isso vai embutido como ponteiro nos structs de dados.
type Destinatario struct {
	NomeDestinatario              string `json:"nome_destinatario"`
	CnpjDestinatario              string `json:"cnpj_destinatario"`
	InscricaoEstadualDestinatario string `json:"inscricao_estadual_destinatario,omitempty"`
	EmailDestinatario             string `json:"email_destinatario,omitempty"`
	TelefoneDestinatario          string `json:"telefone_destinatario,omitempty"`
	LogradouroDestinatario        string `json:"logradouro_destinatario,omitempty"`
	NumeroDestinatario            string `json:"numero_destinatario,omitempty"`
	ComplementoDestinatario       string `json:"complemento_destinatario,omitempty"`
	BairroDestinatario            string `json:"bairro_destinatario,omitempty"`
	MunicipioDestinatario         string `json:"municipio_destinatario,omitempty"`
	CodigoCidade                  string `json:"codigo_cidade,omitempty"`
	UfDestinatario                string `json:"uf_destinatario,omitempty"`
	PaisDestinatario              string `json:"pais_destinatario,omitempty"`
	CepDestinatario               string `json:"cep_destinatario,omitempty"`
	IndicadorIeDestinatario       int    `json:"indicador_ie_destinatario,omitempty"`
}

// NfceDados é o corpo de Dados para EnviarNfce. Itens segue o formato do
// provedor: cada item embrulhado no próprio array ([[i1],[i2]]).
// O *Destinatario embutido é promovido para o nível do documento; nil
// significa que nenhuma chave de destinatário é serializada.
type NfceDados struct {
	TipoOperacao          int    `json:"tipo_operacao"`
	NaturezaOperacao      string `json:"natureza_operacao"`
	FormaPagamento        int    `json:"forma_pagamento"`
	MeioPagamento         string `json:"meio_pagamento"`
	DataEmissao           string `json:"data_emissao"`
	DataSaidaEntrada      string `json:"data_saida_entrada"`
	HoraSaidaEntrada      string `json:"hora_saida_entrada"`
	FinalidadeEmissao     int    `json:"finalidade_emissao"`
	ModalidadeFrete       string `json:"modalidade_frete"`
	ValorFrete            string `json:"valor_frete"`
	ValorSeguro           string `json:"valor_seguro"`
	ValorIpi              string `json:"valor_ipi"`
	ValorTotal            string `json:"valor_total"`
	ValorTotalSemDesconto string `json:"valor_total_sem_desconto"`
	ValorTroco            string `json:"valor_troco,omitempty"`

	*Destinatario

	Itens [][]ItemNfce `json:"Itens"`
}

// NfeDados é o corpo de Dados para EnviarNfe (modelo 55). Difere da NFC-e
// nos totais de ICMS em nível de documento, no bloco de transportadora e no
// destinatário obrigatório. Itens vai em array simples.
type NfeDados struct {
	TipoOperacao          int    `json:"tipo_operacao"`
	NaturezaOperacao      string `json:"natureza_operacao"`
	FormaPagamento        int    `json:"forma_pagamento"`
	MeioPagamento         string `json:"meio_pagamento"`
	DataEmissao           string `json:"data_emissao"`
	DataSaidaEntrada      string `json:"data_saida_entrada"`
	HoraSaidaEntrada      string `json:"hora_saida_entrada"`
	FinalidadeEmissao     int    `json:"finalidade_emissao"`
	ModalidadeFrete       int    `json:"modalidade_frete"`
	ValorFrete            string `json:"valor_frete"`
	ValorSeguro           string `json:"valor_seguro"`
	ValorIpi              string `json:"valor_ipi"`
	ValorTotal            string `json:"valor_total"`
	ValorTotalSemDesconto string `json:"valor_total_sem_desconto"`

	IcmsBaseCalculo           string `json:"icms_base_calculo"`
	IcmsValorTotal            string `json:"icms_valor_total"`
	IcmsBaseCalculoSt         string `json:"icms_base_calculo_st"`
	IcmsValorTotalSt          string `json:"icms_valor_total_st"`
	IcmsModalidadeBaseCalculo int    `json:"icms_modalidade_base_calculo"`
	IcmsValor                 string `json:"icms_valor"`

	InformacoesAdicionaisContribuinte string `json:"informacoes_adicionais_contribuinte"`

	NomeTransportadora              string `json:"nome_transportadora"`
	CnpjTransportadora              string `json:"cnpj_transportadora"`
	EnderecoTransportadora          string `json:"endereco_transportadora"`
	MunicipioTransportadora         string `json:"municipio_transportadora"`
	UfTransportadora                string `json:"uf_transportadora"`
	InscricaoEstadualTransportadora string `json:"inscricao_estadual_transportadora"`

	*Destinatario

	Itens []ItemNfce `json:"Itens"`
}

// PreviaNfce é o resultado da montagem a partir de uma comanda: o Dados
// pronto para envio, o CNPJ do emitente, as linhas originais carregadas (para
// exibição na tela de conferência) e o checklist de pendências cadastrais.
// Faltantes é consultivo e não bloqueia o envio por si só.
type PreviaNfce struct {
	Cnpj          string                 `json:"cnpj"`
	Dados         *NfceDados             `json:"dados"`
	Empresa       *entity.Empresa        `json:"empresa"`
	Comanda       *entity.Comanda        `json:"comanda"`
	Cliente       *entity.Cliente        `json:"cliente,omitempty"`
	Itens         []*entity.ComandaItem  `json:"itens"`
	Pagamentos    []*entity.Pagamento    `json:"pagamentos"`
	Finalizadoras []*entity.Finalizadora `json:"finalizadoras"`
	Faltantes     []string               `json:"faltantes"`
}
