package fiscal

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fluxo7arena/fiscal-api/internal/application/dto"
	"github.com/fluxo7arena/fiscal-api/internal/domain"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
	"github.com/fluxo7arena/fiscal-api/internal/infrastructure/emissor"
	"github.com/fluxo7arena/fiscal-api/pkg/brfmt"
)

var cem = decimal.NewFromInt(100)

// ManualUseCase emite documentos avulsos a partir dos formulários manuais.
// O CNPJ do emitente sai do cadastro do tenant, nunca do corpo da requisição.
type ManualUseCase struct {
	empresaRepo repository.EmpresaRepository
	gateway     *GatewayUseCase
}

// NewManualUseCase constrói o caso de uso de emissão manual.
func NewManualUseCase(empresaRepo repository.EmpresaRepository, gateway *GatewayUseCase) *ManualUseCase {
	return &ManualUseCase{empresaRepo: empresaRepo, gateway: gateway}
}

// EmitirNfce monta e despacha uma NFC-e avulsa.
func (uc *ManualUseCase) EmitirNfce(ctx context.Context, codigoEmpresa string, req *dto.NfceManualRequest) (Resultado, error) {
	return uc.despachar(ctx, codigoEmpresa, emissor.AcaoNfceEnviar, req.Ambiente, GerarPayloadNfceManual(req))
}

// EmitirNfe monta e despacha uma NF-e avulsa.
func (uc *ManualUseCase) EmitirNfe(ctx context.Context, codigoEmpresa string, req *dto.NfeManualRequest) (Resultado, error) {
	if req.Destinatario == nil {
		return Resultado{}, fmt.Errorf("destinatário obrigatório na NF-e: %w", domain.ErrInvalidInput)
	}
	return uc.despachar(ctx, codigoEmpresa, emissor.AcaoNfeEnviar, req.Ambiente, GerarPayloadNfeManual(req))
}

func (uc *ManualUseCase) despachar(ctx context.Context, codigoEmpresa, acao, ambiente string, dados any) (Resultado, error) {
	empresa, err := uc.empresaRepo.GetByCodigoEmpresa(ctx, codigoEmpresa)
	if err != nil {
		return Resultado{}, err
	}
	if empresa == nil {
		return Resultado{}, domain.ErrNotFound
	}
	if ambiente == "" {
		ambiente = empresa.Ambiente
	}
	dadosJSON, err := json.Marshal(dados)
	if err != nil {
		return Resultado{}, err
	}
	return uc.gateway.Executar(ctx, codigoEmpresa, &dto.GatewayRequest{
		Acao:     acao,
		Ambiente: ambiente,
		Cnpj:     brfmt.OnlyDigits(empresa.CNPJ),
		Dados:    dadosJSON,
	}), nil
}

// GerarPayloadNfceManual monta o Dados de uma NFC-e avulsa a partir do
// formulário manual, sem comanda por trás.
func GerarPayloadNfceManual(req *dto.NfceManualRequest) *NfceDados {
	itens := montarItensManuais(req.Itens)
	soma := somaTotais(itens)

	natureza := req.NaturezaOperacao
	if natureza == "" {
		natureza = "Venda de mercadoria"
	}
	meio := req.MeioPagamento
	if meio == "" {
		meio = "90"
	}

	agora := time.Now()
	dados := &NfceDados{
		TipoOperacao:          1,
		NaturezaOperacao:      natureza,
		FormaPagamento:        0,
		MeioPagamento:         meio,
		DataEmissao:           agora.Format("02/01/2006"),
		DataSaidaEntrada:      agora.Format("02/01/2006"),
		HoraSaidaEntrada:      agora.Format("15:04:05"),
		FinalidadeEmissao:     1,
		ModalidadeFrete:       "9",
		ValorFrete:            "0",
		ValorSeguro:           "0",
		ValorIpi:              "0",
		ValorTotal:            brfmt.Fixed2(soma),
		ValorTotalSemDesconto: brfmt.Fixed2(soma),
		Destinatario:          destinatarioManual(req.Destinatario, 9),
		// NFC-e manual vai com todos os itens num único array interno.
		Itens: [][]ItemNfce{itens},
	}
	if troco := brfmt.ParseDecimalBR(req.ValorTroco); troco.IsPositive() {
		dados.ValorTroco = brfmt.Fixed2(troco)
	}
	return dados
}

// GerarPayloadNfeManual monta o Dados de uma NF-e avulsa (modelo 55).
// O destinatário é obrigatório; a validação de presença fica no handler.
func GerarPayloadNfeManual(req *dto.NfeManualRequest) *NfeDados {
	itens := montarItensManuais(req.Itens)
	soma := somaTotais(itens)

	natureza := req.NaturezaOperacao
	if natureza == "" {
		natureza = "Venda de mercadoria"
	}
	meio := req.MeioPagamento
	if meio == "" {
		meio = "01"
	}
	finalidade := req.FinalidadeEmissao
	if finalidade == 0 {
		finalidade = 1
	}
	frete := 9
	if m, err := strconv.Atoi(strings.TrimSpace(req.ModalidadeFrete)); err == nil {
		frete = m
	}

	agora := time.Now()
	return &NfeDados{
		TipoOperacao:          req.TipoOperacao,
		NaturezaOperacao:      natureza,
		FormaPagamento:        0,
		MeioPagamento:         meio,
		DataEmissao:           agora.Format("02/01/2006"),
		DataSaidaEntrada:      agora.Format("02/01/2006"),
		HoraSaidaEntrada:      agora.Format("15:04:05"),
		FinalidadeEmissao:     finalidade,
		ModalidadeFrete:       frete,
		ValorFrete:            "0.00",
		ValorSeguro:           "0.00",
		ValorIpi:              "0.00",
		ValorTotal:            brfmt.Fixed2(soma),
		ValorTotalSemDesconto: brfmt.Fixed2(soma),

		IcmsBaseCalculo:           "0",
		IcmsValorTotal:            "0",
		IcmsBaseCalculoSt:         "0",
		IcmsValorTotalSt:          "0",
		IcmsModalidadeBaseCalculo: 0,
		IcmsValor:                 "0",

		InformacoesAdicionaisContribuinte: req.InformacoesAdicionais,

		Destinatario: destinatarioManual(req.Destinatario, 1),
		Itens:        itens,
	}
}

// montarItensManuais converte as linhas do formulário em itens fiscais,
// calculando os blocos de imposto informados (ICMS por CST, PIS, COFINS, IPI).
func montarItensManuais(linhas []dto.ItemManualRequest) []ItemNfce {
	itens := make([]ItemNfce, 0, len(linhas))
	for idx, l := range linhas {
		q := brfmt.ParseDecimalBR(l.Quantidade)
		unit := brfmt.ParseDecimalBR(l.ValorUnitario)
		desc := brfmt.ParseDecimalBR(l.ValorDesconto)
		frete := brfmt.ParseDecimalBR(l.ValorFrete)
		seguro := brfmt.ParseDecimalBR(l.ValorSeguro)
		outras := brfmt.ParseDecimalBR(l.ValorOutras)

		bruto := q.Mul(unit)
		total := bruto.Sub(desc).Add(frete).Add(seguro).Add(outras)
		if total.IsNegative() {
			total = decimal.Zero
		}

		cfop := l.Cfop
		if cfop == 0 {
			cfop = 5102
		}
		unidade := l.Unidade
		if unidade == "" {
			unidade = "UN"
		}
		codigo := l.CodigoProduto
		if codigo == "" {
			codigo = strconv.Itoa(idx + 1)
		}
		descricao := l.Descricao
		if descricao == "" {
			descricao = fmt.Sprintf("Item %d", idx+1)
		}
		ncm := brfmt.OnlyDigits(l.Ncm)
		if len(ncm) > 8 {
			ncm = ncm[:8]
		}

		item := ItemNfce{
			NumeroItem:             idx + 1,
			CodigoProduto:          codigo,
			Descricao:              descricao,
			Cfop:                   cfop,
			UnidadeComercial:       unidade,
			QuantidadeComercial:    q.InexactFloat64(),
			ValorUnitarioComercial: brfmt.Fixed2(unit),
			CodigoNcm:              ncm,
			Cest:                   strings.TrimSpace(l.Cest),
			ValorTotal:             brfmt.Fixed2(total),
			ValorTotalSemDesconto:  brfmt.Fixed2(bruto),
			IcmsOrig:               l.IcmsOrigem,
		}
		if desc.IsPositive() {
			item.ValorDesconto = brfmt.Fixed2(desc)
		}
		if frete.IsPositive() {
			item.ValorFrete = brfmt.Fixed2(frete)
		}
		if seguro.IsPositive() {
			item.ValorSeguro = brfmt.Fixed2(seguro)
		}
		if outras.IsPositive() {
			item.ValorOutrasDespesas = brfmt.Fixed2(outras)
		}

		if l.IcmsCsosn > 0 {
			item.IcmsCsosn = l.IcmsCsosn
		}
		if cst, err := strconv.Atoi(strings.TrimSpace(l.IcmsCst)); err == nil && cst >= 0 {
			item.IcmsCst = &cst
			aliq := brfmt.ParseDecimalBR(l.IcmsAliquota)
			if total.IsPositive() {
				// modalidade 3: base de cálculo é o valor da operação
				item.IcmsModBaseCalculo = 3
				item.IcmsBaseCalculo = brfmt.Fixed2(total)
				item.IcmsAliquota = brfmt.Fixed4(aliq.Div(cem))
				item.IcmsValor = brfmt.Fixed2(total.Mul(aliq).Div(cem))
			}
		}

		if l.PisCst != "" {
			item.PisSituacaoTributaria = l.PisCst
		}
		if aliq := brfmt.ParseDecimalBR(l.PisAliquota); aliq.IsPositive() {
			item.BaseCalculoPis = brfmt.Fixed2(total)
			item.AliquotaPis = brfmt.Fixed4(aliq.Div(cem))
			item.ValorPis = brfmt.Fixed2(total.Mul(aliq).Div(cem))
		}
		if l.CofinsCst != "" {
			item.CofinsSituacaoTributaria = l.CofinsCst
		}
		if aliq := brfmt.ParseDecimalBR(l.CofinsAliquota); aliq.IsPositive() {
			item.BaseCalculoCofins = brfmt.Fixed2(total)
			item.AliquotaCofins = brfmt.Fixed4(aliq.Div(cem))
			item.ValorCofins = brfmt.Fixed2(total.Mul(aliq).Div(cem))
		}
		if l.IpiCst != "" {
			item.IpiSituacaoTributaria = l.IpiCst
			if aliq := brfmt.ParseDecimalBR(l.IpiAliquota); aliq.IsPositive() {
				item.BaseCalculoIpi = brfmt.Fixed2(total)
				item.AliquotaIpi = brfmt.Fixed4(aliq.Div(cem))
				item.ValorIpi = brfmt.Fixed2(total.Mul(aliq).Div(cem))
			}
		}

		itens = append(itens, item)
	}
	return itens
}

func somaTotais(itens []ItemNfce) decimal.Decimal {
	soma := decimal.Zero
	for _, it := range itens {
		soma = soma.Add(brfmt.ParseDecimalBR(it.ValorTotal))
	}
	return soma
}

func destinatarioManual(d *dto.DestinatarioManualRequest, indicadorIe int) *Destinatario {
	if d == nil {
		return nil
	}
	doc := brfmt.OnlyDigits(d.CpfCnpj)
	if doc == "" {
		return nil
	}
	return &Destinatario{
		NomeDestinatario:              d.Nome,
		CnpjDestinatario:              doc,
		InscricaoEstadualDestinatario: d.InscricaoEstadual,
		EmailDestinatario:             d.Email,
		TelefoneDestinatario:          brfmt.OnlyDigits(d.Telefone),
		LogradouroDestinatario:        d.Logradouro,
		NumeroDestinatario:            d.Numero,
		ComplementoDestinatario:       d.Complemento,
		BairroDestinatario:            d.Bairro,
		MunicipioDestinatario:         d.Municipio,
		CodigoCidade:                  d.CodigoCidade,
		UfDestinatario:                d.Uf,
		PaisDestinatario:              "Brasil",
		CepDestinatario:               brfmt.OnlyDigits(d.Cep),
		IndicadorIeDestinatario:       indicadorIe,
	}
}
