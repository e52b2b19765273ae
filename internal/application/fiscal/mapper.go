package fiscal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fluxo7arena/fiscal-api/internal/domain"
	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
	"github.com/fluxo7arena/fiscal-api/pkg/brfmt"
)

// MapperUseCase monta a prévia de NFC-e de uma comanda: carrega emitente,
// comanda, cliente, itens, produtos e pagamentos, e produz o Dados no
// formato do provedor mais o checklist de pendências cadastrais.
type MapperUseCase struct {
	empresaRepo      repository.EmpresaRepository
	comandaRepo      repository.ComandaRepository
	clienteRepo      repository.ClienteRepository
	produtoRepo      repository.ProdutoRepository
	finalizadoraRepo repository.FinalizadoraRepository
}

// NewMapperUseCase constrói o caso de uso de montagem de payload.
func NewMapperUseCase(
	empresaRepo repository.EmpresaRepository,
	comandaRepo repository.ComandaRepository,
	clienteRepo repository.ClienteRepository,
	produtoRepo repository.ProdutoRepository,
	finalizadoraRepo repository.FinalizadoraRepository,
) *MapperUseCase {
	return &MapperUseCase{
		empresaRepo:      empresaRepo,
		comandaRepo:      comandaRepo,
		clienteRepo:      clienteRepo,
		produtoRepo:      produtoRepo,
		finalizadoraRepo: finalizadoraRepo,
	}
}

// GerarPrevia monta o payload NFC-e da comanda sem enviar nada ao provedor.
func (uc *MapperUseCase) GerarPrevia(ctx context.Context, codigoEmpresa, comandaID string) (*PreviaNfce, error) {
	previa, _, _, err := uc.gerar(ctx, codigoEmpresa, comandaID)
	return previa, err
}

// gerar é a montagem completa; devolve também empresa e comanda carregadas
// para os casos de uso que precisam delas na sequência (emissão).
func (uc *MapperUseCase) gerar(ctx context.Context, codigoEmpresa, comandaID string) (*PreviaNfce, *entity.Empresa, *entity.Comanda, error) {
	if comandaID == "" || codigoEmpresa == "" {
		return nil, nil, nil, domain.ErrInvalidInput
	}

	empresa, err := uc.empresaRepo.GetByCodigoEmpresa(ctx, codigoEmpresa)
	if err != nil {
		return nil, nil, nil, err
	}
	if empresa == nil {
		return nil, nil, nil, domain.ErrNotFound
	}

	comanda, err := uc.comandaRepo.GetByID(ctx, comandaID)
	if err != nil {
		return nil, nil, nil, err
	}
	if comanda == nil || comanda.CodigoEmpresa != codigoEmpresa {
		return nil, nil, nil, domain.ErrNotFound
	}

	// Cliente é opcional: primeiro o vínculo direto, depois o primeiro
	// associado via comanda_clientes. Falha na busca não impede a prévia.
	var cliente *entity.Cliente
	if comanda.ClienteID != "" {
		cliente, _ = uc.clienteRepo.GetByID(ctx, comanda.ClienteID)
	} else {
		cliente, _ = uc.comandaRepo.GetPrimeiroClienteAssociado(ctx, comandaID)
	}

	itens, err := uc.comandaRepo.ListItens(ctx, comandaID)
	if err != nil {
		return nil, nil, nil, err
	}

	produtoIDs := make([]string, 0, len(itens))
	visto := map[string]bool{}
	for _, it := range itens {
		if it.ProdutoID != "" && !visto[it.ProdutoID] {
			visto[it.ProdutoID] = true
			produtoIDs = append(produtoIDs, it.ProdutoID)
		}
	}
	produtos := map[string]*entity.Produto{}
	if len(produtoIDs) > 0 {
		produtos, err = uc.produtoRepo.GetByIDs(ctx, produtoIDs)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	pagamentos, err := uc.comandaRepo.ListPagamentos(ctx, comandaID)
	if err != nil {
		return nil, nil, nil, err
	}
	var finalizadoras []*entity.Finalizadora
	if finIDs := finalizadoraIDs(pagamentos); len(finIDs) > 0 {
		finalizadoras, err = uc.finalizadoraRepo.GetByIDs(ctx, finIDs)
		if err != nil {
			return nil, nil, nil, err
		}
	}

	// Totais: desconto de item primeiro; o desconto de comanda incide sobre
	// a base já descontada e depois é rateado entre os itens.
	totalSemDesc := decimal.Zero
	totalDescItens := decimal.Zero
	for _, it := range itens {
		totalSemDesc = totalSemDesc.Add(it.TotalBruto())
		totalDescItens = totalDescItens.Add(it.Desconto)
	}
	baseComanda := totalSemDesc.Sub(totalDescItens)
	if baseComanda.IsNegative() {
		baseComanda = decimal.Zero
	}
	descontoComanda := descontoDaComanda(comanda, baseComanda)

	itensFiscais := make([]ItemNfce, 0, len(itens))
	for idx, it := range itens {
		itensFiscais = append(itensFiscais, uc.montarItem(idx, it, produtos[it.ProdutoID]))
	}
	if descontoComanda.GreaterThan(decimal.NewFromFloat(0.0005)) {
		itensFiscais = DistribuirDescontoGlobal(itensFiscais, descontoComanda)
	}

	totalFiscal := decimal.Zero
	for _, it := range itensFiscais {
		totalFiscal = totalFiscal.Add(brfmt.ParseDecimalBR(it.ValorTotal))
	}

	emissao := momentoEmissao(comanda)
	dados := &NfceDados{
		TipoOperacao:          1,
		NaturezaOperacao:      "Venda de mercadoria",
		FormaPagamento:        formaPagamento(pagamentos),
		MeioPagamento:         meioPagamento(pagamentos, finalizadoras),
		DataEmissao:           emissao.Format("02/01/2006"),
		DataSaidaEntrada:      emissao.Format("02/01/2006"),
		HoraSaidaEntrada:      emissao.Format("15:04:05"),
		FinalidadeEmissao:     1,
		ModalidadeFrete:       "9",
		ValorFrete:            "0",
		ValorSeguro:           "0",
		ValorIpi:              "0",
		ValorTotal:            brfmt.Fixed2(totalFiscal),
		ValorTotalSemDesconto: brfmt.Fixed2(totalSemDesc),
		Destinatario:          destinatarioDoCliente(cliente),
		Itens:                 enveloparItens(itensFiscais),
	}

	previa := &PreviaNfce{
		Cnpj:          brfmt.OnlyDigits(empresa.CNPJ),
		Dados:         dados,
		Empresa:       empresa,
		Comanda:       comanda,
		Cliente:       cliente,
		Itens:         itens,
		Pagamentos:    pagamentos,
		Finalizadoras: finalizadoras,
		Faltantes:     checklistFaltantes(empresa, itens, produtos),
	}
	return previa, empresa, comanda, nil
}

// montarItem converte uma linha da comanda em item fiscal. Produto ausente
// não aborta: o item sai com defaults e a lacuna aparece no checklist.
func (uc *MapperUseCase) montarItem(idx int, it *entity.ComandaItem, p *entity.Produto) ItemNfce {
	if p == nil {
		p = &entity.Produto{}
	}

	cfop := 5102
	if n, err := strconv.Atoi(strings.TrimSpace(p.CfopInterno)); err == nil && n > 0 {
		cfop = n
	}
	ncm := brfmt.OnlyDigits(p.NCM)
	if len(ncm) > 8 {
		ncm = ncm[:8]
	}
	unidade := p.Unidade
	if unidade == "" {
		unidade = "UN"
	}
	codigo := p.Codigo
	if codigo == "" {
		codigo = p.ID
	}
	if codigo == "" {
		codigo = it.ProdutoID
	}
	descricao := p.Nome
	if descricao == "" {
		descricao = it.Descricao
	}
	if descricao == "" {
		descricao = "Item"
	}
	pisCst := p.CstPisSaida
	if pisCst == "" {
		pisCst = "07"
	}
	cofinsCst := p.CstCofinsSaida
	if cofinsCst == "" {
		cofinsCst = "07"
	}

	item := ItemNfce{
		NumeroItem:               idx + 1,
		CodigoProduto:            codigo,
		Descricao:                descricao,
		Cfop:                     cfop,
		UnidadeComercial:         unidade,
		QuantidadeComercial:      it.Quantidade.InexactFloat64(),
		ValorUnitarioComercial:   brfmt.Fixed2(it.PrecoUnitario),
		CodigoNcm:                ncm,
		ValorTotal:               brfmt.Fixed2(it.Total()),
		ValorTotalSemDesconto:    brfmt.Fixed2(it.TotalBruto()),
		IcmsOrig:                 p.IcmsOrigem,
		PisSituacaoTributaria:    pisCst,
		CofinsSituacaoTributaria: cofinsCst,
	}
	if it.Desconto.IsPositive() {
		item.ValorDesconto = brfmt.Fixed2(it.Desconto)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(p.CsosnInterno)); err == nil && n > 0 {
		item.IcmsCsosn = n
	}
	return item
}

// enveloparItens embrulha cada item no próprio array, formato exigido pelo
// provedor em EnviarNfce.
func enveloparItens(itens []ItemNfce) [][]ItemNfce {
	out := make([][]ItemNfce, len(itens))
	for i, it := range itens {
		out[i] = []ItemNfce{it}
	}
	return out
}

// descontoDaComanda calcula o desconto global: percentual incide sobre a
// base já líquida de descontos de item; fixo é usado como está.
func descontoDaComanda(c *entity.Comanda, base decimal.Decimal) decimal.Decimal {
	if c == nil || !c.DescontoValor.IsPositive() {
		return decimal.Zero
	}
	switch c.DescontoTipo {
	case entity.DescontoPercentual:
		return base.Mul(c.DescontoValor).Div(decimal.NewFromInt(100))
	case entity.DescontoFixo:
		return c.DescontoValor
	}
	return decimal.Zero
}

// formaPagamento devolve o indicador de forma de pagamento. Hoje toda venda
// sai como "à vista" (0); parcelado/fiado entrariam aqui quando o ponto de
// venda passar a registrá-los.
func formaPagamento(_ []*entity.Pagamento) int {
	return 0
}

// meioPagamento resolve o código SEFAZ do meio de pagamento: "90" quando não
// há pagamento registrado, o codigo_sefaz da finalizadora do primeiro
// pagamento quando mapeada, senão "99" (outros).
func meioPagamento(pagamentos []*entity.Pagamento, finalizadoras []*entity.Finalizadora) string {
	if len(pagamentos) == 0 {
		return "90"
	}
	primeiro := pagamentos[0]
	for _, f := range finalizadoras {
		if f.ID == primeiro.FinalizadoraID && f.CodigoSefaz != "" {
			return f.CodigoSefaz
		}
	}
	return "99"
}

// destinatarioDoCliente monta o bloco de destinatário, ou nil quando não há
// cliente com CPF/CNPJ (consumidor final não identificado não leva <dest>).
func destinatarioDoCliente(c *entity.Cliente) *Destinatario {
	if c == nil {
		return nil
	}
	doc := brfmt.OnlyDigits(c.CpfCnpj)
	if doc == "" {
		return nil
	}
	return &Destinatario{
		NomeDestinatario:              c.Nome,
		CnpjDestinatario:              doc,
		InscricaoEstadualDestinatario: c.InscricaoEstadual,
		EmailDestinatario:             c.Email,
		TelefoneDestinatario:          brfmt.OnlyDigits(c.Telefone),
		LogradouroDestinatario:        c.Logradouro,
		NumeroDestinatario:            c.Numero,
		ComplementoDestinatario:       c.Complemento,
		BairroDestinatario:            c.Bairro,
		MunicipioDestinatario:         c.Cidade,
		CodigoCidade:                  c.CodigoMunicipioIBGE,
		UfDestinatario:                c.UF,
		PaisDestinatario:              "Brasil",
		CepDestinatario:               brfmt.OnlyDigits(c.CEP),
		IndicadorIeDestinatario:       9,
	}
}

// momentoEmissao escolhe o instante de emissão: fechamento da comanda,
// depois última atualização, por fim agora.
func momentoEmissao(c *entity.Comanda) time.Time {
	if c.FechadoEm != nil && !c.FechadoEm.IsZero() {
		return *c.FechadoEm
	}
	if !c.UpdatedAt.IsZero() {
		return c.UpdatedAt
	}
	return time.Now()
}

// checklistFaltantes lista pendências cadastrais do emitente e dos produtos.
// A lista é consultiva: a emissão pode prosseguir, mas tende a ser rejeitada
// pela SEFAZ enquanto houver pendências.
func checklistFaltantes(empresa *entity.Empresa, itens []*entity.ComandaItem, produtos map[string]*entity.Produto) []string {
	faltantes := []string{}
	if empresa.InscricaoEstadual == "" {
		faltantes = append(faltantes, "Inscrição Estadual (empresa)")
	}
	if empresa.RegimeTributario == "" {
		faltantes = append(faltantes, "CRT/Regime Tributário (empresa)")
	}
	if empresa.Cidade == "" || empresa.UF == "" {
		faltantes = append(faltantes, "Cidade/UF (empresa)")
	}
	if empresa.CodigoMunicipioIBGE == "" {
		faltantes = append(faltantes, "Código IBGE do município (empresa)")
	}
	if empresa.NfceSerie == "" {
		faltantes = append(faltantes, "NFC-e Série (empresa)")
	}
	if empresa.NfceIToken == "" && empresa.Ambiente == entity.AmbienteProducao {
		faltantes = append(faltantes, "NFC-e IToken/CSC (produção)")
	}
	if brfmt.OnlyDigits(empresa.CNPJ) == "" {
		faltantes = append(faltantes, "CNPJ da empresa")
	}

	for _, it := range itens {
		p := produtos[it.ProdutoID]
		if p == nil {
			p = &entity.Produto{ID: it.ProdutoID}
		}
		nome := p.Nome
		if nome == "" {
			nome = p.ID
		}
		ncm := brfmt.OnlyDigits(p.NCM)
		if len(ncm) > 8 {
			ncm = ncm[:8]
		}
		if ncm == "" || strings.Trim(ncm, "0") == "" {
			faltantes = append(faltantes, fmt.Sprintf("Produto %s: NCM válido", nome))
		}
		if strings.TrimSpace(p.CfopInterno) == "" {
			faltantes = append(faltantes, fmt.Sprintf("Produto %s: CFOP interno", nome))
		}
		if strings.TrimSpace(p.CsosnInterno) == "" {
			faltantes = append(faltantes, fmt.Sprintf("Produto %s: CSOSN (icms_csosn)", nome))
		}
	}
	return faltantes
}

func finalizadoraIDs(pagamentos []*entity.Pagamento) []string {
	ids := make([]string, 0, len(pagamentos))
	visto := map[string]bool{}
	for _, p := range pagamentos {
		if p.FinalizadoraID != "" && !visto[p.FinalizadoraID] {
			visto[p.FinalizadoraID] = true
			ids = append(ids, p.FinalizadoraID)
		}
	}
	return ids
}
