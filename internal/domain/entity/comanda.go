package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de ciclo de vida da comanda.
const (
	ComandaAberta  = "aberta"
	ComandaFechada = "fechada"
)

// Tipos de desconto aplicáveis à comanda inteira.
const (
	DescontoPercentual = "percentual"
	DescontoFixo       = "fixo"
)

// Comanda representa uma venda/mesa aberta no ponto de venda. Os campos nf_*
// são o contrato durável entre emissão, webhook de reconciliação e exibição
// na UI: status, chave de acesso, número/série, URLs e protocolo.
type Comanda struct {
	ID            string
	CodigoEmpresa string
	ClienteID     string // vazio = consumidor final não identificado
	Status        string // aberta | fechada
	DescontoTipo  string // percentual | fixo | vazio
	DescontoValor decimal.Decimal
	AbertoEm      time.Time
	FechadoEm     *time.Time

	// Resultado fiscal (preenchido pela emissão e pelo webhook)
	NfStatus     string // ver internal/domain/fiscal
	XmlChave     string
	NfNumero     string
	NfSerie      string
	NfPdfURL     string
	NfXmlURL     string
	XmlProtocolo string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ComandaItem é uma linha da comanda. Invariante financeiro:
// total = quantidade*preco_unitario - desconto, nunca negativo.
type ComandaItem struct {
	ID            string
	ComandaID     string
	ProdutoID     string
	Descricao     string
	Quantidade    decimal.Decimal
	PrecoUnitario decimal.Decimal
	Desconto      decimal.Decimal
	CreatedAt     time.Time
}

// Total devolve o valor líquido da linha (>= 0).
func (i ComandaItem) Total() decimal.Decimal {
	t := i.Quantidade.Mul(i.PrecoUnitario).Sub(i.Desconto)
	if t.IsNegative() {
		return decimal.Zero
	}
	return t
}

// TotalBruto devolve quantidade * preço unitário, sem desconto.
func (i ComandaItem) TotalBruto() decimal.Decimal {
	return i.Quantidade.Mul(i.PrecoUnitario)
}

// Pagamento registra um recebimento da comanda, vinculado a uma finalizadora.
// A soma dos pagamentos não é reconciliada contra o total aqui.
type Pagamento struct {
	ID             string
	ComandaID      string
	FinalizadoraID string
	Valor          decimal.Decimal
	CreatedAt      time.Time
}
