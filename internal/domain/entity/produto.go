package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Produto carrega a classificação fiscal usada na montagem dos itens da nota.
// NCM, CFOP e CSOSN ausentes entram no checklist de pendências do mapper.
type Produto struct {
	ID            string
	CodigoEmpresa string
	Codigo        string
	Nome          string
	Unidade       string // UN, KG, L...
	Preco         decimal.Decimal
	NCM           string
	CfopInterno   string
	CsosnInterno  string
	CstPisSaida   string
	CstCofinsSaida string
	IcmsOrigem    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Finalizadora é um meio de pagamento configurado (dinheiro, cartão, PIX...).
// CodigoSefaz é o código de meio de pagamento exigido pela SEFAZ.
type Finalizadora struct {
	ID            string
	CodigoEmpresa string
	Descricao     string
	CodigoSefaz   string
	CreatedAt     time.Time
}
