package fiscal

import (
	"github.com/shopspring/decimal"

	"github.com/fluxo7arena/fiscal-api/pkg/brfmt"
)

// DistribuirDescontoGlobal rateia um desconto de comanda entre os itens,
// proporcionalmente ao valor_total de cada um. Os rateios são arredondados a
// duas casas e a diferença residual de arredondamento é absorvida pelo
// último item, de modo que a soma dos descontos feche exatamente com o
// desconto informado. Totais nunca ficam negativos.
func DistribuirDescontoGlobal(itens []ItemNfce, descontoGeral decimal.Decimal) []ItemNfce {
	if len(itens) == 0 || !descontoGeral.IsPositive() {
		return itens
	}
	totais := make([]decimal.Decimal, len(itens))
	base := decimal.Zero
	for i, it := range itens {
		totais[i] = brfmt.ParseDecimalBR(it.ValorTotal)
		base = base.Add(totais[i])
	}
	if !base.IsPositive() {
		return itens
	}

	rateios := make([]decimal.Decimal, len(itens))
	soma := decimal.Zero
	for i, t := range totais {
		rateios[i] = descontoGeral.Mul(t).Div(base).Round(2)
		soma = soma.Add(rateios[i])
	}
	if diff := descontoGeral.Sub(soma); !diff.IsZero() {
		ultimo := len(itens) - 1
		rateios[ultimo] = rateios[ultimo].Add(diff).Round(2)
	}

	out := make([]ItemNfce, len(itens))
	for i, it := range itens {
		desc := brfmt.ParseDecimalBR(it.ValorDesconto).Add(rateios[i])
		if desc.IsNegative() {
			desc = decimal.Zero
		}
		total := totais[i].Sub(rateios[i])
		if total.IsNegative() {
			total = decimal.Zero
		}
		if desc.IsPositive() {
			it.ValorDesconto = brfmt.Fixed2(desc)
		} else {
			it.ValorDesconto = ""
		}
		it.ValorTotal = brfmt.Fixed2(total)
		out[i] = it
	}
	return out
}
