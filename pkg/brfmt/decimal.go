package brfmt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var nonDigit = regexp.MustCompile(`[^0-9]`)

// OnlyDigits remove tudo que não for dígito (útil para CNPJ, CPF, CEP, NCM).
func OnlyDigits(v string) string {
	return nonDigit.ReplaceAllString(v, "")
}

// ParseDecimalBR converte um valor monetário no formato brasileiro ("1.234,56")
// ou americano ("1234.56") para decimal. Entradas vazias ou inválidas viram
// zero — nunca erro, porque os formulários legados mandam de tudo.
func ParseDecimalBR(v string) decimal.Decimal {
	s := strings.TrimSpace(v)
	if s == "" {
		return decimal.Zero
	}
	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		// máscara BR completa: 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	} else if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Fixed2 formata um valor monetário com exatamente 2 casas decimais ("30.00").
// O provedor fiscal exige string de ponto fixo, nunca número cru.
func Fixed2(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Fixed4 formata alíquotas com 4 casas decimais ("0.0165").
func Fixed4(d decimal.Decimal) string {
	return d.StringFixed(4)
}
