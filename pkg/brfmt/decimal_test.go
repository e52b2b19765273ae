package brfmt_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/fluxo7arena/fiscal-api/pkg/brfmt"
)

func TestOnlyDigits(t *testing.T) {
	assert.Equal(t, "12345678000190", brfmt.OnlyDigits("12.345.678/0001-90"))
	assert.Equal(t, "", brfmt.OnlyDigits("sem números"))
	assert.Equal(t, "", brfmt.OnlyDigits(""))
}

func TestParseDecimalBR(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.234,56", "1234.56"},
		{"1234,56", "1234.56"},
		{"1234.56", "1234.56"},
		{"15", "15"},
		{"", "0"},
		{"   ", "0"},
		{"abc", "0"},
		{"12,3,4", "0"}, // máscara quebrada vira zero, nunca panic
	}
	for _, c := range cases {
		got := brfmt.ParseDecimalBR(c.in)
		assert.Equal(t, c.want, got.String(), "entrada %q", c.in)
	}
}

func TestFixed2EFixed4(t *testing.T) {
	assert.Equal(t, "30.00", brfmt.Fixed2(decimal.NewFromInt(30)))
	assert.Equal(t, "0.00", brfmt.Fixed2(decimal.Zero))
	assert.Equal(t, "0.0165", brfmt.Fixed4(decimal.RequireFromString("0.0165")))
	assert.Equal(t, "0.0000", brfmt.Fixed4(decimal.Zero))
}
