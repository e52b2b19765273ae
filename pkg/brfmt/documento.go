package brfmt

// Pesos do dígito verificador do CNPJ (módulo 11), aplicados da esquerda
// para a direita sobre os 12 primeiros dígitos (primeiro DV) e sobre os 13
// (segundo DV).
var cnpjWeights = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

// ValidarCNPJ verifica os dois dígitos verificadores de um CNPJ. Aceita o
// documento com ou sem máscara; sequências com todos os dígitos iguais são
// rejeitadas.
func ValidarCNPJ(cnpj string) bool {
	d := OnlyDigits(cnpj)
	if len(d) != 14 || todosIguais(d) {
		return false
	}
	if dvMod11(d[:12], cnpjWeights[1:]) != int(d[12]-'0') {
		return false
	}
	return dvMod11(d[:13], cnpjWeights[:]) == int(d[13]-'0')
}

// ValidarCPF verifica os dois dígitos verificadores de um CPF. Aceita o
// documento com ou sem máscara; sequências com todos os dígitos iguais são
// rejeitadas.
func ValidarCPF(cpf string) bool {
	d := OnlyDigits(cpf)
	if len(d) != 11 || todosIguais(d) {
		return false
	}
	var soma int
	for i := 0; i < 9; i++ {
		soma += int(d[i]-'0') * (10 - i)
	}
	if dvDoResto(soma%11) != int(d[9]-'0') {
		return false
	}
	soma = 0
	for i := 0; i < 10; i++ {
		soma += int(d[i]-'0') * (11 - i)
	}
	return dvDoResto(soma%11) == int(d[10]-'0')
}

// dvMod11 calcula um dígito verificador módulo 11 sobre base, usando os
// últimos len(base) pesos de weights.
func dvMod11(base string, weights []int) int {
	var soma int
	for i := 0; i < len(base); i++ {
		soma += int(base[i]-'0') * weights[len(weights)-len(base)+i]
	}
	resto := soma % 11
	if resto < 2 {
		return 0
	}
	return 11 - resto
}

func dvDoResto(resto int) int {
	if resto < 2 {
		return 0
	}
	return 11 - resto
}

func todosIguais(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
