package fiscal

import "strings"

// Estados normalizados do documento fiscal. A transição é unidirecional a
// partir de processando; autorizada, rejeitada e cancelada são terminais do
// ponto de vista do webhook (não modelamos reautorização).
const (
	StatusProcessando = "processando"
	StatusAutorizada  = "autorizada"
	StatusRejeitada   = "rejeitada"
	StatusCancelada   = "cancelada"
)

// Vocabulário conhecido do provedor, por status normalizado. A comparação é
// case-insensitive; strings fora do vocabulário passam adiante sem alteração
// para manter compatibilidade com status ainda não vistos.
var statusAliases = map[string][]string{
	StatusAutorizada:  {"autorizada", "autorizado", "sucesso", "aprovada", "authorized"},
	StatusRejeitada:   {"rejeitada", "erro", "failed", "denied"},
	StatusCancelada:   {"cancelada", "canceled"},
	StatusProcessando: {"processando", "pendente", "processing", "enviado"},
}

// NormalizeStatus converte o status livre do provedor para o vocabulário
// interno. Vazio vira processando; desconhecido passa inalterado (minúsculo).
func NormalizeStatus(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return StatusProcessando
	}
	for normalizado, aliases := range statusAliases {
		for _, a := range aliases {
			if lower == a {
				return normalizado
			}
		}
	}
	return lower
}
