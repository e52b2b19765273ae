package fiscal

import "strings"

// TipoDocumento é a enumeração fechada de famílias de documento tratadas pelo
// exportador. A classificação acontece UMA vez, na borda onde o descritor é
// construído; o resto do código só compara o enum.
type TipoDocumento int

const (
	TipoNFe TipoDocumento = iota
	TipoNFCe
	TipoEntrada
)

// String devolve o sufixo usado nos nomes de arquivo do export.
func (t TipoDocumento) String() string {
	switch t {
	case TipoNFCe:
		return "nfce"
	case TipoEntrada:
		return "entrada"
	default:
		return "nfe"
	}
}

// ClassificarTipo decide a família do documento a partir do campo livre de
// tipo/modelo vindo do front: "65" ou "nfce" → NFC-e, "entrada" → entrada,
// qualquer outra coisa → NF-e.
func ClassificarTipo(tipoOuModelo string) TipoDocumento {
	s := strings.ToLower(tipoOuModelo)
	switch {
	case strings.Contains(s, "65"):
		return TipoNFCe
	case strings.Contains(s, "entrada"):
		return TipoEntrada
	case strings.Contains(s, "nfce"):
		return TipoNFCe
	default:
		return TipoNFe
	}
}

// Modelo devolve o código de modelo SEFAZ ("65" NFC-e, "55" NF-e).
func (t TipoDocumento) Modelo() string {
	if t == TipoNFCe {
		return "65"
	}
	return "55"
}
