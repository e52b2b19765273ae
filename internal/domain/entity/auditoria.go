package entity

import "time"

// Resultados possíveis de um registro de auditoria.
const (
	AuditoriaSuccess = "success"
	AuditoriaError   = "error"
)

// AuditoriaFiscal é o registro append-only de cada interação com o gateway
// fiscal ou o webhook: nunca é alterado nem apagado por este código. Request
// e Response guardam o corpo bruto em JSON para rastreabilidade.
type AuditoriaFiscal struct {
	ID            string
	CodigoEmpresa string // "unknown" quando o tenant não pôde ser resolvido
	Acao          string // nfce_enviar, webhook, export_zip...
	Modelo        string // "65" NFC-e, "55" NF-e
	ComandaID     string
	Status        string // success | error
	Mensagem      string
	Request       []byte // JSON bruto
	Response      []byte // JSON bruto
	CreatedAt     time.Time
}
