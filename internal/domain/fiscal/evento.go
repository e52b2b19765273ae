package fiscal

// EventoWebhook é o registro canônico de um callback do provedor fiscal.
// O provedor varia a caixa dos campos entre versões (cnpj/CNPJ, status/
// Status/situacao...); a normalização acontece uma única vez na borda HTTP
// e o restante do handler só enxerga este struct.
type EventoWebhook struct {
	CNPJ      string
	Status    string // já normalizado via NormalizeStatus
	Chave     string
	Numero    string
	Serie     string
	PdfURL    string
	XmlURL    string
	Protocolo string
	ComandaID string
}

// CamposPatch devolve o subconjunto de campos fiscais presentes no evento,
// pronto para aplicar na comanda. Campos ausentes não entram no mapa, então
// reaplicar o mesmo evento produz o mesmo estado (idempotente).
func (e EventoWebhook) CamposPatch() map[string]string {
	patch := map[string]string{"nf_status": e.Status}
	if e.PdfURL != "" {
		patch["nf_pdf_url"] = e.PdfURL
	}
	if e.XmlURL != "" {
		patch["nf_xml_url"] = e.XmlURL
	}
	if e.Chave != "" {
		patch["xml_chave"] = e.Chave
	}
	if e.Numero != "" {
		patch["nf_numero"] = e.Numero
	}
	if e.Serie != "" {
		patch["nf_serie"] = e.Serie
	}
	if e.Protocolo != "" {
		patch["xml_protocolo"] = e.Protocolo
	}
	return patch
}
