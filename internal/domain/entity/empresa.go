package entity

import "time"

// Ambientes do provedor fiscal.
const (
	AmbienteHomologacao = "homologacao"
	AmbienteProducao    = "producao"
)

// Empresa representa o emitente/tenant do sistema. Existe exatamente uma por
// codigo_empresa; os campos fiscais precisam estar completos antes de uma
// emissão ser considerada válida (ver checklist do mapper).
type Empresa struct {
	ID                 string
	CodigoEmpresa      string // chave de tenant usada em todas as tabelas
	RazaoSocial        string
	NomeFantasia       string
	CNPJ               string
	InscricaoEstadual  string
	RegimeTributario   string // CRT: 1 = Simples Nacional, 3 = Regime Normal
	Logradouro         string
	Numero             string
	Bairro             string
	Cidade             string
	UF                 string
	CEP                string
	CodigoMunicipioIBGE string
	Ambiente           string // homologacao | producao
	NfceSerie          string
	NfceProximoNumero  int
	NfceIToken         string // CSC/IToken NFC-e (obrigatório em produção)
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
