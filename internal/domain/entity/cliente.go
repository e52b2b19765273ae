package entity

import "time"

// Cliente é o destinatário opcional de uma NFC-e. Quando ausente, o documento
// sai para consumidor final não identificado (sem bloco de destinatário).
type Cliente struct {
	ID                  string
	CodigoEmpresa       string
	Nome                string
	CpfCnpj             string
	InscricaoEstadual   string
	Email               string
	Telefone            string
	Logradouro          string
	Numero              string
	Complemento         string
	Bairro              string
	Cidade              string
	UF                  string
	CEP                 string
	CodigoMunicipioIBGE string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
