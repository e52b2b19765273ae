// importar_clientes importa clientes legados de um CSV (separado por ';')
// para a tabela clientes do tenant indicado.
//
// Uso: go run ./cmd/importar_clientes -file pessoas.csv -empresa 1006 [-dry-run]
//
// O CSV segue o layout do sistema antigo (CODIGO;RAZAO;FANTASIA;CNPJ;...).
// Valida CPF/CNPJ por tamanho, deduplica por documento dentro do tenant e em
// dry-run apenas mostra o que seria inserido.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	"github.com/fluxo7arena/fiscal-api/internal/infrastructure/postgres"
	"github.com/fluxo7arena/fiscal-api/pkg/brfmt"
	"github.com/fluxo7arena/fiscal-api/pkg/config"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func main() {
	file := flag.String("file", "pessoas.csv", "arquivo CSV de entrada")
	empresa := flag.String("empresa", "", "código da empresa (tenant) de destino")
	dryRun := flag.Bool("dry-run", false, "processa e mostra sem inserir no banco")
	flag.Parse()

	if *empresa == "" {
		fmt.Fprintln(os.Stderr, "uso: importar_clientes -file pessoas.csv -empresa 1006 [-dry-run]")
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1 // linhas do legado variam de largura

	registros, err := r.ReadAll()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ler CSV: %v\n", err)
		os.Exit(1)
	}
	if len(registros) < 2 {
		fmt.Fprintln(os.Stderr, "CSV sem linhas de dados")
		os.Exit(1)
	}

	// Cabeçalhos do legado chegam com acento e caixa inconsistentes
	// (MUNICÍPIO, municipio, Municipio); canonizamos para comparar.
	cabecalho := make([]string, len(registros[0]))
	for i, h := range registros[0] {
		cabecalho[i] = semAcentos(strings.ToUpper(strings.TrimSpace(h)))
	}

	var clientes []*entity.Cliente
	for i, linha := range registros[1:] {
		row := map[string]string{}
		for j, v := range linha {
			if j < len(cabecalho) {
				row[cabecalho[j]] = strings.TrimSpace(v)
			}
		}
		c := converterLinha(row, *empresa)
		if c == nil {
			fmt.Printf("  - linha %d: nome vazio, pulando\n", i+2)
			continue
		}
		clientes = append(clientes, c)
		fmt.Printf("  + %-40.40s | doc %s\n", c.Nome, c.CpfCnpj)
	}

	fmt.Printf("\nprocessados %d/%d registros\n", len(clientes), len(registros)-1)

	if *dryRun {
		fmt.Println("dry-run: nada foi inserido")
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "carregar configuração: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conectar ao PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	repo := postgres.NewClienteRepository(pool)

	inseridos, duplicados, erros := 0, 0, 0
	for _, c := range clientes {
		if c.CpfCnpj != "" {
			if existente, err := repo.GetByCpfCnpj(ctx, *empresa, c.CpfCnpj); err == nil && existente != nil {
				duplicados++
				fmt.Printf("  = %-40.40s já existe (doc %s)\n", c.Nome, c.CpfCnpj)
				continue
			}
		}
		if err := repo.Create(ctx, c); err != nil {
			erros++
			fmt.Printf("  x %-40.40s ERRO: %v\n", c.Nome, err)
			continue
		}
		inseridos++
	}

	fmt.Printf("\nconcluído: %d inseridos, %d duplicados, %d erros\n", inseridos, duplicados, erros)
	if erros > 0 {
		os.Exit(1)
	}
}

// converterLinha monta o cliente a partir de uma linha do CSV legado.
// Devolve nil quando não há nome utilizável.
func converterLinha(row map[string]string, codigoEmpresa string) *entity.Cliente {
	nome := row["FANTASIA"]
	if nome == "" {
		nome = row["RAZAO"]
	}
	if nome == "" {
		return nil
	}

	now := time.Now()
	return &entity.Cliente{
		ID:                  uuid.New().String(),
		CodigoEmpresa:       codigoEmpresa,
		Nome:                nome,
		CpfCnpj:             documentoValido(row["CNPJ"]),
		InscricaoEstadual:   row["IE"],
		Email:               emailValido(row["EMAIL1"]),
		Telefone:            telefoneValido(primeiro(row["FONE1"], row["CELULAR1"], row["WHATSAPP"])),
		Logradouro:          row["ENDERECO"],
		Numero:              row["NUMERO"],
		Complemento:         row["COMPLEMENTO"],
		Bairro:              row["BAIRRO"],
		Cidade:              row["MUNICIPIO"],
		UF:                  strings.ToUpper(row["UF"]),
		CEP:                 cepValido(row["CEP"]),
		CodigoMunicipioIBGE: brfmt.OnlyDigits(row["CODMUN"]),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

// documentoValido aceita CPF (11 dígitos) ou CNPJ (14 dígitos) com dígito
// verificador correto. Qualquer outra coisa vira documento vazio.
func documentoValido(s string) string {
	d := brfmt.OnlyDigits(s)
	switch len(d) {
	case 11:
		if brfmt.ValidarCPF(d) {
			return d
		}
	case 14:
		if brfmt.ValidarCNPJ(d) {
			return d
		}
	}
	return ""
}

func emailValido(s string) string {
	if emailRe.MatchString(s) {
		return s
	}
	return ""
}

func telefoneValido(s string) string {
	d := brfmt.OnlyDigits(s)
	if len(d) >= 10 {
		return d
	}
	return ""
}

func cepValido(s string) string {
	d := brfmt.OnlyDigits(s)
	if len(d) == 8 {
		return d
	}
	return ""
}

// semAcentos remove diacríticos (NFD + descarte de marcas combinantes).
func semAcentos(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func primeiro(valores ...string) string {
	for _, v := range valores {
		if v != "" {
			return v
		}
	}
	return ""
}
