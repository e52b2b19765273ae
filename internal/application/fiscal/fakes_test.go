package fiscal_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
	"github.com/fluxo7arena/fiscal-api/internal/infrastructure/emissor"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de repositório (em memória)
// ──────────────────────────────────────────────────────────────────────────────

type fakeEmpresaRepo struct {
	porCodigo map[string]*entity.Empresa
	porCNPJ   map[string]*entity.Empresa
}

func (f *fakeEmpresaRepo) GetByCodigoEmpresa(_ context.Context, codigo string) (*entity.Empresa, error) {
	return f.porCodigo[codigo], nil
}

func (f *fakeEmpresaRepo) GetByCNPJ(_ context.Context, cnpj string) (*entity.Empresa, error) {
	return f.porCNPJ[cnpj], nil
}

type fakeComandaRepo struct {
	comandas   map[string]*entity.Comanda
	itens      map[string][]*entity.ComandaItem
	pagamentos map[string][]*entity.Pagamento
	associado  *entity.Cliente
	porChave   map[string]*entity.Comanda

	patches []map[string]string // patches aplicados, na ordem
	patchID []string
}

func (f *fakeComandaRepo) GetByID(_ context.Context, id string) (*entity.Comanda, error) {
	return f.comandas[id], nil
}

func (f *fakeComandaRepo) ListItens(_ context.Context, comandaID string) ([]*entity.ComandaItem, error) {
	return f.itens[comandaID], nil
}

func (f *fakeComandaRepo) ListPagamentos(_ context.Context, comandaID string) ([]*entity.Pagamento, error) {
	return f.pagamentos[comandaID], nil
}

func (f *fakeComandaRepo) GetPrimeiroClienteAssociado(_ context.Context, _ string) (*entity.Cliente, error) {
	return f.associado, nil
}

func (f *fakeComandaRepo) GetMaisRecentePorChave(_ context.Context, _, chave string) (*entity.Comanda, error) {
	return f.porChave[chave], nil
}

func (f *fakeComandaRepo) GetMaisRecentePorNumeroSerie(_ context.Context, _, numero, serie string) (*entity.Comanda, error) {
	return f.porChave[numero+"/"+serie], nil
}

func (f *fakeComandaRepo) PatchFiscal(_ context.Context, id string, campos map[string]string) error {
	f.patchID = append(f.patchID, id)
	f.patches = append(f.patches, campos)
	return nil
}

type fakeClienteRepo struct {
	clientes map[string]*entity.Cliente
}

func (f *fakeClienteRepo) GetByID(_ context.Context, id string) (*entity.Cliente, error) {
	return f.clientes[id], nil
}

func (f *fakeClienteRepo) GetByCpfCnpj(_ context.Context, _, _ string) (*entity.Cliente, error) {
	return nil, nil
}

func (f *fakeClienteRepo) Create(_ context.Context, _ *entity.Cliente) error { return nil }

type fakeProdutoRepo struct {
	produtos map[string]*entity.Produto
}

func (f *fakeProdutoRepo) GetByID(_ context.Context, id string) (*entity.Produto, error) {
	return f.produtos[id], nil
}

func (f *fakeProdutoRepo) GetByIDs(_ context.Context, ids []string) (map[string]*entity.Produto, error) {
	out := map[string]*entity.Produto{}
	for _, id := range ids {
		if p, ok := f.produtos[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

type fakeFinalizadoraRepo struct {
	finalizadoras []*entity.Finalizadora
}

func (f *fakeFinalizadoraRepo) GetByIDs(_ context.Context, _ []string) ([]*entity.Finalizadora, error) {
	return f.finalizadoras, nil
}

type fakeAuditoriaRepo struct {
	registros []*entity.AuditoriaFiscal
}

func (f *fakeAuditoriaRepo) Create(_ context.Context, a *entity.AuditoriaFiscal) error {
	f.registros = append(f.registros, a)
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fake do cliente do provedor
// ──────────────────────────────────────────────────────────────────────────────

// fakeEmissor responde por rota: respostas em porRota, erros em errosPorRota,
// downloads em arquivos. Registra cada Post para inspeção.
type fakeEmissor struct {
	porRota      map[string]*emissor.Resposta
	errosPorRota map[string]error
	arquivos     map[string][]byte
	conexao      emissor.ResultadoConexao

	chamadas []string // rotas na ordem de chamada
	enviados []any    // dados na ordem de chamada
}

func (f *fakeEmissor) Post(_ context.Context, _, _, _, path string, dados any) (*emissor.Resposta, error) {
	f.chamadas = append(f.chamadas, path)
	f.enviados = append(f.enviados, dados)
	if err, ok := f.errosPorRota[path]; ok {
		return nil, err
	}
	if r, ok := f.porRota[path]; ok {
		return r, nil
	}
	return nil, errors.New("rota não esperada: " + path)
}

func (f *fakeEmissor) Download(_ context.Context, url string) ([]byte, error) {
	if b, ok := f.arquivos[url]; ok {
		return b, nil
	}
	return nil, errors.New("download falhou: " + url)
}

func (f *fakeEmissor) TestarConexao(_ context.Context, _, _, _ string) emissor.ResultadoConexao {
	return f.conexao
}

// ──────────────────────────────────────────────────────────────────────────────
// Construtores de cenário
// ──────────────────────────────────────────────────────────────────────────────

func empresaCompleta() *entity.Empresa {
	return &entity.Empresa{
		ID:                  "emp-1",
		CodigoEmpresa:       "1042",
		RazaoSocial:         "Arena Esportes Ltda",
		CNPJ:                "12.345.678/0001-90",
		InscricaoEstadual:   "1234567",
		RegimeTributario:    "1",
		Cidade:              "Goiânia",
		UF:                  "GO",
		CodigoMunicipioIBGE: "5208707",
		Ambiente:            entity.AmbienteHomologacao,
		NfceSerie:           "1",
		NfceIToken:          "ABC123",
	}
}

func comandaFechada(id string) *entity.Comanda {
	fechado := time.Date(2026, 3, 14, 21, 30, 0, 0, time.Local)
	return &entity.Comanda{
		ID:            id,
		CodigoEmpresa: "1042",
		Status:        entity.ComandaFechada,
		FechadoEm:     &fechado,
	}
}

func produtoCompleto(id string) *entity.Produto {
	return &entity.Produto{
		ID:           id,
		Codigo:       "P-" + id,
		Nome:         "Água Mineral 500ml",
		Unidade:      "UN",
		NCM:          "2201.10.00",
		CfopInterno:  "5102",
		CsosnInterno: "102",
		IcmsOrigem:   0,
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func itemDeComanda(comandaID, produtoID string, qtd, preco, desconto string) *entity.ComandaItem {
	return &entity.ComandaItem{
		ID:            "item-" + produtoID,
		ComandaID:     comandaID,
		ProdutoID:     produtoID,
		Quantidade:    decimal.RequireFromString(qtd),
		PrecoUnitario: decimal.RequireFromString(preco),
		Desconto:      decimal.RequireFromString(desconto),
	}
}
