package fiscal

import (
	"context"
	"encoding/json"

	"github.com/fluxo7arena/fiscal-api/internal/application/dto"
	domfiscal "github.com/fluxo7arena/fiscal-api/internal/domain/fiscal"
	"github.com/fluxo7arena/fiscal-api/internal/domain/repository"
	"github.com/fluxo7arena/fiscal-api/internal/infrastructure/emissor"
)

// EmitirUseCase emite a NFC-e de uma comanda: monta a prévia, barra emissões
// com pendências cadastrais (a menos que force) e despacha via gateway. O
// status final da comanda é responsabilidade do webhook; aqui ela só marca
// processando.
type EmitirUseCase struct {
	mapper      *MapperUseCase
	gateway     *GatewayUseCase
	comandaRepo repository.ComandaRepository
}

// NewEmitirUseCase constrói o caso de uso de emissão por comanda.
func NewEmitirUseCase(mapper *MapperUseCase, gateway *GatewayUseCase, comandaRepo repository.ComandaRepository) *EmitirUseCase {
	return &EmitirUseCase{mapper: mapper, gateway: gateway, comandaRepo: comandaRepo}
}

// Emitir executa o fluxo completo. Erros de carga (comanda inexistente)
// voltam como error; o resto sai como Resultado pronto para o handler.
func (uc *EmitirUseCase) Emitir(ctx context.Context, codigoEmpresa, comandaID string, req *dto.EmitirComandaRequest) (Resultado, error) {
	previa, empresa, comanda, err := uc.mapper.gerar(ctx, codigoEmpresa, comandaID)
	if err != nil {
		return Resultado{}, err
	}

	if len(previa.Faltantes) > 0 && !req.Force {
		return Resultado{
			Status: 422,
			Body: map[string]any{
				"message":   "cadastro fiscal incompleto",
				"faltantes": previa.Faltantes,
			},
		}, nil
	}

	ambiente := req.Ambiente
	if ambiente == "" {
		ambiente = empresa.Ambiente
	}

	dadosJSON, err := json.Marshal(previa.Dados)
	if err != nil {
		return Resultado{}, err
	}
	r := uc.gateway.Executar(ctx, codigoEmpresa, &dto.GatewayRequest{
		Acao:     emissor.AcaoNfceEnviar,
		Ambiente: ambiente,
		Cnpj:     previa.Cnpj,
		Dados:    dadosJSON,
	})

	if emissaoAceita(r) {
		// Patch de melhor esforço: se falhar, o webhook reconcilia depois.
		patch := map[string]string{"nf_status": domfiscal.StatusProcessando}
		if body, ok := r.Body.(map[string]any); ok {
			if chave := primeiroTexto(body, "chave", "Chave", "xml_chave"); chave != "" {
				patch["xml_chave"] = chave
			}
			if numero := primeiroTexto(body, "numero", "Numero", "nf_numero"); numero != "" {
				patch["nf_numero"] = numero
			}
			if serie := primeiroTexto(body, "serie", "Serie", "nf_serie"); serie != "" {
				patch["nf_serie"] = serie
			}
		}
		_ = uc.comandaRepo.PatchFiscal(ctx, comanda.ID, patch)
	}
	return r, nil
}

// emissaoAceita separa resposta de sucesso do provedor das formas de erro
// que o gateway devolve com status 200.
func emissaoAceita(r Resultado) bool {
	if r.Status != 200 {
		return false
	}
	if _, ok := r.Body.(dto.GatewayResponse); ok {
		return false
	}
	if m, ok := r.Body.(map[string]any); ok {
		if _, tem := m["message"]; tem && len(m) == 1 {
			return false
		}
	}
	return true
}

func primeiroTexto(m map[string]any, chaves ...string) string {
	for _, k := range chaves {
		if v, ok := m[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
