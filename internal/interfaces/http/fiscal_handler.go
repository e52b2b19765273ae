package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fluxo7arena/fiscal-api/internal/application/dto"
	"github.com/fluxo7arena/fiscal-api/internal/application/fiscal"
	"github.com/fluxo7arena/fiscal-api/internal/domain"
)

// FiscalHandler trata o fluxo fiscal por comanda (prévia e emissão) e as
// emissões manuais.
type FiscalHandler struct {
	mapperUC *fiscal.MapperUseCase
	emitirUC *fiscal.EmitirUseCase
	manualUC *fiscal.ManualUseCase
}

// NewFiscalHandler constrói o handler fiscal.
func NewFiscalHandler(mapperUC *fiscal.MapperUseCase, emitirUC *fiscal.EmitirUseCase, manualUC *fiscal.ManualUseCase) *FiscalHandler {
	return &FiscalHandler{mapperUC: mapperUC, emitirUC: emitirUC, manualUC: manualUC}
}

// Previa monta o payload NFC-e da comanda sem enviar nada ao provedor.
// GET /api/fiscal/comandas/:id/previa
func (h *FiscalHandler) Previa(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id da comanda obrigatório"})
	}
	previa, err := h.mapperUC.GerarPrevia(c.Context(), GetCodigoEmpresa(c), id)
	if err != nil {
		return erroFiscal(c, err)
	}
	return c.JSON(previa)
}

// Emitir gera e envia a NFC-e da comanda. Pendências cadastrais bloqueiam a
// emissão, a menos que force seja verdadeiro.
// POST /api/fiscal/comandas/:id/emitir
func (h *FiscalHandler) Emitir(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id da comanda obrigatório"})
	}
	var in dto.EmitirComandaRequest
	if err := c.BodyParser(&in); err != nil && len(c.Body()) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	r, err := h.emitirUC.Emitir(c.Context(), GetCodigoEmpresa(c), id, &in)
	if err != nil {
		return erroFiscal(c, err)
	}
	return c.Status(r.Status).JSON(r.Body)
}

// EmitirNfceManual emite uma NFC-e avulsa a partir do formulário manual.
// POST /api/fiscal/manual/nfce
func (h *FiscalHandler) EmitirNfceManual(c *fiber.Ctx) error {
	var in dto.NfceManualRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if len(in.Itens) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pelo menos um item é obrigatório"})
	}
	r, err := h.manualUC.EmitirNfce(c.Context(), GetCodigoEmpresa(c), &in)
	if err != nil {
		return erroFiscal(c, err)
	}
	return c.Status(r.Status).JSON(r.Body)
}

// EmitirNfeManual emite uma NF-e avulsa (modelo 55, destinatário obrigatório).
// POST /api/fiscal/manual/nfe
func (h *FiscalHandler) EmitirNfeManual(c *fiber.Ctx) error {
	var in dto.NfeManualRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	if len(in.Itens) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "pelo menos um item é obrigatório"})
	}
	r, err := h.manualUC.EmitirNfe(c.Context(), GetCodigoEmpresa(c), &in)
	if err != nil {
		return erroFiscal(c, err)
	}
	return c.Status(r.Status).JSON(r.Body)
}

// erroFiscal mapeia erros de domínio para respostas HTTP.
func erroFiscal(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "comanda ou empresa não encontrada"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrCadastroIncompleto):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "CADASTRO_INCOMPLETO", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
