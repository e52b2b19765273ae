package http

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/fluxo7arena/fiscal-api/internal/application/dto"
	"github.com/fluxo7arena/fiscal-api/internal/application/fiscal"
	"github.com/fluxo7arena/fiscal-api/internal/domain"
	"github.com/fluxo7arena/fiscal-api/internal/infrastructure/emissor"
)

// GatewayHandler expõe o gateway fiscal genérico: proxy de ações para o
// provedor e a exportação de ZIP.
type GatewayHandler struct {
	gatewayUC *fiscal.GatewayUseCase
	exportUC  *fiscal.ExportUseCase
}

// NewGatewayHandler constrói o handler do gateway.
func NewGatewayHandler(gatewayUC *fiscal.GatewayUseCase, exportUC *fiscal.ExportUseCase) *GatewayHandler {
	return &GatewayHandler{gatewayUC: gatewayUC, exportUC: exportUC}
}

// Executar godoc
// @Summary      Despachar ação fiscal
// @Description  Proxy para o provedor fiscal. A ApiKey é injetada no servidor.
//               export_zip devolve application/zip em vez de JSON.
// @Tags         fiscal
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GatewayRequest  true  "acao, ambiente, cnpj, dados"
// @Success      200   {object}  dto.GatewayResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/fiscal/emissor [post]
func (h *GatewayHandler) Executar(c *fiber.Ctx) error {
	var in dto.GatewayRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}

	if in.Acao == emissor.AcaoExportZip {
		return h.exportar(c, &in)
	}

	r := h.gatewayUC.Executar(c.Context(), GetCodigoEmpresa(c), &in)
	return c.Status(r.Status).JSON(r.Body)
}

// Exportar godoc
// @Summary      Exportar XML/PDF em ZIP
// @Description  Rota dedicada da exportação; equivale a acao=export_zip no
//               gateway genérico.
// @Tags         fiscal
// @Accept       json
// @Produce      application/zip
// @Param        body  body  dto.GatewayRequest  true  "ambiente, cnpj, dados{incluir_pdf, itens}"
// @Success      200  {file}  binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/fiscal/emissor/export [post]
func (h *GatewayHandler) Exportar(c *fiber.Ctx) error {
	var in dto.GatewayRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corpo inválido"})
	}
	return h.exportar(c, &in)
}

// exportar interpreta dados como ExportRequest e responde o ZIP binário.
func (h *GatewayHandler) exportar(c *fiber.Ctx, in *dto.GatewayRequest) error {
	var req dto.ExportRequest
	if len(in.Dados) > 0 {
		if err := json.Unmarshal(in.Dados, &req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "dados de exportação inválidos"})
		}
	}

	r, err := h.exportUC.Exportar(c.Context(), GetCodigoEmpresa(c), in.Ambiente, in.Cnpj, &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	c.Set(fiber.HeaderContentType, "application/zip")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+r.Nome+`"`)
	return c.Status(fiber.StatusOK).Send(r.Zip)
}
