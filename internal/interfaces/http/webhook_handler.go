package http

import (
	"crypto/subtle"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/fluxo7arena/fiscal-api/internal/application/dto"
	"github.com/fluxo7arena/fiscal-api/internal/application/fiscal"
)

// WebhookHandler recebe os callbacks do provedor fiscal. A rota é pública
// (o provedor não autentica via JWT); a proteção é o segredo compartilhado
// no header x-webhook-secret, validado antes de qualquer acesso ao banco.
type WebhookHandler struct {
	uc     *fiscal.WebhookUseCase
	secret string // vazio = validação desligada
}

// NewWebhookHandler constrói o handler do webhook.
func NewWebhookHandler(uc *fiscal.WebhookUseCase, secret string) *WebhookHandler {
	return &WebhookHandler{uc: uc, secret: secret}
}

// Receber processa um callback. Respondemos 200 até quando a comanda não é
// localizada: devolver erro faria o provedor reenviar para sempre.
// POST /webhooks/fiscal
func (h *WebhookHandler) Receber(c *fiber.Ctx) error {
	if h.secret != "" {
		got := c.Get("x-webhook-secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "segredo do webhook inválido"})
		}
	}

	// Corpo cru vai para a auditoria; corpo ilegível vira evento vazio em
	// vez de erro, espelhando a tolerância do provedor.
	raw := c.Body()
	var payload dto.WebhookPayload
	_ = json.Unmarshal(raw, &payload)

	evento := fiscal.NormalizarEvento(&payload)
	resp, err := h.uc.Processar(c.Context(), evento, raw)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(resp)
}
