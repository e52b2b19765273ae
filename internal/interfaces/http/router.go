package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fluxo7arena/fiscal-api/internal/application/auth"
	"github.com/fluxo7arena/fiscal-api/internal/application/fiscal"
	"github.com/fluxo7arena/fiscal-api/internal/domain/entity"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	MapperUC      *fiscal.MapperUseCase
	EmitirUC      *fiscal.EmitirUseCase
	ManualUC      *fiscal.ManualUseCase
	GatewayUC     *fiscal.GatewayUseCase
	ExportUC      *fiscal.ExportUseCase
	WebhookUC     *fiscal.WebhookUseCase
	JWTSecret     string
	WebhookSecret string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	// Webhook do provedor (público; protegido por segredo compartilhado)
	webhookHandler := NewWebhookHandler(deps.WebhookUC, deps.WebhookSecret)
	app.Post("/webhooks/fiscal", webhookHandler.Receber)

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rotas protegidas (exigem Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Fluxo fiscal por comanda (protegido)
	fiscalGroup := protected.Group("/fiscal")
	fiscalHandler := NewFiscalHandler(deps.MapperUC, deps.EmitirUC, deps.ManualUC)
	fiscalGroup.Get("/comandas/:id/previa", fiscalHandler.Previa)
	fiscalGroup.Post("/comandas/:id/emitir", fiscalHandler.Emitir)
	fiscalGroup.Post("/manual/nfce", fiscalHandler.EmitirNfceManual)
	fiscalGroup.Post("/manual/nfe", fiscalHandler.EmitirNfeManual)

	// Gateway genérico do emissor (protegido; ações de cadastro, certificado
	// e cancelamento são de administrador, então a rota inteira exige admin)
	gatewayHandler := NewGatewayHandler(deps.GatewayUC, deps.ExportUC)
	fiscalGroup.Post("/emissor", RequireRole(entity.RoleAdmin), gatewayHandler.Executar)
	fiscalGroup.Post("/emissor/export", RequireRole(entity.RoleAdmin), gatewayHandler.Exportar)
}
