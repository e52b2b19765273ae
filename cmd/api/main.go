package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/fluxo7arena/fiscal-api/internal/application/auth"
	"github.com/fluxo7arena/fiscal-api/internal/application/fiscal"
	"github.com/fluxo7arena/fiscal-api/internal/infrastructure/emissor"
	"github.com/fluxo7arena/fiscal-api/internal/infrastructure/postgres"
	httpRouter "github.com/fluxo7arena/fiscal-api/internal/interfaces/http"
	"github.com/fluxo7arena/fiscal-api/pkg/config"
	"github.com/fluxo7arena/fiscal-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicação")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão ao PostgreSQL")
	}
	defer pool.Close()

	empresaRepo := postgres.NewEmpresaRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	comandaRepo := postgres.NewComandaRepository(pool)
	clienteRepo := postgres.NewClienteRepository(pool)
	produtoRepo := postgres.NewProdutoRepository(pool)
	finalizadoraRepo := postgres.NewFinalizadoraRepository(pool)
	auditoriaRepo := postgres.NewAuditoriaRepository(pool)

	emissorClient := emissor.NewClient()

	mapperUC := fiscal.NewMapperUseCase(empresaRepo, comandaRepo, clienteRepo, produtoRepo, finalizadoraRepo)
	gatewayUC := fiscal.NewGatewayUseCase(cfg.Emissor, emissorClient, auditoriaRepo)
	exportUC := fiscal.NewExportUseCase(cfg.Emissor, emissorClient, auditoriaRepo)
	emitirUC := fiscal.NewEmitirUseCase(mapperUC, gatewayUC, comandaRepo)
	manualUC := fiscal.NewManualUseCase(empresaRepo, gatewayUC)
	webhookUC := fiscal.NewWebhookUseCase(empresaRepo, comandaRepo, auditoriaRepo)

	authUC := auth.NewAuthUseCase(userRepo, empresaRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 90, // emissões e exports podem demorar
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Fluxo7 Arena Fiscal API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		MapperUC:      mapperUC,
		EmitirUC:      emitirUC,
		ManualUC:      manualUC,
		GatewayUC:     gatewayUC,
		ExportUC:      exportUC,
		WebhookUC:     webhookUC,
		JWTSecret:     cfg.JWT.Secret,
		WebhookSecret: cfg.Emissor.WebhookSecret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("encerramento do servidor")
	}

	log.Info().Msg("aplicação encerrada")
}
