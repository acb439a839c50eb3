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

	"github.com/jhoicas/facturador-api/internal/application/billing"
	infraai "github.com/jhoicas/facturador-api/internal/infrastructure/ai"
	infrapdf "github.com/jhoicas/facturador-api/internal/infrastructure/pdf"
	"github.com/jhoicas/facturador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/facturador-api/internal/infrastructure/render"
	httpRouter "github.com/jhoicas/facturador-api/internal/interfaces/http"
	"github.com/jhoicas/facturador-api/pkg/config"
	"github.com/jhoicas/facturador-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	invoiceRepo := postgres.NewInvoiceRepository(pool)
	invoiceUC := billing.NewInvoiceUseCase(invoiceRepo)

	// Exportación Tally: el markup lo produce un servicio de generación
	// externo; sin API key el endpoint responde error de configuración.
	geminiSvc := infraai.NewGeminiService(
		cfg.AI.GeminiAPIKey,
		cfg.AI.GeminiModel,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
	)
	tallyUC := billing.NewTallyExportUseCase(invoiceRepo, geminiSvc)

	// PDF: la factura se rasteriza a una sola imagen y se rebana en páginas A4.
	rasterizer := render.NewBasicRasterizer()
	composer := infrapdf.NewGofpdfComposer()
	pdfUC := billing.NewPDFUseCase(invoiceRepo, rasterizer, composer)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturador API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		InvoiceUC: invoiceUC,
		PDFUC:     pdfUC,
		TallyUC:   tallyUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
