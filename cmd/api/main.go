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

	"github.com/epublink/oferta-api/internal/application/quoting"
	"github.com/epublink/oferta-api/internal/domain/catalog"
	"github.com/epublink/oferta-api/internal/infrastructure/hubspot"
	httpRouter "github.com/epublink/oferta-api/internal/interfaces/http"
	"github.com/epublink/oferta-api/pkg/config"
	"github.com/epublink/oferta-api/pkg/logger"
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

	if cfg.HubSpot.Token == "" {
		log.Fatal().Msg("falta HUBSPOT_PRIVATE_APP_TOKEN")
	}

	crm := hubspot.NewClient(cfg.HubSpot, log)
	cat := catalog.Default()

	companies := quoting.NewCompanyService(crm, log)
	orchestrator := quoting.NewOrchestrator(crm, cfg.HubSpot.Associations, cfg.HubSpot.QuoteTemplateID, log)
	quotes := quoting.NewQuoteService(companies, orchestrator, cat, log)
	reader := quoting.NewQuoteReader(crm, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 90, // la creación de ofertas encadena varias llamadas al CRM con reintentos
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.NewCORS(cfg.CORS))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Oferta API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Catalog:   cat,
		Companies: companies,
		Quotes:    quotes,
		Reader:    reader,
		CRM:       crm,
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
