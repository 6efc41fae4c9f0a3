package http

import (
	"strings"

	"github.com/epublink/oferta-api/pkg/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// NewCORS middleware CORS para el frontend embebido en el CRM.
// Los orígenes llegan como CSV por env; "*.dominio.tld" permite cualquier
// subdominio (ej: *.hs-sites.com). Lista vacía = "*" (solo para pruebas).
func NewCORS(cfg config.CORSConfig) fiber.Handler {
	origins := cfg.Origins()
	if len(origins) == 0 {
		return cors.New(cors.Config{
			AllowOrigins: "*",
			AllowMethods: "GET,POST,OPTIONS",
			AllowHeaders: "Content-Type, Authorization",
			MaxAge:       86400,
		})
	}
	return cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool { return originAllowed(origin, origins) },
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Content-Type, Authorization",
		MaxAge:           86400,
	})
}

// originAllowed coincidencia exacta o por comodín de subdominio.
func originAllowed(origin string, allowed []string) bool {
	for _, o := range allowed {
		if strings.HasPrefix(o, "*.") {
			if strings.HasSuffix(origin, o[1:]) {
				return true
			}
			continue
		}
		if origin == o {
			return true
		}
	}
	return false
}
