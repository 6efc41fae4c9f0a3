package http

import (
	"github.com/epublink/oferta-api/internal/application/quoting"
	"github.com/epublink/oferta-api/internal/domain/catalog"
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog   *catalog.Catalog
	Companies *quoting.CompanyService
	Quotes    *quoting.QuoteService
	Reader    *quoting.QuoteReader
	CRM       quoting.CRMGateway
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Catálogo (estático, sin llamadas al CRM)
	catalogHandler := NewCatalogHandler(deps.Catalog)
	api.Get("/catalog", catalogHandler.Get)

	// Companies
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.Companies)
	companies.Get("/search", companyHandler.Search)
	companies.Get("/:id/overview", companyHandler.Overview)
	companies.Get("/:id/billing", companyHandler.Billing)
	companies.Get("/:id/products", companyHandler.Products)

	// Owners
	ownerHandler := NewOwnerHandler(deps.CRM)
	api.Get("/owners", ownerHandler.List)

	// Quotes
	quotes := api.Group("/quotes")
	quoteHandler := NewQuoteHandler(deps.Quotes, deps.Reader)
	quotes.Post("/", quoteHandler.Create)
	quotes.Post("/preview", quoteHandler.Preview)
	quotes.Get("/:id", quoteHandler.Details)

	// Deals
	dealHandler := NewDealHandler(deps.Reader)
	api.Get("/deals/:id/quotes", dealHandler.Quotes)
}
