package http

import (
	"github.com/epublink/oferta-api/internal/application/dto"
	"github.com/epublink/oferta-api/internal/domain/catalog"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CatalogHandler expone el catálogo de productos al frontend.
type CatalogHandler struct {
	cat *catalog.Catalog
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{cat: cat}
}

// Get devuelve el catálogo completo: módulos con matriz por tier,
// servicios y usuarios adicionales.
// GET /api/catalog
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	res := dto.CatalogResponse{
		MainProducts: make([]dto.CatalogModuleResponse, len(h.cat.Modules)),
		Services:     make([]dto.CatalogServiceResponse, len(h.cat.Services)),
		Tiers:        make([]string, len(catalog.Tiers)),
	}

	for i, m := range h.cat.Modules {
		tiers := make(map[string]dto.TierPricingResponse, len(m.Prices))
		for t, price := range m.Prices {
			tiers[string(t)] = dto.TierPricingResponse{ProductID: m.ProductIDs[t], Price: price}
		}
		res.MainProducts[i] = dto.CatalogModuleResponse{Key: string(m.Key), Label: m.Label, Tiers: tiers}
	}

	for i, s := range h.cat.Services {
		res.Services[i] = dto.CatalogServiceResponse{
			Key: string(s.Key), Label: s.Label, ProductID: s.ProductID, Price: s.Price,
		}
	}

	res.ExtraSeats.Label = h.cat.ExtraSeats.Label
	res.ExtraSeats.ProductID = h.cat.ExtraSeats.ProductID
	res.ExtraSeats.Prices = make(map[string]decimal.Decimal, len(h.cat.ExtraSeats.Prices))
	for t, price := range h.cat.ExtraSeats.Prices {
		res.ExtraSeats.Prices[string(t)] = price
	}

	for i, t := range catalog.Tiers {
		res.Tiers[i] = string(t)
	}
	return c.JSON(res)
}
