package http

import (
	"github.com/epublink/oferta-api/internal/application/quoting"
	"github.com/gofiber/fiber/v2"
)

// DealHandler consultas sobre deals: ofertas asociadas con sus partidas.
type DealHandler struct {
	reader *quoting.QuoteReader
}

// NewDealHandler construye el handler.
func NewDealHandler(reader *quoting.QuoteReader) *DealHandler {
	return &DealHandler{reader: reader}
}

// Quotes lista las ofertas asociadas a un deal, de más reciente a más antigua.
// GET /api/deals/:id/quotes
func (h *DealHandler) Quotes(c *fiber.Ctx) error {
	quotes, err := h.reader.QuotesByDeal(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "deal-quotes", err)
	}
	return c.JSON(quotes)
}
