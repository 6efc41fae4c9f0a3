package http

import (
	"github.com/epublink/oferta-api/internal/application/dto"
	"github.com/epublink/oferta-api/internal/application/quoting"
	"github.com/gofiber/fiber/v2"
)

// QuoteHandler maneja la creación, vista previa y lectura de ofertas.
type QuoteHandler struct {
	svc    *quoting.QuoteService
	reader *quoting.QuoteReader
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(svc *quoting.QuoteService, reader *quoting.QuoteReader) *QuoteHandler {
	return &QuoteHandler{svc: svc, reader: reader}
}

// Create crea la oferta en el CRM.
// POST /api/quotes
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "create-quote failed", Detail: "cuerpo inválido"})
	}
	if req.CompanyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "create-quote failed", Detail: "companyId required"})
	}
	receipt, err := h.svc.Create(c.Context(), req)
	if err != nil {
		return respondError(c, "create-quote", err)
	}
	return c.JSON(receipt)
}

// Preview valora un plan sin crear nada en el CRM.
// POST /api/quotes/preview
func (h *QuoteHandler) Preview(c *fiber.Ctx) error {
	var req dto.PreviewQuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "quote-preview failed", Detail: "cuerpo inválido"})
	}
	if req.CompanyID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "quote-preview failed", Detail: "companyId required"})
	}
	res, err := h.svc.Preview(c.Context(), req)
	if err != nil {
		return respondError(c, "quote-preview", err)
	}
	return c.JSON(res)
}

// Details lee una oferta con sus posiciones.
// GET /api/quotes/:id
func (h *QuoteHandler) Details(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "quote-details failed", Detail: "quoteId required"})
	}
	res, err := h.reader.QuoteDetails(c.Context(), id)
	if err != nil {
		return respondError(c, "quote-details", err)
	}
	return c.JSON(res)
}
