package http

import (
	"errors"

	"github.com/epublink/oferta-api/internal/application/dto"
	"github.com/epublink/oferta-api/internal/application/quoting"
	"github.com/epublink/oferta-api/internal/domain"
	"github.com/epublink/oferta-api/internal/infrastructure/hubspot"
	"github.com/gofiber/fiber/v2"
)

// respondError mapea la taxonomía de errores a HTTP:
//   - errores de dominio (validación) → 400, nunca se reintentan;
//   - *quoting.PipelineError → 500 con el quote ya creado y sus posiciones,
//     para que el operador pueda completar o descartar a mano;
//   - *hubspot.UpstreamError (transitorio agotado o permanente) → 500 con el
//     status/body del CRM en detail;
//   - resto → 500 genérico.
func respondError(c *fiber.Ctx, operation string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrUnknownTier),
		errors.Is(err, domain.ErrModuleOwned),
		errors.Is(err, domain.ErrEmptySelection):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: operation + " failed", Detail: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: operation + " failed", Detail: err.Error()})
	}

	var pipeErr *quoting.PipelineError
	if errors.As(err, &pipeErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:              operation + " failed",
			Detail:             pipeErr.Error(),
			QuoteID:            pipeErr.QuoteID,
			CreatedLineItemIDs: pipeErr.LineItemIDs,
		})
	}

	var upErr *hubspot.UpstreamError
	if errors.As(err, &upErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error:  operation + " failed",
			Detail: upErr.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error:  operation + " failed",
		Detail: err.Error(),
	})
}
