package http

import (
	"strings"

	"github.com/epublink/oferta-api/internal/application/dto"
	"github.com/epublink/oferta-api/internal/application/quoting"
	"github.com/gofiber/fiber/v2"
)

// OwnerHandler lista los comerciales del portal para asignarlos a ofertas.
type OwnerHandler struct {
	crm quoting.CRMGateway
}

// NewOwnerHandler construye el handler.
func NewOwnerHandler(crm quoting.CRMGateway) *OwnerHandler {
	return &OwnerHandler{crm: crm}
}

// List devuelve los propietarios activos.
// GET /api/owners
func (h *OwnerHandler) List(c *fiber.Ctx) error {
	owners, err := h.crm.ListOwners(c.Context())
	if err != nil {
		return respondError(c, "owners-list", err)
	}
	out := make([]dto.OwnerResponse, len(owners))
	for i, o := range owners {
		name := strings.TrimSpace(o.FirstName + " " + o.LastName)
		if name == "" {
			name = o.Email
		}
		out[i] = dto.OwnerResponse{ID: o.ID, Name: name, Email: o.Email}
	}
	return c.JSON(out)
}
