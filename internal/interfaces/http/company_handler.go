package http

import (
	"time"

	"github.com/epublink/oferta-api/internal/application/dto"
	"github.com/epublink/oferta-api/internal/application/quoting"
	"github.com/epublink/oferta-api/internal/domain/entity"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// CompanyHandler consultas de empresa contra el CRM: búsqueda, overview,
// datos de kompensata y productos contratados.
type CompanyHandler struct {
	svc *quoting.CompanyService
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(svc *quoting.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

// Search busca empresas por nombre o dominio.
// GET /api/companies/search?query=
func (h *CompanyHandler) Search(c *fiber.Ctx) error {
	results, err := h.svc.Search(c.Context(), c.Query("query"))
	if err != nil {
		return respondError(c, "companies-search", err)
	}
	out := make([]dto.CompanySearchResult, len(results))
	for i, r := range results {
		out[i] = dto.CompanySearchResult{ID: r.ID, Name: r.Prop("name"), Domain: r.Prop("domain")}
	}
	return c.JSON(out)
}

// Overview snapshot de la empresa: tier, módulos con fechas, servicios.
// GET /api/companies/:id/overview
func (h *CompanyHandler) Overview(c *fiber.Ctx) error {
	cc, err := h.svc.Context(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "company-overview", err)
	}

	var res dto.CompanyOverviewResponse
	res.Company.ID = cc.CompanyID
	res.Company.Name = cc.Name
	res.Company.Tier = string(cc.Tier)
	res.Company.PackNextBillingDate = formatDate(cc.PackageEndDate)
	res.Owned.Main = make([]dto.OwnedModuleResponse, len(cc.OwnedModules))
	for i, key := range cc.OwnedModules {
		res.Owned.Main[i] = dto.OwnedModuleResponse{
			Key:             string(key),
			NextBillingDate: formatDate(cc.ModuleEndDates[key]),
		}
	}
	res.Owned.Services = cc.OwnedServices
	if res.Owned.Services == nil {
		res.Owned.Services = []string{}
	}
	return c.JSON(res)
}

// Billing datos para la kompensata: flag pakiet y netos de última factura.
// GET /api/companies/:id/billing
func (h *CompanyHandler) Billing(c *fiber.Ctx) error {
	cc, err := h.svc.Context(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "company-billing", err)
	}

	res := dto.CompanyBillingResponse{
		IsPackageOnCompany: cc.IsPackageCustomer,
		LastNet:            map[string]decimal.Decimal{},
	}
	if cc.IsPackageCustomer {
		res.LastNet[entity.LastNetPackageKey] = cc.LastInvoicedNet[entity.LastNetPackageKey]
	} else {
		for k, v := range cc.LastInvoicedNet {
			if k != entity.LastNetPackageKey {
				res.LastNet[k] = v
			}
		}
	}
	return c.JSON(res)
}

// Products módulos contratados deducidos de los deals cerrados-ganados.
// GET /api/companies/:id/products
func (h *CompanyHandler) Products(c *fiber.Ctx) error {
	owned, lineItemIDs, err := h.svc.OwnedModulesFromDeals(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, "company-products", err)
	}
	res := dto.CompanyProductsResponse{OwnedMainProducts: []string{}, OwnedLineItems: lineItemIDs}
	for _, key := range owned {
		res.OwnedMainProducts = append(res.OwnedMainProducts, string(key))
	}
	if res.OwnedLineItems == nil {
		res.OwnedLineItems = []string{}
	}
	return c.JSON(res)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
