package quoting

import (
	"context"
	"time"

	"github.com/epublink/oferta-api/internal/application/dto"
	"github.com/epublink/oferta-api/internal/domain"
	"github.com/epublink/oferta-api/internal/domain/catalog"
	"github.com/epublink/oferta-api/internal/domain/entity"
	"github.com/epublink/oferta-api/internal/domain/pricing"
	"github.com/epublink/oferta-api/pkg/logger"
)

// QuoteService caso de uso de creación de ofertas. Junta el snapshot de la
// empresa, el motor de precios y el orquestador del CRM.
type QuoteService struct {
	companies *CompanyService
	orch      *Orchestrator
	cat       *catalog.Catalog
	log       *logger.Logger
}

// NewQuoteService construye el caso de uso.
func NewQuoteService(companies *CompanyService, orch *Orchestrator, cat *catalog.Catalog, log *logger.Logger) *QuoteService {
	return &QuoteService{companies: companies, orch: orch, cat: cat, log: log}
}

// Create crea la oferta en el CRM. Dos modos según el body:
//   - plan (tier + módulos/servicios/seats): el servidor valida contra la
//     empresa, valora con el motor de precios y arma las posiciones;
//   - directo (items ya armados): se respeta la selección del caller tal
//     cual, para los integradores que calculan por su cuenta.
func (s *QuoteService) Create(ctx context.Context, req dto.CreateQuoteRequest) (*entity.QuoteReceipt, error) {
	if req.CompanyID == "" {
		return nil, domain.ErrInvalidInput
	}

	if len(req.Items) > 0 {
		return s.createDirect(ctx, req)
	}
	return s.createFromPlan(ctx, req)
}

func (s *QuoteService) createFromPlan(ctx context.Context, req dto.CreateQuoteRequest) (*entity.QuoteReceipt, error) {
	company, err := s.companies.Context(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}

	plan, err := planFromRequest(req, company)
	if err != nil {
		return nil, err
	}
	if err := ValidatePlan(plan, company); err != nil {
		return nil, err
	}

	result := pricing.Compute(plan, company, s.cat)
	for _, w := range result.Warnings {
		s.log.Warn().Str("company_id", plan.CompanyID).Str("warning", w).Msg("inconsistencia de catálogo al valorar la oferta")
	}

	items := BuildItems(&result)
	// Sin posiciones y sin kompensata no hay nada que ofertar
	if len(items) == 0 {
		return nil, domain.ErrEmptySelection
	}

	return s.orch.CreateQuote(ctx, CreateQuoteInput{
		Plan:        plan,
		Items:       items,
		CompanyName: company.Name,
		ContactIDs:  req.ContactIDs,
		Note:        BuildNote(plan, company, &result),
		Fingerprint: Fingerprint(plan),
	})
}

// createDirect modo legacy: las posiciones y el rabat vienen ya calculados.
func (s *QuoteService) createDirect(ctx context.Context, req dto.CreateQuoteRequest) (*entity.QuoteReceipt, error) {
	plan := &entity.QuoteBuildPlan{
		CompanyID: req.CompanyID,
		DealID:    req.DealID,
		OwnerID:   req.OwnerID,
		Title:     req.Title,
	}
	if exp := parseISODate(req.ExpirationDate); exp != nil {
		plan.ExpirationDate = exp
	}

	var items []entity.QuoteBuildItem
	for _, it := range req.Items {
		if it.ProductID == "" {
			continue
		}
		qty := it.Qty
		if qty <= 0 {
			qty = 1
		}
		items = append(items, entity.QuoteBuildItem{ProductID: it.ProductID, Qty: qty, UnitPrice: it.Price})
	}
	if req.DiscountPLN.IsPositive() {
		items = append(items, entity.QuoteBuildItem{Name: discountLineName, Qty: 1, Discount: req.DiscountPLN})
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptySelection
	}

	return s.orch.CreateQuote(ctx, CreateQuoteInput{
		Plan:        plan,
		Items:       items,
		ContactIDs:  req.ContactIDs,
		Fingerprint: Fingerprint(plan),
	})
}

// Preview solo valora: mismo camino que createFromPlan pero sin tocar el CRM
// más allá de leer el snapshot de la empresa.
func (s *QuoteService) Preview(ctx context.Context, req dto.PreviewQuoteRequest) (*dto.PricingResponse, error) {
	if req.CompanyID == "" {
		return nil, domain.ErrInvalidInput
	}
	company, err := s.companies.Context(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	plan, err := planFromRequest(dto.CreateQuoteRequest{
		CompanyID:   req.CompanyID,
		Tier:        req.Tier,
		PackageMode: req.PackageMode,
		StartDate:   req.StartDate,
		Modules:     req.Modules,
		Services:    req.Services,
		ExtraSeats:  req.ExtraSeats,
	}, company)
	if err != nil {
		return nil, err
	}
	if err := ValidatePlan(plan, company); err != nil {
		return nil, err
	}
	result := pricing.Compute(plan, company, s.cat)
	return pricingToDTO(&result), nil
}

// planFromRequest parsea el body a un plan. Tier vacío = tier de la empresa.
func planFromRequest(req dto.CreateQuoteRequest, company *entity.CompanyContext) (*entity.QuoteBuildPlan, error) {
	tierName := req.Tier
	if tierName == "" {
		tierName = string(company.Tier)
	}
	tier, ok := catalog.ParseTier(tierName)
	if !ok {
		return nil, domain.ErrUnknownTier
	}

	plan := &entity.QuoteBuildPlan{
		CompanyID:   req.CompanyID,
		DealID:      req.DealID,
		OwnerID:     req.OwnerID,
		Title:       req.Title,
		Tier:        tier,
		PackageMode: req.PackageMode,
		ExtraSeats:  req.ExtraSeats,
	}
	plan.StartDate = parseISODate(req.StartDate)
	plan.ExpirationDate = parseISODate(req.ExpirationDate)

	for _, m := range req.Modules {
		plan.Modules = append(plan.Modules, catalog.ModuleKey(m))
	}
	for _, s := range req.Services {
		plan.Services = append(plan.Services, catalog.ServiceKey(s))
	}
	return plan, nil
}

func parseISODate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}

func pricingToDTO(res *entity.PricingResult) *dto.PricingResponse {
	out := &dto.PricingResponse{
		Lines:           make([]dto.PricingLineResponse, len(res.Lines)),
		BundleDiscount:  res.BundleDiscount,
		ProrationCredit: res.ProrationCredit,
		NetPayable:      res.NetPayable,
		Warnings:        res.Warnings,
	}
	for i, l := range res.Lines {
		out.Lines[i] = dto.PricingLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal,
		}
	}
	return out
}
