package quoting

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/epublink/oferta-api/internal/domain"
	"github.com/epublink/oferta-api/internal/domain/catalog"
	"github.com/epublink/oferta-api/internal/domain/entity"
	"github.com/epublink/oferta-api/internal/infrastructure/hubspot"
	"github.com/epublink/oferta-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// Properties del CRM que arman el CompanyContext. Los internal names son los
// del portal ePublink; si el portal cambia solo se toca este bloque.
var (
	moduleDateProps = map[catalog.ModuleKey]string{
		catalog.ModuleWPF:    "wpf_next_billing_date",
		catalog.ModuleBudzet: "budzet_next_billing_date",
		catalog.ModuleUmowy:  "umowy_next_billing_date",
		catalog.ModuleSWB:    "swb_next_billing_date",
	}
	moduleNetProps = map[catalog.ModuleKey]string{
		catalog.ModuleWPF:    "wpf_ostatnia_faktura",
		catalog.ModuleBudzet: "budzet_ostatnia_faktura",
		catalog.ModuleUmowy:  "umowy_ostatnia_faktura",
		catalog.ModuleSWB:    "swb_ostatnia_faktura",
	}

	propPackFlag    = "pakiet"
	propPackDate    = "pack_next_billing_date"
	propPackNet     = "pakiet_ostatnia_faktura"
	propTier        = "subscription_tier"
	propOwnedMain   = "aktywne_produkty_glowne"
	propOwnedExtras = "aktywne_uslugi_dodatkowe"
)

// CompanyService lee del CRM los datos de empresa que necesita el armado de
// ofertas: snapshot de contexto, búsqueda y productos ya contratados.
type CompanyService struct {
	crm CRMGateway
	log *logger.Logger
}

// NewCompanyService construye el servicio.
func NewCompanyService(crm CRMGateway, log *logger.Logger) *CompanyService {
	return &CompanyService{crm: crm, log: log}
}

// Search busca empresas por nombre o dominio (mínimo 2 caracteres).
func (s *CompanyService) Search(ctx context.Context, query string) ([]hubspot.Object, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return []hubspot.Object{}, nil
	}
	return s.crm.SearchCompanies(ctx, query, 10)
}

// Context arma el snapshot de solo lectura de la empresa: tier, módulos
// contratados, fechas de fin de período y netos de la última factura.
// Todas las properties se piden en una sola lectura.
func (s *CompanyService) Context(ctx context.Context, companyID string) (*entity.CompanyContext, error) {
	if companyID == "" {
		return nil, domain.ErrInvalidInput
	}

	props := []string{"name", propTier, propOwnedMain, propOwnedExtras, propPackFlag, propPackDate, propPackNet}
	for _, p := range moduleDateProps {
		props = append(props, p)
	}
	for _, p := range moduleNetProps {
		props = append(props, p)
	}

	comp, err := s.crm.GetObject(ctx, hubspot.ObjectCompanies, companyID, props)
	if err != nil {
		return nil, err
	}

	cc := &entity.CompanyContext{
		CompanyID:         comp.ID,
		Name:              comp.Prop("name"),
		IsPackageCustomer: strings.EqualFold(comp.Prop(propPackFlag), "true"),
		ModuleEndDates:    make(map[catalog.ModuleKey]*time.Time),
		LastInvoicedNet:   make(map[string]decimal.Decimal),
	}

	if tier, ok := catalog.ParseTier(comp.Prop(propTier)); ok {
		cc.Tier = tier
	}

	// Módulos contratados: CSV de nombres de producto, normalizados a claves
	seen := make(map[catalog.ModuleKey]struct{})
	for _, raw := range splitCSV(comp.Prop(propOwnedMain)) {
		key, ok := NormalizeModuleName(raw)
		if !ok {
			s.log.Debug().Str("company_id", companyID).Str("value", raw).Msg("producto activo no reconocido como módulo")
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cc.OwnedModules = append(cc.OwnedModules, key)
	}

	cc.OwnedServices = splitCSV(comp.Prop(propOwnedExtras))

	for key, prop := range moduleDateProps {
		cc.ModuleEndDates[key] = parseCRMDate(comp.Prop(prop))
	}
	cc.PackageEndDate = parseCRMDate(comp.Prop(propPackDate))

	for key, prop := range moduleNetProps {
		if net := parseCRMMoney(comp.Prop(prop)); !net.IsZero() {
			cc.LastInvoicedNet[string(key)] = net
		}
	}
	if net := parseCRMMoney(comp.Prop(propPackNet)); !net.IsZero() {
		cc.LastInvoicedNet[entity.LastNetPackageKey] = net
	}

	return cc, nil
}

// OwnedModulesFromDeals deduce los módulos contratados a partir de los deals
// cerrados-ganados: company → deals → line items → products marcados como
// producto principal. Es la segunda fuente de verdad; la UI une ambas.
func (s *CompanyService) OwnedModulesFromDeals(ctx context.Context, companyID string) ([]catalog.ModuleKey, []string, error) {
	dealIDs, err := s.crm.ListAssociations(ctx, hubspot.ObjectCompanies, companyID, hubspot.ObjectDeals, 0)
	if err != nil {
		return nil, nil, err
	}
	if len(dealIDs) == 0 {
		return nil, nil, nil
	}

	// Heurística closed-won: si ningún deal está cerrado se consideran todos
	deals, err := s.crm.BatchRead(ctx, hubspot.ObjectDeals, dealIDs, []string{"dealstage"})
	if err != nil {
		return nil, nil, err
	}
	var wonIDs []string
	for _, d := range deals {
		if strings.Contains(strings.ToLower(d.Prop("dealstage")), "closedwon") {
			wonIDs = append(wonIDs, d.ID)
		}
	}
	if len(wonIDs) == 0 {
		wonIDs = dealIDs
	}

	var lineItemIDs []string
	for _, id := range wonIDs {
		ids, err := s.crm.ListAssociations(ctx, hubspot.ObjectDeals, id, hubspot.ObjectLineItems, 0)
		if err != nil {
			return nil, nil, err
		}
		lineItemIDs = append(lineItemIDs, ids...)
	}
	lineItemIDs = dedupe(lineItemIDs)
	if len(lineItemIDs) > 1000 {
		lineItemIDs = lineItemIDs[:1000]
	}
	if len(lineItemIDs) == 0 {
		return nil, nil, nil
	}

	items, err := s.crm.BatchRead(ctx, hubspot.ObjectLineItems, lineItemIDs, []string{"hs_product_id", "name"})
	if err != nil {
		return nil, nil, err
	}
	var productIDs []string
	for _, li := range items {
		if pid := li.Prop("hs_product_id"); pid != "" {
			productIDs = append(productIDs, pid)
		}
	}
	productIDs = dedupe(productIDs)
	if len(productIDs) == 0 {
		return nil, lineItemIDs, nil
	}

	products, err := s.crm.BatchRead(ctx, hubspot.ObjectProducts, productIDs, []string{"name", "sku", "is_main_product"})
	if err != nil {
		return nil, nil, err
	}

	var owned []catalog.ModuleKey
	seen := make(map[catalog.ModuleKey]struct{})
	for _, p := range products {
		if !strings.EqualFold(p.Prop("is_main_product"), "true") {
			continue
		}
		key, ok := moduleKeyFromProduct(p.Prop("sku"), p.Prop("name"))
		if !ok {
			continue
		}
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			owned = append(owned, key)
		}
	}
	return owned, lineItemIDs, nil
}

// moduleKeyFromProduct prefiere el prefijo del SKU ("WPF-PLUS" → WPF) y cae
// al nombre normalizado si el SKU no resuelve.
func moduleKeyFromProduct(sku, name string) (catalog.ModuleKey, bool) {
	if sku != "" {
		prefix := strings.SplitN(sku, "-", 2)[0]
		if key, ok := NormalizeModuleName(prefix); ok {
			return key, true
		}
	}
	return NormalizeModuleName(name)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

// parseCRMDate acepta epoch en milisegundos o fecha ISO (las properties de
// fecha del CRM vienen en ambos formatos según el endpoint).
func parseCRMDate(val string) *time.Time {
	val = strings.TrimSpace(val)
	if val == "" {
		return nil
	}
	if ms, err := strconv.ParseInt(val, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, val); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// parseCRMMoney tolera coma decimal ("1234,56") y valores vacíos.
func parseCRMMoney(val string) decimal.Decimal {
	val = strings.ReplaceAll(strings.TrimSpace(val), ",", ".")
	if val == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return decimal.Zero
	}
	return d
}
