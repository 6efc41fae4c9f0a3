package quoting

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/epublink/oferta-api/internal/domain"
	"github.com/epublink/oferta-api/internal/domain/catalog"
	"github.com/epublink/oferta-api/internal/domain/entity"
)

// Nombres de las posiciones de descuento en la oferta (visibles para el cliente).
const (
	discountLineName = "Rabat pakietowy"
	creditLineName   = "Kompensata za niewykorzystany okres"
)

// ValidatePlan valida el plan contra el snapshot de la empresa.
// Los módulos ya contratados no se pueden volver a seleccionar.
func ValidatePlan(plan *entity.QuoteBuildPlan, company *entity.CompanyContext) error {
	if plan.CompanyID == "" {
		return domain.ErrInvalidInput
	}
	if _, ok := catalog.ParseTier(string(plan.Tier)); !ok {
		return domain.ErrUnknownTier
	}
	if plan.ExtraSeats < 0 {
		return domain.ErrInvalidInput
	}
	for _, key := range plan.Modules {
		if company.Owns(key) {
			return domain.ErrModuleOwned
		}
	}
	return nil
}

// BuildItems convierte el resultado del motor de precios en las posiciones a
// crear en el CRM. El rabat y la kompensata van como pseudo-posiciones de
// precio negativo (el CRM no tiene descuento a nivel de oferta).
func BuildItems(res *entity.PricingResult) []entity.QuoteBuildItem {
	items := make([]entity.QuoteBuildItem, 0, len(res.Lines)+2)
	for _, l := range res.Lines {
		price := l.UnitPrice
		items = append(items, entity.QuoteBuildItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Qty:       l.Qty,
			UnitPrice: &price,
		})
	}
	if res.BundleDiscount.IsPositive() {
		items = append(items, entity.QuoteBuildItem{Name: discountLineName, Qty: 1, Discount: res.BundleDiscount})
	}
	if res.ProrationCredit.IsPositive() {
		items = append(items, entity.QuoteBuildItem{Name: creditLineName, Qty: 1, Discount: res.ProrationCredit})
	}
	return items
}

// BuildNote arma el resumen legible que se adjunta a la oferta y al deal.
// Va en polaco: lo lee el comercial y el cliente final.
func BuildNote(plan *entity.QuoteBuildPlan, company *entity.CompanyContext, res *entity.PricingResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Oferta dla: %s\n", company.Name)
	fmt.Fprintf(&b, "Tier: %s\n", plan.Tier)
	if len(plan.Modules) > 0 {
		keys := make([]string, len(plan.Modules))
		for i, k := range plan.Modules {
			keys[i] = string(k)
		}
		fmt.Fprintf(&b, "Nowe moduły: %s\n", strings.Join(keys, ", "))
	}
	if plan.PackageMode {
		b.WriteString("Tryb: pakiet (rabat liczony od posiadanych + nowych)\n")
	} else {
		b.WriteString("Tryb: tylko nowe moduły\n")
	}
	if plan.ExtraSeats > 0 {
		fmt.Fprintf(&b, "Dodatkowi użytkownicy: %d\n", plan.ExtraSeats)
	}
	if res.BundleDiscount.IsPositive() {
		fmt.Fprintf(&b, "Rabat pakietowy: %s PLN\n", res.BundleDiscount.StringFixed(2))
	}
	if res.ProrationCredit.IsPositive() {
		fmt.Fprintf(&b, "Kompensata: %s PLN\n", res.ProrationCredit.StringFixed(2))
	}
	fmt.Fprintf(&b, "Do zapłaty netto: %s PLN", res.NetPayable.StringFixed(2))
	return b.String()
}

// Fingerprint huella determinista del pedido (empresa + selección + tier +
// día). Se guarda como property de la oferta: permite detectar a mano los
// duplicados que genera reintentar el mismo plan el mismo día.
func Fingerprint(plan *entity.QuoteBuildPlan) string {
	mods := make([]string, len(plan.Modules))
	for i, k := range plan.Modules {
		mods[i] = string(k)
	}
	sort.Strings(mods)
	svcs := make([]string, len(plan.Services))
	for i, k := range plan.Services {
		svcs[i] = string(k)
	}
	sort.Strings(svcs)

	day := ""
	if plan.StartDate != nil {
		day = plan.StartDate.Format("2006-01-02")
	}
	raw := strings.Join([]string{
		plan.CompanyID, plan.DealID, string(plan.Tier),
		strings.Join(mods, "+"), strings.Join(svcs, "+"),
		fmt.Sprintf("seats=%d", plan.ExtraSeats),
		fmt.Sprintf("pakiet=%t", plan.PackageMode),
		day,
	}, "|")
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:8])
}
