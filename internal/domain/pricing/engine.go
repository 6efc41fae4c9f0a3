package pricing

import (
	"fmt"
	"math"
	"time"

	"github.com/epublink/oferta-api/internal/domain/catalog"
	"github.com/epublink/oferta-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Constantes de negocio del cálculo de kompensata y rabat pakietowy.
// El divisor 364 (no 365 ni 360) es una decisión comercial de ePublink:
// el año contractual se cuenta como 52 semanas exactas.
const prorationYearDays = 364

var (
	discountTwo      = decimal.NewFromInt(300)
	discountThree    = decimal.NewFromInt(600)
	discountFourPlus = decimal.NewFromInt(900)
)

// BundleDiscount rabat pakietowy según la CANTIDAD de módulos distintos en
// alcance. Es una función escalón sobre el conteo; qué módulos son da igual.
func BundleDiscount(moduleCount int) decimal.Decimal {
	switch {
	case moduleCount >= 4:
		return discountFourPlus
	case moduleCount == 3:
		return discountThree
	case moduleCount == 2:
		return discountTwo
	default:
		return decimal.Zero
	}
}

// Compute valoriza un plan contra el catálogo y el snapshot de la empresa.
// Puro y determinista: sin I/O, sin efectos, nunca falla con input bien
// formado (validar el plan es responsabilidad del caller).
func Compute(plan *entity.QuoteBuildPlan, company *entity.CompanyContext, cat *catalog.Catalog) entity.PricingResult {
	var res entity.PricingResult

	// 1) Posiciones: módulos seleccionados al precio del tier
	for _, key := range plan.Modules {
		mod, ok := cat.Module(key)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("módulo %q no existe en el catálogo", key))
			res.Lines = append(res.Lines, entity.LineAmount{Name: string(key), Qty: 1})
			continue
		}
		price, ok := mod.Prices[plan.Tier]
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("módulo %q sin precio para tier %q", key, plan.Tier))
			price = decimal.Zero
		}
		res.Lines = append(res.Lines, entity.LineAmount{
			ProductID: mod.ProductIDs[plan.Tier],
			Name:      mod.Label,
			Qty:       1,
			UnitPrice: price,
			LineTotal: price,
		})
	}

	// 2) Servicios adicionales (precio único)
	for _, key := range plan.Services {
		svc, ok := cat.Service(key)
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("servicio %q no existe en el catálogo", key))
			res.Lines = append(res.Lines, entity.LineAmount{Name: string(key), Qty: 1})
			continue
		}
		res.Lines = append(res.Lines, entity.LineAmount{
			ProductID: svc.ProductID,
			Name:      svc.Label,
			Qty:       1,
			UnitPrice: svc.Price,
			LineTotal: svc.Price,
		})
	}

	// 3) Usuarios adicionales: qty elegida por el operador, precio por tier
	if plan.ExtraSeats > 0 {
		seatPrice, ok := cat.ExtraSeats.Prices[plan.Tier]
		if !ok {
			res.Warnings = append(res.Warnings, fmt.Sprintf("usuarios adicionales sin precio para tier %q", plan.Tier))
			seatPrice = decimal.Zero
		}
		qty := decimal.NewFromInt(int64(plan.ExtraSeats))
		res.Lines = append(res.Lines, entity.LineAmount{
			ProductID: cat.ExtraSeats.ProductID,
			Name:      cat.ExtraSeats.Label,
			Qty:       plan.ExtraSeats,
			UnitPrice: seatPrice,
			LineTotal: seatPrice.Mul(qty),
		})
	}

	// 4) Rabat pakietowy: en modo pakiet cuentan posiadane ∪ nuevos,
	// si no, solo los nuevos.
	res.BundleDiscount = BundleDiscount(modulesInScope(plan, company))

	// 5) Kompensata: solo en modo pakiet y con fecha de inicio conocida.
	if plan.PackageMode && plan.StartDate != nil {
		res.ProrationCredit = prorationCredit(plan, company)
	} else {
		res.ProrationCredit = decimal.Zero
	}

	// 6) Neto a pagar, nunca negativo
	total := decimal.Zero
	for _, l := range res.Lines {
		total = total.Add(l.LineTotal)
	}
	res.NetPayable = total.Sub(res.BundleDiscount).Sub(res.ProrationCredit)
	if res.NetPayable.IsNegative() {
		res.NetPayable = decimal.Zero
	}
	return res
}

// modulesInScope cantidad de módulos distintos que cuentan para el rabat.
func modulesInScope(plan *entity.QuoteBuildPlan, company *entity.CompanyContext) int {
	seen := make(map[catalog.ModuleKey]struct{}, len(plan.Modules)+len(company.OwnedModules))
	for _, k := range plan.Modules {
		seen[k] = struct{}{}
	}
	if plan.PackageMode {
		for _, k := range company.OwnedModules {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

// prorationCredit kompensata por la parte no consumida del período ya
// facturado: neto/364 × días restantes. Siempre ≥ 0: se RESTA del total.
func prorationCredit(plan *entity.QuoteBuildPlan, company *entity.CompanyContext) decimal.Decimal {
	start := *plan.StartDate

	if company.IsPackageCustomer {
		net, ok := company.LastInvoicedNet[entity.LastNetPackageKey]
		if !ok || net.IsZero() || company.PackageEndDate == nil {
			return decimal.Zero
		}
		return dailyCredit(net, daysRemaining(*company.PackageEndDate, start))
	}

	// Cliente módulo a módulo: suman solo los módulos con neto Y fecha conocidos.
	credit := decimal.Zero
	for _, key := range company.OwnedModules {
		net, ok := company.LastInvoicedNet[string(key)]
		if !ok || net.IsZero() {
			continue
		}
		end := company.ModuleEndDates[key]
		if end == nil {
			continue
		}
		credit = credit.Add(dailyCredit(net, daysRemaining(*end, start)))
	}
	return credit
}

func dailyCredit(net decimal.Decimal, days int) decimal.Decimal {
	if days <= 0 {
		return decimal.Zero
	}
	return net.Div(decimal.NewFromInt(prorationYearDays)).Mul(decimal.NewFromInt(int64(days)))
}

// daysRemaining días entre start y end redondeando hacia arriba, nunca
// negativo (end anterior a start = 0, no un cargo).
func daysRemaining(end, start time.Time) int {
	if !end.After(start) {
		return 0
	}
	return int(math.Ceil(end.Sub(start).Hours() / 24))
}
