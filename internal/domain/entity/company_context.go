package entity

import (
	"time"

	"github.com/epublink/oferta-api/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// LastNetPackageKey clave de LastInvoicedNet cuando la empresa factura como pakiet.
const LastNetPackageKey = "package"

// CompanyContext snapshot de solo lectura de la empresa en el CRM,
// armado al construir el plan. El núcleo de cálculo nunca lo muta.
type CompanyContext struct {
	CompanyID    string
	Name         string
	Tier         catalog.Tier
	OwnedModules []catalog.ModuleKey

	// OwnedServices servicios adicionales activos, tal como vienen del CRM.
	OwnedServices []string

	// IsPackageCustomer true si la empresa se factura como un pakiet combinado
	// en vez de módulo a módulo (checkbox "pakiet" en el CRM).
	IsPackageCustomer bool

	// ModuleEndDates fecha de fin del período ya facturado, por módulo.
	// nil = desconocida (el módulo no aporta kompensata).
	ModuleEndDates map[catalog.ModuleKey]*time.Time
	PackageEndDate *time.Time

	// LastInvoicedNet neto de la última faktura, por módulo o bajo
	// LastNetPackageKey cuando IsPackageCustomer.
	LastInvoicedNet map[string]decimal.Decimal
}

// Owns informa si la empresa ya tiene contratado el módulo.
func (c *CompanyContext) Owns(key catalog.ModuleKey) bool {
	for _, k := range c.OwnedModules {
		if k == key {
			return true
		}
	}
	return false
}
