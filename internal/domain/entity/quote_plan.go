package entity

import (
	"time"

	"github.com/epublink/oferta-api/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// QuoteBuildPlan selección del operador comercial: módulos, servicios,
// tier, usuarios extra y modo pakiet. Lo construye el caller (UI) y se
// valida antes de usar (los módulos ya contratados no se pueden re-seleccionar).
type QuoteBuildPlan struct {
	CompanyID string
	DealID    string // opcional
	OwnerID   string // opcional
	Title     string // opcional; por defecto "Oferta – <empresa>"

	Tier        catalog.Tier
	PackageMode bool
	StartDate   *time.Time // inicio del nuevo período; requerido para kompensata

	Modules    []catalog.ModuleKey
	Services   []catalog.ServiceKey
	ExtraSeats int

	ExpirationDate *time.Time // opcional; fecha de expiración del quote en el CRM
}

// QuoteBuildItem una posición a crear en el CRM. UnitPrice nil = usar el
// precio del producto en el CRM; Discount > 0 = posición de descuento
// (precio negativo en HubSpot).
type QuoteBuildItem struct {
	ProductID string
	Name      string
	Qty       int
	UnitPrice *decimal.Decimal
	Discount  decimal.Decimal
}
