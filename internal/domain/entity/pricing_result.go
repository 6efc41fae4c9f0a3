package entity

import "github.com/shopspring/decimal"

// LineAmount una posición valorizada de la oferta.
type LineAmount struct {
	ProductID string
	Name      string
	Qty       int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// PricingResult resultado del motor de precios. Derivado, nunca se persiste.
// Warnings señala inconsistencias de datos (tier o clave sin precio) que el
// caller debe mostrar; no son errores del motor.
type PricingResult struct {
	Lines           []LineAmount
	BundleDiscount  decimal.Decimal
	ProrationCredit decimal.Decimal
	NetPayable      decimal.Decimal
	Warnings        []string
}
