package dto

import "github.com/shopspring/decimal"

// TierPricingResponse producto y precio de un módulo para un tier concreto.
type TierPricingResponse struct {
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
}

// CatalogModuleResponse un producto principal con su matriz por tier.
type CatalogModuleResponse struct {
	Key   string                         `json:"key"`
	Label string                         `json:"label"`
	Tiers map[string]TierPricingResponse `json:"tiers"`
}

// CatalogServiceResponse un servicio adicional de precio único.
type CatalogServiceResponse struct {
	Key       string          `json:"key"`
	Label     string          `json:"label"`
	ProductID string          `json:"productId"`
	Price     decimal.Decimal `json:"price"`
}

// CatalogResponse GET /api/catalog.
type CatalogResponse struct {
	MainProducts []CatalogModuleResponse `json:"mainProducts"`
	Services     []CatalogServiceResponse `json:"services"`
	ExtraSeats   struct {
		Label     string                     `json:"label"`
		ProductID string                     `json:"productId"`
		Prices    map[string]decimal.Decimal `json:"prices"`
	} `json:"extraSeats"`
	Tiers []string `json:"tiers"`
}
