package dto

import "github.com/shopspring/decimal"

// CompanySearchResult una empresa encontrada.
type CompanySearchResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain string `json:"domain,omitempty"`
}

// OwnedModuleResponse un módulo contratado con su fecha de próximo rozliczenie.
type OwnedModuleResponse struct {
	Key             string `json:"key"`
	NextBillingDate string `json:"nextBillingDate,omitempty"`
}

// CompanyOverviewResponse GET /api/companies/:id/overview.
type CompanyOverviewResponse struct {
	Company struct {
		ID                  string `json:"id"`
		Name                string `json:"name"`
		Tier                string `json:"tier,omitempty"`
		PackNextBillingDate string `json:"packNextBillingDate,omitempty"`
	} `json:"company"`
	Owned struct {
		Main     []OwnedModuleResponse `json:"main"`
		Services []string              `json:"services"`
	} `json:"owned"`
}

// CompanyBillingResponse GET /api/companies/:id/billing — datos de kompensata.
type CompanyBillingResponse struct {
	IsPackageOnCompany bool                       `json:"isPackageOnCompany"`
	LastNet            map[string]decimal.Decimal `json:"lastNet"`
}

// CompanyProductsResponse GET /api/companies/:id/products — módulos deducidos
// de los deals cerrados-ganados.
type CompanyProductsResponse struct {
	OwnedMainProducts []string `json:"ownedMainProducts"`
	OwnedLineItems    []string `json:"ownedLineItems"`
}

// OwnerResponse un comercial del portal.
type OwnerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
