package dto

import "github.com/shopspring/decimal"

// ErrorResponse error JSON uniforme. En un PartialPipelineFailure lleva además
// el quote ya creado y sus posiciones, para que el operador pueda completar o
// descartar la oferta a mano en el CRM.
type ErrorResponse struct {
	Error              string   `json:"error"`
	Detail             string   `json:"detail,omitempty"`
	QuoteID            string   `json:"quoteId,omitempty"`
	CreatedLineItemIDs []string `json:"createdLineItemIds,omitempty"`
}

// CreateQuoteRequest body para POST /api/quotes. Dos modos:
//   - plan: Tier + Modules/Services/ExtraSeats → el servidor valora y arma las posiciones;
//   - directo (legacy): Items + DiscountPLN ya calculados por el caller.
//
// Si Items viene no vacío se usa el modo directo.
type CreateQuoteRequest struct {
	CompanyID string `json:"companyId"`
	DealID    string `json:"dealId,omitempty"`
	OwnerID   string `json:"ownerId,omitempty"`
	Title     string `json:"title,omitempty"`

	Tier        string   `json:"tier,omitempty"`
	PackageMode bool     `json:"packageMode,omitempty"`
	StartDate   string   `json:"startDate,omitempty"` // YYYY-MM-DD
	Modules     []string `json:"modules,omitempty"`
	Services    []string `json:"services,omitempty"`
	ExtraSeats  int      `json:"extraSeats,omitempty"`

	Items       []QuoteItemRequest `json:"items,omitempty"`
	DiscountPLN decimal.Decimal    `json:"discountPLN,omitempty"`

	ContactIDs     []string `json:"contactIds,omitempty"`
	ExpirationDate string   `json:"expirationDate,omitempty"` // YYYY-MM-DD
}

// QuoteItemRequest posición del modo directo.
type QuoteItemRequest struct {
	ProductID string           `json:"productId"`
	Qty       int              `json:"qty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// PreviewQuoteRequest body para POST /api/quotes/preview (solo valoración).
type PreviewQuoteRequest struct {
	CompanyID   string   `json:"companyId"`
	Tier        string   `json:"tier"`
	PackageMode bool     `json:"packageMode,omitempty"`
	StartDate   string   `json:"startDate,omitempty"`
	Modules     []string `json:"modules,omitempty"`
	Services    []string `json:"services,omitempty"`
	ExtraSeats  int      `json:"extraSeats,omitempty"`
}

// PricingLineResponse una posición valorizada.
type PricingLineResponse struct {
	ProductID string          `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// PricingResponse resultado del motor de precios para la vista previa.
type PricingResponse struct {
	Lines           []PricingLineResponse `json:"lines"`
	BundleDiscount  decimal.Decimal       `json:"bundleDiscount"`
	ProrationCredit decimal.Decimal       `json:"prorationCredit"`
	NetPayable      decimal.Decimal       `json:"netPayable"`
	Warnings        []string              `json:"warnings,omitempty"`
}

// LineItemResponse una posición leída del CRM.
type LineItemResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Qty             decimal.Decimal `json:"qty"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
	DiscountAmount  decimal.Decimal `json:"discountAmount"`
	LineTotal       decimal.Decimal `json:"lineTotal"`
}

// QuoteSummary una oferta existente con sus posiciones (GET /api/deals/:id/quotes).
type QuoteSummary struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Status     string             `json:"status,omitempty"`
	PublicURL  string             `json:"publicUrl,omitempty"`
	Amount     decimal.Decimal    `json:"amount"`
	CreatedAt  string             `json:"createdAt,omitempty"`
	Expiration string             `json:"expiration,omitempty"`
	LineItems  []LineItemResponse `json:"lineItems"`
}

// QuoteDetailsResponse una oferta puntual (GET /api/quotes/:id).
type QuoteDetailsResponse struct {
	ID         string             `json:"id"`
	Properties map[string]string  `json:"properties"`
	LineItems  []LineItemResponse `json:"lineItems"`
}
