package entity

// AssociationFailure una asociación opcional que no se pudo crear.
// Se reporta en el receipt, nunca aborta el pipeline.
type AssociationFailure struct {
	Target string `json:"target"` // ej: "company", "contact:123"
	Reason string `json:"reason"`
}

// QuoteReceipt resultado de la creación de la oferta en el CRM.
// AssociationFailures no vacío NO implica fallo global: solo las asociaciones
// requeridas (deal, plantilla, line items) abortan la operación.
type QuoteReceipt struct {
	QuoteID             string               `json:"quoteId"`
	Fingerprint         string               `json:"fingerprint,omitempty"`
	LineItemIDs         []string             `json:"createdLineItemIds"`
	AssociationFailures []AssociationFailure `json:"associationFailures"`
	NoteCreated         bool                 `json:"noteCreated"`
	PublicURL           string               `json:"publicUrl,omitempty"`
}
