package quoting

import (
	"context"
	"fmt"
	"time"

	"github.com/epublink/oferta-api/internal/domain/entity"
	"github.com/epublink/oferta-api/internal/infrastructure/hubspot"
	"github.com/epublink/oferta-api/pkg/config"
	"github.com/epublink/oferta-api/pkg/logger"
	"github.com/google/uuid"
)

// PipelineError fallo de un paso REQUERIDO del pipeline después de que la
// oferta (y quizás algunas posiciones) ya existen en el CRM. Lleva el ledger
// de IDs creados: no hay rollback automático (el CRM no ofrece transacción
// multi-objeto), el operador decide si completar o descartar a mano.
type PipelineError struct {
	Step        string
	QuoteID     string
	LineItemIDs []string
	Err         error
}

func (e *PipelineError) Error() string {
	if e.QuoteID == "" {
		return fmt.Sprintf("pipeline de oferta falló en %s: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("pipeline de oferta falló en %s (quote %s ya creado, %d posiciones): %v",
		e.Step, e.QuoteID, len(e.LineItemIDs), e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// CreateQuoteInput todo lo que el orquestador necesita para armar la oferta
// en el CRM. Items viene del motor de precios (o directo del caller en el
// modo legacy); el orquestador no calcula nada.
type CreateQuoteInput struct {
	Plan        *entity.QuoteBuildPlan
	Items       []entity.QuoteBuildItem
	CompanyName string
	ContactIDs  []string
	Note        string // vacío = no adjuntar nota
	Fingerprint string
}

// Orchestrator arma la oferta en el CRM: quote → posiciones → asociaciones
// requeridas → asociaciones opcionales → nota. Secuencia lineal; cada paso
// necesita el ID que devolvió el anterior.
//
// Semántica de pasos:
//   - crear quote, crear posiciones y asociar deal/plantilla/posiciones son
//     REQUERIDOS: su fallo aborta con *PipelineError (con el ledger).
//   - asociar empresa/contactos y la nota son OPCIONALES: el fallo se anota
//     en AssociationFailures y el pipeline sigue.
type Orchestrator struct {
	crm        CRMGateway
	schema     config.AssociationSchema
	templateID string
	log        *logger.Logger
}

// NewOrchestrator construye el orquestador. Los IDs de tipo de asociación y
// la plantilla llegan por configuración, nunca como literales en los pasos.
func NewOrchestrator(crm CRMGateway, schema config.AssociationSchema, templateID string, log *logger.Logger) *Orchestrator {
	return &Orchestrator{crm: crm, schema: schema, templateID: templateID, log: log}
}

// CreateQuote ejecuta el pipeline completo y devuelve el receipt.
// Solo falla si falla un paso requerido.
func (o *Orchestrator) CreateQuote(ctx context.Context, in CreateQuoteInput) (*entity.QuoteReceipt, error) {
	requestID := uuid.New().String()
	log := o.log.With().Str("request_id", requestID).Str("company_id", in.Plan.CompanyID).Logger()

	receipt := &entity.QuoteReceipt{
		Fingerprint:         in.Fingerprint,
		LineItemIDs:         []string{},
		AssociationFailures: []entity.AssociationFailure{},
	}

	// ── 1. Crear el quote DRAFT (REQUERIDO) ───────────────────────────────
	quote, err := o.crm.CreateObject(ctx, hubspot.ObjectQuotes, o.quoteProperties(in))
	if err != nil {
		return nil, &PipelineError{Step: "create-quote", Err: err}
	}
	receipt.QuoteID = quote.ID
	log.Info().Str("quote_id", quote.ID).Msg("quote creado en el CRM")

	// ── 2. Crear las posiciones (REQUERIDO, aborta en la primera que falle) ──
	for i, item := range in.Items {
		li, err := o.crm.CreateObject(ctx, hubspot.ObjectLineItems, lineItemProperties(item))
		if err != nil {
			return nil, &PipelineError{
				Step:        fmt.Sprintf("create-line-item[%d]", i),
				QuoteID:     receipt.QuoteID,
				LineItemIDs: receipt.LineItemIDs,
				Err:         err,
			}
		}
		receipt.LineItemIDs = append(receipt.LineItemIDs, li.ID)
	}

	// ── 3. Asociaciones requeridas, EN ORDEN: deal → plantilla → posiciones ──
	// El CRM valida el orden de asociación; invertirlo produce rechazos.
	if in.Plan.DealID != "" {
		if err := o.crm.Associate(ctx, hubspot.ObjectQuotes, receipt.QuoteID, hubspot.ObjectDeals, in.Plan.DealID, o.schema.QuoteToDeal); err != nil {
			return nil, o.requiredFailure("associate-deal", receipt, err)
		}
	}
	if o.templateID != "" {
		if err := o.crm.Associate(ctx, hubspot.ObjectQuotes, receipt.QuoteID, "quote_template", o.templateID, o.schema.QuoteToTemplate); err != nil {
			return nil, o.requiredFailure("associate-template", receipt, err)
		}
	}
	for _, liID := range receipt.LineItemIDs {
		if err := o.crm.Associate(ctx, hubspot.ObjectQuotes, receipt.QuoteID, hubspot.ObjectLineItems, liID, o.schema.QuoteToLineItem); err != nil {
			return nil, o.requiredFailure("associate-line-item", receipt, err)
		}
	}

	// ── 4. Asociaciones opcionales: cada destino se intenta por separado ──
	if err := o.crm.Associate(ctx, hubspot.ObjectQuotes, receipt.QuoteID, hubspot.ObjectCompanies, in.Plan.CompanyID, o.schema.QuoteToCompany); err != nil {
		receipt.AssociationFailures = append(receipt.AssociationFailures,
			entity.AssociationFailure{Target: "company", Reason: err.Error()})
		log.Warn().Err(err).Msg("asociación quote→empresa falló, se continúa")
	}
	for _, contactID := range in.ContactIDs {
		if err := o.crm.Associate(ctx, hubspot.ObjectQuotes, receipt.QuoteID, "contacts", contactID, o.schema.QuoteToContact); err != nil {
			receipt.AssociationFailures = append(receipt.AssociationFailures,
				entity.AssociationFailure{Target: "contact:" + contactID, Reason: err.Error()})
			log.Warn().Err(err).Str("contact_id", contactID).Msg("asociación quote→contacto falló, se continúa")
		}
	}

	// ── 5. Nota resumen (OPCIONAL) sobre el quote y el deal ───────────────
	if in.Note != "" {
		assocs := []hubspot.NoteAssociation{{ToID: receipt.QuoteID, TypeID: o.schema.NoteToQuote}}
		if in.Plan.DealID != "" {
			assocs = append(assocs, hubspot.NoteAssociation{ToID: in.Plan.DealID, TypeID: o.schema.NoteToDeal})
		}
		if _, err := o.crm.CreateNote(ctx, in.Note, assocs); err != nil {
			receipt.AssociationFailures = append(receipt.AssociationFailures,
				entity.AssociationFailure{Target: "note", Reason: err.Error()})
			log.Warn().Err(err).Msg("nota de resumen no se pudo crear, se continúa")
		} else {
			receipt.NoteCreated = true
		}
	}

	// ── 6. Releer el quote para devolver el link público (best effort) ────
	if final, err := o.crm.GetObject(ctx, hubspot.ObjectQuotes, receipt.QuoteID, []string{"hs_title", "hs_status", "hs_public_url"}); err == nil {
		receipt.PublicURL = final.Prop("hs_public_url")
	} else {
		log.Warn().Err(err).Msg("no se pudo releer el quote creado")
	}

	log.Info().
		Str("quote_id", receipt.QuoteID).
		Int("line_items", len(receipt.LineItemIDs)).
		Int("assoc_failures", len(receipt.AssociationFailures)).
		Msg("oferta creada")
	return receipt, nil
}

func (o *Orchestrator) requiredFailure(step string, receipt *entity.QuoteReceipt, err error) *PipelineError {
	return &PipelineError{Step: step, QuoteID: receipt.QuoteID, LineItemIDs: receipt.LineItemIDs, Err: err}
}

// quoteProperties properties del quote DRAFT. Expiración por defecto: 30 días.
func (o *Orchestrator) quoteProperties(in CreateQuoteInput) map[string]string {
	title := in.Plan.Title
	if title == "" {
		title = "Oferta"
		if in.CompanyName != "" {
			title = "Oferta – " + in.CompanyName
		}
	}
	exp := time.Now().AddDate(0, 0, 30)
	if in.Plan.ExpirationDate != nil {
		exp = *in.Plan.ExpirationDate
	}
	props := map[string]string{
		"hs_title":           title,
		"hs_status":          "DRAFT",
		"hs_language":        "pl",
		"hs_expiration_date": exp.Format("2006-01-02"),
	}
	if in.Plan.OwnerID != "" {
		props["hubspot_owner_id"] = in.Plan.OwnerID
	}
	if in.Fingerprint != "" {
		props["oferta_fingerprint"] = in.Fingerprint
	}
	return props
}

// lineItemProperties posiciones normales referencian el producto de catálogo;
// las pseudo-posiciones de descuento van sin producto, con precio negativo.
func lineItemProperties(item entity.QuoteBuildItem) map[string]string {
	qty := item.Qty
	if qty <= 0 {
		qty = 1
	}
	props := map[string]string{"quantity": fmt.Sprintf("%d", qty)}
	if item.Discount.IsPositive() {
		props["name"] = item.Name
		props["price"] = item.Discount.Neg().String()
		props["quantity"] = "1"
		return props
	}
	if item.ProductID != "" {
		props["hs_product_id"] = item.ProductID
	} else if item.Name != "" {
		props["name"] = item.Name
	}
	if item.UnitPrice != nil {
		props["price"] = item.UnitPrice.String()
	}
	return props
}
