package quoting

import (
	"context"
	"sort"

	"github.com/epublink/oferta-api/internal/application/dto"
	"github.com/epublink/oferta-api/internal/domain"
	"github.com/epublink/oferta-api/internal/infrastructure/hubspot"
	"github.com/epublink/oferta-api/pkg/logger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var quoteProps = []string{"hs_title", "hs_status", "hs_public_url", "hs_createdate", "hs_expiration_date", "hs_total_amount", "amount"}

var lineItemProps = []string{"name", "quantity", "price", "hs_discount_percentage", "hs_discount", "amount"}

// QuoteReader agregación de lectura: deal → quotes → posiciones.
// Solo consultas; usa el mismo cliente con reintentos que el orquestador.
type QuoteReader struct {
	crm CRMGateway
	log *logger.Logger
}

// NewQuoteReader construye el lector.
func NewQuoteReader(crm CRMGateway, log *logger.Logger) *QuoteReader {
	return &QuoteReader{crm: crm, log: log}
}

// QuotesByDeal lista las ofertas del deal con sus posiciones, más recientes
// primero. Las posiciones de cada oferta se leen en paralelo: son lecturas
// independientes e idempotentes.
func (r *QuoteReader) QuotesByDeal(ctx context.Context, dealID string) ([]dto.QuoteSummary, error) {
	if dealID == "" {
		return nil, domain.ErrInvalidInput
	}
	quoteIDs, err := r.crm.ListAssociations(ctx, hubspot.ObjectDeals, dealID, hubspot.ObjectQuotes, 100)
	if err != nil {
		return nil, err
	}
	if len(quoteIDs) == 0 {
		return []dto.QuoteSummary{}, nil
	}

	quotes, err := r.crm.BatchRead(ctx, hubspot.ObjectQuotes, quoteIDs, quoteProps)
	if err != nil {
		return nil, err
	}

	// Cada goroutine escribe su propio índice; no hace falta lock.
	summaries := make([]dto.QuoteSummary, len(quotes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, q := range quotes {
		i, q := i, q
		g.Go(func() error {
			items, err := r.lineItemsOfQuote(gctx, q.ID)
			if err != nil {
				return err
			}
			summaries[i] = summarizeQuote(q)
			summaries[i].LineItems = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt > summaries[j].CreatedAt
	})
	return summaries, nil
}

// QuoteDetails lee una oferta puntual con sus posiciones.
func (r *QuoteReader) QuoteDetails(ctx context.Context, quoteID string) (*dto.QuoteDetailsResponse, error) {
	if quoteID == "" {
		return nil, domain.ErrInvalidInput
	}
	quote, err := r.crm.GetObject(ctx, hubspot.ObjectQuotes, quoteID, quoteProps)
	if err != nil {
		return nil, err
	}
	items, err := r.lineItemsOfQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	return &dto.QuoteDetailsResponse{
		ID:         quote.ID,
		Properties: quote.Properties,
		LineItems:  items,
	}, nil
}

func (r *QuoteReader) lineItemsOfQuote(ctx context.Context, quoteID string) ([]dto.LineItemResponse, error) {
	liIDs, err := r.crm.ListAssociations(ctx, hubspot.ObjectQuotes, quoteID, hubspot.ObjectLineItems, 200)
	if err != nil {
		return nil, err
	}
	if len(liIDs) == 0 {
		return []dto.LineItemResponse{}, nil
	}
	objs, err := r.crm.BatchRead(ctx, hubspot.ObjectLineItems, liIDs, lineItemProps)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LineItemResponse, len(objs))
	for i, o := range objs {
		items[i] = summarizeLineItem(o)
	}
	return items, nil
}

func summarizeQuote(q hubspot.Object) dto.QuoteSummary {
	amount := parseCRMMoney(q.Prop("hs_total_amount"))
	if amount.IsZero() {
		amount = parseCRMMoney(q.Prop("amount"))
	}
	title := q.Prop("hs_title")
	if title == "" {
		title = "Quote " + q.ID
	}
	return dto.QuoteSummary{
		ID:         q.ID,
		Title:      title,
		Status:     q.Prop("hs_status"),
		PublicURL:  q.Prop("hs_public_url"),
		Amount:     amount,
		CreatedAt:  q.Prop("hs_createdate"),
		Expiration: q.Prop("hs_expiration_date"),
	}
}

// summarizeLineItem total de línea = qty × precio, menos el descuento
// porcentual o de monto si alguno viene cargado; nunca negativo.
func summarizeLineItem(o hubspot.Object) dto.LineItemResponse {
	qty := parseCRMMoney(o.Prop("quantity"))
	unit := parseCRMMoney(o.Prop("price"))
	discPct := parseCRMMoney(o.Prop("hs_discount_percentage"))
	discAmt := parseCRMMoney(o.Prop("hs_discount"))

	total := qty.Mul(unit)
	switch {
	case !discPct.IsZero():
		total = total.Mul(decimal.NewFromInt(100).Sub(discPct)).Div(decimal.NewFromInt(100))
	case !discAmt.IsZero():
		total = total.Sub(discAmt)
		if total.IsNegative() {
			total = decimal.Zero
		}
	}

	return dto.LineItemResponse{
		ID:              o.ID,
		Name:            o.Prop("name"),
		Qty:             qty,
		UnitPrice:       unit,
		DiscountPercent: discPct,
		DiscountAmount:  discAmt,
		LineTotal:       total,
	}
}
