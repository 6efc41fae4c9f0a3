package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublink/oferta-api/internal/application/dto"
	"github.com/epublink/oferta-api/internal/application/quoting"
	"github.com/epublink/oferta-api/internal/domain/catalog"
	"github.com/epublink/oferta-api/internal/infrastructure/hubspot"
	apphttp "github.com/epublink/oferta-api/internal/interfaces/http"
	"github.com/epublink/oferta-api/pkg/config"
	"github.com/epublink/oferta-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// stubCRM CRM en memoria: una empresa fija y creación de objetos secuencial.
type stubCRM struct {
	company       hubspot.Object
	nextID        int
	failLineItems bool
}

var errStub = errors.New("stub CRM failure")

func (s *stubCRM) CreateObject(_ context.Context, objectType string, _ map[string]string) (hubspot.Object, error) {
	if objectType == hubspot.ObjectLineItems && s.failLineItems {
		return hubspot.Object{}, errStub
	}
	s.nextID++
	return hubspot.Object{ID: fmt.Sprintf("%s-%d", objectType, s.nextID)}, nil
}

func (s *stubCRM) GetObject(_ context.Context, objectType, id string, _ []string) (hubspot.Object, error) {
	if objectType == hubspot.ObjectCompanies {
		return s.company, nil
	}
	return hubspot.Object{ID: id}, nil
}

func (s *stubCRM) Associate(context.Context, string, string, string, string, int) error { return nil }

func (s *stubCRM) ListAssociations(context.Context, string, string, string, int) ([]string, error) {
	return nil, nil
}

func (s *stubCRM) BatchRead(context.Context, string, []string, []string) ([]hubspot.Object, error) {
	return nil, nil
}

func (s *stubCRM) SearchCompanies(context.Context, string, int) ([]hubspot.Object, error) {
	return nil, nil
}

func (s *stubCRM) ListOwners(context.Context) ([]hubspot.Owner, error) { return nil, nil }

func (s *stubCRM) CreateNote(context.Context, string, []hubspot.NoteAssociation) (string, error) {
	return "note-1", nil
}

// buildTestApp arma la aplicación completa sobre el CRM de prueba.
func buildTestApp(crm quoting.CRMGateway) *fiber.App {
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	cat := catalog.Default()
	companies := quoting.NewCompanyService(crm, log)
	orch := quoting.NewOrchestrator(crm, config.AssociationSchema{QuoteToDeal: 64, QuoteToLineItem: 67}, "", log)
	quotes := quoting.NewQuoteService(companies, orch, cat, log)
	reader := quoting.NewQuoteReader(crm, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Catalog:   cat,
		Companies: companies,
		Quotes:    quotes,
		Reader:    reader,
		CRM:       crm,
	})
	return app
}

func testCompany() hubspot.Object {
	return hubspot.Object{
		ID: "c-1",
		Properties: map[string]string{
			"name":                    "Gmina Testowa",
			"subscription_tier":       "Plus",
			"aktywne_produkty_glowne": "ePublink Umowy",
		},
	}
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/quotes
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateQuote_ModoPlan(t *testing.T) {
	app := buildTestApp(&stubCRM{company: testCompany()})

	resp := postJSON(t, app, "/api/quotes", dto.CreateQuoteRequest{
		CompanyID:   "c-1",
		DealID:      "d-1",
		Tier:        "Plus",
		PackageMode: true,
		Modules:     []string{"WPF"},
		ExtraSeats:  2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	receipt := decodeBody[map[string]any](t, resp)
	assert.NotEmpty(t, receipt["quoteId"])
	assert.NotEmpty(t, receipt["fingerprint"])
	// módulo + usuarios + rabat (WPF nuevo + UMOWY posiadany = 2 módulos)
	assert.Len(t, receipt["createdLineItemIds"], 3)
}

func TestCreateQuote_SinEmpresaEs400(t *testing.T) {
	app := buildTestApp(&stubCRM{company: testCompany()})

	resp := postJSON(t, app, "/api/quotes", dto.CreateQuoteRequest{Tier: "Plus"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Seleccionar un módulo ya contratado es un error de validación, no del CRM.
func TestCreateQuote_ModuloContratadoEs400(t *testing.T) {
	app := buildTestApp(&stubCRM{company: testCompany()})

	resp := postJSON(t, app, "/api/quotes", dto.CreateQuoteRequest{
		CompanyID: "c-1",
		Tier:      "Plus",
		Modules:   []string{"UMOWY"},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	errBody := decodeBody[dto.ErrorResponse](t, resp)
	assert.Equal(t, "create-quote failed", errBody.Error)
}

func TestCreateQuote_TierDesconocidoEs400(t *testing.T) {
	app := buildTestApp(&stubCRM{company: testCompany()})

	resp := postJSON(t, app, "/api/quotes", dto.CreateQuoteRequest{
		CompanyID: "c-1",
		Tier:      "Gold",
		Modules:   []string{"WPF"},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Un fallo a mitad del pipeline devuelve 500 con el ledger de lo ya creado.
func TestCreateQuote_FalloDelPipelineLlevaElLedger(t *testing.T) {
	app := buildTestApp(&stubCRM{company: testCompany(), failLineItems: true})

	resp := postJSON(t, app, "/api/quotes", dto.CreateQuoteRequest{
		CompanyID: "c-1",
		Tier:      "Plus",
		Modules:   []string{"WPF"},
	})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	errBody := decodeBody[dto.ErrorResponse](t, resp)
	assert.NotEmpty(t, errBody.QuoteID, "el quote ya creado viaja en el error")
	assert.Empty(t, errBody.CreatedLineItemIDs)
}

// ──────────────────────────────────────────────────────────────────────────────
// POST /api/quotes/preview
// ──────────────────────────────────────────────────────────────────────────────

func TestPreview_DevuelveElDesglose(t *testing.T) {
	app := buildTestApp(&stubCRM{company: testCompany()})

	resp := postJSON(t, app, "/api/quotes/preview", dto.PreviewQuoteRequest{
		CompanyID:   "c-1",
		Tier:        "Plus",
		PackageMode: true,
		Modules:     []string{"WPF"},
		ExtraSeats:  2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	pricing := decodeBody[dto.PricingResponse](t, resp)
	require.Len(t, pricing.Lines, 2)
	// WPF Plus 4690 + 2×690 − rabat 300 = 5770
	assert.Equal(t, "300", pricing.BundleDiscount.String())
	assert.Equal(t, "5770", pricing.NetPayable.String())
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/catalog
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_ListaModulosYTiers(t *testing.T) {
	app := buildTestApp(&stubCRM{company: testCompany()})

	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cat := decodeBody[dto.CatalogResponse](t, resp)
	assert.Len(t, cat.MainProducts, 4)
	assert.Equal(t, []string{"Solo", "Plus", "Pro", "Max"}, cat.Tiers)
	assert.NotEmpty(t, cat.ExtraSeats.ProductID)
}
