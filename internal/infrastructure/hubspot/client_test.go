package hubspot_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epublink/oferta-api/internal/infrastructure/hubspot"
	"github.com/epublink/oferta-api/pkg/config"
	"github.com/epublink/oferta-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

// newTestClient apunta el cliente a un servidor de prueba con backoff de
// milisegundos para que los reintentos no alarguen la suite.
func newTestClient(baseURL string) *hubspot.Client {
	return hubspot.NewClient(config.HubSpotConfig{
		BaseURL:     baseURL,
		Token:       "test-token",
		MaxAttempts: 5,
		BackoffUnit: time.Millisecond,
	}, testLogger())
}

// ──────────────────────────────────────────────────────────────────────────────
// Política de reintentos
// ──────────────────────────────────────────────────────────────────────────────

// Dos 429 seguidos de un 200: el caller ve una sola llamada exitosa.
func TestDo_RecuperaTrasRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"id":"777"}`))
	}))
	defer srv.Close()

	raw, err := newTestClient(srv.URL).Do(context.Background(), http.MethodGet, "/crm/v3/objects/quotes/777", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "dos reintentos más el intento exitoso")

	var obj map[string]string
	require.NoError(t, json.Unmarshal(raw, &obj))
	assert.Equal(t, "777", obj["id"])
}

// Cinco 503 agotan los intentos: UpstreamError transitorio y ni una llamada más.
func TestDo_AgotaIntentosAnteCaidaPersistente(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Do(context.Background(), http.MethodGet, "/crm/v3/owners", nil)
	require.Error(t, err)
	assert.Equal(t, 5, calls, "exactamente MaxAttempts llamadas, nunca una sexta")

	var ue *hubspot.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.True(t, ue.Transient)
	assert.Equal(t, http.StatusServiceUnavailable, ue.StatusCode)
	assert.Equal(t, "/crm/v3/owners", ue.Path)
	assert.True(t, hubspot.IsTransient(err))
}

// Un 400 es culpa del caller: falla de inmediato, sin reintentos.
func TestDo_ErrorPermanenteNoReintenta(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"message":"invalid property"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Do(context.Background(), http.MethodPost, "/crm/v3/objects/quotes", map[string]string{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var ue *hubspot.UpstreamError
	require.ErrorAs(t, err, &ue)
	assert.False(t, ue.Transient)
	assert.Equal(t, http.StatusBadRequest, ue.StatusCode)
	assert.Contains(t, ue.Error(), "→ 400", "el mensaje lleva path, status y body")
}

// El Retry-After del servidor manda sobre el backoff exponencial.
func TestDo_RespetaRetryAfter(t *testing.T) {
	var calls int
	var gap time.Duration
	var last time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		now := time.Now()
		if calls == 2 {
			gap = now.Sub(last)
		}
		last = now
		if calls == 1 {
			w.Header().Set("Retry-After", "8")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Do(context.Background(), http.MethodGet, "/x", nil)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
	// Con backoff exponencial el primer intento esperaría 2 unidades;
	// el Retry-After de 8 debe imponerse.
	assert.GreaterOrEqual(t, gap, 8*time.Millisecond)
}

// Cancelar el contexto durante la espera corta el ciclo de reintentos.
func TestDo_ContextoCanceladoCortaLaEspera(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3600")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	// Backoff en segundos reales para que la espera sea larga de verdad.
	client := hubspot.NewClient(config.HubSpotConfig{
		BaseURL:     srv.URL,
		MaxAttempts: 5,
		BackoffUnit: time.Second,
	}, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Do(ctx, http.MethodGet, "/x", nil)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "no debe esperar la hora del Retry-After")
}

// ──────────────────────────────────────────────────────────────────────────────
// Operaciones sobre objetos
// ──────────────────────────────────────────────────────────────────────────────

// El header de autorización viaja en cada request.
func TestDo_EnviaBearerToken(t *testing.T) {
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Do(context.Background(), http.MethodGet, "/x", nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", auth)
}

// Un create que responde sin id es un error aunque el status sea 2xx.
func TestCreateObject_SinIDEsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"properties":{}}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateObject(context.Background(), hubspot.ObjectQuotes, map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sin id")
}

// BatchRead trocea los IDs en lotes de 100 (límite del endpoint).
func TestBatchRead_TroceaEnLotesDeCien(t *testing.T) {
	var batches []int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Inputs []struct {
				ID string `json:"id"`
			} `json:"inputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		batches = append(batches, len(body.Inputs))
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	ids := make([]string, 230)
	for i := range ids {
		ids[i] = "id"
	}
	_, err := newTestClient(srv.URL).BatchRead(context.Background(), hubspot.ObjectLineItems, ids, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 100, 30}, batches)
}

// ListAssociations normaliza las dos formas de respuesta del CRM
// (toObjectId plano y objeto anidado to.id).
func TestListAssociations_NormalizaAmbosFormatos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[
			{"toObjectId":123},
			{"to":{"id":"456"}}
		]}`))
	}))
	defer srv.Close()

	ids, err := newTestClient(srv.URL).ListAssociations(context.Background(), hubspot.ObjectDeals, "9", hubspot.ObjectQuotes, 100)
	require.NoError(t, err)
	assert.Equal(t, []string{"123", "456"}, ids)
}
