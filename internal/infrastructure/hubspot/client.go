package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/epublink/oferta-api/pkg/config"
	"github.com/epublink/oferta-api/pkg/logger"
)

// Client cliente HTTP del CRM con reintentos ante rate-limit y errores de
// servidor. Una sola llamada Do() esconde todo el ciclo de retry.
//
// Política:
//   - 429 y 5xx se reintentan hasta MaxAttempts (5) con espera
//     min(2^intento, 10) segundos, o el Retry-After del servidor si viene.
//   - Cualquier otro non-2xx es error del caller: falla de inmediato, sin retry.
//   - Agotados los intentos se devuelve *UpstreamError con Transient=true.
type Client struct {
	baseURL     string
	token       string
	maxAttempts int
	backoffUnit time.Duration
	httpClient  *http.Client
	log         *logger.Logger
}

// NewClient construye el cliente. El timeout de red es generoso (60 s) porque
// la API del CRM puede tardar varios segundos bajo carga.
func NewClient(cfg config.HubSpotConfig, log *logger.Logger) *Client {
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = 5
	}
	unit := cfg.BackoffUnit
	if unit <= 0 {
		unit = time.Second
	}
	return &Client{
		baseURL:     cfg.BaseURL,
		token:       cfg.Token,
		maxAttempts: attempts,
		backoffUnit: unit,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		log:         log,
	}
}

// Do ejecuta method path contra el CRM con body JSON opcional y devuelve el
// body crudo de la respuesta. Los reintentos son internos; el caller ve una
// sola llamada síncrona.
func (c *Client) Do(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("hubspot: serializar body de %s: %w", path, err)
		}
	}

	for attempt := 1; ; attempt++ {
		respBody, status, retryAfter, err := c.roundTrip(ctx, method, path, payload)
		if err != nil {
			return nil, err
		}

		if status == http.StatusTooManyRequests || (status >= 500 && status < 600) {
			if attempt >= c.maxAttempts {
				return nil, &UpstreamError{Path: path, StatusCode: status, Body: string(respBody), Transient: true}
			}
			wait := c.backoffFor(attempt, retryAfter)
			c.log.Warn().
				Str("path", path).
				Int("status", status).
				Int("attempt", attempt).
				Dur("wait", wait).
				Msg("CRM limitado o caído, reintentando")
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			continue
		}

		if status < 200 || status >= 300 {
			return nil, &UpstreamError{Path: path, StatusCode: status, Body: string(respBody)}
		}
		return respBody, nil
	}
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte) (body []byte, status int, retryAfter int, err error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("hubspot: armar request %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("hubspot: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("hubspot: leer respuesta de %s: %w", path, err)
	}
	retryAfter, _ = strconv.Atoi(resp.Header.Get("Retry-After"))
	return body, resp.StatusCode, retryAfter, nil
}

// backoffFor espera antes del siguiente intento: Retry-After del servidor si
// vino, si no min(2^intento, 10) unidades (segundos en producción).
func (c *Client) backoffFor(attempt, retryAfter int) time.Duration {
	units := retryAfter
	if units <= 0 {
		units = 1 << attempt
		if units > 10 {
			units = 10
		}
	}
	return time.Duration(units) * c.backoffUnit
}
