package hubspot

import (
	"errors"
	"fmt"
)

// UpstreamError respuesta no-2xx del CRM, con el status y el body originales.
// Transient true = 429/5xx ya reintentado hasta agotar intentos;
// false = error permanente (4xx del caller), surgido sin reintentos.
type UpstreamError struct {
	Path       string
	StatusCode int
	Body       string
	Transient  bool
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s → %d %s", e.Path, e.StatusCode, e.Body)
}

// IsTransient informa si err es un UpstreamError transitorio (reintentos agotados).
func IsTransient(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue) && ue.Transient
}
