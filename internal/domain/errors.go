package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrModuleOwned    = errors.New("el módulo ya está contratado por la empresa")
	ErrUnknownTier    = errors.New("tier de precios desconocido")
	ErrEmptySelection = errors.New("la oferta no tiene posiciones")
)
