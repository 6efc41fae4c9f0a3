package quoting

import (
	"context"

	"github.com/epublink/oferta-api/internal/infrastructure/hubspot"
)

// CRMGateway puerto de salida hacia el CRM. La implementación concreta es
// hubspot.Client; para tests se inyecta un fake.
type CRMGateway interface {
	CreateObject(ctx context.Context, objectType string, props map[string]string) (hubspot.Object, error)
	GetObject(ctx context.Context, objectType, id string, props []string) (hubspot.Object, error)
	Associate(ctx context.Context, fromType, fromID, toType, toID string, typeID int) error
	ListAssociations(ctx context.Context, fromType, fromID, toType string, limit int) ([]string, error)
	BatchRead(ctx context.Context, objectType string, ids, props []string) ([]hubspot.Object, error)
	SearchCompanies(ctx context.Context, query string, limit int) ([]hubspot.Object, error)
	ListOwners(ctx context.Context) ([]hubspot.Owner, error)
	CreateNote(ctx context.Context, noteBody string, assocs []hubspot.NoteAssociation) (string, error)
}
