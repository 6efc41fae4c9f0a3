package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Tipos de objeto CRM usados por la aplicación.
const (
	ObjectCompanies = "companies"
	ObjectDeals     = "deals"
	ObjectQuotes    = "quotes"
	ObjectLineItems = "line_items"
	ObjectProducts  = "products"
	ObjectNotes     = "notes"
)

// CreateObject crea un objeto CRM (quote, line_item, ...) y devuelve el
// resultado con su ID asignado.
func (c *Client) CreateObject(ctx context.Context, objectType string, props map[string]string) (Object, error) {
	raw, err := c.Do(ctx, http.MethodPost, "/crm/v3/objects/"+objectType, createObjectBody{Properties: props})
	if err != nil {
		return Object{}, err
	}
	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Object{}, fmt.Errorf("hubspot: respuesta de create %s: %w", objectType, err)
	}
	if obj.ID == "" {
		return Object{}, fmt.Errorf("hubspot: create %s devolvió un objeto sin id", objectType)
	}
	return obj, nil
}

// GetObject lee un objeto con las properties pedidas.
func (c *Client) GetObject(ctx context.Context, objectType, id string, props []string) (Object, error) {
	path := fmt.Sprintf("/crm/v3/objects/%s/%s", objectType, id)
	if len(props) > 0 {
		path += "?properties=" + url.QueryEscape(strings.Join(props, ","))
	}
	raw, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Object{}, err
	}
	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Object{}, fmt.Errorf("hubspot: respuesta de get %s/%s: %w", objectType, id, err)
	}
	return obj, nil
}

// Associate crea la asociación tipada from→to (PUT v4, HUBSPOT_DEFINED).
func (c *Client) Associate(ctx context.Context, fromType, fromID, toType, toID string, typeID int) error {
	path := fmt.Sprintf("/crm/v4/objects/%s/%s/associations/%s/%s", fromType, fromID, toType, toID)
	_, err := c.Do(ctx, http.MethodPut, path, putAssociationBody{
		Types: []associationSpec{{AssociationCategory: "HUBSPOT_DEFINED", AssociationTypeID: typeID}},
	})
	return err
}

// ListAssociations devuelve los IDs asociados from→to (v4).
func (c *Client) ListAssociations(ctx context.Context, fromType, fromID, toType string, limit int) ([]string, error) {
	path := fmt.Sprintf("/crm/v4/objects/%s/%s/associations/%s", fromType, fromID, toType)
	if limit > 0 {
		path += fmt.Sprintf("?limit=%d", limit)
	}
	raw, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var list associationList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("hubspot: respuesta de asociaciones %s/%s: %w", fromType, fromID, err)
	}
	ids := make([]string, 0, len(list.Results))
	for _, e := range list.Results {
		if id := e.ToID(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// BatchRead lee hasta 100 objetos por llamada (límite del endpoint batch).
func (c *Client) BatchRead(ctx context.Context, objectType string, ids, props []string) ([]Object, error) {
	var out []Object
	for start := 0; start < len(ids); start += 100 {
		end := start + 100
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]
		body := batchReadRequest{Properties: props, Inputs: make([]batchInput, len(chunk))}
		for i, id := range chunk {
			body.Inputs[i] = batchInput{ID: id}
		}
		raw, err := c.Do(ctx, http.MethodPost, fmt.Sprintf("/crm/v3/objects/%s/batch/read", objectType), body)
		if err != nil {
			return nil, err
		}
		var res batchReadResult
		if err := json.Unmarshal(raw, &res); err != nil {
			return nil, fmt.Errorf("hubspot: respuesta de batch read %s: %w", objectType, err)
		}
		out = append(out, res.Results...)
	}
	return out, nil
}

// CreateNote crea una nota con sus asociaciones declaradas inline
// (una sola llamada: la nota sin asociar no sirve de nada).
func (c *Client) CreateNote(ctx context.Context, noteBody string, assocs []NoteAssociation) (string, error) {
	body := createObjectBody{
		Properties: map[string]string{
			"hs_note_body": noteBody,
			"hs_timestamp": fmt.Sprintf("%d", time.Now().UnixMilli()),
		},
	}
	for _, a := range assocs {
		var ia inlineAssociation
		ia.To.ID = a.ToID
		ia.Types = []associationSpec{{AssociationCategory: "HUBSPOT_DEFINED", AssociationTypeID: a.TypeID}}
		body.Associations = append(body.Associations, ia)
	}
	raw, err := c.Do(ctx, http.MethodPost, "/crm/v3/objects/"+ObjectNotes, body)
	if err != nil {
		return "", err
	}
	var obj Object
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("hubspot: respuesta de create note: %w", err)
	}
	return obj.ID, nil
}
