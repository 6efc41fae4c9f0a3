package hubspot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// SearchCompanies busca empresas por nombre o dominio (CONTAINS_TOKEN).
func (c *Client) SearchCompanies(ctx context.Context, query string, limit int) ([]Object, error) {
	if limit <= 0 {
		limit = 10
	}
	body := searchRequest{
		FilterGroups: []filterGroup{
			{Filters: []filter{{PropertyName: "name", Operator: "CONTAINS_TOKEN", Value: query}}},
			{Filters: []filter{{PropertyName: "domain", Operator: "CONTAINS_TOKEN", Value: query}}},
		},
		Properties: []string{"name", "domain"},
		Limit:      limit,
	}
	raw, err := c.Do(ctx, http.MethodPost, "/crm/v3/objects/companies/search", body)
	if err != nil {
		return nil, err
	}
	var res searchResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("hubspot: respuesta de búsqueda de empresas: %w", err)
	}
	return res.Results, nil
}

// ListOwners lista los propietarios activos del portal.
func (c *Client) ListOwners(ctx context.Context) ([]Owner, error) {
	raw, err := c.Do(ctx, http.MethodGet, "/crm/v3/owners?archived=false&limit=200", nil)
	if err != nil {
		return nil, err
	}
	var res ownersResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("hubspot: respuesta de owners: %w", err)
	}
	return res.Results, nil
}
