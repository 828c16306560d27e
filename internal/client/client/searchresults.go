package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

func (c *HTTPClient) ListSearchResults(ctx context.Context, filters map[string]string) ([]models.SearchResult, error) {
	var out []models.SearchResult
	err := c.do(ctx, call{
		op: "failed to fetch search results", method: http.MethodGet, path: pathSearchResults,
		query: Query(filters), resource: ResourceSearchResults,
	}, &out)
	return out, err
}

func (c *HTTPClient) ListSearchResultsByCron(ctx context.Context, cronID models.ID, filters map[string]string) ([]models.SearchResult, error) {
	var out []models.SearchResult
	err := c.do(ctx, call{
		op: "failed to fetch search results", method: http.MethodGet, path: pathResultsByCron,
		params: map[string]any{"cronId": cronID}, query: Query(filters), resource: ResourceSearchResults,
	}, &out)
	return out, err
}

func (c *HTTPClient) DeleteSearchResult(ctx context.Context, id models.ID) error {
	return c.do(ctx, call{
		op: "failed to delete search result", method: http.MethodDelete, path: pathSearchResult,
		params: map[string]any{"id": id}, resource: ResourceSearchResults,
	}, nil)
}

// ExportSearchResults returns the exported document as the backend produced
// it; the content depends on format.
func (c *HTTPClient) ExportSearchResults(ctx context.Context, ids []models.ID, format string) ([]byte, error) {
	if format == "" {
		format = models.ExportCSV
	}
	return c.send(ctx, call{
		op: "failed to export search results", method: http.MethodPost, path: pathResultsExport,
		payload: models.ExportRequest{ResultIDs: ids, Format: format},
	})
}

func (c *HTTPClient) MarkImportant(ctx context.Context, id models.ID, important bool) (*models.SearchResult, error) {
	var out models.SearchResult
	err := c.do(ctx, call{
		op: "failed to update search result", method: http.MethodPatch, path: pathResultImportant,
		params: map[string]any{"id": id}, payload: map[string]bool{"isImportant": important},
		resource: ResourceSearchResults,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
