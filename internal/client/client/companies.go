package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

func (c *HTTPClient) ListCompanies(ctx context.Context) ([]models.Company, error) {
	var out []models.Company
	err := c.do(ctx, call{
		op: "failed to fetch companies", method: http.MethodGet, path: pathCompanies, resource: ResourceCompanies,
	}, &out)
	return out, err
}

func (c *HTTPClient) GetCompany(ctx context.Context, id models.ID) (*models.Company, error) {
	var out models.Company
	err := c.do(ctx, call{
		op: "failed to fetch company", method: http.MethodGet, path: pathCompany,
		params: map[string]any{"id": id}, resource: ResourceCompanies,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateCompany(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	var out models.Company
	err := c.do(ctx, call{
		op: "failed to create company", method: http.MethodPost, path: pathCompanies,
		payload: in, resource: ResourceCompanies,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateCompany(ctx context.Context, id models.ID, patch models.CompanyPatch) (*models.Company, error) {
	var out models.Company
	err := c.do(ctx, call{
		op: "failed to update company", method: http.MethodPatch, path: pathCompany,
		params: map[string]any{"id": id}, payload: patch, resource: ResourceCompanies,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteCompany(ctx context.Context, id models.ID) error {
	return c.do(ctx, call{
		op: "failed to delete company", method: http.MethodDelete, path: pathCompany,
		params: map[string]any{"id": id}, resource: ResourceCompanies,
	}, nil)
}
