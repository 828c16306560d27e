package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

// ListCrons returns all crons visible to the session, or only those of
// companyID when it is set.
func (c *HTTPClient) ListCrons(ctx context.Context, companyID models.ID) ([]models.Cron, error) {
	var out []models.Cron
	err := c.do(ctx, call{
		op: "failed to fetch crons", method: http.MethodGet, path: pathCrons,
		query: Query(map[string]string{"companyId": companyID.String()}), resource: ResourceCrons,
	}, &out)
	return out, err
}

func (c *HTTPClient) GetCron(ctx context.Context, id models.ID) (*models.Cron, error) {
	var out models.Cron
	err := c.do(ctx, call{
		op: "failed to fetch cron", method: http.MethodGet, path: pathCron,
		params: map[string]any{"id": id}, resource: ResourceCrons,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateCron(ctx context.Context, in models.CronInput) (*models.Cron, error) {
	var out models.Cron
	err := c.do(ctx, call{
		op: "failed to create cron", method: http.MethodPost, path: pathCrons,
		payload: in, resource: ResourceCrons,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateCron(ctx context.Context, id models.ID, patch models.CronPatch) (*models.Cron, error) {
	var out models.Cron
	err := c.do(ctx, call{
		op: "failed to update cron", method: http.MethodPatch, path: pathCron,
		params: map[string]any{"id": id}, payload: patch, resource: ResourceCrons,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteCron(ctx context.Context, id models.ID) error {
	return c.do(ctx, call{
		op: "failed to delete cron", method: http.MethodDelete, path: pathCron,
		params: map[string]any{"id": id}, resource: ResourceCrons,
	}, nil)
}

// ExecuteCron triggers an immediate run.
func (c *HTTPClient) ExecuteCron(ctx context.Context, id models.ID) (models.ExecuteResult, error) {
	out := models.ExecuteResult{}
	err := c.do(ctx, call{
		op: "failed to execute cron", method: http.MethodPost, path: pathCronExecute,
		params: map[string]any{"id": id}, resource: ResourceCrons,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
