package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

func (c *HTTPClient) Stats(ctx context.Context) (models.Stats, error) {
	out := models.Stats{}
	err := c.do(ctx, call{
		op: "failed to fetch dashboard stats", method: http.MethodGet, path: pathStats, resource: ResourceDashboard,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Analytics(ctx context.Context, filters map[string]string) (models.Analytics, error) {
	out := models.Analytics{}
	err := c.do(ctx, call{
		op: "failed to fetch analytics", method: http.MethodGet, path: pathAnalytics,
		query: Query(filters), resource: ResourceDashboard,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CronPerformance(ctx context.Context, period string) (models.CronPerformance, error) {
	out := models.CronPerformance{}
	err := c.do(ctx, call{
		op: "failed to fetch cron performance", method: http.MethodGet, path: pathCronPerformance,
		query: Query(map[string]string{"period": period}), resource: ResourceDashboard,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) Notifications(ctx context.Context) ([]models.Notification, error) {
	var out []models.Notification
	err := c.do(ctx, call{
		op: "failed to fetch notifications", method: http.MethodGet, path: pathNotifications, resource: ResourceDashboard,
	}, &out)
	return out, err
}

func (c *HTTPClient) MarkNotificationRead(ctx context.Context, id models.ID) error {
	return c.do(ctx, call{
		op: "failed to mark notification as read", method: http.MethodPatch, path: pathNotificationRd,
		params: map[string]any{"id": id}, resource: ResourceDashboard,
	}, nil)
}

func (c *HTTPClient) SearchTrends(ctx context.Context, period string) (models.SearchTrends, error) {
	out := models.SearchTrends{}
	err := c.do(ctx, call{
		op: "failed to fetch search trends", method: http.MethodGet, path: pathSearchTrends,
		query: Query(map[string]string{"period": period}), resource: ResourceDashboard,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
