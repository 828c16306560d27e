package client

import (
	"context"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

type AuthClient interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	AdminLogin(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, data models.Registration) (*models.LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) (*models.Message, error)
	ResetPassword(ctx context.Context, token, newPassword string) (*models.Message, error)
	VerifyToken(ctx context.Context) (*models.User, error)
	RefreshToken(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
}

type CompanyClient interface {
	ListCompanies(ctx context.Context) ([]models.Company, error)
	GetCompany(ctx context.Context, id models.ID) (*models.Company, error)
	CreateCompany(ctx context.Context, in models.CompanyInput) (*models.Company, error)
	UpdateCompany(ctx context.Context, id models.ID, patch models.CompanyPatch) (*models.Company, error)
	DeleteCompany(ctx context.Context, id models.ID) error
}

type CronClient interface {
	ListCrons(ctx context.Context, companyID models.ID) ([]models.Cron, error)
	GetCron(ctx context.Context, id models.ID) (*models.Cron, error)
	CreateCron(ctx context.Context, in models.CronInput) (*models.Cron, error)
	UpdateCron(ctx context.Context, id models.ID, patch models.CronPatch) (*models.Cron, error)
	DeleteCron(ctx context.Context, id models.ID) error
	ExecuteCron(ctx context.Context, id models.ID) (models.ExecuteResult, error)
}

type SearchResultClient interface {
	ListSearchResults(ctx context.Context, filters map[string]string) ([]models.SearchResult, error)
	ListSearchResultsByCron(ctx context.Context, cronID models.ID, filters map[string]string) ([]models.SearchResult, error)
	DeleteSearchResult(ctx context.Context, id models.ID) error
	ExportSearchResults(ctx context.Context, ids []models.ID, format string) ([]byte, error)
	MarkImportant(ctx context.Context, id models.ID, important bool) (*models.SearchResult, error)
}

type DashboardClient interface {
	Stats(ctx context.Context) (models.Stats, error)
	Analytics(ctx context.Context, filters map[string]string) (models.Analytics, error)
	CronPerformance(ctx context.Context, period string) (models.CronPerformance, error)
	Notifications(ctx context.Context) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id models.ID) error
	SearchTrends(ctx context.Context, period string) (models.SearchTrends, error)
}

// Client is the full API surface used by the store.
type Client interface {
	AuthClient
	CompanyClient
	CronClient
	SearchResultClient
	DashboardClient
}

var _ Client = (*HTTPClient)(nil)
