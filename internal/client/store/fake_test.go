package store

import (
	"context"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/client"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

// fakeAPI implements client.Client; unset funcs return zero values.
type fakeAPI struct {
	login       func(context.Context, models.Credentials) (*models.LoginResponse, error)
	logout      func(context.Context) error
	verify      func(context.Context) (*models.User, error)
	listComp    func(context.Context) ([]models.Company, error)
	createComp  func(context.Context, models.CompanyInput) (*models.Company, error)
	updateComp  func(context.Context, models.ID, models.CompanyPatch) (*models.Company, error)
	listCrons   func(context.Context, models.ID) ([]models.Cron, error)
	createCron  func(context.Context, models.CronInput) (*models.Cron, error)
	updateCron  func(context.Context, models.ID, models.CronPatch) (*models.Cron, error)
	listResults func(context.Context, map[string]string) ([]models.SearchResult, error)
	markImp     func(context.Context, models.ID, bool) (*models.SearchResult, error)
	stats       func(context.Context) (models.Stats, error)
	analytics   func(context.Context, map[string]string) (models.Analytics, error)

	createCronCalls int
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) Login(ctx context.Context, c models.Credentials) (*models.LoginResponse, error) {
	return f.login(ctx, c)
}

func (f *fakeAPI) AdminLogin(ctx context.Context, c models.Credentials) (*models.LoginResponse, error) {
	return f.login(ctx, c)
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	if f.logout == nil {
		return nil
	}
	return f.logout(ctx)
}

func (f *fakeAPI) Register(context.Context, models.Registration) (*models.LoginResponse, error) {
	return &models.LoginResponse{}, nil
}

func (f *fakeAPI) ForgotPassword(context.Context, string) (*models.Message, error) {
	return &models.Message{}, nil
}

func (f *fakeAPI) ResetPassword(context.Context, string, string) (*models.Message, error) {
	return &models.Message{}, nil
}

func (f *fakeAPI) VerifyToken(ctx context.Context) (*models.User, error) { return f.verify(ctx) }

func (f *fakeAPI) RefreshToken(context.Context) (string, error) { return "t", nil }

func (f *fakeAPI) Ping(context.Context) error { return nil }

func (f *fakeAPI) ListCompanies(ctx context.Context) ([]models.Company, error) { return f.listComp(ctx) }

func (f *fakeAPI) GetCompany(_ context.Context, id models.ID) (*models.Company, error) {
	return &models.Company{ID: id}, nil
}

func (f *fakeAPI) CreateCompany(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	return f.createComp(ctx, in)
}

func (f *fakeAPI) UpdateCompany(ctx context.Context, id models.ID, p models.CompanyPatch) (*models.Company, error) {
	return f.updateComp(ctx, id, p)
}

func (f *fakeAPI) DeleteCompany(context.Context, models.ID) error { return nil }

func (f *fakeAPI) ListCrons(ctx context.Context, companyID models.ID) ([]models.Cron, error) {
	return f.listCrons(ctx, companyID)
}

func (f *fakeAPI) GetCron(_ context.Context, id models.ID) (*models.Cron, error) {
	return &models.Cron{ID: id}, nil
}

func (f *fakeAPI) CreateCron(ctx context.Context, in models.CronInput) (*models.Cron, error) {
	f.createCronCalls++
	return f.createCron(ctx, in)
}

func (f *fakeAPI) UpdateCron(ctx context.Context, id models.ID, p models.CronPatch) (*models.Cron, error) {
	return f.updateCron(ctx, id, p)
}

func (f *fakeAPI) DeleteCron(context.Context, models.ID) error { return nil }

func (f *fakeAPI) ExecuteCron(context.Context, models.ID) (models.ExecuteResult, error) {
	return models.ExecuteResult{}, nil
}

func (f *fakeAPI) ListSearchResults(ctx context.Context, filters map[string]string) ([]models.SearchResult, error) {
	return f.listResults(ctx, filters)
}

func (f *fakeAPI) ListSearchResultsByCron(context.Context, models.ID, map[string]string) ([]models.SearchResult, error) {
	return nil, nil
}

func (f *fakeAPI) DeleteSearchResult(context.Context, models.ID) error { return nil }

func (f *fakeAPI) ExportSearchResults(context.Context, []models.ID, string) ([]byte, error) {
	return []byte("csv"), nil
}

func (f *fakeAPI) MarkImportant(ctx context.Context, id models.ID, imp bool) (*models.SearchResult, error) {
	return f.markImp(ctx, id, imp)
}

func (f *fakeAPI) Stats(ctx context.Context) (models.Stats, error) { return f.stats(ctx) }

func (f *fakeAPI) Analytics(ctx context.Context, filters map[string]string) (models.Analytics, error) {
	if f.analytics == nil {
		return models.Analytics{}, nil
	}
	return f.analytics(ctx, filters)
}

func (f *fakeAPI) CronPerformance(context.Context, string) (models.CronPerformance, error) {
	return models.CronPerformance{}, nil
}

func (f *fakeAPI) Notifications(context.Context) ([]models.Notification, error) { return nil, nil }

func (f *fakeAPI) MarkNotificationRead(context.Context, models.ID) error { return nil }

func (f *fakeAPI) SearchTrends(context.Context, string) (models.SearchTrends, error) {
	return models.SearchTrends{}, nil
}

type fakeTokens struct{ cleared int }

func (f *fakeTokens) Clear(context.Context) error {
	f.cleared++
	return nil
}
