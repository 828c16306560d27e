package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

var testNow = time.Date(2024, 3, 16, 10, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New("test-secret", WithClock(func() time.Time { return testNow }))
}

func call(t *testing.T, s *Server, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}

func message(t *testing.T, data []byte) string {
	return decode[models.Message](t, data).Message
}

func login(t *testing.T, s *Server, email, password string) string {
	t.Helper()
	code, data := call(t, s, http.MethodPost, "/auth/companies/login", "", models.Credentials{Email: email, Password: password})
	require.Equal(t, http.StatusOK, code, string(data))
	return decode[models.LoginResponse](t, data).AccessToken
}

func adminLogin(t *testing.T, s *Server) string {
	t.Helper()
	code, data := call(t, s, http.MethodPost, "/auth/users/login", "", models.Credentials{Email: SeedAdminEmail, Password: SeedAdminPassword})
	require.Equal(t, http.StatusOK, code, string(data))
	return decode[models.LoginResponse](t, data).AccessToken
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, data := call(t, s, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"status":"ok"}`, string(data))
}

func TestCompanyLogin(t *testing.T) {
	s := newTestServer(t)

	code, data := call(t, s, http.MethodPost, "/auth/companies/login", "",
		models.Credentials{Email: "contact@techsolutions.tg", Password: SeedCompanyPassword})
	require.Equal(t, http.StatusOK, code)
	resp := decode[models.LoginResponse](t, data)
	require.NotNil(t, resp.Company)
	assert.Nil(t, resp.User)
	assert.Equal(t, models.ID("1"), resp.Company.ID)
	assert.Equal(t, RoleCompany, resp.Company.Role)
	assert.NotEmpty(t, resp.AccessToken)
	created, ok := resp.Company.Attr("createdAt")
	require.True(t, ok, "the principal carries the full company record")
	assert.JSONEq(t, `"2024-01-15"`, string(created))

	claims, err := ParseToken(resp.AccessToken, []byte("test-secret"), func() time.Time { return testNow })
	require.NoError(t, err)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, testNow.Add(DefaultTokenTTL).Unix(), claims.ExpiresAt.Unix())
}

func TestCompanyLogin_WrongPassword(t *testing.T) {
	s := newTestServer(t)
	code, data := call(t, s, http.MethodPost, "/auth/companies/login", "",
		models.Credentials{Email: "contact@techsolutions.tg", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid email or password", message(t, data))
}

func TestAdminLogin(t *testing.T) {
	s := newTestServer(t)
	code, data := call(t, s, http.MethodPost, "/auth/users/login", "",
		models.Credentials{Email: SeedAdminEmail, Password: SeedAdminPassword})
	require.Equal(t, http.StatusOK, code)
	resp := decode[models.LoginResponse](t, data)
	require.NotNil(t, resp.User)
	assert.True(t, resp.User.IsAdmin())
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/companies", "/crons", "/search-results", "/dashboard/stats", "/auth/verify"} {
		code, data := call(t, s, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)
		assert.Equal(t, "missing bearer token", message(t, data), path)
	}

	code, data := call(t, s, http.MethodGet, "/companies", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid or expired token", message(t, data))
}

func TestExpiredToken(t *testing.T) {
	s := newTestServer(t)
	token, err := GenerateToken("1", RoleCompany, []byte("test-secret"), testNow.Add(-2*time.Hour), time.Hour)
	require.NoError(t, err)

	code, _ := call(t, s, http.MethodGet, "/companies", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)
	code, data := call(t, s, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.NotEmpty(t, message(t, data))
}

func TestCompanyScope(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "contact@techsolutions.tg", SeedCompanyPassword)

	code, data := call(t, s, http.MethodGet, "/companies", token, nil)
	require.Equal(t, http.StatusOK, code)
	companies := decode[[]models.Company](t, data)
	require.Len(t, companies, 1)
	assert.Equal(t, "Tech Solutions SARL", companies[0].Name)

	code, data = call(t, s, http.MethodGet, "/crons", token, nil)
	require.Equal(t, http.StatusOK, code)
	crons := decode[[]models.Cron](t, data)
	require.Len(t, crons, 2)
	assert.Equal(t, models.ID("1"), crons[0].ID)
	assert.Equal(t, models.ID("2"), crons[1].ID)

	code, _ = call(t, s, http.MethodGet, "/crons/3", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, s, http.MethodGet, "/crons?companyId=2", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = call(t, s, http.MethodGet, "/companies/2", token, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, data = call(t, s, http.MethodGet, "/search-results", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.SearchResult](t, data), 3)
}

func TestAdminCompanies(t *testing.T) {
	s := newTestServer(t)
	token := adminLogin(t, s)

	code, data := call(t, s, http.MethodPost, "/companies", token,
		models.CompanyInput{Name: "Agro Togo", Email: "hello@agro.tg", Country: "Togo"})
	require.Equal(t, http.StatusCreated, code, string(data))
	created := decode[models.Company](t, data)
	assert.Equal(t, "2024-03-16", created.CreatedAt)
	assert.True(t, created.IsActive)

	code, _ = call(t, s, http.MethodPost, "/companies", token,
		models.CompanyInput{Name: "Dup", Email: "hello@agro.tg"})
	assert.Equal(t, http.StatusConflict, code)

	name := "Agro Togo SA"
	code, data = call(t, s, http.MethodPatch, "/companies/"+created.ID.String(), token, models.CompanyPatch{Name: &name})
	require.Equal(t, http.StatusOK, code)
	updated := decode[models.Company](t, data)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, "hello@agro.tg", updated.Email)

	code, _ = call(t, s, http.MethodDelete, "/companies/1", token, nil)
	assert.Equal(t, http.StatusNoContent, code)

	code, data = call(t, s, http.MethodGet, "/crons", token, nil)
	require.Equal(t, http.StatusOK, code)
	crons := decode[[]models.Cron](t, data)
	require.Len(t, crons, 1)
	assert.Equal(t, models.ID("3"), crons[0].ID)

	code, data = call(t, s, http.MethodGet, "/search-results", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.SearchResult](t, data), 1)
}

func TestCompanyCannotCreateCompanies(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "contact@techsolutions.tg", SeedCompanyPassword)
	code, data := call(t, s, http.MethodPost, "/companies", token, models.CompanyInput{Name: "X", Email: "x@x.tg"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "access denied", message(t, data))
}

func TestCreateCron(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "contact@techsolutions.tg", SeedCompanyPassword)

	code, data := call(t, s, http.MethodPost, "/crons", token,
		models.CronInput{CompanyID: "1", Name: "Mines", Tags: []string{" ", ""}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, message(t, data), "at least one tag is required")

	code, data = call(t, s, http.MethodPost, "/crons", token,
		models.CronInput{CompanyID: "1", Name: "Mines", Tags: []string{"mines", "Togo", "mines"}})
	require.Equal(t, http.StatusCreated, code, string(data))
	cron := decode[models.Cron](t, data)
	assert.Equal(t, models.ID("1"), cron.CompanyID)
	assert.Equal(t, []string{"mines", "Togo"}, cron.Tags)
	assert.True(t, cron.IsActive)
	assert.Zero(t, cron.SearchCount)
	assert.Nil(t, cron.LastSearch)
	assert.Equal(t, "2024-03-16", cron.CreatedAt)

	code, _ = call(t, s, http.MethodPost, "/crons", token,
		models.CronInput{CompanyID: "2", Name: "Other", Tags: []string{"x"}})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestUpdateAndExecuteCron(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "contact@techsolutions.tg", SeedCompanyPassword)

	off := false
	code, data := call(t, s, http.MethodPatch, "/crons/1", token, models.CronPatch{IsActive: &off})
	require.Equal(t, http.StatusOK, code)
	assert.False(t, decode[models.Cron](t, data).IsActive)

	code, data = call(t, s, http.MethodPost, "/crons/1/execute", token, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "cron is inactive", message(t, data))

	on := true
	code, _ = call(t, s, http.MethodPatch, "/crons/1", token, models.CronPatch{IsActive: &on})
	require.Equal(t, http.StatusOK, code)

	code, data = call(t, s, http.MethodPost, "/crons/1/execute", token, nil)
	require.Equal(t, http.StatusOK, code, string(data))
	res := decode[map[string]any](t, data)
	assert.EqualValues(t, 1, res["newResults"])

	code, data = call(t, s, http.MethodGet, "/crons/1", token, nil)
	require.Equal(t, http.StatusOK, code)
	cron := decode[models.Cron](t, data)
	assert.Equal(t, 46, cron.SearchCount)
	require.NotNil(t, cron.LastSearch)
	assert.Equal(t, "2024-03-16", *cron.LastSearch)
	require.NotNil(t, cron.LastRunAt)

	code, data = call(t, s, http.MethodGet, "/search-results/cron/1", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.SearchResult](t, data), 3)

	code, data = call(t, s, http.MethodGet, "/dashboard/notifications", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.Notification](t, data), 3)
}

func TestUpdateCron_RejectsEmptyTags(t *testing.T) {
	s := newTestServer(t)
	token := adminLogin(t, s)
	code, _ := call(t, s, http.MethodPatch, "/crons/1", token, models.CronPatch{Tags: []string{"  "}})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestDeleteCron(t *testing.T) {
	s := newTestServer(t)
	token := adminLogin(t, s)

	code, _ := call(t, s, http.MethodDelete, "/crons/1", token, nil)
	require.Equal(t, http.StatusNoContent, code)

	code, _ = call(t, s, http.MethodGet, "/crons/1", token, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, data := call(t, s, http.MethodGet, "/search-results", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.SearchResult](t, data), 2)
}

func TestSearchResultFilters(t *testing.T) {
	s := newTestServer(t)
	token := adminLogin(t, s)

	tests := []struct {
		query string
		want  []models.ID
	}{
		{"", []models.ID{"1", "2", "3", "4"}},
		{"?tag=solaire", []models.ID{"3"}},
		{"?cronId=1", []models.ID{"1", "2"}},
		{"?from=2024-03-15", []models.ID{"1", "4"}},
		{"?q=kara", []models.ID{"4"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			code, data := call(t, s, http.MethodGet, "/search-results"+tt.query, token, nil)
			require.Equal(t, http.StatusOK, code)
			var got []models.ID
			for _, r := range decode[[]models.SearchResult](t, data) {
				got = append(got, r.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarkImportantAndDelete(t *testing.T) {
	s := newTestServer(t)
	token := adminLogin(t, s)

	code, data := call(t, s, http.MethodPatch, "/search-results/2/important", token, map[string]bool{"isImportant": true})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, decode[models.SearchResult](t, data).IsImportant)

	code, data = call(t, s, http.MethodGet, "/search-results?important=true", token, nil)
	require.Equal(t, http.StatusOK, code)
	got := decode[[]models.SearchResult](t, data)
	require.Len(t, got, 1)
	assert.Equal(t, models.ID("2"), got[0].ID)

	code, _ = call(t, s, http.MethodDelete, "/search-results/2", token, nil)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = call(t, s, http.MethodDelete, "/search-results/2", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)
	token := adminLogin(t, s)

	code, data := call(t, s, http.MethodPost, "/search-results/export", token,
		models.ExportRequest{ResultIDs: []models.ID{"1", "4"}, Format: models.ExportCSV})
	require.Equal(t, http.StatusOK, code)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,cronId,title,source,date,tags,important", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,1,"))
	assert.True(t, strings.HasPrefix(lines[2], "4,3,"))

	code, data = call(t, s, http.MethodPost, "/search-results/export", token,
		models.ExportRequest{Format: models.ExportJSON})
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, decode[[]models.SearchResult](t, data), 4)

	code, data = call(t, s, http.MethodPost, "/search-results/export", token,
		models.ExportRequest{Format: models.ExportXLSX})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "unsupported export format: xlsx", message(t, data))
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := login(t, s, "contact@techsolutions.tg", SeedCompanyPassword)

	code, data := call(t, s, http.MethodGet, "/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, code)
	verified := decode[map[string]models.User](t, data)
	assert.Equal(t, "contact@techsolutions.tg", verified["company"].Email)

	code, _ = call(t, s, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, s, http.MethodGet, "/auth/verify", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRefresh(t *testing.T) {
	s := newTestServer(t)
	token := adminLogin(t, s)

	code, data := call(t, s, http.MethodPost, "/auth/refresh", token, nil)
	require.Equal(t, http.StatusOK, code)
	fresh := decode[models.TokenResponse](t, data).Value()
	require.NotEmpty(t, fresh)
	assert.NotEqual(t, token, fresh)

	code, _ = call(t, s, http.MethodGet, "/auth/verify", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, data = call(t, s, http.MethodGet, "/auth/verify", fresh, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, SeedAdminEmail, decode[map[string]models.User](t, data)["user"].Email)
}

func TestRegisterAndPasswordReset(t *testing.T) {
	s := newTestServer(t)

	reg := models.Registration{Name: "Agro", Email: "agro@agro.tg", Password: "first"}
	code, data := call(t, s, http.MethodPost, "/auth/register", "", reg)
	require.Equal(t, http.StatusCreated, code, string(data))
	assert.NotEmpty(t, decode[models.LoginResponse](t, data).AccessToken)

	code, _ = call(t, s, http.MethodPost, "/auth/register", "", reg)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = call(t, s, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "agro@agro.tg"})
	require.Equal(t, http.StatusOK, code)

	var resetToken string
	s.DB().mu.Lock()
	for tok := range s.DB().resetTokens {
		resetToken = tok
	}
	s.DB().mu.Unlock()
	require.NotEmpty(t, resetToken)

	code, _ = call(t, s, http.MethodPost, "/auth/reset-password", "", map[string]string{"token": "bogus", "newPassword": "x"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = call(t, s, http.MethodPost, "/auth/reset-password", "", map[string]string{"token": resetToken, "newPassword": "second"})
	require.Equal(t, http.StatusOK, code)

	login(t, s, "agro@agro.tg", "second")
	code, _ = call(t, s, http.MethodPost, "/auth/companies/login", "", models.Credentials{Email: "agro@agro.tg", Password: "first"})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	s := newTestServer(t)
	code, _ := call(t, s, http.MethodPost, "/auth/forgot-password", "", map[string]string{"email": "ghost@x.tg"})
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, s.DB().resetTokens)
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)
	token := adminLogin(t, s)

	code, data := call(t, s, http.MethodGet, "/dashboard/stats", token, nil)
	require.Equal(t, http.StatusOK, code)
	stats := decode[map[string]float64](t, data)
	assert.Equal(t, 2.0, stats["totalCompanies"])
	assert.Equal(t, 3.0, stats["totalCrons"])
	assert.Equal(t, 4.0, stats["totalResults"])
	assert.Equal(t, 135.0, stats["totalSearches"])

	code, data = call(t, s, http.MethodGet, "/dashboard/analytics", token, nil)
	require.Equal(t, http.StatusOK, code)
	analytics := decode[map[string]any](t, data)
	assert.EqualValues(t, 3, analytics["resultsByTag"].(map[string]any)["construction"])

	code, data = call(t, s, http.MethodGet, "/dashboard/search-trends?period=week", token, nil)
	require.Equal(t, http.StatusOK, code)
	trends := decode[map[string]any](t, data)
	assert.Equal(t, "2024-03-10", trends["from"])
	assert.EqualValues(t, 4, trends["total"])

	code, data = call(t, s, http.MethodGet, "/dashboard/cron-performance?period=fortnight", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "unknown period: fortnight", message(t, data))

	code, data = call(t, s, http.MethodGet, "/dashboard/cron-performance", token, nil)
	require.Equal(t, http.StatusOK, code)
	perf := decode[map[string]any](t, data)
	assert.Equal(t, "week", perf["period"])
	assert.Len(t, perf["crons"], 3)

	code, _ = call(t, s, http.MethodPatch, "/dashboard/notifications/1/read", token, nil)
	require.Equal(t, http.StatusOK, code)
	code, data = call(t, s, http.MethodGet, "/dashboard/notifications", token, nil)
	require.Equal(t, http.StatusOK, code)
	for _, n := range decode[[]models.Notification](t, data) {
		assert.True(t, n.Read, n.ID)
	}

	code, _ = call(t, s, http.MethodPatch, "/dashboard/notifications/99/read", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
