package client

// Endpoint templates relative to the server URL.
const (
	pathCompanyLogin    = "/auth/companies/login"
	pathAdminLogin      = "/auth/users/login"
	pathLogout          = "/auth/logout"
	pathRegister        = "/auth/register"
	pathForgotPassword  = "/auth/forgot-password"
	pathResetPassword   = "/auth/reset-password"
	pathVerify          = "/auth/verify"
	pathRefresh         = "/auth/refresh"
	pathHealth          = "/health"
	pathCompanies       = "/companies"
	pathCompany         = "/companies/:id"
	pathCrons           = "/crons"
	pathCron            = "/crons/:id"
	pathCronExecute     = "/crons/:id/execute"
	pathSearchResults   = "/search-results"
	pathResultsByCron   = "/search-results/cron/:cronId"
	pathSearchResult    = "/search-results/:id"
	pathResultImportant = "/search-results/:id/important"
	pathResultsExport   = "/search-results/export"
	pathStats           = "/dashboard/stats"
	pathAnalytics       = "/dashboard/analytics"
	pathCronPerformance = "/dashboard/cron-performance"
	pathNotifications   = "/dashboard/notifications"
	pathNotificationRd  = "/dashboard/notifications/:id/read"
	pathSearchTrends    = "/dashboard/search-trends"
)
