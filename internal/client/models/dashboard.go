package models

// Dashboard payloads have no fixed schema on the client; they are rendered
// as key/value documents.
type (
	Stats           map[string]any
	Analytics       map[string]any
	CronPerformance map[string]any
	SearchTrends    map[string]any
)

type Notification struct {
	ID        ID     `json:"id"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// Periods accepted by the performance and trend endpoints.
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)
