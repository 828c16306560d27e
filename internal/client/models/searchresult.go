package models

// SearchResult is one item produced by running a cron. Read-only on the
// client apart from the importance flag.
type SearchResult struct {
	ID          ID       `json:"id"`
	CronID      ID       `json:"cronId"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Source      string   `json:"source"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	IsImportant bool     `json:"isImportant,omitempty"`
}

// Export formats accepted by the backend.
const (
	ExportCSV  = "csv"
	ExportJSON = "json"
	ExportXLSX = "xlsx"
)

// ExportRequest selects results to export.
type ExportRequest struct {
	ResultIDs []ID   `json:"resultIds"`
	Format    string `json:"format"`
}
