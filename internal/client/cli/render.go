package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

var (
	colorPrimary = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
	colorGreen   = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorAccent  = lipgloss.AdaptiveColor{Light: "#F25D94", Dark: "#F25D94"}

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDim)
	okStyle     = lipgloss.NewStyle().Foreground(colorGreen)
	errorStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if len(headers) > 0 {
		t = t.Headers(headers...)
	}
	return t.String()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func renderCompanies(list []models.Company) string {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{c.ID.String(), c.Name, c.Email, c.Sector, c.Country, yesNo(c.IsActive), c.CreatedAt})
	}
	return renderTable([]string{"ID", "NAME", "EMAIL", "SECTOR", "COUNTRY", "ACTIVE", "CREATED"}, rows)
}

func renderCrons(list []models.Cron) string {
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{
			c.ID.String(), c.CompanyID.String(), c.Name, strings.Join(c.Tags, ", "),
			yesNo(c.IsActive), strconv.Itoa(c.SearchCount), orDash(c.LastSearch),
		})
	}
	return renderTable([]string{"ID", "COMPANY", "NAME", "TAGS", "ACTIVE", "SEARCHES", "LAST SEARCH"}, rows)
}

func renderResults(list []models.SearchResult) string {
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		mark := ""
		if r.IsImportant {
			mark = "*"
		}
		rows = append(rows, []string{r.ID.String(), r.CronID.String(), mark, r.Date, r.Title, r.Source})
	}
	return renderTable([]string{"ID", "CRON", "!", "DATE", "TITLE", "SOURCE"}, rows)
}

func renderNotifications(list []models.Notification) string {
	rows := make([][]string, 0, len(list))
	for _, n := range list {
		rows = append(rows, []string{n.ID.String(), yesNo(n.Read), n.CreatedAt, n.Title, n.Message})
	}
	return renderTable([]string{"ID", "READ", "CREATED", "TITLE", "MESSAGE"}, rows)
}

// renderDoc shows a free-form dashboard document as a key/value table.
// Nested values are printed as compact JSON.
func renderDoc[M ~map[string]any](doc M) string {
	rows := make([][]string, 0, len(doc))
	for _, k := range slices.Sorted(maps.Keys(doc)) {
		rows = append(rows, []string{k, formatValue(doc[k])})
	}
	return renderTable([]string{"KEY", "VALUE"}, rows)
}

func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "-"
	case string:
		return x
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}
