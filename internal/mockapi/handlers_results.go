package mockapi

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

var errResultMissing = fiber.NewError(fiber.StatusNotFound, "search result not found")

// resultFilter holds the query parameters accepted by the result lists.
type resultFilter struct {
	cronID    models.ID
	tag       string
	text      string
	from, to  string
	important bool
}

func parseResultFilter(c *fiber.Ctx) resultFilter {
	return resultFilter{
		cronID:    models.ID(strings.Clone(c.Query("cronId"))),
		tag:       strings.ToLower(c.Query("tag")),
		text:      strings.ToLower(c.Query("q")),
		from:      strings.Clone(c.Query("from")),
		to:        strings.Clone(c.Query("to")),
		important: c.QueryBool("important", false),
	}
}

func (f resultFilter) match(r models.SearchResult) bool {
	if f.cronID != "" && r.CronID != f.cronID {
		return false
	}
	if f.important && !r.IsImportant {
		return false
	}
	if f.from != "" && r.Date < f.from {
		return false
	}
	if f.to != "" && r.Date > f.to {
		return false
	}
	if f.tag != "" && !slices.ContainsFunc(r.Tags, func(t string) bool { return strings.ToLower(t) == f.tag }) {
		return false
	}
	if f.text != "" && !strings.Contains(strings.ToLower(r.Title+" "+r.Summary), f.text) {
		return false
	}
	return true
}

func (s *Server) filteredResults(c *fiber.Ctx, f resultFilter) []models.SearchResult {
	s.db.mu.Lock()
	all := s.db.visibleResults(companyScope(c))
	s.db.mu.Unlock()
	return slices.DeleteFunc(all, func(r models.SearchResult) bool { return !f.match(r) })
}

func (s *Server) listResults(c *fiber.Ctx) error {
	return c.JSON(s.filteredResults(c, parseResultFilter(c)))
}

func (s *Server) listResultsByCron(c *fiber.Ctx) error {
	f := parseResultFilter(c)
	f.cronID = models.ID(strings.Clone(c.Params("cronId")))

	s.db.mu.Lock()
	_, err := s.visibleCron(c, f.cronID)
	s.db.mu.Unlock()
	if err != nil {
		return err
	}
	return c.JSON(s.filteredResults(c, f))
}

// visibleResult returns the index of result id; callers hold db.mu.
func (s *Server) visibleResult(c *fiber.Ctx, id models.ID) (int, error) {
	i := s.db.resultIndex(id)
	if i < 0 {
		return -1, errResultMissing
	}
	if scope := companyScope(c); scope != "" && s.db.cronOwner(s.db.results[i].CronID) != scope {
		return -1, errForbidden
	}
	return i, nil
}

func (s *Server) deleteResult(c *fiber.Ctx) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i, err := s.visibleResult(c, models.ID(c.Params("id")))
	if err != nil {
		return err
	}
	s.db.results = slices.Delete(s.db.results, i, i+1)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) markImportant(c *fiber.Ctx) error {
	var body struct {
		IsImportant bool `json:"isImportant"`
	}
	if err := parseBody(c, &body); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i, err := s.visibleResult(c, models.ID(c.Params("id")))
	if err != nil {
		return err
	}
	s.db.results[i].IsImportant = body.IsImportant
	return c.JSON(cloneResult(s.db.results[i]))
}

// exportResults renders the selected results (all visible ones when no ids
// are given) as CSV or JSON.
func (s *Server) exportResults(c *fiber.Ctx) error {
	var req models.ExportRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.Format == "" {
		req.Format = models.ExportCSV
	}

	selected := s.filteredResults(c, resultFilter{})
	if len(req.ResultIDs) > 0 {
		selected = slices.DeleteFunc(selected, func(r models.SearchResult) bool {
			return !slices.Contains(req.ResultIDs, r.ID)
		})
	}

	switch req.Format {
	case models.ExportCSV:
		data, err := resultsCSV(selected)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		return c.Send(data)
	case models.ExportJSON:
		data, err := json.Marshal(selected)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unsupported export format: "+req.Format)
	}
}

func resultsCSV(results []models.SearchResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"id", "cronId", "title", "source", "date", "tags", "important"})
	for _, r := range results {
		important := "false"
		if r.IsImportant {
			important = "true"
		}
		_ = w.Write([]string{r.ID.String(), r.CronID.String(), r.Title, r.Source, r.Date,
			strings.Join(r.Tags, ";"), important})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
