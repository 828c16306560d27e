package mockapi

import (
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

var periodDays = map[string]int{
	models.PeriodDay:   1,
	models.PeriodWeek:  7,
	models.PeriodMonth: 30,
	models.PeriodYear:  365,
}

// period reads the period query parameter, defaulting to a week.
func period(c *fiber.Ctx) (string, int, error) {
	p := c.Query("period", models.PeriodWeek)
	days, ok := periodDays[p]
	if !ok {
		return "", 0, fiber.NewError(fiber.StatusBadRequest, "unknown period: "+p)
	}
	return strings.Clone(p), days, nil
}

func (s *Server) stats(c *fiber.Ctx) error {
	scope := companyScope(c)
	s.db.mu.Lock()
	crons := s.db.visibleCrons(scope)
	results := s.db.visibleResults(scope)
	companies := len(s.db.companies)
	s.db.mu.Unlock()
	if scope != "" {
		companies = 1
	}

	active, searches, important := 0, 0, 0
	for _, cr := range crons {
		if cr.IsActive {
			active++
		}
		searches += cr.SearchCount
	}
	for _, r := range results {
		if r.IsImportant {
			important++
		}
	}
	return c.JSON(fiber.Map{
		"totalCompanies":   companies,
		"totalCrons":       len(crons),
		"activeCrons":      active,
		"totalResults":     len(results),
		"importantResults": important,
		"totalSearches":    searches,
	})
}

// analytics counts results per tag, day and cron within the optional
// from/to date range.
func (s *Server) analytics(c *fiber.Ctx) error {
	results := s.filteredResults(c, resultFilter{from: strings.Clone(c.Query("from")), to: strings.Clone(c.Query("to"))})
	byTag := map[string]int{}
	byDate := map[string]int{}
	byCron := map[string]int{}
	for _, r := range results {
		for _, t := range r.Tags {
			byTag[t]++
		}
		byDate[r.Date]++
		byCron[r.CronID.String()]++
	}
	return c.JSON(fiber.Map{
		"totalResults":  len(results),
		"resultsByTag":  byTag,
		"resultsByDate": byDate,
		"resultsByCron": byCron,
	})
}

func (s *Server) cronPerformance(c *fiber.Ctx) error {
	p, _, err := period(c)
	if err != nil {
		return err
	}
	scope := companyScope(c)
	s.db.mu.Lock()
	crons := s.db.visibleCrons(scope)
	results := s.db.visibleResults(scope)
	s.db.mu.Unlock()

	perCron := map[models.ID]int{}
	for _, r := range results {
		perCron[r.CronID]++
	}
	rows := make([]fiber.Map, 0, len(crons))
	for _, cr := range crons {
		rows = append(rows, fiber.Map{
			"id":          cr.ID,
			"name":        cr.Name,
			"isActive":    cr.IsActive,
			"searchCount": cr.SearchCount,
			"results":     perCron[cr.ID],
		})
	}
	return c.JSON(fiber.Map{"period": p, "crons": rows})
}

// searchTrends reports the number of results per day over the period
// ending today.
func (s *Server) searchTrends(c *fiber.Ctx) error {
	p, days, err := period(c)
	if err != nil {
		return err
	}
	end := s.now()
	from := end.AddDate(0, 0, -(days - 1)).Format(time.DateOnly)
	results := s.filteredResults(c, resultFilter{from: from, to: end.Format(time.DateOnly)})

	counts := map[string]int{}
	for _, r := range results {
		counts[r.Date]++
	}
	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	trend := make([]fiber.Map, 0, len(dates))
	for _, d := range dates {
		trend = append(trend, fiber.Map{"date": d, "count": counts[d]})
	}
	return c.JSON(fiber.Map{"period": p, "from": from, "total": len(results), "trends": trend})
}

func (s *Server) notifications(c *fiber.Ctx) error {
	s.db.mu.Lock()
	out := slices.Clone(s.db.notifications)
	s.db.mu.Unlock()
	return c.JSON(out)
}

func (s *Server) markNotificationRead(c *fiber.Ctx) error {
	id := models.ID(c.Params("id"))
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := slices.IndexFunc(s.db.notifications, func(n models.Notification) bool { return n.ID == id })
	if i < 0 {
		return fiber.NewError(fiber.StatusNotFound, "notification not found")
	}
	s.db.notifications[i].Read = true
	return c.JSON(models.Message{Message: "notification marked as read"})
}
