package mockapi

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
	"github.com/dmitrijs2005/marketsupervisor/internal/common"
)

var errCronMissing = fiber.NewError(fiber.StatusNotFound, "cron not found")

func (s *Server) today() string { return s.now().Format(time.DateOnly) }

// visibleCron returns the index of cron id; callers hold db.mu.
func (s *Server) visibleCron(c *fiber.Ctx, id models.ID) (int, error) {
	i := s.db.cronIndex(id)
	if i < 0 {
		return -1, errCronMissing
	}
	if scope := companyScope(c); scope != "" && s.db.crons[i].CompanyID != scope {
		return -1, errForbidden
	}
	return i, nil
}

// listCrons filters by the companyId query parameter. Company principals
// only ever see their own crons.
func (s *Server) listCrons(c *fiber.Ctx) error {
	scope := companyScope(c)
	want := models.ID(c.Query("companyId"))
	if scope != "" && want != "" && want != scope {
		return errForbidden
	}
	if want == "" {
		want = scope
	}
	s.db.mu.Lock()
	out := s.db.visibleCrons(want)
	s.db.mu.Unlock()
	return c.JSON(out)
}

func (s *Server) getCron(c *fiber.Ctx) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i, err := s.visibleCron(c, models.ID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(s.db.crons[i])
}

func validationError(err error) error {
	if errors.Is(err, common.ErrValidation) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return err
}

func (s *Server) createCron(c *fiber.Ctx) error {
	var in models.CronInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	if err := in.Validate(); err != nil {
		return validationError(err)
	}
	if scope := companyScope(c); scope != "" && in.CompanyID != scope {
		return errForbidden
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.companyIndex(in.CompanyID) < 0 {
		return errCompanyMissing
	}
	cron := models.Cron{
		ID: s.db.nextID(), CompanyID: in.CompanyID, Name: in.Name, Tags: in.Tags,
		IsActive: true, CreatedAt: s.today(),
	}
	s.db.crons = append(s.db.crons, cron)
	s.logger.Info(c.UserContext(), "cron created", "id", cron.ID, "company", cron.CompanyID)
	return c.Status(fiber.StatusCreated).JSON(cloneCron(cron))
}

func (s *Server) updateCron(c *fiber.Ctx) error {
	var patch models.CronPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i, err := s.visibleCron(c, models.ID(c.Params("id")))
	if err != nil {
		return err
	}
	cron := s.db.crons[i]
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "cron name is required")
		}
		cron.Name = name
	}
	if patch.Tags != nil {
		tags := models.NormalizeTags(patch.Tags)
		if len(tags) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "at least one tag is required")
		}
		cron.Tags = tags
	}
	if patch.CompanyID != nil && *patch.CompanyID != cron.CompanyID {
		if companyScope(c) != "" {
			return errForbidden
		}
		if s.db.companyIndex(*patch.CompanyID) < 0 {
			return errCompanyMissing
		}
		cron.CompanyID = *patch.CompanyID
	}
	if patch.IsActive != nil {
		cron.IsActive = *patch.IsActive
	}
	s.db.crons[i] = cron
	return c.JSON(cloneCron(cron))
}

// deleteCron removes the cron and its results.
func (s *Server) deleteCron(c *fiber.Ctx) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i, err := s.visibleCron(c, models.ID(c.Params("id")))
	if err != nil {
		return err
	}
	id := s.db.crons[i].ID
	s.db.crons = slices.Delete(s.db.crons, i, i+1)
	s.db.results = slices.DeleteFunc(s.db.results, func(r models.SearchResult) bool {
		return r.CronID == id
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// executeCron simulates a manual run: one new result tagged like the cron,
// updated counters and a notification.
func (s *Server) executeCron(c *fiber.Ctx) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i, err := s.visibleCron(c, models.ID(c.Params("id")))
	if err != nil {
		return err
	}
	cron := &s.db.crons[i]
	if !cron.IsActive {
		return fiber.NewError(fiber.StatusConflict, "cron is inactive")
	}

	now := s.now()
	day := now.Format(time.DateOnly)
	result := models.SearchResult{
		ID:      s.db.nextID(),
		CronID:  cron.ID,
		Title:   fmt.Sprintf("%s: new match", cron.Name),
		Summary: fmt.Sprintf("Result found for tags %s.", strings.Join(cron.Tags, ", ")),
		Date:    day,
		Tags:    slices.Clone(cron.Tags),
	}
	result.Source = "https://search.marketsupervisor.tg/results/" + result.ID.String()
	s.db.results = append(s.db.results, result)

	cron.SearchCount++
	cron.LastSearch = strptr(day)
	cron.LastRunAt = strptr(now.UTC().Format(time.RFC3339))

	s.db.notifications = append(s.db.notifications, models.Notification{
		ID:        s.db.nextID(),
		Title:     "Cron executed",
		Message:   fmt.Sprintf("%s found 1 new result", cron.Name),
		CreatedAt: day,
	})

	return c.JSON(fiber.Map{
		"cronId":     cron.ID,
		"newResults": 1,
		"resultIds":  []models.ID{result.ID},
		"executedAt": *cron.LastRunAt,
	})
}
