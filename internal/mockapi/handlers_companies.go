package mockapi

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

var (
	errForbidden      = fiber.NewError(fiber.StatusForbidden, "access denied")
	errCompanyMissing = fiber.NewError(fiber.StatusNotFound, "company not found")
)

func requireAdmin(c *fiber.Ctx) error {
	if p := principal(c); p == nil || p.Role != RoleAdmin {
		return errForbidden
	}
	return nil
}

// visibleCompany returns the index of company id; callers hold db.mu.
func (s *Server) visibleCompany(c *fiber.Ctx, id models.ID) (int, error) {
	if scope := companyScope(c); scope != "" && scope != id {
		return -1, errForbidden
	}
	i := s.db.companyIndex(id)
	if i < 0 {
		return -1, errCompanyMissing
	}
	return i, nil
}

func (s *Server) listCompanies(c *fiber.Ctx) error {
	scope := companyScope(c)
	s.db.mu.Lock()
	out := make([]models.Company, 0, len(s.db.companies))
	for _, co := range s.db.companies {
		if scope == "" || co.ID == scope {
			out = append(out, co)
		}
	}
	s.db.mu.Unlock()
	return c.JSON(out)
}

func (s *Server) getCompany(c *fiber.Ctx) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i, err := s.visibleCompany(c, models.ID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(s.db.companies[i])
}

func (s *Server) createCompany(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	var in models.CompanyInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "company name and email are required")
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if s.db.emailTaken(in.Email) {
		return fiber.NewError(fiber.StatusConflict, "email already registered")
	}
	co := models.Company{
		ID: s.db.nextID(), Name: in.Name, Email: in.Email, Telephone: in.Telephone,
		Country: in.Country, Sector: in.Sector, Website: in.Website,
		IsActive: true, CreatedAt: s.today(),
	}
	s.db.companies = append(s.db.companies, co)
	if in.Password != "" {
		s.db.passwords[co.ID] = hashPassword(in.Password)
	}
	return c.Status(fiber.StatusCreated).JSON(co)
}

func (s *Server) updateCompany(c *fiber.Ctx) error {
	var patch models.CompanyPatch
	if err := parseBody(c, &patch); err != nil {
		return err
	}

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i, err := s.visibleCompany(c, models.ID(c.Params("id")))
	if err != nil {
		return err
	}
	co := &s.db.companies[i]
	if patch.Name != nil {
		co.Name = *patch.Name
	}
	if patch.Email != nil {
		co.Email = *patch.Email
	}
	if patch.Telephone != nil {
		co.Telephone = *patch.Telephone
	}
	if patch.Country != nil {
		co.Country = *patch.Country
	}
	if patch.Sector != nil {
		co.Sector = *patch.Sector
	}
	if patch.Website != nil {
		co.Website = *patch.Website
	}
	if patch.IsActive != nil {
		co.IsActive = *patch.IsActive
	}
	return c.JSON(*co)
}

// deleteCompany removes the company together with its crons and their
// results.
func (s *Server) deleteCompany(c *fiber.Ctx) error {
	if err := requireAdmin(c); err != nil {
		return err
	}
	id := models.ID(c.Params("id"))

	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	i := s.db.companyIndex(id)
	if i < 0 {
		return errCompanyMissing
	}
	s.db.companies = slices.Delete(s.db.companies, i, i+1)
	delete(s.db.passwords, id)

	owned := map[models.ID]bool{}
	s.db.crons = slices.DeleteFunc(s.db.crons, func(cr models.Cron) bool {
		if cr.CompanyID == id {
			owned[cr.ID] = true
			return true
		}
		return false
	})
	s.db.results = slices.DeleteFunc(s.db.results, func(r models.SearchResult) bool {
		return owned[r.CronID]
	})
	return c.SendStatus(fiber.StatusNoContent)
}
