package store

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

// FetchCompanies replaces the company collection with the backend's list.
func (s *Store) FetchCompanies(ctx context.Context) ([]models.Company, error) {
	r := s.begin(FamilyCompanies, slotCompanies)
	list, err := s.api.ListCompanies(ctx)
	s.finish(ctx, r, err, func(st *State) {
		st.Companies = slices.Clone(list)
		if st.Companies == nil {
			st.Companies = []models.Company{}
		}
	})
	return list, err
}

// FetchCompany loads one company and upserts it by id.
func (s *Store) FetchCompany(ctx context.Context, id models.ID) (*models.Company, error) {
	r := s.begin(FamilyCompanies, noSlot)
	c, err := s.api.GetCompany(ctx, id)
	s.finish(ctx, r, err, func(st *State) {
		st.Companies = upsertCompany(st.Companies, *c)
	})
	return c, err
}

// CreateCompany appends the created company. Identical inputs create
// distinct records.
func (s *Store) CreateCompany(ctx context.Context, in models.CompanyInput) (*models.Company, error) {
	r := s.begin(FamilyCompanies, noSlot)
	c, err := s.api.CreateCompany(ctx, in)
	if err != nil && s.fallbackAllowed(ctx, err) {
		s.logger.Warn(ctx, "backend unreachable, creating local company", "error", err)
		c, err = s.placeholderCompany(in), nil
	}
	s.finish(ctx, r, err, func(st *State) {
		st.Companies = append(st.Companies, *c)
	})
	return c, err
}

func (s *Store) placeholderCompany(in models.CompanyInput) *models.Company {
	return &models.Company{
		ID:        s.newID(),
		Name:      in.Name,
		Email:     in.Email,
		Telephone: in.Telephone,
		Country:   in.Country,
		Sector:    in.Sector,
		Website:   in.Website,
		IsActive:  true,
		CreatedAt: s.today(),
	}
}

// UpdateCompany patches a company and merges the returned record by id.
func (s *Store) UpdateCompany(ctx context.Context, id models.ID, patch models.CompanyPatch) (*models.Company, error) {
	r := s.begin(FamilyCompanies, noSlot)
	c, err := s.api.UpdateCompany(ctx, id, patch)
	s.finish(ctx, r, err, func(st *State) {
		st.Companies = upsertCompany(st.Companies, *c)
	})
	return c, err
}

// DeleteCompany removes a company together with its cron bucket.
func (s *Store) DeleteCompany(ctx context.Context, id models.ID) error {
	r := s.begin(FamilyCompanies, noSlot)
	err := s.api.DeleteCompany(ctx, id)
	s.finish(ctx, r, err, func(st *State) {
		st.Companies = slices.DeleteFunc(st.Companies, func(c models.Company) bool { return c.ID == id })
		delete(st.Crons, id)
	})
	return err
}

func upsertCompany(list []models.Company, c models.Company) []models.Company {
	if i := slices.IndexFunc(list, func(x models.Company) bool { return x.ID == c.ID }); i >= 0 {
		out := slices.Clone(list)
		out[i] = c
		return out
	}
	return append(list, c)
}
