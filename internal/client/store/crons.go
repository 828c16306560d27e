package store

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

// FetchCrons loads crons from the backend. With an empty companyID every
// bucket is replaced; otherwise only that company's bucket is.
func (s *Store) FetchCrons(ctx context.Context, companyID models.ID) ([]models.Cron, error) {
	r := s.begin(FamilyCrons, cronsSlot(companyID))
	list, err := s.api.ListCrons(ctx, companyID)
	s.finish(ctx, r, err, func(st *State) {
		if companyID.IsZero() {
			st.Crons = bucketCrons(list)
			return
		}
		st.Crons[companyID] = nonNil(slices.Clone(list))
	})
	return list, err
}

// FetchCron loads one cron and upserts it into its company's bucket.
func (s *Store) FetchCron(ctx context.Context, id models.ID) (*models.Cron, error) {
	r := s.begin(FamilyCrons, noSlot)
	c, err := s.api.GetCron(ctx, id)
	s.finish(ctx, r, err, func(st *State) {
		putCron(st, *c)
	})
	return c, err
}

// CreateCron validates the input, creates the cron and appends it to the
// owning company's bucket. Invalid input fails before any request with an
// error wrapping common.ErrValidation.
func (s *Store) CreateCron(ctx context.Context, in models.CronInput) (*models.Cron, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	r := s.begin(FamilyCrons, noSlot)
	c, err := s.api.CreateCron(ctx, in)
	if err != nil && s.fallbackAllowed(ctx, err) {
		s.logger.Warn(ctx, "backend unreachable, creating local cron", "error", err)
		c, err = s.placeholderCron(in), nil
	}
	s.finish(ctx, r, err, func(st *State) {
		st.Crons[c.CompanyID] = append(st.Crons[c.CompanyID], *c)
	})
	return c, err
}

func (s *Store) placeholderCron(in models.CronInput) *models.Cron {
	return &models.Cron{
		ID:          s.newID(),
		CompanyID:   in.CompanyID,
		Name:        in.Name,
		Tags:        slices.Clone(in.Tags),
		IsActive:    true,
		SearchCount: 0,
		LastSearch:  nil,
		CreatedAt:   s.today(),
	}
}

// UpdateCron patches a cron and merges the result, moving it between
// buckets when its company changed.
func (s *Store) UpdateCron(ctx context.Context, id models.ID, patch models.CronPatch) (*models.Cron, error) {
	if patch.Tags != nil {
		patch.Tags = models.NormalizeTags(patch.Tags)
	}
	r := s.begin(FamilyCrons, noSlot)
	c, err := s.api.UpdateCron(ctx, id, patch)
	s.finish(ctx, r, err, func(st *State) {
		putCron(st, *c)
	})
	return c, err
}

// SetCronActive toggles a cron on or off.
func (s *Store) SetCronActive(ctx context.Context, id models.ID, active bool) (*models.Cron, error) {
	return s.UpdateCron(ctx, id, models.CronPatch{IsActive: &active})
}

// DeleteCron removes a cron and its search results.
func (s *Store) DeleteCron(ctx context.Context, id models.ID) error {
	r := s.begin(FamilyCrons, noSlot)
	err := s.api.DeleteCron(ctx, id)
	s.finish(ctx, r, err, func(st *State) {
		removeCron(st, id)
		delete(st.SearchResults, id)
	})
	return err
}

// ExecuteCron triggers a run on the backend. The store is not changed; new
// results appear on the next fetch.
func (s *Store) ExecuteCron(ctx context.Context, id models.ID) (models.ExecuteResult, error) {
	r := s.begin(FamilyCrons, noSlot)
	res, err := s.api.ExecuteCron(ctx, id)
	s.finish(ctx, r, err, nil)
	return res, err
}

func bucketCrons(list []models.Cron) map[models.ID][]models.Cron {
	out := make(map[models.ID][]models.Cron)
	for _, c := range list {
		out[c.CompanyID] = append(out[c.CompanyID], c)
	}
	return out
}

// putCron replaces the cron with the same id wherever it lives, or appends
// it to its company's bucket.
func putCron(st *State, c models.Cron) {
	for k, bucket := range st.Crons {
		i := slices.IndexFunc(bucket, func(x models.Cron) bool { return x.ID == c.ID })
		if i < 0 {
			continue
		}
		if k == c.CompanyID {
			bucket[i] = c
			return
		}
		st.Crons[k] = slices.Delete(bucket, i, i+1)
		break
	}
	st.Crons[c.CompanyID] = append(st.Crons[c.CompanyID], c)
}

func removeCron(st *State, id models.ID) {
	for k, bucket := range st.Crons {
		st.Crons[k] = slices.DeleteFunc(bucket, func(c models.Cron) bool { return c.ID == id })
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
