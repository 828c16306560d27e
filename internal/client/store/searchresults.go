package store

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

// FetchSearchResults replaces every result bucket with the filtered list,
// grouped by cron.
func (s *Store) FetchSearchResults(ctx context.Context, filters map[string]string) ([]models.SearchResult, error) {
	r := s.begin(FamilySearchResults, resultsSlot(""))
	list, err := s.api.ListSearchResults(ctx, filters)
	s.finish(ctx, r, err, func(st *State) {
		out := make(map[models.ID][]models.SearchResult)
		for _, res := range list {
			out[res.CronID] = append(out[res.CronID], res)
		}
		st.SearchResults = out
	})
	return list, err
}

// FetchSearchResultsByCron replaces the bucket of one cron.
func (s *Store) FetchSearchResultsByCron(ctx context.Context, cronID models.ID, filters map[string]string) ([]models.SearchResult, error) {
	r := s.begin(FamilySearchResults, resultsSlot(cronID))
	list, err := s.api.ListSearchResultsByCron(ctx, cronID, filters)
	s.finish(ctx, r, err, func(st *State) {
		st.SearchResults[cronID] = nonNil(slices.Clone(list))
	})
	return list, err
}

func (s *Store) DeleteSearchResult(ctx context.Context, id models.ID) error {
	r := s.begin(FamilySearchResults, noSlot)
	err := s.api.DeleteSearchResult(ctx, id)
	s.finish(ctx, r, err, func(st *State) {
		for k, bucket := range st.SearchResults {
			st.SearchResults[k] = slices.DeleteFunc(bucket, func(x models.SearchResult) bool { return x.ID == id })
		}
	})
	return err
}

// MarkSearchResultImportant flags a result and merges the returned record.
func (s *Store) MarkSearchResultImportant(ctx context.Context, id models.ID, important bool) (*models.SearchResult, error) {
	r := s.begin(FamilySearchResults, noSlot)
	res, err := s.api.MarkImportant(ctx, id, important)
	s.finish(ctx, r, err, func(st *State) {
		for k, bucket := range st.SearchResults {
			if i := slices.IndexFunc(bucket, func(x models.SearchResult) bool { return x.ID == id }); i >= 0 {
				bucket[i].IsImportant = important
				if res.ID == id {
					merged := *res
					if merged.CronID.IsZero() {
						merged.CronID = k
					}
					bucket[i] = merged
				}
				return
			}
		}
	})
	return res, err
}

// ExportSearchResults returns the exported document. Nothing is committed.
func (s *Store) ExportSearchResults(ctx context.Context, ids []models.ID, format string) ([]byte, error) {
	r := s.begin(FamilySearchResults, noSlot)
	data, err := s.api.ExportSearchResults(ctx, ids, format)
	s.finish(ctx, r, err, nil)
	return data, err
}
