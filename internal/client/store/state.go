package store

import (
	"maps"
	"slices"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

// Family groups actions that share a loading flag and an error slot.
type Family string

const (
	FamilyAuth          Family = "auth"
	FamilyCompanies     Family = "companies"
	FamilyCrons         Family = "crons"
	FamilySearchResults Family = "searchResults"
	FamilyDashboard     Family = "dashboard"
)

// Families lists every family in display order.
var Families = []Family{FamilyAuth, FamilyCompanies, FamilyCrons, FamilySearchResults, FamilyDashboard}

// State is the client-side mirror of backend resources plus request flags.
// Crons are bucketed by owning company and search results by cron.
type State struct {
	IsAuthenticated bool
	CurrentUser     *models.User

	Companies     []models.Company
	Crons         map[models.ID][]models.Cron
	SearchResults map[models.ID][]models.SearchResult

	Stats           models.Stats
	Analytics       models.Analytics
	CronPerformance models.CronPerformance
	SearchTrends    models.SearchTrends
	Notifications   []models.Notification

	Loading map[Family]bool
	Errors  map[Family]string
}

// DefaultState is the state of a fresh install: logged out and empty.
func DefaultState() State {
	s := State{
		Companies:     []models.Company{},
		Crons:         map[models.ID][]models.Cron{},
		SearchResults: map[models.ID][]models.SearchResult{},
	}
	s.resetFlags()
	return s
}

func (s *State) resetFlags() {
	s.Loading = make(map[Family]bool, len(Families))
	s.Errors = make(map[Family]string, len(Families))
	for _, f := range Families {
		s.Loading[f] = false
		s.Errors[f] = ""
	}
}

// AllCrons flattens the cron buckets, ordered by company id.
func (s State) AllCrons() []models.Cron {
	var out []models.Cron
	for _, k := range slices.Sorted(maps.Keys(s.Crons)) {
		out = append(out, s.Crons[k]...)
	}
	return out
}

// AllSearchResults flattens the result buckets, ordered by cron id.
func (s State) AllSearchResults() []models.SearchResult {
	var out []models.SearchResult
	for _, k := range slices.Sorted(maps.Keys(s.SearchResults)) {
		out = append(out, s.SearchResults[k]...)
	}
	return out
}

// Clone returns a deep copy so that callers never share memory with the
// store.
func (s State) Clone() State {
	c := s
	if s.CurrentUser != nil {
		u := s.CurrentUser.Clone()
		c.CurrentUser = &u
	}
	c.Companies = slices.Clone(s.Companies)
	c.Crons = cloneBuckets(s.Crons, cloneCron)
	c.SearchResults = cloneBuckets(s.SearchResults, cloneResult)
	c.Stats = cloneDoc(s.Stats)
	c.Analytics = cloneDoc(s.Analytics)
	c.CronPerformance = cloneDoc(s.CronPerformance)
	c.SearchTrends = cloneDoc(s.SearchTrends)
	c.Notifications = slices.Clone(s.Notifications)
	c.Loading = maps.Clone(s.Loading)
	c.Errors = maps.Clone(s.Errors)
	return c
}

func cloneBuckets[T any](in map[models.ID][]T, cp func(T) T) map[models.ID][]T {
	if in == nil {
		return nil
	}
	out := make(map[models.ID][]T, len(in))
	for k, v := range in {
		items := make([]T, len(v))
		for i := range v {
			items[i] = cp(v[i])
		}
		out[k] = items
	}
	return out
}

func cloneCron(c models.Cron) models.Cron {
	c.Tags = slices.Clone(c.Tags)
	if c.LastSearch != nil {
		v := *c.LastSearch
		c.LastSearch = &v
	}
	if c.LastRunAt != nil {
		v := *c.LastRunAt
		c.LastRunAt = &v
	}
	return c
}

func cloneResult(r models.SearchResult) models.SearchResult {
	r.Tags = slices.Clone(r.Tags)
	return r
}

// cloneDoc copies the top level of a free-form dashboard document. Nested
// values are treated as immutable.
func cloneDoc[M ~map[string]any](m M) M {
	if m == nil {
		return nil
	}
	return maps.Clone(m)
}
