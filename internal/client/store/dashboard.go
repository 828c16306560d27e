package store

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

// Each dashboard document is its own slot: the latest fetch of that
// document wins.

func (s *Store) FetchDashboardStats(ctx context.Context) (models.Stats, error) {
	r := s.begin(FamilyDashboard, slotStats)
	v, err := s.api.Stats(ctx)
	s.finish(ctx, r, err, func(st *State) { st.Stats = v })
	return v, err
}

func (s *Store) FetchAnalytics(ctx context.Context, filters map[string]string) (models.Analytics, error) {
	r := s.begin(FamilyDashboard, slotAnalytics)
	v, err := s.api.Analytics(ctx, filters)
	s.finish(ctx, r, err, func(st *State) { st.Analytics = v })
	return v, err
}

func (s *Store) FetchCronPerformance(ctx context.Context, period string) (models.CronPerformance, error) {
	r := s.begin(FamilyDashboard, slotPerformance)
	v, err := s.api.CronPerformance(ctx, period)
	s.finish(ctx, r, err, func(st *State) { st.CronPerformance = v })
	return v, err
}

func (s *Store) FetchSearchTrends(ctx context.Context, period string) (models.SearchTrends, error) {
	r := s.begin(FamilyDashboard, slotTrends)
	v, err := s.api.SearchTrends(ctx, period)
	s.finish(ctx, r, err, func(st *State) { st.SearchTrends = v })
	return v, err
}

func (s *Store) FetchNotifications(ctx context.Context) ([]models.Notification, error) {
	r := s.begin(FamilyDashboard, slotNotes)
	v, err := s.api.Notifications(ctx)
	s.finish(ctx, r, err, func(st *State) { st.Notifications = slices.Clone(v) })
	return v, err
}

// MarkNotificationRead flags a notification as read on the backend and in
// the cached list.
func (s *Store) MarkNotificationRead(ctx context.Context, id models.ID) error {
	r := s.begin(FamilyDashboard, noSlot)
	err := s.api.MarkNotificationRead(ctx, id)
	s.finish(ctx, r, err, func(st *State) {
		for i := range st.Notifications {
			if st.Notifications[i].ID == id {
				st.Notifications[i].Read = true
			}
		}
	})
	return err
}
