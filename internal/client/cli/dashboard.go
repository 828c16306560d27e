package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

func newDashboardCmd(app appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Statistics, analytics and notifications",
	}

	var analyticsFilters []string
	analytics := &cobra.Command{
		Use:   "analytics",
		Short: "Show analytics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			f, err := parseFilters(analyticsFilters)
			if err != nil {
				return err
			}
			doc, err := a.store.FetchAnalytics(cmd.Context(), f)
			if err != nil {
				return err
			}
			a.println(renderDoc(doc))
			return nil
		},
	}
	analytics.Flags().StringSliceVarP(&analyticsFilters, "filter", "f", nil, "key=value filter, repeatable")

	var perfPeriod string
	performance := &cobra.Command{
		Use:   "performance",
		Short: "Show cron performance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			doc, err := a.store.FetchCronPerformance(cmd.Context(), perfPeriod)
			if err != nil {
				return err
			}
			a.println(renderDoc(doc))
			return nil
		},
	}
	performance.Flags().StringVar(&perfPeriod, "period", models.PeriodMonth, "day, week, month or year")

	var trendPeriod string
	trends := &cobra.Command{
		Use:   "trends",
		Short: "Show search trends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			doc, err := a.store.FetchSearchTrends(cmd.Context(), trendPeriod)
			if err != nil {
				return err
			}
			a.println(renderDoc(doc))
			return nil
		},
	}
	trends.Flags().StringVar(&trendPeriod, "period", models.PeriodMonth, "day, week, month or year")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "stats",
			Short: "Show dashboard statistics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a := app()
				doc, err := a.store.FetchDashboardStats(cmd.Context())
				if err != nil {
					return err
				}
				a.println(renderDoc(doc))
				return nil
			},
		},
		analytics,
		performance,
		&cobra.Command{
			Use:   "notifications",
			Short: "List notifications",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a := app()
				list, err := a.store.FetchNotifications(cmd.Context())
				if err != nil {
					return err
				}
				a.printList(len(list), "No notifications.", func() string { return renderNotifications(list) })
				return nil
			},
		},
		&cobra.Command{
			Use:   "read <id>",
			Short: "Mark a notification as read",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				if err := a.store.MarkNotificationRead(cmd.Context(), models.ID(args[0])); err != nil {
					return err
				}
				a.printf("Notification %s marked as read.\n", args[0])
				return nil
			},
		},
		trends,
	)
	return cmd
}
