package cli

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newSyncCmd(app appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Refresh companies, crons, results and statistics from the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			st := a.store

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error { _, err := st.FetchCompanies(ctx); return err })
			g.Go(func() error { _, err := st.FetchCrons(ctx, ""); return err })
			g.Go(func() error { _, err := st.FetchSearchResults(ctx, nil); return err })
			g.Go(func() error { _, err := st.FetchDashboardStats(ctx); return err })
			if err := g.Wait(); err != nil {
				return err
			}

			snap := st.Snapshot()
			a.printf("Synced %d companies, %d crons, %d search results.\n",
				len(snap.Companies), len(snap.AllCrons()), len(snap.AllSearchResults()))
			return nil
		},
	}
}
