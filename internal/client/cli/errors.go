package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/store"
)

func newErrorsCmd(app appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "errors",
		Short: "Show the last error recorded per resource family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			snap := a.store.Snapshot()
			var rows [][]string
			for _, f := range store.Families {
				if msg := snap.Errors[f]; msg != "" {
					rows = append(rows, []string{string(f), msg})
				}
			}
			a.printList(len(rows), "No errors.", func() string {
				return renderTable([]string{"FAMILY", "ERROR"}, rows)
			})
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget all recorded errors",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app().store.ClearErrors()
			return nil
		},
	})
	return cmd
}
