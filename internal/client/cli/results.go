package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/export"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

func newResultsCmd(app appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "results",
		Aliases: []string{"result"},
		Short:   "Browse and export search results",
	}

	var filters []string
	list := &cobra.Command{
		Use:   "list",
		Short: "List search results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			f, err := parseFilters(filters)
			if err != nil {
				return err
			}
			list, err := a.store.FetchSearchResults(cmd.Context(), f)
			if err != nil {
				return err
			}
			a.printList(len(list), "No search results.", func() string { return renderResults(list) })
			return nil
		},
	}
	list.Flags().StringSliceVarP(&filters, "filter", "f", nil, "key=value filter, repeatable")

	var cronFilters []string
	byCron := &cobra.Command{
		Use:   "cron <cron-id>",
		Short: "List the results of one cron",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			f, err := parseFilters(cronFilters)
			if err != nil {
				return err
			}
			list, err := a.store.FetchSearchResultsByCron(cmd.Context(), models.ID(args[0]), f)
			if err != nil {
				return err
			}
			a.printList(len(list), "No search results.", func() string { return renderResults(list) })
			return nil
		},
	}
	byCron.Flags().StringSliceVarP(&cronFilters, "filter", "f", nil, "key=value filter, repeatable")

	var unset bool
	important := &cobra.Command{
		Use:   "important <id>",
		Short: "Flag a result as important",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if _, err := a.store.MarkSearchResultImportant(cmd.Context(), models.ID(args[0]), !unset); err != nil {
				return err
			}
			if unset {
				a.printf("Result %s unflagged.\n", args[0])
			} else {
				a.printf("Result %s flagged as important.\n", args[0])
			}
			return nil
		},
	}
	important.Flags().BoolVar(&unset, "unset", false, "remove the flag instead")

	cmd.AddCommand(
		list,
		byCron,
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a search result",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				if err := a.store.DeleteSearchResult(cmd.Context(), models.ID(args[0])); err != nil {
					return err
				}
				a.printf("Result %s deleted.\n", args[0])
				return nil
			},
		},
		important,
		newExportCmd(app),
	)
	return cmd
}

func newExportCmd(app appFn) *cobra.Command {
	var format, name string
	cmd := &cobra.Command{
		Use:   "export [id...]",
		Short: "Export results; without ids every known result is exported",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if !slices.Contains([]string{models.ExportCSV, models.ExportJSON, models.ExportXLSX}, format) {
				return fmt.Errorf("unsupported format %q", format)
			}

			ids := make([]models.ID, 0, len(args))
			for _, s := range args {
				ids = append(ids, models.ID(s))
			}
			if len(ids) == 0 {
				for _, r := range a.store.Snapshot().AllSearchResults() {
					ids = append(ids, r.ID)
				}
			}
			if len(ids) == 0 {
				return fmt.Errorf("nothing to export; run \"results list\" first or pass ids")
			}

			data, err := a.store.ExportSearchResults(cmd.Context(), ids, format)
			if err != nil {
				return err
			}
			if name == "" {
				name = export.FileName(format, a.now())
			}
			loc, err := a.sink.Write(cmd.Context(), name, data)
			if err != nil {
				return err
			}
			a.printf("Exported %d result(s) to %s\n", len(ids), loc)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", models.ExportCSV, "csv, json or xlsx")
	cmd.Flags().StringVarP(&name, "output", "o", "", "file or object name")
	return cmd
}
