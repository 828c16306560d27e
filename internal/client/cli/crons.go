package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

func newCronsCmd(app appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "crons",
		Aliases: []string{"cron"},
		Short:   "Manage crons (saved tagged searches)",
	}

	var company string
	list := &cobra.Command{
		Use:   "list",
		Short: "List crons, optionally of one company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			list, err := a.store.FetchCrons(cmd.Context(), models.ID(company))
			if err != nil {
				return err
			}
			a.printList(len(list), "No crons.", func() string { return renderCrons(list) })
			return nil
		},
	}
	list.Flags().StringVar(&company, "company", "", "only crons of this company id")

	cmd.AddCommand(
		list,
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one cron",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				c, err := a.store.FetchCron(cmd.Context(), models.ID(args[0]))
				if err != nil {
					return err
				}
				a.println(renderCrons([]models.Cron{*c}))
				return nil
			},
		},
		newCronCreateCmd(app),
		newCronUpdateCmd(app),
		newCronToggleCmd(app, true),
		newCronToggleCmd(app, false),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a cron and its results",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				if err := a.store.DeleteCron(cmd.Context(), models.ID(args[0])); err != nil {
					return err
				}
				a.printf("Cron %s deleted.\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "execute <id>",
			Short: "Run a cron now",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				res, err := a.store.ExecuteCron(cmd.Context(), models.ID(args[0]))
				if err != nil {
					return err
				}
				a.printf("Cron %s executed.\n", args[0])
				if len(res) > 0 {
					a.println(renderDoc(res))
				}
				return nil
			},
		},
	)
	return cmd
}

func newCronCreateCmd(app appFn) *cobra.Command {
	var company, name, tags string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a cron",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if company == "" {
				if u := a.store.Snapshot().CurrentUser; u != nil && !u.IsAdmin() {
					company = u.ID.String()
				}
			}
			if err := a.promptIfEmpty(&name, "Enter cron name"); err != nil {
				return err
			}
			if err := a.promptIfEmpty(&tags, "Enter tags, comma separated"); err != nil {
				return err
			}
			c, err := a.store.CreateCron(cmd.Context(), models.CronInput{
				CompanyID: models.ID(company),
				Name:      name,
				Tags:      splitList(tags),
			})
			if err != nil {
				return err
			}
			a.println(renderCrons([]models.Cron{*c}))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&company, "company", "", "owning company id (defaults to the logged-in company)")
	f.StringVar(&name, "name", "", "cron name")
	f.StringVar(&tags, "tags", "", "comma-separated search tags")
	return cmd
}

func newCronUpdateCmd(app appFn) *cobra.Command {
	var company, name, tags string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change cron fields; only the flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			f := cmd.Flags()
			var p models.CronPatch
			if f.Changed("company") {
				id := models.ID(company)
				p.CompanyID = &id
			}
			if f.Changed("name") {
				p.Name = &name
			}
			if f.Changed("tags") {
				p.Tags = splitList(tags)
			}
			c, err := a.store.UpdateCron(cmd.Context(), models.ID(args[0]), p)
			if err != nil {
				return err
			}
			a.println(renderCrons([]models.Cron{*c}))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&company, "company", "", "move the cron to this company id")
	f.StringVar(&name, "name", "", "cron name")
	f.StringVar(&tags, "tags", "", "comma-separated search tags")
	return cmd
}

func newCronToggleCmd(app appFn, active bool) *cobra.Command {
	use, short, done := "deactivate <id>", "Pause a cron", "paused"
	if active {
		use, short, done = "activate <id>", "Resume a cron", "active"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if _, err := a.store.SetCronActive(cmd.Context(), models.ID(args[0]), active); err != nil {
				return err
			}
			a.printf("Cron %s is now %s.\n", args[0], done)
			return nil
		},
	}
}
