package cli

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
)

func newCompaniesCmd(app appFn) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "companies",
		Aliases: []string{"company"},
		Short:   "Manage companies",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List companies",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a := app()
				list, err := a.store.FetchCompanies(cmd.Context())
				if err != nil {
					return err
				}
				a.printList(len(list), "No companies.", func() string { return renderCompanies(list) })
				return nil
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one company",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				c, err := a.store.FetchCompany(cmd.Context(), models.ID(args[0]))
				if err != nil {
					return err
				}
				a.println(renderCompanies([]models.Company{*c}))
				return nil
			},
		},
		newCompanyCreateCmd(app),
		newCompanyUpdateCmd(app),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a company",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a := app()
				if err := a.store.DeleteCompany(cmd.Context(), models.ID(args[0])); err != nil {
					return err
				}
				a.printf("Company %s deleted.\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

func newCompanyCreateCmd(app appFn) *cobra.Command {
	var in models.CompanyInput
	var withPassword bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.promptIfEmpty(&in.Name, "Enter company name"); err != nil {
				return err
			}
			if err := a.promptIfEmpty(&in.Email, "Enter company email"); err != nil {
				return err
			}
			if withPassword {
				pw, err := getPassword(a.reader, a.out)
				if err != nil {
					return err
				}
				in.Password = pw
			}
			c, err := a.store.CreateCompany(cmd.Context(), in)
			if err != nil {
				return err
			}
			a.printf("Company %s created.\n", c.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Name, "name", "", "company name")
	f.StringVar(&in.Email, "email", "", "contact email")
	f.StringVar(&in.Telephone, "telephone", "", "phone number")
	f.StringVar(&in.Country, "country", "", "country")
	f.StringVar(&in.Sector, "sector", "", "business sector")
	f.StringVar(&in.Website, "website", "", "website URL")
	f.BoolVar(&withPassword, "password", false, "prompt for a login password for the company")
	return cmd
}

func newCompanyUpdateCmd(app appFn) *cobra.Command {
	var name, email, telephone, country, sector, website string
	var active bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change company fields; only the flags given are sent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			f := cmd.Flags()
			var p models.CompanyPatch
			str := func(flag string, v *string, dst **string) {
				if f.Changed(flag) {
					*dst = v
				}
			}
			str("name", &name, &p.Name)
			str("email", &email, &p.Email)
			str("telephone", &telephone, &p.Telephone)
			str("country", &country, &p.Country)
			str("sector", &sector, &p.Sector)
			str("website", &website, &p.Website)
			if f.Changed("active") {
				p.IsActive = &active
			}

			c, err := a.store.UpdateCompany(cmd.Context(), models.ID(args[0]), p)
			if err != nil {
				return err
			}
			a.println(renderCompanies([]models.Company{*c}))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "company name")
	f.StringVar(&email, "email", "", "contact email")
	f.StringVar(&telephone, "telephone", "", "phone number")
	f.StringVar(&country, "country", "", "country")
	f.StringVar(&sector, "sector", "", "business sector")
	f.StringVar(&website, "website", "", "website URL")
	f.BoolVar(&active, "active", true, "whether the company is active")
	return cmd
}

// printList prints render() or, for an empty list, the empty message.
func (a *App) printList(n int, empty string, render func() string) {
	if n == 0 {
		a.println(dimStyle.Render(empty))
		return
	}
	a.println(render())
}
