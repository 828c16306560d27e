package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/tokens"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

// promptIfEmpty asks for a value the user did not pass as a flag.
func (a *App) promptIfEmpty(v *string, prompt string) error {
	if *v != "" {
		return nil
	}
	s, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return err
	}
	*v = s
	return nil
}

func (a *App) readCredentials(email string) (models.Credentials, error) {
	if err := a.promptIfEmpty(&email, "Enter email"); err != nil {
		return models.Credentials{}, err
	}
	pw, err := getPassword(a.reader, a.out)
	if err != nil {
		return models.Credentials{}, err
	}
	return models.Credentials{Email: email, Password: pw}, nil
}

func displayName(u *models.User) string {
	if u == nil {
		return "unknown user"
	}
	if u.Name != "" {
		return fmt.Sprintf("%s <%s>", u.Name, u.Email)
	}
	return u.Email
}

// principalRows lists the contact attributes a company principal carries
// beyond the typed user fields.
func principalRows(u *models.User) [][]string {
	if u == nil {
		return nil
	}
	var rows [][]string
	for _, key := range []string{"telephone", "website"} {
		raw, ok := u.Attr(key)
		if !ok {
			continue
		}
		var v string
		if err := json.Unmarshal(raw, &v); err != nil || v == "" {
			continue
		}
		rows = append(rows, []string{key, v})
	}
	return rows
}

func newLoginCmd(app appFn, admin bool) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a company",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			creds, err := a.readCredentials(email)
			if err != nil {
				return err
			}
			login := a.store.Login
			if admin {
				login = a.store.AdminLogin
			}
			u, err := login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			a.println(okStyle.Render("Logged in as " + displayName(u)))
			return nil
		},
	}
	if admin {
		cmd.Use = "admin-login"
		cmd.Short = "Log in as an administrator"
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func newLogoutCmd(app appFn) *cobra.Command {
	var forget bool
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.store.Logout(cmd.Context()); err != nil {
				a.logger.Warn(cmd.Context(), "server logout failed", "error", err)
			}
			if forget {
				a.store.Reset()
				if err := a.repo.Clear(cmd.Context()); err != nil {
					return fmt.Errorf("clear local data: %w", err)
				}
				a.println("Logged out. Local data for " + a.cfg.ServerURL + " removed.")
				return nil
			}
			a.println("Logged out.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&forget, "forget", false, "also remove every record cached for this server")
	return cmd
}

func newRegisterCmd(app appFn) *cobra.Command {
	var data models.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a company account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			if err := a.promptIfEmpty(&data.Name, "Enter company name"); err != nil {
				return err
			}
			if err := a.promptIfEmpty(&data.Email, "Enter email"); err != nil {
				return err
			}
			pw, err := getPassword(a.reader, a.out)
			if err != nil {
				return err
			}
			data.Password = pw

			if _, err := a.store.Register(cmd.Context(), data); err != nil {
				return err
			}
			a.println(okStyle.Render("Account created. You can now log in."))
			return nil
		},
	}
	cmd.Flags().StringVar(&data.Name, "name", "", "company name")
	cmd.Flags().StringVarP(&data.Email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&data.Country, "country", "", "country")
	cmd.Flags().StringVar(&data.Sector, "sector", "", "business sector")
	return cmd
}

func newForgotPasswordCmd(app appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			msg, err := a.store.ForgotPassword(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			a.println(messageOr(msg, "If the account exists, a reset email is on its way."))
			return nil
		},
	}
}

func newResetPasswordCmd(app appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password using a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			pw, err := getPassword(a.reader, a.out)
			if err != nil {
				return err
			}
			msg, err := a.store.ResetPassword(cmd.Context(), args[0], pw)
			if err != nil {
				return err
			}
			a.println(messageOr(msg, "Password updated."))
			return nil
		},
	}
}

func messageOr(m *models.Message, fallback string) string {
	if m == nil || m.Message == "" {
		return fallback
	}
	return m.Message
}

func newVerifyCmd(app appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check the stored token with the server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			u, err := a.store.VerifySession(cmd.Context())
			if err != nil {
				return err
			}
			a.println(okStyle.Render("Token is valid for " + displayName(u)))
			return nil
		},
	}
}

func newRefreshCmd(app appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Exchange the stored token for a fresh one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			tok, err := a.store.RefreshSession(cmd.Context())
			if err != nil {
				return err
			}
			if exp, ok := tokens.ExpiresAt(tok); ok {
				a.printf("Token refreshed, valid until %s.\n", exp.Local().Format(time.DateTime))
				return nil
			}
			a.println("Token refreshed.")
			return nil
		},
	}
}

func newStatusCmd(app appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session, token and connection details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := app()
			snap := a.store.Snapshot()

			rows := [][]string{{"server", a.cfg.ServerURL}, {"storage", a.cfg.Storage}}
			if mode := a.Mode(); mode != ModeUnknown {
				rows = append(rows, []string{"mode", string(mode)})
			}
			if snap.IsAuthenticated {
				rows = append(rows, []string{"session", displayName(snap.CurrentUser)})
				rows = append(rows, principalRows(snap.CurrentUser)...)
			} else {
				rows = append(rows, []string{"session", "logged out"})
			}

			tok, err := a.tokens.Token(cmd.Context())
			if err != nil {
				return err
			}
			switch exp, ok := tokens.ExpiresAt(tok); {
			case tok == "":
				rows = append(rows, []string{"token", "none"})
			case !ok:
				rows = append(rows, []string{"token", "stored (no expiry)"})
			case tokens.Expired(tok, a.now()):
				rows = append(rows, []string{"token", "expired " + exp.Local().Format(time.DateTime)})
			default:
				rows = append(rows, []string{"token", "valid until " + exp.Local().Format(time.DateTime)})
			}
			if sub, err := tokens.Subject(tok); err == nil && sub != "" {
				rows = append(rows, []string{"subject", sub})
			}

			stored, err := a.repo.List(cmd.Context())
			if err != nil {
				return err
			}
			rows = append(rows,
				[]string{"stored keys", fmt.Sprint(len(stored))},
				[]string{"companies", fmt.Sprint(len(snap.Companies))},
				[]string{"crons", fmt.Sprint(len(snap.AllCrons()))},
				[]string{"search results", fmt.Sprint(len(snap.AllSearchResults()))},
			)
			a.println(renderTable(nil, rows))
			return nil
		},
	}
}
