package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/marketsupervisor/internal/buildinfo"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/client"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/config"
	"github.com/dmitrijs2005/marketsupervisor/internal/common"
	"github.com/dmitrijs2005/marketsupervisor/internal/logging"
)

// appFn returns the App a command runs against. The root command creates
// the App only after flags are parsed, so commands resolve it lazily.
type appFn func() *App

// program owns the App built for one invocation of the binary.
type program struct {
	flags *config.Flags
	app   *App
}

func (p *program) load(cmd *cobra.Command, _ []string) error {
	if p.app != nil {
		return nil
	}
	cfg, err := config.Load(p.flags)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	p.app, err = NewApp(cmd.Context(), cfg, logger)
	return err
}

func (p *program) close() error {
	if p.app == nil {
		return nil
	}
	return p.app.Close()
}

// NewRootCommand builds the msv command tree. The returned func releases
// whatever the executed command opened.
func NewRootCommand() (*cobra.Command, func() error) {
	p := &program{}
	root := &cobra.Command{
		Use:   "msv",
		Short: "Market Supervisor command-line client",
		Long: `msv manages companies, crons and search results on a Market Supervisor backend.

Run a single command, or "msv shell" for an interactive session.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: p.load,
	}
	p.flags = config.RegisterFlags(root.PersistentFlags())

	get := func() *App { return p.app }
	addCommands(root, get)
	root.AddCommand(newShellCmd(get), newVersionCmd())
	return root, p.close
}

// newVersionCmd prints build data without loading config or storage.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Print build information",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

// newCommandTree builds the commands for an existing App; the shell runs
// every input line through a fresh tree so flag values never leak between
// lines.
func newCommandTree(a *App, out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "msv",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.SetErr(out)
	addCommands(root, func() *App { return a })
	return root
}

func addCommands(root *cobra.Command, app appFn) {
	root.AddCommand(
		newLoginCmd(app, false),
		newLoginCmd(app, true),
		newLogoutCmd(app),
		newRegisterCmd(app),
		newForgotPasswordCmd(app),
		newResetPasswordCmd(app),
		newVerifyCmd(app),
		newRefreshCmd(app),
		newStatusCmd(app),
		newSyncCmd(app),
		newCompaniesCmd(app),
		newCronsCmd(app),
		newResultsCmd(app),
		newDashboardCmd(app),
		newErrorsCmd(app),
	)
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	root, cleanup := NewRootCommand()
	err := root.ExecuteContext(ctx)
	if cerr := cleanup(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+Describe(err)))
		return 1
	}
	return 0
}

// Describe turns an error into the line shown to the user.
func Describe(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		return fmt.Sprintf("%s (HTTP %d)", apiErr.Message, apiErr.Status)
	case errors.Is(err, client.ErrTimeout):
		return "the server did not answer in time"
	case errors.Is(err, client.ErrUnavailable):
		return "the server is unreachable"
	case errors.Is(err, common.ErrNoToken):
		return "not logged in"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return err.Error()
	}
}
