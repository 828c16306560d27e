package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// dispatcher runs one shell line. The real implementation executes the
// command tree; tests can provide a lightweight stub.
type dispatcher interface {
	dispatch(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop.
//
// It reads a line from reader, splits it into words and hands them to d.
// Errors are printed and the loop continues. The loop exits on EOF, on ctx
// cancellation, or when the user types "exit" or "quit". Commands that
// prompt read their answers from the same reader.
func runREPL(ctx context.Context, d dispatcher, statusFn func() string, reader *bufio.Reader) {
	for ctx.Err() == nil {
		printlnFn(fmt.Sprintf("msv %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "shell":
			printlnFn("Already in the shell.")
			continue
		}

		if err := d.dispatch(ctx, parts); err != nil {
			printlnFn(errorStyle.Render("Error: " + Describe(err)))
		}
	}
}

func (a *App) dispatch(ctx context.Context, args []string) error {
	root := newCommandTree(a, a.out)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) getStatus() string {
	var parts []string
	snap := a.store.Snapshot()
	if snap.IsAuthenticated && snap.CurrentUser != nil {
		parts = append(parts, snap.CurrentUser.Email)
	}
	if mode := a.Mode(); mode != ModeUnknown {
		parts = append(parts, string(mode))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, " ") + ") "
}

// Shell runs the interactive session until the user leaves: an online
// status watcher in the background and the REPL in the foreground.
func (a *App) Shell(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	defer func() {
		cancel()
		wg.Wait()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, a.cfg.OnlineCheckInterval)
	}()

	printlnFn("Market Supervisor shell (type 'help' for commands, 'exit' to leave)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func newShellCmd(app appFn) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app().Shell(cmd.Context())
			return nil
		},
	}
}
