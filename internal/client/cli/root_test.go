package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/client"
)

func TestRootCommand_Tree(t *testing.T) {
	root, cleanup := NewRootCommand()
	t.Cleanup(func() { _ = cleanup() })

	want := []string{
		"login", "admin-login", "logout", "register", "forgot-password", "reset-password",
		"verify", "refresh", "status", "sync", "shell", "version",
		"companies", "crons", "results", "dashboard", "errors",
	}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	sub := map[string][]string{
		"companies": {"list", "get", "create", "update", "delete"},
		"crons":     {"list", "get", "create", "update", "activate", "deactivate", "delete", "execute"},
		"results":   {"list", "cron", "delete", "important", "export"},
		"dashboard": {"stats", "analytics", "performance", "notifications", "read", "trends"},
		"errors":    {"clear"},
	}
	for parent, names := range sub {
		for _, name := range names {
			cmd, _, err := root.Find([]string{parent, name})
			require.NoError(t, err, parent+" "+name)
			assert.Equal(t, name, cmd.Name(), parent)
		}
	}

	for _, flag := range []string{"config", "server", "timeout", "online-check", "storage", "data-dir", "log-level", "log-format", "dev-fallback"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestRootCommand_Version(t *testing.T) {
	root, cleanup := NewRootCommand()
	t.Cleanup(func() { _ = cleanup() })

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Build version: ")
}

func TestRootCommand_LoadsConfigAndRuns(t *testing.T) {
	url := startBackend(t)
	root, cleanup := NewRootCommand()

	root.SetArgs([]string{"--storage", "memory", "--data-dir", t.TempDir(), "-a", url, "--log-level", "error", "companies", "list"})
	err := root.ExecuteContext(context.Background())
	require.ErrorIs(t, err, client.ErrUnauthorized)
	assert.Equal(t, "missing bearer token (HTTP 401)", Describe(err))
	require.NoError(t, cleanup())
}

func TestRootCommand_BadConfig(t *testing.T) {
	root, cleanup := NewRootCommand()
	t.Cleanup(func() { _ = cleanup() })

	root.SetArgs([]string{"--storage", "memory", "-a", "ftp://nope", "status"})
	err := root.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestShellTree_FreshFlagsPerLine(t *testing.T) {
	e := newTestEnv(t, startBackend(t), "")
	first := newCommandTree(e.app, e.out)
	second := newCommandTree(e.app, e.out)

	find := func(root *cobra.Command) *cobra.Command {
		cmd, _, err := root.Find([]string{"crons", "list"})
		require.NoError(t, err)
		return cmd
	}
	require.NoError(t, find(first).Flags().Set("company", "1"))
	assert.Equal(t, "", find(second).Flags().Lookup("company").Value.String())
}
