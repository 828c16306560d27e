// Package cli provides the msv command-line client for Market Supervisor.
//
// It wires configuration, local storage, the HTTP API client, the state
// store and its persistence into an App, and exposes the App through a
// cobra command tree:
//
//   - login / admin-login / logout / register / password reset
//   - companies, crons and search results (list, create, update, delete)
//   - dashboard statistics, analytics and notifications
//   - sync, which refreshes every collection concurrently
//   - shell, an interactive REPL with a background connectivity watcher
//
// Every shell line is executed against a fresh command tree bound to the
// same App. See NewRootCommand, App.Shell and StartOnlineStatusWatcher.
package cli
