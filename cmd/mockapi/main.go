// Command mockapi serves an in-memory Market Supervisor backend for local
// development of the msv client.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/config"
	"github.com/dmitrijs2005/marketsupervisor/internal/logging"
	"github.com/dmitrijs2005/marketsupervisor/internal/mockapi"
)

func main() {
	fs := pflag.NewFlagSet("mockapi", pflag.ExitOnError)
	flags := config.RegisterFlags(fs)
	listen := fs.StringP("listen", "l", "", "listen address (overrides mockapi.addr)")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.MockAPI.Addr = *listen
	}

	logger, err := logging.New(cfg.LogFormat, cfg.LogLevel, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := mockapi.New(cfg.MockAPI.JWTSecret, mockapi.WithLogger(logger))
	if err := srv.Run(ctx, cfg.MockAPI.Addr); err != nil {
		logger.Error(ctx, "mock API stopped", "error", err)
		stop()
		os.Exit(1)
	}
}
