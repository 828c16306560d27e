package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/client"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/config"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/export"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/persist"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/store"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/tokens"
	"github.com/dmitrijs2005/marketsupervisor/internal/logging"
)

type Mode string

const (
	ModeUnknown Mode = ""
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// App is everything a command needs: configuration, the state store and
// the local storage behind it.
type App struct {
	cfg    *config.Config
	logger logging.Logger
	api    client.Client
	store  *store.Store
	repo   metadata.Repository
	tokens *tokens.Store
	sink   export.Sink
	now    func() time.Time

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.Mutex
	mode   Mode

	closers []func() error
}

// Deps lets callers assemble an App from ready-made parts.
type Deps struct {
	Config *config.Config
	Logger logging.Logger
	API    client.Client
	Repo   metadata.Repository
	Sink   export.Sink
	In     io.Reader
	Out    io.Writer
	Now    func() time.Time
}

// NewApp opens local storage as configured and wires the HTTP client,
// persisted state and store on top of it.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	repo, closeRepo, err := openRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}

	sink, err := newSink(ctx, cfg)
	if err != nil {
		_ = closeRepo()
		return nil, err
	}

	tok := tokens.NewStore(repo)
	api := client.NewHTTPClient(cfg.ServerURL, tok,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(logger))

	a, err := NewAppWithDeps(ctx, Deps{
		Config: cfg, Logger: logger, API: api, Repo: repo, Sink: sink,
		In: os.Stdin, Out: os.Stdout,
	})
	if err != nil {
		_ = closeRepo()
		return nil, err
	}
	a.closers = append([]func() error{closeRepo}, a.closers...)
	return a, nil
}

// NewAppWithDeps restores persisted state from d.Repo and builds the store.
func NewAppWithDeps(ctx context.Context, d Deps) (*App, error) {
	if d.Logger == nil {
		d.Logger = logging.Nop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.In == nil {
		d.In = os.Stdin
	}
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.Sink == nil {
		d.Sink = export.FileSink{Dir: d.Config.ExportDir()}
	}
	a := &App{
		cfg:    d.Config,
		logger: d.Logger,
		api:    d.API,
		repo:   d.Repo,
		tokens: tokens.NewStore(d.Repo),
		sink:   d.Sink,
		now:    d.Now,
		reader: bufio.NewReader(d.In),
		out:    d.Out,
	}

	p := persist.New(d.Repo, persist.WithTokens(a.tokens), persist.WithLogger(d.Logger), persist.WithClock(d.Now))
	state, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}

	a.store = store.New(d.API,
		store.WithInitialState(state),
		store.WithLogger(d.Logger),
		store.WithDevFallback(d.Config.DevFallback),
		store.WithClock(d.Now),
		store.WithTokenStore(a.tokens),
		store.WithSessionExpiredHook(func() {
			a.println("Session expired, please log in again.")
		}))

	detach := p.Attach(context.WithoutCancel(ctx), a.store)
	a.closers = append(a.closers, func() error { detach(); return nil })
	return a, nil
}

// Close releases storage in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) Store() *store.Store { return a.store }

func (a *App) isLoggedIn() bool {
	return a.store.Snapshot().IsAuthenticated
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.modeMu.Unlock()
	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// openRepository keeps the token and snapshot of each server URL apart.
func openRepository(ctx context.Context, cfg *config.Config) (metadata.Repository, func() error, error) {
	switch cfg.Storage {
	case config.StorageMemory:
		return metadata.NewMemoryRepository(), func() error { return nil }, nil
	case config.StorageRedis:
		r := metadata.NewRedisRepository(cfg.RedisAddr, cfg.RedisPassword,
			metadata.ScopedRedisPrefix(cfg.ServerURL))
		return r, r.Close, nil
	default:
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, nil, fmt.Errorf("create data dir: %w", err)
		}
		db, err := metadata.OpenSQLite(ctx, cfg.DBPath())
		if err != nil {
			return nil, nil, err
		}
		return metadata.NewSQLiteRepository(db, cfg.ServerURL), db.Close, nil
	}
}

func newSink(ctx context.Context, cfg *config.Config) (export.Sink, error) {
	if cfg.Export.S3Bucket == "" {
		return export.FileSink{Dir: cfg.ExportDir()}, nil
	}
	return export.NewS3Sink(ctx, export.S3Config{
		Bucket:    cfg.Export.S3Bucket,
		Region:    cfg.Export.S3Region,
		Endpoint:  cfg.Export.S3Endpoint,
		AccessKey: cfg.Export.S3AccessKey,
		SecretKey: cfg.Export.S3SecretKey,
	})
}
