// Package persist saves the durable part of the store state (session and
// resource collections) to a metadata repository and restores it at start.
// Loading and error flags are never written.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/store"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/tokens"
	"github.com/dmitrijs2005/marketsupervisor/internal/common"
	"github.com/dmitrijs2005/marketsupervisor/internal/logging"
)

// Version is the snapshot schema version written by Save. Snapshots with
// any other version are discarded on Load.
const Version = 1

type snapshot struct {
	Version int            `json:"version"`
	State   persistedState `json:"state"`
}

type persistedState struct {
	IsAuthenticated bool                                `json:"isAuthenticated"`
	CurrentUser     *models.User                        `json:"currentUser"`
	Companies       []models.Company                    `json:"companies"`
	Crons           map[models.ID][]models.Cron         `json:"crons"`
	SearchResults   map[models.ID][]models.SearchResult `json:"searchResults"`
}

// TokenReader yields the stored bearer token.
type TokenReader interface {
	Token(ctx context.Context) (string, error)
}

type Adapter struct {
	repo   metadata.Repository
	key    string
	tokens TokenReader
	now    func() time.Time
	logger logging.Logger
}

type Option func(*Adapter)

// WithKey overrides the storage key (common.SnapshotKey).
func WithKey(key string) Option {
	return func(a *Adapter) { a.key = key }
}

// WithTokens enables dropping a restored session whose token is gone or
// expired.
func WithTokens(t TokenReader) Option {
	return func(a *Adapter) { a.tokens = t }
}

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

func New(repo metadata.Repository, opts ...Option) *Adapter {
	a := &Adapter{
		repo:   repo,
		key:    common.SnapshotKey,
		now:    time.Now,
		logger: logging.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Encode serializes the durable subset of st.
func Encode(st store.State) ([]byte, error) {
	return json.Marshal(snapshot{
		Version: Version,
		State: persistedState{
			IsAuthenticated: st.IsAuthenticated,
			CurrentUser:     st.CurrentUser,
			Companies:       st.Companies,
			Crons:           st.Crons,
			SearchResults:   st.SearchResults,
		},
	})
}

// Decode restores a state from data. Flags come back reset.
func Decode(data []byte) (store.State, error) {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.State{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version != Version {
		return store.State{}, fmt.Errorf("%w: snapshot version %d", ErrUnsupportedVersion, snap.Version)
	}

	st := store.DefaultState()
	st.IsAuthenticated = snap.State.IsAuthenticated
	st.CurrentUser = snap.State.CurrentUser
	if snap.State.Companies != nil {
		st.Companies = snap.State.Companies
	}
	if snap.State.Crons != nil {
		st.Crons = snap.State.Crons
	}
	if snap.State.SearchResults != nil {
		st.SearchResults = snap.State.SearchResults
	}
	return st, nil
}

// Save writes the durable subset of st.
func (a *Adapter) Save(ctx context.Context, st store.State) error {
	data, err := Encode(st)
	if err != nil {
		return err
	}
	if err := a.repo.Set(ctx, a.key, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Load returns the persisted state, or store.DefaultState when nothing
// usable is stored. Unreadable snapshots are deleted. Only storage
// failures are returned as errors.
func (a *Adapter) Load(ctx context.Context) (store.State, error) {
	data, err := a.repo.Get(ctx, a.key)
	if err != nil {
		return store.State{}, fmt.Errorf("load snapshot: %w", err)
	}
	if data == nil {
		return store.DefaultState(), nil
	}

	st, err := Decode(data)
	if err != nil {
		a.logger.Warn(ctx, "discarding persisted state", "error", err)
		if err := a.repo.Delete(ctx, a.key); err != nil {
			return store.State{}, fmt.Errorf("discard snapshot: %w", err)
		}
		return store.DefaultState(), nil
	}

	if st.IsAuthenticated && a.tokens != nil {
		token, err := a.tokens.Token(ctx)
		if err != nil {
			return store.State{}, err
		}
		if token == "" || tokens.Expired(token, a.now()) {
			a.logger.Info(ctx, "persisted session expired")
			st.IsAuthenticated = false
			st.CurrentUser = nil
		}
	}
	return st, nil
}

// Attach saves every state change published by s until the returned func is
// called. Save failures are logged.
func (a *Adapter) Attach(ctx context.Context, s *store.Store) func() {
	return s.Subscribe(func(st store.State) {
		if err := a.Save(ctx, st); err != nil {
			a.logger.Error(ctx, "failed to persist state", "error", err)
		}
	})
}
