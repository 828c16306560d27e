// Package store holds the client's in-memory state: the session, the
// resource collections mirrored from the backend, and the per-family
// loading and error flags. Every action follows the same lifecycle:
//
//	idle -> pending (loading, error cleared) -> success (commit) | failure (error recorded)
//
// Overlapping actions of the same family are tracked per request: the
// loading flag stays set until all of them settle, and only the most
// recently started one may write the family's error slot. Fetches that
// replace a collection or document are additionally keyed by the slot
// they overwrite; a replacement lands only if no newer fetch of the same
// slot has started.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/marketsupervisor/internal/client/client"
	"github.com/dmitrijs2005/marketsupervisor/internal/client/models"
	"github.com/dmitrijs2005/marketsupervisor/internal/logging"
)

// TokenClearer removes the stored bearer credential.
type TokenClearer interface {
	Clear(ctx context.Context) error
}

type Store struct {
	api    client.Client
	logger logging.Logger

	devFallback bool
	now         func() time.Time
	newID       func() models.ID
	tokens      TokenClearer
	onExpired   func()

	mu       sync.Mutex
	state    State
	seq      uint64
	latest   map[Family]uint64
	slots    map[string]uint64
	inflight map[Family]int

	subMu   sync.Mutex
	subs    map[int]func(State)
	nextSub int
}

type Option func(*Store)

// WithInitialState seeds the store, typically from a persisted snapshot.
// Flags are always reset.
func WithInitialState(s State) Option {
	return func(st *Store) {
		st.state = s.Clone()
		if st.state.Crons == nil {
			st.state.Crons = map[models.ID][]models.Cron{}
		}
		if st.state.SearchResults == nil {
			st.state.SearchResults = map[models.ID][]models.SearchResult{}
		}
		st.state.resetFlags()
	}
}

func WithLogger(l logging.Logger) Option {
	return func(st *Store) { st.logger = l }
}

// WithDevFallback enables local placeholder records when the backend is
// unreachable during creation. Development use only.
func WithDevFallback(enabled bool) Option {
	return func(st *Store) { st.devFallback = enabled }
}

func WithClock(now func() time.Time) Option {
	return func(st *Store) { st.now = now }
}

// WithIDGenerator sets how placeholder records get their ids.
func WithIDGenerator(gen func() models.ID) Option {
	return func(st *Store) { st.newID = gen }
}

// WithTokenStore lets the store drop the credential when the backend
// reports the session as expired.
func WithTokenStore(t TokenClearer) Option {
	return func(st *Store) { st.tokens = t }
}

// WithSessionExpiredHook is called, outside the store lock, after a 401
// has cleared the session.
func WithSessionExpiredHook(fn func()) Option {
	return func(st *Store) { st.onExpired = fn }
}

// New creates an isolated store backed by api.
func New(api client.Client, opts ...Option) *Store {
	s := &Store{
		api:      api,
		logger:   logging.Nop(),
		now:      time.Now,
		newID:    func() models.ID { return models.ID(uuid.NewString()) },
		state:    DefaultState(),
		latest:   make(map[Family]uint64),
		slots:    make(map[string]uint64),
		inflight: make(map[Family]int),
		subs:     make(map[int]func(State)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Loading reports whether any request of family f is in flight.
func (s *Store) Loading(f Family) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[f] > 0
}

// Err returns the recorded error message of family f, or "".
func (s *Store) Err(f Family) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Errors[f]
}

// Subscribe registers fn to receive a copy of the state after every change.
// Calls are serialized per change but may come from any goroutine. The
// returned func unsubscribes.
func (s *Store) Subscribe(fn func(State)) func() {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// ClearErrors resets every error slot. Loading flags are untouched.
func (s *Store) ClearErrors() {
	s.mu.Lock()
	for _, f := range Families {
		s.state.Errors[f] = ""
	}
	s.unlockAndNotify()
}

// Reset drops the session and every cached record. Fetches still in flight
// no longer replace anything when they settle.
func (s *Store) Reset() {
	s.mu.Lock()
	loading := s.state.Loading
	s.state = DefaultState()
	s.state.Loading = loading
	clear(s.slots)
	s.unlockAndNotify()
}

// unlockAndNotify releases s.mu and hands a copy of the state it guarded to
// every subscriber. subMu is taken before s.mu is released so deliveries
// follow commit order. Subscribers must not call Subscribe.
func (s *Store) unlockAndNotify() {
	snap := s.state.Clone()
	s.subMu.Lock()
	s.mu.Unlock()
	defer s.subMu.Unlock()
	for _, fn := range s.subs {
		fn(snap)
	}
}

// request is the in-flight token of one action.
type request struct {
	family Family
	slot   string
	id     uint64
}

// Replaceable slots. Merge actions (create, update, delete, single-record
// fetches) use noSlot and never supersede a fetch.
const (
	noSlot          = ""
	slotSession     = "auth/session"
	slotCompanies   = "companies"
	slotStats       = "dashboard/stats"
	slotAnalytics   = "dashboard/analytics"
	slotPerformance = "dashboard/cronPerformance"
	slotTrends      = "dashboard/searchTrends"
	slotNotes       = "dashboard/notifications"
)

// cronsSlot is the bucket FetchCrons replaces; "*" stands for all of them.
func cronsSlot(companyID models.ID) string {
	if companyID.IsZero() {
		return "crons/*"
	}
	return "crons/" + string(companyID)
}

func resultsSlot(cronID models.ID) string {
	if cronID.IsZero() {
		return "searchResults/*"
	}
	return "searchResults/" + string(cronID)
}

// begin marks a request of family f as pending. A non-empty slot makes it
// the newest writer of that slot.
func (s *Store) begin(f Family, slot string) request {
	s.mu.Lock()
	s.seq++
	r := request{family: f, slot: slot, id: s.seq}
	s.latest[f] = r.id
	if slot != noSlot {
		s.slots[slot] = r.id
	}
	s.inflight[f]++
	s.state.Loading[f] = true
	s.state.Errors[f] = ""
	s.unlockAndNotify()
	return r
}

// finish settles r. On success commit runs under the lock unless a newer
// request has claimed r's slot; on failure the error slot is written if r
// is still the family's latest request. When ctx is done nothing is
// recorded.
func (s *Store) finish(ctx context.Context, r request, err error, commit func(*State)) {
	expired := false

	s.mu.Lock()
	s.inflight[r.family]--
	s.state.Loading[r.family] = s.inflight[r.family] > 0

	switch {
	case ctx.Err() != nil:
	case err != nil:
		if s.latest[r.family] == r.id {
			s.state.Errors[r.family] = Message(err)
		}
		if r.family != FamilyAuth && errors.Is(err, client.ErrUnauthorized) {
			s.state.IsAuthenticated = false
			s.state.CurrentUser = nil
			expired = true
		}
	case commit != nil && (r.slot == noSlot || s.slots[r.slot] == r.id):
		commit(&s.state)
	}
	s.unlockAndNotify()

	if err != nil && ctx.Err() == nil {
		s.logger.Warn(ctx, "action failed", "family", string(r.family), "error", err)
	}
	if expired {
		s.sessionExpired(ctx)
	}
}

func (s *Store) sessionExpired(ctx context.Context) {
	if s.tokens != nil {
		if err := s.tokens.Clear(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error(ctx, "failed to clear token", "error", err)
		}
	}
	s.logger.Info(ctx, "session expired")
	if s.onExpired != nil {
		s.onExpired()
	}
}

// Message is the text recorded in an error slot for err.
func Message(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// fallbackAllowed reports whether a failed create may be replaced by a local
// placeholder record.
func (s *Store) fallbackAllowed(ctx context.Context, err error) bool {
	return s.devFallback && ctx.Err() == nil && errors.Is(err, client.ErrUnavailable)
}

func (s *Store) today() string {
	return s.now().Format(time.DateOnly)
}
