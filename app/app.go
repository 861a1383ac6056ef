// Package app embeds the module keepers over one commit multistore and runs
// every state change as an all-or-nothing, serialized operation.
package app

import (
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	pruningtypes "cosmossdk.io/store/pruning/types"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/openalpha/supercluster/config"
)

const (
	Name = "supercluster"
)

// Event is one committed keeper event
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
	Height     int64             `json:"height"`
	Time       time.Time         `json:"time"`
}

// EventListener receives the events of every committed operation, in order.
// Listeners run outside the state lock and must not block for long.
type EventListener interface {
	OnEvents(events []Event)
}

// Option configures an App
type Option func(*App)

// WithClock replaces the wall clock used for block time
func WithClock(clock func() time.Time) Option {
	return func(a *App) { a.clock = clock }
}

// App owns the state store and the keeper graph
type App struct {
	mu       sync.RWMutex
	db       dbm.DB
	cms      storetypes.CommitMultiStore
	keys     map[string]*storetypes.KVStoreKey
	logger   log.Logger
	clock    func() time.Time
	lastTime time.Time

	Keepers
	Msgs    MsgServers
	Queries QueryServers

	listenersMu sync.RWMutex
	listeners   []EventListener
}

// OpenDB opens the configured state database
func OpenDB(cfg config.StoreConfig) (dbm.DB, error) {
	return dbm.NewDB(Name, dbm.BackendType(cfg.Backend), cfg.Home)
}

// New loads the latest state from db and applies genesis when the store is empty
func New(db dbm.DB, genesis config.GenesisConfig, logger log.Logger, opts ...Option) (*App, error) {
	keys := StoreKeys()
	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	cms.SetPruning(pruningtypes.NewPruningOptions(pruningtypes.PruningEverything))
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, nil)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}

	a := &App{
		db:     db,
		cms:    cms,
		keys:   keys,
		logger: logger.With("module", "app"),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.Keepers = NewKeepers(keys, genesis.Denom, logger)
	a.Msgs = newMsgServers(a.Keepers)
	a.Queries = newQueryServers(a.Keepers)

	var initialized bool
	if err := a.Query(func(ctx sdk.Context) error {
		initialized = a.Access.IsInitialized(ctx)
		return nil
	}); err != nil {
		return nil, err
	}
	if !initialized {
		if err := a.Exec(func(ctx sdk.Context) error {
			return a.InitGenesis(ctx, genesis)
		}); err != nil {
			return nil, fmt.Errorf("genesis: %w", err)
		}
	}

	a.logger.Info("state loaded", "height", a.Height(), "genesis", !initialized)
	return a, nil
}

// AddListener registers l for committed events
func (a *App) AddListener(l EventListener) {
	a.listenersMu.Lock()
	defer a.listenersMu.Unlock()
	a.listeners = append(a.listeners, l)
}

// Height returns the last committed version
func (a *App) Height() int64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cms.LastCommitID().Version
}

// Exec runs fn under the exclusive lock on a cached context at the next
// height. Writes reach the store only when fn succeeds; any error or panic
// discards them.
func (a *App) Exec(fn func(ctx sdk.Context) error) error {
	events, err := a.exec(fn)
	if err != nil {
		return err
	}
	a.publish(events)
	return nil
}

func (a *App) exec(fn func(ctx sdk.Context) error) (events []Event, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	blockTime := a.clock().UTC()
	if blockTime.Before(a.lastTime) {
		blockTime = a.lastTime
	}
	height := a.cms.LastCommitID().Version + 1
	ctx := a.newContext(a.cms, height, blockTime)
	cacheCtx, write := ctx.CacheContext()

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("operation panicked", "height", height, "panic", r)
			events, err = nil, fmt.Errorf("operation panicked: %v", r)
		}
	}()

	start := time.Now()
	if err := fn(cacheCtx); err != nil {
		a.logger.Debug("operation rolled back", "height", height, "error", err)
		return nil, err
	}
	write()
	commit := a.cms.Commit()
	a.lastTime = blockTime

	a.logger.Debug("operation committed",
		"height", commit.Version,
		"events", len(ctx.EventManager().Events()),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return convertEvents(ctx.EventManager().Events(), commit.Version, blockTime), nil
}

// Query runs fn under the shared lock against a throwaway cache of the last
// committed state
func (a *App) Query(fn func(ctx sdk.Context) error) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	ctx := a.newContext(a.cms.CacheMultiStore(), a.cms.LastCommitID().Version, a.clock().UTC())
	return fn(ctx)
}

// Close releases the database
func (a *App) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.db.Close()
}

func (a *App) newContext(ms storetypes.MultiStore, height int64, t time.Time) sdk.Context {
	header := cmtproto.Header{ChainID: Name, Height: height, Time: t}
	return sdk.NewContext(ms, header, false, a.logger)
}

func (a *App) publish(events []Event) {
	if len(events) == 0 {
		return
	}
	a.listenersMu.RLock()
	listeners := append([]EventListener(nil), a.listeners...)
	a.listenersMu.RUnlock()
	for _, l := range listeners {
		l.OnEvents(events)
	}
}

func convertEvents(evs sdk.Events, height int64, t time.Time) []Event {
	out := make([]Event, 0, len(evs))
	for _, ev := range evs {
		attrs := make(map[string]string, len(ev.Attributes))
		for _, attr := range ev.Attributes {
			attrs[attr.Key] = attr.Value
		}
		out = append(out, Event{Type: ev.Type, Attributes: attrs, Height: height, Time: t})
	}
	return out
}
