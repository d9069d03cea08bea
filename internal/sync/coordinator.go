// Package sync contains the synchronization coordinator: the single
// component that applies optimistic local mutations, replays the outbox when
// connectivity allows, reconciles server-assigned identifiers, and merges
// authoritative server state into the local snapshot.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fasterfoods/fasterfoods-go/internal/api"
	"github.com/fasterfoods/fasterfoods-go/internal/domain"
	"github.com/fasterfoods/fasterfoods-go/internal/outbox"
	"github.com/fasterfoods/fasterfoods-go/internal/snapshot"
)

var (
	errMissingStore      = errors.New("snapshot store is required")
	errMissingOutbox     = errors.New("outbox log is required")
	errMissingRemote     = errors.New("remote client is required")
	errUnknownList       = errors.New("shopping list is not present locally")
	errUnknownPantryItem = errors.New("pantry item is not present locally")
)

// Remote is the boundary to the FasterFoods service. Create calls return the
// server-assigned id; every call may fail with an error classified by the
// api package helpers. *api.Client implements it.
type Remote interface {
	FetchState(ctx context.Context) (api.State, error)

	CreatePantryItem(ctx context.Context, item domain.PantryItem) (string, error)
	UpdatePantryItem(ctx context.Context, item domain.PantryItem) error
	TogglePantryItem(ctx context.Context, id string, checked bool) error
	DeletePantryItem(ctx context.Context, id string) error

	CreateShoppingList(ctx context.Context, name string) (string, error)
	DeleteShoppingList(ctx context.Context, id string) error
	CreateShoppingItem(ctx context.Context, listID string, item domain.ShoppingItem) (string, error)
	ToggleShoppingItem(ctx context.Context, listID, itemID string, checked bool) error
	DeleteShoppingItem(ctx context.Context, listID, itemID string) error

	CreateFoodLog(ctx context.Context, item domain.FoodLogItem) (string, error)
	DeleteFoodLog(ctx context.Context, id string) error
	CreateWorkout(ctx context.Context, item domain.WorkoutItem) (string, error)
	DeleteWorkout(ctx context.Context, id string) error
	CreateCustomMetric(ctx context.Context, metric domain.CustomMetric) (string, error)
	DeleteCustomMetric(ctx context.Context, id string) error
}

// Signal exposes the reachability monitor surface the coordinator needs.
type Signal interface {
	Connected() bool
	Subscribe(fn func(connected bool))
}

// SyncError carries a dotted operation code alongside the cause.
type SyncError struct {
	code string
	err  error
}

func (e *SyncError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *SyncError) Unwrap() error {
	return e.err
}

func (e *SyncError) Code() string {
	return e.code
}

func newSyncError(operation, reason string, cause error) error {
	return &SyncError{code: fmt.Sprintf("%s.%s", operation, reason), err: cause}
}

const (
	opCoordinatorNew = "sync.coordinator.new"
	opFlush          = "sync.flush_pending_operations"
	opLoadAll        = "sync.load_all"
)

// Config assembles the coordinator's collaborators.
type Config struct {
	Store      *snapshot.Store
	Outbox     *outbox.Log
	Remote     Remote
	Signal     Signal
	Clock      func() time.Time
	IDProvider domain.IDProvider
	Logger     *zap.Logger
}

// Coordinator owns all mutation of the snapshot and outbox. UI layers read
// snapshots and invoke coordinator actions; nothing else writes either
// resource.
type Coordinator struct {
	mu     sync.Mutex
	snap   *snapshot.Snapshot
	store  *snapshot.Store
	outbox *outbox.Log
	remote Remote
	signal Signal
	clock  func() time.Time
	ids    domain.IDProvider
	logger *zap.Logger

	replaying atomic.Bool

	syncErrMu   sync.Mutex
	lastSyncErr error
}

// NewCoordinator validates the config, seeds the in-memory snapshot from
// disk, and subscribes to reachability transitions. A disconnected→connected
// edge triggers a background replay pass.
func NewCoordinator(cfg Config) (*Coordinator, error) {
	if cfg.Store == nil {
		return nil, newSyncError(opCoordinatorNew, "missing_store", errMissingStore)
	}
	if cfg.Outbox == nil {
		return nil, newSyncError(opCoordinatorNew, "missing_outbox", errMissingOutbox)
	}
	if cfg.Remote == nil {
		return nil, newSyncError(opCoordinatorNew, "missing_remote", errMissingRemote)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	ids := cfg.IDProvider
	if ids == nil {
		ids = domain.NewUUIDProvider()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	snap, ok := cfg.Store.Load()
	if !ok {
		snap = snapshot.New()
	}

	c := &Coordinator{
		snap:   snap,
		store:  cfg.Store,
		outbox: cfg.Outbox,
		remote: cfg.Remote,
		signal: cfg.Signal,
		clock:  clock,
		ids:    ids,
		logger: logger,
	}

	if cfg.Signal != nil {
		cfg.Signal.Subscribe(func(connected bool) {
			if !connected {
				return
			}
			go func() {
				if err := c.FlushPendingOperations(context.Background()); err != nil {
					c.logger.Warn("reconnect replay failed",
						zap.String("operation", opFlush),
						zap.Error(err))
				}
			}()
		})
	}

	return c, nil
}

// Snapshot returns a deep copy of the current local state for UI reads.
func (c *Coordinator) Snapshot() *snapshot.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.Clone()
}

// PendingOperations returns how many mutations await confirmation.
func (c *Coordinator) PendingOperations() int {
	return c.outbox.Len()
}

// LastSyncError reports the outcome of the most recent replay or merge pass:
// nil after a clean pass, the failure otherwise.
func (c *Coordinator) LastSyncError() error {
	c.syncErrMu.Lock()
	defer c.syncErrMu.Unlock()
	return c.lastSyncErr
}

func (c *Coordinator) setLastSyncError(err error) {
	c.syncErrMu.Lock()
	defer c.syncErrMu.Unlock()
	c.lastSyncErr = err
}

// ClearOfflineState wipes the snapshot and outbox, both on disk and in
// memory. Used on logout.
func (c *Coordinator) ClearOfflineState() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.outbox.Clear(); err != nil {
		c.logger.Warn("outbox clear failed during logout", zap.Error(err))
	}
	c.store.Clear()
	c.snap = snapshot.New()
	c.setLastSyncError(nil)
}

func (c *Coordinator) connected() bool {
	if c.signal == nil {
		return true
	}
	return c.signal.Connected()
}

func (c *Coordinator) newLocalID() (string, error) {
	return domain.NewLocalID(c.ids)
}

func (c *Coordinator) newOperation(payload outbox.Payload) (outbox.Operation, error) {
	id, err := c.ids.NewID()
	if err != nil {
		return outbox.Operation{}, err
	}
	return outbox.Operation{
		ID:        id,
		Kind:      payload.Kind(),
		Payload:   payload,
		CreatedAt: c.clock().UTC(),
	}, nil
}

// applyAndEnqueue performs the optimistic half of the write path: mutate the
// in-memory snapshot, persist it, and append the operation durably, all
// before any network attempt.
func (c *Coordinator) applyAndEnqueue(op outbox.Operation, mutate func(*snapshot.Snapshot)) {
	c.mu.Lock()
	mutate(c.snap)
	c.store.Save(c.snap)
	c.mu.Unlock()

	if err := c.outbox.Enqueue(op); err != nil {
		c.logger.Warn("outbox enqueue persist failed, operation held in memory",
			zap.String("operation_id", op.ID),
			zap.String("kind", string(op.Kind)),
			zap.Error(err))
	}
}
