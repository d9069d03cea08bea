package sync

import (
	"context"
	"fmt"
	"net/http"
	stdsync "sync"
	"testing"
	"time"

	"github.com/fasterfoods/fasterfoods-go/internal/api"
	"github.com/fasterfoods/fasterfoods-go/internal/domain"
	"github.com/fasterfoods/fasterfoods-go/internal/outbox"
	"github.com/fasterfoods/fasterfoods-go/internal/snapshot"
)

// seqIDProvider issues deterministic ids for tests.
type seqIDProvider struct {
	mu   stdsync.Mutex
	next int
}

func (p *seqIDProvider) NewID() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	return fmt.Sprintf("id-%d", p.next), nil
}

// fakeSignal implements Signal with test-controlled transitions.
type fakeSignal struct {
	mu        stdsync.Mutex
	connected bool
	subs      []func(bool)
}

func (s *fakeSignal) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

func (s *fakeSignal) Subscribe(fn func(bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// set flips connectivity and dispatches subscribers on the edge.
func (s *fakeSignal) set(connected bool) {
	s.mu.Lock()
	if s.connected == connected {
		s.mu.Unlock()
		return
	}
	s.connected = connected
	subs := append([]func(bool){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(connected)
	}
}

// setQuietly flips connectivity without notifying subscribers, for tests
// that drive replay synchronously.
func (s *fakeSignal) setQuietly(connected bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connected = connected
}

type toggleCall struct {
	listID  string
	itemID  string
	checked bool
}

// fakeRemote implements Remote in memory, recording every call.
type fakeRemote struct {
	mu       stdsync.Mutex
	nextID   int
	calls    []string
	errs     map[string]error
	assignID func(prefix string) string
	onCall   func(method string)

	state       api.State
	toggleCalls []toggleCall
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{errs: map[string]error{}}
}

func (r *fakeRemote) setErr(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[method] = err
}

func (r *fakeRemote) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func (r *fakeRemote) callLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// record logs the call and consults the scripted error. The hook runs
// outside the lock so tests may block inside it.
func (r *fakeRemote) record(method string) error {
	r.mu.Lock()
	r.calls = append(r.calls, method)
	hook := r.onCall
	err := r.errs[method]
	r.mu.Unlock()
	if hook != nil {
		hook(method)
	}
	return err
}

func (r *fakeRemote) serverID(prefix string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.assignID != nil {
		return r.assignID(prefix)
	}
	r.nextID++
	return fmt.Sprintf("%s-%d", prefix, r.nextID)
}

func (r *fakeRemote) FetchState(context.Context) (api.State, error) {
	if err := r.record("FetchState"); err != nil {
		return api.State{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, nil
}

func (r *fakeRemote) CreatePantryItem(_ context.Context, item domain.PantryItem) (string, error) {
	if err := r.record("CreatePantryItem"); err != nil {
		return "", err
	}
	return r.serverID("p"), nil
}

func (r *fakeRemote) UpdatePantryItem(_ context.Context, item domain.PantryItem) error {
	return r.record("UpdatePantryItem")
}

func (r *fakeRemote) TogglePantryItem(_ context.Context, id string, checked bool) error {
	return r.record("TogglePantryItem")
}

func (r *fakeRemote) DeletePantryItem(_ context.Context, id string) error {
	return r.record("DeletePantryItem")
}

func (r *fakeRemote) CreateShoppingList(_ context.Context, name string) (string, error) {
	if err := r.record("CreateShoppingList"); err != nil {
		return "", err
	}
	return r.serverID("sl"), nil
}

func (r *fakeRemote) DeleteShoppingList(_ context.Context, id string) error {
	return r.record("DeleteShoppingList")
}

func (r *fakeRemote) CreateShoppingItem(_ context.Context, listID string, item domain.ShoppingItem) (string, error) {
	if err := r.record("CreateShoppingItem"); err != nil {
		return "", err
	}
	if domain.IsLocalID(listID) {
		return "", &api.Error{Op: "CreateShoppingItem", StatusCode: http.StatusUnprocessableEntity}
	}
	return r.serverID("si"), nil
}

func (r *fakeRemote) ToggleShoppingItem(_ context.Context, listID, itemID string, checked bool) error {
	if err := r.record("ToggleShoppingItem"); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggleCalls = append(r.toggleCalls, toggleCall{listID: listID, itemID: itemID, checked: checked})
	return nil
}

func (r *fakeRemote) DeleteShoppingItem(_ context.Context, listID, itemID string) error {
	return r.record("DeleteShoppingItem")
}

func (r *fakeRemote) CreateFoodLog(_ context.Context, item domain.FoodLogItem) (string, error) {
	if err := r.record("CreateFoodLog"); err != nil {
		return "", err
	}
	return r.serverID("f"), nil
}

func (r *fakeRemote) DeleteFoodLog(_ context.Context, id string) error {
	return r.record("DeleteFoodLog")
}

func (r *fakeRemote) CreateWorkout(_ context.Context, item domain.WorkoutItem) (string, error) {
	if err := r.record("CreateWorkout"); err != nil {
		return "", err
	}
	return r.serverID("w"), nil
}

func (r *fakeRemote) DeleteWorkout(_ context.Context, id string) error {
	return r.record("DeleteWorkout")
}

func (r *fakeRemote) CreateCustomMetric(_ context.Context, metric domain.CustomMetric) (string, error) {
	if err := r.record("CreateCustomMetric"); err != nil {
		return "", err
	}
	return r.serverID("m"), nil
}

func (r *fakeRemote) DeleteCustomMetric(_ context.Context, id string) error {
	return r.record("DeleteCustomMetric")
}

func connectivityErr(op string) error {
	return &api.Error{Op: op, Connectivity: true, Err: fmt.Errorf("dial tcp: no route to host")}
}

func statusErr(op string, status int) error {
	return &api.Error{Op: op, StatusCode: status}
}

type testHarness struct {
	coordinator *Coordinator
	remote      *fakeRemote
	signal      *fakeSignal
	store       *snapshot.Store
	outbox      *outbox.Log
	dir         string
}

func newTestHarness(t *testing.T, connected bool) *testHarness {
	t.Helper()

	dir := t.TempDir()
	store, err := snapshot.NewStore(snapshot.StoreConfig{Directory: dir})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	log, err := outbox.Open(outbox.LogConfig{Directory: dir})
	if err != nil {
		t.Fatalf("unexpected outbox error: %v", err)
	}

	remote := newFakeRemote()
	signal := &fakeSignal{connected: connected}

	coordinator, err := NewCoordinator(Config{
		Store:      store,
		Outbox:     log,
		Remote:     remote,
		Signal:     signal,
		Clock:      func() time.Time { return time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC) },
		IDProvider: &seqIDProvider{},
	})
	if err != nil {
		t.Fatalf("unexpected coordinator error: %v", err)
	}

	return &testHarness{
		coordinator: coordinator,
		remote:      remote,
		signal:      signal,
		store:       store,
		outbox:      log,
		dir:         dir,
	}
}

func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %v", timeout)
}
