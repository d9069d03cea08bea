package sync

import (
	"context"
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/fasterfoods/fasterfoods-go/internal/api"
	"github.com/fasterfoods/fasterfoods-go/internal/domain"
	"github.com/fasterfoods/fasterfoods-go/internal/outbox"
	"github.com/fasterfoods/fasterfoods-go/internal/snapshot"
)

func TestNewCoordinatorRequiresCollaborators(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := snapshot.NewStore(snapshot.StoreConfig{Directory: dir})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	log, err := outbox.Open(outbox.LogConfig{Directory: dir})
	if err != nil {
		t.Fatalf("unexpected outbox error: %v", err)
	}

	testCases := []struct {
		name   string
		config Config
	}{
		{name: "missing store", config: Config{Outbox: log, Remote: newFakeRemote()}},
		{name: "missing outbox", config: Config{Store: store, Remote: newFakeRemote()}},
		{name: "missing remote", config: Config{Store: store, Outbox: log}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := NewCoordinator(testCase.config); err == nil {
				t.Fatal("expected configuration error")
			}
		})
	}
}

func TestAddPantryItemOfflineQueuesOptimistically(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	item, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs", Quantity: 12, Unit: "pcs", Category: "Dairy"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !domain.IsLocalID(item.ID) {
		t.Fatalf("expected temporary id, got %q", item.ID)
	}

	snap := harness.coordinator.Snapshot()
	if len(snap.PantryItems) != 1 || snap.PantryItems[0].ID != item.ID {
		t.Fatalf("expected optimistic pantry item in snapshot, got %+v", snap.PantryItems)
	}
	if snap.PantryItems[0].Checked {
		t.Fatal("expected new pantry item to start unchecked")
	}
	if harness.coordinator.PendingOperations() != 1 {
		t.Fatalf("expected 1 pending operation, got %d", harness.coordinator.PendingOperations())
	}
	if harness.remote.callCount() != 0 {
		t.Fatalf("expected no remote calls while disconnected, got %v", harness.remote.callLog())
	}
}

func TestAddPantryItemConnectedReconcilesImmediately(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, true)
	harness.remote.assignID = func(string) string { return "p-42" }

	item, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "p-42" {
		t.Fatalf("expected server id p-42, got %q", item.ID)
	}

	snap := harness.coordinator.Snapshot()
	if len(snap.PantryItems) != 1 || snap.PantryItems[0].ID != "p-42" {
		t.Fatalf("expected snapshot to carry the server id, got %+v", snap.PantryItems)
	}
	if harness.coordinator.PendingOperations() != 0 {
		t.Fatalf("expected empty outbox after confirmation, got %d", harness.coordinator.PendingOperations())
	}
}

func TestReconnectTriggersBackgroundReplay(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)
	harness.remote.assignID = func(string) string { return "p-42" }

	if _, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	harness.signal.set(true)

	waitFor(t, 2*time.Second, func() bool {
		return harness.coordinator.PendingOperations() == 0
	})
	snap := harness.coordinator.Snapshot()
	if len(snap.PantryItems) != 1 || snap.PantryItems[0].ID != "p-42" {
		t.Fatalf("expected reconciled snapshot after reconnect, got %+v", snap.PantryItems)
	}
	if err := harness.coordinator.LastSyncError(); err != nil {
		t.Fatalf("expected clean sync state, got %v", err)
	}
}

func TestReplayRewritesDependentOperationsInOrder(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	list, err := harness.coordinator.CreateShoppingList(context.Background(), "Default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	item, err := harness.coordinator.AddShoppingItem(context.Background(), list.ID, domain.ShoppingItem{Name: "Milk", Quantity: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := harness.coordinator.ToggleShoppingItem(context.Background(), list.ID, item.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	harness.signal.setQuietly(true)
	if err := harness.coordinator.FlushPendingOperations(context.Background()); err != nil {
		t.Fatalf("unexpected replay error: %v", err)
	}

	wantCalls := []string{"CreateShoppingList", "CreateShoppingItem", "ToggleShoppingItem"}
	if got := harness.remote.callLog(); !reflect.DeepEqual(got, wantCalls) {
		t.Fatalf("expected calls %v, got %v", wantCalls, got)
	}
	if len(harness.remote.toggleCalls) != 1 {
		t.Fatalf("expected one toggle call, got %d", len(harness.remote.toggleCalls))
	}
	toggle := harness.remote.toggleCalls[0]
	if toggle.listID != "sl-1" || toggle.itemID != "si-2" || !toggle.checked {
		t.Fatalf("expected toggle against server ids, got %+v", toggle)
	}

	snap := harness.coordinator.Snapshot()
	if len(snap.ShoppingLists) != 1 || snap.ShoppingLists[0].ID != "sl-1" {
		t.Fatalf("expected reconciled list id, got %+v", snap.ShoppingLists)
	}
	items := snap.ShoppingLists[0].Items
	if len(items) != 1 || items[0].ID != "si-2" || !items[0].Checked {
		t.Fatalf("expected reconciled checked item, got %+v", items)
	}
	if harness.coordinator.PendingOperations() != 0 {
		t.Fatalf("expected empty outbox, got %d", harness.coordinator.PendingOperations())
	}
}

func TestDeleteOfUnsentEntityPrunesQueuedOperations(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	item, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Kale"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := harness.coordinator.TogglePantryItem(context.Background(), item.ID, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := harness.coordinator.DeletePantryItem(context.Background(), item.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if harness.coordinator.PendingOperations() != 0 {
		t.Fatalf("expected all queued operations pruned, got %d", harness.coordinator.PendingOperations())
	}
	if len(harness.coordinator.Snapshot().PantryItems) != 0 {
		t.Fatal("expected pantry item removed from snapshot")
	}

	harness.signal.setQuietly(true)
	if err := harness.coordinator.FlushPendingOperations(context.Background()); err != nil {
		t.Fatalf("unexpected replay error: %v", err)
	}
	if harness.remote.callCount() != 0 {
		t.Fatalf("expected server to never learn about the entity, got %v", harness.remote.callLog())
	}
}

func TestDeleteUnsentShoppingListPrunesItemOperations(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	list, err := harness.coordinator.CreateShoppingList(context.Background(), "Party")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := harness.coordinator.AddShoppingItem(context.Background(), list.ID, domain.ShoppingItem{Name: "Chips"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := harness.coordinator.DeleteShoppingList(context.Background(), list.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if harness.coordinator.PendingOperations() != 0 {
		t.Fatalf("expected create and dependent item operations pruned, got %d", harness.coordinator.PendingOperations())
	}
}

func TestAddShoppingItemRejectsUnknownList(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	if _, err := harness.coordinator.AddShoppingItem(context.Background(), "sl-404", domain.ShoppingItem{Name: "Milk"}); err == nil {
		t.Fatal("expected error for unknown list")
	}
	if harness.coordinator.PendingOperations() != 0 {
		t.Fatal("expected no operation enqueued for rejected write")
	}
}

func TestReplayStopsOnRetryableFailure(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	if _, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := harness.coordinator.AddWorkout(context.Background(), domain.WorkoutItem{Name: "Run"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	harness.remote.setErr("CreatePantryItem", statusErr("CreatePantryItem", http.StatusInternalServerError))
	harness.signal.setQuietly(true)

	err := harness.coordinator.FlushPendingOperations(context.Background())
	if err == nil {
		t.Fatal("expected replay error")
	}
	if harness.coordinator.PendingOperations() != 2 {
		t.Fatalf("expected both operations to stay queued, got %d", harness.coordinator.PendingOperations())
	}
	for _, call := range harness.remote.callLog() {
		if call == "CreateWorkout" {
			t.Fatal("expected replay to stop before the dependent tail")
		}
	}
	if harness.coordinator.LastSyncError() == nil {
		t.Fatal("expected last sync error to be recorded")
	}

	// A later clean pass drains the queue and resets the error state.
	harness.remote.setErr("CreatePantryItem", nil)
	if err := harness.coordinator.FlushPendingOperations(context.Background()); err != nil {
		t.Fatalf("unexpected replay error: %v", err)
	}
	if harness.coordinator.PendingOperations() != 0 {
		t.Fatalf("expected drained outbox, got %d", harness.coordinator.PendingOperations())
	}
	if err := harness.coordinator.LastSyncError(); err != nil {
		t.Fatalf("expected cleared sync error, got %v", err)
	}
}

func TestReplayClassifiesConnectivityFailure(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	if _, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	harness.remote.setErr("CreatePantryItem", connectivityErr("CreatePantryItem"))
	harness.signal.setQuietly(true)

	err := harness.coordinator.FlushPendingOperations(context.Background())
	if err == nil {
		t.Fatal("expected replay error")
	}
	if !api.IsConnectivity(err) {
		t.Fatalf("expected connectivity classification, got %v", err)
	}
	if harness.coordinator.PendingOperations() != 1 {
		t.Fatalf("expected operation to stay queued, got %d", harness.coordinator.PendingOperations())
	}
}

func TestReplayAuthFailureLeavesOperationQueued(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	if _, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	harness.remote.setErr("CreatePantryItem", statusErr("CreatePantryItem", http.StatusUnauthorized))
	harness.signal.setQuietly(true)

	err := harness.coordinator.FlushPendingOperations(context.Background())
	if err == nil {
		t.Fatal("expected replay error")
	}
	if !api.IsAuth(err) {
		t.Fatalf("expected auth classification, got %v", err)
	}
	if harness.coordinator.PendingOperations() != 1 {
		t.Fatalf("expected operation to stay queued, got %d", harness.coordinator.PendingOperations())
	}
}

func TestReplayPrunesOperationsAgainstGoneTargets(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	if err := harness.coordinator.DeletePantryItem(context.Background(), "p-9"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if harness.coordinator.PendingOperations() != 1 {
		t.Fatalf("expected queued delete, got %d", harness.coordinator.PendingOperations())
	}

	harness.remote.setErr("DeletePantryItem", statusErr("DeletePantryItem", http.StatusNotFound))
	harness.signal.setQuietly(true)

	if err := harness.coordinator.FlushPendingOperations(context.Background()); err != nil {
		t.Fatalf("expected moot operation to be pruned without error, got %v", err)
	}
	if harness.coordinator.PendingOperations() != 0 {
		t.Fatalf("expected empty outbox, got %d", harness.coordinator.PendingOperations())
	}
}

func TestReplayTwiceIsIdempotent(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	if _, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := harness.coordinator.AddWorkout(context.Background(), domain.WorkoutItem{Name: "Run"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	harness.signal.setQuietly(true)
	if err := harness.coordinator.FlushPendingOperations(context.Background()); err != nil {
		t.Fatalf("unexpected replay error: %v", err)
	}
	firstSnapshot := harness.coordinator.Snapshot()
	firstCalls := harness.remote.callCount()

	if err := harness.coordinator.FlushPendingOperations(context.Background()); err != nil {
		t.Fatalf("unexpected replay error: %v", err)
	}
	if harness.remote.callCount() != firstCalls {
		t.Fatalf("expected no additional remote calls, got %v", harness.remote.callLog())
	}
	if !reflect.DeepEqual(firstSnapshot, harness.coordinator.Snapshot()) {
		t.Fatal("expected snapshot to be unchanged by the second pass")
	}
}

func TestCancelledFlushLeavesOperationsQueued(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	if _, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := harness.coordinator.AddWorkout(context.Background(), domain.WorkoutItem{Name: "Run"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	harness.signal.setQuietly(true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := harness.coordinator.FlushPendingOperations(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
	if harness.coordinator.PendingOperations() != 2 {
		t.Fatalf("expected both operations to stay queued, got %d", harness.coordinator.PendingOperations())
	}
	if harness.remote.callCount() != 0 {
		t.Fatalf("expected no remote calls after pre-cancelled context, got %v", harness.remote.callLog())
	}
}

func TestLoadAllReplacesStateAndKeepsUnsentCreates(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	kale, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Kale"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	harness.remote.state = api.State{
		PantryItems: []domain.PantryItem{{ID: "p-7", Name: "Butter", Quantity: 1}},
		ShoppingLists: []domain.ShoppingList{
			{ID: "sl-3", Name: "Weekly", Items: []domain.ShoppingItem{{ID: "si-8", Name: "Bread"}}},
		},
	}

	snap, err := harness.coordinator.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected merge error: %v", err)
	}

	if len(snap.PantryItems) != 2 {
		t.Fatalf("expected server item plus unsent local item, got %+v", snap.PantryItems)
	}
	if snap.PantryItems[0].ID != "p-7" {
		t.Fatalf("expected server item first, got %+v", snap.PantryItems)
	}
	if snap.PantryItems[1].ID != kale.ID {
		t.Fatalf("expected unsent local item to survive the merge, got %+v", snap.PantryItems)
	}
	if len(snap.ShoppingLists) != 1 || snap.ShoppingLists[0].ID != "sl-3" {
		t.Fatalf("expected server shopping list, got %+v", snap.ShoppingLists)
	}
	if harness.coordinator.PendingOperations() != 1 {
		t.Fatalf("expected queued create to survive the merge, got %d", harness.coordinator.PendingOperations())
	}
}

func TestLoadAllPrunesOperationsForRemotelyDeletedEntities(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	// A toggle against a durable id the server no longer has.
	if err := harness.coordinator.TogglePantryItem(context.Background(), "p-9", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if harness.coordinator.PendingOperations() != 1 {
		t.Fatalf("expected queued toggle, got %d", harness.coordinator.PendingOperations())
	}

	if _, err := harness.coordinator.LoadAll(context.Background()); err != nil {
		t.Fatalf("unexpected merge error: %v", err)
	}
	if harness.coordinator.PendingOperations() != 0 {
		t.Fatalf("expected moot toggle pruned after merge, got %d", harness.coordinator.PendingOperations())
	}
}

func TestLoadAllFetchFailureKeepsLocalState(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	item, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	harness.remote.setErr("FetchState", connectivityErr("FetchState"))

	snap, err := harness.coordinator.LoadAll(context.Background())
	if err == nil {
		t.Fatal("expected merge error")
	}
	if len(snap.PantryItems) != 1 || snap.PantryItems[0].ID != item.ID {
		t.Fatalf("expected cached snapshot to survive fetch failure, got %+v", snap.PantryItems)
	}
	if harness.coordinator.PendingOperations() != 1 {
		t.Fatalf("expected queued operation to survive fetch failure, got %d", harness.coordinator.PendingOperations())
	}
	if harness.coordinator.LastSyncError() == nil {
		t.Fatal("expected last sync error to be recorded")
	}
}

func TestClearOfflineStateWipesDiskAndMemory(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	if _, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	harness.coordinator.ClearOfflineState()

	if harness.coordinator.PendingOperations() != 0 {
		t.Fatalf("expected empty outbox, got %d", harness.coordinator.PendingOperations())
	}
	if len(harness.coordinator.Snapshot().PantryItems) != 0 {
		t.Fatal("expected empty snapshot")
	}

	if _, ok := harness.store.Load(); ok {
		t.Fatal("expected snapshot file removed from disk")
	}
	reopened, err := outbox.Open(outbox.LogConfig{Directory: harness.dir})
	if err != nil {
		t.Fatalf("unexpected outbox error: %v", err)
	}
	if reopened.Len() != 0 {
		t.Fatalf("expected empty outbox on disk, got %d", reopened.Len())
	}
}

func TestOfflineStateSurvivesRestart(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	item, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	store, err := snapshot.NewStore(snapshot.StoreConfig{Directory: harness.dir})
	if err != nil {
		t.Fatalf("unexpected store error: %v", err)
	}
	log, err := outbox.Open(outbox.LogConfig{Directory: harness.dir})
	if err != nil {
		t.Fatalf("unexpected outbox error: %v", err)
	}
	remote := newFakeRemote()
	remote.assignID = func(string) string { return "p-42" }

	restarted, err := NewCoordinator(Config{
		Store:      store,
		Outbox:     log,
		Remote:     remote,
		Signal:     &fakeSignal{connected: true},
		IDProvider: &seqIDProvider{},
	})
	if err != nil {
		t.Fatalf("unexpected coordinator error: %v", err)
	}

	snap := restarted.Snapshot()
	if len(snap.PantryItems) != 1 || snap.PantryItems[0].ID != item.ID {
		t.Fatalf("expected optimistic item after restart, got %+v", snap.PantryItems)
	}
	if restarted.PendingOperations() != 1 {
		t.Fatalf("expected queued operation after restart, got %d", restarted.PendingOperations())
	}

	if err := restarted.FlushPendingOperations(context.Background()); err != nil {
		t.Fatalf("unexpected replay error: %v", err)
	}
	snap = restarted.Snapshot()
	if len(snap.PantryItems) != 1 || snap.PantryItems[0].ID != "p-42" {
		t.Fatalf("expected reconciliation after restart replay, got %+v", snap.PantryItems)
	}
}

func TestCustomMetricReplayRoundTrip(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	metric, err := harness.coordinator.AddCustomMetric(context.Background(), domain.CustomMetric{Name: "Weight", Unit: "kg", Value: 72.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !domain.IsLocalID(metric.ID) {
		t.Fatalf("expected temporary id, got %q", metric.ID)
	}

	harness.signal.setQuietly(true)
	if err := harness.coordinator.FlushPendingOperations(context.Background()); err != nil {
		t.Fatalf("unexpected replay error: %v", err)
	}
	snap := harness.coordinator.Snapshot()
	if len(snap.CustomMetrics) != 1 || snap.CustomMetrics[0].ID != "m-1" {
		t.Fatalf("expected reconciled metric, got %+v", snap.CustomMetrics)
	}

	if err := harness.coordinator.DeleteCustomMetric(context.Background(), "m-1"); err != nil {
		t.Fatalf("unexpected delete error: %v", err)
	}

	wantCalls := []string{"CreateCustomMetric", "DeleteCustomMetric"}
	if got := harness.remote.callLog(); !reflect.DeepEqual(got, wantCalls) {
		t.Fatalf("expected calls %v, got %v", wantCalls, got)
	}
	if harness.coordinator.PendingOperations() != 0 {
		t.Fatalf("expected empty outbox, got %d", harness.coordinator.PendingOperations())
	}
}

func TestWriteDuringReplayIsNotDoubleSubmitted(t *testing.T) {
	t.Parallel()

	harness := newTestHarness(t, false)

	if _, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Eggs"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Block the replay pass inside the first create so a second write lands
	// while that pass still owns the queue.
	firstCreate := make(chan struct{}, 1)
	firstCreate <- struct{}{}
	entered := make(chan struct{})
	release := make(chan struct{})
	harness.remote.onCall = func(method string) {
		if method != "CreatePantryItem" {
			return
		}
		select {
		case <-firstCreate:
			close(entered)
			<-release
		default:
		}
	}

	harness.signal.set(true)
	<-entered

	milk, err := harness.coordinator.AddPantryItem(context.Background(), domain.PantryItem{Name: "Milk"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !domain.IsLocalID(milk.ID) {
		t.Fatalf("expected the running pass to own delivery, got immediate id %q", milk.ID)
	}

	close(release)
	waitFor(t, 2*time.Second, func() bool {
		return harness.coordinator.PendingOperations() == 0
	})

	creates := 0
	for _, call := range harness.remote.callLog() {
		if call == "CreatePantryItem" {
			creates++
		}
	}
	if creates != 2 {
		t.Fatalf("expected exactly 2 creates for 2 writes, got %d", creates)
	}

	snap := harness.coordinator.Snapshot()
	if len(snap.PantryItems) != 2 {
		t.Fatalf("expected 2 pantry items, got %+v", snap.PantryItems)
	}
	for _, item := range snap.PantryItems {
		if domain.IsLocalID(item.ID) {
			t.Fatalf("expected reconciled server ids, got %+v", snap.PantryItems)
		}
	}
}
