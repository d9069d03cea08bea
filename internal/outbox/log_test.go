package outbox

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestLog(t *testing.T, dir string) *Log {
	t.Helper()
	log, err := Open(LogConfig{Directory: dir})
	if err != nil {
		t.Fatalf("unexpected open error: %v", err)
	}
	return log
}

func mustEnqueue(t *testing.T, log *Log, op Operation) {
	t.Helper()
	if err := log.Enqueue(op); err != nil {
		t.Fatalf("unexpected enqueue error: %v", err)
	}
}

func createListOp(id, listID, name string) Operation {
	return Operation{
		ID:        id,
		Kind:      KindCreateShoppingList,
		Payload:   &CreateShoppingListPayload{ListID: listID, Name: name},
		CreatedAt: time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
	}
}

func addItemOp(id, itemID, listID, name string) Operation {
	return Operation{
		ID:        id,
		Kind:      KindAddShoppingItem,
		Payload:   &AddShoppingItemPayload{ItemID: itemID, ListID: listID, Name: name, Quantity: 1},
		CreatedAt: time.Date(2026, 2, 1, 8, 1, 0, 0, time.UTC),
	}
}

func TestEnqueuePreservesOrderAcrossReload(t *testing.T) {
	dir := t.TempDir()
	log := openTestLog(t, dir)

	mustEnqueue(t, log, createListOp("op-1", "local-a", "Default"))
	mustEnqueue(t, log, addItemOp("op-2", "local-b", "local-a", "Milk"))
	mustEnqueue(t, log, Operation{
		ID:        "op-3",
		Kind:      KindToggleShoppingItem,
		Payload:   &ToggleShoppingItemPayload{ListID: "local-a", ItemID: "local-b", Checked: true},
		CreatedAt: time.Date(2026, 2, 1, 8, 2, 0, 0, time.UTC),
	})

	reloaded := openTestLog(t, dir)
	ops := reloaded.All()
	if len(ops) != 3 {
		t.Fatalf("expected 3 operations after reload, got %d", len(ops))
	}
	for i, expected := range []string{"op-1", "op-2", "op-3"} {
		if ops[i].ID != expected {
			t.Fatalf("order lost at position %d: got %s", i, ops[i].ID)
		}
	}
	toggle, ok := ops[2].Payload.(*ToggleShoppingItemPayload)
	if !ok {
		t.Fatalf("payload decoded as %T", ops[2].Payload)
	}
	if toggle.ListID != "local-a" || toggle.ItemID != "local-b" || !toggle.Checked {
		t.Fatalf("toggle payload did not round trip: %+v", toggle)
	}
}

func TestReloadMatchesPersistedStateAfterEveryMutation(t *testing.T) {
	dir := t.TempDir()
	log := openTestLog(t, dir)

	assertReload := func(expected ...string) {
		t.Helper()
		reloaded := openTestLog(t, dir)
		ops := reloaded.All()
		if len(ops) != len(expected) {
			t.Fatalf("expected %d operations, got %d", len(expected), len(ops))
		}
		for i := range expected {
			if ops[i].ID != expected[i] {
				t.Fatalf("position %d: expected %s, got %s", i, expected[i], ops[i].ID)
			}
		}
	}

	mustEnqueue(t, log, createListOp("op-1", "local-a", "Default"))
	assertReload("op-1")

	mustEnqueue(t, log, addItemOp("op-2", "local-b", "local-a", "Milk"))
	assertReload("op-1", "op-2")

	if _, err := log.RewriteIDs("local-a", "sl-9"); err != nil {
		t.Fatalf("unexpected rewrite error: %v", err)
	}
	reloaded := openTestLog(t, dir)
	add := reloaded.All()[1].Payload.(*AddShoppingItemPayload)
	if add.ListID != "sl-9" {
		t.Fatalf("rewrite not persisted: %+v", add)
	}

	if err := log.Remove("op-1"); err != nil {
		t.Fatalf("unexpected remove error: %v", err)
	}
	assertReload("op-2")
}

func TestRewriteIDsIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	log := openTestLog(t, dir)

	mustEnqueue(t, log, addItemOp("op-1", "local-item", "local-list", "Milk"))

	first, err := log.RewriteIDs("local-list", "sl-1")
	if err != nil {
		t.Fatalf("unexpected rewrite error: %v", err)
	}
	if first != 1 {
		t.Fatalf("expected 1 rewritten payload, got %d", first)
	}

	second, err := log.RewriteIDs("local-list", "sl-1")
	if err != nil {
		t.Fatalf("unexpected rewrite error: %v", err)
	}
	if second != 0 {
		t.Fatalf("second rewrite should touch nothing, got %d", second)
	}
}

func TestRewriteIDsCoversEveryDependentField(t *testing.T) {
	dir := t.TempDir()
	log := openTestLog(t, dir)

	mustEnqueue(t, log, addItemOp("op-1", "local-item", "local-list", "Milk"))
	mustEnqueue(t, log, Operation{
		ID:      "op-2",
		Kind:    KindToggleShoppingItem,
		Payload: &ToggleShoppingItemPayload{ListID: "local-list", ItemID: "local-item", Checked: true},
	})
	mustEnqueue(t, log, Operation{
		ID:      "op-3",
		Kind:    KindDeleteShoppingItem,
		Payload: &DeleteShoppingItemPayload{ListID: "local-list", ItemID: "local-item"},
	})
	mustEnqueue(t, log, Operation{
		ID:      "op-4",
		Kind:    KindDeleteShoppingList,
		Payload: &DeleteShoppingListPayload{ListID: "local-list"},
	})

	if _, err := log.RewriteIDs("local-list", "sl-1"); err != nil {
		t.Fatalf("unexpected rewrite error: %v", err)
	}

	for _, op := range log.All() {
		if op.References("local-list") {
			t.Fatalf("operation %s still references the temp list id", op.ID)
		}
	}

	if _, err := log.RewriteIDs("local-item", "si-1"); err != nil {
		t.Fatalf("unexpected rewrite error: %v", err)
	}
	for _, op := range log.All() {
		if op.References("local-item") {
			t.Fatalf("operation %s still references the temp item id", op.ID)
		}
	}
}

func TestRemoveWhereDropsEveryMatch(t *testing.T) {
	dir := t.TempDir()
	log := openTestLog(t, dir)

	mustEnqueue(t, log, Operation{
		ID:      "op-1",
		Kind:    KindAddPantryItem,
		Payload: &AddPantryItemPayload{ItemID: "local-x", Name: "Eggs"},
	})
	mustEnqueue(t, log, Operation{
		ID:      "op-2",
		Kind:    KindTogglePantryItem,
		Payload: &TogglePantryItemPayload{ItemID: "local-x", Checked: true},
	})
	mustEnqueue(t, log, Operation{
		ID:      "op-3",
		Kind:    KindAddPantryItem,
		Payload: &AddPantryItemPayload{ItemID: "local-y", Name: "Rice"},
	})

	removed, err := log.RemoveWhere(func(op Operation) bool { return op.References("local-x") })
	if err != nil {
		t.Fatalf("unexpected remove error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removals, got %d", removed)
	}

	reloaded := openTestLog(t, dir)
	ops := reloaded.All()
	if len(ops) != 1 || ops[0].ID != "op-3" {
		t.Fatalf("unexpected surviving operations: %+v", ops)
	}
}

func TestOpenStartsEmptyOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, outboxFileName), []byte("[{"), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	log := openTestLog(t, dir)
	if log.Len() != 0 {
		t.Fatalf("expected empty log after corrupt load")
	}
}

func TestOpenStartsEmptyOnUnknownKind(t *testing.T) {
	dir := t.TempDir()
	doc := `[{"id":"op-1","kind":"teleport-groceries","payload":{},"createdAt":"2026-02-01T08:00:00Z"}]`
	if err := os.WriteFile(filepath.Join(dir, outboxFileName), []byte(doc), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	log := openTestLog(t, dir)
	if log.Len() != 0 {
		t.Fatalf("expected unknown kind to be treated as corrupt")
	}
}

func TestAllReturnsDeepCopies(t *testing.T) {
	dir := t.TempDir()
	log := openTestLog(t, dir)
	mustEnqueue(t, log, addItemOp("op-1", "local-item", "local-list", "Milk"))

	ops := log.All()
	ops[0].Payload.(*AddShoppingItemPayload).ListID = "mutated"

	if log.All()[0].Payload.(*AddShoppingItemPayload).ListID != "local-list" {
		t.Fatalf("All must not expose internal payloads")
	}
}

func TestOperationReferences(t *testing.T) {
	op := addItemOp("op-1", "local-item", "sl-1", "Milk")
	if !op.References("local-item") {
		t.Fatalf("expected create reference to own temp id")
	}
	if !op.References("sl-1") {
		t.Fatalf("expected reference to parent list id")
	}
	if op.References("sl-2") {
		t.Fatalf("unexpected reference")
	}
}
