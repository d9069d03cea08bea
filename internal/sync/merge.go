package sync

import (
	"context"

	"go.uber.org/zap"

	"github.com/fasterfoods/fasterfoods-go/internal/domain"
	"github.com/fasterfoods/fasterfoods-go/internal/outbox"
	"github.com/fasterfoods/fasterfoods-go/internal/snapshot"
)

// LoadAll fetches authoritative server state and merges it into the
// snapshot. Server state replaces each collection wholesale; optimistic
// entities the server has never seen (queued creates) are re-applied on top,
// and queued operations whose durable target vanished remotely are pruned as
// moot. Queued operations otherwise survive a merge untouched.
func (c *Coordinator) LoadAll(ctx context.Context) (*snapshot.Snapshot, error) {
	state, err := c.remote.FetchState(ctx)
	if err != nil {
		c.setLastSyncError(err)
		return c.Snapshot(), newSyncError(opLoadAll, "fetch_failed", err)
	}

	c.mu.Lock()
	c.snap.SchemaVersion = snapshot.SchemaVersion
	c.snap.CachedAt = c.clock().UTC()
	c.snap.User = state.User
	c.snap.Settings = state.Settings
	c.snap.PantryItems = state.PantryItems
	c.snap.ShoppingLists = state.ShoppingLists
	c.snap.FoodLogItems = state.FoodLogItems
	c.snap.WorkoutItems = state.WorkoutItems
	c.snap.CustomMetrics = state.CustomMetrics
	c.applyQueuedLocalOpsLocked()
	c.store.Save(c.snap)
	c.mu.Unlock()

	c.pruneMootAfterMerge()

	c.setLastSyncError(nil)
	return c.Snapshot(), nil
}

// applyQueuedLocalOpsLocked re-applies the local effect of every queued
// operation that targets an entity the server does not know yet, so a merge
// never makes unsent optimistic work disappear from the UI. Entities the
// server already knows keep the server's values.
func (c *Coordinator) applyQueuedLocalOpsLocked() {
	for _, op := range c.outbox.All() {
		switch p := op.Payload.(type) {
		case *outbox.CreateShoppingListPayload:
			if !c.snap.Contains(p.ListID) {
				c.snap.ShoppingLists = append(c.snap.ShoppingLists, domain.ShoppingList{ID: p.ListID, Name: p.Name})
			}
		case *outbox.AddShoppingItemPayload:
			if c.snap.Contains(p.ItemID) {
				continue
			}
			if list := c.snap.FindShoppingList(p.ListID); list != nil {
				list.Items = append(list.Items, domain.ShoppingItem{ID: p.ItemID, Name: p.Name, Quantity: p.Quantity})
			}
		case *outbox.ToggleShoppingItemPayload:
			if !domain.IsLocalID(p.ItemID) {
				continue
			}
			if list := c.snap.FindShoppingList(p.ListID); list != nil {
				for i := range list.Items {
					if list.Items[i].ID == p.ItemID {
						list.Items[i].Checked = p.Checked
					}
				}
			}
		case *outbox.AddPantryItemPayload:
			if !c.snap.Contains(p.ItemID) {
				c.snap.PantryItems = append(c.snap.PantryItems, domain.PantryItem{
					ID:       p.ItemID,
					Name:     p.Name,
					Quantity: p.Quantity,
					Unit:     p.Unit,
					Category: p.Category,
				})
			}
		case *outbox.UpdatePantryItemPayload:
			if !domain.IsLocalID(p.ItemID) {
				continue
			}
			for i := range c.snap.PantryItems {
				if c.snap.PantryItems[i].ID == p.ItemID {
					c.snap.PantryItems[i].Name = p.Name
					c.snap.PantryItems[i].Quantity = p.Quantity
					c.snap.PantryItems[i].Unit = p.Unit
					c.snap.PantryItems[i].Category = p.Category
				}
			}
		case *outbox.TogglePantryItemPayload:
			if !domain.IsLocalID(p.ItemID) {
				continue
			}
			for i := range c.snap.PantryItems {
				if c.snap.PantryItems[i].ID == p.ItemID {
					c.snap.PantryItems[i].Checked = p.Checked
				}
			}
		case *outbox.AddFoodLogPayload:
			if !c.snap.Contains(p.ItemID) {
				c.snap.FoodLogItems = append(c.snap.FoodLogItems, domain.FoodLogItem{
					ID:       p.ItemID,
					Name:     p.Name,
					MealType: p.MealType,
					Calories: p.Calories,
					ProteinG: p.ProteinG,
					CarbsG:   p.CarbsG,
					FatG:     p.FatG,
					LoggedAt: p.LoggedAt,
				})
			}
		case *outbox.AddWorkoutPayload:
			if !c.snap.Contains(p.ItemID) {
				c.snap.WorkoutItems = append(c.snap.WorkoutItems, domain.WorkoutItem{
					ID:              p.ItemID,
					Name:            p.Name,
					DurationMinutes: p.DurationMinutes,
					CaloriesBurned:  p.CaloriesBurned,
					LoggedAt:        p.LoggedAt,
				})
			}
		case *outbox.AddCustomMetricPayload:
			if !c.snap.Contains(p.MetricID) {
				c.snap.CustomMetrics = append(c.snap.CustomMetrics, domain.CustomMetric{
					ID:       p.MetricID,
					Name:     p.Name,
					Unit:     p.Unit,
					Value:    p.Value,
					LoggedAt: p.LoggedAt,
				})
			}
		}
	}
}

// pruneMootAfterMerge removes queued operations that reference a durable id
// the merged snapshot no longer contains: the target is gone remotely, so
// replaying the operation could only fail. Temporary ids are exempt: their
// creates are still queued ahead of them.
func (c *Coordinator) pruneMootAfterMerge() {
	c.mu.Lock()
	merged := c.snap.Clone()
	c.mu.Unlock()

	removed, err := c.outbox.RemoveWhere(func(op outbox.Operation) bool {
		if op.Payload == nil {
			return false
		}
		for _, id := range op.Payload.ReferencedIDs() {
			if !domain.IsLocalID(id) && !merged.Contains(id) {
				return true
			}
		}
		return false
	})
	if err != nil {
		c.logger.Warn("post-merge moot pruning persist failed", zap.Error(err))
	}
	if removed > 0 {
		c.logger.Info("pruned operations targeting remotely deleted entities",
			zap.Int("removed", removed))
	}
}
