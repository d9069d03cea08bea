package sync

import (
	"context"

	"github.com/fasterfoods/fasterfoods-go/internal/domain"
	"github.com/fasterfoods/fasterfoods-go/internal/outbox"
	"github.com/fasterfoods/fasterfoods-go/internal/snapshot"
)

// Every write below follows the same shape: generate ids, apply the change
// to the snapshot and enqueue the operation (both durable before any network
// traffic), then attempt the remote call immediately when connected. Errors
// from the immediate attempt surface to the caller for UI feedback; the
// optimistic local state stays either way.

// AddPantryItem creates a pantry item optimistically. The returned item
// carries the server id when the immediate attempt succeeded, otherwise the
// temporary id.
func (c *Coordinator) AddPantryItem(ctx context.Context, item domain.PantryItem) (domain.PantryItem, error) {
	tempID, err := c.newLocalID()
	if err != nil {
		return domain.PantryItem{}, newSyncError("sync.add_pantry_item", "id_generation_failed", err)
	}
	item.ID = tempID
	item.Checked = false

	op, err := c.newOperation(&outbox.AddPantryItemPayload{
		ItemID:   tempID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Unit:     item.Unit,
		Category: item.Category,
	})
	if err != nil {
		return domain.PantryItem{}, newSyncError("sync.add_pantry_item", "id_generation_failed", err)
	}

	c.applyAndEnqueue(op, func(s *snapshot.Snapshot) {
		s.PantryItems = append(s.PantryItems, item)
	})

	serverID, err := c.attempt(ctx, op)
	if serverID != "" {
		item.ID = serverID
	}
	if err != nil {
		return item, newSyncError("sync.add_pantry_item", "remote_call_failed", err)
	}
	return item, nil
}

// UpdatePantryItem rewrites an existing pantry item's fields.
func (c *Coordinator) UpdatePantryItem(ctx context.Context, item domain.PantryItem) error {
	c.mu.Lock()
	found := false
	for i := range c.snap.PantryItems {
		if c.snap.PantryItems[i].ID == item.ID {
			checked := c.snap.PantryItems[i].Checked
			c.snap.PantryItems[i] = item
			c.snap.PantryItems[i].Checked = checked
			found = true
			break
		}
	}
	if found {
		c.store.Save(c.snap)
	}
	c.mu.Unlock()
	if !found {
		return newSyncError("sync.update_pantry_item", "unknown_item", errUnknownPantryItem)
	}

	op, err := c.newOperation(&outbox.UpdatePantryItemPayload{
		ItemID:   item.ID,
		Name:     item.Name,
		Quantity: item.Quantity,
		Unit:     item.Unit,
		Category: item.Category,
	})
	if err != nil {
		return newSyncError("sync.update_pantry_item", "id_generation_failed", err)
	}
	if enqueueErr := c.outbox.Enqueue(op); enqueueErr != nil {
		c.logger.Warn("outbox enqueue persist failed, operation held in memory")
	}

	if _, err := c.attempt(ctx, op); err != nil {
		return newSyncError("sync.update_pantry_item", "remote_call_failed", err)
	}
	return nil
}

// TogglePantryItem flips a pantry item's checked state.
func (c *Coordinator) TogglePantryItem(ctx context.Context, id string, checked bool) error {
	op, err := c.newOperation(&outbox.TogglePantryItemPayload{ItemID: id, Checked: checked})
	if err != nil {
		return newSyncError("sync.toggle_pantry_item", "id_generation_failed", err)
	}

	c.applyAndEnqueue(op, func(s *snapshot.Snapshot) {
		for i := range s.PantryItems {
			if s.PantryItems[i].ID == id {
				s.PantryItems[i].Checked = checked
				break
			}
		}
	})

	if _, err := c.attempt(ctx, op); err != nil {
		return newSyncError("sync.toggle_pantry_item", "remote_call_failed", err)
	}
	return nil
}

// DeletePantryItem removes a pantry item. When the item's create operation
// is still queued, nothing reaches the server: the create and every other
// queued operation touching it are pruned together.
func (c *Coordinator) DeletePantryItem(ctx context.Context, id string) error {
	c.mu.Lock()
	c.snap.RemovePantryItem(id)
	c.store.Save(c.snap)
	c.mu.Unlock()

	if c.pruneIfUnsent(id) {
		return nil
	}

	op, err := c.newOperation(&outbox.DeletePantryItemPayload{ItemID: id})
	if err != nil {
		return newSyncError("sync.delete_pantry_item", "id_generation_failed", err)
	}
	if enqueueErr := c.outbox.Enqueue(op); enqueueErr != nil {
		c.logger.Warn("outbox enqueue persist failed, operation held in memory")
	}

	if _, err := c.attempt(ctx, op); err != nil {
		return newSyncError("sync.delete_pantry_item", "remote_call_failed", err)
	}
	return nil
}

// CreateShoppingList creates a named list optimistically.
func (c *Coordinator) CreateShoppingList(ctx context.Context, name string) (domain.ShoppingList, error) {
	tempID, err := c.newLocalID()
	if err != nil {
		return domain.ShoppingList{}, newSyncError("sync.create_shopping_list", "id_generation_failed", err)
	}
	list := domain.ShoppingList{ID: tempID, Name: name}

	op, err := c.newOperation(&outbox.CreateShoppingListPayload{ListID: tempID, Name: name})
	if err != nil {
		return domain.ShoppingList{}, newSyncError("sync.create_shopping_list", "id_generation_failed", err)
	}

	c.applyAndEnqueue(op, func(s *snapshot.Snapshot) {
		s.ShoppingLists = append(s.ShoppingLists, list)
	})

	serverID, err := c.attempt(ctx, op)
	if serverID != "" {
		list.ID = serverID
	}
	if err != nil {
		return list, newSyncError("sync.create_shopping_list", "remote_call_failed", err)
	}
	return list, nil
}

// DeleteShoppingList removes a list and everything on it.
func (c *Coordinator) DeleteShoppingList(ctx context.Context, listID string) error {
	c.mu.Lock()
	c.snap.RemoveShoppingList(listID)
	c.store.Save(c.snap)
	c.mu.Unlock()

	if c.pruneIfUnsent(listID) {
		return nil
	}

	op, err := c.newOperation(&outbox.DeleteShoppingListPayload{ListID: listID})
	if err != nil {
		return newSyncError("sync.delete_shopping_list", "id_generation_failed", err)
	}
	if enqueueErr := c.outbox.Enqueue(op); enqueueErr != nil {
		c.logger.Warn("outbox enqueue persist failed, operation held in memory")
	}

	if _, err := c.attempt(ctx, op); err != nil {
		return newSyncError("sync.delete_shopping_list", "remote_call_failed", err)
	}
	return nil
}

// AddShoppingItem appends an item to a locally known list. The payload
// tracks both the item's temp id and the parent list id, because the parent
// list itself may still be unsent.
func (c *Coordinator) AddShoppingItem(ctx context.Context, listID string, item domain.ShoppingItem) (domain.ShoppingItem, error) {
	c.mu.Lock()
	exists := c.snap.FindShoppingList(listID) != nil
	c.mu.Unlock()
	if !exists {
		return domain.ShoppingItem{}, newSyncError("sync.add_shopping_item", "unknown_list", errUnknownList)
	}

	tempID, err := c.newLocalID()
	if err != nil {
		return domain.ShoppingItem{}, newSyncError("sync.add_shopping_item", "id_generation_failed", err)
	}
	item.ID = tempID
	item.Checked = false

	op, err := c.newOperation(&outbox.AddShoppingItemPayload{
		ItemID:   tempID,
		ListID:   listID,
		Name:     item.Name,
		Quantity: item.Quantity,
	})
	if err != nil {
		return domain.ShoppingItem{}, newSyncError("sync.add_shopping_item", "id_generation_failed", err)
	}

	c.applyAndEnqueue(op, func(s *snapshot.Snapshot) {
		if list := s.FindShoppingList(listID); list != nil {
			list.Items = append(list.Items, item)
		}
	})

	serverID, err := c.attempt(ctx, op)
	if serverID != "" {
		item.ID = serverID
	}
	if err != nil {
		return item, newSyncError("sync.add_shopping_item", "remote_call_failed", err)
	}
	return item, nil
}

// ToggleShoppingItem flips an item's checked state.
func (c *Coordinator) ToggleShoppingItem(ctx context.Context, listID, itemID string, checked bool) error {
	op, err := c.newOperation(&outbox.ToggleShoppingItemPayload{ListID: listID, ItemID: itemID, Checked: checked})
	if err != nil {
		return newSyncError("sync.toggle_shopping_item", "id_generation_failed", err)
	}

	c.applyAndEnqueue(op, func(s *snapshot.Snapshot) {
		if list := s.FindShoppingList(listID); list != nil {
			for i := range list.Items {
				if list.Items[i].ID == itemID {
					list.Items[i].Checked = checked
					break
				}
			}
		}
	})

	if _, err := c.attempt(ctx, op); err != nil {
		return newSyncError("sync.toggle_shopping_item", "remote_call_failed", err)
	}
	return nil
}

// DeleteShoppingItem removes one item from a list.
func (c *Coordinator) DeleteShoppingItem(ctx context.Context, listID, itemID string) error {
	c.mu.Lock()
	c.snap.RemoveShoppingItem(listID, itemID)
	c.store.Save(c.snap)
	c.mu.Unlock()

	if c.pruneIfUnsent(itemID) {
		return nil
	}

	op, err := c.newOperation(&outbox.DeleteShoppingItemPayload{ListID: listID, ItemID: itemID})
	if err != nil {
		return newSyncError("sync.delete_shopping_item", "id_generation_failed", err)
	}
	if enqueueErr := c.outbox.Enqueue(op); enqueueErr != nil {
		c.logger.Warn("outbox enqueue persist failed, operation held in memory")
	}

	if _, err := c.attempt(ctx, op); err != nil {
		return newSyncError("sync.delete_shopping_item", "remote_call_failed", err)
	}
	return nil
}

// AddFoodLog records a food entry optimistically.
func (c *Coordinator) AddFoodLog(ctx context.Context, item domain.FoodLogItem) (domain.FoodLogItem, error) {
	tempID, err := c.newLocalID()
	if err != nil {
		return domain.FoodLogItem{}, newSyncError("sync.add_food_log", "id_generation_failed", err)
	}
	item.ID = tempID
	if item.LoggedAt.IsZero() {
		item.LoggedAt = c.clock().UTC()
	}

	op, err := c.newOperation(&outbox.AddFoodLogPayload{
		ItemID:   tempID,
		Name:     item.Name,
		MealType: item.MealType,
		Calories: item.Calories,
		ProteinG: item.ProteinG,
		CarbsG:   item.CarbsG,
		FatG:     item.FatG,
		LoggedAt: item.LoggedAt,
	})
	if err != nil {
		return domain.FoodLogItem{}, newSyncError("sync.add_food_log", "id_generation_failed", err)
	}

	c.applyAndEnqueue(op, func(s *snapshot.Snapshot) {
		s.FoodLogItems = append(s.FoodLogItems, item)
	})

	serverID, err := c.attempt(ctx, op)
	if serverID != "" {
		item.ID = serverID
	}
	if err != nil {
		return item, newSyncError("sync.add_food_log", "remote_call_failed", err)
	}
	return item, nil
}

// DeleteFoodLog removes a food log entry.
func (c *Coordinator) DeleteFoodLog(ctx context.Context, id string) error {
	c.mu.Lock()
	c.snap.RemoveFoodLogItem(id)
	c.store.Save(c.snap)
	c.mu.Unlock()

	if c.pruneIfUnsent(id) {
		return nil
	}

	op, err := c.newOperation(&outbox.DeleteFoodLogPayload{ItemID: id})
	if err != nil {
		return newSyncError("sync.delete_food_log", "id_generation_failed", err)
	}
	if enqueueErr := c.outbox.Enqueue(op); enqueueErr != nil {
		c.logger.Warn("outbox enqueue persist failed, operation held in memory")
	}

	if _, err := c.attempt(ctx, op); err != nil {
		return newSyncError("sync.delete_food_log", "remote_call_failed", err)
	}
	return nil
}

// AddWorkout records a workout entry optimistically.
func (c *Coordinator) AddWorkout(ctx context.Context, item domain.WorkoutItem) (domain.WorkoutItem, error) {
	tempID, err := c.newLocalID()
	if err != nil {
		return domain.WorkoutItem{}, newSyncError("sync.add_workout", "id_generation_failed", err)
	}
	item.ID = tempID
	if item.LoggedAt.IsZero() {
		item.LoggedAt = c.clock().UTC()
	}

	op, err := c.newOperation(&outbox.AddWorkoutPayload{
		ItemID:          tempID,
		Name:            item.Name,
		DurationMinutes: item.DurationMinutes,
		CaloriesBurned:  item.CaloriesBurned,
		LoggedAt:        item.LoggedAt,
	})
	if err != nil {
		return domain.WorkoutItem{}, newSyncError("sync.add_workout", "id_generation_failed", err)
	}

	c.applyAndEnqueue(op, func(s *snapshot.Snapshot) {
		s.WorkoutItems = append(s.WorkoutItems, item)
	})

	serverID, err := c.attempt(ctx, op)
	if serverID != "" {
		item.ID = serverID
	}
	if err != nil {
		return item, newSyncError("sync.add_workout", "remote_call_failed", err)
	}
	return item, nil
}

// DeleteWorkout removes a workout entry.
func (c *Coordinator) DeleteWorkout(ctx context.Context, id string) error {
	c.mu.Lock()
	c.snap.RemoveWorkoutItem(id)
	c.store.Save(c.snap)
	c.mu.Unlock()

	if c.pruneIfUnsent(id) {
		return nil
	}

	op, err := c.newOperation(&outbox.DeleteWorkoutPayload{ItemID: id})
	if err != nil {
		return newSyncError("sync.delete_workout", "id_generation_failed", err)
	}
	if enqueueErr := c.outbox.Enqueue(op); enqueueErr != nil {
		c.logger.Warn("outbox enqueue persist failed, operation held in memory")
	}

	if _, err := c.attempt(ctx, op); err != nil {
		return newSyncError("sync.delete_workout", "remote_call_failed", err)
	}
	return nil
}

// AddCustomMetric records a metric sample optimistically.
func (c *Coordinator) AddCustomMetric(ctx context.Context, metric domain.CustomMetric) (domain.CustomMetric, error) {
	tempID, err := c.newLocalID()
	if err != nil {
		return domain.CustomMetric{}, newSyncError("sync.add_custom_metric", "id_generation_failed", err)
	}
	metric.ID = tempID
	if metric.LoggedAt.IsZero() {
		metric.LoggedAt = c.clock().UTC()
	}

	op, err := c.newOperation(&outbox.AddCustomMetricPayload{
		MetricID: tempID,
		Name:     metric.Name,
		Unit:     metric.Unit,
		Value:    metric.Value,
		LoggedAt: metric.LoggedAt,
	})
	if err != nil {
		return domain.CustomMetric{}, newSyncError("sync.add_custom_metric", "id_generation_failed", err)
	}

	c.applyAndEnqueue(op, func(s *snapshot.Snapshot) {
		s.CustomMetrics = append(s.CustomMetrics, metric)
	})

	serverID, err := c.attempt(ctx, op)
	if serverID != "" {
		metric.ID = serverID
	}
	if err != nil {
		return metric, newSyncError("sync.add_custom_metric", "remote_call_failed", err)
	}
	return metric, nil
}

// DeleteCustomMetric removes a metric sample.
func (c *Coordinator) DeleteCustomMetric(ctx context.Context, id string) error {
	c.mu.Lock()
	c.snap.RemoveCustomMetric(id)
	c.store.Save(c.snap)
	c.mu.Unlock()

	if c.pruneIfUnsent(id) {
		return nil
	}

	op, err := c.newOperation(&outbox.DeleteCustomMetricPayload{MetricID: id})
	if err != nil {
		return newSyncError("sync.delete_custom_metric", "id_generation_failed", err)
	}
	if enqueueErr := c.outbox.Enqueue(op); enqueueErr != nil {
		c.logger.Warn("outbox enqueue persist failed, operation held in memory")
	}

	if _, err := c.attempt(ctx, op); err != nil {
		return newSyncError("sync.delete_custom_metric", "remote_call_failed", err)
	}
	return nil
}
