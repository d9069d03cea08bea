package sync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fasterfoods/fasterfoods-go/internal/api"
	"github.com/fasterfoods/fasterfoods-go/internal/domain"
	"github.com/fasterfoods/fasterfoods-go/internal/outbox"
)

// attempt sends a freshly enqueued operation when connectivity allows. The
// returned server id is non-empty when a create was reconciled. Connectivity
// failures are swallowed (the operation stays queued for replay); other
// failures of this operation surface to the caller, but the optimistic local
// state is never rolled back.
//
// The immediate attempt shares the replay gate with FlushPendingOperations.
// When a replay pass is already running it owns the queue and will deliver
// the operation in enqueue order, so the attempt backs off instead of
// submitting a duplicate. When the gate is free, queued operations ahead of
// this one are drained first so nothing is sent out of order; a failure on
// one of those earlier operations leaves this one queued for the next pass.
func (c *Coordinator) attempt(ctx context.Context, op outbox.Operation) (string, error) {
	if !c.connected() {
		return "", nil
	}
	if !c.replaying.CompareAndSwap(false, true) {
		return "", nil
	}
	defer c.replaying.Store(false)

	for {
		ops := c.outbox.All()
		if len(ops) == 0 {
			return "", nil
		}
		head := ops[0]
		serverID, err := c.sendAndSettle(ctx, head)
		if err != nil {
			if head.ID == op.ID && !api.IsConnectivity(err) {
				return "", err
			}
			return "", nil
		}
		if head.ID == op.ID {
			return serverID, nil
		}
	}
}

// sendAndSettle performs one remote call and settles the operation: on
// success it reconciles ids (creates) and removes the operation; on a "gone"
// response it removes the operation as moot; on any other failure it leaves
// the operation queued untouched.
func (c *Coordinator) sendAndSettle(ctx context.Context, op outbox.Operation) (string, error) {
	serverID, err := c.send(ctx, op)
	if err == nil {
		if tempID := op.Payload.CreatedTempID(); tempID != "" && serverID != "" && serverID != tempID {
			c.reconcile(tempID, serverID)
		}
		if removeErr := c.outbox.Remove(op.ID); removeErr != nil {
			c.logger.Warn("completed operation removal persist failed",
				zap.String("operation_id", op.ID),
				zap.Error(removeErr))
		}
		return serverID, nil
	}

	if api.IsGone(err) {
		c.logger.Info("pruning moot operation",
			zap.String("operation_id", op.ID),
			zap.String("kind", string(op.Kind)),
			zap.Error(err))
		if removeErr := c.outbox.Remove(op.ID); removeErr != nil {
			c.logger.Warn("moot operation removal persist failed",
				zap.String("operation_id", op.ID),
				zap.Error(removeErr))
		}
		return "", nil
	}

	return "", err
}

// reconcile renames a temporary id to the server-assigned one. The outbox is
// rewritten before the completed operation is removed, and before the
// snapshot, so a crash mid-reconcile leaves at worst an already-rewritten
// queue that a second pass handles idempotently.
func (c *Coordinator) reconcile(tempID, serverID string) {
	if _, err := c.outbox.RewriteIDs(tempID, serverID); err != nil {
		c.logger.Warn("outbox id rewrite persist failed",
			zap.String("temp_id", tempID),
			zap.String("server_id", serverID),
			zap.Error(err))
	}

	c.mu.Lock()
	if c.snap.RewriteID(tempID, serverID) {
		c.store.Save(c.snap)
	}
	c.mu.Unlock()
}

func (c *Coordinator) send(ctx context.Context, op outbox.Operation) (string, error) {
	switch p := op.Payload.(type) {
	case *outbox.CreateShoppingListPayload:
		return c.remote.CreateShoppingList(ctx, p.Name)
	case *outbox.AddShoppingItemPayload:
		return c.remote.CreateShoppingItem(ctx, p.ListID, domain.ShoppingItem{Name: p.Name, Quantity: p.Quantity})
	case *outbox.ToggleShoppingItemPayload:
		return "", c.remote.ToggleShoppingItem(ctx, p.ListID, p.ItemID, p.Checked)
	case *outbox.DeleteShoppingItemPayload:
		return "", c.remote.DeleteShoppingItem(ctx, p.ListID, p.ItemID)
	case *outbox.DeleteShoppingListPayload:
		return "", c.remote.DeleteShoppingList(ctx, p.ListID)
	case *outbox.AddPantryItemPayload:
		return c.remote.CreatePantryItem(ctx, domain.PantryItem{
			Name:     p.Name,
			Quantity: p.Quantity,
			Unit:     p.Unit,
			Category: p.Category,
		})
	case *outbox.UpdatePantryItemPayload:
		return "", c.remote.UpdatePantryItem(ctx, domain.PantryItem{
			ID:       p.ItemID,
			Name:     p.Name,
			Quantity: p.Quantity,
			Unit:     p.Unit,
			Category: p.Category,
		})
	case *outbox.TogglePantryItemPayload:
		return "", c.remote.TogglePantryItem(ctx, p.ItemID, p.Checked)
	case *outbox.DeletePantryItemPayload:
		return "", c.remote.DeletePantryItem(ctx, p.ItemID)
	case *outbox.AddFoodLogPayload:
		return c.remote.CreateFoodLog(ctx, domain.FoodLogItem{
			Name:     p.Name,
			MealType: p.MealType,
			Calories: p.Calories,
			ProteinG: p.ProteinG,
			CarbsG:   p.CarbsG,
			FatG:     p.FatG,
			LoggedAt: p.LoggedAt,
		})
	case *outbox.DeleteFoodLogPayload:
		return "", c.remote.DeleteFoodLog(ctx, p.ItemID)
	case *outbox.AddWorkoutPayload:
		return c.remote.CreateWorkout(ctx, domain.WorkoutItem{
			Name:            p.Name,
			DurationMinutes: p.DurationMinutes,
			CaloriesBurned:  p.CaloriesBurned,
			LoggedAt:        p.LoggedAt,
		})
	case *outbox.DeleteWorkoutPayload:
		return "", c.remote.DeleteWorkout(ctx, p.ItemID)
	case *outbox.AddCustomMetricPayload:
		return c.remote.CreateCustomMetric(ctx, domain.CustomMetric{
			Name:     p.Name,
			Unit:     p.Unit,
			Value:    p.Value,
			LoggedAt: p.LoggedAt,
		})
	case *outbox.DeleteCustomMetricPayload:
		return "", c.remote.DeleteCustomMetric(ctx, p.MetricID)
	default:
		return "", fmt.Errorf("operation kind %q cannot be sent", op.Kind)
	}
}

// FlushPendingOperations replays the outbox in enqueue order. A concurrent
// pass is a no-op. The pass stops on the first retryable failure so later
// operations that depend on earlier ones keep their ordering guarantee, and
// stops between operations when ctx is cancelled, leaving exactly the
// not-yet-attempted operations queued.
func (c *Coordinator) FlushPendingOperations(ctx context.Context) error {
	if !c.replaying.CompareAndSwap(false, true) {
		return nil
	}
	defer c.replaying.Store(false)

	for {
		if err := ctx.Err(); err != nil {
			c.setLastSyncError(err)
			return newSyncError(opFlush, "cancelled", err)
		}

		ops := c.outbox.All()
		if len(ops) == 0 {
			break
		}

		// Each settled operation is removed from the log, so the head is
		// always the oldest unattempted one, already carrying any id
		// rewrites from earlier creates in this pass.
		head := ops[0]
		if _, err := c.sendAndSettle(ctx, head); err != nil {
			c.setLastSyncError(err)
			switch {
			case api.IsAuth(err):
				return newSyncError(opFlush, "authentication_required", err)
			case api.IsConnectivity(err):
				return newSyncError(opFlush, "offline", err)
			default:
				return newSyncError(opFlush, "remote_call_failed", err)
			}
		}
	}

	c.setLastSyncError(nil)
	return nil
}

// pruneIfUnsent handles a delete of an entity whose create operation is
// still queued: every queued operation referencing the temp id is dropped
// and nothing is sent, because the server never learned the entity existed. It
// reports whether pruning applied.
func (c *Coordinator) pruneIfUnsent(id string) bool {
	createQueued := false
	for _, op := range c.outbox.All() {
		if op.Payload != nil && op.Payload.CreatedTempID() == id {
			createQueued = true
			break
		}
	}
	if !createQueued {
		return false
	}

	removed, err := c.outbox.RemoveWhere(func(op outbox.Operation) bool {
		return op.References(id)
	})
	if err != nil {
		c.logger.Warn("moot pruning persist failed",
			zap.String("entity_id", id),
			zap.Error(err))
	}
	c.logger.Debug("pruned operations for unsent entity",
		zap.String("entity_id", id),
		zap.Int("removed", removed))
	return true
}
