// Package snapshot persists the last known-good mirror of remote state so
// the app can render and mutate data while offline.
package snapshot

import (
	"time"

	"github.com/fasterfoods/fasterfoods-go/internal/domain"
)

// SchemaVersion is bumped whenever the persisted layout changes in a way the
// loader cannot read. A stored document with a different version is treated
// as absent.
const SchemaVersion = 1

// Snapshot is the single local mirror of all remote domain state.
type Snapshot struct {
	SchemaVersion int                   `json:"schemaVersion"`
	CachedAt      time.Time             `json:"cachedAt"`
	User          *domain.UserProfile   `json:"user,omitempty"`
	Settings      *domain.Settings      `json:"settings,omitempty"`
	PantryItems   []domain.PantryItem   `json:"pantryItems"`
	ShoppingLists []domain.ShoppingList `json:"shoppingLists"`
	FoodLogItems  []domain.FoodLogItem  `json:"foodLogItems"`
	WorkoutItems  []domain.WorkoutItem  `json:"workoutItems"`
	CustomMetrics []domain.CustomMetric `json:"customMetrics"`
}

// New returns an empty snapshot at the current schema version.
func New() *Snapshot {
	return &Snapshot{SchemaVersion: SchemaVersion}
}

// Clone returns a deep copy safe for concurrent readers.
func (s *Snapshot) Clone() *Snapshot {
	dup := *s
	if s.User != nil {
		user := *s.User
		dup.User = &user
	}
	if s.Settings != nil {
		settings := *s.Settings
		dup.Settings = &settings
	}
	dup.PantryItems = append([]domain.PantryItem(nil), s.PantryItems...)
	dup.FoodLogItems = append([]domain.FoodLogItem(nil), s.FoodLogItems...)
	dup.WorkoutItems = append([]domain.WorkoutItem(nil), s.WorkoutItems...)
	dup.CustomMetrics = append([]domain.CustomMetric(nil), s.CustomMetrics...)
	dup.ShoppingLists = make([]domain.ShoppingList, len(s.ShoppingLists))
	for i, list := range s.ShoppingLists {
		copied := list
		copied.Items = append([]domain.ShoppingItem(nil), list.Items...)
		dup.ShoppingLists[i] = copied
	}
	return &dup
}

// RewriteID renames every occurrence of oldID to newID across all
// collections, including shopping items nested in lists. It reports whether
// anything changed. Calling it again with the same arguments is a no-op.
func (s *Snapshot) RewriteID(oldID, newID string) bool {
	changed := false
	for i := range s.PantryItems {
		if s.PantryItems[i].ID == oldID {
			s.PantryItems[i].ID = newID
			changed = true
		}
	}
	for i := range s.ShoppingLists {
		if s.ShoppingLists[i].ID == oldID {
			s.ShoppingLists[i].ID = newID
			changed = true
		}
		for j := range s.ShoppingLists[i].Items {
			if s.ShoppingLists[i].Items[j].ID == oldID {
				s.ShoppingLists[i].Items[j].ID = newID
				changed = true
			}
		}
	}
	for i := range s.FoodLogItems {
		if s.FoodLogItems[i].ID == oldID {
			s.FoodLogItems[i].ID = newID
			changed = true
		}
	}
	for i := range s.WorkoutItems {
		if s.WorkoutItems[i].ID == oldID {
			s.WorkoutItems[i].ID = newID
			changed = true
		}
	}
	for i := range s.CustomMetrics {
		if s.CustomMetrics[i].ID == oldID {
			s.CustomMetrics[i].ID = newID
			changed = true
		}
	}
	return changed
}

// Contains reports whether any entity in the snapshot carries the id.
func (s *Snapshot) Contains(id string) bool {
	for _, item := range s.PantryItems {
		if item.ID == id {
			return true
		}
	}
	for _, list := range s.ShoppingLists {
		if list.ID == id {
			return true
		}
		for _, item := range list.Items {
			if item.ID == id {
				return true
			}
		}
	}
	for _, item := range s.FoodLogItems {
		if item.ID == id {
			return true
		}
	}
	for _, item := range s.WorkoutItems {
		if item.ID == id {
			return true
		}
	}
	for _, metric := range s.CustomMetrics {
		if metric.ID == id {
			return true
		}
	}
	return false
}

// FindShoppingList returns a pointer into the snapshot's list slice, or nil.
func (s *Snapshot) FindShoppingList(listID string) *domain.ShoppingList {
	for i := range s.ShoppingLists {
		if s.ShoppingLists[i].ID == listID {
			return &s.ShoppingLists[i]
		}
	}
	return nil
}

// RemovePantryItem deletes the pantry item with the id, reporting success.
func (s *Snapshot) RemovePantryItem(id string) bool {
	for i := range s.PantryItems {
		if s.PantryItems[i].ID == id {
			s.PantryItems = append(s.PantryItems[:i], s.PantryItems[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveShoppingList deletes a whole list, reporting success.
func (s *Snapshot) RemoveShoppingList(id string) bool {
	for i := range s.ShoppingLists {
		if s.ShoppingLists[i].ID == id {
			s.ShoppingLists = append(s.ShoppingLists[:i], s.ShoppingLists[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveShoppingItem deletes one item from a list, reporting success.
func (s *Snapshot) RemoveShoppingItem(listID, itemID string) bool {
	list := s.FindShoppingList(listID)
	if list == nil {
		return false
	}
	for i := range list.Items {
		if list.Items[i].ID == itemID {
			list.Items = append(list.Items[:i], list.Items[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveFoodLogItem deletes the food log entry with the id, reporting success.
func (s *Snapshot) RemoveFoodLogItem(id string) bool {
	for i := range s.FoodLogItems {
		if s.FoodLogItems[i].ID == id {
			s.FoodLogItems = append(s.FoodLogItems[:i], s.FoodLogItems[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveWorkoutItem deletes the workout entry with the id, reporting success.
func (s *Snapshot) RemoveWorkoutItem(id string) bool {
	for i := range s.WorkoutItems {
		if s.WorkoutItems[i].ID == id {
			s.WorkoutItems = append(s.WorkoutItems[:i], s.WorkoutItems[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveCustomMetric deletes the metric sample with the id, reporting success.
func (s *Snapshot) RemoveCustomMetric(id string) bool {
	for i := range s.CustomMetrics {
		if s.CustomMetrics[i].ID == id {
			s.CustomMetrics = append(s.CustomMetrics[:i], s.CustomMetrics[i+1:]...)
			return true
		}
	}
	return false
}
