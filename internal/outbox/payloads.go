package outbox

import "time"

// CreateShoppingListPayload creates a new shopping list. ListID is the
// temporary id until the server acknowledges the list.
type CreateShoppingListPayload struct {
	ListID string `json:"listId"`
	Name   string `json:"name"`
}

func (p *CreateShoppingListPayload) Kind() Kind { return KindCreateShoppingList }
func (p *CreateShoppingListPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.ListID, oldID, newID)
}
func (p *CreateShoppingListPayload) ReferencedIDs() []string { return nil }
func (p *CreateShoppingListPayload) CreatedTempID() string   { return p.ListID }

// AddShoppingItemPayload adds an item to a list. Both ids can be temporary:
// the parent list may itself be unsent when the item is queued.
type AddShoppingItemPayload struct {
	ItemID   string  `json:"itemId"`
	ListID   string  `json:"listId"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}

func (p *AddShoppingItemPayload) Kind() Kind { return KindAddShoppingItem }
func (p *AddShoppingItemPayload) RewriteIDs(oldID, newID string) bool {
	changed := rewrite(&p.ItemID, oldID, newID)
	if rewrite(&p.ListID, oldID, newID) {
		changed = true
	}
	return changed
}
func (p *AddShoppingItemPayload) ReferencedIDs() []string { return []string{p.ListID} }
func (p *AddShoppingItemPayload) CreatedTempID() string   { return p.ItemID }

// ToggleShoppingItemPayload flips an item's checked state.
type ToggleShoppingItemPayload struct {
	ListID  string `json:"listId"`
	ItemID  string `json:"itemId"`
	Checked bool   `json:"checked"`
}

func (p *ToggleShoppingItemPayload) Kind() Kind { return KindToggleShoppingItem }
func (p *ToggleShoppingItemPayload) RewriteIDs(oldID, newID string) bool {
	changed := rewrite(&p.ListID, oldID, newID)
	if rewrite(&p.ItemID, oldID, newID) {
		changed = true
	}
	return changed
}
func (p *ToggleShoppingItemPayload) ReferencedIDs() []string { return []string{p.ListID, p.ItemID} }
func (p *ToggleShoppingItemPayload) CreatedTempID() string   { return "" }

// DeleteShoppingItemPayload removes one item from a list.
type DeleteShoppingItemPayload struct {
	ListID string `json:"listId"`
	ItemID string `json:"itemId"`
}

func (p *DeleteShoppingItemPayload) Kind() Kind { return KindDeleteShoppingItem }
func (p *DeleteShoppingItemPayload) RewriteIDs(oldID, newID string) bool {
	changed := rewrite(&p.ListID, oldID, newID)
	if rewrite(&p.ItemID, oldID, newID) {
		changed = true
	}
	return changed
}
func (p *DeleteShoppingItemPayload) ReferencedIDs() []string { return []string{p.ListID, p.ItemID} }
func (p *DeleteShoppingItemPayload) CreatedTempID() string   { return "" }

// DeleteShoppingListPayload removes a whole list.
type DeleteShoppingListPayload struct {
	ListID string `json:"listId"`
}

func (p *DeleteShoppingListPayload) Kind() Kind { return KindDeleteShoppingList }
func (p *DeleteShoppingListPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.ListID, oldID, newID)
}
func (p *DeleteShoppingListPayload) ReferencedIDs() []string { return []string{p.ListID} }
func (p *DeleteShoppingListPayload) CreatedTempID() string   { return "" }

// AddPantryItemPayload creates a pantry item.
type AddPantryItemPayload struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

func (p *AddPantryItemPayload) Kind() Kind { return KindAddPantryItem }
func (p *AddPantryItemPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.ItemID, oldID, newID)
}
func (p *AddPantryItemPayload) ReferencedIDs() []string { return nil }
func (p *AddPantryItemPayload) CreatedTempID() string   { return p.ItemID }

// UpdatePantryItemPayload rewrites a pantry item's fields.
type UpdatePantryItemPayload struct {
	ItemID   string  `json:"itemId"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

func (p *UpdatePantryItemPayload) Kind() Kind { return KindUpdatePantryItem }
func (p *UpdatePantryItemPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.ItemID, oldID, newID)
}
func (p *UpdatePantryItemPayload) ReferencedIDs() []string { return []string{p.ItemID} }
func (p *UpdatePantryItemPayload) CreatedTempID() string   { return "" }

// TogglePantryItemPayload flips a pantry item's checked state.
type TogglePantryItemPayload struct {
	ItemID  string `json:"itemId"`
	Checked bool   `json:"checked"`
}

func (p *TogglePantryItemPayload) Kind() Kind { return KindTogglePantryItem }
func (p *TogglePantryItemPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.ItemID, oldID, newID)
}
func (p *TogglePantryItemPayload) ReferencedIDs() []string { return []string{p.ItemID} }
func (p *TogglePantryItemPayload) CreatedTempID() string   { return "" }

// DeletePantryItemPayload removes a pantry item.
type DeletePantryItemPayload struct {
	ItemID string `json:"itemId"`
}

func (p *DeletePantryItemPayload) Kind() Kind { return KindDeletePantryItem }
func (p *DeletePantryItemPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.ItemID, oldID, newID)
}
func (p *DeletePantryItemPayload) ReferencedIDs() []string { return []string{p.ItemID} }
func (p *DeletePantryItemPayload) CreatedTempID() string   { return "" }

// AddFoodLogPayload logs a food entry.
type AddFoodLogPayload struct {
	ItemID   string    `json:"itemId"`
	Name     string    `json:"name"`
	MealType string    `json:"mealType"`
	Calories float64   `json:"calories"`
	ProteinG float64   `json:"proteinG"`
	CarbsG   float64   `json:"carbsG"`
	FatG     float64   `json:"fatG"`
	LoggedAt time.Time `json:"loggedAt"`
}

func (p *AddFoodLogPayload) Kind() Kind { return KindAddFoodLog }
func (p *AddFoodLogPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.ItemID, oldID, newID)
}
func (p *AddFoodLogPayload) ReferencedIDs() []string { return nil }
func (p *AddFoodLogPayload) CreatedTempID() string   { return p.ItemID }

// DeleteFoodLogPayload removes a food log entry.
type DeleteFoodLogPayload struct {
	ItemID string `json:"itemId"`
}

func (p *DeleteFoodLogPayload) Kind() Kind { return KindDeleteFoodLog }
func (p *DeleteFoodLogPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.ItemID, oldID, newID)
}
func (p *DeleteFoodLogPayload) ReferencedIDs() []string { return []string{p.ItemID} }
func (p *DeleteFoodLogPayload) CreatedTempID() string   { return "" }

// AddWorkoutPayload logs a workout entry.
type AddWorkoutPayload struct {
	ItemID          string    `json:"itemId"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	CaloriesBurned  float64   `json:"caloriesBurned"`
	LoggedAt        time.Time `json:"loggedAt"`
}

func (p *AddWorkoutPayload) Kind() Kind { return KindAddWorkout }
func (p *AddWorkoutPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.ItemID, oldID, newID)
}
func (p *AddWorkoutPayload) ReferencedIDs() []string { return nil }
func (p *AddWorkoutPayload) CreatedTempID() string   { return p.ItemID }

// DeleteWorkoutPayload removes a workout entry.
type DeleteWorkoutPayload struct {
	ItemID string `json:"itemId"`
}

func (p *DeleteWorkoutPayload) Kind() Kind { return KindDeleteWorkout }
func (p *DeleteWorkoutPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.ItemID, oldID, newID)
}
func (p *DeleteWorkoutPayload) ReferencedIDs() []string { return []string{p.ItemID} }
func (p *DeleteWorkoutPayload) CreatedTempID() string   { return "" }

// AddCustomMetricPayload records one custom metric sample.
type AddCustomMetricPayload struct {
	MetricID string    `json:"metricId"`
	Name     string    `json:"name"`
	Unit     string    `json:"unit"`
	Value    float64   `json:"value"`
	LoggedAt time.Time `json:"loggedAt"`
}

func (p *AddCustomMetricPayload) Kind() Kind { return KindAddCustomMetric }
func (p *AddCustomMetricPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.MetricID, oldID, newID)
}
func (p *AddCustomMetricPayload) ReferencedIDs() []string { return nil }
func (p *AddCustomMetricPayload) CreatedTempID() string   { return p.MetricID }

// DeleteCustomMetricPayload removes a metric sample.
type DeleteCustomMetricPayload struct {
	MetricID string `json:"metricId"`
}

func (p *DeleteCustomMetricPayload) Kind() Kind { return KindDeleteCustomMetric }
func (p *DeleteCustomMetricPayload) RewriteIDs(oldID, newID string) bool {
	return rewrite(&p.MetricID, oldID, newID)
}
func (p *DeleteCustomMetricPayload) ReferencedIDs() []string { return []string{p.MetricID} }
func (p *DeleteCustomMetricPayload) CreatedTempID() string   { return "" }
