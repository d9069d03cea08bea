package api

import "github.com/fasterfoods/fasterfoods-go/internal/domain"

// State is the authoritative server view of every synced collection,
// returned by GET /v1/state.
type State struct {
	User          *domain.UserProfile   `json:"user,omitempty"`
	Settings      *domain.Settings      `json:"settings,omitempty"`
	PantryItems   []domain.PantryItem   `json:"pantryItems"`
	ShoppingLists []domain.ShoppingList `json:"shoppingLists"`
	FoodLogItems  []domain.FoodLogItem  `json:"foodLogItems"`
	WorkoutItems  []domain.WorkoutItem  `json:"workoutItems"`
	CustomMetrics []domain.CustomMetric `json:"customMetrics"`
}

type createdResponse struct {
	ID string `json:"id"`
}

type createListRequest struct {
	Name string `json:"name"`
}

type toggleRequest struct {
	Checked bool `json:"checked"`
}
