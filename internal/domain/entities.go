// Package domain defines the FasterFoods entity types mirrored between the
// remote service and the local offline cache.
package domain

import "time"

// UserProfile captures the authenticated account as returned by the service.
type UserProfile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Settings holds per-user targets and display preferences.
type Settings struct {
	CalorieTarget    int    `json:"calorieTarget"`
	ProteinTargetG   int    `json:"proteinTargetG"`
	WaterTargetML    int    `json:"waterTargetML"`
	WeightUnit       string `json:"weightUnit"`
	RemindersEnabled bool   `json:"remindersEnabled"`
}

// PantryItem is a tracked item in the user's pantry. Checked marks items the
// user has flagged as running low.
type PantryItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
	Checked  bool    `json:"checked"`
}

// ShoppingItem is a single line on a shopping list.
type ShoppingItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Checked  bool    `json:"checked"`
}

// ShoppingList groups shopping items under a named list.
type ShoppingList struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Items []ShoppingItem `json:"items"`
}

// FoodLogItem is one logged food entry for a calendar day.
type FoodLogItem struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	MealType string    `json:"mealType"`
	Calories float64   `json:"calories"`
	ProteinG float64   `json:"proteinG"`
	CarbsG   float64   `json:"carbsG"`
	FatG     float64   `json:"fatG"`
	LoggedAt time.Time `json:"loggedAt"`
}

// WorkoutItem is one logged workout entry.
type WorkoutItem struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	CaloriesBurned  float64   `json:"caloriesBurned"`
	LoggedAt        time.Time `json:"loggedAt"`
}

// CustomMetric is one sample of a user-defined metric (weight, mood, etc).
type CustomMetric struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Unit     string    `json:"unit"`
	Value    float64   `json:"value"`
	LoggedAt time.Time `json:"loggedAt"`
}
