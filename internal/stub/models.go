// Package stub implements a self-contained development server exposing the
// FasterFoods HTTP API over a local SQLite database. It exists so the sync
// client can be exercised end to end without the production service.
package stub

import (
	"time"

	"github.com/fasterfoods/fasterfoods-go/internal/domain"
)

// ProfileRecord stores the account row plus its settings for one user.
type ProfileRecord struct {
	UserID           string    `gorm:"column:user_id;primaryKey;size:190;not null"`
	Email            string    `gorm:"column:email;size:320"`
	DisplayName      string    `gorm:"column:display_name;size:320"`
	CalorieTarget    int       `gorm:"column:calorie_target"`
	ProteinTargetG   int       `gorm:"column:protein_target_g"`
	WaterTargetML    int       `gorm:"column:water_target_ml"`
	WeightUnit       string    `gorm:"column:weight_unit;size:16"`
	RemindersEnabled bool      `gorm:"column:reminders_enabled"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName exposes the table backing user profiles.
func (ProfileRecord) TableName() string {
	return "user_profiles"
}

// PantryRecord stores one pantry item row.
type PantryRecord struct {
	ID        string    `gorm:"column:id;primaryKey;size:64;not null"`
	UserID    string    `gorm:"column:user_id;size:190;not null;index"`
	Name      string    `gorm:"column:name;size:320;not null"`
	Quantity  float64   `gorm:"column:quantity"`
	Unit      string    `gorm:"column:unit;size:32"`
	Category  string    `gorm:"column:category;size:64"`
	Checked   bool      `gorm:"column:checked"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName exposes the table backing pantry items.
func (PantryRecord) TableName() string {
	return "pantry_items"
}

func (r PantryRecord) toDomain() domain.PantryItem {
	return domain.PantryItem{
		ID:       r.ID,
		Name:     r.Name,
		Quantity: r.Quantity,
		Unit:     r.Unit,
		Category: r.Category,
		Checked:  r.Checked,
	}
}

// ShoppingListRecord stores one shopping list row; its items live in
// ShoppingItemRecord keyed by list id.
type ShoppingListRecord struct {
	ID        string    `gorm:"column:id;primaryKey;size:64;not null"`
	UserID    string    `gorm:"column:user_id;size:190;not null;index"`
	Name      string    `gorm:"column:name;size:320;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName exposes the table backing shopping lists.
func (ShoppingListRecord) TableName() string {
	return "shopping_lists"
}

// ShoppingItemRecord stores one line on a shopping list.
type ShoppingItemRecord struct {
	ID        string    `gorm:"column:id;primaryKey;size:64;not null"`
	ListID    string    `gorm:"column:list_id;size:64;not null;index"`
	UserID    string    `gorm:"column:user_id;size:190;not null;index"`
	Name      string    `gorm:"column:name;size:320;not null"`
	Quantity  float64   `gorm:"column:quantity"`
	Checked   bool      `gorm:"column:checked"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName exposes the table backing shopping list items.
func (ShoppingItemRecord) TableName() string {
	return "shopping_items"
}

func (r ShoppingItemRecord) toDomain() domain.ShoppingItem {
	return domain.ShoppingItem{
		ID:       r.ID,
		Name:     r.Name,
		Quantity: r.Quantity,
		Checked:  r.Checked,
	}
}

// FoodLogRecord stores one logged food entry.
type FoodLogRecord struct {
	ID        string    `gorm:"column:id;primaryKey;size:64;not null"`
	UserID    string    `gorm:"column:user_id;size:190;not null;index"`
	Name      string    `gorm:"column:name;size:320;not null"`
	MealType  string    `gorm:"column:meal_type;size:32"`
	Calories  float64   `gorm:"column:calories"`
	ProteinG  float64   `gorm:"column:protein_g"`
	CarbsG    float64   `gorm:"column:carbs_g"`
	FatG      float64   `gorm:"column:fat_g"`
	LoggedAt  time.Time `gorm:"column:logged_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName exposes the table backing food log entries.
func (FoodLogRecord) TableName() string {
	return "food_log_entries"
}

func (r FoodLogRecord) toDomain() domain.FoodLogItem {
	return domain.FoodLogItem{
		ID:       r.ID,
		Name:     r.Name,
		MealType: r.MealType,
		Calories: r.Calories,
		ProteinG: r.ProteinG,
		CarbsG:   r.CarbsG,
		FatG:     r.FatG,
		LoggedAt: r.LoggedAt,
	}
}

// WorkoutRecord stores one logged workout entry.
type WorkoutRecord struct {
	ID              string    `gorm:"column:id;primaryKey;size:64;not null"`
	UserID          string    `gorm:"column:user_id;size:190;not null;index"`
	Name            string    `gorm:"column:name;size:320;not null"`
	DurationMinutes int       `gorm:"column:duration_minutes"`
	CaloriesBurned  float64   `gorm:"column:calories_burned"`
	LoggedAt        time.Time `gorm:"column:logged_at"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName exposes the table backing workout entries.
func (WorkoutRecord) TableName() string {
	return "workout_entries"
}

func (r WorkoutRecord) toDomain() domain.WorkoutItem {
	return domain.WorkoutItem{
		ID:              r.ID,
		Name:            r.Name,
		DurationMinutes: r.DurationMinutes,
		CaloriesBurned:  r.CaloriesBurned,
		LoggedAt:        r.LoggedAt,
	}
}

// MetricRecord stores one sample of a user-defined metric.
type MetricRecord struct {
	ID        string    `gorm:"column:id;primaryKey;size:64;not null"`
	UserID    string    `gorm:"column:user_id;size:190;not null;index"`
	Name      string    `gorm:"column:name;size:320;not null"`
	Unit      string    `gorm:"column:unit;size:32"`
	Value     float64   `gorm:"column:value"`
	LoggedAt  time.Time `gorm:"column:logged_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName exposes the table backing metric samples.
func (MetricRecord) TableName() string {
	return "metric_samples"
}

func (r MetricRecord) toDomain() domain.CustomMetric {
	return domain.CustomMetric{
		ID:       r.ID,
		Name:     r.Name,
		Unit:     r.Unit,
		Value:    r.Value,
		LoggedAt: r.LoggedAt,
	}
}
