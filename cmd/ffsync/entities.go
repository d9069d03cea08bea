package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fasterfoods/fasterfoods-go/internal/domain"
)

// newAddCommand groups the optimistic create operations. Each subcommand
// prints the entity id it settled on: a server id when the write reached the
// service, a local- id when it was queued for replay.
func newAddCommand() *cobra.Command {
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create an entity (optimistically when offline)",
	}

	pantryCmd := &cobra.Command{
		Use:   "pantry NAME",
		Short: "Add a pantry item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newClientApp(cmd.Context())
			if err != nil {
				return err
			}
			quantity, _ := cmd.Flags().GetFloat64("quantity")
			unit, _ := cmd.Flags().GetString("unit")
			category, _ := cmd.Flags().GetString("category")
			item, err := app.coordinator.AddPantryItem(cmd.Context(), domain.PantryItem{
				Name:     args[0],
				Quantity: quantity,
				Unit:     unit,
				Category: category,
			})
			return report(app, item.ID, err)
		},
	}
	pantryCmd.Flags().Float64("quantity", 1, "Quantity")
	pantryCmd.Flags().String("unit", "", "Unit")
	pantryCmd.Flags().String("category", "", "Category")

	listCmd := &cobra.Command{
		Use:   "list NAME",
		Short: "Create a shopping list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newClientApp(cmd.Context())
			if err != nil {
				return err
			}
			list, err := app.coordinator.CreateShoppingList(cmd.Context(), args[0])
			return report(app, list.ID, err)
		},
	}

	itemCmd := &cobra.Command{
		Use:   "item LIST_ID NAME",
		Short: "Add an item to a shopping list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newClientApp(cmd.Context())
			if err != nil {
				return err
			}
			quantity, _ := cmd.Flags().GetFloat64("quantity")
			item, err := app.coordinator.AddShoppingItem(cmd.Context(), args[0], domain.ShoppingItem{
				Name:     args[1],
				Quantity: quantity,
			})
			return report(app, item.ID, err)
		},
	}
	itemCmd.Flags().Float64("quantity", 1, "Quantity")

	foodCmd := &cobra.Command{
		Use:   "food NAME",
		Short: "Log a food entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newClientApp(cmd.Context())
			if err != nil {
				return err
			}
			mealType, _ := cmd.Flags().GetString("meal")
			calories, _ := cmd.Flags().GetFloat64("calories")
			protein, _ := cmd.Flags().GetFloat64("protein")
			carbs, _ := cmd.Flags().GetFloat64("carbs")
			fat, _ := cmd.Flags().GetFloat64("fat")
			item, err := app.coordinator.AddFoodLog(cmd.Context(), domain.FoodLogItem{
				Name:     args[0],
				MealType: mealType,
				Calories: calories,
				ProteinG: protein,
				CarbsG:   carbs,
				FatG:     fat,
			})
			return report(app, item.ID, err)
		},
	}
	foodCmd.Flags().String("meal", "snack", "Meal type (breakfast, lunch, dinner, snack)")
	foodCmd.Flags().Float64("calories", 0, "Calories")
	foodCmd.Flags().Float64("protein", 0, "Protein (g)")
	foodCmd.Flags().Float64("carbs", 0, "Carbohydrates (g)")
	foodCmd.Flags().Float64("fat", 0, "Fat (g)")

	workoutCmd := &cobra.Command{
		Use:   "workout NAME",
		Short: "Log a workout entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newClientApp(cmd.Context())
			if err != nil {
				return err
			}
			minutes, _ := cmd.Flags().GetInt("minutes")
			calories, _ := cmd.Flags().GetFloat64("calories")
			item, err := app.coordinator.AddWorkout(cmd.Context(), domain.WorkoutItem{
				Name:            args[0],
				DurationMinutes: minutes,
				CaloriesBurned:  calories,
			})
			return report(app, item.ID, err)
		},
	}
	workoutCmd.Flags().Int("minutes", 0, "Duration in minutes")
	workoutCmd.Flags().Float64("calories", 0, "Calories burned")

	metricCmd := &cobra.Command{
		Use:   "metric NAME VALUE",
		Short: "Record a custom metric sample",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newClientApp(cmd.Context())
			if err != nil {
				return err
			}
			var value float64
			if _, err := fmt.Sscanf(args[1], "%f", &value); err != nil {
				return fmt.Errorf("parse value %q: %w", args[1], err)
			}
			unit, _ := cmd.Flags().GetString("unit")
			metric, err := app.coordinator.AddCustomMetric(cmd.Context(), domain.CustomMetric{
				Name:  args[0],
				Unit:  unit,
				Value: value,
			})
			return report(app, metric.ID, err)
		},
	}
	metricCmd.Flags().String("unit", "", "Unit")

	addCmd.AddCommand(pantryCmd, listCmd, itemCmd, foodCmd, workoutCmd, metricCmd)
	return addCmd
}

// newDeleteCommand groups the delete operations.
func newDeleteCommand() *cobra.Command {
	deleteCmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete an entity (optimistically when offline)",
	}

	single := func(use, short string, run func(app *clientApp, cmd *cobra.Command, id string) error) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := newClientApp(cmd.Context())
				if err != nil {
					return err
				}
				return run(app, cmd, args[0])
			},
		}
	}

	deleteCmd.AddCommand(
		single("pantry ID", "Delete a pantry item", func(app *clientApp, cmd *cobra.Command, id string) error {
			return reportDeleted(app, app.coordinator.DeletePantryItem(cmd.Context(), id))
		}),
		single("list ID", "Delete a shopping list", func(app *clientApp, cmd *cobra.Command, id string) error {
			return reportDeleted(app, app.coordinator.DeleteShoppingList(cmd.Context(), id))
		}),
		single("food ID", "Delete a food log entry", func(app *clientApp, cmd *cobra.Command, id string) error {
			return reportDeleted(app, app.coordinator.DeleteFoodLog(cmd.Context(), id))
		}),
		single("workout ID", "Delete a workout entry", func(app *clientApp, cmd *cobra.Command, id string) error {
			return reportDeleted(app, app.coordinator.DeleteWorkout(cmd.Context(), id))
		}),
		single("metric ID", "Delete a metric sample", func(app *clientApp, cmd *cobra.Command, id string) error {
			return reportDeleted(app, app.coordinator.DeleteCustomMetric(cmd.Context(), id))
		}),
		&cobra.Command{
			Use:   "item LIST_ID ITEM_ID",
			Short: "Delete a shopping list item",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				app, err := newClientApp(cmd.Context())
				if err != nil {
					return err
				}
				return reportDeleted(app, app.coordinator.DeleteShoppingItem(cmd.Context(), args[0], args[1]))
			},
		},
	)
	return deleteCmd
}

// report prints the settled entity id. The write itself succeeded locally
// even when the immediate remote attempt failed, so a queued-but-unsent
// outcome is reported rather than returned as a command failure.
func report(app *clientApp, id string, err error) error {
	defer app.logger.Sync() //nolint:errcheck
	if id == "" {
		return err
	}
	if err != nil {
		fmt.Printf("queued locally as %s (sync pending: %v)\n", id, err)
		return nil
	}
	if domain.IsLocalID(id) {
		fmt.Printf("queued locally as %s\n", id)
		return nil
	}
	fmt.Printf("created %s\n", id)
	return nil
}

func reportDeleted(app *clientApp, err error) error {
	defer app.logger.Sync() //nolint:errcheck
	if err != nil {
		fmt.Printf("deleted locally (sync pending: %v)\n", err)
		return nil
	}
	fmt.Println("deleted")
	return nil
}
