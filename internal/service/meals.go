package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nutrilog/nutrilog/internal/model"
)

type LogMealItemInput struct {
	Name           string
	Quantity       float64
	Unit           string
	Calories       float64
	FatG           float64
	ProteinG       float64
	CarbsG         float64
	Micronutrients model.Micronutrients
}

type LogMealInput struct {
	UserID         string
	Name           string
	Calories       float64
	Micronutrients model.Micronutrients
	EatenAt        time.Time
	Items          []LogMealItemInput
}

func LogMeal(db *sql.DB, in LogMealInput) (int64, error) {
	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return 0, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return 0, fmt.Errorf("meal name is required")
	}
	if err := validateNonNegativeFloat("calories", in.Calories); err != nil {
		return 0, err
	}
	for _, item := range in.Items {
		if strings.TrimSpace(item.Name) == "" {
			return 0, fmt.Errorf("food item name is required")
		}
		if err := validateNonNegativeFloat("item calories", item.Calories); err != nil {
			return 0, err
		}
		if err := validateNonNegativeFloat("item fat", item.FatG); err != nil {
			return 0, err
		}
		if err := validateNonNegativeFloat("item protein", item.ProteinG); err != nil {
			return 0, err
		}
		if err := validateNonNegativeFloat("item carbs", item.CarbsG); err != nil {
			return 0, err
		}
	}
	if in.EatenAt.IsZero() {
		in.EatenAt = time.Now()
	}
	micros, err := model.EncodeMicronutrients(in.Micronutrients)
	if err != nil {
		return 0, err
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin meal tx: %w", err)
	}
	res, err := tx.Exec(`
INSERT INTO meals(user_id, name, calories, micronutrients_json, eaten_at)
VALUES(?, ?, ?, ?, ?)
`, userID, in.Name, in.Calories, micros, in.EatenAt.Format(time.RFC3339))
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert meal: %w", err)
	}
	mealID, err := res.LastInsertId()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("resolve inserted meal id: %w", err)
	}
	for _, item := range in.Items {
		itemMicros, err := model.EncodeMicronutrients(item.Micronutrients)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		if _, err := tx.Exec(`
INSERT INTO food_items(meal_id, name, quantity, unit, calories, fat_g, protein_g, carbs_g, micronutrients_json)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, mealID, strings.TrimSpace(item.Name), item.Quantity, strings.TrimSpace(item.Unit), item.Calories, item.FatG, item.ProteinG, item.CarbsG, itemMicros); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert food item: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit meal tx: %w", err)
	}
	return mealID, nil
}

// ListMealsByUserAndDateRange returns a user's meals with eaten_at in
// [start, end), items included, ordered by eaten_at.
func ListMealsByUserAndDateRange(db *sql.DB, userID string, start, end time.Time) ([]model.MealRecord, error) {
	normalized, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	rows, err := db.Query(`
SELECT id, user_id, name, calories, IFNULL(micronutrients_json, ''), eaten_at
FROM meals
WHERE user_id = ? AND eaten_at >= ? AND eaten_at < ?
ORDER BY eaten_at ASC, id ASC
`, normalized, start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("query meals: %w", err)
	}
	defer rows.Close()

	meals := make([]model.MealRecord, 0)
	for rows.Next() {
		var m model.MealRecord
		var microsJSON, eatenAt string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Calories, &microsJSON, &eatenAt); err != nil {
			return nil, fmt.Errorf("scan meal: %w", err)
		}
		if m.Micronutrients, err = model.DecodeMicronutrients(microsJSON); err != nil {
			return nil, err
		}
		if m.EatenAt, err = time.Parse(time.RFC3339, eatenAt); err != nil {
			return nil, fmt.Errorf("parse meal eaten_at %q: %w", eatenAt, err)
		}
		meals = append(meals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meals: %w", err)
	}

	for i := range meals {
		items, err := listFoodItems(db, meals[i].ID)
		if err != nil {
			return nil, err
		}
		meals[i].Items = items
	}
	return meals, nil
}

func listFoodItems(db *sql.DB, mealID int64) ([]model.FoodItem, error) {
	rows, err := db.Query(`
SELECT id, meal_id, name, quantity, unit, calories, fat_g, protein_g, carbs_g, IFNULL(micronutrients_json, '')
FROM food_items
WHERE meal_id = ?
ORDER BY id ASC
`, mealID)
	if err != nil {
		return nil, fmt.Errorf("query food items: %w", err)
	}
	defer rows.Close()

	items := make([]model.FoodItem, 0)
	for rows.Next() {
		var it model.FoodItem
		var microsJSON string
		if err := rows.Scan(&it.ID, &it.MealID, &it.Name, &it.Quantity, &it.Unit, &it.Calories, &it.FatG, &it.ProteinG, &it.CarbsG, &microsJSON); err != nil {
			return nil, fmt.Errorf("scan food item: %w", err)
		}
		if it.Micronutrients, err = model.DecodeMicronutrients(microsJSON); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate food items: %w", err)
	}
	return items, nil
}

// DistinctUsersWithMealsInRange lists user ids that logged at least one meal
// with eaten_at in [start, end). Used to discover who needs aggregation.
func DistinctUsersWithMealsInRange(db *sql.DB, start, end time.Time) ([]string, error) {
	rows, err := db.Query(`
SELECT DISTINCT user_id
FROM meals
WHERE eaten_at >= ? AND eaten_at < ?
ORDER BY user_id ASC
`, start.Format(time.RFC3339), end.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("query distinct meal users: %w", err)
	}
	defer rows.Close()

	users := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan meal user id: %w", err)
		}
		users = append(users, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal users: %w", err)
	}
	return users, nil
}

// MealTotals is what one meal contributes to a daily rollup.
type MealTotals struct {
	Calories       float64
	ProteinG       float64
	CarbsG         float64
	FatG           float64
	Micronutrients model.Micronutrients
}

// TotalsForMeal resolves the split sourcing of a meal's numbers in one
// place: calories and micronutrients come from the meal record, macros come
// from summing its items. The two calorie figures are computed independently
// upstream and are not guaranteed to agree; any future move to item-derived
// calories only needs to change this function.
func TotalsForMeal(m model.MealRecord) MealTotals {
	t := MealTotals{
		Calories:       m.Calories,
		Micronutrients: m.Micronutrients,
	}
	for _, item := range m.Items {
		t.ProteinG += item.ProteinG
		t.CarbsG += item.CarbsG
		t.FatG += item.FatG
	}
	return t
}
