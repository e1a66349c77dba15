package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nutrilog/nutrilog/internal/model"
)

// classifyMealType buckets a meal by case-insensitive substring match on its
// name, checked in breakfast/lunch/dinner order. Anything else is a snack,
// including meals literally named "snack".
func classifyMealType(name string) string {
	lowered := strings.ToLower(name)
	switch {
	case strings.Contains(lowered, "breakfast"):
		return "breakfast"
	case strings.Contains(lowered, "lunch"):
		return "lunch"
	case strings.Contains(lowered, "dinner"):
		return "dinner"
	default:
		return "snack"
	}
}

// AggregateDaily recomputes one user's rollup for the calendar day
// containing date and overwrites the stored row. A day with no meals still
// writes an all-zero row; the run is idempotent for unchanged meals.
func AggregateDaily(db *sql.DB, userID string, date time.Time) (*model.DailyStats, error) {
	normalized, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	dayStart := StartOfDay(date)
	dayEnd := dayStart.AddDate(0, 0, 1)

	meals, err := ListMealsByUserAndDateRange(db, normalized, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	stats := model.DailyStats{
		UserID:    normalized,
		Date:      dayStart.Format(dateLayout),
		MealCount: len(meals),
	}
	for _, meal := range meals {
		totals := TotalsForMeal(meal)
		stats.Calories += totals.Calories
		stats.ProteinG += totals.ProteinG
		stats.CarbsG += totals.CarbsG
		stats.FatG += totals.FatG
		stats.Micronutrients.Add(totals.Micronutrients)

		switch classifyMealType(meal.Name) {
		case "breakfast":
			stats.BreakfastCalories += totals.Calories
		case "lunch":
			stats.LunchCalories += totals.Calories
		case "dinner":
			stats.DinnerCalories += totals.Calories
		default:
			stats.SnackCalories += totals.Calories
		}
	}

	micros, err := model.EncodeMicronutrients(stats.Micronutrients)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
INSERT INTO daily_stats(user_id, date, calories, protein_g, carbs_g, fat_g, micronutrients_json,
  breakfast_calories, lunch_calories, dinner_calories, snack_calories, meal_count, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id, date) DO UPDATE SET
  calories=excluded.calories,
  protein_g=excluded.protein_g,
  carbs_g=excluded.carbs_g,
  fat_g=excluded.fat_g,
  micronutrients_json=excluded.micronutrients_json,
  breakfast_calories=excluded.breakfast_calories,
  lunch_calories=excluded.lunch_calories,
  dinner_calories=excluded.dinner_calories,
  snack_calories=excluded.snack_calories,
  meal_count=excluded.meal_count,
  updated_at=excluded.updated_at
`, stats.UserID, stats.Date, stats.Calories, stats.ProteinG, stats.CarbsG, stats.FatG, micros,
		stats.BreakfastCalories, stats.LunchCalories, stats.DinnerCalories, stats.SnackCalories, stats.MealCount)
	if err != nil {
		return nil, fmt.Errorf("upsert daily stats for %s %s: %w", stats.UserID, stats.Date, err)
	}
	return &stats, nil
}

// GetDailyStats returns (nil, nil) when no rollup exists for the day.
func GetDailyStats(db *sql.DB, userID string, date time.Time) (*model.DailyStats, error) {
	normalized, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	day := StartOfDay(date).Format(dateLayout)
	rows, err := listDailyStats(db, normalized, day, day)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

// listDailyStats loads rollup rows for [from, to] inclusive, in date order.
func listDailyStats(db *sql.DB, userID, from, to string) ([]model.DailyStats, error) {
	rows, err := db.Query(`
SELECT id, user_id, date, calories, protein_g, carbs_g, fat_g, IFNULL(micronutrients_json, ''),
  breakfast_calories, lunch_calories, dinner_calories, snack_calories, meal_count
FROM daily_stats
WHERE user_id = ? AND date >= ? AND date <= ?
ORDER BY date ASC
`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("query daily stats: %w", err)
	}
	defer rows.Close()

	items := make([]model.DailyStats, 0)
	for rows.Next() {
		var d model.DailyStats
		var microsJSON string
		if err := rows.Scan(&d.ID, &d.UserID, &d.Date, &d.Calories, &d.ProteinG, &d.CarbsG, &d.FatG, &microsJSON,
			&d.BreakfastCalories, &d.LunchCalories, &d.DinnerCalories, &d.SnackCalories, &d.MealCount); err != nil {
			return nil, fmt.Errorf("scan daily stats: %w", err)
		}
		if d.Micronutrients, err = model.DecodeMicronutrients(microsJSON); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily stats: %w", err)
	}
	return items, nil
}
