package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/nutrilog/nutrilog/internal/model"
)

// AggregateWeekly recomputes one user's rollup for the week starting at the
// Sunday containing weekStart. Returns (nil, nil) when the week has no daily
// rows at all; callers treat that as a no-op. Averages divide by the number
// of tracked days (calories > 0), and untracked days contribute nothing to
// the sums either.
func AggregateWeekly(db *sql.DB, userID string, weekStart time.Time) (*model.WeeklyStats, error) {
	normalized, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	start := StartOfWeek(weekStart)
	end := start.AddDate(0, 0, 6)

	days, err := listDailyStats(db, normalized, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, nil
	}

	isoYear, isoWeek := start.ISOWeek()
	stats := model.WeeklyStats{
		UserID:     normalized,
		WeekStart:  start.Format(dateLayout),
		WeekEnd:    end.Format(dateLayout),
		WeekNumber: isoWeek,
		Year:       isoYear,
	}
	for _, day := range days {
		if day.Calories <= 0 {
			continue
		}
		stats.DaysTracked++
		stats.TotalCalories += day.Calories
		stats.TotalProteinG += day.ProteinG
		stats.TotalCarbsG += day.CarbsG
		stats.TotalFatG += day.FatG
		stats.Micronutrients.Add(day.Micronutrients)
		stats.BreakfastCalories += day.BreakfastCalories
		stats.LunchCalories += day.LunchCalories
		stats.DinnerCalories += day.DinnerCalories
		stats.SnackCalories += day.SnackCalories
		stats.TotalMeals += day.MealCount
	}
	if stats.DaysTracked > 0 {
		div := float64(stats.DaysTracked)
		stats.AvgCalories = stats.TotalCalories / div
		stats.AvgProteinG = stats.TotalProteinG / div
		stats.AvgCarbsG = stats.TotalCarbsG / div
		stats.AvgFatG = stats.TotalFatG / div
	}
	// Every tracked day counts toward the streak; no calorie goal is checked.
	stats.GoalStreakDays = stats.DaysTracked

	micros, err := model.EncodeMicronutrients(stats.Micronutrients)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec(`
INSERT INTO weekly_stats(user_id, week_start, week_end, week_number, year,
  total_calories, total_protein_g, total_carbs_g, total_fat_g,
  avg_calories, avg_protein_g, avg_carbs_g, avg_fat_g,
  micronutrients_json, breakfast_calories, lunch_calories, dinner_calories, snack_calories,
  total_meals, days_tracked, goal_streak_days, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id, week_start, week_end) DO UPDATE SET
  week_number=excluded.week_number,
  year=excluded.year,
  total_calories=excluded.total_calories,
  total_protein_g=excluded.total_protein_g,
  total_carbs_g=excluded.total_carbs_g,
  total_fat_g=excluded.total_fat_g,
  avg_calories=excluded.avg_calories,
  avg_protein_g=excluded.avg_protein_g,
  avg_carbs_g=excluded.avg_carbs_g,
  avg_fat_g=excluded.avg_fat_g,
  micronutrients_json=excluded.micronutrients_json,
  breakfast_calories=excluded.breakfast_calories,
  lunch_calories=excluded.lunch_calories,
  dinner_calories=excluded.dinner_calories,
  snack_calories=excluded.snack_calories,
  total_meals=excluded.total_meals,
  days_tracked=excluded.days_tracked,
  goal_streak_days=excluded.goal_streak_days,
  updated_at=excluded.updated_at
`, stats.UserID, stats.WeekStart, stats.WeekEnd, stats.WeekNumber, stats.Year,
		stats.TotalCalories, stats.TotalProteinG, stats.TotalCarbsG, stats.TotalFatG,
		stats.AvgCalories, stats.AvgProteinG, stats.AvgCarbsG, stats.AvgFatG,
		micros, stats.BreakfastCalories, stats.LunchCalories, stats.DinnerCalories, stats.SnackCalories,
		stats.TotalMeals, stats.DaysTracked, stats.GoalStreakDays)
	if err != nil {
		return nil, fmt.Errorf("upsert weekly stats for %s %s: %w", stats.UserID, stats.WeekStart, err)
	}
	return &stats, nil
}

// GetWeeklyStats returns (nil, nil) when no rollup exists for the week.
func GetWeeklyStats(db *sql.DB, userID string, weekStart time.Time) (*model.WeeklyStats, error) {
	normalized, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	start := StartOfWeek(weekStart)
	rows, err := queryWeeklyStats(db, `
WHERE user_id = ? AND week_start = ?
ORDER BY week_start ASC
`, normalized, start.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func queryWeeklyStats(db *sql.DB, whereAndOrder string, args ...any) ([]model.WeeklyStats, error) {
	rows, err := db.Query(`
SELECT id, user_id, week_start, week_end, week_number, year,
  total_calories, total_protein_g, total_carbs_g, total_fat_g,
  avg_calories, avg_protein_g, avg_carbs_g, avg_fat_g,
  IFNULL(micronutrients_json, ''), breakfast_calories, lunch_calories, dinner_calories, snack_calories,
  total_meals, days_tracked, goal_streak_days
FROM weekly_stats
`+whereAndOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("query weekly stats: %w", err)
	}
	defer rows.Close()

	items := make([]model.WeeklyStats, 0)
	for rows.Next() {
		var w model.WeeklyStats
		var microsJSON string
		if err := rows.Scan(&w.ID, &w.UserID, &w.WeekStart, &w.WeekEnd, &w.WeekNumber, &w.Year,
			&w.TotalCalories, &w.TotalProteinG, &w.TotalCarbsG, &w.TotalFatG,
			&w.AvgCalories, &w.AvgProteinG, &w.AvgCarbsG, &w.AvgFatG,
			&microsJSON, &w.BreakfastCalories, &w.LunchCalories, &w.DinnerCalories, &w.SnackCalories,
			&w.TotalMeals, &w.DaysTracked, &w.GoalStreakDays); err != nil {
			return nil, fmt.Errorf("scan weekly stats: %w", err)
		}
		if w.Micronutrients, err = model.DecodeMicronutrients(microsJSON); err != nil {
			return nil, err
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weekly stats: %w", err)
	}
	return items, nil
}
