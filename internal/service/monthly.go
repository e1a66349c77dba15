package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/nutrilog/nutrilog/internal/model"
)

// AggregateMonthly recomputes one user's rollup for a calendar month.
// Returns (nil, nil) when the month has no daily rows. The streak scan walks
// stored rows in date order: a zero-calorie row resets the run, a calendar
// day with no row at all does not.
func AggregateMonthly(db *sql.DB, userID string, year, month int) (*model.MonthlyStats, error) {
	normalized, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	monthStart, monthEnd := MonthBounds(year, month)

	days, err := listDailyStats(db, normalized, monthStart.Format(dateLayout), monthEnd.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, nil
	}

	stats := model.MonthlyStats{
		UserID:           normalized,
		Month:            month,
		Year:             year,
		MonthStart:       monthStart.Format(dateLayout),
		MonthEnd:         monthEnd.Format(dateLayout),
		TotalDaysInMonth: monthEnd.Day(),
	}
	currentStreak := 0
	for _, day := range days {
		if day.Calories <= 0 {
			currentStreak = 0
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

		currentStreak++
		if currentStreak > stats.LongestStreak {
			stats.LongestStreak = currentStreak
		}
	}
	if stats.DaysTracked > 0 {
		div := float64(stats.DaysTracked)
		stats.AvgCalories = stats.TotalCalories / div
		stats.AvgProteinG = stats.TotalProteinG / div
		stats.AvgCarbsG = stats.TotalCarbsG / div
		stats.AvgFatG = stats.TotalFatG / div
	}
	// Same simplification as the weekly rollup: tracked days, not goal days.
	stats.GoalStreakDays = stats.DaysTracked
	stats.TrackingPercentage = math.Round(float64(stats.DaysTracked) / float64(stats.TotalDaysInMonth) * 100)

	breakdown, err := buildWeeklyBreakdown(days)
	if err != nil {
		return nil, err
	}
	stats.WeeklyBreakdown = breakdown

	if err := upsertMonthlyStats(db, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// buildWeeklyBreakdown slices a month's daily rows by ISO week number.
// Interior weeks average over the full seven days; the trailing open week
// averages over its tracked-day count (or 1). The asymmetry is inherited
// behavior; keep it until the averaging is deliberately normalized.
func buildWeeklyBreakdown(days []model.DailyStats) ([]model.WeekBreakdown, error) {
	breakdown := make([]model.WeekBreakdown, 0)
	open := false
	var acc model.WeekBreakdown
	trackedInWeek := 0

	for _, day := range days {
		date, err := time.ParseInLocation(dateLayout, day.Date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse daily stats date %q: %w", day.Date, err)
		}
		_, week := date.ISOWeek()

		if !open || week != acc.WeekNumber {
			if open {
				acc.AvgCalories = acc.TotalCalories / 7
				breakdown = append(breakdown, acc)
			}
			acc = model.WeekBreakdown{
				WeekNumber:    week,
				WeekStart:     day.Date,
				WeekEnd:       day.Date,
				TotalCalories: day.Calories,
			}
			trackedInWeek = 0
			if day.Calories > 0 {
				trackedInWeek = 1
			}
			open = true
			continue
		}

		acc.TotalCalories += day.Calories
		acc.WeekEnd = day.Date
		if day.Calories > 0 {
			trackedInWeek++
		}
	}
	if open {
		div := trackedInWeek
		if div == 0 {
			div = 1
		}
		acc.AvgCalories = acc.TotalCalories / float64(div)
		breakdown = append(breakdown, acc)
	}
	return breakdown, nil
}

func upsertMonthlyStats(db *sql.DB, stats *model.MonthlyStats) error {
	micros, err := model.EncodeMicronutrients(stats.Micronutrients)
	if err != nil {
		return err
	}
	breakdownJSON, err := json.Marshal(stats.WeeklyBreakdown)
	if err != nil {
		return fmt.Errorf("marshal weekly breakdown: %w", err)
	}
	_, err = db.Exec(`
INSERT INTO monthly_stats(user_id, month, year, month_start, month_end,
  total_calories, total_protein_g, total_carbs_g, total_fat_g,
  avg_calories, avg_protein_g, avg_carbs_g, avg_fat_g,
  micronutrients_json, breakfast_calories, lunch_calories, dinner_calories, snack_calories,
  total_meals, days_tracked, total_days_in_month, tracking_percentage,
  goal_streak_days, longest_streak, weekly_breakdown_json, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id, month, year) DO UPDATE SET
  month_start=excluded.month_start,
  month_end=excluded.month_end,
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
  total_days_in_month=excluded.total_days_in_month,
  tracking_percentage=excluded.tracking_percentage,
  goal_streak_days=excluded.goal_streak_days,
  longest_streak=excluded.longest_streak,
  weekly_breakdown_json=excluded.weekly_breakdown_json,
  updated_at=excluded.updated_at
`, stats.UserID, stats.Month, stats.Year, stats.MonthStart, stats.MonthEnd,
		stats.TotalCalories, stats.TotalProteinG, stats.TotalCarbsG, stats.TotalFatG,
		stats.AvgCalories, stats.AvgProteinG, stats.AvgCarbsG, stats.AvgFatG,
		micros, stats.BreakfastCalories, stats.LunchCalories, stats.DinnerCalories, stats.SnackCalories,
		stats.TotalMeals, stats.DaysTracked, stats.TotalDaysInMonth, stats.TrackingPercentage,
		stats.GoalStreakDays, stats.LongestStreak, string(breakdownJSON))
	if err != nil {
		return fmt.Errorf("upsert monthly stats for %s %d-%02d: %w", stats.UserID, stats.Year, stats.Month, err)
	}
	return nil
}

// GetMonthlyStats returns (nil, nil) when no rollup exists for the month.
func GetMonthlyStats(db *sql.DB, userID string, year, month int) (*model.MonthlyStats, error) {
	normalized, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	rows, err := queryMonthlyStats(db, `
WHERE user_id = ? AND year = ? AND month = ?
ORDER BY year ASC, month ASC
`, normalized, year, month)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func queryMonthlyStats(db *sql.DB, whereAndOrder string, args ...any) ([]model.MonthlyStats, error) {
	rows, err := db.Query(`
SELECT id, user_id, month, year, month_start, month_end,
  total_calories, total_protein_g, total_carbs_g, total_fat_g,
  avg_calories, avg_protein_g, avg_carbs_g, avg_fat_g,
  IFNULL(micronutrients_json, ''), breakfast_calories, lunch_calories, dinner_calories, snack_calories,
  total_meals, days_tracked, total_days_in_month, tracking_percentage,
  goal_streak_days, longest_streak, IFNULL(weekly_breakdown_json, '')
FROM monthly_stats
`+whereAndOrder, args...)
	if err != nil {
		return nil, fmt.Errorf("query monthly stats: %w", err)
	}
	defer rows.Close()

	items := make([]model.MonthlyStats, 0)
	for rows.Next() {
		var m model.MonthlyStats
		var microsJSON, breakdownJSON string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Month, &m.Year, &m.MonthStart, &m.MonthEnd,
			&m.TotalCalories, &m.TotalProteinG, &m.TotalCarbsG, &m.TotalFatG,
			&m.AvgCalories, &m.AvgProteinG, &m.AvgCarbsG, &m.AvgFatG,
			&microsJSON, &m.BreakfastCalories, &m.LunchCalories, &m.DinnerCalories, &m.SnackCalories,
			&m.TotalMeals, &m.DaysTracked, &m.TotalDaysInMonth, &m.TrackingPercentage,
			&m.GoalStreakDays, &m.LongestStreak, &breakdownJSON); err != nil {
			return nil, fmt.Errorf("scan monthly stats: %w", err)
		}
		if m.Micronutrients, err = model.DecodeMicronutrients(microsJSON); err != nil {
			return nil, err
		}
		if breakdownJSON != "" {
			if err := json.Unmarshal([]byte(breakdownJSON), &m.WeeklyBreakdown); err != nil {
				return nil, fmt.Errorf("unmarshal weekly breakdown: %w", err)
			}
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly stats: %w", err)
	}
	return items, nil
}
