package service_test

import (
	"testing"
	"time"

	"github.com/nutrilog/nutrilog/internal/model"
	"github.com/nutrilog/nutrilog/internal/service"
)

func TestAggregateDailyUsesMealCaloriesAndItemMacros(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	day := localDate(2026, time.March, 10)
	// Meal calories deliberately disagree with the item calories: the rollup
	// must take calories from the meal and macros from the items.
	mustLogMeal(t, db, service.LogMealInput{
		UserID:   testUser,
		Name:     "Breakfast Club Sandwich",
		Calories: 500,
		EatenAt:  day.Add(8 * time.Hour),
		Items: []service.LogMealItemInput{
			{Name: "bread", Quantity: 2, Unit: "slice", Calories: 180, ProteinG: 6, CarbsG: 34, FatG: 2},
			{Name: "turkey", Quantity: 80, Unit: "g", Calories: 90, ProteinG: 18, CarbsG: 0, FatG: 1.5},
		},
	})

	stats, err := service.AggregateDaily(db, testUser, day)
	if err != nil {
		t.Fatalf("aggregate daily: %v", err)
	}
	if stats.Calories != 500 {
		t.Fatalf("expected meal-level calories 500, got %.1f", stats.Calories)
	}
	if stats.ProteinG != 24 || stats.CarbsG != 34 || stats.FatG != 3.5 {
		t.Fatalf("expected item-derived macros P24 C34 F3.5, got P%.1f C%.1f F%.1f", stats.ProteinG, stats.CarbsG, stats.FatG)
	}
	if stats.BreakfastCalories != 500 {
		t.Fatalf("expected breakfast bucket 500 for name containing 'breakfast', got %.1f", stats.BreakfastCalories)
	}
	if stats.MealCount != 1 {
		t.Fatalf("expected meal count 1, got %d", stats.MealCount)
	}
}

func TestAggregateDailyMealTypeBuckets(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	day := localDate(2026, time.March, 11)
	meals := []struct {
		name     string
		calories float64
	}{
		{"Morning Breakfast Oats", 300},
		{"LUNCH salad", 400},
		{"family dinner pasta", 600},
		{"apple", 80},
		{"snack bar", 120},
	}
	for i, m := range meals {
		mustLogMeal(t, db, service.LogMealInput{
			UserID:   testUser,
			Name:     m.name,
			Calories: m.calories,
			EatenAt:  day.Add(time.Duration(8+i) * time.Hour),
		})
	}

	stats, err := service.AggregateDaily(db, testUser, day)
	if err != nil {
		t.Fatalf("aggregate daily: %v", err)
	}
	if stats.BreakfastCalories != 300 || stats.LunchCalories != 400 || stats.DinnerCalories != 600 {
		t.Fatalf("unexpected type buckets: breakfast %.0f lunch %.0f dinner %.0f",
			stats.BreakfastCalories, stats.LunchCalories, stats.DinnerCalories)
	}
	// Names with no keyword fall into the snack bucket, keyword or not.
	if stats.SnackCalories != 200 {
		t.Fatalf("expected snack bucket 200, got %.0f", stats.SnackCalories)
	}
	if stats.Calories != 1500 {
		t.Fatalf("expected total 1500, got %.0f", stats.Calories)
	}
}

func TestAggregateDailyNoMealsWritesZeroRow(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	day := localDate(2026, time.March, 12)
	stats, err := service.AggregateDaily(db, testUser, day)
	if err != nil {
		t.Fatalf("aggregate daily: %v", err)
	}
	if stats.Calories != 0 || stats.MealCount != 0 {
		t.Fatalf("expected all-zero stats, got %+v", stats)
	}

	stored, err := service.GetDailyStats(db, testUser, day)
	if err != nil {
		t.Fatalf("get daily stats: %v", err)
	}
	if stored == nil {
		t.Fatal("expected a persisted zero row for a day without meals")
	}
	if stored.Calories != 0 || stored.MealCount != 0 {
		t.Fatalf("expected stored zero row, got %+v", stored)
	}
}

func TestAggregateDailyIdempotent(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	day := localDate(2026, time.March, 13)
	mustLogMeal(t, db, service.LogMealInput{
		UserID:   testUser,
		Name:     "dinner stew",
		Calories: 650,
		EatenAt:  day.Add(19 * time.Hour),
	})

	first, err := service.AggregateDaily(db, testUser, day)
	if err != nil {
		t.Fatalf("first aggregate: %v", err)
	}
	second, err := service.AggregateDaily(db, testUser, day)
	if err != nil {
		t.Fatalf("second aggregate: %v", err)
	}
	if first.Calories != second.Calories || first.MealCount != second.MealCount {
		t.Fatalf("expected identical reruns, got %+v vs %+v", first, second)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM daily_stats WHERE user_id = ? AND date = ?`,
		testUser, day.Format("2006-01-02")).Scan(&count); err != nil {
		t.Fatalf("count daily rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row after rerun, got %d", count)
	}
}

func TestAggregateDailySumsMicronutrients(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	day := localDate(2026, time.March, 14)
	mustLogMeal(t, db, service.LogMealInput{
		UserID:         testUser,
		Name:           "breakfast smoothie",
		Calories:       250,
		Micronutrients: model.Micronutrients{VitaminC: 60, Iron: 2},
		EatenAt:        day.Add(8 * time.Hour),
	})
	mustLogMeal(t, db, service.LogMealInput{
		UserID:         testUser,
		Name:           "lunch wrap",
		Calories:       450,
		Micronutrients: model.Micronutrients{VitaminC: 15, Calcium: 200},
		EatenAt:        day.Add(13 * time.Hour),
	})

	stats, err := service.AggregateDaily(db, testUser, day)
	if err != nil {
		t.Fatalf("aggregate daily: %v", err)
	}
	if stats.Micronutrients.VitaminC != 75 || stats.Micronutrients.Iron != 2 || stats.Micronutrients.Calcium != 200 {
		t.Fatalf("unexpected micronutrient sums: %+v", stats.Micronutrients)
	}
}

func TestAggregateDailyRejectsInvalidUserID(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if _, err := service.AggregateDaily(db, "not-a-uuid", localDate(2026, time.March, 15)); err == nil {
		t.Fatal("expected error for invalid user id")
	}
}

func TestAggregateDailyScopedToUser(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	day := localDate(2026, time.March, 16)
	mustLogMeal(t, db, service.LogMealInput{UserID: testUser, Name: "lunch", Calories: 400, EatenAt: day.Add(12 * time.Hour)})
	mustLogMeal(t, db, service.LogMealInput{UserID: testOtherUser, Name: "lunch", Calories: 900, EatenAt: day.Add(12 * time.Hour)})

	stats, err := service.AggregateDaily(db, testUser, day)
	if err != nil {
		t.Fatalf("aggregate daily: %v", err)
	}
	if stats.Calories != 400 {
		t.Fatalf("expected only own meals aggregated, got %.0f", stats.Calories)
	}
}
