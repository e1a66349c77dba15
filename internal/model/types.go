package model

import "time"

// UserProfile carries the physiology inputs for the target calculator.
// Every biometric field is optional; aggregation never needs a profile.
type UserProfile struct {
	UserID        string
	Age           *int
	Sex           string
	WeightKg      *float64
	HeightCm      *float64
	ActivityLevel string
	DietType      string
	PrimaryGoal   string
}

// Complete reports whether the profile has everything the BMR formula needs.
// Callers must check this before asking for nutrient targets.
func (p UserProfile) Complete() bool {
	return p.Age != nil && p.WeightKg != nil && p.HeightCm != nil && p.Sex != ""
}

type FoodItem struct {
	ID             int64
	MealID         int64
	Name           string
	Quantity       float64
	Unit           string
	Calories       float64
	FatG           float64
	ProteinG       float64
	CarbsG         float64
	Micronutrients Micronutrients
}

// MealRecord is one logged meal. Calories is the meal-level aggregate the
// source computed on its own; it is not guaranteed to equal the sum of the
// item calories.
type MealRecord struct {
	ID             int64
	UserID         string
	Name           string
	Calories       float64
	Micronutrients Micronutrients
	EatenAt        time.Time
	Items          []FoodItem
}

// DailyStats is the per-(user, day) rollup. Derived data: every aggregation
// run recomputes and overwrites the whole row.
type DailyStats struct {
	ID                int64
	UserID            string
	Date              string // YYYY-MM-DD
	Calories          float64
	ProteinG          float64
	CarbsG            float64
	FatG              float64
	Micronutrients    Micronutrients
	BreakfastCalories float64
	LunchCalories     float64
	DinnerCalories    float64
	SnackCalories     float64
	MealCount         int
}

// WeeklyStats is the per-(user, week) rollup over seven daily rows.
// GoalStreakDays counts days with any calories logged; no calorie goal is
// checked despite the name the produced record keeps for consumers.
type WeeklyStats struct {
	ID                int64
	UserID            string
	WeekStart         string // YYYY-MM-DD, Sunday
	WeekEnd           string // YYYY-MM-DD, Saturday
	WeekNumber        int    // ISO-8601 week number
	Year              int    // ISO-8601 week year
	TotalCalories     float64
	TotalProteinG     float64
	TotalCarbsG       float64
	TotalFatG         float64
	AvgCalories       float64
	AvgProteinG       float64
	AvgCarbsG         float64
	AvgFatG           float64
	Micronutrients    Micronutrients
	BreakfastCalories float64
	LunchCalories     float64
	DinnerCalories    float64
	SnackCalories     float64
	TotalMeals        int
	DaysTracked       int
	GoalStreakDays    int
}

// WeekBreakdown is one ISO-week slice embedded in a MonthlyStats record.
type WeekBreakdown struct {
	WeekNumber    int     `json:"week_number"`
	WeekStart     string  `json:"week_start"`
	WeekEnd       string  `json:"week_end"`
	TotalCalories float64 `json:"total_calories"`
	AvgCalories   float64 `json:"avg_calories"`
}

// MonthlyStats is the per-(user, month, year) rollup. GoalStreakDays has the
// same tracked-day meaning as on WeeklyStats.
type MonthlyStats struct {
	ID                 int64
	UserID             string
	Month              int // 1-based
	Year               int
	MonthStart         string // YYYY-MM-DD
	MonthEnd           string // YYYY-MM-DD
	TotalCalories      float64
	TotalProteinG      float64
	TotalCarbsG        float64
	TotalFatG          float64
	AvgCalories        float64
	AvgProteinG        float64
	AvgCarbsG          float64
	AvgFatG            float64
	Micronutrients     Micronutrients
	BreakfastCalories  float64
	LunchCalories      float64
	DinnerCalories     float64
	SnackCalories      float64
	TotalMeals         int
	DaysTracked        int
	TotalDaysInMonth   int
	TrackingPercentage float64
	GoalStreakDays     int
	LongestStreak      int
	WeeklyBreakdown    []WeekBreakdown
}
