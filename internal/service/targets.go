package service

import (
	"math"
	"strings"

	"github.com/nutrilog/nutrilog/internal/model"
)

// activityMultipliers maps activity level strings to their TDEE multiplier.
// Unrecognized or missing levels fall back to sedentary.
var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

const sedentaryMultiplier = 1.2

// ConsumedTotals is what the user has already eaten today, as supplied by
// the caller. The calculator never queries storage.
type ConsumedTotals struct {
	Calories       float64
	ProteinG       float64
	CarbsG         float64
	FatG           float64
	Micronutrients model.Micronutrients
}

// NutrientTargets is the personalized target set plus what is left of it
// after subtracting consumed amounts (floored at zero).
type NutrientTargets struct {
	BMR               float64
	TDEE              int
	Calories          int
	ProteinG          int
	CarbsG            int
	FatG              int
	Micronutrients    model.Micronutrients
	RemainingCalories float64
	RemainingProteinG float64
	RemainingCarbsG   float64
	RemainingFatG     float64
	RemainingMicros   model.Micronutrients
}

// CalculateTargets derives calorie, macro, and micronutrient targets from a
// profile: Mifflin-St Jeor BMR, activity-scaled TDEE, a ±15% goal
// adjustment, a protein/fat/carb split with keto and low-carb overrides,
// and a simplified sex/age-adjusted RDA table. All rounding is
// half-away-from-zero to the nearest integer.
//
// The formula needs weight, height, age, and sex. Behavior is undefined for
// incomplete profiles; callers must check profile.Complete() first.
func CalculateTargets(p model.UserProfile, consumed ConsumedTotals) NutrientTargets {
	weight := *p.WeightKg
	height := *p.HeightCm
	age := float64(*p.Age)
	male := strings.EqualFold(p.Sex, "male")

	bmr := 10*weight + 6.25*height - 5*age
	if male {
		bmr += 5
	} else {
		bmr -= 161
	}

	mult, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(p.ActivityLevel))]
	if !ok {
		mult = sedentaryMultiplier
	}
	tdee := bmr * mult

	calories := tdee
	goal := strings.ToLower(p.PrimaryGoal)
	switch {
	case strings.Contains(goal, "loss"):
		calories *= 0.85
	case strings.Contains(goal, "gain"):
		calories *= 1.15
	}

	out := NutrientTargets{
		BMR:      bmr,
		TDEE:     int(math.Round(tdee)),
		Calories: int(math.Round(calories)),
	}

	proteinPerKg := 0.8
	if mult > 1.55 {
		proteinPerKg = 1.6
	}
	out.ProteinG = int(math.Round(weight * proteinPerKg))
	out.FatG = int(math.Round(float64(out.Calories) * 0.25 / 9))
	out.CarbsG = int(math.Round(float64(out.Calories-out.ProteinG*4-out.FatG*9) / 4))

	// Diet overrides replace the split wholesale, with protein as the
	// calorie remainder.
	diet := strings.ToLower(p.DietType)
	switch {
	case strings.Contains(diet, "keto"):
		out.FatG = int(math.Round(float64(out.Calories) * 0.70 / 9))
		out.CarbsG = int(math.Round(float64(out.Calories) * 0.05 / 4))
		out.ProteinG = int(math.Round(float64(out.Calories-out.FatG*9-out.CarbsG*4) / 4))
	case strings.Contains(diet, "low carb"):
		out.CarbsG = int(math.Round(float64(out.Calories) * 0.15 / 4))
		out.FatG = int(math.Round(float64(out.Calories) * 0.45 / 9))
		out.ProteinG = int(math.Round(float64(out.Calories-out.FatG*9-out.CarbsG*4) / 4))
	}

	out.Micronutrients = rdaTargets(male, int(age))

	out.RemainingCalories = remaining(float64(out.Calories), consumed.Calories)
	out.RemainingProteinG = remaining(float64(out.ProteinG), consumed.ProteinG)
	out.RemainingCarbsG = remaining(float64(out.CarbsG), consumed.CarbsG)
	out.RemainingFatG = remaining(float64(out.FatG), consumed.FatG)
	out.RemainingMicros = remainingMicros(out.Micronutrients, consumed.Micronutrients)

	return out
}

// rdaTargets is the simplified RDA table. Values are sex-adjusted, and iron
// and calcium additionally switch at age 50. Nutrients without a row here
// (vitamin B6, folate, selenium, copper, manganese, iodine) are aggregated
// but have no target.
func rdaTargets(male bool, age int) model.Micronutrients {
	m := model.Micronutrients{
		VitaminD:   600,
		VitaminB12: 2.4,
		Potassium:  3500,
		Calcium:    1000,
	}
	if age > 50 {
		m.Calcium = 1200
	}
	if male {
		m.VitaminC = 90
		m.Iron = 8
		m.VitaminA = 900
		m.Magnesium = 400
		m.Zinc = 11
	} else {
		m.VitaminC = 75
		m.Iron = 18
		if age >= 50 {
			m.Iron = 8
		}
		m.VitaminA = 700
		m.Magnesium = 310
		m.Zinc = 8
	}
	return m
}

func remaining(target, consumed float64) float64 {
	return math.Max(0, target-consumed)
}

func remainingMicros(target, consumed model.Micronutrients) model.Micronutrients {
	return model.Micronutrients{
		VitaminC:   remaining(target.VitaminC, consumed.VitaminC),
		Iron:       remaining(target.Iron, consumed.Iron),
		Calcium:    remaining(target.Calcium, consumed.Calcium),
		VitaminD:   remaining(target.VitaminD, consumed.VitaminD),
		VitaminA:   remaining(target.VitaminA, consumed.VitaminA),
		VitaminB12: remaining(target.VitaminB12, consumed.VitaminB12),
		Magnesium:  remaining(target.Magnesium, consumed.Magnesium),
		Potassium:  remaining(target.Potassium, consumed.Potassium),
		Zinc:       remaining(target.Zinc, consumed.Zinc),
	}
}
