package service

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/nutrilog/nutrilog/internal/model"
)

type SetProfileInput struct {
	UserID        string
	Age           *int
	Sex           string
	WeightKg      *float64
	HeightCm      *float64
	ActivityLevel string
	DietType      string
	PrimaryGoal   string
}

func SetProfile(db *sql.DB, in SetProfileInput) error {
	userID, err := normalizeUserID(in.UserID)
	if err != nil {
		return err
	}
	if in.Age != nil && *in.Age <= 0 {
		return fmt.Errorf("age must be > 0")
	}
	if in.WeightKg != nil && *in.WeightKg <= 0 {
		return fmt.Errorf("weight must be > 0")
	}
	if in.HeightCm != nil && *in.HeightCm <= 0 {
		return fmt.Errorf("height must be > 0")
	}

	_, err = db.Exec(`
INSERT INTO user_profiles(user_id, age, sex, weight_kg, height_cm, activity_level, diet_type, primary_goal, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(user_id) DO UPDATE SET
  age=excluded.age,
  sex=excluded.sex,
  weight_kg=excluded.weight_kg,
  height_cm=excluded.height_cm,
  activity_level=excluded.activity_level,
  diet_type=excluded.diet_type,
  primary_goal=excluded.primary_goal,
  updated_at=excluded.updated_at
`, userID, in.Age, strings.TrimSpace(strings.ToLower(in.Sex)), in.WeightKg, in.HeightCm,
		strings.TrimSpace(in.ActivityLevel), strings.TrimSpace(in.DietType), strings.TrimSpace(in.PrimaryGoal))
	if err != nil {
		return fmt.Errorf("set profile for %s: %w", userID, err)
	}
	return nil
}

// GetProfile returns (nil, nil) when the user has no stored profile.
func GetProfile(db *sql.DB, userID string) (*model.UserProfile, error) {
	normalized, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	var p model.UserProfile
	var age sql.NullInt64
	var sex sql.NullString
	var weight, height sql.NullFloat64
	err = db.QueryRow(`
SELECT user_id, age, sex, weight_kg, height_cm, activity_level, diet_type, primary_goal
FROM user_profiles
WHERE user_id = ?
`, normalized).Scan(&p.UserID, &age, &sex, &weight, &height, &p.ActivityLevel, &p.DietType, &p.PrimaryGoal)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile for %s: %w", normalized, err)
	}
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if sex.Valid {
		p.Sex = sex.String
	}
	if weight.Valid {
		v := weight.Float64
		p.WeightKg = &v
	}
	if height.Valid {
		v := height.Float64
		p.HeightCm = &v
	}
	return &p, nil
}
