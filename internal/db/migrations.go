package db

import (
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "meal_log",
		sql: `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS meals (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  calories REAL NOT NULL DEFAULT 0 CHECK(calories >= 0),
  micronutrients_json TEXT NOT NULL DEFAULT '',
  eaten_at DATETIME NOT NULL,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_meals_user_eaten_at ON meals(user_id, eaten_at);
CREATE INDEX IF NOT EXISTS idx_meals_eaten_at ON meals(eaten_at);

CREATE TABLE IF NOT EXISTS food_items (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  meal_id INTEGER NOT NULL,
  name TEXT NOT NULL,
  quantity REAL NOT NULL DEFAULT 0 CHECK(quantity >= 0),
  unit TEXT NOT NULL DEFAULT '',
  calories REAL NOT NULL DEFAULT 0 CHECK(calories >= 0),
  fat_g REAL NOT NULL DEFAULT 0 CHECK(fat_g >= 0),
  protein_g REAL NOT NULL DEFAULT 0 CHECK(protein_g >= 0),
  carbs_g REAL NOT NULL DEFAULT 0 CHECK(carbs_g >= 0),
  micronutrients_json TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(meal_id) REFERENCES meals(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_food_items_meal_id ON food_items(meal_id);
`,
	},
	{
		version: 2,
		name:    "user_profiles",
		sql: `
CREATE TABLE IF NOT EXISTS user_profiles (
  user_id TEXT PRIMARY KEY,
  age INTEGER CHECK(age > 0),
  sex TEXT,
  weight_kg REAL CHECK(weight_kg > 0),
  height_cm REAL CHECK(height_cm > 0),
  activity_level TEXT NOT NULL DEFAULT '',
  diet_type TEXT NOT NULL DEFAULT '',
  primary_goal TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`,
	},
	{
		version: 3,
		name:    "statistics",
		sql: `
CREATE TABLE IF NOT EXISTS daily_stats (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  date TEXT NOT NULL,
  calories REAL NOT NULL DEFAULT 0,
  protein_g REAL NOT NULL DEFAULT 0,
  carbs_g REAL NOT NULL DEFAULT 0,
  fat_g REAL NOT NULL DEFAULT 0,
  micronutrients_json TEXT NOT NULL DEFAULT '',
  breakfast_calories REAL NOT NULL DEFAULT 0,
  lunch_calories REAL NOT NULL DEFAULT 0,
  dinner_calories REAL NOT NULL DEFAULT 0,
  snack_calories REAL NOT NULL DEFAULT 0,
  meal_count INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, date)
);

CREATE INDEX IF NOT EXISTS idx_daily_stats_date ON daily_stats(date);

CREATE TABLE IF NOT EXISTS weekly_stats (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  week_start TEXT NOT NULL,
  week_end TEXT NOT NULL,
  week_number INTEGER NOT NULL DEFAULT 0,
  year INTEGER NOT NULL DEFAULT 0,
  total_calories REAL NOT NULL DEFAULT 0,
  total_protein_g REAL NOT NULL DEFAULT 0,
  total_carbs_g REAL NOT NULL DEFAULT 0,
  total_fat_g REAL NOT NULL DEFAULT 0,
  avg_calories REAL NOT NULL DEFAULT 0,
  avg_protein_g REAL NOT NULL DEFAULT 0,
  avg_carbs_g REAL NOT NULL DEFAULT 0,
  avg_fat_g REAL NOT NULL DEFAULT 0,
  micronutrients_json TEXT NOT NULL DEFAULT '',
  breakfast_calories REAL NOT NULL DEFAULT 0,
  lunch_calories REAL NOT NULL DEFAULT 0,
  dinner_calories REAL NOT NULL DEFAULT 0,
  snack_calories REAL NOT NULL DEFAULT 0,
  total_meals INTEGER NOT NULL DEFAULT 0,
  days_tracked INTEGER NOT NULL DEFAULT 0,
  goal_streak_days INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, week_start, week_end)
);

CREATE INDEX IF NOT EXISTS idx_weekly_stats_week_end ON weekly_stats(week_end);

CREATE TABLE IF NOT EXISTS monthly_stats (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id TEXT NOT NULL,
  month INTEGER NOT NULL CHECK(month >= 1 AND month <= 12),
  year INTEGER NOT NULL,
  month_start TEXT NOT NULL,
  month_end TEXT NOT NULL,
  total_calories REAL NOT NULL DEFAULT 0,
  total_protein_g REAL NOT NULL DEFAULT 0,
  total_carbs_g REAL NOT NULL DEFAULT 0,
  total_fat_g REAL NOT NULL DEFAULT 0,
  avg_calories REAL NOT NULL DEFAULT 0,
  avg_protein_g REAL NOT NULL DEFAULT 0,
  avg_carbs_g REAL NOT NULL DEFAULT 0,
  avg_fat_g REAL NOT NULL DEFAULT 0,
  micronutrients_json TEXT NOT NULL DEFAULT '',
  breakfast_calories REAL NOT NULL DEFAULT 0,
  lunch_calories REAL NOT NULL DEFAULT 0,
  dinner_calories REAL NOT NULL DEFAULT 0,
  snack_calories REAL NOT NULL DEFAULT 0,
  total_meals INTEGER NOT NULL DEFAULT 0,
  days_tracked INTEGER NOT NULL DEFAULT 0,
  total_days_in_month INTEGER NOT NULL DEFAULT 0,
  tracking_percentage REAL NOT NULL DEFAULT 0,
  goal_streak_days INTEGER NOT NULL DEFAULT 0,
  longest_streak INTEGER NOT NULL DEFAULT 0,
  weekly_breakdown_json TEXT NOT NULL DEFAULT '',
  created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, month, year)
);

CREATE INDEX IF NOT EXISTS idx_monthly_stats_month_end ON monthly_stats(month_end);
`,
	},
}

func ApplyMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(`SELECT 1 FROM schema_migrations WHERE version = ?`, m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(m.sql); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`, m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	return nil
}
