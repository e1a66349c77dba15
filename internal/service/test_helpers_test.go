package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/nutrilog/nutrilog/internal/db"
	"github.com/nutrilog/nutrilog/internal/service"
)

const (
	testUser      = "6f1e0cbb-9f74-4f4e-9f6d-0d4a3a1f2b01"
	testOtherUser = "c0a80e52-2d8f-4f28-8f19-55f4c2b9ce7e"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nutrilog.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func mustLogMeal(t *testing.T, sqldb *sql.DB, in service.LogMealInput) int64 {
	t.Helper()
	id, err := service.LogMeal(sqldb, in)
	if err != nil {
		t.Fatalf("log meal %q: %v", in.Name, err)
	}
	return id
}

// mustAggregateDay logs a single meal of the given calories at noon and
// rolls the day up. Zero calories still produces a stats row.
func mustAggregateDay(t *testing.T, sqldb *sql.DB, userID string, day time.Time, calories float64) {
	t.Helper()
	if calories > 0 {
		mustLogMeal(t, sqldb, service.LogMealInput{
			UserID:   userID,
			Name:     "lunch bowl",
			Calories: calories,
			EatenAt:  day.Add(12 * time.Hour),
		})
	}
	if _, err := service.AggregateDaily(sqldb, userID, day); err != nil {
		t.Fatalf("aggregate daily %s: %v", day.Format("2006-01-02"), err)
	}
}

func localDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}
