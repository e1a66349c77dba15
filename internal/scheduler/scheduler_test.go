package scheduler_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/db"
	"github.com/nutrilog/nutrilog/internal/scheduler"
	"github.com/nutrilog/nutrilog/internal/service"
)

const (
	userA = "6f1e0cbb-9f74-4f4e-9f6d-0d4a3a1f2b01"
	userB = "c0a80e52-2d8f-4f28-8f19-55f4c2b9ce7e"
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

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func logMealAt(t *testing.T, sqldb *sql.DB, userID string, at time.Time, calories float64) {
	t.Helper()
	if _, err := service.LogMeal(sqldb, service.LogMealInput{
		UserID:   userID,
		Name:     "dinner",
		Calories: calories,
		EatenAt:  at,
	}); err != nil {
		t.Fatalf("log meal: %v", err)
	}
}

func TestRunDailyAggregatesYesterdayForAllUsers(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	now := time.Date(2026, time.May, 10, 0, 35, 0, 0, time.Local)
	yesterday := time.Date(2026, time.May, 9, 19, 0, 0, 0, time.Local)
	logMealAt(t, sqldb, userA, yesterday, 600)
	logMealAt(t, sqldb, userB, yesterday, 800)
	// A meal from today must not be picked up by the yesterday batch.
	logMealAt(t, sqldb, userA, now, 100)

	batch := scheduler.NewBatch(sqldb, zap.NewNop(), scheduler.WithNow(fixedClock(now)))
	if err := batch.RunDaily(); err != nil {
		t.Fatalf("run daily: %v", err)
	}

	for user, want := range map[string]float64{userA: 600, userB: 800} {
		stats, err := service.GetDailyStats(sqldb, user, yesterday)
		if err != nil {
			t.Fatalf("get daily stats: %v", err)
		}
		if stats == nil || stats.Calories != want {
			t.Fatalf("expected %s stats with %.0f kcal, got %+v", user, want, stats)
		}
	}
}

func TestRunWeeklyAggregatesLastCompleteWeek(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	// 2026-05-10 is a Sunday; the last complete week is May 3 to May 9.
	now := time.Date(2026, time.May, 10, 1, 0, 0, 0, time.Local)
	inWeek := time.Date(2026, time.May, 5, 12, 0, 0, 0, time.Local)
	logMealAt(t, sqldb, userA, inWeek, 700)

	batch := scheduler.NewBatch(sqldb, zap.NewNop(), scheduler.WithNow(fixedClock(now)))
	if err := batch.RunDaily(); err != nil {
		t.Fatalf("run daily: %v", err)
	}
	// The daily row for May 5 has to exist before the weekly pass sees it.
	if _, err := service.AggregateDaily(sqldb, userA, inWeek); err != nil {
		t.Fatalf("aggregate daily: %v", err)
	}
	if err := batch.RunWeekly(); err != nil {
		t.Fatalf("run weekly: %v", err)
	}

	stats, err := service.GetWeeklyStats(sqldb, userA, inWeek)
	if err != nil {
		t.Fatalf("get weekly stats: %v", err)
	}
	if stats == nil || stats.TotalCalories != 700 {
		t.Fatalf("expected weekly stats with 700 kcal, got %+v", stats)
	}
	if stats.WeekStart != "2026-05-03" || stats.WeekEnd != "2026-05-09" {
		t.Fatalf("unexpected week bounds %s to %s", stats.WeekStart, stats.WeekEnd)
	}
}

func TestRunMonthlyAggregatesPreviousMonth(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	now := time.Date(2026, time.May, 1, 2, 0, 0, 0, time.Local)
	inApril := time.Date(2026, time.April, 20, 13, 0, 0, 0, time.Local)
	logMealAt(t, sqldb, userA, inApril, 550)
	if _, err := service.AggregateDaily(sqldb, userA, inApril); err != nil {
		t.Fatalf("aggregate daily: %v", err)
	}

	batch := scheduler.NewBatch(sqldb, zap.NewNop(), scheduler.WithNow(fixedClock(now)))
	if err := batch.RunMonthly(); err != nil {
		t.Fatalf("run monthly: %v", err)
	}

	stats, err := service.GetMonthlyStats(sqldb, userA, 2026, 4)
	if err != nil {
		t.Fatalf("get monthly stats: %v", err)
	}
	if stats == nil || stats.TotalCalories != 550 {
		t.Fatalf("expected april stats with 550 kcal, got %+v", stats)
	}
}

func TestRunRetentionSweeps(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	old := time.Date(2026, time.January, 10, 12, 0, 0, 0, time.Local)
	logMealAt(t, sqldb, userA, old, 400)
	if _, err := service.AggregateDaily(sqldb, userA, old); err != nil {
		t.Fatalf("aggregate daily: %v", err)
	}

	now := time.Date(2026, time.June, 15, 3, 0, 0, 0, time.Local)
	batch := scheduler.NewBatch(sqldb, zap.NewNop(), scheduler.WithNow(fixedClock(now)))
	if err := batch.RunRetention(); err != nil {
		t.Fatalf("run retention: %v", err)
	}

	stats, err := service.GetDailyStats(sqldb, userA, old)
	if err != nil {
		t.Fatalf("get daily stats: %v", err)
	}
	if stats != nil {
		t.Fatalf("expected old daily row swept, got %+v", stats)
	}
}

func TestRegisterRejectsBadSpec(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	batch := scheduler.NewBatch(sqldb, zap.NewNop())
	err := batch.Register(cron.New(), scheduler.Schedules{
		Daily:     "not a cron spec",
		Weekly:    "0 1 * * 0",
		Monthly:   "0 2 1 * *",
		Retention: "0 3 * * *",
	})
	if err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestRegisterAcceptsDefaultSpecs(t *testing.T) {
	t.Parallel()
	sqldb := newTestDB(t)
	defer sqldb.Close()

	batch := scheduler.NewBatch(sqldb, zap.NewNop())
	err := batch.Register(cron.New(), scheduler.Schedules{
		Daily:     "30 0 * * *",
		Weekly:    "0 1 * * 0",
		Monthly:   "0 2 1 * *",
		Retention: "0 3 * * *",
	})
	if err != nil {
		t.Fatalf("register default specs: %v", err)
	}
}
