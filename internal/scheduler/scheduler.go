// Package scheduler runs the calendar-triggered aggregation batches. Each
// batch iterates the users who logged meals in its period sequentially; one
// user failing is logged and skipped, never aborting the rest of the batch.
package scheduler

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/service"
)

// Schedules holds the cron specs for the four jobs. Defaults keep the
// required relative ordering: daily rollups land before weekly, weekly
// before monthly, retention last.
type Schedules struct {
	Daily     string
	Weekly    string
	Monthly   string
	Retention string
}

type Batch struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

type Option func(*Batch)

// WithNow overrides the batch clock. Tests use this to aggregate fixed
// periods without depending on the wall clock.
func WithNow(now func() time.Time) Option {
	return func(b *Batch) { b.now = now }
}

func NewBatch(db *sql.DB, log *zap.Logger, opts ...Option) *Batch {
	b := &Batch{db: db, log: log, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RunDaily aggregates yesterday for every user who logged meals yesterday.
func (b *Batch) RunDaily() error {
	day := service.StartOfDay(b.now()).AddDate(0, 0, -1)
	users, err := service.DistinctUsersWithMealsInRange(b.db, day, day.AddDate(0, 0, 1))
	if err != nil {
		return fmt.Errorf("list users for daily batch: %w", err)
	}
	failed := 0
	for _, userID := range users {
		if _, err := service.AggregateDaily(b.db, userID, day); err != nil {
			b.log.Error("daily aggregation failed",
				zap.String("user_id", userID),
				zap.String("date", day.Format("2006-01-02")),
				zap.Error(err))
			failed++
		}
	}
	b.log.Info("daily aggregation batch finished",
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("users", len(users)),
		zap.Int("failed", failed))
	return nil
}

// RunWeekly aggregates the last complete Sunday-start week.
func (b *Batch) RunWeekly() error {
	weekStart := service.StartOfWeek(b.now()).AddDate(0, 0, -7)
	users, err := service.DistinctUsersWithMealsInRange(b.db, weekStart, weekStart.AddDate(0, 0, 7))
	if err != nil {
		return fmt.Errorf("list users for weekly batch: %w", err)
	}
	failed := 0
	for _, userID := range users {
		if _, err := service.AggregateWeekly(b.db, userID, weekStart); err != nil {
			b.log.Error("weekly aggregation failed",
				zap.String("user_id", userID),
				zap.String("week_start", weekStart.Format("2006-01-02")),
				zap.Error(err))
			failed++
		}
	}
	b.log.Info("weekly aggregation batch finished",
		zap.String("week_start", weekStart.Format("2006-01-02")),
		zap.Int("users", len(users)),
		zap.Int("failed", failed))
	return nil
}

// RunMonthly aggregates the last complete calendar month.
func (b *Batch) RunMonthly() error {
	now := b.now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	prevMonth := thisMonth.AddDate(0, -1, 0)
	users, err := service.DistinctUsersWithMealsInRange(b.db, prevMonth, thisMonth)
	if err != nil {
		return fmt.Errorf("list users for monthly batch: %w", err)
	}
	failed := 0
	for _, userID := range users {
		if _, err := service.AggregateMonthly(b.db, userID, prevMonth.Year(), int(prevMonth.Month())); err != nil {
			b.log.Error("monthly aggregation failed",
				zap.String("user_id", userID),
				zap.Int("year", prevMonth.Year()),
				zap.Int("month", int(prevMonth.Month())),
				zap.Error(err))
			failed++
		}
	}
	b.log.Info("monthly aggregation batch finished",
		zap.Int("year", prevMonth.Year()),
		zap.Int("month", int(prevMonth.Month())),
		zap.Int("users", len(users)),
		zap.Int("failed", failed))
	return nil
}

// RunRetention sweeps statistics older than the retention horizon.
func (b *Batch) RunRetention() error {
	result, err := service.SweepRetention(b.db, b.now())
	if err != nil {
		return fmt.Errorf("retention sweep: %w", err)
	}
	b.log.Info("retention sweep finished",
		zap.Int64("daily_deleted", result.DailyDeleted),
		zap.Int64("weekly_deleted", result.WeeklyDeleted),
		zap.Int64("monthly_deleted", result.MonthlyDeleted))
	return nil
}

// Register wires the four jobs onto c. Job errors are logged, never fatal;
// the next tick runs regardless.
func (b *Batch) Register(c *cron.Cron, schedules Schedules) error {
	jobs := []struct {
		name string
		spec string
		run  func() error
	}{
		{"daily", schedules.Daily, b.RunDaily},
		{"weekly", schedules.Weekly, b.RunWeekly},
		{"monthly", schedules.Monthly, b.RunMonthly},
		{"retention", schedules.Retention, b.RunRetention},
	}
	for _, job := range jobs {
		job := job
		if _, err := c.AddFunc(job.spec, func() {
			if err := job.run(); err != nil {
				b.log.Error("scheduled batch failed", zap.String("job", job.name), zap.Error(err))
			}
		}); err != nil {
			return fmt.Errorf("register %s job (%q): %w", job.name, job.spec, err)
		}
	}
	return nil
}
