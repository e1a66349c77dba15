package service

import (
	"database/sql"
	"fmt"
	"time"
)

// backfillWindowDays is the historical window rebuilt per user.
const backfillWindowDays = 90

// Backfill rebuilds one user's statistics over the last 90 days: every day,
// then every Sunday-start week touching the window, then every month
// touching the window. Three independent full passes, each re-querying from
// scratch. This is I/O-heavy by design; run it in the background, never on a
// request path.
func Backfill(db *sql.DB, userID string, now time.Time) error {
	normalized, err := normalizeUserID(userID)
	if err != nil {
		return err
	}
	today := StartOfDay(now)
	windowStart := today.AddDate(0, 0, -(backfillWindowDays - 1))

	for day := windowStart; !day.After(today); day = day.AddDate(0, 0, 1) {
		if _, err := AggregateDaily(db, normalized, day); err != nil {
			return fmt.Errorf("backfill daily %s: %w", day.Format(dateLayout), err)
		}
	}

	for week := StartOfWeek(windowStart); !week.After(today); week = week.AddDate(0, 0, 7) {
		if _, err := AggregateWeekly(db, normalized, week); err != nil {
			return fmt.Errorf("backfill weekly %s: %w", week.Format(dateLayout), err)
		}
	}

	first := time.Date(windowStart.Year(), windowStart.Month(), 1, 0, 0, 0, 0, time.Local)
	for month := first; !month.After(today); month = month.AddDate(0, 1, 0) {
		if _, err := AggregateMonthly(db, normalized, month.Year(), int(month.Month())); err != nil {
			return fmt.Errorf("backfill monthly %d-%02d: %w", month.Year(), int(month.Month()), err)
		}
	}
	return nil
}
