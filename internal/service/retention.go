package service

import (
	"database/sql"
	"fmt"
	"time"
)

// retentionMonths is how far back statistics rows are kept.
const retentionMonths = 3

// RetentionResult reports how many rows each sweep removed.
type RetentionResult struct {
	DailyDeleted   int64
	WeeklyDeleted  int64
	MonthlyDeleted int64
}

// SweepRetention deletes statistics older than the retention horizon:
// daily rows dated before now-3months, weekly rows whose week ended before
// it, and monthly rows whose month ended before the first day of the
// cutoff's month. Zero-match deletes are not an error.
func SweepRetention(db *sql.DB, now time.Time) (RetentionResult, error) {
	var out RetentionResult
	cutoff := StartOfDay(now).AddDate(0, -retentionMonths, 0)
	cutoffDate := cutoff.Format(dateLayout)
	monthCutoff := time.Date(cutoff.Year(), cutoff.Month(), 1, 0, 0, 0, 0, time.Local).Format(dateLayout)

	res, err := db.Exec(`DELETE FROM daily_stats WHERE date < ?`, cutoffDate)
	if err != nil {
		return out, fmt.Errorf("sweep daily stats before %s: %w", cutoffDate, err)
	}
	if out.DailyDeleted, err = res.RowsAffected(); err != nil {
		return out, fmt.Errorf("count swept daily stats: %w", err)
	}

	res, err = db.Exec(`DELETE FROM weekly_stats WHERE week_end < ?`, cutoffDate)
	if err != nil {
		return out, fmt.Errorf("sweep weekly stats before %s: %w", cutoffDate, err)
	}
	if out.WeeklyDeleted, err = res.RowsAffected(); err != nil {
		return out, fmt.Errorf("count swept weekly stats: %w", err)
	}

	res, err = db.Exec(`DELETE FROM monthly_stats WHERE month_end < ?`, monthCutoff)
	if err != nil {
		return out, fmt.Errorf("sweep monthly stats before %s: %w", monthCutoff, err)
	}
	if out.MonthlyDeleted, err = res.RowsAffected(); err != nil {
		return out, fmt.Errorf("count swept monthly stats: %w", err)
	}

	return out, nil
}
