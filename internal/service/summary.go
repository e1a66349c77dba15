package service

import (
	"database/sql"
	"time"

	"github.com/nutrilog/nutrilog/internal/model"
)

// ProgressSummary is the rollup view downstream consumers read: the last
// seven daily rows, last four weekly rows, and last three monthly rows for
// one user, each in ascending period order.
type ProgressSummary struct {
	UserID  string
	Daily   []model.DailyStats
	Weekly  []model.WeeklyStats
	Monthly []model.MonthlyStats
}

func GetProgressSummary(db *sql.DB, userID string, now time.Time) (*ProgressSummary, error) {
	normalized, err := normalizeUserID(userID)
	if err != nil {
		return nil, err
	}
	today := StartOfDay(now)

	daily, err := listDailyStats(db, normalized,
		today.AddDate(0, 0, -6).Format(dateLayout), today.Format(dateLayout))
	if err != nil {
		return nil, err
	}

	weekly, err := queryWeeklyStats(db, `
WHERE user_id = ?
ORDER BY week_start DESC
LIMIT 4
`, normalized)
	if err != nil {
		return nil, err
	}
	reverseSlice(weekly)

	monthly, err := queryMonthlyStats(db, `
WHERE user_id = ?
ORDER BY year DESC, month DESC
LIMIT 3
`, normalized)
	if err != nil {
		return nil, err
	}
	reverseSlice(monthly)

	return &ProgressSummary{
		UserID:  normalized,
		Daily:   daily,
		Weekly:  weekly,
		Monthly: monthly,
	}, nil
}

func reverseSlice[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
