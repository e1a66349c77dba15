package service_test

import (
	"testing"
	"time"

	"github.com/nutrilog/nutrilog/internal/service"
)

func TestGetProgressSummaryWindows(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	now := localDate(2026, time.June, 20)

	// Ten daily rows; only the trailing seven belong in the summary.
	for i := 0; i < 10; i++ {
		mustAggregateDay(t, db, testUser, now.AddDate(0, 0, -i), 500+float64(i))
	}
	// Six weekly rows; only the latest four belong. Each week needs at least
	// one daily row or the weekly aggregator skips it.
	for i := 0; i < 6; i++ {
		day := now.AddDate(0, 0, -7*i)
		mustAggregateDay(t, db, testUser, day, 300)
		if _, err := service.AggregateWeekly(db, testUser, day); err != nil {
			t.Fatalf("aggregate weekly: %v", err)
		}
	}
	// Four monthly rows; only the latest three belong.
	for i := 0; i < 4; i++ {
		m := now.AddDate(0, -i, 0)
		mustAggregateDay(t, db, testUser, localDate(m.Year(), m.Month(), 5), 400)
		if _, err := service.AggregateMonthly(db, testUser, m.Year(), int(m.Month())); err != nil {
			t.Fatalf("aggregate monthly: %v", err)
		}
	}

	s, err := service.GetProgressSummary(db, testUser, now)
	if err != nil {
		t.Fatalf("get progress summary: %v", err)
	}
	if len(s.Daily) != 7 {
		t.Fatalf("expected 7 daily rows, got %d", len(s.Daily))
	}
	if s.Daily[0].Date != now.AddDate(0, 0, -6).Format("2006-01-02") || s.Daily[6].Date != now.Format("2006-01-02") {
		t.Fatalf("daily window wrong: %s to %s", s.Daily[0].Date, s.Daily[6].Date)
	}
	if len(s.Weekly) != 4 {
		t.Fatalf("expected 4 weekly rows, got %d", len(s.Weekly))
	}
	for i := 1; i < len(s.Weekly); i++ {
		if s.Weekly[i-1].WeekStart >= s.Weekly[i].WeekStart {
			t.Fatalf("weekly rows must ascend: %s then %s", s.Weekly[i-1].WeekStart, s.Weekly[i].WeekStart)
		}
	}
	if len(s.Monthly) != 3 {
		t.Fatalf("expected 3 monthly rows, got %d", len(s.Monthly))
	}
	last := s.Monthly[len(s.Monthly)-1]
	if last.Year != 2026 || last.Month != 6 {
		t.Fatalf("expected newest month last, got %d-%02d", last.Year, last.Month)
	}
}

func TestGetProgressSummaryEmpty(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	s, err := service.GetProgressSummary(db, testUser, localDate(2026, time.June, 20))
	if err != nil {
		t.Fatalf("get progress summary: %v", err)
	}
	if len(s.Daily) != 0 || len(s.Weekly) != 0 || len(s.Monthly) != 0 {
		t.Fatalf("expected empty summary, got %+v", s)
	}
}
