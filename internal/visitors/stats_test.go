package visitors

import (
	"testing"
	"time"
)

// 2026-02-04 is a Wednesday.
var testNow = time.Date(2026, 2, 4, 15, 30, 0, 0, time.UTC)

func TestTodayCount(t *testing.T) {
	buckets := []DailyVisit{
		{Date: "2026-02-03", Count: 12},
		{Date: "2026-02-04", Count: 5},
	}
	if got := TodayCount(buckets, testNow, time.UTC); got != 5 {
		t.Fatalf("TodayCount = %d, want 5", got)
	}
	if got := TodayCount(nil, testNow, time.UTC); got != 0 {
		t.Fatalf("TodayCount on empty = %d, want 0", got)
	}
}

func TestLastNDaysFillsGaps(t *testing.T) {
	buckets := []DailyVisit{
		{Date: "2026-02-01", Count: 3},
		{Date: "2026-02-04", Count: 5},
	}
	out := LastNDays(buckets, testNow, time.UTC, 7)
	if len(out) != 7 {
		t.Fatalf("expected 7 days, got %d", len(out))
	}
	if out[0].Date != "2026-01-29" || out[6].Date != "2026-02-04" {
		t.Fatalf("wrong day range: %v", out)
	}
	if out[3].Date != "2026-02-01" || out[3].Count != 3 {
		t.Fatalf("known bucket missing: %v", out[3])
	}
	if out[4].Count != 0 || out[5].Count != 0 {
		t.Fatalf("gap days not zero-filled: %v", out)
	}
	if out[6].Count != 5 {
		t.Fatalf("today's bucket wrong: %v", out[6])
	}
}

func TestWeekStart(t *testing.T) {
	cases := []struct {
		now  time.Time
		want string
	}{
		{time.Date(2026, 2, 4, 10, 0, 0, 0, time.UTC), "2026-02-02"},  // Wednesday
		{time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC), "2026-02-02"},   // Monday itself
		{time.Date(2026, 2, 8, 23, 59, 0, 0, time.UTC), "2026-02-02"}, // Sunday
	}
	for _, tc := range cases {
		got := WeekStart(tc.now, time.UTC).Format("2006-01-02")
		if got != tc.want {
			t.Fatalf("WeekStart(%v) = %s, want %s", tc.now, got, tc.want)
		}
	}
}

func TestWeeklyTotals(t *testing.T) {
	buckets := []DailyVisit{
		{Date: "2026-01-25", Count: 100}, // Sunday before last week, ignored
		{Date: "2026-01-26", Count: 10},  // last week Monday
		{Date: "2026-02-01", Count: 4},   // last week Sunday
		{Date: "2026-02-02", Count: 7},   // this week Monday
		{Date: "2026-02-04", Count: 5},   // today
	}
	thisWeek, lastWeek := WeeklyTotals(buckets, testNow, time.UTC)
	if thisWeek != 12 {
		t.Fatalf("thisWeek = %d, want 12", thisWeek)
	}
	if lastWeek != 14 {
		t.Fatalf("lastWeek = %d, want 14", lastWeek)
	}
}

func TestGrowthPercent(t *testing.T) {
	cases := []struct {
		this, last int64
		want       float64
	}{
		{12, 14, -14.3},
		{14, 12, 16.7},
		{10, 10, 0},
		{5, 0, 100},
		{0, 0, 0},
		{0, 8, -100},
	}
	for _, tc := range cases {
		if got := GrowthPercent(tc.this, tc.last); got != tc.want {
			t.Fatalf("GrowthPercent(%d, %d) = %v, want %v", tc.this, tc.last, got, tc.want)
		}
	}
}
