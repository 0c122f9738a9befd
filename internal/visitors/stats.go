package visitors

import (
	"math"
	"time"
)

// DayKey formats the daily bucket key for a point in time.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// TodayCount returns the bucket count for the current day, zero when no
// visit has been recorded yet.
func TodayCount(buckets []DailyVisit, now time.Time, loc *time.Location) int64 {
	key := DayKey(now, loc)
	for _, b := range buckets {
		if b.Date == key {
			return b.Count
		}
	}
	return 0
}

// LastNDays returns one bucket per day for the n days ending today, oldest
// first, with zero counts filled in for days without visits.
func LastNDays(buckets []DailyVisit, now time.Time, loc *time.Location, n int) []DailyVisit {
	byDate := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		byDate[b.Date] = b.Count
	}

	out := make([]DailyVisit, 0, n)
	day := now.In(loc)
	for i := n - 1; i >= 0; i-- {
		key := DayKey(day.AddDate(0, 0, -i), loc)
		out = append(out, DailyVisit{Date: key, Count: byDate[key]})
	}
	return out
}

// WeekStart returns midnight of the Monday of now's week.
func WeekStart(now time.Time, loc *time.Location) time.Time {
	t := now.In(loc)
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	offset := (int(midnight.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return midnight.AddDate(0, 0, -offset)
}

// WeeklyTotals sums the buckets of the current week and of the week before.
func WeeklyTotals(buckets []DailyVisit, now time.Time, loc *time.Location) (thisWeek, lastWeek int64) {
	start := WeekStart(now, loc)
	prevStart := start.AddDate(0, 0, -7)

	for _, b := range buckets {
		day, err := time.ParseInLocation("2006-01-02", b.Date, loc)
		if err != nil {
			continue
		}
		switch {
		case !day.Before(start):
			thisWeek += b.Count
		case !day.Before(prevStart):
			lastWeek += b.Count
		}
	}
	return thisWeek, lastWeek
}

// GrowthPercent compares this week against last week, rounded to one
// decimal. A week growing from zero reads as 100%.
func GrowthPercent(thisWeek, lastWeek int64) float64 {
	if lastWeek == 0 {
		if thisWeek > 0 {
			return 100
		}
		return 0
	}
	growth := float64(thisWeek-lastWeek) / float64(lastWeek) * 100
	return math.Round(growth*10) / 10
}
