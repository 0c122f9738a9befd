package visitors

import "time"

// counterID pins the counter to a single document.
const counterID = "visitor-counter"

// maxDailyBuckets bounds the rolling daily history.
const maxDailyBuckets = 30

type DailyVisit struct {
	Date  string `bson:"date" json:"date"` // YYYY-MM-DD
	Count int64  `bson:"count" json:"count"`
}

type Counter struct {
	ID            string       `bson:"_id" json:"-"`
	TotalVisitors int64        `bson:"totalVisitors" json:"totalVisitors"`
	LastVisit     time.Time    `bson:"lastVisit" json:"lastVisit"`
	DailyVisits   []DailyVisit `bson:"dailyVisits" json:"dailyVisits"`
}

// Stats is the admin dashboard view of the counter.
type Stats struct {
	TotalVisitors int64        `json:"totalVisitors"`
	Today         int64        `json:"today"`
	LastVisit     time.Time    `json:"lastVisit"`
	Daily         []DailyVisit `json:"daily"`
	ThisWeek      int64        `json:"thisWeek"`
	LastWeek      int64        `json:"lastWeek"`
	WeeklyGrowth  float64      `json:"weeklyGrowth"`
}
