package visitors

import (
	"context"
	"time"
)

type Service struct {
	repo     Repository
	location *time.Location
}

func NewService(repo Repository, location *time.Location) *Service {
	return &Service{
		repo:     repo,
		location: location,
	}
}

// Increment counts one visit. The in-place $inc path wins the common case;
// the first visit of a day (or ever) falls through to the bucket push.
func (s *Service) Increment(ctx context.Context) (Counter, error) {
	now := time.Now().In(s.location)
	key := DayKey(now, s.location)

	bumped, err := s.repo.IncrementExistingBucket(ctx, key, now)
	if err != nil {
		return Counter{}, err
	}
	if !bumped {
		if err := s.repo.IncrementNewBucket(ctx, key, now); err != nil {
			return Counter{}, err
		}
	}
	return s.repo.Get(ctx)
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	counter, err := s.repo.Get(ctx)
	if err != nil {
		return 0, err
	}
	return counter.TotalVisitors, nil
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	counter, err := s.repo.Get(ctx)
	if err != nil {
		return Stats{}, err
	}

	now := time.Now().In(s.location)
	thisWeek, lastWeek := WeeklyTotals(counter.DailyVisits, now, s.location)

	return Stats{
		TotalVisitors: counter.TotalVisitors,
		Today:         TodayCount(counter.DailyVisits, now, s.location),
		LastVisit:     counter.LastVisit,
		Daily:         LastNDays(counter.DailyVisits, now, s.location, 7),
		ThisWeek:      thisWeek,
		LastWeek:      lastWeek,
		WeeklyGrowth:  GrowthPercent(thisWeek, lastWeek),
	}, nil
}

func (s *Service) Reset(ctx context.Context) error {
	return s.repo.Reset(ctx, time.Now().In(s.location))
}
