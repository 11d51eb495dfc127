package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"harbor-control/internal/model"
	"harbor-control/internal/pagination"
)

// TrafficDaySource buckets filtered traffic by the stored traffic_day key.
type TrafficDaySource struct {
	db    *gorm.DB
	query ListQuery
}

func (s *TrafficDaySource) base(ctx context.Context) *gorm.DB {
	return s.query.applySearch(s.db.WithContext(ctx).Model(&model.TrafficEntry{})).
		Where("traffic_day IS NOT NULL")
}

func (s *TrafficDaySource) DayRange(ctx context.Context) (pagination.Day, pagination.Day, bool, error) {
	var row struct {
		Oldest *string
		Newest *string
	}
	err := s.base(ctx).
		Select("MIN(traffic_day) AS oldest, MAX(traffic_day) AS newest").
		Scan(&row).Error
	if err != nil {
		return pagination.Day{}, pagination.Day{}, false, err
	}
	if row.Oldest == nil || row.Newest == nil {
		return pagination.Day{}, pagination.Day{}, false, nil
	}

	oldest, err := pagination.ParseDay(*row.Oldest)
	if err != nil {
		return pagination.Day{}, pagination.Day{}, false, fmt.Errorf("parse traffic_day %q: %w", *row.Oldest, err)
	}
	newest, err := pagination.ParseDay(*row.Newest)
	if err != nil {
		return pagination.Day{}, pagination.Day{}, false, fmt.Errorf("parse traffic_day %q: %w", *row.Newest, err)
	}
	return oldest, newest, true, nil
}

func (s *TrafficDaySource) DistinctDays(ctx context.Context) ([]pagination.Day, error) {
	var keys []string
	err := s.base(ctx).
		Distinct().
		Order("traffic_day DESC").
		Pluck("traffic_day", &keys).Error
	if err != nil {
		return nil, err
	}

	days := make([]pagination.Day, 0, len(keys))
	for _, k := range keys {
		d, err := pagination.ParseDay(k)
		if err != nil {
			return nil, fmt.Errorf("parse traffic_day %q: %w", k, err)
		}
		days = append(days, d)
	}
	return days, nil
}

func (s *TrafficDaySource) EntriesOn(ctx context.Context, day pagination.Day) ([]model.TrafficEntry, error) {
	var entries []model.TrafficEntry
	err := s.query.applyOrder(s.base(ctx).Where("traffic_day = ?", day.String())).
		Find(&entries).Error
	return entries, err
}
