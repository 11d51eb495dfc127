package pagination

import (
	"context"
	"sort"
)

// SliceSource is a DaySource over an in-memory, already ordered slice.
type SliceSource[T any] struct {
	items []T
	key   func(T) (Day, bool)
}

// NewSliceSource wraps items; key returns false for items without a day.
func NewSliceSource[T any](items []T, key func(T) (Day, bool)) *SliceSource[T] {
	return &SliceSource[T]{items: items, key: key}
}

func (s *SliceSource[T]) DayRange(_ context.Context) (Day, Day, bool, error) {
	var oldest, newest Day
	found := false
	for _, it := range s.items {
		d, ok := s.key(it)
		if !ok {
			continue
		}
		if !found || d.Before(oldest) {
			oldest = d
		}
		if !found || d.After(newest) {
			newest = d
		}
		found = true
	}
	return oldest, newest, found, nil
}

func (s *SliceSource[T]) DistinctDays(_ context.Context) ([]Day, error) {
	seen := make(map[Day]bool)
	var days []Day
	for _, it := range s.items {
		d, ok := s.key(it)
		if !ok || seen[d] {
			continue
		}
		seen[d] = true
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })
	return days, nil
}

func (s *SliceSource[T]) EntriesOn(_ context.Context, day Day) ([]T, error) {
	var out []T
	for _, it := range s.items {
		if d, ok := s.key(it); ok && d.Equal(day) {
			out = append(out, it)
		}
	}
	return out, nil
}
