package pagination

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPage the requested page number is not a page of the paginator.
var ErrInvalidPage = errors.New("invalid page")

// DaySource is a filtered, ordered collection that can be bucketed by day.
// Entries without a day key never appear in any of its results.
type DaySource[T any] interface {
	// DayRange oldest and newest day key; ok is false when there are none.
	DayRange(ctx context.Context) (oldest, newest Day, ok bool, err error)
	// DistinctDays every observed day key, newest first.
	DistinctDays(ctx context.Context) ([]Day, error)
	// EntriesOn entries whose day key is day, in the collection's order.
	EntriesOn(ctx context.Context, day Day) ([]T, error)
}

// DayPaginator pages a DaySource one calendar day per page, newest first.
//
// With empty days included only the newest and oldest day are held and the
// day of a page is computed, so a wide range costs nothing.
type DayPaginator[T any] struct {
	src              DaySource[T]
	includeEmptyDays bool

	// empty days included
	newest, oldest Day
	span           int

	// observed days only, newest first
	days []Day
}

// NewDayPaginator resolves the day sequence of src.
//
// With includeEmptyDays every day between the oldest and newest key is a page,
// so jumping to any day in range lands on its own page. Without it only
// observed days are pages.
func NewDayPaginator[T any](ctx context.Context, src DaySource[T], includeEmptyDays bool) (*DayPaginator[T], error) {
	p := &DayPaginator[T]{src: src, includeEmptyDays: includeEmptyDays}

	if includeEmptyDays {
		oldest, newest, ok, err := src.DayRange(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve day range: %w", err)
		}
		if ok {
			p.newest, p.oldest = newest, oldest
			p.span = newest.DaysSince(oldest) + 1
		}
		return p, nil
	}

	days, err := src.DistinctDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve days: %w", err)
	}
	p.days = days
	return p, nil
}

// Count number of days.
func (p *DayPaginator[T]) Count() int {
	if p.includeEmptyDays {
		return p.span
	}
	return len(p.days)
}

// NumPages is Count, but never less than 1.
func (p *DayPaginator[T]) NumPages() int {
	if n := p.Count(); n > 0 {
		return n
	}
	return 1
}

// DayAt the day shown on page number; ok is false outside 1..Count.
func (p *DayPaginator[T]) DayAt(number int) (Day, bool) {
	if number < 1 || number > p.Count() {
		return Day{}, false
	}
	if p.includeEmptyDays {
		return p.newest.AddDays(-(number - 1)), true
	}
	return p.days[number-1], true
}

// IncludesEmptyDays reports the mode the paginator was built with.
func (p *DayPaginator[T]) IncludesEmptyDays() bool { return p.includeEmptyDays }

// Page returns the page for a raw request value. Empty means page 1.
func (p *DayPaginator[T]) Page(ctx context.Context, raw string) (*DayPage[T], error) {
	raw = strings.TrimSpace(raw)
	number := 1
	if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidPage, raw)
		}
		number = n
	}
	return p.PageNumber(ctx, number)
}

// PageNumber returns page number, 1-based.
func (p *DayPaginator[T]) PageNumber(ctx context.Context, number int) (*DayPage[T], error) {
	if number < 1 || number > p.NumPages() {
		return nil, fmt.Errorf("%w: page %d does not exist", ErrInvalidPage, number)
	}

	page := &DayPage[T]{Number: number, NumPages: p.NumPages(), Entries: []T{}}
	day, ok := p.DayAt(number)
	if !ok {
		return page, nil
	}

	entries, err := p.src.EntriesOn(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load entries for %s: %w", day, err)
	}
	if entries != nil {
		page.Entries = entries
	}
	page.Day = &day
	return page, nil
}

// PageForDay maps a requested day onto a page number.
//
// Days after the newest resolve to 1 and days before the oldest to the last
// page. Inside the range the day's own page is returned; a sparse paginator
// falls back to the closest older observed day.
func (p *DayPaginator[T]) PageForDay(day Day) int {
	count := p.Count()
	if count == 0 {
		return 1
	}
	newest, _ := p.DayAt(1)
	oldest, _ := p.DayAt(count)
	if day.After(newest) {
		return 1
	}
	if day.Before(oldest) {
		return count
	}
	if p.includeEmptyDays {
		return newest.DaysSince(day) + 1
	}
	for i, d := range p.days {
		if !d.After(day) {
			return i + 1
		}
	}
	return len(p.days)
}

// DayPage one day of entries.
type DayPage[T any] struct {
	// Day is nil only when the paginator has no days at all.
	Day      *Day
	Entries  []T
	Number   int
	NumPages int
}

func (pg *DayPage[T]) HasPrevious() bool { return pg.Number > 1 }

func (pg *DayPage[T]) HasNext() bool { return pg.Number < pg.NumPages }

func (pg *DayPage[T]) HasOtherPages() bool { return pg.NumPages > 1 }

// PreviousPageNumber fails with ErrInvalidPage on the first page.
func (pg *DayPage[T]) PreviousPageNumber() (int, error) {
	if !pg.HasPrevious() {
		return 0, fmt.Errorf("%w: no previous page", ErrInvalidPage)
	}
	return pg.Number - 1, nil
}

// NextPageNumber fails with ErrInvalidPage on the last page.
func (pg *DayPage[T]) NextPageNumber() (int, error) {
	if !pg.HasNext() {
		return 0, fmt.Errorf("%w: no next page", ErrInvalidPage)
	}
	return pg.Number + 1, nil
}
