package pagination

import (
	"time"
)

// Day a calendar date, held as UTC midnight so that values compare and
// step without time zone drift.
type Day struct {
	t time.Time
}

// NewDay builds a Day from its components.
func NewDay(year int, month time.Month, day int) Day {
	return Day{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf is the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return NewDay(y, m, d)
}

// ParseDay parses YYYY-MM-DD.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, err
	}
	return Day{t: t}, nil
}

func (d Day) String() string { return d.t.Format("2006-01-02") }

// Time is midnight UTC of d.
func (d Day) Time() time.Time { return d.t }

func (d Day) IsZero() bool { return d.t.IsZero() }

// AddDays steps n calendar days, negative n going back.
func (d Day) AddDays(n int) Day { return Day{t: d.t.AddDate(0, 0, n)} }

func (d Day) Before(o Day) bool { return d.t.Before(o.t) }

func (d Day) After(o Day) bool { return d.t.After(o.t) }

func (d Day) Equal(o Day) bool { return d.t.Equal(o.t) }

const secondsPerDay = 24 * 60 * 60

// DaysSince whole days from o to d. Both are UTC midnights, so the second
// difference is an exact multiple of a day for any pair of years.
func (d Day) DaysSince(o Day) int {
	return int((d.t.Unix() - o.t.Unix()) / secondsPerDay)
}
