package availability

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time or zone attached.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate accepts exactly YYYY-MM-DD naming a real calendar date.
func ParseDate(s string) (Date, error) {
	if len(s) != len(dateLayout) {
		return Date{}, fmt.Errorf("date %q must be formatted as YYYY-MM-DD", s)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("date %q is not a valid calendar date", s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date t falls on in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Weekday is computed from the year/month/day components alone. Zone offsets
// never enter into it, so it cannot slip a day near midnight.
func (d Date) Weekday() time.Weekday {
	return d.civil().Weekday()
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.civil().AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool { return d.civil().Before(o.civil()) }
func (d Date) After(o Date) bool  { return d.civil().After(o.civil()) }

// civil anchors the date at UTC midnight purely for calendar arithmetic.
func (d Date) civil() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// Region interprets dates and minute-of-day values in one fixed UTC offset.
type Region struct {
	loc *time.Location
}

func NewRegion(loc *time.Location) Region {
	if loc == nil {
		loc = time.UTC
	}
	return Region{loc: loc}
}

func (r Region) Location() *time.Location { return r.loc }

// Today is the regional calendar date at instant now.
func (r Region) Today(now time.Time) Date {
	return DateOf(now.In(r.loc))
}

// Midnight is the instant the regional day d begins.
func (r Region) Midnight(d Date) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, r.loc)
}

// At is the instant of minute-of-day m on regional date d.
func (r Region) At(d Date, m int) time.Time {
	return r.Midnight(d).Add(time.Duration(m) * time.Minute)
}

// FormatMinute renders minute-of-day m as HH:MM.
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
