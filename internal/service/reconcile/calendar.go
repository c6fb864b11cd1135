package reconcile

import (
	"fmt"
	"slices"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/report"
)

// DateLayout is the key format used for calendar days.
const DateLayout = "2006-01-02"

// CalendarDay is one date inside a Window.
type CalendarDay struct {
	Date      time.Time
	Key       string
	IsWeekend bool
}

// Window is an inclusive range of calendar days in one location.
type Window struct {
	from     time.Time
	to       time.Time
	loc      *time.Location
	restDays []time.Weekday
}

// ParseWindow parses two YYYY-MM-DD dates into a Window. With no rest days
// given, Sunday is the rest day.
func ParseWindow(from, to string, loc *time.Location, restDays ...time.Weekday) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	f, err := time.ParseInLocation(DateLayout, from, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: from %q is not a YYYY-MM-DD date", report.ErrInvalidDateRange, from)
	}
	t, err := time.ParseInLocation(DateLayout, to, loc)
	if err != nil {
		return Window{}, fmt.Errorf("%w: to %q is not a YYYY-MM-DD date", report.ErrInvalidDateRange, to)
	}
	return NewWindow(f, t, loc, restDays...)
}

// NewWindow builds a Window covering the calendar dates of from and to in loc.
func NewWindow(from, to time.Time, loc *time.Location, restDays ...time.Weekday) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	f, t := StartOfDay(from, loc), StartOfDay(to, loc)
	if t.Before(f) {
		return Window{}, fmt.Errorf("%w: from %s is after to %s", report.ErrInvalidDateRange, f.Format(DateLayout), t.Format(DateLayout))
	}
	if len(restDays) == 0 {
		restDays = []time.Weekday{time.Sunday}
	}
	return Window{from: f, to: t, loc: loc, restDays: restDays}, nil
}

func (w Window) From() time.Time          { return w.from }
func (w Window) To() time.Time            { return w.to }
func (w Window) FromKey() string          { return w.from.Format(DateLayout) }
func (w Window) ToKey() string            { return w.to.Format(DateLayout) }
func (w Window) Location() *time.Location { return w.loc }

// End is the last instant of the window.
func (w Window) End() time.Time {
	return nextDay(w.to).Add(-time.Nanosecond)
}

// Len is the number of days in the window.
func (w Window) Len() int {
	return daysBetween(w.from, w.to) + 1
}

// IsRestDay reports whether t falls on one of the window's rest days.
func (w Window) IsRestDay(t time.Time) bool {
	return slices.Contains(w.restDays, t.In(w.loc).Weekday())
}

// Days lists every date of the window in ascending order.
func (w Window) Days() []CalendarDay {
	days := make([]CalendarDay, 0, w.Len())
	for d := w.from; !d.After(w.to); d = nextDay(d) {
		days = append(days, CalendarDay{
			Date:      d,
			Key:       d.Format(DateLayout),
			IsWeekend: w.IsRestDay(d),
		})
	}
	return days
}

// Clip returns the part of [from, to] inside the window as midnight dates.
func (w Window) Clip(from, to time.Time) (start, end time.Time, ok bool) {
	start, end = StartOfDay(from, w.loc), StartOfDay(to, w.loc)
	if start.Before(w.from) {
		start = w.from
	}
	if end.After(w.to) {
		end = w.to
	}
	return start, end, !end.Before(start)
}

// StartOfDay returns midnight of t's calendar date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DateKey formats t's calendar date in loc.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// MonthToDate is the window from the first of now's month to now's date.
func MonthToDate(now time.Time, loc *time.Location, restDays ...time.Weekday) Window {
	now = now.In(loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	w, _ := NewWindow(first, now, loc, restDays...)
	return w
}

// Month is the window covering all of now's calendar month.
func Month(now time.Time, loc *time.Location, restDays ...time.Weekday) Window {
	now = now.In(loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, -1)
	w, _ := NewWindow(first, last, loc, restDays...)
	return w
}

func nextDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, d.Location())
}

func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
