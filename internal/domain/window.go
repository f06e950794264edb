package domain

import (
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

type ComparisonMode string

const (
	CompareNone      ComparisonMode = ""
	ComparePrevious  ComparisonMode = "previous"
	CompareLastWeek  ComparisonMode = "last_week"
	CompareLastMonth ComparisonMode = "last_month"
	CompareLastYear  ComparisonMode = "last_year"
	CompareCustom    ComparisonMode = "custom"
)

// Window is an inclusive range of calendar days. Start and End are midnight
// in the reporting location.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewWindow(start time.Time, end time.Time) Window {
	return Window{Start: StartOfDay(start), End: StartOfDay(end)}
}

// ParseWindow reads two YYYY-MM-DD dates in loc. End before start is rejected.
func ParseWindow(start string, end string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.UTC
	}
	from, err := time.ParseInLocation(DateLayout, start, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid start date %q", start)
	}
	to, err := time.ParseInLocation(DateLayout, end, loc)
	if err != nil {
		return Window{}, fmt.Errorf("invalid end date %q", end)
	}
	if to.Before(from) {
		return Window{}, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	return NewWindow(from, to), nil
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Days counts calendar days in the window, both ends included.
func (w Window) Days() int {
	if w.End.Before(w.Start) {
		return 0
	}
	return CalendarDaysBetween(w.Start, w.End) + 1
}

// Bounds returns the half-open instant range [from, to) covering the window.
func (w Window) Bounds() (time.Time, time.Time) {
	return w.Start, w.End.AddDate(0, 0, 1)
}

func (w Window) Contains(t time.Time) bool {
	from, to := w.Bounds()
	return !t.Before(from) && t.Before(to)
}

func (w Window) Label() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}

func (w Window) IsZero() bool {
	return w.Start.IsZero() && w.End.IsZero()
}

// CalendarDaysBetween counts whole civil days from a to b, ignoring DST shifts.
func CalendarDaysBetween(a time.Time, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
