// Package comparison resolves comparison windows and diffs two period
// records into variances.
package comparison

import (
	"errors"
	"fmt"
	"time"

	"hotelledger/backend/internal/domain"
)

var (
	ErrUnknownMode          = errors.New("unknown comparison mode")
	ErrCustomWindowRequired = errors.New("custom comparison requires an explicit window")
	ErrInvalidWindow        = errors.New("invalid window")
	ErrUnknownGranularity   = errors.New("unknown period granularity")
)

// ResolveWindow returns the window current should be compared against.
// Month and year shifts are calendar aware: the day is clamped to the end of
// the target month, so Mar 31 minus one month is Feb 28 (or 29).
func ResolveWindow(current domain.Window, mode domain.ComparisonMode, custom *domain.Window) (domain.Window, error) {
	if current.End.Before(current.Start) {
		return domain.Window{}, ErrInvalidWindow
	}

	switch mode {
	case domain.ComparePrevious:
		length := current.Days()
		end := current.Start.AddDate(0, 0, -1)
		start := end.AddDate(0, 0, -(length - 1))
		return domain.NewWindow(start, end), nil
	case domain.CompareLastWeek:
		return domain.NewWindow(current.Start.AddDate(0, 0, -7), current.End.AddDate(0, 0, -7)), nil
	case domain.CompareLastMonth:
		return domain.NewWindow(ShiftMonths(current.Start, -1), ShiftMonths(current.End, -1)), nil
	case domain.CompareLastYear:
		return domain.NewWindow(ShiftMonths(current.Start, -12), ShiftMonths(current.End, -12)), nil
	case domain.CompareCustom:
		if custom == nil || custom.IsZero() {
			return domain.Window{}, ErrCustomWindowRequired
		}
		if custom.End.Before(custom.Start) {
			return domain.Window{}, ErrInvalidWindow
		}
		return domain.NewWindow(custom.Start, custom.End), nil
	default:
		return domain.Window{}, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// ShiftMonths moves t by n calendar months, clamping the day of month.
func ShiftMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// PeriodOverPeriod returns the calendar period containing ref and the one
// before it, for month, quarter or year granularity. The pair feeds custom
// comparisons such as month-over-month or year-over-year.
func PeriodOverPeriod(ref time.Time, granularity string) (domain.Window, domain.Window, error) {
	y, m, _ := ref.Date()
	loc := ref.Location()

	var start time.Time
	var months int
	switch granularity {
	case domain.GranularityMonth:
		start = time.Date(y, m, 1, 0, 0, 0, 0, loc)
		months = 1
	case domain.GranularityQuarter:
		qStart := time.Month((int(m)-1)/3*3 + 1)
		start = time.Date(y, qStart, 1, 0, 0, 0, 0, loc)
		months = 3
	case domain.GranularityYear:
		start = time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
		months = 12
	default:
		return domain.Window{}, domain.Window{}, fmt.Errorf("%w: %q", ErrUnknownGranularity, granularity)
	}

	current := domain.NewWindow(start, start.AddDate(0, months, -1))
	prevStart := start.AddDate(0, -months, 0)
	previous := domain.NewWindow(prevStart, start.AddDate(0, 0, -1))
	return current, previous, nil
}
