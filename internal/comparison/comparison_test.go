package comparison

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelledger/backend/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveWindowPrevious(t *testing.T) {
	current := domain.NewWindow(day(2025, 3, 10), day(2025, 3, 16))
	got, err := ResolveWindow(current, domain.ComparePrevious, nil)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 3), got.Start)
	assert.Equal(t, day(2025, 3, 9), got.End)
	assert.Equal(t, current.Days(), got.Days())
}

func TestResolveWindowPreviousSingleDay(t *testing.T) {
	current := domain.NewWindow(day(2025, 1, 1), day(2025, 1, 1))
	got, err := ResolveWindow(current, domain.ComparePrevious, nil)
	require.NoError(t, err)
	assert.Equal(t, day(2024, 12, 31), got.Start)
	assert.Equal(t, day(2024, 12, 31), got.End)
}

func TestResolveWindowLastWeek(t *testing.T) {
	current := domain.NewWindow(day(2025, 3, 3), day(2025, 3, 3))
	got, err := ResolveWindow(current, domain.CompareLastWeek, nil)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 2, 24), got.Start)
	assert.Equal(t, day(2025, 2, 24), got.End)
}

func TestResolveWindowLastMonthClampsDay(t *testing.T) {
	current := domain.NewWindow(day(2025, 3, 1), day(2025, 3, 31))
	got, err := ResolveWindow(current, domain.CompareLastMonth, nil)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 2, 1), got.Start)
	assert.Equal(t, day(2025, 2, 28), got.End)
	assert.NotEqual(t, current.Days(), got.Days())
}

func TestResolveWindowLastYearLeapDay(t *testing.T) {
	current := domain.NewWindow(day(2024, 2, 29), day(2024, 2, 29))
	got, err := ResolveWindow(current, domain.CompareLastYear, nil)
	require.NoError(t, err)
	assert.Equal(t, day(2023, 2, 28), got.Start)
}

func TestResolveWindowCustom(t *testing.T) {
	current := domain.NewWindow(day(2025, 4, 1), day(2025, 6, 30))

	_, err := ResolveWindow(current, domain.CompareCustom, nil)
	assert.ErrorIs(t, err, ErrCustomWindowRequired)

	custom := domain.NewWindow(day(2025, 1, 1), day(2025, 3, 31))
	got, err := ResolveWindow(current, domain.CompareCustom, &custom)
	require.NoError(t, err)
	assert.Equal(t, custom, got)

	backwards := domain.Window{Start: day(2025, 3, 31), End: day(2025, 1, 1)}
	_, err = ResolveWindow(current, domain.CompareCustom, &backwards)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestResolveWindowUnknownMode(t *testing.T) {
	_, err := ResolveWindow(domain.NewWindow(day(2025, 1, 1), day(2025, 1, 2)), "fortnight", nil)
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestPeriodOverPeriod(t *testing.T) {
	cur, prev, err := PeriodOverPeriod(day(2025, 5, 14), domain.GranularityQuarter)
	require.NoError(t, err)
	assert.Equal(t, domain.NewWindow(day(2025, 4, 1), day(2025, 6, 30)), cur)
	assert.Equal(t, domain.NewWindow(day(2025, 1, 1), day(2025, 3, 31)), prev)

	cur, prev, err = PeriodOverPeriod(day(2025, 1, 20), domain.GranularityMonth)
	require.NoError(t, err)
	assert.Equal(t, domain.NewWindow(day(2025, 1, 1), day(2025, 1, 31)), cur)
	assert.Equal(t, domain.NewWindow(day(2024, 12, 1), day(2024, 12, 31)), prev)

	cur, prev, err = PeriodOverPeriod(day(2024, 7, 4), domain.GranularityYear)
	require.NoError(t, err)
	assert.Equal(t, 366, cur.Days())
	assert.Equal(t, day(2023, 1, 1), prev.Start)

	_, _, err = PeriodOverPeriod(day(2024, 7, 4), "week")
	assert.ErrorIs(t, err, ErrUnknownGranularity)
}

func TestComputeVarianceZeroBase(t *testing.T) {
	v := ComputeVariance("revenue", 0, 0, true)
	assert.Equal(t, 0.0, v.Change)
	assert.Equal(t, 0.0, v.Percentage)

	v = ComputeVariance("revenue", 50, 0, true)
	assert.Equal(t, 50.0, v.Change)
	assert.Equal(t, 100.0, v.Percentage)
	assert.True(t, v.IsPositive)

	v = ComputeVariance("net_profit", -20, 0, true)
	assert.Equal(t, 0.0, v.Percentage)
	assert.False(t, v.IsPositive)
}

func TestComputeVarianceDirection(t *testing.T) {
	v := ComputeVariance("revenue", 120, 100, true)
	assert.Equal(t, 20.0, v.Change)
	assert.Equal(t, 20.0, v.Percentage)
	assert.True(t, v.IsPositive)

	v = ComputeVariance("cogs", 120, 100, false)
	assert.False(t, v.IsPositive)

	v = ComputeVariance("tax", 80, 100, false)
	assert.Equal(t, -20.0, v.Percentage)
	assert.True(t, v.IsPositive)

	v = ComputeVariance("cogs", 100, 100, false)
	assert.True(t, v.IsPositive)
}

func TestPeriodVariancesLowerIsBetterMetrics(t *testing.T) {
	current := domain.PeriodPL{Revenue: 200, COGS: 50, Tax: 20, Discount: 5}
	previous := domain.PeriodPL{Revenue: 100, COGS: 40, Tax: 10, Discount: 10}

	byMetric := map[string]domain.Variance{}
	for _, v := range PeriodVariances(current, previous) {
		byMetric[v.Metric] = v
	}
	require.Len(t, byMetric, 10)
	assert.False(t, byMetric["cogs"].HigherIsBetter)
	assert.False(t, byMetric["tax"].HigherIsBetter)
	assert.False(t, byMetric["discount"].HigherIsBetter)
	assert.True(t, byMetric["discount"].IsPositive)
	assert.True(t, byMetric["revenue"].IsPositive)
	assert.Equal(t, 100.0, byMetric["revenue"].Percentage)
}

func TestDepartmentVariancesMarginPoints(t *testing.T) {
	current := domain.PeriodPL{Departments: []domain.DepartmentPL{
		{Department: domain.DepartmentSpa, Revenue: 100, GrossMargin: 80, NetMargin: 70},
		{Department: domain.DepartmentBar, Revenue: 300, GrossMargin: 62.5, NetMargin: 50},
	}}
	previous := domain.PeriodPL{Departments: []domain.DepartmentPL{
		{Department: domain.DepartmentBar, Revenue: 200, GrossMargin: 60, NetMargin: 55},
		{Department: domain.DepartmentKitchen, Revenue: 90, GrossMargin: 40},
	}}

	got := DepartmentVariances(current, previous)
	require.Len(t, got, 3)
	assert.Equal(t, domain.DepartmentBar, got[0].Department)
	assert.Equal(t, 2.5, got[0].GrossMarginChange)
	assert.Equal(t, -5.0, got[0].NetMarginChange)
	assert.Equal(t, 50.0, got[0].Revenue.Percentage)

	assert.Equal(t, domain.DepartmentKitchen, got[1].Department)
	assert.Equal(t, -90.0, got[1].Revenue.Change)

	assert.Equal(t, domain.DepartmentSpa, got[2].Department)
	assert.Equal(t, 100.0, got[2].Revenue.Percentage)
}
