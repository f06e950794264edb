package forecast

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelledger/backend/internal/domain"
)

var start = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday

func dailySeries(values ...float64) []domain.DailyPoint {
	out := make([]domain.DailyPoint, 0, len(values))
	for i, v := range values {
		out = append(out, domain.DailyPoint{Date: start.AddDate(0, 0, i), Revenue: v, Orders: 1})
	}
	return out
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestAggregateDailyIsSparseAndSorted(t *testing.T) {
	orders := []domain.Order{
		{ID: "o3", CreatedAt: start.AddDate(0, 0, 5).Add(20 * time.Hour), TotalAmount: 40},
		{ID: "o1", CreatedAt: start.Add(9 * time.Hour), TotalAmount: 100},
		{ID: "o2", CreatedAt: start.Add(21 * time.Hour), TotalAmount: 50.25},
	}
	points := AggregateDaily(orders, time.UTC, func(_ time.Time, dayOrders []domain.Order) float64 {
		return float64(len(dayOrders)) * 10
	})

	require.Len(t, points, 2)
	assert.Equal(t, start, points[0].Date)
	assert.Equal(t, 150.25, points[0].Revenue)
	assert.Equal(t, 2, points[0].Orders)
	assert.Equal(t, 20.0, points[0].COGS)
	assert.Equal(t, start.AddDate(0, 0, 5), points[1].Date)
	assert.Equal(t, 10.0, points[1].COGS)
}

func TestAggregateDailyUsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	orders := []domain.Order{{ID: "late", CreatedAt: time.Date(2025, 1, 6, 20, 0, 0, 0, time.UTC), TotalAmount: 10}}
	points := AggregateDaily(orders, jakarta, nil)
	require.Len(t, points, 1)
	assert.Equal(t, 7, points[0].Date.Day())
	assert.Zero(t, points[0].COGS)
}

func TestForecastEmptySeries(t *testing.T) {
	result := Forecast(nil, 0, DefaultOptions())
	assert.Equal(t, DefaultHorizonDays, result.HorizonDays)
	assert.Equal(t, domain.TrendStable, result.Trend)
	assert.Equal(t, domain.ConfidenceLow, result.Confidence)
	assert.Empty(t, result.Days)
}

func TestForecastFlatSeries(t *testing.T) {
	series := dailySeries(repeat(500, 30)...)
	for i := range series {
		series[i].COGS = 150
	}

	result := Forecast(series, 7, DefaultOptions())
	assert.Equal(t, domain.TrendStable, result.Trend)
	assert.Equal(t, domain.ConfidenceHigh, result.Confidence)
	assert.Zero(t, result.GrowthRate)
	require.Len(t, result.Days, 7)
	for _, d := range result.Days {
		assert.Equal(t, 500.0, d.Revenue)
		assert.Equal(t, 150.0, d.COGS)
		assert.Equal(t, 350.0, d.Profit)
	}
	assert.Equal(t, 3500.0, result.ProjectedRevenue)
	assert.Equal(t, 1050.0, result.ProjectedCOGS)
	assert.Equal(t, 2450.0, result.ProjectedProfit)
	assert.Equal(t, series[29].Date.AddDate(0, 0, 1), result.Days[0].Date)
}

func TestForecastUpwardTrend(t *testing.T) {
	values := make([]float64, 14)
	for i := range values {
		values[i] = 100 + 10*float64(i)
	}
	result := Forecast(dailySeries(values...), 5, DefaultOptions())

	assert.Equal(t, domain.TrendUp, result.Trend)
	assert.Greater(t, result.GrowthRate, 0.0)
	assert.InDelta(t, 10.0, result.Slope, 1e-9)
	assert.Equal(t, 1.0, result.RSquared)
	assert.Equal(t, domain.ConfidenceMedium, result.Confidence)
	require.Len(t, result.Days, 5)
	assert.Greater(t, result.Days[4].Revenue, result.Days[0].Revenue)
	assert.Greater(t, result.ProjectedRevenue, 0.0)
}

func TestForecastDownwardTrendClampsAtZero(t *testing.T) {
	result := Forecast(dailySeries(100, 80, 60, 40, 20), 7, DefaultOptions())

	assert.Equal(t, domain.TrendDown, result.Trend)
	assert.Equal(t, domain.ConfidenceLow, result.Confidence)
	for _, d := range result.Days {
		assert.GreaterOrEqual(t, d.Revenue, 0.0)
	}
	assert.Zero(t, result.Days[6].Revenue)
}

func TestForecastSmallNoiseIsStable(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 1000 + float64(i%2)
	}
	result := Forecast(dailySeries(values...), 7, DefaultOptions())
	assert.Equal(t, domain.TrendStable, result.Trend)
}

func TestForecastSparseSeriesUsesCalendarOffsets(t *testing.T) {
	series := []domain.DailyPoint{
		{Date: start, Revenue: 100},
		{Date: start.AddDate(0, 0, 10), Revenue: 200},
	}
	result := Forecast(series, 1, DefaultOptions())
	assert.InDelta(t, 10.0, result.Slope, 1e-9)
	// base 150 anchored at day 5, projected day 11
	assert.Equal(t, 210.0, result.Days[0].Revenue)
}

func TestForecastHighVarianceIsLowConfidence(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		if i%2 == 0 {
			values[i] = 10
		} else {
			values[i] = 1000
		}
	}
	result := Forecast(dailySeries(values...), 7, DefaultOptions())
	assert.Equal(t, domain.ConfidenceLow, result.Confidence)
}

func TestGrowthRateZeroBase(t *testing.T) {
	assert.Equal(t, 100.0, growthRate([]float64{0, 50}))
	assert.Equal(t, -50.0, growthRate([]float64{100, 50}))
	assert.Equal(t, 0.0, growthRate([]float64{0, 0}))
	assert.Equal(t, 0.0, growthRate([]float64{10}))
}

func TestDayOfWeekIndexes(t *testing.T) {
	// Monday through Sunday, weekend doubled
	series := dailySeries(100, 100, 100, 100, 100, 200, 200)
	stats := DayOfWeek(series)
	require.Len(t, stats, 7)

	byName := map[string]domain.WeekdayStat{}
	for _, s := range stats {
		byName[s.Weekday] = s
	}
	overall := 900.0 / 7
	assert.Equal(t, 200.0, byName["Saturday"].AverageRevenue)
	assert.InDelta(t, 200/overall*100, byName["Saturday"].Index, 0.01)
	assert.InDelta(t, 100/overall*100, byName["Monday"].Index, 0.01)
	assert.Equal(t, 1, byName["Sunday"].Observations)
}

func TestDayOfWeekHandlesEmptySeries(t *testing.T) {
	stats := DayOfWeek(nil)
	require.Len(t, stats, 7)
	for _, s := range stats {
		assert.Zero(t, s.Index)
		assert.False(t, math.IsNaN(s.AverageRevenue))
	}
}

func monthlySeries(avgByMonth map[time.Month]float64) []domain.DailyPoint {
	out := []domain.DailyPoint{}
	for m := time.January; m <= time.December; m++ {
		v, ok := avgByMonth[m]
		if !ok {
			continue
		}
		for d := 1; d <= 3; d++ {
			out = append(out, domain.DailyPoint{Date: time.Date(2024, m, d, 0, 0, 0, 0, time.UTC), Revenue: v})
		}
	}
	return out
}

func TestSeasonalityFlatSeriesIsNormal(t *testing.T) {
	avg := map[time.Month]float64{}
	for m := time.January; m <= time.December; m++ {
		avg[m] = 100.1
	}
	report := Seasonality(monthlySeries(avg), domain.GranularityMonth, DefaultBands())

	require.Len(t, report.Periods, 12)
	for _, p := range report.Periods {
		assert.Equal(t, domain.SeasonNormal, p.Season, p.Label)
	}
	assert.Zero(t, report.SeasonalityIndex)
	assert.Equal(t, "January", report.Periods[0].Label)
}

func TestSeasonalityProducesAllBands(t *testing.T) {
	report := Seasonality(monthlySeries(map[time.Month]float64{
		time.January:  140,
		time.February: 115,
		time.March:    100,
		time.April:    75,
		time.May:      50,
	}), domain.GranularityMonth, DefaultBands())

	require.Len(t, report.Periods, 5)
	want := []domain.Season{domain.SeasonPeak, domain.SeasonHigh, domain.SeasonNormal, domain.SeasonLow, domain.SeasonOffPeak}
	for i, p := range report.Periods {
		assert.Equal(t, want[i], p.Season, p.Label)
	}
	assert.Equal(t, 96.0, report.OverallMean)
	assert.Greater(t, report.SeasonalityIndex, 0.0)
}

func TestSeasonalityQuarterly(t *testing.T) {
	report := Seasonality(monthlySeries(map[time.Month]float64{
		time.January: 100,
		time.March:   100,
		time.July:    300,
	}), domain.GranularityQuarter, Bands{})

	require.Len(t, report.Periods, 2)
	assert.Equal(t, "Q1", report.Periods[0].Key)
	assert.Equal(t, "Q3", report.Periods[1].Key)
	assert.Equal(t, 6, report.Periods[0].Observations)
	assert.Equal(t, domain.SeasonOffPeak, report.Periods[0].Season)
	assert.Equal(t, domain.SeasonPeak, report.Periods[1].Season)
	assert.Equal(t, 50.0, report.SeasonalityIndex)
}

func TestBandsClassifyIsMonotonic(t *testing.T) {
	bands := DefaultBands()
	assert.True(t, bands.Valid())
	assert.False(t, Bands{Peak: 100, High: 110, Normal: 90, Low: 70}.Valid())

	rank := map[domain.Season]int{
		domain.SeasonOffPeak: 0, domain.SeasonLow: 1, domain.SeasonNormal: 2, domain.SeasonHigh: 3, domain.SeasonPeak: 4,
	}
	prev := -1
	for idx := 0.0; idx <= 200; idx += 0.5 {
		r := rank[bands.Classify(idx)]
		assert.GreaterOrEqual(t, r, prev)
		prev = r
	}
}

func TestDetectAnomalies(t *testing.T) {
	series := dailySeries(100, 100, 100, 100, 100, 100, 100, 20, 95)
	anomalies := DetectAnomalies(series, DefaultAnomalyOptions())

	require.Len(t, anomalies, 1)
	assert.Equal(t, start.AddDate(0, 0, 7), anomalies[0].Date)
	assert.Equal(t, 100.0, anomalies[0].Expected)
	assert.Equal(t, 80.0, anomalies[0].DropPct)
	assert.Equal(t, "critical", anomalies[0].Severity)
}
