package forecast

import (
	"fmt"
	"time"

	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/money"
)

// DayOfWeek averages revenue per weekday, Sunday first. Index is the weekday
// average as a percentage of the mean across all observed days.
func DayOfWeek(series []domain.DailyPoint) []domain.WeekdayStat {
	overall := mean(revenues(series))

	var totals [7]float64
	var counts [7]int
	for _, p := range series {
		wd := int(p.Date.Weekday())
		totals[wd] += p.Revenue
		counts[wd]++
	}

	out := make([]domain.WeekdayStat, 0, 7)
	for wd := 0; wd < 7; wd++ {
		avg := money.Div(totals[wd], float64(counts[wd]))
		out = append(out, domain.WeekdayStat{
			Weekday:        time.Weekday(wd).String(),
			DayIndex:       wd,
			Observations:   counts[wd],
			AverageRevenue: money.Round2(avg),
			Index:          money.Round2(money.Percent(avg, overall)),
		})
	}
	return out
}

// Bands are the percentage-of-mean cut points for seasonal labels.
type Bands struct {
	Peak   float64
	High   float64
	Normal float64
	Low    float64
}

func DefaultBands() Bands {
	return Bands{Peak: 130, High: 110, Normal: 90, Low: 70}
}

// Valid reports whether the cut points are strictly descending and positive.
func (b Bands) Valid() bool {
	return b.Peak > b.High && b.High > b.Normal && b.Normal > b.Low && b.Low > 0
}

func (b Bands) Classify(indexPct float64) domain.Season {
	switch {
	case indexPct >= b.Peak:
		return domain.SeasonPeak
	case indexPct >= b.High:
		return domain.SeasonHigh
	case indexPct >= b.Normal:
		return domain.SeasonNormal
	case indexPct >= b.Low:
		return domain.SeasonLow
	default:
		return domain.SeasonOffPeak
	}
}

// Seasonality groups the series by month of year (or quarter of year),
// averages daily revenue within each group and classifies every group against
// the mean of those averages. Groups without observations are omitted.
func Seasonality(series []domain.DailyPoint, granularity string, bands Bands) domain.SeasonalityReport {
	if granularity != domain.GranularityQuarter {
		granularity = domain.GranularityMonth
	}
	if !bands.Valid() {
		bands = DefaultBands()
	}

	buckets := 12
	if granularity == domain.GranularityQuarter {
		buckets = 4
	}
	totals := make([]float64, buckets)
	counts := make([]int, buckets)
	for _, p := range series {
		idx := int(p.Date.Month()) - 1
		if granularity == domain.GranularityQuarter {
			idx /= 3
		}
		totals[idx] += p.Revenue
		counts[idx]++
	}

	periods := make([]domain.SeasonalPeriod, 0, buckets)
	averages := make([]float64, 0, buckets)
	for i := 0; i < buckets; i++ {
		if counts[i] == 0 {
			continue
		}
		avg := totals[i] / float64(counts[i])
		key, label := periodKey(granularity, i)
		periods = append(periods, domain.SeasonalPeriod{
			Key:            key,
			Label:          label,
			Observations:   counts[i],
			TotalRevenue:   money.Round2(totals[i]),
			AverageRevenue: money.Round2(avg),
		})
		averages = append(averages, avg)
	}

	overall := mean(averages)
	for i := range periods {
		index := 100.0
		if overall > 0 {
			index = averages[i] / overall * 100
		}
		periods[i].IndexPercent = money.Round2(index)
		periods[i].Season = bands.Classify(index)
	}

	return domain.SeasonalityReport{
		Granularity:      granularity,
		OverallMean:      money.Round2(overall),
		SeasonalityIndex: money.Round2(coefficientOfVariation(averages) * 100),
		Periods:          periods,
	}
}

func periodKey(granularity string, idx int) (string, string) {
	if granularity == domain.GranularityQuarter {
		key := fmt.Sprintf("Q%d", idx+1)
		return key, key
	}
	month := time.Month(idx + 1)
	return fmt.Sprintf("%02d", idx+1), month.String()
}
