package forecast

import (
	"math"

	"hotelledger/backend/internal/comparison"
	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/money"
)

const DefaultHorizonDays = 7

type Options struct {
	// RecentWindow is how many trailing points the projection base averages.
	RecentWindow int
	// StableThresholdPct is the fitted change, relative to the mean, below
	// which the trend is reported as stable.
	StableThresholdPct float64
	// MinPoints is the sample size below which confidence is low and weekday
	// bias is not applied.
	MinPoints int
	// HighConfidencePoints and the CV limits split medium from high and low.
	HighConfidencePoints int
	HighConfidenceCV     float64
	LowConfidenceCV      float64
}

func DefaultOptions() Options {
	return Options{
		RecentWindow:         7,
		StableThresholdPct:   2,
		MinPoints:            7,
		HighConfidencePoints: 30,
		HighConfidenceCV:     0.25,
		LowConfidenceCV:      0.5,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.RecentWindow < 1 {
		o.RecentWindow = def.RecentWindow
	}
	if o.StableThresholdPct <= 0 {
		o.StableThresholdPct = def.StableThresholdPct
	}
	if o.MinPoints < 1 {
		o.MinPoints = def.MinPoints
	}
	if o.HighConfidencePoints < 1 {
		o.HighConfidencePoints = def.HighConfidencePoints
	}
	if o.HighConfidenceCV <= 0 {
		o.HighConfidenceCV = def.HighConfidenceCV
	}
	if o.LowConfidenceCV <= 0 {
		o.LowConfidenceCV = def.LowConfidenceCV
	}
	return o
}

// Forecast projects horizonDays past the last observed day. The x axis is the
// calendar offset from the first point, so gaps in a sparse series stretch
// the fit instead of being collapsed.
func Forecast(series []domain.DailyPoint, horizonDays int, opts Options) domain.ForecastResult {
	opts = opts.withDefaults()
	if horizonDays < 1 {
		horizonDays = DefaultHorizonDays
	}

	result := domain.ForecastResult{
		HorizonDays: horizonDays,
		Trend:       domain.TrendStable,
		Confidence:  domain.ConfidenceLow,
		Days:        []domain.ProjectedDay{},
	}
	points := sortedCopy(series)
	n := len(points)
	result.DataPoints = n
	if n == 0 {
		return result
	}

	first := points[0].Date
	xs := make([]float64, n)
	for i, p := range points {
		xs[i] = float64(domain.CalendarDaysBetween(first, p.Date))
	}
	ys := revenues(points)
	avg := mean(ys)
	slope, _, rSquared := linearFit(xs, ys)

	result.AverageDailyRevenue = money.Round2(avg)
	result.Slope = money.Round2(slope)
	result.RSquared = money.Round2(rSquared)
	result.Trend = trendOf(slope, xs[n-1]-xs[0], avg, opts.StableThresholdPct)
	result.GrowthRate = growthRate(ys)
	result.Confidence = confidenceOf(ys, opts)

	recent := opts.RecentWindow
	if recent > n {
		recent = n
	}
	base := mean(ys[n-recent:])
	anchorX := mean(xs[n-recent:])

	var weekday map[int]float64
	if n >= opts.MinPoints {
		weekday = weekdayFactors(points)
	}

	cogsRatio := money.Div(sumCOGS(points), sumRevenue(points))
	last := points[n-1].Date
	revenue := make([]float64, 0, horizonDays)
	cogs := make([]float64, 0, horizonDays)
	for k := 1; k <= horizonDays; k++ {
		date := last.AddDate(0, 0, k)
		x := xs[n-1] + float64(k)
		value := base + slope*(x-anchorX)
		if factor, ok := weekday[int(date.Weekday())]; ok {
			value *= factor
		}
		value = money.Round2(math.Max(0, value))
		dayCOGS := money.Round2(value * cogsRatio)
		result.Days = append(result.Days, domain.ProjectedDay{
			Date:    date,
			Revenue: value,
			COGS:    dayCOGS,
			Profit:  money.Round2(value - dayCOGS),
		})
		revenue = append(revenue, value)
		cogs = append(cogs, dayCOGS)
	}
	result.ProjectedRevenue = money.Round2(money.Sum(revenue...))
	result.ProjectedCOGS = money.Round2(money.Sum(cogs...))
	result.ProjectedProfit = money.Round2(result.ProjectedRevenue - result.ProjectedCOGS)
	return result
}

func trendOf(slope float64, span float64, avg float64, thresholdPct float64) domain.Trend {
	if avg <= 0 || span <= 0 {
		return domain.TrendStable
	}
	changePct := slope * span / avg * 100
	switch {
	case math.Abs(changePct) < thresholdPct:
		return domain.TrendStable
	case changePct > 0:
		return domain.TrendUp
	default:
		return domain.TrendDown
	}
}

// growthRate averages point-over-point percentage changes using the same
// zero-base rule as period variances.
func growthRate(ys []float64) float64 {
	if len(ys) < 2 {
		return 0
	}
	changes := make([]float64, 0, len(ys)-1)
	for i := 1; i < len(ys); i++ {
		changes = append(changes, comparison.ComputeVariance("revenue", ys[i], ys[i-1], true).Percentage)
	}
	return money.Round2(mean(changes))
}

func confidenceOf(ys []float64, opts Options) domain.Confidence {
	avg := mean(ys)
	if len(ys) < opts.MinPoints || avg <= 0 {
		return domain.ConfidenceLow
	}
	cv := coefficientOfVariation(ys)
	switch {
	case cv > opts.LowConfidenceCV:
		return domain.ConfidenceLow
	case len(ys) >= opts.HighConfidencePoints && cv <= opts.HighConfidenceCV:
		return domain.ConfidenceHigh
	default:
		return domain.ConfidenceMedium
	}
}

// weekdayFactors maps weekday to its average revenue relative to the overall
// daily mean. Weekdays never observed are left out.
func weekdayFactors(points []domain.DailyPoint) map[int]float64 {
	stats := DayOfWeek(points)
	out := make(map[int]float64, len(stats))
	for _, stat := range stats {
		if stat.Observations == 0 || stat.Index <= 0 {
			continue
		}
		out[stat.DayIndex] = stat.Index / 100
	}
	return out
}

func sumRevenue(points []domain.DailyPoint) float64 {
	total := 0.0
	for _, p := range points {
		total += p.Revenue
	}
	return total
}

func sumCOGS(points []domain.DailyPoint) float64 {
	total := 0.0
	for _, p := range points {
		total += p.COGS
	}
	return total
}
