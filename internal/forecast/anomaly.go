package forecast

import (
	"math"

	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/money"
)

type AnomalyOptions struct {
	Window           int
	StdDevMultiplier float64
	MinDropPct       float64
}

func DefaultAnomalyOptions() AnomalyOptions {
	return AnomalyOptions{Window: 7, StdDevMultiplier: 2, MinDropPct: 30}
}

// DetectAnomalies flags days whose revenue falls below the trailing window's
// mean minus StdDevMultiplier standard deviations, and by at least MinDropPct.
func DetectAnomalies(series []domain.DailyPoint, opts AnomalyOptions) []domain.RevenueAnomaly {
	if opts.Window < 3 {
		opts.Window = 3
	}
	if opts.StdDevMultiplier < 0.5 {
		opts.StdDevMultiplier = 0.5
	}
	if opts.MinDropPct < 0 {
		opts.MinDropPct = 0
	}

	points := sortedCopy(series)
	ys := revenues(points)
	anomalies := make([]domain.RevenueAnomaly, 0)
	for i := opts.Window; i < len(points); i++ {
		window := ys[i-opts.Window : i]
		avg := mean(window)
		if avg <= 0 {
			continue
		}
		threshold := avg - opts.StdDevMultiplier*stdDev(window)
		if ys[i] >= threshold {
			continue
		}
		dropPct := (avg - ys[i]) / avg * 100
		if math.Abs(dropPct) < opts.MinDropPct {
			continue
		}
		severity := "warning"
		if dropPct >= 60 {
			severity = "critical"
		}
		anomalies = append(anomalies, domain.RevenueAnomaly{
			Date:     points[i].Date,
			Revenue:  points[i].Revenue,
			Expected: money.Round2(avg),
			DropPct:  money.Round2(dropPct),
			Severity: severity,
		})
	}
	return anomalies
}
