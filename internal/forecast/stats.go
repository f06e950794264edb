package forecast

import "math"

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// stdDev is the population standard deviation.
func stdDev(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	m := mean(vals)
	variance := 0.0
	for _, v := range vals {
		variance += (v - m) * (v - m)
	}
	return math.Sqrt(variance / float64(len(vals)))
}

// coefficientOfVariation returns stddev/mean, 0 when the mean is not positive.
func coefficientOfVariation(vals []float64) float64 {
	m := mean(vals)
	if m <= 0 {
		return 0
	}
	return stdDev(vals) / m
}

// linearFit is an ordinary least squares fit of ys on xs.
func linearFit(xs []float64, ys []float64) (slope float64, intercept float64, rSquared float64) {
	n := float64(len(xs))
	if len(xs) != len(ys) || n == 0 {
		return 0, 0, 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumX2 += xs[i] * xs[i]
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0, sumY / n, 0
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i := range xs {
		predicted := slope*xs[i] + intercept
		ssRes += (ys[i] - predicted) * (ys[i] - predicted)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}
	if ssTot == 0 {
		return slope, intercept, 1
	}
	return slope, intercept, 1 - ssRes/ssTot
}
