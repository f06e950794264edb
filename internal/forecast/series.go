// Package forecast turns order history into a sparse daily series and
// projects it forward with trend, weekday and seasonality signals.
package forecast

import (
	"slices"
	"time"

	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/money"
)

// CostFunc prices the orders of a single day. It may be nil.
type CostFunc func(day time.Time, orders []domain.Order) float64

// AggregateDaily groups orders by calendar day in loc. Only days with at
// least one order produce a point; the result is sorted by date.
func AggregateDaily(orders []domain.Order, loc *time.Location, cost CostFunc) []domain.DailyPoint {
	if loc == nil {
		loc = time.UTC
	}

	byDay := make(map[time.Time][]domain.Order)
	for _, order := range orders {
		day := domain.StartOfDay(order.CreatedAt.In(loc))
		byDay[day] = append(byDay[day], order)
	}

	days := make([]time.Time, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })

	points := make([]domain.DailyPoint, 0, len(days))
	for _, day := range days {
		dayOrders := byDay[day]
		revenue := make([]float64, 0, len(dayOrders))
		for _, order := range dayOrders {
			revenue = append(revenue, order.TotalAmount)
		}
		point := domain.DailyPoint{
			Date:    day,
			Revenue: money.Round2(money.Sum(revenue...)),
			Orders:  len(dayOrders),
		}
		if cost != nil {
			point.COGS = money.Round2(cost(day, dayOrders))
		}
		points = append(points, point)
	}
	return points
}

func sortedCopy(series []domain.DailyPoint) []domain.DailyPoint {
	out := slices.Clone(series)
	slices.SortStableFunc(out, func(a, b domain.DailyPoint) int { return a.Date.Compare(b.Date) })
	return out
}

func revenues(series []domain.DailyPoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Revenue
	}
	return out
}
