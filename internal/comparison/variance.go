package comparison

import (
	"slices"

	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/money"
)

// ComputeVariance diffs current against previous. A zero previous value reads
// as 100% growth when current is positive and 0% otherwise.
func ComputeVariance(metric string, current float64, previous float64, higherIsBetter bool) domain.Variance {
	change := money.Round2(current - previous)

	var percentage float64
	if previous == 0 {
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = money.Round2((current - previous) / previous * 100)
	}

	positive := change >= 0
	if !higherIsBetter {
		positive = change <= 0
	}

	return domain.Variance{
		Metric:         metric,
		Current:        current,
		Previous:       previous,
		Change:         change,
		Percentage:     percentage,
		IsPositive:     positive,
		HigherIsBetter: higherIsBetter,
	}
}

// PeriodVariances covers every financial metric of a period record.
func PeriodVariances(current domain.PeriodPL, previous domain.PeriodPL) []domain.Variance {
	return []domain.Variance{
		ComputeVariance("revenue", current.Revenue, previous.Revenue, true),
		ComputeVariance("cogs", current.COGS, previous.COGS, false),
		ComputeVariance("gross_profit", current.GrossProfit, previous.GrossProfit, true),
		ComputeVariance("gross_margin", current.GrossMargin, previous.GrossMargin, true),
		ComputeVariance("tax", current.Tax, previous.Tax, false),
		ComputeVariance("discount", current.Discount, previous.Discount, false),
		ComputeVariance("net_profit", current.NetProfit, previous.NetProfit, true),
		ComputeVariance("net_margin", current.NetMargin, previous.NetMargin, true),
		ComputeVariance("order_count", float64(current.OrderCount), float64(previous.OrderCount), true),
		ComputeVariance("average_order_value", current.AverageOrderValue, previous.AverageOrderValue, true),
	}
}

// DepartmentVariances diffs every department present in either period. Margin
// changes are percentage-point deltas.
func DepartmentVariances(current domain.PeriodPL, previous domain.PeriodPL) []domain.DepartmentVariance {
	depts := make([]domain.Department, 0, len(current.Departments)+len(previous.Departments))
	seen := make(map[domain.Department]struct{})
	for _, record := range append(slices.Clone(current.Departments), previous.Departments...) {
		if _, ok := seen[record.Department]; ok {
			continue
		}
		seen[record.Department] = struct{}{}
		depts = append(depts, record.Department)
	}
	slices.SortStableFunc(depts, func(a, b domain.Department) int {
		return domain.DepartmentRank(a) - domain.DepartmentRank(b)
	})

	out := make([]domain.DepartmentVariance, 0, len(depts))
	for _, dept := range depts {
		cur, _ := current.Department(dept)
		prev, _ := previous.Department(dept)
		out = append(out, domain.DepartmentVariance{
			Department:        dept,
			Revenue:           ComputeVariance("revenue", cur.Revenue, prev.Revenue, true),
			COGS:              ComputeVariance("cogs", cur.COGS, prev.COGS, false),
			GrossProfit:       ComputeVariance("gross_profit", cur.GrossProfit, prev.GrossProfit, true),
			NetProfit:         ComputeVariance("net_profit", cur.NetProfit, prev.NetProfit, true),
			OrderCount:        ComputeVariance("order_count", float64(cur.OrderCount), float64(prev.OrderCount), true),
			GrossMarginChange: money.Round2(cur.GrossMargin - prev.GrossMargin),
			NetMarginChange:   money.Round2(cur.NetMargin - prev.NetMargin),
		})
	}
	return out
}
