// Package pnl builds department and period profit and loss records from raw
// orders. Records are rebuilt on every call and never mutated afterwards.
package pnl

import (
	"slices"
	"strings"

	"hotelledger/backend/internal/costing"
	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/money"
)

type DepartmentInput struct {
	Department domain.Department
	Orders     []domain.Order
	Lines      []domain.OrderLine
	MenuItems  map[string]domain.MenuItem
	Inventory  map[string]domain.InventoryItem
}

type Aggregator struct {
	registry     *costing.Registry
	fallbackRate float64
}

func NewAggregator(registry *costing.Registry, fallbackRate float64) *Aggregator {
	if registry == nil {
		registry = costing.DefaultRegistry(costing.DefaultSpaMargin, costing.DefaultFrontOfficeMargin)
	}
	return &Aggregator{
		registry:     registry,
		fallbackRate: costing.NormalizeFallbackRate(fallbackRate),
	}
}

func (a *Aggregator) AggregateDepartment(in DepartmentInput) domain.DepartmentPL {
	strategy := a.registry.For(in.Department)

	revenue := make([]float64, 0, len(in.Orders))
	tax := make([]float64, 0, len(in.Orders))
	discount := make([]float64, 0, len(in.Orders))
	for _, order := range in.Orders {
		revenue = append(revenue, order.TotalAmount)
		tax = append(tax, order.TaxAmount)
		discount = append(discount, order.DiscountAmount)
	}

	cogs := strategy.ComputeCOGS(in.Orders, costing.Context{
		Lines:        in.Lines,
		MenuItems:    in.MenuItems,
		Inventory:    in.Inventory,
		FallbackRate: a.fallbackRate,
	})

	record := domain.DepartmentPL{
		Department:    in.Department,
		CostingMethod: strategy.Method(),
		Revenue:       money.Round2(money.Sum(revenue...)),
		COGS:          money.Round2(cogs),
		Tax:           money.Round2(money.Sum(tax...)),
		Discount:      money.Round2(money.Sum(discount...)),
		OrderCount:    len(in.Orders),
	}
	finishDepartment(&record)
	return record
}

// AggregatePeriod aggregates each input and totals the department records.
// Inputs for the same department are merged before aggregation.
func (a *Aggregator) AggregatePeriod(window domain.Window, inputs []DepartmentInput) domain.PeriodPL {
	merged := mergeInputs(inputs)
	departments := make([]domain.DepartmentPL, 0, len(merged))
	for _, in := range merged {
		departments = append(departments, a.AggregateDepartment(in))
	}
	return Total(window, departments)
}

// Total sums department records into a period record. Margins and average
// order value are recomputed from the totals, not averaged.
func Total(window domain.Window, departments []domain.DepartmentPL) domain.PeriodPL {
	sorted := slices.Clone(departments)
	slices.SortStableFunc(sorted, func(x, y domain.DepartmentPL) int {
		if rx, ry := domain.DepartmentRank(x.Department), domain.DepartmentRank(y.Department); rx != ry {
			return rx - ry
		}
		return strings.Compare(string(x.Department), string(y.Department))
	})

	period := domain.PeriodPL{
		Label:       window.Label(),
		Window:      window,
		Departments: sorted,
	}
	revenue := make([]float64, 0, len(sorted))
	cogs := make([]float64, 0, len(sorted))
	tax := make([]float64, 0, len(sorted))
	discount := make([]float64, 0, len(sorted))
	for _, record := range sorted {
		revenue = append(revenue, record.Revenue)
		cogs = append(cogs, record.COGS)
		tax = append(tax, record.Tax)
		discount = append(discount, record.Discount)
		period.OrderCount += record.OrderCount
	}
	period.Revenue = money.Round2(money.Sum(revenue...))
	period.COGS = money.Round2(money.Sum(cogs...))
	period.Tax = money.Round2(money.Sum(tax...))
	period.Discount = money.Round2(money.Sum(discount...))
	period.GrossProfit = money.Round2(period.Revenue - period.COGS)
	period.GrossMargin = money.Round2(money.Percent(period.GrossProfit, period.Revenue))
	// Discounts are reported but not deducted from net profit.
	period.NetProfit = money.Round2(period.GrossProfit - period.Tax)
	period.NetMargin = money.Round2(money.Percent(period.NetProfit, period.Revenue))
	period.AverageOrderValue = money.Round2(money.Div(period.Revenue, float64(period.OrderCount)))
	if period.Departments == nil {
		period.Departments = []domain.DepartmentPL{}
	}
	return period
}

func finishDepartment(record *domain.DepartmentPL) {
	record.GrossProfit = money.Round2(record.Revenue - record.COGS)
	record.GrossMargin = money.Round2(money.Percent(record.GrossProfit, record.Revenue))
	record.NetProfit = money.Round2(record.GrossProfit - record.Tax)
	record.NetMargin = money.Round2(money.Percent(record.NetProfit, record.Revenue))
	record.AverageOrderValue = money.Round2(money.Div(record.Revenue, float64(record.OrderCount)))
}

func mergeInputs(inputs []DepartmentInput) []DepartmentInput {
	order := make([]domain.Department, 0, len(inputs))
	byDept := make(map[domain.Department]*DepartmentInput, len(inputs))
	for _, in := range inputs {
		existing, ok := byDept[in.Department]
		if !ok {
			copied := in
			byDept[in.Department] = &copied
			order = append(order, in.Department)
			continue
		}
		existing.Orders = append(slices.Clip(existing.Orders), in.Orders...)
		existing.Lines = append(slices.Clip(existing.Lines), in.Lines...)
		existing.MenuItems = mergeMaps(existing.MenuItems, in.MenuItems)
		existing.Inventory = mergeMaps(existing.Inventory, in.Inventory)
	}
	out := make([]DepartmentInput, 0, len(order))
	for _, dept := range order {
		out = append(out, *byDept[dept])
	}
	return out
}

func mergeMaps[V any](a map[string]V, b map[string]V) map[string]V {
	out := make(map[string]V, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
