package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hotelledger/backend/internal/comparison"
	"hotelledger/backend/internal/costing"
	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/forecast"
)

const (
	DefaultLookbackDays   = 90
	DefaultLookbackMonths = 12
)

// Forecast projects revenue and COGS past the end of a lookback window. Daily
// COGS is priced by each department's costing strategy.
func (s *Service) Forecast(ctx context.Context, req domain.ForecastRequest) (domain.ForecastReport, error) {
	if err := s.validateRequest(req); err != nil {
		return domain.ForecastReport{}, err
	}
	depts := departments(req.Departments)
	end, err := s.parseDay(req.End)
	if err != nil {
		return domain.ForecastReport{}, err
	}
	lookback := req.LookbackDays
	if lookback == 0 {
		lookback = DefaultLookbackDays
	}
	horizon := req.HorizonDays
	if horizon == 0 {
		horizon = forecast.DefaultHorizonDays
	}
	history := domain.NewWindow(end.AddDate(0, 0, -(lookback - 1)), end)

	var (
		cat  catalog
		data periodData
	)
	g, gctx := errgroup.WithContext(ctx)
	s.fetchCatalog(gctx, g, depts, &cat)
	s.fetchPeriod(gctx, g, depts, history, &data)
	if err := g.Wait(); err != nil {
		return domain.ForecastReport{}, err
	}

	series := forecast.AggregateDaily(data.orders, s.loc, s.dailyCost(data.lines, cat))
	report := domain.ForecastReport{
		Departments: depts,
		History:     history,
		Series:      series,
		Forecast:    forecast.Forecast(series, horizon, forecast.DefaultOptions()),
		DayOfWeek:   forecast.DayOfWeek(series),
		Anomalies:   forecast.DetectAnomalies(series, forecast.DefaultAnomalyOptions()),
	}
	if report.Series == nil {
		report.Series = []domain.DailyPoint{}
	}
	s.log.Debug("forecast computed",
		zap.String("history", history.Label()),
		zap.Int("points", len(series)),
		zap.String("trend", string(report.Forecast.Trend)),
	)
	return report, nil
}

// Seasonality classifies months or quarters of the lookback by average daily
// revenue.
func (s *Service) Seasonality(ctx context.Context, req domain.SeasonalityRequest) (domain.SeasonalityReport, error) {
	if err := s.validateRequest(req); err != nil {
		return domain.SeasonalityReport{}, err
	}
	depts := departments(req.Departments)
	end, err := s.parseDay(req.End)
	if err != nil {
		return domain.SeasonalityReport{}, err
	}
	months := req.LookbackMonths
	if months == 0 {
		months = DefaultLookbackMonths
	}
	granularity := req.Granularity
	if granularity == "" {
		granularity = domain.GranularityMonth
	}
	window := domain.NewWindow(comparison.ShiftMonths(end, -months).AddDate(0, 0, 1), end)

	from, to := s.bounds(window)
	orders, err := s.repo.ListOrders(ctx, depts, from, to)
	if err != nil {
		return domain.SeasonalityReport{}, fmt.Errorf("list orders %s: %w", window.Label(), err)
	}

	series := forecast.AggregateDaily(s.reportable(orders), s.loc, nil)
	report := forecast.Seasonality(series, granularity, forecast.DefaultBands())
	report.Window = window
	return report, nil
}

// dailyCost prices one day's orders department by department.
func (s *Service) dailyCost(lines []domain.OrderLine, cat catalog) forecast.CostFunc {
	linesByOrder := make(map[string][]domain.OrderLine, len(lines))
	for _, line := range lines {
		linesByOrder[line.OrderID] = append(linesByOrder[line.OrderID], line)
	}
	return func(_ time.Time, orders []domain.Order) float64 {
		byDept := make(map[domain.Department][]domain.Order)
		for _, order := range orders {
			byDept[order.Department] = append(byDept[order.Department], order)
		}
		total := 0.0
		for _, dept := range departments(keys(byDept)) {
			deptOrders := byDept[dept]
			dayLines := make([]domain.OrderLine, 0, len(deptOrders)*2)
			for _, order := range deptOrders {
				dayLines = append(dayLines, linesByOrder[order.ID]...)
			}
			total += s.registry.For(dept).ComputeCOGS(deptOrders, costing.Context{
				Lines:        dayLines,
				MenuItems:    cat.menu,
				Inventory:    cat.inventory,
				FallbackRate: s.fallbackRate,
			})
		}
		return total
	}
}

func keys[K comparable, V any](m map[K]V) []K {
	out := make([]K, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
