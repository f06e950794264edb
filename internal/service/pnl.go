package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hotelledger/backend/internal/cache"
	"hotelledger/backend/internal/comparison"
	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/pnl"
)

// MaxBatchSize bounds ProfitAndLossBatch.
const MaxBatchSize = 20

// ProfitAndLoss builds the department P&L for the requested window and, when
// a comparison mode is set, the comparison window with its variances.
func (s *Service) ProfitAndLoss(ctx context.Context, req domain.PLRequest) (domain.PLReport, error) {
	return s.profitAndLoss(ctx, req, s.reports)
}

// ProfitAndLossBatch computes several reports with a memo shared across the
// batch, so repeated requests are aggregated once.
func (s *Service) ProfitAndLossBatch(ctx context.Context, reqs []domain.PLRequest) ([]domain.PLReport, error) {
	if len(reqs) == 0 || len(reqs) > MaxBatchSize {
		return nil, fmt.Errorf("%w: batch needs 1 to %d requests", ErrInvalidRequest, MaxBatchSize)
	}

	memo := cache.NewMemo()
	reports := cache.Layered(memo, s.reports)
	out := make([]domain.PLReport, 0, len(reqs))
	for i, req := range reqs {
		report, err := s.profitAndLoss(ctx, req, reports)
		if err != nil {
			return nil, fmt.Errorf("request %d: %w", i, err)
		}
		out = append(out, report)
	}
	s.log.Debug("pnl batch computed", zap.Int("requests", len(reqs)), zap.Int("memo_hits", memo.Hits()))
	return out, nil
}

// PeriodOverPeriod compares the calendar month, quarter or year containing
// the requested date with the one before it.
func (s *Service) PeriodOverPeriod(ctx context.Context, req domain.PeriodRequest) (domain.PLReport, error) {
	if err := s.validateRequest(req); err != nil {
		return domain.PLReport{}, err
	}
	ref, err := s.parseDay(req.Date)
	if err != nil {
		return domain.PLReport{}, err
	}
	current, previous, err := comparison.PeriodOverPeriod(ref, req.Granularity)
	if err != nil {
		return domain.PLReport{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return s.ProfitAndLoss(ctx, domain.PLRequest{
		Departments:  req.Departments,
		Start:        current.Start.Format(domain.DateLayout),
		End:          current.End.Format(domain.DateLayout),
		Compare:      domain.CompareCustom,
		CompareStart: previous.Start.Format(domain.DateLayout),
		CompareEnd:   previous.End.Format(domain.DateLayout),
	})
}

func (s *Service) profitAndLoss(ctx context.Context, req domain.PLRequest, reports cache.ReportCache) (domain.PLReport, error) {
	if err := s.validateRequest(req); err != nil {
		return domain.PLReport{}, err
	}
	depts := departments(req.Departments)

	current, err := domain.ParseWindow(req.Start, req.End, s.loc)
	if err != nil {
		return domain.PLReport{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	mode := req.Compare
	var previous domain.Window
	if mode != domain.CompareNone {
		var custom *domain.Window
		if mode == domain.CompareCustom && (req.CompareStart != "" || req.CompareEnd != "") {
			w, err := domain.ParseWindow(req.CompareStart, req.CompareEnd, s.loc)
			if err != nil {
				return domain.PLReport{}, fmt.Errorf("%w: comparison window: %v", ErrInvalidRequest, err)
			}
			custom = &w
		}
		previous, err = comparison.ResolveWindow(current, mode, custom)
		if err != nil {
			return domain.PLReport{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}

	key := cache.ReportKey(depts, current, mode, previous)
	if cached, ok, err := reports.Get(ctx, key); err != nil {
		s.log.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return *cached, nil
	}

	var (
		cat       catalog
		cur, prev periodData
	)
	g, gctx := errgroup.WithContext(ctx)
	s.fetchCatalog(gctx, g, depts, &cat)
	s.fetchPeriod(gctx, g, depts, current, &cur)
	if mode != domain.CompareNone {
		s.fetchPeriod(gctx, g, depts, previous, &prev)
	}
	if err := g.Wait(); err != nil {
		return domain.PLReport{}, err
	}

	lines := mergeLineTables(cur.lines, prev.lines)
	report := domain.PLReport{
		Departments: depts,
		Mode:        mode,
		Current:     s.aggregator.AggregatePeriod(current, departmentInputs(depts, cur.orders, lines, cat)),
	}
	if mode != domain.CompareNone {
		period := s.aggregator.AggregatePeriod(previous, departmentInputs(depts, prev.orders, lines, cat))
		report.Previous = &period
		report.Variances = comparison.PeriodVariances(report.Current, period)
		report.DepartmentVariances = comparison.DepartmentVariances(report.Current, period)
	}

	if err := reports.Set(ctx, key, &report, s.ttl); err != nil {
		s.log.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
	s.log.Debug("pnl computed",
		zap.String("window", current.Label()),
		zap.String("mode", string(mode)),
		zap.Int("orders", report.Current.OrderCount),
	)
	return report, nil
}

// departmentInputs splits orders by department. Every input shares the same
// line table; costing filters it by each department's order ids.
func departmentInputs(depts []domain.Department, orders []domain.Order, lines []domain.OrderLine, cat catalog) []pnl.DepartmentInput {
	byDept := make(map[domain.Department][]domain.Order, len(depts))
	for _, order := range orders {
		byDept[order.Department] = append(byDept[order.Department], order)
	}
	inputs := make([]pnl.DepartmentInput, 0, len(depts))
	for _, dept := range depts {
		inputs = append(inputs, pnl.DepartmentInput{
			Department: dept,
			Orders:     byDept[dept],
			Lines:      lines,
			MenuItems:  cat.menu,
			Inventory:  cat.inventory,
		})
	}
	return inputs
}

// mergeLineTables joins two line fetches into one table. Overlapping windows
// return the same orders twice, so b only contributes orders a lacks.
func mergeLineTables(a []domain.OrderLine, b []domain.OrderLine) []domain.OrderLine {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]struct{}, len(a))
	for _, line := range a {
		seen[line.OrderID] = struct{}{}
	}
	out := make([]domain.OrderLine, 0, len(a)+len(b))
	out = append(out, a...)
	for _, line := range b {
		if _, dup := seen[line.OrderID]; dup {
			continue
		}
		out = append(out, line)
	}
	return out
}
