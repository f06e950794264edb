// Package service wires the data-fetch boundary to the reporting engines.
// Inputs for one computation are fetched concurrently and joined before any
// engine runs.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hotelledger/backend/internal/analyzer"
	"hotelledger/backend/internal/cache"
	"hotelledger/backend/internal/costing"
	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/pnl"
	"hotelledger/backend/internal/store"
)

var ErrInvalidRequest = errors.New("invalid request")

type Options struct {
	FallbackRate     float64
	Registry         *costing.Registry
	Thresholds       analyzer.Thresholds
	Location         *time.Location
	ExcludedStatuses []string
	CacheTTL         time.Duration
	// Now defaults to time.Now and anchors requests without an end date.
	Now func() time.Time
}

type Service struct {
	repo         store.Repository
	reports      cache.ReportCache
	registry     *costing.Registry
	aggregator   *pnl.Aggregator
	fallbackRate float64
	thresholds   analyzer.Thresholds
	loc          *time.Location
	excluded     map[string]struct{}
	ttl          time.Duration
	now          func() time.Time
	validate     *validator.Validate
	log          *zap.Logger
}

func New(repo store.Repository, reports cache.ReportCache, log *zap.Logger, opts Options) *Service {
	if reports == nil {
		reports = cache.NoopReportCache{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	registry := opts.Registry
	if registry == nil {
		registry = costing.DefaultRegistry(costing.DefaultSpaMargin, costing.DefaultFrontOfficeMargin)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	statuses := opts.ExcludedStatuses
	if statuses == nil {
		statuses = []string{domain.OrderStatusCancelled}
	}
	excluded := make(map[string]struct{}, len(statuses))
	for _, status := range statuses {
		excluded[strings.ToLower(strings.TrimSpace(status))] = struct{}{}
	}
	fallbackRate := costing.NormalizeFallbackRate(opts.FallbackRate)
	if opts.FallbackRate == 0 {
		fallbackRate = costing.DefaultFallbackRate
	}

	return &Service{
		repo:         repo,
		reports:      reports,
		registry:     registry,
		aggregator:   pnl.NewAggregator(registry, fallbackRate),
		fallbackRate: fallbackRate,
		thresholds:   opts.Thresholds,
		loc:          loc,
		excluded:     excluded,
		ttl:          opts.CacheTTL,
		now:          now,
		validate:     validator.New(),
		log:          log.Named("service"),
	}
}

// catalog is the window-independent part of a fetch.
type catalog struct {
	menu      map[string]domain.MenuItem
	inventory map[string]domain.InventoryItem
}

// periodData is one window's orders with their lines.
type periodData struct {
	orders []domain.Order
	lines  []domain.OrderLine
}

func (s *Service) validateRequest(req any) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	details := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, fmt.Sprintf("%s=%s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(details, ", "))
}

// departments dedupes and orders the requested departments. Empty means all.
func departments(requested []domain.Department) []domain.Department {
	if len(requested) == 0 {
		return domain.AllDepartments()
	}
	out := slices.Clone(requested)
	slices.SortFunc(out, func(a, b domain.Department) int {
		if ra, rb := domain.DepartmentRank(a), domain.DepartmentRank(b); ra != rb {
			return ra - rb
		}
		return strings.Compare(string(a), string(b))
	})
	return slices.Compact(out)
}

// fetchCatalog loads the departments' menu items and all inventory concurrently.
func (s *Service) fetchCatalog(ctx context.Context, g *errgroup.Group, depts []domain.Department, out *catalog) {
	g.Go(func() error {
		items, err := s.repo.ListMenuItems(ctx, depts)
		if err != nil {
			return fmt.Errorf("list menu items: %w", err)
		}
		out.menu = domain.IndexMenuItems(items)
		return nil
	})
	g.Go(func() error {
		// recipes may draw on any department's stock
		items, err := s.repo.ListInventory(ctx, nil)
		if err != nil {
			return fmt.Errorf("list inventory: %w", err)
		}
		out.inventory = domain.IndexInventory(items)
		return nil
	})
}

// fetchPeriod loads orders and their lines for window concurrently.
func (s *Service) fetchPeriod(ctx context.Context, g *errgroup.Group, depts []domain.Department, window domain.Window, out *periodData) {
	from, to := s.bounds(window)
	g.Go(func() error {
		orders, err := s.repo.ListOrders(ctx, depts, from, to)
		if err != nil {
			return fmt.Errorf("list orders %s: %w", window.Label(), err)
		}
		out.orders = s.reportable(orders)
		return nil
	})
	g.Go(func() error {
		lines, err := s.repo.ListOrderLines(ctx, depts, from, to)
		if err != nil {
			return fmt.Errorf("list order lines %s: %w", window.Label(), err)
		}
		out.lines = lines
		return nil
	})
}

// bounds converts a calendar window into instants in the report zone.
func (s *Service) bounds(window domain.Window) (time.Time, time.Time) {
	start, end := window.Bounds()
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, s.loc)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, s.loc)
	return from, to
}

// reportable drops orders whose status never counts as revenue.
func (s *Service) reportable(orders []domain.Order) []domain.Order {
	out := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if _, skip := s.excluded[strings.ToLower(order.Status)]; skip {
			continue
		}
		out = append(out, order)
	}
	return out
}

// today is the current calendar day in the report zone.
func (s *Service) today() time.Time {
	return domain.StartOfDay(s.now().In(s.loc))
}

func (s *Service) parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return s.today(), nil
	}
	day, err := time.ParseInLocation(domain.DateLayout, raw, s.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return day, nil
}
