package costing

import (
	"sync"

	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/money"
)

const (
	MethodRecipe      = "recipe"
	MethodFixedMargin = "fixed_margin"
)

const (
	DefaultSpaMargin         = 0.80
	DefaultFrontOfficeMargin = 1.00
)

// Context carries the shared lookup tables for a costing pass. Lines may span
// several departments and periods; strategies filter by order id.
type Context struct {
	Lines        []domain.OrderLine
	MenuItems    map[string]domain.MenuItem
	Inventory    map[string]domain.InventoryItem
	FallbackRate float64
}

// Strategy computes COGS for one department's orders.
type Strategy interface {
	Method() string
	ComputeCOGS(orders []domain.Order, cc Context) float64
}

type RecipeStrategy struct{}

func (RecipeStrategy) Method() string { return MethodRecipe }

func (RecipeStrategy) ComputeCOGS(orders []domain.Order, cc Context) float64 {
	if len(orders) == 0 {
		return 0
	}
	lines := FilterLines(cc.Lines, orders)
	return OrderCOGS(lines, cc.MenuItems, cc.Inventory, NormalizeFallbackRate(cc.FallbackRate))
}

// FixedMarginStrategy assumes COGS is (1 - Margin) of revenue.
type FixedMarginStrategy struct {
	Margin float64
}

func (FixedMarginStrategy) Method() string { return MethodFixedMargin }

func (s FixedMarginStrategy) ComputeCOGS(orders []domain.Order, _ Context) float64 {
	margin := s.Margin
	if margin < 0 {
		margin = 0
	}
	if margin > 1 {
		margin = 1
	}
	revenue := make([]float64, 0, len(orders))
	for _, order := range orders {
		revenue = append(revenue, order.TotalAmount)
	}
	return money.Round2(money.NonNegative(money.Sum(revenue...) * (1 - margin)))
}

type Registry struct {
	mu       sync.RWMutex
	byDept   map[domain.Department]Strategy
	fallback Strategy
}

// NewRegistry returns an empty registry. Departments without a registration
// resolve to fallback, or to recipe costing when fallback is nil.
func NewRegistry(fallback Strategy) *Registry {
	if fallback == nil {
		fallback = RecipeStrategy{}
	}
	return &Registry{byDept: make(map[domain.Department]Strategy), fallback: fallback}
}

func (r *Registry) Register(dept domain.Department, strategy Strategy) {
	if strategy == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byDept[dept] = strategy
}

func (r *Registry) For(dept domain.Department) Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if strategy, ok := r.byDept[dept]; ok {
		return strategy
	}
	return r.fallback
}

// DefaultRegistry wires the hotel's departments: food and beverage outlets and
// housekeeping are recipe-costed, spa and front office use fixed margins.
func DefaultRegistry(spaMargin float64, frontOfficeMargin float64) *Registry {
	registry := NewRegistry(RecipeStrategy{})
	registry.Register(domain.DepartmentBar, RecipeStrategy{})
	registry.Register(domain.DepartmentRestaurant, RecipeStrategy{})
	registry.Register(domain.DepartmentKitchen, RecipeStrategy{})
	registry.Register(domain.DepartmentHousekeeping, RecipeStrategy{})
	registry.Register(domain.DepartmentSpa, FixedMarginStrategy{Margin: spaMargin})
	registry.Register(domain.DepartmentFrontOffice, FixedMarginStrategy{Margin: frontOfficeMargin})
	return registry
}
