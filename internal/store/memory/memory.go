package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/store"
	"hotelledger/backend/internal/xid"
)

var (
	_ store.Repository = (*Store)(nil)
	_ store.Writer     = (*Store)(nil)
)

type Store struct {
	mu           sync.RWMutex
	orders       map[string]domain.Order
	linesByOrder map[string][]domain.OrderLine
	menuItems    map[string]domain.MenuItem
	inventory    map[string]domain.InventoryItem
}

// New returns an empty store.
func New() *Store {
	return &Store{
		orders:       make(map[string]domain.Order),
		linesByOrder: make(map[string][]domain.OrderLine),
		menuItems:    make(map[string]domain.MenuItem),
		inventory:    make(map[string]domain.InventoryItem),
	}
}

func (s *Store) ListOrders(_ context.Context, departments []domain.Department, from time.Time, to time.Time) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := store.DepartmentSet(departments)
	out := make([]domain.Order, 0, 64)
	for _, order := range s.orders {
		if !inRange(order, set, from, to) {
			continue
		}
		out = append(out, order)
	}
	slices.SortFunc(out, compareOrders)
	return out, nil
}

func (s *Store) ListOrderLines(_ context.Context, departments []domain.Department, from time.Time, to time.Time) ([]domain.OrderLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := store.DepartmentSet(departments)
	orders := make([]domain.Order, 0, 64)
	for _, order := range s.orders {
		if inRange(order, set, from, to) {
			orders = append(orders, order)
		}
	}
	slices.SortFunc(orders, compareOrders)

	out := make([]domain.OrderLine, 0, len(orders)*2)
	for _, order := range orders {
		out = append(out, s.linesByOrder[order.ID]...)
	}
	return out, nil
}

func (s *Store) ListMenuItems(_ context.Context, departments []domain.Department) ([]domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := store.DepartmentSet(departments)
	out := make([]domain.MenuItem, 0, len(s.menuItems))
	for _, item := range s.menuItems {
		if set != nil {
			if _, ok := set[item.Department]; !ok {
				continue
			}
		}
		item.Ingredients = slices.Clone(item.Ingredients)
		out = append(out, item)
	}
	slices.SortFunc(out, func(a, b domain.MenuItem) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) ListInventory(_ context.Context, departments []domain.Department) ([]domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := store.DepartmentSet(departments)
	out := make([]domain.InventoryItem, 0, len(s.inventory))
	for _, item := range s.inventory {
		if set != nil {
			if _, ok := set[item.Department]; !ok {
				continue
			}
		}
		out = append(out, item)
	}
	slices.SortFunc(out, func(a, b domain.InventoryItem) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *Store) CreateOrder(_ context.Context, order domain.Order, lines []domain.OrderLine) (*domain.Order, error) {
	if err := store.ValidateOrder(order, lines); err != nil {
		return nil, err
	}
	if order.ID == "" {
		order.ID = xid.New(string(order.Department))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return nil, store.ErrInvalidInput
	}
	saved := make([]domain.OrderLine, 0, len(lines))
	for _, line := range lines {
		line.OrderID = order.ID
		saved = append(saved, line)
	}
	s.orders[order.ID] = order
	s.linesByOrder[order.ID] = saved

	created := order
	return &created, nil
}

func (s *Store) UpsertMenuItem(_ context.Context, item domain.MenuItem) error {
	if err := store.ValidateMenuItem(item); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item.Ingredients = slices.Clone(item.Ingredients)
	s.menuItems[item.ID] = item
	return nil
}

func (s *Store) UpsertInventoryItem(_ context.Context, item domain.InventoryItem) error {
	if err := store.ValidateInventoryItem(item); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory[item.ID] = item
	return nil
}

func inRange(order domain.Order, set map[domain.Department]struct{}, from time.Time, to time.Time) bool {
	if set != nil {
		if _, ok := set[order.Department]; !ok {
			return false
		}
	}
	return !order.CreatedAt.Before(from) && order.CreatedAt.Before(to)
}

func compareOrders(a, b domain.Order) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}
