package store

import (
	"context"
	"errors"
	"time"

	"hotelledger/backend/internal/domain"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

// Repository is the read side consumed by reporting. An empty department
// slice means every department. Time ranges are half-open: [from, to).
type Repository interface {
	ListOrders(ctx context.Context, departments []domain.Department, from time.Time, to time.Time) ([]domain.Order, error)
	ListOrderLines(ctx context.Context, departments []domain.Department, from time.Time, to time.Time) ([]domain.OrderLine, error)
	ListMenuItems(ctx context.Context, departments []domain.Department) ([]domain.MenuItem, error)
	ListInventory(ctx context.Context, departments []domain.Department) ([]domain.InventoryItem, error)
}

// Writer is the catalog and order write side used by seeding and imports.
type Writer interface {
	CreateOrder(ctx context.Context, order domain.Order, lines []domain.OrderLine) (*domain.Order, error)
	UpsertMenuItem(ctx context.Context, item domain.MenuItem) error
	UpsertInventoryItem(ctx context.Context, item domain.InventoryItem) error
}

// ValidateOrder rejects structurally invalid orders before they are written.
func ValidateOrder(order domain.Order, lines []domain.OrderLine) error {
	if order.Department == "" || order.CreatedAt.IsZero() {
		return ErrInvalidInput
	}
	if order.TotalAmount < 0 || order.TaxAmount < 0 || order.DiscountAmount < 0 || order.Subtotal < 0 {
		return ErrInvalidInput
	}
	for _, line := range lines {
		if line.Quantity < 0 || line.TotalPrice < 0 || line.UnitPrice < 0 {
			return ErrInvalidInput
		}
	}
	return nil
}

func ValidateMenuItem(item domain.MenuItem) error {
	if item.ID == "" || item.Name == "" || item.Department == "" || item.Price < 0 {
		return ErrInvalidInput
	}
	for _, ing := range item.Ingredients {
		if ing.Quantity <= 0 {
			return ErrInvalidInput
		}
	}
	return nil
}

func ValidateInventoryItem(item domain.InventoryItem) error {
	if item.ID == "" || item.Name == "" || item.Department == "" || item.CostPrice < 0 {
		return ErrInvalidInput
	}
	return nil
}

// DepartmentSet turns a department filter into a lookup. Nil means all.
func DepartmentSet(departments []domain.Department) map[domain.Department]struct{} {
	if len(departments) == 0 {
		return nil
	}
	set := make(map[domain.Department]struct{}, len(departments))
	for _, d := range departments {
		set[d] = struct{}{}
	}
	return set
}
