package memory

import (
	"context"
	"fmt"
	"math"
	"time"

	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/money"
)

// SeedDays is the history length NewSeeded generates, enough for a year over
// year comparison and a full seasonality lookback.
const SeedDays = 400

// NewSeeded returns a store with demo catalogs and order history ending today.
func NewSeeded() *Store {
	return NewSeededAt(time.Now().UTC(), SeedDays)
}

type seedOutlet struct {
	dept      domain.Department
	perDay    int
	taxRate   float64
	menuIDs   []string
	flatTotal []float64
}

// NewSeededAt generates a deterministic history of days ending on anchor's
// date. The same anchor always yields the same orders. It panics if the
// built-in fixtures fail validation.
func NewSeededAt(anchor time.Time, days int) *Store {
	s := New()
	ctx := context.Background()

	for _, item := range seedInventory() {
		mustSeed(s.UpsertInventoryItem(ctx, item), "inventory item", item.ID)
	}
	for _, item := range seedMenu() {
		mustSeed(s.UpsertMenuItem(ctx, item), "menu item", item.ID)
	}

	prices := make(map[string]float64)
	for _, item := range seedMenu() {
		prices[item.ID] = item.Price
	}

	outlets := []seedOutlet{
		{dept: domain.DepartmentBar, perDay: 6, taxRate: 0.10, menuIDs: []string{"bar-mojito", "bar-lime-soda", "bar-draft-beer", "bar-masala-peanuts"}},
		{dept: domain.DepartmentRestaurant, perDay: 8, taxRate: 0.05, menuIDs: []string{"rst-butter-chicken", "rst-paneer-tikka", "rst-jeera-rice", "rst-chef-special", "rst-saffron-pulao"}},
		{dept: domain.DepartmentKitchen, perDay: 5, taxRate: 0.05, menuIDs: []string{"kit-breakfast", "kit-filter-coffee", "kit-club-sandwich", "kit-biryani-tray"}},
		{dept: domain.DepartmentHousekeeping, perDay: 2, taxRate: 0.18, menuIDs: []string{"hk-wash-fold", "hk-express-press"}},
		{dept: domain.DepartmentSpa, perDay: 3, taxRate: 0.18, flatTotal: []float64{2500, 3500, 4200}},
		{dept: domain.DepartmentFrontOffice, perDay: 4, taxRate: 0.12, flatTotal: []float64{4500, 6200, 9800}},
	}

	if days < 1 {
		days = 1
	}
	last := domain.StartOfDay(anchor)
	seq := 0
	for d := 0; d < days; d++ {
		date := last.AddDate(0, 0, d-(days-1))
		factor := weekdayFactor(date.Weekday()) * seasonalFactor(date)
		for _, outlet := range outlets {
			count := int(math.Round(float64(outlet.perDay) * factor))
			for k := 0; k < count; k++ {
				seq++
				order, lines := seedOrder(outlet, prices, date, d, k, seq)
				_, err := s.CreateOrder(ctx, order, lines)
				mustSeed(err, "order", order.ID)
			}
		}
	}
	return s
}

func mustSeed(err error, kind string, id string) {
	if err != nil {
		panic(fmt.Sprintf("memory: seed %s %s: %v", kind, id, err))
	}
}

func seedOrder(outlet seedOutlet, prices map[string]float64, date time.Time, d int, k int, seq int) (domain.Order, []domain.OrderLine) {
	id := fmt.Sprintf("%s-%06d", outlet.dept, seq)
	order := domain.Order{
		ID:            id,
		Department:    outlet.dept,
		CreatedAt:     date.Add(9*time.Hour + time.Duration(k*47)*time.Minute),
		Status:        domain.OrderStatusCompleted,
		PaymentStatus: domain.PaymentStatusPaid,
	}
	if seq%23 == 0 {
		order.Status = domain.OrderStatusCancelled
		order.PaymentStatus = domain.PaymentStatusUnpaid
	}

	var lines []domain.OrderLine
	subtotal := 0.0
	if len(outlet.flatTotal) > 0 {
		subtotal = outlet.flatTotal[(d+k)%len(outlet.flatTotal)]
	} else {
		items := 1 + (d+k)%2
		for i := 0; i < items; i++ {
			menuID := outlet.menuIDs[(d+k+i)%len(outlet.menuIDs)]
			qty := float64(1 + (seq+i)%3)
			total := money.Round2(prices[menuID] * qty)
			lines = append(lines, domain.OrderLine{
				OrderID:    id,
				MenuItemID: &menuID,
				Quantity:   qty,
				UnitPrice:  prices[menuID],
				TotalPrice: total,
			})
			subtotal += total
		}
		if seq%11 == 0 {
			// walk-in sale keyed without a menu item
			lines = append(lines, domain.OrderLine{OrderID: id, Quantity: 1, UnitPrice: 90, TotalPrice: 90})
			subtotal += 90
		}
	}

	order.Subtotal = money.Round2(subtotal)
	if seq%7 == 0 {
		order.DiscountAmount = money.Round2(order.Subtotal * 0.10)
	}
	order.TaxAmount = money.Round2((order.Subtotal - order.DiscountAmount) * outlet.taxRate)
	order.TotalAmount = money.Round2(order.Subtotal - order.DiscountAmount + order.TaxAmount)
	return order, lines
}

func weekdayFactor(wd time.Weekday) float64 {
	switch wd {
	case time.Friday, time.Saturday:
		return 1.3
	case time.Sunday:
		return 1.15
	default:
		return 1
	}
}

// seasonalFactor peaks around late December and bottoms out in late June.
func seasonalFactor(date time.Time) float64 {
	phase := 2 * math.Pi * float64(date.YearDay()+10) / 365
	return 1 + 0.25*math.Cos(phase)
}

func seedInventory() []domain.InventoryItem {
	return []domain.InventoryItem{
		{ID: "inv-white-rum", Department: domain.DepartmentBar, Name: "White Rum", Category: "spirits", Unit: "l", CostPrice: 1200, CurrentStock: 18, MinStockLevel: 5},
		{ID: "inv-lime", Department: domain.DepartmentBar, Name: "Lime", Category: "produce", Unit: "kg", CostPrice: 300, CurrentStock: 6, MinStockLevel: 2},
		{ID: "inv-mint", Department: domain.DepartmentBar, Name: "Mint Leaves", Category: "produce", Unit: "pcs", CostPrice: 2, CurrentStock: 400, MinStockLevel: 100},
		{ID: "inv-soda", Department: domain.DepartmentBar, Name: "Soda Water", Category: "mixers", Unit: "litre", CostPrice: 60, CurrentStock: 40, MinStockLevel: 10},

		{ID: "inv-rice", Department: domain.DepartmentRestaurant, Name: "Basmati Rice", Category: "grains", Unit: "kg", CostPrice: 120, CurrentStock: 50, MinStockLevel: 10},
		{ID: "inv-chicken", Department: domain.DepartmentRestaurant, Name: "Chicken", Category: "meat", Unit: "kg", CostPrice: 280, CurrentStock: 25, MinStockLevel: 8},
		{ID: "inv-butter", Department: domain.DepartmentRestaurant, Name: "Butter", Category: "dairy", Unit: "kg", CostPrice: 520, CurrentStock: 8, MinStockLevel: 2},
		{ID: "inv-paneer", Department: domain.DepartmentRestaurant, Name: "Paneer", Category: "dairy", Unit: "kg", CostPrice: 380, CurrentStock: 10, MinStockLevel: 3},
		{ID: "inv-tomato", Department: domain.DepartmentRestaurant, Name: "Tomato", Category: "produce", Unit: "kg", CostPrice: 40, CurrentStock: 30, MinStockLevel: 10},
		{ID: "inv-cream", Department: domain.DepartmentRestaurant, Name: "Fresh Cream", Category: "dairy", Unit: "l", CostPrice: 220, CurrentStock: 12, MinStockLevel: 4},

		{ID: "inv-eggs", Department: domain.DepartmentKitchen, Name: "Eggs", Category: "dairy", Unit: "pcs", CostPrice: 8, CurrentStock: 600, MinStockLevel: 120},
		{ID: "inv-bread", Department: domain.DepartmentKitchen, Name: "Bread Slice", Category: "bakery", Unit: "pcs", CostPrice: 5, CurrentStock: 300, MinStockLevel: 80},
		{ID: "inv-milk", Department: domain.DepartmentKitchen, Name: "Milk", Category: "dairy", Unit: "l", CostPrice: 70, CurrentStock: 60, MinStockLevel: 20},
		{ID: "inv-coffee", Department: domain.DepartmentKitchen, Name: "Coffee Beans", Category: "beverage", Unit: "kg", CostPrice: 1400, CurrentStock: 5, MinStockLevel: 1},
		{ID: "inv-kit-chicken", Department: domain.DepartmentKitchen, Name: "Chicken Breast", Category: "meat", Unit: "kg", CostPrice: 340, CurrentStock: 12, MinStockLevel: 4},
		{ID: "inv-kit-rice", Department: domain.DepartmentKitchen, Name: "Biryani Rice", Category: "grains", Unit: "kg", CostPrice: 140, CurrentStock: 40, MinStockLevel: 10},

		{ID: "inv-detergent", Department: domain.DepartmentHousekeeping, Name: "Laundry Detergent", Category: "chemicals", Unit: "l", CostPrice: 180, CurrentStock: 30, MinStockLevel: 10},
		{ID: "inv-starch", Department: domain.DepartmentHousekeeping, Name: "Fabric Starch", Category: "chemicals", Unit: "kg", CostPrice: 150, CurrentStock: 10, MinStockLevel: 3},
	}
}

func seedMenu() []domain.MenuItem {
	return []domain.MenuItem{
		{ID: "bar-mojito", Department: domain.DepartmentBar, Name: "Mojito", Category: "cocktails", Price: 450, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-white-rum", InventoryName: "White Rum", Quantity: 60, Unit: "ml"},
			{InventoryID: "inv-lime", InventoryName: "Lime", Quantity: 30, Unit: "g"},
			{InventoryID: "inv-mint", InventoryName: "Mint Leaves", Quantity: 6, Unit: "pcs"},
			{InventoryID: "inv-soda", InventoryName: "Soda Water", Quantity: 100, Unit: "ml"},
		}},
		{ID: "bar-lime-soda", Department: domain.DepartmentBar, Name: "Fresh Lime Soda", Category: "mocktails", Price: 120, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-lime", InventoryName: "Lime", Quantity: 40, Unit: "grams"},
			{InventoryID: "inv-soda", InventoryName: "Soda Water", Quantity: 250, Unit: "ml"},
		}},
		{ID: "bar-draft-beer", Department: domain.DepartmentBar, Name: "Draft Beer", Category: "beer", Price: 350},
		{ID: "bar-masala-peanuts", Department: domain.DepartmentBar, Name: "Masala Peanuts", Category: "snacks", Price: 180},

		{ID: "rst-butter-chicken", Department: domain.DepartmentRestaurant, Name: "Butter Chicken", Category: "mains", Price: 650, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-chicken", InventoryName: "Chicken", Quantity: 250, Unit: "g"},
			{InventoryID: "inv-butter", InventoryName: "Butter", Quantity: 30, Unit: "g"},
			{InventoryID: "inv-tomato", InventoryName: "Tomato", Quantity: 100, Unit: "g"},
			{InventoryID: "inv-cream", InventoryName: "Fresh Cream", Quantity: 50, Unit: "ml"},
		}},
		{ID: "rst-paneer-tikka", Department: domain.DepartmentRestaurant, Name: "Paneer Tikka", Category: "starters", Price: 520, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-paneer", InventoryName: "Paneer", Quantity: 200, Unit: "g"},
			{InventoryID: "inv-cream", InventoryName: "Fresh Cream", Quantity: 20, Unit: "ml"},
		}},
		{ID: "rst-jeera-rice", Department: domain.DepartmentRestaurant, Name: "Jeera Rice", Category: "rice", Price: 220, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-rice", InventoryName: "Basmati Rice", Quantity: 150, Unit: "g"},
			{InventoryID: "inv-butter", InventoryName: "Butter", Quantity: 10, Unit: "g"},
		}},
		{ID: "rst-chef-special", Department: domain.DepartmentRestaurant, Name: "Chef's Special", Category: "mains", Price: 800},
		{ID: "rst-saffron-pulao", Department: domain.DepartmentRestaurant, Name: "Saffron Pulao", Category: "rice", Price: 380, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-rice", InventoryName: "Basmati Rice", Quantity: 150, Unit: "g"},
			{InventoryID: "inv-saffron", InventoryName: "Saffron", Quantity: 0.2, Unit: "g"},
		}},

		{ID: "kit-breakfast", Department: domain.DepartmentKitchen, Name: "Continental Breakfast", Category: "breakfast", Price: 450, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-eggs", InventoryName: "Eggs", Quantity: 2, Unit: "pcs"},
			{InventoryID: "inv-bread", InventoryName: "Bread Slice", Quantity: 2, Unit: "pieces"},
			{InventoryID: "inv-milk", InventoryName: "Milk", Quantity: 200, Unit: "ml"},
		}},
		{ID: "kit-filter-coffee", Department: domain.DepartmentKitchen, Name: "Filter Coffee", Category: "beverage", Price: 150, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-coffee", InventoryName: "Coffee Beans", Quantity: 15, Unit: "g"},
			{InventoryID: "inv-milk", InventoryName: "Milk", Quantity: 120, Unit: "ml"},
		}},
		{ID: "kit-club-sandwich", Department: domain.DepartmentKitchen, Name: "Club Sandwich", Category: "room service", Price: 380, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-bread", InventoryName: "Bread Slice", Quantity: 3, Unit: "pcs"},
			{InventoryID: "inv-kit-chicken", InventoryName: "Chicken Breast", Quantity: 120, Unit: "g"},
			{InventoryID: "inv-eggs", InventoryName: "Eggs", Quantity: 1, Unit: "pcs"},
		}},
		{ID: "kit-biryani-tray", Department: domain.DepartmentKitchen, Name: "Banquet Biryani Tray", Category: "banquet", Price: 900, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-kit-rice", InventoryName: "Biryani Rice", Quantity: 2, Unit: "kg"},
			{InventoryID: "inv-kit-chicken", InventoryName: "Chicken Breast", Quantity: 1.5, Unit: "kg"},
		}},

		{ID: "hk-wash-fold", Department: domain.DepartmentHousekeeping, Name: "Wash & Fold (per bag)", Category: "laundry", Price: 300, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-detergent", InventoryName: "Laundry Detergent", Quantity: 80, Unit: "ml"},
		}},
		{ID: "hk-express-press", Department: domain.DepartmentHousekeeping, Name: "Express Press", Category: "laundry", Price: 150, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-starch", InventoryName: "Fabric Starch", Quantity: 20, Unit: "ml"},
		}},
	}
}
