package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelledger/backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func fixtures() (map[string]domain.MenuItem, map[string]domain.InventoryItem) {
	inventory := domain.IndexInventory([]domain.InventoryItem{
		{ID: "inv-lime", Name: "Lime", Unit: "kg", CostPrice: 300},
		{ID: "inv-rum", Name: "White Rum", Unit: "l", CostPrice: 1200},
		{ID: "inv-mint", Name: "Mint", Unit: "pcs", CostPrice: 2},
	})
	menu := domain.IndexMenuItems([]domain.MenuItem{
		{ID: "menu-lime-soda", Name: "Lime Soda", Price: 100, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-lime", Quantity: 200, Unit: "g"},
		}},
		{ID: "menu-mojito", Name: "Mojito", Price: 450, Ingredients: []domain.RecipeIngredient{
			{InventoryID: "inv-rum", Quantity: 60, Unit: "ml"},
			{InventoryID: "inv-mint", Quantity: 6, Unit: "pieces"},
			{InventoryID: "inv-deleted", Quantity: 1, Unit: "pcs"},
		}},
		{ID: "menu-nachos", Name: "Nachos", Price: 50},
	})
	return menu, inventory
}

func TestLineCOGSUsesRecipe(t *testing.T) {
	menu, inventory := fixtures()
	cost := LineCOGS(domain.OrderLine{OrderID: "o1", MenuItemID: strPtr("menu-lime-soda"), Quantity: 1, TotalPrice: 100}, menu, inventory, DefaultFallbackRate)
	assert.False(t, cost.Fallback)
	assert.InDelta(t, 60.0, cost.Cost, 1e-9)
}

func TestLineCOGSMultipliesByLineQuantity(t *testing.T) {
	menu, inventory := fixtures()
	cost := LineCOGS(domain.OrderLine{OrderID: "o1", MenuItemID: strPtr("menu-mojito"), Quantity: 2, TotalPrice: 900}, menu, inventory, DefaultFallbackRate)
	// (0.06 l * 1200 + 6 * 2) * 2, the dangling ingredient adds nothing
	assert.InDelta(t, 168.0, cost.Cost, 1e-9)
}

func TestLineCOGSFallbackWithoutRecipe(t *testing.T) {
	menu, inventory := fixtures()
	lines := []domain.OrderLine{
		{OrderID: "o1", MenuItemID: strPtr("menu-nachos"), Quantity: 1, TotalPrice: 50},
		{OrderID: "o2", MenuItemID: nil, Quantity: 3, TotalPrice: 80},
		{OrderID: "o3", MenuItemID: strPtr("menu-gone"), Quantity: 1, TotalPrice: 10},
	}
	for _, line := range lines {
		cost := LineCOGS(line, menu, inventory, DefaultFallbackRate)
		assert.True(t, cost.Fallback)
		assert.Equal(t, 0.30*line.TotalPrice, cost.Cost)
	}
}

func TestOrderCOGSRoundsTotal(t *testing.T) {
	menu, inventory := fixtures()
	lines := []domain.OrderLine{
		{OrderID: "o1", MenuItemID: strPtr("menu-lime-soda"), Quantity: 1, TotalPrice: 100},
		{OrderID: "o2", MenuItemID: strPtr("menu-nachos"), Quantity: 1, TotalPrice: 50},
		{OrderID: "o3", MenuItemID: nil, Quantity: 1, TotalPrice: 0.35},
	}
	// 60 + 15 + 0.105
	assert.Equal(t, 75.11, OrderCOGS(lines, menu, inventory, DefaultFallbackRate))
}

func TestOrderCOGSHonoursConfiguredFallback(t *testing.T) {
	menu, inventory := fixtures()
	lines := []domain.OrderLine{{OrderID: "o1", MenuItemID: strPtr("menu-nachos"), Quantity: 1, TotalPrice: 50}}
	assert.Equal(t, 20.0, OrderCOGS(lines, menu, inventory, 0.40))
	assert.Equal(t, 0.0, OrderCOGS(nil, menu, inventory, 0.40))
}

func TestNormalizeFallbackRate(t *testing.T) {
	assert.Equal(t, DefaultFallbackRate, NormalizeFallbackRate(-0.1))
	assert.Equal(t, DefaultFallbackRate, NormalizeFallbackRate(1.5))
	assert.Equal(t, 0.0, NormalizeFallbackRate(0))
	assert.Equal(t, 0.25, NormalizeFallbackRate(0.25))
}

func TestRecipeCostReportsMissingRefs(t *testing.T) {
	menu, inventory := fixtures()
	result := RecipeCost(menu["menu-mojito"], inventory)
	require.Len(t, result.Lines, 3)
	assert.Equal(t, 1, result.MissingRefs)
	assert.Equal(t, 84.0, result.Cost)
	assert.False(t, result.Lines[2].Found)
	assert.Equal(t, "White Rum", result.Lines[0].InventoryName)
}

func TestRecipeStrategyFiltersByOrderIDs(t *testing.T) {
	menu, inventory := fixtures()
	cc := Context{
		Lines: []domain.OrderLine{
			{OrderID: "bar-1", MenuItemID: strPtr("menu-lime-soda"), Quantity: 1, TotalPrice: 100},
			{OrderID: "bar-2", MenuItemID: strPtr("menu-nachos"), Quantity: 1, TotalPrice: 50},
			{OrderID: "other", MenuItemID: strPtr("menu-lime-soda"), Quantity: 10, TotalPrice: 1000},
		},
		MenuItems:    menu,
		Inventory:    inventory,
		FallbackRate: DefaultFallbackRate,
	}
	orders := []domain.Order{{ID: "bar-1", TotalAmount: 100}, {ID: "bar-2", TotalAmount: 50}}
	assert.Equal(t, 75.0, RecipeStrategy{}.ComputeCOGS(orders, cc))
	assert.Equal(t, 0.0, RecipeStrategy{}.ComputeCOGS(nil, cc))
}

func TestFixedMarginStrategy(t *testing.T) {
	orders := []domain.Order{{ID: "spa-1", TotalAmount: 150}, {ID: "spa-2", TotalAmount: 250}}
	assert.Equal(t, 80.0, FixedMarginStrategy{Margin: 0.80}.ComputeCOGS(orders, Context{}))
	assert.Equal(t, 0.0, FixedMarginStrategy{Margin: 1}.ComputeCOGS(orders, Context{}))
	assert.Equal(t, 400.0, FixedMarginStrategy{Margin: -2}.ComputeCOGS(orders, Context{}))
}

func TestDefaultRegistry(t *testing.T) {
	registry := DefaultRegistry(DefaultSpaMargin, DefaultFrontOfficeMargin)
	assert.Equal(t, MethodRecipe, registry.For(domain.DepartmentBar).Method())
	assert.Equal(t, MethodFixedMargin, registry.For(domain.DepartmentSpa).Method())
	assert.Equal(t, MethodFixedMargin, registry.For(domain.DepartmentFrontOffice).Method())
	assert.Equal(t, MethodRecipe, registry.For(domain.Department("laundry")).Method())

	registry.Register(domain.Department("laundry"), FixedMarginStrategy{Margin: 0.5})
	assert.Equal(t, MethodFixedMargin, registry.For(domain.Department("laundry")).Method())
}
