package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelledger/backend/internal/domain"
)

func inventory() map[string]domain.InventoryItem {
	return domain.IndexInventory([]domain.InventoryItem{
		{ID: "inv-flour", Name: "Flour", Unit: "kg", CostPrice: 60, CurrentStock: 50},
		{ID: "inv-milk", Name: "Milk", Unit: "l", CostPrice: 70, CurrentStock: 20},
		{ID: "inv-egg", Name: "Egg", Unit: "pcs", CostPrice: 8, CurrentStock: 120},
		{ID: "inv-saffron", Name: "Saffron", Unit: "g", CostPrice: 400, CurrentStock: 50},
		{ID: "inv-vanilla", Name: "Vanilla Pod", Unit: "pcs", CostPrice: 90, CurrentStock: 1},
	})
}

func TestAnalyzeItemHealthyRecipe(t *testing.T) {
	item := domain.MenuItem{ID: "pancake", Name: "Pancake", Price: 180, Ingredients: []domain.RecipeIngredient{
		{InventoryID: "inv-flour", Quantity: 150, Unit: "g"},
		{InventoryID: "inv-milk", Quantity: 200, Unit: "ml"},
		{InventoryID: "inv-egg", Quantity: 2, Unit: "pcs"},
	}}
	analysis := AnalyzeItem(item, inventory(), DefaultThresholds())

	assert.True(t, analysis.HasRecipe)
	assert.Equal(t, 39.0, analysis.RecipeCost)
	assert.InDelta(t, 78.33, analysis.Margin, 0.001)
	assert.Empty(t, analysis.Warnings)
	require.Len(t, analysis.Ingredients, 3)
	assert.Equal(t, "Flour", analysis.Ingredients[0].InventoryName)
}

func TestAnalyzeItemNoRecipe(t *testing.T) {
	analysis := AnalyzeItem(domain.MenuItem{ID: "tea", Name: "Tea", Price: 40}, inventory(), DefaultThresholds())
	assert.False(t, analysis.HasRecipe)
	assert.Zero(t, analysis.RecipeCost)
	assert.True(t, analysis.HasWarning(domain.WarningNoRecipe))
	assert.Len(t, analysis.Warnings, 1)
}

func TestAnalyzeItemFlagsDataProblems(t *testing.T) {
	item := domain.MenuItem{ID: "bake", Name: "Batch Bake", Price: 100, Ingredients: []domain.RecipeIngredient{
		{InventoryID: "inv-flour", Quantity: 2, Unit: "kg"},
		{InventoryID: "inv-milk", Quantity: 1500, Unit: "ml"},
		{InventoryID: "inv-egg", Quantity: 24, Unit: "pieces"},
		{InventoryID: "inv-ghost", InventoryName: "Vanilla", Quantity: 5, Unit: "ml"},
		{InventoryID: "inv-saffron", Quantity: 1, Unit: "pinch"},
	}}
	analysis := AnalyzeItem(item, inventory(), DefaultThresholds())

	assert.True(t, analysis.HasWarning(domain.WarningInventoryNotFound))
	assert.True(t, analysis.HasWarning(domain.WarningQuantityOutlier))
	assert.True(t, analysis.HasWarning(domain.WarningUnknownUnit))
	assert.True(t, analysis.HasWarning(domain.WarningUnitMismatch))
	assert.True(t, analysis.HasWarning(domain.WarningCostExceedsPrice))
	assert.True(t, analysis.HasWarning(domain.WarningLowMargin))

	outliers := 0
	for _, w := range analysis.Warnings {
		if w.Code == domain.WarningQuantityOutlier {
			outliers++
		}
	}
	assert.Equal(t, 3, outliers)
}

func TestAnalyzeItemLowMarginThresholdIsConfigurable(t *testing.T) {
	item := domain.MenuItem{ID: "omelette", Name: "Omelette", Price: 50, Ingredients: []domain.RecipeIngredient{
		{InventoryID: "inv-egg", Quantity: 4, Unit: "pcs"},
	}}
	// cost 32, margin 36%
	assert.False(t, AnalyzeItem(item, inventory(), DefaultThresholds()).HasWarning(domain.WarningLowMargin))

	strict := DefaultThresholds()
	strict.MinMarginPercent = 40
	assert.True(t, AnalyzeItem(item, inventory(), strict).HasWarning(domain.WarningLowMargin))
}

func TestZeroThresholdsUseDefaultMargin(t *testing.T) {
	item := domain.MenuItem{ID: "custard", Name: "Custard", Price: 10, Ingredients: []domain.RecipeIngredient{
		{InventoryID: "inv-egg", Quantity: 1, Unit: "pcs"},
	}}
	// cost 8, margin 20%
	analysis := AnalyzeItem(item, inventory(), Thresholds{})
	assert.True(t, analysis.HasWarning(domain.WarningLowMargin))
	assert.Contains(t, analysis.Warnings[len(analysis.Warnings)-1].Message, "30.00%")
}

func TestAnalyzeItemFlagsStockShortfall(t *testing.T) {
	item := domain.MenuItem{ID: "souffle", Name: "Vanilla Souffle", Price: 900, Ingredients: []domain.RecipeIngredient{
		{InventoryID: "inv-vanilla", Quantity: 2, Unit: "pcs"},
		{InventoryID: "inv-milk", Quantity: 250, Unit: "ml"},
	}}
	analysis := AnalyzeItem(item, inventory(), DefaultThresholds())
	require.Len(t, analysis.Warnings, 1)
	assert.Equal(t, domain.WarningInsufficientStock, analysis.Warnings[0].Code)
	assert.Equal(t, "inv-vanilla", analysis.Warnings[0].InventoryID)
}

func TestAnalyzeItemSkipsStockCheckOnUnitMismatch(t *testing.T) {
	item := domain.MenuItem{ID: "glaze", Name: "Glaze", Price: 500, Ingredients: []domain.RecipeIngredient{
		{InventoryID: "inv-vanilla", Quantity: 5, Unit: "ml"},
	}}
	analysis := AnalyzeItem(item, inventory(), DefaultThresholds())
	assert.True(t, analysis.HasWarning(domain.WarningUnitMismatch))
	assert.False(t, analysis.HasWarning(domain.WarningInsufficientStock))
}

func TestAnalyzeItemFlagsBlankUnit(t *testing.T) {
	item := domain.MenuItem{ID: "fried-egg", Name: "Fried Egg", Price: 60, Ingredients: []domain.RecipeIngredient{
		{InventoryID: "inv-egg", Quantity: 1, Unit: ""},
	}}
	analysis := AnalyzeItem(item, inventory(), DefaultThresholds())
	assert.True(t, analysis.HasWarning(domain.WarningUnknownUnit))
	assert.Equal(t, 8.0, analysis.RecipeCost)
}

func TestAnalyzeItemZeroPriceHasNoNaN(t *testing.T) {
	item := domain.MenuItem{ID: "staff-meal", Name: "Staff Meal", Price: 0, Ingredients: []domain.RecipeIngredient{
		{InventoryID: "inv-egg", Quantity: 1, Unit: "pcs"},
	}}
	analysis := AnalyzeItem(item, inventory(), DefaultThresholds())
	assert.Zero(t, analysis.Margin)
	assert.True(t, analysis.HasWarning(domain.WarningCostExceedsPrice))
}

func TestAnalyzeMenuOrdersAndSummarizes(t *testing.T) {
	menu := []domain.MenuItem{
		{ID: "spa-oil", Department: domain.DepartmentSpa, Name: "Massage Oil", Price: 10},
		{ID: "b", Department: domain.DepartmentBar, Name: "mojito", Price: 300, Ingredients: []domain.RecipeIngredient{{InventoryID: "inv-egg", Quantity: 1, Unit: "pcs"}}},
		{ID: "a", Department: domain.DepartmentBar, Name: "Martini", Price: 10, Ingredients: []domain.RecipeIngredient{{InventoryID: "inv-egg", Quantity: 1, Unit: "pcs"}}},
	}
	items := AnalyzeMenu(menu, inventory(), Thresholds{})
	require.Len(t, items, 3)
	assert.Equal(t, "Martini", items[0].Name)
	assert.Equal(t, "mojito", items[1].Name)
	assert.Equal(t, domain.DepartmentSpa, items[2].Department)

	summary := Summarize(items)
	assert.Equal(t, 3, summary.TotalItems)
	assert.Equal(t, 2, summary.WithRecipe)
	assert.Equal(t, 1, summary.WithoutRecipe)
	assert.Equal(t, 2, summary.WithWarnings)
	assert.Equal(t, 1, summary.WarningsByCode[domain.WarningNoRecipe])
	assert.Equal(t, 1, summary.WarningsByCode[domain.WarningLowMargin])
	// (97.33 + 20) / 2
	assert.InDelta(t, 58.67, summary.AverageMargin, 0.01)
}
