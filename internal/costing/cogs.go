// Package costing derives cost of goods sold from order lines and recipes.
// Nothing here returns an error: missing references fall back to an assumed
// cost rate or contribute zero.
package costing

import (
	"math"

	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/money"
	"hotelledger/backend/internal/units"
)

// DefaultFallbackRate is the share of a line's total assumed to be COGS when
// the sold item has no recipe.
const DefaultFallbackRate = 0.30

// NormalizeFallbackRate keeps rate inside [0,1], using the default otherwise.
func NormalizeFallbackRate(rate float64) float64 {
	if math.IsNaN(rate) || rate < 0 || rate > 1 {
		return DefaultFallbackRate
	}
	return rate
}

type RecipeCostResult struct {
	Cost        float64
	Lines       []domain.IngredientCostLine
	MissingRefs int
	Mismatches  int
}

// RecipeCost prices one unit of item from its ingredients. Dangling inventory
// references cost zero and are counted in MissingRefs.
func RecipeCost(item domain.MenuItem, inventory map[string]domain.InventoryItem) RecipeCostResult {
	result := RecipeCostResult{Lines: make([]domain.IngredientCostLine, 0, len(item.Ingredients))}
	for _, ing := range item.Ingredients {
		line := domain.IngredientCostLine{
			InventoryID:   ing.InventoryID,
			InventoryName: ing.InventoryName,
			Quantity:      ing.Quantity,
			Unit:          ing.Unit,
		}
		inv, ok := inventory[ing.InventoryID]
		if !ok {
			result.MissingRefs++
			result.Lines = append(result.Lines, line)
			continue
		}
		cost, mismatch := units.IngredientCost(ing.Quantity, ing.Unit, inv.CostPrice, inv.Unit)
		line.Found = true
		line.InventoryUnit = inv.Unit
		line.CostPrice = inv.CostPrice
		line.Cost = money.Round2(cost)
		line.UnitMismatch = mismatch
		if line.InventoryName == "" {
			line.InventoryName = inv.Name
		}
		if mismatch {
			result.Mismatches++
		}
		result.Cost += cost
		result.Lines = append(result.Lines, line)
	}
	result.Cost = money.Round2(result.Cost)
	return result
}

type LineCost struct {
	Cost       float64
	Fallback   bool
	Mismatches int
}

// LineCOGS costs a single order line. Lines whose menu item is missing, nil or
// has no recipe are charged fallbackRate of their total price.
func LineCOGS(line domain.OrderLine, menu map[string]domain.MenuItem, inventory map[string]domain.InventoryItem, fallbackRate float64) LineCost {
	var item domain.MenuItem
	resolved := false
	if line.MenuItemID != nil {
		item, resolved = menu[*line.MenuItemID]
	}
	if !resolved || !item.HasRecipe() {
		return LineCost{
			Cost:     fallbackRate * money.NonNegative(line.TotalPrice),
			Fallback: true,
		}
	}

	qty := money.NonNegative(line.Quantity)
	total := 0.0
	mismatches := 0
	for _, ing := range item.Ingredients {
		inv, ok := inventory[ing.InventoryID]
		if !ok {
			continue
		}
		cost, mismatch := units.IngredientCost(ing.Quantity, ing.Unit, inv.CostPrice, inv.Unit)
		if mismatch {
			mismatches++
		}
		total += cost * qty
	}
	return LineCost{Cost: total, Mismatches: mismatches}
}

// OrderCOGS sums LineCOGS over lines and rounds the total to cents.
func OrderCOGS(lines []domain.OrderLine, menu map[string]domain.MenuItem, inventory map[string]domain.InventoryItem, fallbackRate float64) float64 {
	costs := make([]float64, 0, len(lines))
	for _, line := range lines {
		costs = append(costs, LineCOGS(line, menu, inventory, fallbackRate).Cost)
	}
	return money.Round2(money.Sum(costs...))
}

// FilterLines keeps lines belonging to orders, preserving input order.
func FilterLines(lines []domain.OrderLine, orders []domain.Order) []domain.OrderLine {
	ids := make(map[string]struct{}, len(orders))
	for _, order := range orders {
		ids[order.ID] = struct{}{}
	}
	out := make([]domain.OrderLine, 0, len(lines))
	for _, line := range lines {
		if _, ok := ids[line.OrderID]; ok {
			out = append(out, line)
		}
	}
	return out
}
