// Package analyzer inspects menu recipes for data-quality problems that would
// distort COGS or block a sale: dangling inventory references, implausible
// single-serving quantities, unit mismatches, stock shortfalls and thin margins. It never modifies its input.
package analyzer

import (
	"fmt"
	"slices"
	"strings"

	"hotelledger/backend/internal/costing"
	"hotelledger/backend/internal/domain"
	"hotelledger/backend/internal/money"
	"hotelledger/backend/internal/units"
)

type Thresholds struct {
	MaxMassGrams     float64
	MaxVolumeML      float64
	MaxCount         float64
	MinMarginPercent float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxMassGrams:     1000,
		MaxVolumeML:      1000,
		MaxCount:         20,
		MinMarginPercent: 30,
	}
}

func (t Thresholds) withDefaults() Thresholds {
	def := DefaultThresholds()
	if t.MaxMassGrams <= 0 {
		t.MaxMassGrams = def.MaxMassGrams
	}
	if t.MaxVolumeML <= 0 {
		t.MaxVolumeML = def.MaxVolumeML
	}
	if t.MaxCount <= 0 {
		t.MaxCount = def.MaxCount
	}
	if t.MinMarginPercent <= 0 {
		t.MinMarginPercent = def.MinMarginPercent
	}
	return t
}

// AnalyzeMenu returns one analysis per menu item, ordered by department then
// name. Missing recipes are reported, never estimated.
func AnalyzeMenu(menu []domain.MenuItem, inventory map[string]domain.InventoryItem, thresholds Thresholds) []domain.ItemAnalysis {
	thresholds = thresholds.withDefaults()

	out := make([]domain.ItemAnalysis, 0, len(menu))
	for _, item := range menu {
		out = append(out, AnalyzeItem(item, inventory, thresholds))
	}
	slices.SortStableFunc(out, func(a, b domain.ItemAnalysis) int {
		if ra, rb := domain.DepartmentRank(a.Department), domain.DepartmentRank(b.Department); ra != rb {
			return ra - rb
		}
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.MenuItemID, b.MenuItemID)
	})
	return out
}

func AnalyzeItem(item domain.MenuItem, inventory map[string]domain.InventoryItem, thresholds Thresholds) domain.ItemAnalysis {
	thresholds = thresholds.withDefaults()

	analysis := domain.ItemAnalysis{
		MenuItemID:  item.ID,
		Name:        item.Name,
		Department:  item.Department,
		Category:    item.Category,
		Price:       item.Price,
		HasRecipe:   item.HasRecipe(),
		Ingredients: []domain.IngredientCostLine{},
		Warnings:    []domain.AnalysisWarning{},
	}
	if !analysis.HasRecipe {
		analysis.Warnings = append(analysis.Warnings, domain.AnalysisWarning{
			Code:    domain.WarningNoRecipe,
			Message: "menu item has no recipe; COGS falls back to an assumed rate",
		})
		return analysis
	}

	recipe := costing.RecipeCost(item, inventory)
	analysis.Ingredients = recipe.Lines
	analysis.RecipeCost = recipe.Cost
	analysis.Margin = money.Round2(money.Percent(item.Price-recipe.Cost, item.Price))

	for _, line := range recipe.Lines {
		name := line.InventoryName
		if name == "" {
			name = line.InventoryID
		}
		if !line.Found {
			analysis.Warnings = append(analysis.Warnings, domain.AnalysisWarning{
				Code:        domain.WarningInventoryNotFound,
				Message:     fmt.Sprintf("inventory item %q not found", name),
				InventoryID: line.InventoryID,
			})
		}
		if !units.IsKnown(line.Unit) {
			analysis.Warnings = append(analysis.Warnings, domain.AnalysisWarning{
				Code:        domain.WarningUnknownUnit,
				Message:     fmt.Sprintf("%s uses unrecognized unit %q", name, line.Unit),
				InventoryID: line.InventoryID,
			})
		}
		if line.UnitMismatch {
			analysis.Warnings = append(analysis.Warnings, domain.AnalysisWarning{
				Code:        domain.WarningUnitMismatch,
				Message:     fmt.Sprintf("%s is measured in %s but stocked in %s", name, line.Unit, line.InventoryUnit),
				InventoryID: line.InventoryID,
			})
		}
		if line.Found && !line.UnitMismatch {
			inv := inventory[line.InventoryID]
			if check := units.CheckStock(line.Quantity, line.Unit, inv.CurrentStock, inv.Unit); !check.HasStock {
				analysis.Warnings = append(analysis.Warnings, domain.AnalysisWarning{
					Code:        domain.WarningInsufficientStock,
					Message:     fmt.Sprintf("%s: one serving needs %.3g %s, %.3g in stock", name, check.Required, inv.Unit, inv.CurrentStock),
					InventoryID: line.InventoryID,
				})
			}
		}
		if msg, ok := quantityOutlier(line, thresholds); ok {
			analysis.Warnings = append(analysis.Warnings, domain.AnalysisWarning{
				Code:        domain.WarningQuantityOutlier,
				Message:     fmt.Sprintf("%s: %s", name, msg),
				InventoryID: line.InventoryID,
			})
		}
	}

	if recipe.Cost > item.Price {
		analysis.Warnings = append(analysis.Warnings, domain.AnalysisWarning{
			Code:    domain.WarningCostExceedsPrice,
			Message: fmt.Sprintf("recipe cost %.2f exceeds price %.2f", recipe.Cost, item.Price),
		})
	}
	if analysis.Margin < thresholds.MinMarginPercent {
		analysis.Warnings = append(analysis.Warnings, domain.AnalysisWarning{
			Code:    domain.WarningLowMargin,
			Message: fmt.Sprintf("margin %.2f%% is below %.2f%%", analysis.Margin, thresholds.MinMarginPercent),
		})
	}
	return analysis
}

// quantityOutlier checks one serving's quantity against the family limit,
// after converting to grams, millilitres or pieces.
func quantityOutlier(line domain.IngredientCostLine, thresholds Thresholds) (string, bool) {
	unit := units.Normalize(line.Unit)
	switch units.FamilyOf(unit) {
	case units.Mass:
		grams, _ := units.Convert(line.Quantity, string(unit), string(units.Gram))
		if grams > thresholds.MaxMassGrams {
			return fmt.Sprintf("%.0f g exceeds single-serving limit of %.0f g", grams, thresholds.MaxMassGrams), true
		}
	case units.Volume:
		ml, _ := units.Convert(line.Quantity, string(unit), string(units.Millilitre))
		if ml > thresholds.MaxVolumeML {
			return fmt.Sprintf("%.0f ml exceeds single-serving limit of %.0f ml", ml, thresholds.MaxVolumeML), true
		}
	default:
		if line.Quantity > thresholds.MaxCount {
			return fmt.Sprintf("%.0f pcs exceeds single-serving limit of %.0f pcs", line.Quantity, thresholds.MaxCount), true
		}
	}
	return "", false
}

// Summarize counts recipes and warnings across an analysis run. Average
// margin only covers items that have a recipe.
func Summarize(items []domain.ItemAnalysis) domain.AnalysisSummary {
	summary := domain.AnalysisSummary{
		TotalItems:     len(items),
		WarningsByCode: map[string]int{},
	}
	margins := make([]float64, 0, len(items))
	for _, item := range items {
		if item.HasRecipe {
			summary.WithRecipe++
			margins = append(margins, item.Margin)
		} else {
			summary.WithoutRecipe++
		}
		if len(item.Warnings) > 0 {
			summary.WithWarnings++
		}
		for _, w := range item.Warnings {
			summary.WarningsByCode[w.Code]++
		}
	}
	summary.AverageMargin = money.Round2(money.Div(money.Sum(margins...), float64(len(margins))))
	return summary
}
