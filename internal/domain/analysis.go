package domain

const (
	WarningNoRecipe          = "no_recipe"
	WarningInventoryNotFound = "inventory_not_found"
	WarningQuantityOutlier   = "quantity_outlier"
	WarningUnitMismatch      = "unit_mismatch"
	WarningUnknownUnit       = "unknown_unit"
	WarningLowMargin         = "low_margin"
	WarningCostExceedsPrice  = "cost_exceeds_price"
	WarningInsufficientStock = "insufficient_stock"
)

type IngredientCostLine struct {
	InventoryID   string  `json:"inventory_id"`
	InventoryName string  `json:"inventory_name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	InventoryUnit string  `json:"inventory_unit,omitempty"`
	CostPrice     float64 `json:"cost_price"`
	Cost          float64 `json:"cost"`
	Found         bool    `json:"found"`
	UnitMismatch  bool    `json:"unit_mismatch"`
}

type AnalysisWarning struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	InventoryID string `json:"inventory_id,omitempty"`
}

type ItemAnalysis struct {
	MenuItemID  string               `json:"menu_item_id"`
	Name        string               `json:"name"`
	Department  Department           `json:"department"`
	Category    string               `json:"category"`
	Price       float64              `json:"price"`
	HasRecipe   bool                 `json:"has_recipe"`
	RecipeCost  float64              `json:"recipe_cost"`
	Margin      float64              `json:"margin"`
	Ingredients []IngredientCostLine `json:"ingredients"`
	Warnings    []AnalysisWarning    `json:"warnings"`
}

func (a ItemAnalysis) HasWarning(code string) bool {
	for _, w := range a.Warnings {
		if w.Code == code {
			return true
		}
	}
	return false
}

type AnalysisSummary struct {
	TotalItems     int            `json:"total_items"`
	WithRecipe     int            `json:"with_recipe"`
	WithoutRecipe  int            `json:"without_recipe"`
	WithWarnings   int            `json:"with_warnings"`
	AverageMargin  float64        `json:"average_margin"`
	WarningsByCode map[string]int `json:"warnings_by_code"`
}

type RecipeAnalysisRequest struct {
	Departments []Department `json:"departments" validate:"omitempty,dive,oneof=bar restaurant kitchen spa housekeeping front_office"`
}

type RecipeAnalysisReport struct {
	Items   []ItemAnalysis  `json:"items"`
	Summary AnalysisSummary `json:"summary"`
}
