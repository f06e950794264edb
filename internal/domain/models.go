package domain

import "time"

type Department string

const (
	DepartmentBar          Department = "bar"
	DepartmentRestaurant   Department = "restaurant"
	DepartmentKitchen      Department = "kitchen"
	DepartmentSpa          Department = "spa"
	DepartmentHousekeeping Department = "housekeeping"
	DepartmentFrontOffice  Department = "front_office"
)

// AllDepartments returns every known department in reporting order.
func AllDepartments() []Department {
	return []Department{
		DepartmentBar,
		DepartmentRestaurant,
		DepartmentKitchen,
		DepartmentSpa,
		DepartmentHousekeeping,
		DepartmentFrontOffice,
	}
}

// DepartmentRank orders departments for output. Unknown departments sort last.
func DepartmentRank(dept Department) int {
	for i, known := range AllDepartments() {
		if known == dept {
			return i
		}
	}
	return len(AllDepartments())
}

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"

	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

type InventoryItem struct {
	ID            string     `json:"id"`
	Department    Department `json:"department"`
	Name          string     `json:"name"`
	Category      string     `json:"category"`
	Unit          string     `json:"unit"`
	CostPrice     float64    `json:"cost_price"`
	CurrentStock  float64    `json:"current_stock"`
	MinStockLevel float64    `json:"min_stock_level"`
}

type RecipeIngredient struct {
	InventoryID   string  `json:"inventory_id"`
	InventoryName string  `json:"inventory_name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
}

type MenuItem struct {
	ID          string             `json:"id"`
	Department  Department         `json:"department"`
	Name        string             `json:"name"`
	Category    string             `json:"category"`
	Price       float64            `json:"price"`
	Ingredients []RecipeIngredient `json:"ingredients,omitempty"`
}

func (m MenuItem) HasRecipe() bool {
	return len(m.Ingredients) > 0
}

// Order is shared by every department. Spa bookings and front-office billing
// rows use the same shape, tagged by Department.
type Order struct {
	ID             string     `json:"id"`
	Department     Department `json:"department"`
	CreatedAt      time.Time  `json:"created_at"`
	Status         string     `json:"status"`
	PaymentStatus  string     `json:"payment_status"`
	Subtotal       float64    `json:"subtotal"`
	TaxAmount      float64    `json:"tax_amount"`
	DiscountAmount float64    `json:"discount_amount"`
	TotalAmount    float64    `json:"total_amount"`
}

type OrderLine struct {
	OrderID    string  `json:"order_id"`
	MenuItemID *string `json:"menu_item_id,omitempty"`
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
}

func IndexMenuItems(items []MenuItem) map[string]MenuItem {
	out := make(map[string]MenuItem, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out
}

func IndexInventory(items []InventoryItem) map[string]InventoryItem {
	out := make(map[string]InventoryItem, len(items))
	for _, item := range items {
		out[item.ID] = item
	}
	return out
}
