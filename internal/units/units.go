// Package units canonicalizes recipe and inventory unit strings and converts
// quantities between scales of the same family.
package units

import "strings"

type Unit string

const (
	Gram       Unit = "g"
	Kilogram   Unit = "kg"
	Millilitre Unit = "ml"
	Litre      Unit = "l"
	Piece      Unit = "pcs"
)

type Family int

const (
	Count Family = iota
	Mass
	Volume
)

func (f Family) String() string {
	switch f {
	case Mass:
		return "mass"
	case Volume:
		return "volume"
	default:
		return "count"
	}
}

var aliases = map[string]Unit{
	"g": Gram, "gm": Gram, "gms": Gram, "gr": Gram, "gram": Gram, "grams": Gram, "gramme": Gram, "grammes": Gram,
	"kg": Kilogram, "kgs": Kilogram, "kilo": Kilogram, "kilos": Kilogram, "kilogram": Kilogram, "kilograms": Kilogram,
	"ml": Millilitre, "mls": Millilitre, "millilitre": Millilitre, "millilitres": Millilitre, "milliliter": Millilitre, "milliliters": Millilitre,
	"l": Litre, "lt": Litre, "ltr": Litre, "ltrs": Litre, "litre": Litre, "litres": Litre, "liter": Litre, "liters": Litre,
	"pcs": Piece, "pc": Piece, "piece": Piece, "pieces": Piece, "unit": Piece, "units": Piece,
	"nos": Piece, "no": Piece, "each": Piece, "ea": Piece, "item": Piece, "items": Piece,
}

var known = map[Unit]struct {
	family Family
	scale  float64
}{
	Gram:       {Mass, 1},
	Kilogram:   {Mass, 1000},
	Millilitre: {Volume, 1},
	Litre:      {Volume, 1000},
	Piece:      {Count, 1},
}

// Normalize maps an alias to its canonical unit. Unrecognized strings,
// including a blank unit, come back trimmed and lower-cased and behave like
// pieces.
func Normalize(raw string) Unit {
	key := strings.ToLower(strings.TrimSpace(raw))
	if unit, ok := aliases[key]; ok {
		return unit
	}
	return Unit(key)
}

// IsKnown reports whether raw resolves to one of the canonical units.
func IsKnown(raw string) bool {
	_, ok := known[Normalize(raw)]
	return ok
}

func FamilyOf(unit Unit) Family {
	if info, ok := known[unit]; ok {
		return info.family
	}
	return Count
}

func scaleOf(unit Unit) float64 {
	if info, ok := known[unit]; ok {
		return info.scale
	}
	return 1
}

// Convert expresses quantity (in from) in the scale of to. When the families
// differ the quantity is returned unchanged with mismatch set.
func Convert(quantity float64, from string, to string) (float64, bool) {
	src := Normalize(from)
	dst := Normalize(to)
	if FamilyOf(src) != FamilyOf(dst) {
		return quantity, true
	}
	if src == dst {
		return quantity, false
	}
	return quantity * scaleOf(src) / scaleOf(dst), false
}

// IngredientCost prices quantity of unit against an inventory item stocked in
// inventoryUnit at costPrice per stocking unit. The result is never negative.
func IngredientCost(quantity float64, unit string, costPrice float64, inventoryUnit string) (float64, bool) {
	converted, mismatch := Convert(quantity, unit, inventoryUnit)
	if quantity <= 0 || costPrice <= 0 {
		return 0, mismatch
	}
	cost := converted * costPrice
	if cost < 0 {
		return 0, mismatch
	}
	return cost, mismatch
}

type StockCheck struct {
	HasStock     bool    `json:"has_stock"`
	UnitMismatch bool    `json:"unit_mismatch"`
	Required     float64 `json:"required"`
}

// CheckStock compares the converted requirement with currentStock. A unit
// mismatch is reported separately from a shortage.
func CheckStock(quantity float64, unit string, currentStock float64, inventoryUnit string) StockCheck {
	required, mismatch := Convert(quantity, unit, inventoryUnit)
	if required < 0 {
		required = 0
	}
	return StockCheck{
		HasStock:     currentStock >= required,
		UnitMismatch: mismatch,
		Required:     required,
	}
}
