package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the unit of measure on an ingredient line. Lines with the same
// ingredient but different units never merge; there is no unit conversion.
type Unit string

// Recognized units.
const (
	UnitGram       Unit = "g"
	UnitMillilitre Unit = "ml"
	UnitNumber     Unit = "unit"
	UnitBag        Unit = "bag"
	UnitJar        Unit = "jar"
	UnitCan        Unit = "can"
	UnitCup        Unit = "cup"
	UnitTablespoon Unit = "tbsp"
	UnitTeaspoon   Unit = "tsp"
)

var knownUnits = map[Unit]bool{
	UnitGram:       true,
	UnitMillilitre: true,
	UnitNumber:     true,
	UnitBag:        true,
	UnitJar:        true,
	UnitCan:        true,
	UnitCup:        true,
	UnitTablespoon: true,
	UnitTeaspoon:   true,
}

// KnownUnit reports whether u is a recognized unit.
func KnownUnit(u Unit) bool {
	return knownUnits[u]
}

// Quantity is an amount that may be absent. Absent is distinct from zero:
// it marks "to taste" lines, which are carried through shopping lists
// unmerged with numeric totals.
type Quantity struct {
	Amount  float64
	Present bool
}

// Some returns a present quantity.
func Some(amount float64) Quantity {
	return Quantity{Amount: amount, Present: true}
}

// None returns an absent quantity.
func None() Quantity {
	return Quantity{}
}

// Add merges two quantities for the same ingredient and unit. Present
// amounts sum; two absent quantities stay absent; an absent quantity merged
// with a present one yields the present total, with provenance retained on
// the shopping list line.
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{
		Amount:  q.Amount + other.Amount,
		Present: q.Present || other.Present,
	}
}

// String renders the quantity for display; absent renders as "to taste".
func (q Quantity) String() string {
	if !q.Present {
		return "to taste"
	}
	return strconv.FormatFloat(q.Amount, 'f', -1, 64)
}

// IngredientQuantity is a single ingredient line on a meal.
type IngredientQuantity struct {
	Name     string
	Unit     Unit
	Quantity Quantity
}

// String renders the line as e.g. "500 g Spaghetti" or "Salt, to taste".
func (iq IngredientQuantity) String() string {
	if !iq.Quantity.Present {
		return fmt.Sprintf("%s, to taste", iq.Name)
	}
	if iq.Unit == UnitNumber {
		return fmt.Sprintf("%s x %s", strings.TrimSpace(iq.Quantity.String()), iq.Name)
	}
	return fmt.Sprintf("%s %s %s", iq.Quantity.String(), iq.Unit, iq.Name)
}
