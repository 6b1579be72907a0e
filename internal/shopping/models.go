// Package shopping derives a consolidated shopping list from a confirmed
// slice of the meal diary.
package shopping

import (
	"fmt"
	"strings"
	"time"

	"github.com/saucier/mise/internal/model"
)

// Contribution records which meal required an ingredient line and on which
// dates, so the user can trace every entry back to its meals.
type Contribution struct {
	Meal  string      `json:"meal"`
	Dates []time.Time `json:"dates"`
}

// Line is one aggregated shopping list entry. Two ingredient lines merge
// into one Line iff ingredient name and unit match exactly; quantities for
// the same ingredient in different units stay separate.
type Line struct {
	Ingredient    string         `json:"ingredient"`
	Unit          model.Unit     `json:"unit"`
	Quantity      model.Quantity `json:"quantity"`
	Contributions []Contribution `json:"contributions"`
}

// MealNames returns the names of the contributing meals, in order.
func (l Line) MealNames() []string {
	names := make([]string, len(l.Contributions))
	for i, c := range l.Contributions {
		names[i] = c.Meal
	}
	return names
}

// String renders the line with its provenance, e.g.
// "750 g Stewing Beef (Beef and Ale Stew)".
func (l Line) String() string {
	iq := model.IngredientQuantity{Name: l.Ingredient, Unit: l.Unit, Quantity: l.Quantity}
	return fmt.Sprintf("%s (%s)", iq.String(), strings.Join(l.MealNames(), ", "))
}

// List is a complete, order-stable shopping list: alphabetical by
// ingredient name, then by unit. No line is dropped, including lines with
// zero or absent quantities.
type List struct {
	From  time.Time `json:"from"`
	To    time.Time `json:"to"`
	Lines []Line    `json:"lines"`
}

// String renders the list one line per entry.
func (l List) String() string {
	var b strings.Builder
	for _, line := range l.Lines {
		b.WriteString(line.String())
		b.WriteByte('\n')
	}
	return b.String()
}
