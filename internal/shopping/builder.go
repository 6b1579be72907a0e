package shopping

import (
	"sort"
	"time"

	"github.com/saucier/mise/internal/model"
)

type lineKey struct {
	ingredient string
	unit       model.Unit
}

// Build aggregates the ingredient lines of every meal in the confirmed
// diary slice into a shopping list. The result is independent of the
// diary's insertion order: merging is keyed by (ingredient, unit) and the
// output is fully sorted.
func Build(diary model.Diary) List {
	totals := make(map[lineKey]model.Quantity)
	contributions := make(map[lineKey]map[string][]time.Time)

	for _, entry := range diary.Entries() {
		for _, iq := range entry.Meal.Ingredients {
			key := lineKey{ingredient: iq.Name, unit: iq.Unit}
			totals[key] = totals[key].Add(iq.Quantity)
			if contributions[key] == nil {
				contributions[key] = make(map[string][]time.Time)
			}
			contributions[key][entry.Meal.Name] = append(contributions[key][entry.Meal.Name], entry.Date)
		}
	}

	lines := make([]Line, 0, len(totals))
	for key, quantity := range totals {
		lines = append(lines, Line{
			Ingredient:    key.ingredient,
			Unit:          key.unit,
			Quantity:      quantity,
			Contributions: sortedContributions(contributions[key]),
		})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Ingredient != lines[j].Ingredient {
			return lines[i].Ingredient < lines[j].Ingredient
		}
		return lines[i].Unit < lines[j].Unit
	})

	list := List{Lines: lines}
	if dates := diary.Dates(); len(dates) > 0 {
		list.From = dates[0]
		list.To = dates[len(dates)-1]
	}
	return list
}

func sortedContributions(byMeal map[string][]time.Time) []Contribution {
	out := make([]Contribution, 0, len(byMeal))
	for meal, dates := range byMeal {
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
		out = append(out, Contribution{Meal: meal, Dates: dates})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Meal < out[j].Meal })
	return out
}
