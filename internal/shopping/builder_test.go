package shopping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saucier/mise/internal/model"
)

func mealWithIngredients(name string, ingredients ...model.IngredientQuantity) model.Meal {
	return model.Meal{
		Name:        name,
		Properties:  map[model.PropertyKey]string{model.PropertyMeat: model.MeatNone},
		Ingredients: ingredients,
	}
}

func TestBuild_MergesMatchingIngredientAndUnit(t *testing.T) {
	diary := model.NewDiary()
	diary.Set(model.Date(2026, time.September, 1), mealWithIngredients("Chilli con Carne",
		model.IngredientQuantity{Name: "Chopped Tomatoes", Unit: model.UnitCan, Quantity: model.Some(2)},
		model.IngredientQuantity{Name: "Minced Beef", Unit: model.UnitGram, Quantity: model.Some(400)},
	))
	diary.Set(model.Date(2026, time.September, 2), mealWithIngredients("Lasagne",
		model.IngredientQuantity{Name: "Chopped Tomatoes", Unit: model.UnitCan, Quantity: model.Some(1)},
		model.IngredientQuantity{Name: "Minced Beef", Unit: model.UnitGram, Quantity: model.Some(500)},
	))

	list := Build(diary)
	require.Len(t, list.Lines, 2)

	tomatoes := list.Lines[0]
	assert.Equal(t, "Chopped Tomatoes", tomatoes.Ingredient)
	assert.Equal(t, model.Some(3), tomatoes.Quantity)
	assert.Equal(t, []string{"Chilli con Carne", "Lasagne"}, tomatoes.MealNames())

	beef := list.Lines[1]
	assert.Equal(t, "Minced Beef", beef.Ingredient)
	assert.Equal(t, model.Some(900), beef.Quantity)
}

func TestBuild_DifferentUnitsStaySeparate(t *testing.T) {
	diary := model.NewDiary()
	diary.Set(model.Date(2026, time.September, 1), mealWithIngredients("Fish Pie",
		model.IngredientQuantity{Name: "Tomato", Unit: model.UnitNumber, Quantity: model.Some(2)},
	))
	diary.Set(model.Date(2026, time.September, 2), mealWithIngredients("Moussaka",
		model.IngredientQuantity{Name: "Tomato", Unit: model.UnitCup, Quantity: model.Some(1)},
	))
	diary.Set(model.Date(2026, time.September, 3), mealWithIngredients("Burgers",
		model.IngredientQuantity{Name: "Tomato", Unit: model.UnitNumber, Quantity: model.Some(3)},
	))

	list := Build(diary)
	require.Len(t, list.Lines, 2)

	// Sorted by ingredient then unit: "cup" < "unit".
	cup := list.Lines[0]
	assert.Equal(t, model.UnitCup, cup.Unit)
	assert.Equal(t, model.Some(1), cup.Quantity)
	assert.Equal(t, []string{"Moussaka"}, cup.MealNames())

	counted := list.Lines[1]
	assert.Equal(t, model.UnitNumber, counted.Unit)
	assert.Equal(t, model.Some(5), counted.Quantity)
	assert.Equal(t, []string{"Burgers", "Fish Pie"}, counted.MealNames())
}

func TestBuild_ToTasteLines(t *testing.T) {
	diary := model.NewDiary()
	diary.Set(model.Date(2026, time.September, 1), mealWithIngredients("Saag Paneer",
		model.IngredientQuantity{Name: "Salt", Unit: model.UnitTeaspoon, Quantity: model.None()},
	))
	diary.Set(model.Date(2026, time.September, 2), mealWithIngredients("Lemon Leek Linguine",
		model.IngredientQuantity{Name: "Salt", Unit: model.UnitTeaspoon, Quantity: model.None()},
	))

	list := Build(diary)
	require.Len(t, list.Lines, 1)
	assert.False(t, list.Lines[0].Quantity.Present, "merged to-taste lines stay absent")
	assert.Equal(t, []string{"Lemon Leek Linguine", "Saag Paneer"}, list.Lines[0].MealNames())
}

func TestBuild_AbsentPlusPresent(t *testing.T) {
	diary := model.NewDiary()
	diary.Set(model.Date(2026, time.September, 1), mealWithIngredients("A",
		model.IngredientQuantity{Name: "Olive Oil", Unit: model.UnitTablespoon, Quantity: model.None()},
	))
	diary.Set(model.Date(2026, time.September, 2), mealWithIngredients("B",
		model.IngredientQuantity{Name: "Olive Oil", Unit: model.UnitTablespoon, Quantity: model.Some(2)},
	))

	list := Build(diary)
	require.Len(t, list.Lines, 1)
	assert.Equal(t, model.Some(2), list.Lines[0].Quantity)
	assert.Equal(t, []string{"A", "B"}, list.Lines[0].MealNames(),
		"the to-taste contributor stays on the line")
}

func TestBuild_OrderIndependent(t *testing.T) {
	mealA := mealWithIngredients("A",
		model.IngredientQuantity{Name: "Rice", Unit: model.UnitGram, Quantity: model.Some(200)},
		model.IngredientQuantity{Name: "Onion", Unit: model.UnitNumber, Quantity: model.Some(1)},
	)
	mealB := mealWithIngredients("B",
		model.IngredientQuantity{Name: "Onion", Unit: model.UnitNumber, Quantity: model.Some(2)},
	)

	forward := model.NewDiary()
	forward.Set(model.Date(2026, time.September, 1), mealA)
	forward.Set(model.Date(2026, time.September, 2), mealB)

	reversed := model.NewDiary()
	reversed.Set(model.Date(2026, time.September, 1), mealB)
	reversed.Set(model.Date(2026, time.September, 2), mealA)

	a, b := Build(forward), Build(reversed)
	require.Len(t, a.Lines, 2)
	require.Len(t, b.Lines, 2)
	for i := range a.Lines {
		assert.Equal(t, a.Lines[i].Ingredient, b.Lines[i].Ingredient)
		assert.Equal(t, a.Lines[i].Quantity, b.Lines[i].Quantity)
	}
}

func TestBuild_RepeatedMealAccumulatesDates(t *testing.T) {
	meal := mealWithIngredients("Spaghetti Bolognese",
		model.IngredientQuantity{Name: "Spaghetti", Unit: model.UnitGram, Quantity: model.Some(500)},
	)
	diary := model.NewDiary()
	diary.Set(model.Date(2026, time.September, 1), meal)
	diary.Set(model.Date(2026, time.September, 8), meal)

	list := Build(diary)
	require.Len(t, list.Lines, 1)
	assert.Equal(t, model.Some(1000), list.Lines[0].Quantity)

	require.Len(t, list.Lines[0].Contributions, 1)
	assert.Equal(t, []time.Time{
		model.Date(2026, time.September, 1),
		model.Date(2026, time.September, 8),
	}, list.Lines[0].Contributions[0].Dates)
}

func TestBuild_TotalsMatchContributions(t *testing.T) {
	meals := map[string]model.Meal{
		"Chilli con Carne": mealWithIngredients("Chilli con Carne",
			model.IngredientQuantity{Name: "Minced Beef", Unit: model.UnitGram, Quantity: model.Some(400)},
			model.IngredientQuantity{Name: "Kidney Beans", Unit: model.UnitCan, Quantity: model.Some(1)},
		),
		"Spaghetti Bolognese": mealWithIngredients("Spaghetti Bolognese",
			model.IngredientQuantity{Name: "Minced Beef", Unit: model.UnitGram, Quantity: model.Some(500)},
			model.IngredientQuantity{Name: "Spaghetti", Unit: model.UnitGram, Quantity: model.Some(500)},
		),
	}

	diary := model.NewDiary()
	diary.Set(model.Date(2026, time.September, 1), meals["Chilli con Carne"])
	diary.Set(model.Date(2026, time.September, 3), meals["Spaghetti Bolognese"])
	diary.Set(model.Date(2026, time.September, 8), meals["Chilli con Carne"])

	list := Build(diary)

	// Re-derive every line's total from its contributions: each
	// contributing meal supplies its own quantity once per listed date.
	for _, line := range list.Lines {
		var derived model.Quantity
		for _, c := range line.Contributions {
			meal := meals[c.Meal]
			for _, iq := range meal.Ingredients {
				if iq.Name != line.Ingredient || iq.Unit != line.Unit {
					continue
				}
				for range c.Dates {
					derived = derived.Add(iq.Quantity)
				}
			}
		}
		assert.Equal(t, line.Quantity, derived, "line %s (%s)", line.Ingredient, line.Unit)
	}
}

func TestBuild_DateRange(t *testing.T) {
	diary := model.NewDiary()
	diary.Set(model.Date(2026, time.September, 3), mealWithIngredients("A"))
	diary.Set(model.Date(2026, time.September, 1), mealWithIngredients("B"))
	diary.Set(model.Date(2026, time.September, 7), mealWithIngredients("C"))

	list := Build(diary)
	assert.Equal(t, model.Date(2026, time.September, 1), list.From)
	assert.Equal(t, model.Date(2026, time.September, 7), list.To)
}

func TestBuild_EmptyDiary(t *testing.T) {
	list := Build(model.NewDiary())
	assert.Empty(t, list.Lines)
	assert.True(t, list.From.IsZero())
}

func TestLine_String(t *testing.T) {
	line := Line{
		Ingredient:    "Stewing Beef",
		Unit:          model.UnitGram,
		Quantity:      model.Some(750),
		Contributions: []Contribution{{Meal: "Beef and Ale Stew"}},
	}
	assert.Equal(t, "750 g Stewing Beef (Beef and Ale Stew)", line.String())
}
