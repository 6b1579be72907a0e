package model

import (
	"strings"
	"testing"
)

func validMeal() Meal {
	return Meal{
		Name:       "Spaghetti Bolognese",
		Properties: map[PropertyKey]string{PropertyMeat: MeatBeef},
		Tags:       map[Tag]bool{TagPasta: true},
		Ingredients: []IngredientQuantity{
			{Name: "Spaghetti", Unit: UnitGram, Quantity: Some(500)},
			{Name: "Minced Beef", Unit: UnitGram, Quantity: Some(400)},
			{Name: "Salt", Unit: UnitTeaspoon, Quantity: None()},
		},
	}
}

func TestMeal_Validate(t *testing.T) {
	tests := []struct {
		mutate  func(*Meal)
		name    string
		errMsg  string
		wantErr bool
	}{
		{
			name:    "valid meal",
			mutate:  func(*Meal) {},
			wantErr: false,
		},
		{
			name:    "empty name",
			mutate:  func(m *Meal) { m.Name = "" },
			wantErr: true,
			errMsg:  "meal name is required",
		},
		{
			name:    "missing meat property",
			mutate:  func(m *Meal) { delete(m.Properties, PropertyMeat) },
			wantErr: true,
			errMsg:  "missing required property",
		},
		{
			name:    "unrecognized meat value",
			mutate:  func(m *Meal) { m.Properties[PropertyMeat] = "venison" },
			wantErr: true,
			errMsg:  "unrecognized value",
		},
		{
			name:    "unrecognized property key",
			mutate:  func(m *Meal) { m.Properties["spice"] = "hot" },
			wantErr: true,
			errMsg:  "unrecognized property",
		},
		{
			name:    "unrecognized tag",
			mutate:  func(m *Meal) { m.Tags["brunch"] = true },
			wantErr: true,
			errMsg:  "unrecognized tag",
		},
		{
			name: "unrecognized unit",
			mutate: func(m *Meal) {
				m.Ingredients[0].Unit = "handful"
			},
			wantErr: true,
			errMsg:  "unrecognized unit",
		},
		{
			name: "ingredient without name",
			mutate: func(m *Meal) {
				m.Ingredients[0].Name = ""
			},
			wantErr: true,
			errMsg:  "ingredient with no name",
		},
		{
			name: "duplicate ingredient and unit",
			mutate: func(m *Meal) {
				m.Ingredients = append(m.Ingredients,
					IngredientQuantity{Name: "Spaghetti", Unit: UnitGram, Quantity: Some(100)})
			},
			wantErr: true,
			errMsg:  "duplicate ingredient line",
		},
		{
			name: "same ingredient in a different unit is fine",
			mutate: func(m *Meal) {
				m.Ingredients = append(m.Ingredients,
					IngredientQuantity{Name: "Spaghetti", Unit: UnitBag, Quantity: Some(1)})
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meal := validMeal()
			tt.mutate(&meal)

			err := meal.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Validate() expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Validate() error = %q, want substring %q", err.Error(), tt.errMsg)
				}
				return
			}
			if err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestMeal_HasTag(t *testing.T) {
	meal := validMeal()
	if !meal.HasTag(TagPasta) {
		t.Error("expected pasta tag to be set")
	}
	if meal.HasTag(TagRoast) {
		t.Error("expected roast tag to be unset")
	}

	var untagged Meal
	if untagged.HasTag(TagPasta) {
		t.Error("nil tag map should report no tags")
	}
}
