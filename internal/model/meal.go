// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"
)

// PropertyKey identifies a required key-value attribute on a meal.
type PropertyKey string

// Recognized property keys. Every meal must define every key.
const (
	PropertyMeat PropertyKey = "meat"
)

// PropertyKeys returns every recognized property key.
func PropertyKeys() []PropertyKey {
	return []PropertyKey{PropertyMeat}
}

// Recognized values for the meat property.
const (
	MeatBeef    = "beef"
	MeatChicken = "chicken"
	MeatFish    = "fish"
	MeatLamb    = "lamb"
	MeatNone    = "none"
	MeatPork    = "pork"
	MeatTurkey  = "turkey"
)

// propertyValues maps each property key to its allowed values.
var propertyValues = map[PropertyKey][]string{
	PropertyMeat: {MeatBeef, MeatChicken, MeatFish, MeatLamb, MeatNone, MeatPork, MeatTurkey},
}

// Tag is an optional boolean flag on a meal.
type Tag string

// Recognized tags.
const (
	TagFavourite  Tag = "favourite"
	TagIndian     Tag = "indian"
	TagPasta      Tag = "pasta"
	TagRoast      Tag = "roast"
	TagVegetarian Tag = "vegetarian"
	TagWinter     Tag = "winter"
)

// Tags returns every recognized tag.
func Tags() []Tag {
	return []Tag{TagFavourite, TagIndian, TagPasta, TagRoast, TagVegetarian, TagWinter}
}

// Meal is a named dish with required properties, optional tags and a list
// of ingredient lines. Meals are immutable once loaded from the catalog.
type Meal struct {
	Properties  map[PropertyKey]string
	Tags        map[Tag]bool
	Name        string
	Ingredients []IngredientQuantity
}

// Property returns the value of the given property key. Catalog validation
// guarantees every recognized key is present on a loaded meal.
func (m Meal) Property(key PropertyKey) string {
	return m.Properties[key]
}

// HasTag reports whether the meal carries the given tag.
func (m Meal) HasTag(tag Tag) bool {
	return m.Tags[tag]
}

// Validate ensures the meal defines every recognized property with a
// recognized value, carries only recognized tags and units, and has no
// duplicate ingredient+unit line.
func (m Meal) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("meal name is required")
	}

	for _, key := range PropertyKeys() {
		value, ok := m.Properties[key]
		if !ok {
			return fmt.Errorf("meal %q is missing required property %q", m.Name, key)
		}
		if !validPropertyValue(key, value) {
			return fmt.Errorf("meal %q has unrecognized value %q for property %q", m.Name, value, key)
		}
	}
	for key := range m.Properties {
		if _, ok := propertyValues[key]; !ok {
			return fmt.Errorf("meal %q has unrecognized property %q", m.Name, key)
		}
	}

	recognized := make(map[Tag]bool, len(Tags()))
	for _, tag := range Tags() {
		recognized[tag] = true
	}
	for tag := range m.Tags {
		if !recognized[tag] {
			return fmt.Errorf("meal %q has unrecognized tag %q", m.Name, tag)
		}
	}

	seen := make(map[string]bool, len(m.Ingredients))
	for _, iq := range m.Ingredients {
		if iq.Name == "" {
			return fmt.Errorf("meal %q has an ingredient with no name", m.Name)
		}
		if !KnownUnit(iq.Unit) {
			return fmt.Errorf("meal %q ingredient %q has unrecognized unit %q", m.Name, iq.Name, iq.Unit)
		}
		key := iq.Name + "|" + string(iq.Unit)
		if seen[key] {
			return fmt.Errorf("meal %q has duplicate ingredient line %q (%s)", m.Name, iq.Name, iq.Unit)
		}
		seen[key] = true
	}

	return nil
}

func validPropertyValue(key PropertyKey, value string) bool {
	for _, v := range propertyValues[key] {
		if v == value {
			return true
		}
	}
	return false
}

// Day normalizes a time to midnight UTC so it can be used as a diary key.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a diary key for the given calendar date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
