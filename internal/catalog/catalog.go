// Package catalog loads and validates the meal catalog. The catalog is a
// YAML data file, deliberately separate from the application config: it
// enumerates meals with their properties, tags and ingredient lines.
// Validation is strict and happens entirely at load time; a meal that
// reaches the planner is guaranteed to define every recognized property.
package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/saucier/mise/internal/model"
)

// Catalog is a read-only collection of validated meals, addressed by name.
type Catalog struct {
	meals map[string]model.Meal
	names []string
}

type fileCatalog struct {
	Meals []fileMeal `yaml:"meals"`
}

type fileMeal struct {
	Properties  map[string]string `yaml:"properties"`
	Name        string            `yaml:"name"`
	Tags        []string          `yaml:"tags"`
	Ingredients []fileIngredient  `yaml:"ingredients"`
}

type fileIngredient struct {
	Quantity *float64 `yaml:"quantity"`
	Name     string   `yaml:"name"`
	Unit     string   `yaml:"unit"`
}

// Load reads and validates the catalog file at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() { _ = f.Close() }()

	catalog, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return catalog, nil
}

// Parse reads and validates a catalog from r.
func Parse(r io.Reader) (*Catalog, error) {
	var file fileCatalog
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	if len(file.Meals) == 0 {
		return nil, fmt.Errorf("catalog defines no meals")
	}

	meals := make(map[string]model.Meal, len(file.Meals))
	names := make([]string, 0, len(file.Meals))
	for _, fm := range file.Meals {
		meal := fm.toModel()
		if err := meal.Validate(); err != nil {
			return nil, err
		}
		if _, exists := meals[meal.Name]; exists {
			return nil, fmt.Errorf("meal %q defined twice", meal.Name)
		}
		meals[meal.Name] = meal
		names = append(names, meal.Name)
	}
	sort.Strings(names)

	return &Catalog{meals: meals, names: names}, nil
}

func (fm fileMeal) toModel() model.Meal {
	properties := make(map[model.PropertyKey]string, len(fm.Properties))
	for key, value := range fm.Properties {
		properties[model.PropertyKey(key)] = value
	}

	tags := make(map[model.Tag]bool, len(fm.Tags))
	for _, tag := range fm.Tags {
		tags[model.Tag(tag)] = true
	}

	ingredients := make([]model.IngredientQuantity, 0, len(fm.Ingredients))
	for _, fi := range fm.Ingredients {
		quantity := model.None()
		if fi.Quantity != nil {
			quantity = model.Some(*fi.Quantity)
		}
		ingredients = append(ingredients, model.IngredientQuantity{
			Name:     fi.Name,
			Unit:     model.Unit(fi.Unit),
			Quantity: quantity,
		})
	}

	return model.Meal{
		Name:        fm.Name,
		Properties:  properties,
		Tags:        tags,
		Ingredients: ingredients,
	}
}

// Meal returns the meal with the given name.
func (c *Catalog) Meal(name string) (model.Meal, error) {
	meal, ok := c.meals[name]
	if !ok {
		return model.Meal{}, fmt.Errorf("unknown meal %q", name)
	}
	return meal, nil
}

// Names returns every meal name, sorted.
func (c *Catalog) Names() []string {
	return c.names
}

// Meals returns every meal, sorted by name.
func (c *Catalog) Meals() []model.Meal {
	out := make([]model.Meal, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.meals[name])
	}
	return out
}

// Resolve maps meal names to meals, for building the candidate pool. An
// empty name list selects the whole catalog; an unknown name is a
// configuration error.
func (c *Catalog) Resolve(names []string) ([]model.Meal, error) {
	if len(names) == 0 {
		return c.Meals(), nil
	}
	out := make([]model.Meal, 0, len(names))
	for _, name := range names {
		meal, err := c.Meal(name)
		if err != nil {
			return nil, err
		}
		out = append(out, meal)
	}
	return out, nil
}

// ResolveDiary reconstructs a diary from persisted (date, meal name)
// pairs. A diary entry referencing a meal no longer in the catalog is a
// configuration error.
func (c *Catalog) ResolveDiary(entries map[time.Time]string) (model.Diary, error) {
	diary := model.NewDiary()
	for date, name := range entries {
		meal, err := c.Meal(name)
		if err != nil {
			return model.Diary{}, fmt.Errorf("diary entry %s: %w", date.Format("2006-01-02"), err)
		}
		diary.Set(date, meal)
	}
	return diary, nil
}

// EnsureFile writes the embedded starter catalog to path if no catalog
// file exists there yet, and reports whether it did.
func EnsureFile(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat catalog: %w", err)
	}

	// Validate the embedded catalog before writing it anywhere.
	if _, err := Default(); err != nil {
		return false, fmt.Errorf("embedded catalog is invalid: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, defaultCatalog, 0600); err != nil {
		return false, fmt.Errorf("failed to write starter catalog: %w", err)
	}
	return true, nil
}
