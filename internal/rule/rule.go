// Package rule defines the predicates that constrain which meals may be
// assigned to a date, and the registry from which active rules are drawn.
package rule

import (
	"fmt"
	"sort"
	"time"

	"github.com/saucier/mise/internal/model"
)

// Rule is a stateless predicate over a candidate meal, a target date and
// the diary as built so far. Admits must not mutate its inputs and must
// not depend on hidden state; rules needing cross-date context look up the
// diary's nearest populated neighbours, which may not be calendar-adjacent.
type Rule interface {
	Name() string
	Description() string
	Admits(meal model.Meal, date time.Time, diary model.Diary) bool
}

var registry = make(map[string]Rule)

// Register adds a rule to the registry. It panics on duplicate names;
// registration happens in init and a clash is a programming error.
func Register(r Rule) {
	if _, exists := registry[r.Name()]; exists {
		panic(fmt.Sprintf("rule %q registered twice", r.Name()))
	}
	registry[r.Name()] = r
}

// Lookup returns the registered rule with the given name.
func Lookup(name string) (Rule, error) {
	r, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown rule %q", name)
	}
	return r, nil
}

// Names returns the registered rule names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set is the conjunction of the active rules for a run.
type Set struct {
	rules []Rule
}

// NewSet creates a rule set from the given rules. An empty set admits
// every meal.
func NewSet(rules ...Rule) *Set {
	return &Set{rules: rules}
}

// SetFromNames resolves rule names against the registry. An unknown name
// is a configuration error and fails the whole set.
func SetFromNames(names []string) (*Set, error) {
	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		r, err := Lookup(name)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return NewSet(rules...), nil
}

// IsAdmissible reports whether the meal passes every rule in the set for
// the given date and diary state. It short-circuits on the first failure.
func (s *Set) IsAdmissible(meal model.Meal, date time.Time, diary model.Diary) bool {
	for _, r := range s.rules {
		if !r.Admits(meal, date, diary) {
			return false
		}
	}
	return true
}

// Rules returns the rules in the set, in evaluation order.
func (s *Set) Rules() []Rule {
	return s.rules
}
