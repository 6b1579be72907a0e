// Package planner implements the plan-generation core: a greedy forward
// pass over the target dates with rejection feedback, bounded random
// retries and a distinct terminal infeasibility signal. There is no
// backtracking across dates within one attempt; a failed attempt is simply
// redrawn.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/saucier/mise/internal/model"
	"github.com/saucier/mise/internal/rule"
)

// ErrInfeasible indicates that no valid plan exists under the current
// candidates, rules and rejections. It is terminal for the run, as opposed
// to a single failed attempt, which is retried invisibly.
var ErrInfeasible = errors.New("no valid plan exists under current constraints")

// errNoAdmissibleMeal is a single-attempt failure: some date had an empty
// admissible subset. Recoverable; the generator redraws the whole attempt.
type errNoAdmissibleMeal struct {
	date time.Time
}

func (e errNoAdmissibleMeal) Error() string {
	return fmt.Sprintf("no admissible meal for %s", e.date.Format("2006-01-02"))
}

// Config holds tuning options for the generator.
type Config struct {
	// MaxAttempts caps the number of full generation passes before the
	// run is reported infeasible.
	MaxAttempts int
}

// DefaultConfig returns the default generator configuration.
func DefaultConfig() Config {
	return Config{MaxAttempts: 25}
}

// Generator selects one meal per target date from the candidate pool such
// that every active rule is satisfied against the evolving diary.
type Generator struct {
	rules       *rule.Set
	rejections  *Rejections
	rng         *rand.Rand
	pool        []model.Meal
	maxAttempts int
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRand injects the random source used for meal selection, so tests can
// seed it deterministically.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) { g.rng = rng }
}

// WithMaxAttempts overrides the retry cap.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// NewGenerator creates a generator drawing from the given candidate pool,
// constrained by the rule set and the rejection set.
func NewGenerator(pool []model.Meal, rules *rule.Set, rejections *Rejections, opts ...Option) *Generator {
	g := &Generator{
		pool:        pool,
		rules:       rules,
		rejections:  rejections,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		maxAttempts: DefaultConfig().MaxAttempts,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces a diary entry for every target date, or fails with
// ErrInfeasible. The base diary holds fixed neighbours: confirmed history
// and entries kept from earlier rounds of the same session. The returned
// diary contains only the newly generated dates.
func (g *Generator) Generate(ctx context.Context, dates []time.Time, base model.Diary) (model.Diary, error) {
	ordered, err := normalizeDates(dates, base)
	if err != nil {
		return model.Diary{}, err
	}
	if len(ordered) == 0 {
		return model.NewDiary(), nil
	}

	// Terminal condition: rejections have exhausted some date's pool even
	// before rule filtering. Detected up front so it is never mistaken for
	// a transient attempt failure.
	for _, date := range ordered {
		if len(g.candidates(date)) == 0 {
			return model.Diary{}, fmt.Errorf("%w: every candidate for %s has been rejected",
				ErrInfeasible, date.Format("2006-01-02"))
		}
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return model.Diary{}, ctx.Err()
		default:
		}

		generated, err := g.attempt(ordered, base)
		if err == nil {
			return generated, nil
		}

		var failure errNoAdmissibleMeal
		if !errors.As(err, &failure) {
			return model.Diary{}, err
		}
		slog.Debug("Generation attempt failed, redrawing",
			"attempt", attempt,
			"max_attempts", g.maxAttempts,
			"date", failure.date.Format("2006-01-02"))
	}

	return model.Diary{}, fmt.Errorf("%w: %d attempts exhausted", ErrInfeasible, g.maxAttempts)
}

// attempt is a single deterministic forward pass in chronological order,
// so earlier choices constrain later rule evaluation.
func (g *Generator) attempt(dates []time.Time, base model.Diary) (model.Diary, error) {
	working := base.Copy()
	generated := model.NewDiary()

	for _, date := range dates {
		admissible := make([]model.Meal, 0, len(g.pool))
		for _, meal := range g.candidates(date) {
			if g.rules.IsAdmissible(meal, date, working) {
				admissible = append(admissible, meal)
			}
		}
		if len(admissible) == 0 {
			return model.Diary{}, errNoAdmissibleMeal{date: date}
		}

		choice := admissible[g.rng.IntN(len(admissible))]
		working.Set(date, choice)
		generated.Set(date, choice)
	}

	return generated, nil
}

// candidates returns the pool minus the meals already rejected for the
// date, before any rule filtering.
func (g *Generator) candidates(date time.Time) []model.Meal {
	out := make([]model.Meal, 0, len(g.pool))
	for _, meal := range g.pool {
		if !g.rejections.IsRejected(date, meal.Name) {
			out = append(out, meal)
		}
	}
	return out
}

func normalizeDates(dates []time.Time, base model.Diary) ([]time.Time, error) {
	ordered := make([]time.Time, 0, len(dates))
	seen := make(map[time.Time]bool, len(dates))
	for _, date := range dates {
		day := model.Day(date)
		if seen[day] {
			return nil, fmt.Errorf("duplicate target date %s", day.Format("2006-01-02"))
		}
		if base.Has(day) {
			return nil, fmt.Errorf("target date %s is already populated in the diary", day.Format("2006-01-02"))
		}
		seen[day] = true
		ordered = append(ordered, day)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })
	return ordered, nil
}
