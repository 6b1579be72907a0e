package planner

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saucier/mise/internal/model"
	"github.com/saucier/mise/internal/rule"
)

func testMeal(name, meat string, tags ...model.Tag) model.Meal {
	tagSet := make(map[model.Tag]bool, len(tags))
	for _, tag := range tags {
		tagSet[tag] = true
	}
	return model.Meal{
		Name:       name,
		Properties: map[model.PropertyKey]string{model.PropertyMeat: meat},
		Tags:       tagSet,
	}
}

func testPool() []model.Meal {
	return []model.Meal{
		testMeal("Beef and Ale Stew", model.MeatBeef),
		testMeal("Burgers", model.MeatBeef),
		testMeal("Roast Chicken", model.MeatChicken, model.TagRoast),
		testMeal("Fish Pie", model.MeatFish),
		testMeal("Saag Paneer", model.MeatNone, model.TagVegetarian),
	}
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

func mustSet(t *testing.T, names ...string) *rule.Set {
	t.Helper()
	set, err := rule.SetFromNames(names)
	require.NoError(t, err)
	return set
}

func dateRange(start time.Time, days int) []time.Time {
	dates := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates
}

func TestGenerator_FillsEveryDate(t *testing.T) {
	gen := NewGenerator(testPool(), mustSet(t, "no-consecutive-meat"), NewRejections(),
		WithRand(seededRand(1)))

	dates := dateRange(model.Date(2026, time.September, 1), 5)
	plan, err := gen.Generate(context.Background(), dates, model.NewDiary())
	require.NoError(t, err)

	require.Equal(t, 5, plan.Len())
	for _, date := range dates {
		meal, ok := plan.Meal(date)
		require.True(t, ok, "date %s unassigned", date.Format("2006-01-02"))
		assert.NotEmpty(t, meal.Name)
	}
}

func TestGenerator_RespectsRulesAcrossDates(t *testing.T) {
	pool := []model.Meal{
		testMeal("Roast Chicken", model.MeatChicken),
		testMeal("Burgers", model.MeatBeef),
		testMeal("Saag Paneer", model.MeatNone),
	}
	dates := dateRange(model.Date(2026, time.September, 1), 2)

	// Any seed must yield two distinct meat values on consecutive dates;
	// "none" counts as a meat value, so even a vegetarian pair is out.
	for seed := uint64(1); seed <= 200; seed++ {
		rules := mustSet(t, "no-consecutive-meat")
		gen := NewGenerator(pool, rules, NewRejections(), WithRand(seededRand(seed)))

		plan, err := gen.Generate(context.Background(), dates, model.NewDiary())
		require.NoError(t, err)

		first, _ := plan.Meal(dates[0])
		second, _ := plan.Meal(dates[1])
		assert.NotEqual(t,
			first.Property(model.PropertyMeat),
			second.Property(model.PropertyMeat),
			"seed %d: consecutive dates share a meat (%s, %s)", seed, first.Name, second.Name)

		// The accepted plan satisfies every rule against the full diary.
		for _, date := range dates {
			meal, _ := plan.Meal(date)
			assert.True(t, rules.IsAdmissible(meal, date, plan),
				"seed %d: %s inadmissible in final plan", seed, date.Format("2006-01-02"))
		}
	}
}

func TestGenerator_RespectsConfirmedHistory(t *testing.T) {
	history := model.NewDiary()
	history.Set(model.Date(2026, time.August, 31), testMeal("Burgers", model.MeatBeef))

	pool := []model.Meal{
		testMeal("Beef and Ale Stew", model.MeatBeef),
		testMeal("Fish Pie", model.MeatFish),
	}
	gen := NewGenerator(pool, mustSet(t, "no-consecutive-meat"), NewRejections(),
		WithRand(seededRand(3)))

	plan, err := gen.Generate(context.Background(),
		[]time.Time{model.Date(2026, time.September, 1)}, history)
	require.NoError(t, err)

	meal, _ := plan.Meal(model.Date(2026, time.September, 1))
	assert.Equal(t, "Fish Pie", meal.Name,
		"history is a fixed neighbour for the first planned date")
	assert.False(t, plan.Has(model.Date(2026, time.August, 31)),
		"generated diary carries only new dates")
}

func TestGenerator_Deterministic(t *testing.T) {
	dates := dateRange(model.Date(2026, time.September, 1), 7)

	run := func() model.Diary {
		gen := NewGenerator(testPool(), mustSet(t, "no-consecutive-meat"),
			NewRejections(), WithRand(seededRand(42)))
		plan, err := gen.Generate(context.Background(), dates, model.NewDiary())
		require.NoError(t, err)
		return plan
	}

	first := run()
	second := run()
	for _, date := range dates {
		a, _ := first.Meal(date)
		b, _ := second.Meal(date)
		assert.Equal(t, a.Name, b.Name, "same seed, same plan on %s", date.Format("2006-01-02"))
	}
}

func TestGenerator_SkipsRejectedMeals(t *testing.T) {
	date := model.Date(2026, time.September, 1)
	rejections := NewRejections()
	rejections.Reject(date, "Beef and Ale Stew")
	rejections.Reject(date, "Burgers")
	rejections.Reject(date, "Roast Chicken")
	rejections.Reject(date, "Fish Pie")

	gen := NewGenerator(testPool(), rule.NewSet(), rejections, WithRand(seededRand(4)))
	plan, err := gen.Generate(context.Background(), []time.Time{date}, model.NewDiary())
	require.NoError(t, err)

	meal, _ := plan.Meal(date)
	assert.Equal(t, "Saag Paneer", meal.Name, "only unrejected candidate remains")
}

func TestGenerator_InfeasibleWhenRejectionsExhaustPool(t *testing.T) {
	date := model.Date(2026, time.September, 1)
	rejections := NewRejections()
	for _, meal := range testPool() {
		rejections.Reject(date, meal.Name)
	}

	gen := NewGenerator(testPool(), rule.NewSet(), rejections, WithRand(seededRand(5)))
	_, err := gen.Generate(context.Background(), []time.Time{date}, model.NewDiary())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.Contains(t, err.Error(), "2026-09-01")
}

func TestGenerator_InfeasibleWhenRulesBlockEverything(t *testing.T) {
	// Two beef meals, two consecutive dates, no-consecutive-meat: every
	// attempt fails, and the error is terminal rather than transient.
	pool := []model.Meal{
		testMeal("Beef and Ale Stew", model.MeatBeef),
		testMeal("Burgers", model.MeatBeef),
	}
	gen := NewGenerator(pool, mustSet(t, "no-consecutive-meat"), NewRejections(),
		WithRand(seededRand(6)), WithMaxAttempts(5))

	_, err := gen.Generate(context.Background(),
		dateRange(model.Date(2026, time.September, 1), 2), model.NewDiary())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInfeasible)
	assert.Contains(t, err.Error(), "attempts exhausted")
}

func TestGenerator_EmptyDateRange(t *testing.T) {
	gen := NewGenerator(testPool(), rule.NewSet(), NewRejections())
	plan, err := gen.Generate(context.Background(), nil, model.NewDiary())
	require.NoError(t, err)
	assert.Equal(t, 0, plan.Len())
}

func TestGenerator_RejectsDuplicateDates(t *testing.T) {
	gen := NewGenerator(testPool(), rule.NewSet(), NewRejections())
	date := model.Date(2026, time.September, 1)
	_, err := gen.Generate(context.Background(), []time.Time{date, date}, model.NewDiary())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate target date")
}

func TestGenerator_RejectsPopulatedTargetDate(t *testing.T) {
	history := model.NewDiary()
	history.Set(model.Date(2026, time.September, 1), testMeal("Burgers", model.MeatBeef))

	gen := NewGenerator(testPool(), rule.NewSet(), NewRejections())
	_, err := gen.Generate(context.Background(),
		[]time.Time{model.Date(2026, time.September, 1)}, history)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already populated")
}

func TestGenerator_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := NewGenerator(testPool(), rule.NewSet(), NewRejections())
	_, err := gen.Generate(ctx, []time.Time{model.Date(2026, time.September, 1)}, model.NewDiary())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRejections(t *testing.T) {
	r := NewRejections()
	date := model.Date(2026, time.September, 1)

	assert.False(t, r.IsRejected(date, "Burgers"))
	assert.Equal(t, 0, r.CountFor(date))

	r.Reject(date, "Burgers")
	r.Reject(date, "Burgers")
	r.Reject(date, "Fish Pie")

	assert.True(t, r.IsRejected(date, "Burgers"))
	assert.Equal(t, 2, r.CountFor(date))
	assert.False(t, r.IsRejected(model.Date(2026, time.September, 2), "Burgers"),
		"rejections are per-date")

	// Timestamps normalize to the diary key.
	evening := time.Date(2026, time.September, 1, 20, 0, 0, 0, time.UTC)
	assert.True(t, r.IsRejected(evening, "Burgers"))
}
