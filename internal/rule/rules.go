package rule

import (
	"time"

	"github.com/saucier/mise/internal/model"
)

func init() {
	Register(noConsecutiveMeat{})
	Register(windowRule{
		name:        "no-repeat-within-seven-days",
		description: "Do not serve the same meal within seven days of a previous occurrence",
		days:        7,
		blocks: func(meal model.Meal, neighbour model.Meal) bool {
			return meal.Name == neighbour.Name
		},
	})
	Register(windowRule{
		name:        "favourites-only-within-fourteen-days",
		description: "Only favourite meals may repeat within fourteen days",
		days:        14,
		blocks: func(meal model.Meal, neighbour model.Meal) bool {
			return !meal.HasTag(model.TagFavourite) && meal.Name == neighbour.Name
		},
	})
	Register(windowRule{
		name:        "no-pasta-within-five-days",
		description: "Do not serve pasta dishes within five days of each other",
		days:        5,
		blocks: func(meal model.Meal, neighbour model.Meal) bool {
			return meal.HasTag(model.TagPasta) && neighbour.HasTag(model.TagPasta)
		},
	})
	Register(sundayRoast{})
}

// noConsecutiveMeat rejects a meal whose meat value matches the meat of
// either nearest populated diary entry. Plain equality on the meat value:
// "none" repeats are blocked like any other, so two meatless meals cannot
// land on consecutive entries either.
type noConsecutiveMeat struct{}

func (noConsecutiveMeat) Name() string { return "no-consecutive-meat" }

func (noConsecutiveMeat) Description() string {
	return "Do not serve the same meat on consecutive diary entries"
}

func (noConsecutiveMeat) Admits(meal model.Meal, date time.Time, diary model.Diary) bool {
	meat := meal.Property(model.PropertyMeat)
	if prev, ok := diary.Previous(date); ok && prev.Meal.Property(model.PropertyMeat) == meat {
		return false
	}
	if next, ok := diary.Next(date); ok && next.Meal.Property(model.PropertyMeat) == meat {
		return false
	}
	return true
}

// windowRule rejects a meal when blocks(meal, neighbour) holds for any
// diary entry within days calendar days of the target date, in either
// direction. The target date's own entry, if being overwritten, is not a
// neighbour of itself.
type windowRule struct {
	blocks      func(meal model.Meal, neighbour model.Meal) bool
	name        string
	description string
	days        int
}

func (r windowRule) Name() string        { return r.name }
func (r windowRule) Description() string { return r.description }

func (r windowRule) Admits(meal model.Meal, date time.Time, diary model.Diary) bool {
	target := model.Day(date)
	lo := target.AddDate(0, 0, -r.days)
	hi := target.AddDate(0, 0, r.days)
	for _, entry := range diary.Window(lo, hi).Entries() {
		if entry.Date.Equal(target) {
			continue
		}
		if r.blocks(meal, entry.Meal) {
			return false
		}
	}
	return true
}

// sundayRoast admits only roast-tagged meals on Sundays and is indifferent
// on every other day.
type sundayRoast struct{}

func (sundayRoast) Name() string { return "sunday-roast" }

func (sundayRoast) Description() string {
	return "Serve only roasts on Sundays"
}

func (sundayRoast) Admits(meal model.Meal, date time.Time, _ model.Diary) bool {
	if date.Weekday() != time.Sunday {
		return true
	}
	return meal.HasTag(model.TagRoast)
}
