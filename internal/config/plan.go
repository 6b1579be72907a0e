package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/saucier/mise/internal/common"
	"github.com/saucier/mise/internal/model"
)

const dateLayout = "2006-01-02"

// PlanDates resolves the target dates for a planning run. Explicit
// plan.dates wins; otherwise a consecutive range is built from plan.start
// and plan.days. With no start configured, planning begins tomorrow.
func PlanDates(now time.Time) ([]time.Time, error) {
	if explicit := viper.GetStringSlice("plan.dates"); len(explicit) > 0 {
		dates := make([]time.Time, 0, len(explicit))
		for _, raw := range explicit {
			date, err := time.Parse(dateLayout, raw)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid plan date %q", common.ErrInvalidConfig, raw)
			}
			dates = append(dates, model.Day(date))
		}
		return dates, nil
	}

	start := model.Day(now).AddDate(0, 0, 1)
	if raw := viper.GetString("plan.start"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid plan.start %q", common.ErrInvalidConfig, raw)
		}
		start = model.Day(parsed)
	}

	days := viper.GetInt("plan.days")
	if days == 0 {
		days = 7
	}
	if days < 0 {
		return nil, fmt.Errorf("%w: plan.days must be positive", common.ErrInvalidConfig)
	}

	dates := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, start.AddDate(0, 0, i))
	}
	return dates, nil
}

// ActiveRules returns the configured rule names. An empty list means no
// rules: every meal admissible everywhere.
func ActiveRules() []string {
	return viper.GetStringSlice("plan.rules")
}

// CandidateMeals returns the configured candidate meal names. An empty
// list selects the whole catalog.
func CandidateMeals() []string {
	return viper.GetStringSlice("plan.meals")
}

// MaxAttempts returns the configured cap on generation passes.
func MaxAttempts() int {
	return viper.GetInt("plan.max-attempts")
}
