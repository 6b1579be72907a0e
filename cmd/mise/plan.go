package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saucier/mise/internal/cli"
	"github.com/saucier/mise/internal/common"
	"github.com/saucier/mise/internal/config"
	"github.com/saucier/mise/internal/model"
	"github.com/saucier/mise/internal/planner"
	"github.com/saucier/mise/internal/rule"
	"github.com/saucier/mise/internal/service"
	"github.com/saucier/mise/internal/tui"
)

func planCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate and confirm a meal plan",
		Long: `Generate a meal plan for the configured dates, one meal per date,
satisfying every active rule against the diary (including history and
the other dates being planned).

The proposal is presented for review; reject individual dates to have
them re-drawn, with rejected meals excluded for the rest of the run.`,
		RunE: runPlan,
	}

	// Flags
	cmd.Flags().StringP("start", "s", "", "First date to plan (format: 2006-01-02, default: tomorrow)")
	cmd.Flags().IntP("days", "d", 7, "Number of consecutive dates to plan")
	cmd.Flags().Int("max-attempts", 0, "Cap on generation passes before giving up")
	cmd.Flags().Int64("seed", 0, "Random seed (0 means random)")
	cmd.Flags().Bool("tui", false, "Review the plan in a full-screen picker")
	cmd.Flags().Bool("replan", false, "Allow replacing diary entries already confirmed for the range")

	// Bind to viper
	_ = viper.BindPFlag("plan.start", cmd.Flags().Lookup("start"))
	_ = viper.BindPFlag("plan.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("plan.max-attempts", cmd.Flags().Lookup("max-attempts"))
	_ = viper.BindPFlag("plan.seed", cmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("plan.tui", cmd.Flags().Lookup("tui"))
	_ = viper.BindPFlag("plan.replan", cmd.Flags().Lookup("replan"))

	return cmd
}

func runPlan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cat, err := loadCatalog()
	if err != nil {
		return err
	}

	rules, err := rule.SetFromNames(config.ActiveRules())
	if err != nil {
		return common.NewUserError("invalid plan.rules configuration", err)
	}

	pool, err := cat.Resolve(config.CandidateMeals())
	if err != nil {
		return common.NewUserError("invalid plan.meals configuration", err)
	}

	dates, err := config.PlanDates(time.Now())
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		slog.Info("No dates to plan")
		return nil
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			common.LogError(closeErr, "Failed to close storage", nil)
		}
	}()

	history, err := loadHistory(ctx, store, cat)
	if err != nil {
		return err
	}

	history, err = prepareHistory(history, dates)
	if err != nil {
		return err
	}

	session, err := newSession(pool, rules, history, dates)
	if err != nil {
		return err
	}

	var prompter service.Prompter
	if viper.GetBool("plan.tui") {
		prompter = tui.NewPrompter()
	} else {
		prompter = cli.NewPrompter(nil, nil)
	}

	slog.Info("Planning meals",
		"dates", len(dates),
		"from", dates[0].Format("2006-01-02"),
		"to", dates[len(dates)-1].Format("2006-01-02"),
		"candidates", len(pool),
		"rules", len(rules.Rules()))

	return confirmLoop(ctx, session, prompter, store)
}

// prepareHistory ensures the target dates are free in the diary. Already
// confirmed dates require --replan, which drops them from the fixed
// history so they can be re-picked.
func prepareHistory(history model.Diary, dates []time.Time) (model.Diary, error) {
	var populated []time.Time
	for _, date := range dates {
		if history.Has(date) {
			populated = append(populated, date)
		}
	}
	if len(populated) == 0 {
		return history, nil
	}
	if !viper.GetBool("plan.replan") {
		return model.Diary{}, common.NewUserError(
			fmt.Sprintf("%d of the requested dates already have confirmed meals; pass --replan to replace them", len(populated)),
			nil)
	}
	return history.Except(populated...), nil
}

func newSession(pool []model.Meal, rules *rule.Set, history model.Diary, dates []time.Time) (*planner.Session, error) {
	var opts []planner.Option
	if max := config.MaxAttempts(); max > 0 {
		opts = append(opts, planner.WithMaxAttempts(max))
	}
	if seed := viper.GetInt64("plan.seed"); seed != 0 {
		opts = append(opts, planner.WithRand(rand.New(rand.NewPCG(uint64(seed), 0))))
	}
	return planner.NewSession(pool, rules, history, dates, opts...)
}

// confirmLoop drives generate → present → accept/reject until the user
// accepts, the run turns infeasible, or the review is abandoned.
func confirmLoop(ctx context.Context, session *planner.Session, prompter service.Prompter, store service.Storage) error {
	for {
		proposal, err := session.Propose(ctx)
		if errors.Is(err, planner.ErrInfeasible) {
			return common.NewUserError(
				"no valid plan exists under the current rules and rejections; relax plan.rules or widen plan.meals", err)
		}
		if err != nil {
			return err
		}

		review, err := prompter.ReviewPlan(ctx, proposal, session.Dates())
		if err != nil {
			return err
		}

		if review.Accepted {
			entries := make(map[time.Time]string, proposal.Len())
			for _, entry := range proposal.Entries() {
				entries[entry.Date] = entry.Meal.Name
			}
			if err := store.SaveDiaryEntries(ctx, entries); err != nil {
				return fmt.Errorf("failed to save confirmed plan: %w", err)
			}
			slog.Info(cli.FormatSuccess("Meal plan confirmed"), "dates", len(entries))
			slog.Info("Run 'mise shop' to build the shopping list")
			return nil
		}

		for _, date := range review.Rejected {
			if meal, ok := proposal.Meal(date); ok {
				session.Reject(date, meal.Name)
			}
		}
		slog.Info("Regenerating rejected dates", "rejected", len(review.Rejected))
	}
}
