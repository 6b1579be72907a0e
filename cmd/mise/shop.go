package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/saucier/mise/internal/cli"
	"github.com/saucier/mise/internal/common"
	"github.com/saucier/mise/internal/config"
	"github.com/saucier/mise/internal/model"
	"github.com/saucier/mise/internal/service"
	"github.com/saucier/mise/internal/shopping"
)

func shopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Build the shopping list from the confirmed plan",
		Long: `Aggregate the ingredients of every confirmed meal in the date range
into a consolidated shopping list. Lines merge when ingredient and unit
match exactly; "to taste" lines are kept as-is. Each line records which
meals need it.`,
		RunE: runShop,
	}

	// Flags
	cmd.Flags().StringP("start", "s", "", "First date of the range (format: 2006-01-02, default: tomorrow)")
	cmd.Flags().IntP("days", "d", 7, "Number of days in the range")
	cmd.Flags().StringP("output", "o", "", "Write the list to a file instead of the terminal")

	// Bind to viper
	_ = viper.BindPFlag("plan.start", cmd.Flags().Lookup("start"))
	_ = viper.BindPFlag("plan.days", cmd.Flags().Lookup("days"))
	_ = viper.BindPFlag("shop.output", cmd.Flags().Lookup("output"))

	return cmd
}

func runShop(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	dates, err := config.PlanDates(time.Now())
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		slog.Info("No dates in range")
		return nil
	}
	from, to := dates[0], dates[len(dates)-1]

	cat, err := loadCatalog()
	if err != nil {
		return err
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

	entries, err := store.GetDiaryEntries(ctx, service.DiaryFilter{From: &from, To: &to})
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return common.NewUserError(
			fmt.Sprintf("no confirmed meals between %s and %s; run 'mise plan' first",
				from.Format("2006-01-02"), to.Format("2006-01-02")), nil)
	}

	diary, err := cat.ResolveDiary(entries)
	if err != nil {
		return err
	}

	list := shopping.Build(diary)
	if _, err := store.SaveShoppingList(ctx, &list); err != nil {
		return fmt.Errorf("failed to save shopping list: %w", err)
	}

	title := fmt.Sprintf("Shopping list %s – %s", list.From.Format("2006-01-02"), list.To.Format("2006-01-02"))

	if output := viper.GetString("shop.output"); output != "" {
		path := config.ExpandPath(output)
		content := title + "\n\n" + list.String()
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			return fmt.Errorf("failed to write shopping list: %w", err)
		}
		slog.Info(cli.FormatSuccess("Shopping list written"), "path", path, "lines", len(list.Lines))
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.CartIcon+" "+title, formatList(list)))
	return nil
}

func formatList(list shopping.List) string {
	var b strings.Builder
	for _, line := range list.Lines {
		iq := model.IngredientQuantity{Name: line.Ingredient, Unit: line.Unit, Quantity: line.Quantity}
		fmt.Fprintf(&b, "%-36s %s\n",
			iq.String(),
			cli.SubtleStyle.Render(strings.Join(line.MealNames(), ", ")))
	}
	return strings.TrimRight(b.String(), "\n")
}
