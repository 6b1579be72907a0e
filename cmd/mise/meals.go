package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/saucier/mise/internal/cli"
	"github.com/saucier/mise/internal/model"
)

func mealsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meals",
		Short: "Inspect the meal catalog",
	}
	cmd.AddCommand(mealsListCmd())
	cmd.AddCommand(mealsShowCmd())
	return cmd
}

func mealsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every meal in the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}

			var b strings.Builder
			for _, meal := range cat.Meals() {
				fmt.Fprintf(&b, "%-36s %-8s %s\n",
					meal.Name,
					meal.Property(model.PropertyMeat),
					cli.SubtleStyle.Render(tagSummary(meal)))
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Meal catalog (%d meals)", len(cat.Names()))))
			fmt.Fprint(out, b.String())
			return nil
		},
	}
}

func mealsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one meal in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog()
			if err != nil {
				return err
			}
			meal, err := cat.Meal(args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Meat: %s\n", meal.Property(model.PropertyMeat))
			if tags := tagSummary(meal); tags != "" {
				fmt.Fprintf(&b, "Tags: %s\n", tags)
			}
			b.WriteString("\nIngredients:\n")
			for _, iq := range meal.Ingredients {
				fmt.Fprintf(&b, "  %s\n", iq)
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.PlateIcon+" "+meal.Name, strings.TrimRight(b.String(), "\n")))
			return nil
		},
	}
}

func tagSummary(meal model.Meal) string {
	tags := make([]string, 0, len(meal.Tags))
	for tag, set := range meal.Tags {
		if set {
			tags = append(tags, string(tag))
		}
	}
	sort.Strings(tags)
	return strings.Join(tags, ", ")
}
