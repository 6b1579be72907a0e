package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saucier/mise/internal/cli"
	"github.com/saucier/mise/internal/config"
	"github.com/saucier/mise/internal/rule"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect the planning rules",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the available planning rules",
		Long: `List every registered planning rule. Rules named in plan.rules are
marked active; a plan run only enforces the active ones.`,
		RunE: runRules,
	})
	return cmd
}

func runRules(cmd *cobra.Command, _ []string) error {
	active := make(map[string]bool)
	for _, name := range config.ActiveRules() {
		active[name] = true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, cli.FormatTitle("Planning rules"))
	for _, name := range rule.Names() {
		r, err := rule.Lookup(name)
		if err != nil {
			return err
		}
		marker := "  "
		if active[name] {
			marker = cli.SuccessStyle.Render(cli.SuccessIcon) + " "
		}
		fmt.Fprintf(out, "%s%-34s %s\n", marker, name, cli.SubtleStyle.Render(r.Description()))
	}
	if len(active) == 0 {
		fmt.Fprintln(out, cli.SubtleStyle.Render("\nNo rules active; set plan.rules to enable some."))
	}
	return nil
}
