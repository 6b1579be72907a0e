package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/saucier/mise/internal/cli"
	"github.com/saucier/mise/internal/common"
	"github.com/saucier/mise/internal/model"
	"github.com/saucier/mise/internal/service"
)

func diaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diary",
		Short: "Inspect and edit the meal diary",
	}
	cmd.AddCommand(diaryShowCmd())
	cmd.AddCommand(diaryRemoveCmd())
	return cmd
}

func diaryShowCmd() *cobra.Command {
	var fromFlag, toFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show confirmed diary entries",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			filter := service.DiaryFilter{}
			if fromFlag != "" {
				from, err := parseDiaryDate(fromFlag)
				if err != nil {
					return err
				}
				filter.From = &from
			}
			if toFlag != "" {
				to, err := parseDiaryDate(toFlag)
				if err != nil {
					return err
				}
				filter.To = &to
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

			entries, err := store.GetDiaryEntries(ctx, filter)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, cli.SubtleStyle.Render("Diary is empty."))
				return nil
			}

			dates := make([]time.Time, 0, len(entries))
			for date := range entries {
				dates = append(dates, date)
			}
			sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

			fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("Diary (%d entries)", len(entries))))
			for _, date := range dates {
				fmt.Fprintf(out, "%-14s %s\n", model.FormatDate(date), entries[date])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "First date to show (format: 2006-01-02)")
	cmd.Flags().StringVar(&toFlag, "to", "", "Last date to show (format: 2006-01-02)")
	return cmd
}

func diaryRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <date>",
		Short: "Remove one diary entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			date, err := parseDiaryDate(args[0])
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

			if err := store.RemoveDiaryEntry(ctx, date); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Removed "+model.FormatDate(date)))
			return nil
		},
	}
}

func parseDiaryDate(raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, common.NewUserError(fmt.Sprintf("invalid date %q (want 2006-01-02)", raw), err)
	}
	return model.Day(date), nil
}
