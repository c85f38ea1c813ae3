package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/habitrack/internal/habit"
)

var setCmd = &cobra.Command{
	Use:   "set <habit> <value>",
	Short: "Record a value for today or --date",
	Long: `Writes an entry. For yes/no habits a value of 1 is a check; on a weekly
habit it also writes soft checks on the following six days. Without --memo the
day's existing memo is kept.`,
	Args: cobra.ExactArgs(2),
	RunE: runSet,
}

var measureCmd = &cobra.Command{
	Use:   "measure <habit> <value>",
	Short: "Record today's measurement",
	Args:  cobra.ExactArgs(2),
	RunE:  runMeasure,
}

var memoCmd = &cobra.Command{
	Use:   "memo <habit> <text>",
	Short: "Attach a memo to an existing entry",
	Long:  "Replaces the memo of the entry on today or --date. An empty text removes the memo.",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runMemo,
}

func init() {
	setCmd.Flags().StringP("date", "d", "", "day to set: YYYY-MM-DD, today, or yesterday")
	setCmd.Flags().StringP("memo", "m", "", "memo for the entry")
	memoCmd.Flags().StringP("date", "d", "", "day of the entry: YYYY-MM-DD, today, or yesterday")
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(measureCmd)
	rootCmd.AddCommand(memoCmd)
}

func runSet(cmd *cobra.Command, args []string) error {
	value, err := habit.ParseValue(args[1])
	if err != nil {
		return err
	}
	memo, _ := cmd.Flags().GetString("memo")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		h, err := a.resolve(args[0])
		if err != nil {
			return err
		}
		at, err := dateFlag(cmd, time.Now())
		if err != nil {
			return err
		}
		if !a.engine.SetValue(ctx, h.ID, at, habit.Float(value), memo) {
			return notFound(args[0])
		}
		a.printer.Success(fmt.Sprintf("%s set to %s for %s", h.Title, args[1], habit.DayOf(at.In(time.Local))))
		return nil
	})
}

func runMeasure(cmd *cobra.Command, args []string) error {
	value, err := habit.ParseValue(args[1])
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		h, err := a.resolve(args[0])
		if err != nil {
			return err
		}
		if !a.engine.SetMeasurement(ctx, h.ID, value) {
			return notFound(args[0])
		}
		a.printer.Success(fmt.Sprintf("%s measured %s today", h.Title, args[1]))
		return nil
	})
}

func runMemo(cmd *cobra.Command, args []string) error {
	text := strings.Join(args[1:], " ")

	return withApp(cmd, func(ctx context.Context, a *app) error {
		h, err := a.resolve(args[0])
		if err != nil {
			return err
		}
		at, err := dateFlag(cmd, time.Now())
		if err != nil {
			return err
		}
		day := habit.DayOf(at.In(time.Local))
		if !a.engine.SetMemo(ctx, h.ID, day, text) {
			return fmt.Errorf("%s has no entry on %s", h.Title, day)
		}
		a.printer.Success(fmt.Sprintf("memo saved for %s on %s", h.Title, day))
		return nil
	})
}
