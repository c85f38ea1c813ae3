package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/habitrack/internal/habit"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <habit>",
	Short: "Check or uncheck a habit for today or --date",
	Long: `Toggles completion. For today this flips the completed state; weekly habits
also gain or lose soft checks on the following six days. With --date, the
given day is checked if empty and cleared otherwise.`,
	Args: cobra.ExactArgs(1),
	RunE: runToggle,
}

var clearCmd = &cobra.Command{
	Use:   "clear <habit>",
	Short: "Remove the entry for today or --date",
	Args:  cobra.ExactArgs(1),
	RunE:  runClear,
}

func init() {
	toggleCmd.Flags().StringP("date", "d", "", "day to toggle: YYYY-MM-DD, today, or yesterday")
	clearCmd.Flags().StringP("date", "d", "", "day to clear: YYYY-MM-DD, today, or yesterday")
	rootCmd.AddCommand(toggleCmd)
	rootCmd.AddCommand(clearCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
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
		wasSoft := a.engine.IsSoftCheck(h, at)
		var ok bool
		if day == a.engine.Today() {
			ok = a.engine.Toggle(ctx, h.ID)
		} else {
			ok = a.engine.ToggleDay(ctx, h.ID, at)
		}
		if !ok {
			return notFound(args[0])
		}

		updated, _ := a.engine.Habit(h.ID)
		switch _, done := updated.EntryOn(day); {
		case done:
			a.printer.Success(fmt.Sprintf("%s checked for %s", updated.Title, day))
		case wasSoft:
			a.printer.Info(fmt.Sprintf("%s soft check cleared for %s", updated.Title, day))
		default:
			a.printer.Info(fmt.Sprintf("%s unchecked for %s", updated.Title, day))
		}
		return nil
	})
}

func runClear(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		h, err := a.resolve(args[0])
		if err != nil {
			return err
		}
		at, err := dateFlag(cmd, time.Now())
		if err != nil {
			return err
		}
		if !a.engine.ClearValue(ctx, h.ID, at) {
			return notFound(args[0])
		}
		a.printer.Success(fmt.Sprintf("cleared %s for %s", h.Title, habit.DayOf(at.In(time.Local))))
		return nil
	})
}
