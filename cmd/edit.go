package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/habitrack/internal/engine"
	"github.com/papapumpkin/habitrack/internal/habit"
)

var editCmd = &cobra.Command{
	Use:   "edit <habit>",
	Short: "Change a habit's title, type, frequency, color, measurement, or goal",
	Long: `Applies only the flags that are given.

Switching a yes/no habit from daily to weekly fills the empty days after its
most recent check with soft checks; switching back to daily removes every soft
check. --measurement and --goal apply to measurable habits and are ignored
when they are not numbers.`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().String("title", "", "new title")
	editCmd.Flags().StringP("type", "t", "", "new type: yesNo or measurable")
	editCmd.Flags().StringP("frequency", "f", "", "new frequency: daily or weekly")
	editCmd.Flags().String("color", "", "new color as #rrggbb")
	editCmd.Flags().String("measurement", "", "today's measurement")
	editCmd.Flags().String("goal", "", "new goal")
	rootCmd.AddCommand(editCmd)
}

// editRequest builds an EditRequest from the flags that were set.
func editRequest(cmd *cobra.Command) (engine.EditRequest, error) {
	var req engine.EditRequest
	flags := cmd.Flags()

	req.Title, _ = flags.GetString("title")
	if flags.Changed("type") {
		v, _ := flags.GetString("type")
		typ, err := habit.ParseType(v)
		if err != nil {
			return req, err
		}
		req.Type = typ
	}
	if flags.Changed("frequency") {
		v, _ := flags.GetString("frequency")
		freq, err := habit.ParseFrequency(v)
		if err != nil {
			return req, err
		}
		req.Frequency = freq
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		appearance, err := habit.ParseAppearance(v)
		if err != nil {
			return req, err
		}
		req.Appearance = appearance
	}
	req.Measurement, _ = flags.GetString("measurement")
	req.Goal, _ = flags.GetString("goal")
	return req, nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	req, err := editRequest(cmd)
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		h, err := a.resolve(args[0])
		if err != nil {
			return err
		}
		if !a.engine.EditHabit(ctx, h.ID, req) {
			return notFound(args[0])
		}
		updated, _ := a.engine.Habit(h.ID)
		a.printer.Success(fmt.Sprintf("updated %s (%s, %s)", updated.Title, updated.Frequency, updated.Type))
		return nil
	})
}
