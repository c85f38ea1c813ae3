package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/habitrack/internal/engine"
	"github.com/papapumpkin/habitrack/internal/habit"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new habit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringP("type", "t", "yesNo", "habit type: yesNo or measurable")
	addCmd.Flags().StringP("frequency", "f", "daily", "habit frequency: daily or weekly")
	addCmd.Flags().String("color", "", "habit color as #rrggbb (default from config)")
	addCmd.Flags().String("goal", "", "daily goal for measurable habits")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("title must not be empty")
	}

	typeFlag, _ := cmd.Flags().GetString("type")
	typ, err := habit.ParseType(typeFlag)
	if err != nil {
		return err
	}
	freqFlag, _ := cmd.Flags().GetString("frequency")
	freq, err := habit.ParseFrequency(freqFlag)
	if err != nil {
		return err
	}

	req := engine.AddRequest{Title: title, Type: typ, Frequency: freq}
	if cmd.Flags().Changed("goal") {
		goalFlag, _ := cmd.Flags().GetString("goal")
		goal, err := habit.ParseValue(goalFlag)
		if err != nil {
			return fmt.Errorf("--goal: %w", err)
		}
		req.Goal = habit.Float(goal)
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {

		color, _ := cmd.Flags().GetString("color")
		if color == "" {
			color = a.cfg.DefaultColor
		}
		if color != "" {
			appearance, err := habit.ParseAppearance(color)
			if err != nil {
				return err
			}
			req.Appearance = appearance
		}
		h := a.engine.Add(ctx, req)
		a.printer.Success(fmt.Sprintf("added %s (%s)", h.Title, h.ID))
		return nil
	})
}
