package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <habit>",
	Short: "Show a habit's statistics and history",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(_ context.Context, a *app) error {
		h, err := a.resolve(args[0])
		if err != nil {
			return err
		}
		a.printer.HabitDetail(h, a.engine.Summary(h))
		return nil
	})
}
