package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/habitrack/internal/engine"
	"github.com/papapumpkin/habitrack/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with today's status",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streaks and completion rates for every habit",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(_ context.Context, a *app) error {
		a.printer.HabitList(listItems(a.engine))
		return nil
	})
}

func runStats(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(_ context.Context, a *app) error {
		a.printer.Stats(listItems(a.engine))
		return nil
	})
}

// listItems pairs each habit with its summary in collection order.
func listItems(e *engine.Engine) []ui.ListItem {
	habits := e.Habits()
	items := make([]ui.ListItem, 0, len(habits))
	for _, h := range habits {
		items = append(items, ui.ListItem{Habit: h, Summary: e.Summary(h)})
	}
	return items
}
