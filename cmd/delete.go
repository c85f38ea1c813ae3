package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [habit]",
	Aliases: []string{"rm"},
	Short:   "Delete a habit by reference or by --index",
	Long: `Deletes a habit addressed by id, id prefix, or title. With --index, deletes
the habit at that position in the order shown by list.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func init() {
	deleteCmd.Flags().Int("index", -1, "position of the habit in list order")
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	byIndex := cmd.Flags().Changed("index")
	if byIndex == (len(args) == 1) {
		return fmt.Errorf("give either a habit or --index")
	}

	return withApp(cmd, func(ctx context.Context, a *app) error {
		if byIndex {
			index, _ := cmd.Flags().GetInt("index")
			habits := a.engine.Habits()
			if index < 0 || index >= len(habits) {
				return fmt.Errorf("index %d out of range (have %d habits)", index, len(habits))
			}
			title := habits[index].Title
			if !a.engine.DeleteAt(ctx, index) {
				return fmt.Errorf("index %d out of range", index)
			}
			a.printer.Success(fmt.Sprintf("deleted %s", title))
			return nil
		}

		h, err := a.resolve(args[0])
		if err != nil {
			return err
		}
		if !a.engine.Delete(ctx, h.ID) {
			return notFound(args[0])
		}
		a.printer.Success(fmt.Sprintf("deleted %s", h.Title))
		return nil
	})
}
