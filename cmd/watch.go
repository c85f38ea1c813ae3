package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papapumpkin/habitrack/internal/store"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reprint the habit list whenever the data file changes",
	Long: `Watches the store file for changes made by other habitrack processes or
editors, reloads the collection, and prints the list again. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		w, err := store.NewWatcher(a.storePath)
		if err != nil {
			return err
		}
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watchLoop(ctx, a, w.Changes)
	})
}

// watchLoop reloads and reprints on every change until ctx ends or changes
// closes.
func watchLoop(ctx context.Context, a *app, changes <-chan store.Change) error {
	a.printer.HabitList(listItems(a.engine))
	a.printer.Info(fmt.Sprintf("watching %s", a.storePath))

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			a.logger.Debug("store changed", zap.String("file", change.File), zap.Time("at", change.At))
			a.engine.Reload(ctx)
			a.printer.HabitList(listItems(a.engine))
		}
	}
}
