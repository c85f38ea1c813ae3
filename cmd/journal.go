package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/habitrack/internal/config"
	"github.com/papapumpkin/habitrack/internal/telemetry"
	"github.com/papapumpkin/habitrack/internal/ui"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "View the mutation journal",
	Long: `Reads and formats the JSONL journal of habit mutations.

With --follow (-f), watches the file for new events (like tail -f).`,
	Args: cobra.NoArgs,
	RunE: runJournal,
}

func init() {
	journalCmd.Flags().BoolP("follow", "f", false, "follow the file for new events")
	rootCmd.AddCommand(journalCmd)
}

func runJournal(cmd *cobra.Command, _ []string) error {
	follow, _ := cmd.Flags().GetBool("follow")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, &cfg)
	path := cfg.JournalPath()

	printer := ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		printer.NoColor()
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !follow {
			printer.Info("journal is empty")
			return nil
		}
		return fmt.Errorf("journal: open %s: %w", path, err)
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	if err := printLines(reader, printer); err != nil {
		return fmt.Errorf("journal: read %s: %w", path, err)
	}
	if !follow {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return tailFollow(ctx, reader, path, printer)
}

// printLines prints every complete line available from r.
func printLines(r *bufio.Reader, printer *ui.Printer) error {
	for {
		line, err := r.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			printEvent(printer, line)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// tailFollow watches the file for new data using fsnotify and prints new events.
func tailFollow(ctx context.Context, r *bufio.Reader, path string, printer *ui.Printer) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("journal: create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("journal: watch %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			if err := printLines(r, printer); err != nil {
				return fmt.Errorf("journal: read %s: %w", path, err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printer.Error(err.Error())
		}
	}
}

// printEvent decodes a journal line and prints it, or prints the raw line
// when it is not a valid event.
func printEvent(printer *ui.Printer, line string) {
	evt, err := telemetry.DecodeEvent([]byte(line))
	if err != nil {
		printer.Info("??? " + line)
		return
	}
	printer.JournalEvent(evt)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
