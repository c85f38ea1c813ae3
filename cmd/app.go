package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papapumpkin/habitrack/internal/config"
	"github.com/papapumpkin/habitrack/internal/engine"
	"github.com/papapumpkin/habitrack/internal/habit"
	"github.com/papapumpkin/habitrack/internal/logging"
	"github.com/papapumpkin/habitrack/internal/store"
	"github.com/papapumpkin/habitrack/internal/telemetry"
	"github.com/papapumpkin/habitrack/internal/ui"
)

// app bundles everything a command needs for one invocation.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	store     store.Backend
	storePath string
	journal   *telemetry.Emitter
	engine    *engine.Engine
	printer   *ui.Printer
}

// openApp loads configuration and wires the store, journal, and engine.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	applyFlagOverrides(cmd, &cfg)

	logger, err := logging.New(cfg.LogLevel(), cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	storePath := cfg.StorePath(store.DefaultFileName(cfg.Store.Backend))
	if err := os.MkdirAll(filepath.Dir(storePath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	ctx := cmdContext(cmd)
	st, err := store.Open(ctx, cfg.Store.Backend, storePath)
	if err != nil {
		return nil, err
	}

	var journal *telemetry.Emitter
	if cfg.Journal.Enabled {
		path := cfg.JournalPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			st.Close()
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
		journal, err = telemetry.NewEmitter(path)
		if err != nil {
			st.Close()
			return nil, err
		}
	}

	logger.Debug("opening habits",
		zap.String("backend", cfg.Store.Backend),
		zap.String("path", storePath),
		zap.Bool("journal", journal != nil))

	printer := ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	if noColor, _ := cmd.Flags().GetBool("no-color"); noColor {
		printer.NoColor()
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		store:     st,
		storePath: storePath,
		journal:   journal,
		engine: engine.New(ctx, st,
			engine.WithLogger(logger),
			engine.WithJournal(journal)),
		printer: printer,
	}, nil
}

// applyFlagOverrides applies CLI flag values to the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
		cfg.DataDir = v
	}
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Store.Backend = v
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
}

// Close releases the store and journal.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
	if err := a.journal.Close(); err != nil {
		a.logger.Warn("closing journal", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// withApp opens the app, runs fn, and closes the app.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmdContext(cmd)
	return fn(ctx, a)
}

// resolve finds a habit by id, id prefix, or title.
func (a *app) resolve(ref string) (habit.Habit, error) {
	h, ok := a.engine.Find(ref)
	if !ok {
		return habit.Habit{}, notFound(ref)
	}
	return h, nil
}

func notFound(ref string) error {
	return fmt.Errorf("habit %q not found", ref)
}

// parseDate accepts YYYY-MM-DD, "today", or "yesterday" relative to now.
func parseDate(s string, now time.Time) (time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	}
	d, err := habit.ParseDay(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD, today, or yesterday", s)
	}
	return d.Time(time.Local), nil
}

// dateFlag reads the --date flag relative to now.
func dateFlag(cmd *cobra.Command, now time.Time) (time.Time, error) {
	s, _ := cmd.Flags().GetString("date")
	return parseDate(s, now)
}
