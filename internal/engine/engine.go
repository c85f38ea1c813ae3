// Package engine owns the in-memory habit collection and implements every
// rule that changes it: checking habits off, recording values and memos,
// weekly soft-check propagation, editing and deleting habits. It also derives
// streaks and completion statistics from history.
//
// The engine is the only writer of the collection. Callers receive deep
// copies, and after each mutation the engine hands a copy of the whole
// collection to its Store. Persistence failures are logged and swallowed: the
// in-memory state stays authoritative for the session.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papapumpkin/habitrack/internal/habit"
	"github.com/papapumpkin/habitrack/internal/logging"
	"github.com/papapumpkin/habitrack/internal/telemetry"
)

// Store loads and saves the full habit collection as one unit.
type Store interface {
	Load(ctx context.Context) ([]habit.Habit, error)
	Save(ctx context.Context, habits []habit.Habit) error
}

// Engine holds the authoritative habit collection. It is safe for use by
// multiple goroutines, though operations are expected to arrive one at a time
// from user actions.
type Engine struct {
	mu      sync.Mutex
	habits  []habit.Habit
	store   Store
	now     func() time.Time
	newID   func() string
	logger  *zap.Logger
	journal *telemetry.Emitter
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the time source used to decide which day is "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the logger used for swallowed failures and debug traces.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

// WithJournal records every mutation to the given emitter.
func WithJournal(j *telemetry.Emitter) Option {
	return func(e *Engine) { e.journal = j }
}

// WithIDGenerator overrides how new habit IDs are minted.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// New creates an Engine and loads the collection from store once. A load
// failure leaves the collection empty; it is logged, not returned.
func New(ctx context.Context, store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		now:    time.Now,
		newID:  uuid.NewString,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	habits, err := store.Load(ctx)
	if err != nil {
		e.logger.Warn("load habits failed; starting empty", zap.Error(err))
		habits = nil
	}
	e.habits = e.adopt(habits)
	e.logger.Debug("engine ready", zap.Int("habits", len(e.habits)))
	return e
}

// Reload replaces the collection with a fresh Store.Load. On failure the
// current collection is kept.
func (e *Engine) Reload(ctx context.Context) {
	habits, err := e.store.Load(ctx)
	if err != nil {
		e.logger.Warn("reload habits failed; keeping current collection", zap.Error(err))
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.habits = e.adopt(habits)
	e.record(telemetry.KindHabitsReloaded, "", map[string]any{"habits": len(e.habits)})
}

// Today returns the engine's current local calendar day.
func (e *Engine) Today() habit.Day {
	return habit.DayOf(e.now().In(time.Local))
}

// Habits returns a deep copy of the collection in display order.
func (e *Engine) Habits() []habit.Habit {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneAll(e.habits)
}

// Habit returns a copy of the habit with the given ID.
func (e *Engine) Habit(id string) (habit.Habit, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := e.indexOf(id); i >= 0 {
		return e.habits[i].Clone(), true
	}
	return habit.Habit{}, false
}

// Find resolves a user-supplied reference: an exact ID, a unique ID prefix,
// or a case-insensitive title. Exact ID wins over prefix, prefix over title.
func (e *Engine) Find(ref string) (habit.Habit, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return habit.Habit{}, false
	}
	if i := e.indexOf(ref); i >= 0 {
		return e.habits[i].Clone(), true
	}

	match := -1
	for i := range e.habits {
		if strings.HasPrefix(e.habits[i].ID, ref) {
			if match >= 0 {
				match = -2 // ambiguous
				break
			}
			match = i
		}
	}
	if match >= 0 {
		return e.habits[match].Clone(), true
	}

	for i := range e.habits {
		if strings.EqualFold(e.habits[i].Title, ref) {
			return e.habits[i].Clone(), true
		}
	}
	return habit.Habit{}, false
}

// adopt takes ownership of loaded habits: it fills nil history maps and
// recomputes today's cached fields from history.
func (e *Engine) adopt(habits []habit.Habit) []habit.Habit {
	today := e.Today()
	out := make([]habit.Habit, 0, len(habits))
	for _, h := range habits {
		h = h.Clone()
		refreshToday(&h, today)
		out = append(out, h)
	}
	return out
}

func (e *Engine) indexOf(id string) int {
	for i := range e.habits {
		if e.habits[i].ID == id {
			return i
		}
	}
	return -1
}

// lookup returns a pointer into the collection. Callers must hold e.mu and
// must not append to or remove from e.habits while using it.
func (e *Engine) lookup(id string) *habit.Habit {
	if i := e.indexOf(id); i >= 0 {
		return &e.habits[i]
	}
	return nil
}

// persist hands a copy of the collection to the store. Failures are logged.
func (e *Engine) persist(ctx context.Context) {
	if err := e.store.Save(ctx, cloneAll(e.habits)); err != nil {
		e.logger.Warn("save habits failed", zap.Error(err), zap.Int("habits", len(e.habits)))
	}
}

// record writes a journal event. Failures are logged.
func (e *Engine) record(kind, habitID string, data any) {
	evt := telemetry.Event{Timestamp: e.now(), Kind: kind, HabitID: habitID, Data: data}
	if err := e.journal.Emit(evt); err != nil {
		e.logger.Warn("journal write failed", zap.Error(err), zap.String("kind", kind))
	}
	e.logger.Debug("habit mutation", zap.String("kind", kind), zap.String("habit", habitID))
}

// refreshToday recomputes the cached Completed/Measurement fields from
// today's history entry.
func refreshToday(h *habit.Habit, today habit.Day) {
	if entry, ok := h.History[today]; ok {
		h.Completed = entry.Value > 0
		h.Measurement = habit.Float(entry.Value)
		return
	}
	h.Completed = false
	h.Measurement = nil
}

func cloneAll(habits []habit.Habit) []habit.Habit {
	out := make([]habit.Habit, len(habits))
	for i := range habits {
		out[i] = habits[i].Clone()
	}
	return out
}
