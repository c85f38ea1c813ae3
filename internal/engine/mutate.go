package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/papapumpkin/habitrack/internal/habit"
	"github.com/papapumpkin/habitrack/internal/telemetry"
)

// AddRequest describes a new habit. Frequency defaults to daily and a zero
// Appearance to habit.DefaultAppearance. Goal only matters for measurable
// habits and is dropped when it fails habit.ValidValue.
type AddRequest struct {
	Title      string
	Type       habit.Type
	Frequency  habit.Frequency
	Appearance habit.Appearance
	Goal       *float64
}

// Add appends a new habit with empty history and returns a copy of it.
// Titles are not required to be unique.
func (e *Engine) Add(ctx context.Context, req AddRequest) habit.Habit {
	e.mu.Lock()
	defer e.mu.Unlock()

	typ := req.Type
	if typ == "" {
		typ = habit.TypeYesNo
	}
	h := habit.New(e.newID(), req.Title, typ, req.Frequency, e.now())
	if req.Appearance != (habit.Appearance{}) {
		h.Appearance = req.Appearance
	}
	if req.Goal != nil && habit.ValidValue(*req.Goal) {
		h.Goal = habit.Float(*req.Goal)
	}

	e.habits = append(e.habits, h)
	e.record(telemetry.KindHabitAdded, h.ID, map[string]any{
		"title": h.Title, "type": string(h.Type), "frequency": string(h.Frequency),
	})
	e.persist(ctx)
	return h.Clone()
}

// Toggle flips today's completion. Checking writes a hard check for today
// and, for weekly habits, overwrites the next six days with soft checks.
// Unchecking removes today's entry and, for weekly habits, the next six
// days whatever they hold. It reports false if the habit does not exist.
func (e *Engine) Toggle(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.lookup(id)
	if h == nil {
		return false
	}
	today := e.Today()
	refreshToday(h, today)

	if !h.Completed {
		h.History[today] = habit.Entry{Value: habit.HardCheck}
		if h.IsWeekly() {
			propagateSoftChecks(h, today)
		}
	} else {
		delete(h.History, today)
		if h.IsWeekly() {
			retractSoftChecks(h, today)
		}
	}
	refreshToday(h, today)

	e.record(telemetry.KindHabitToggled, h.ID, map[string]any{"day": today.String(), "completed": h.Completed})
	e.persist(ctx)
	return true
}

// SetValue writes or clears the entry for the calendar day containing at.
//
// With a value, the entry is replaced; memo replaces the stored memo unless
// it is empty, in which case the previous memo for that day is kept. A hard
// check on a weekly habit overwrites the next six days with soft checks.
//
// With a nil value, the entry is removed. If it was a hard check on a weekly
// habit, the next six days are removed as well.
//
// It reports false, changing nothing, if the habit does not exist or value
// fails habit.ValidValue.
func (e *Engine) SetValue(ctx context.Context, id string, at time.Time, value *float64, memo string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.lookup(id)
	if h == nil || !e.acceptValue(h, value) {
		return false
	}
	e.setValue(ctx, h, habit.DayOf(at.In(time.Local)), value, memo)
	return true
}

// setValue is the body of SetValue. The caller holds e.mu.
func (e *Engine) setValue(ctx context.Context, h *habit.Habit, day habit.Day, value *float64, memo string) {
	if value != nil {
		writeValue(h, day, *value, memo)
		e.record(telemetry.KindEntrySet, h.ID, map[string]any{"day": day.String(), "value": *value})
	} else {
		clearValue(h, day)
		e.record(telemetry.KindEntryCleared, h.ID, map[string]any{"day": day.String()})
	}
	refreshToday(h, e.Today())
	e.persist(ctx)
}

// acceptValue reports whether value may be written to h. A nil value is a
// clear and always accepted.
func (e *Engine) acceptValue(h *habit.Habit, value *float64) bool {
	if value == nil || habit.ValidValue(*value) {
		return true
	}
	e.logger.Warn("rejecting entry value", zap.String("habit", h.ID), zap.Float64("value", *value))
	return false
}

// ClearValue removes the entry for the day containing at. It is SetValue
// with no value.
func (e *Engine) ClearValue(ctx context.Context, id string, at time.Time) bool {
	return e.SetValue(ctx, id, at, nil, "")
}

// ToggleDay marks the day containing at as done when it has no entry, and
// clears it otherwise. Clearing drops the memo along with the entry.
func (e *Engine) ToggleDay(ctx context.Context, id string, at time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.lookup(id)
	if h == nil {
		return false
	}
	day := habit.DayOf(at.In(time.Local))
	if _, exists := h.History[day]; exists {
		e.setValue(ctx, h, day, nil, "")
	} else {
		e.setValue(ctx, h, day, habit.Float(habit.HardCheck), "")
	}
	return true
}

// SetMemo replaces the memo of the entry stored under day. It never creates
// an entry: without one it does nothing and reports false.
func (e *Engine) SetMemo(ctx context.Context, id string, day habit.Day, memo string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.lookup(id)
	if h == nil {
		return false
	}
	entry, ok := h.History[day]
	if !ok {
		return false
	}
	entry.Memo = memo
	h.History[day] = entry

	e.record(telemetry.KindMemoSet, h.ID, map[string]any{"day": day.String()})
	e.persist(ctx)
	return true
}

// SetMeasurement records value as today's entry, whatever the habit type,
// and refreshes the cached measurement. Like SetValue it rejects values that
// fail habit.ValidValue.
func (e *Engine) SetMeasurement(ctx context.Context, id string, value float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.lookup(id)
	if h == nil || !e.acceptValue(h, &value) {
		return false
	}
	today := e.Today()
	writeValue(h, today, value, "")
	refreshToday(h, today)

	e.record(telemetry.KindMeasurementSet, h.ID, map[string]any{"day": today.String(), "value": value})
	e.persist(ctx)
	return true
}

// Delete removes the habit with the given ID.
func (e *Engine) Delete(ctx context.Context, id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.indexOf(id)
	if i < 0 {
		return false
	}
	e.removeAt(ctx, i)
	return true
}

// DeleteAt removes the habit at position index in the order returned by
// Habits. Callers holding a filtered or sorted view should use Delete.
func (e *Engine) DeleteAt(ctx context.Context, index int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.habits) {
		return false
	}
	e.removeAt(ctx, index)
	return true
}

func (e *Engine) removeAt(ctx context.Context, i int) {
	removed := e.habits[i]
	e.habits = append(e.habits[:i], e.habits[i+1:]...)
	e.record(telemetry.KindHabitDeleted, removed.ID, map[string]any{"title": removed.Title})
	e.persist(ctx)
}

// writeValue stores value on day, keeping the day's previous memo when memo
// is empty, and propagates soft checks for a weekly hard check.
func writeValue(h *habit.Habit, day habit.Day, value float64, memo string) {
	if memo == "" {
		memo = h.History[day].Memo
	}
	h.History[day] = habit.Entry{Value: value, Memo: memo}
	if h.IsWeekly() && value == habit.HardCheck {
		propagateSoftChecks(h, day)
	}
}

// clearValue removes day's entry and, when it was a weekly hard check, the
// soft-check window after it.
func clearValue(h *habit.Habit, day habit.Day) {
	existing, ok := h.History[day]
	wasHardCheck := ok && existing.Value == habit.HardCheck
	delete(h.History, day)
	if wasHardCheck && h.IsWeekly() {
		retractSoftChecks(h, day)
	}
}

// propagateSoftChecks overwrites the SoftCheckSpan days after from with soft
// checks, replacing whatever was there.
func propagateSoftChecks(h *habit.Habit, from habit.Day) {
	for i := 1; i <= habit.SoftCheckSpan; i++ {
		h.History[from.AddDays(i)] = habit.Entry{Value: habit.SoftCheck}
	}
}

// retractSoftChecks removes the SoftCheckSpan days after from, whatever their
// value.
func retractSoftChecks(h *habit.Habit, from habit.Day) {
	for i := 1; i <= habit.SoftCheckSpan; i++ {
		delete(h.History, from.AddDays(i))
	}
}

// backfillSoftChecks finds the most recent hard check within the last seven
// days (today included) and adds soft checks after it, only on empty days.
func backfillSoftChecks(h *habit.Habit, today habit.Day) {
	for offset := 0; offset <= habit.SoftCheckSpan; offset++ {
		day := today.AddDays(-offset)
		entry, ok := h.History[day]
		if !ok || entry.Value != habit.HardCheck {
			continue
		}
		for i := 1; i <= habit.SoftCheckSpan; i++ {
			next := day.AddDays(i)
			if _, taken := h.History[next]; !taken {
				h.History[next] = habit.Entry{Value: habit.SoftCheck}
			}
		}
		return
	}
}

// removeAllSoftChecks deletes every soft-check entry in the history.
func removeAllSoftChecks(h *habit.Habit) {
	for day, entry := range h.History {
		if entry.Value == habit.SoftCheck {
			delete(h.History, day)
		}
	}
}
