package engine

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/papapumpkin/habitrack/internal/habit"
	"github.com/papapumpkin/habitrack/internal/telemetry"
)

// EditRequest carries the fields of the edit-habit form. Empty Title, Type
// and Frequency and a zero Appearance keep the current value. Measurement and
// Goal are the raw text typed by the user and only apply to measurable
// habits; text that is not a finite, non-negative number is ignored.
type EditRequest struct {
	Title       string
	Type        habit.Type
	Frequency   habit.Frequency
	Appearance  habit.Appearance
	Measurement string
	Goal        string
}

// EditHabit rewrites a habit's title, type, frequency and appearance.
//
// Switching a yes/no habit from daily to weekly looks back over the last
// seven days for the most recent hard check and fills the following six days
// with soft checks, but only where no entry exists; unlike Toggle and
// SetValue it never overwrites. Switching back to daily removes every soft
// check in the history.
//
// For measurable habits a parseable Measurement is recorded as today's entry
// and a parseable Goal replaces the goal. Yes/no habits lose their goal.
func (e *Engine) EditHabit(ctx context.Context, id string, req EditRequest) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	h := e.lookup(id)
	if h == nil {
		return false
	}
	today := e.Today()

	if req.Title != "" {
		h.Title = req.Title
	}
	if req.Type != "" {
		h.Type = req.Type
	}
	if req.Appearance != (habit.Appearance{}) {
		h.Appearance = req.Appearance
	}
	frequencyChanged := req.Frequency != "" && req.Frequency != h.Frequency
	if req.Frequency != "" {
		h.Frequency = req.Frequency
	}

	if frequencyChanged && h.Type == habit.TypeYesNo {
		switch h.Frequency {
		case habit.FrequencyWeekly:
			backfillSoftChecks(h, today)
		case habit.FrequencyDaily:
			removeAllSoftChecks(h)
		}
	}

	if h.Type == habit.TypeMeasurable {
		if v, err := habit.ParseValue(req.Measurement); err == nil {
			writeValue(h, today, v, "")
		} else if strings.TrimSpace(req.Measurement) != "" {
			e.logger.Debug("ignoring measurement", zap.String("habit", h.ID), zap.Error(err))
		}
		if g, err := habit.ParseValue(req.Goal); err == nil {
			h.Goal = habit.Float(g)
		} else if strings.TrimSpace(req.Goal) != "" {
			e.logger.Debug("ignoring goal", zap.String("habit", h.ID), zap.Error(err))
		}
	} else {
		h.Goal = nil
	}
	refreshToday(h, today)

	e.record(telemetry.KindHabitEdited, h.ID, map[string]any{
		"title": h.Title, "type": string(h.Type), "frequency": string(h.Frequency),
		"frequency_changed": frequencyChanged,
	})
	e.persist(ctx)
	return true
}
