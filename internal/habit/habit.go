// Package habit defines the habit data model: habits, their per-day entries,
// and the calendar-day key used to index history. It holds no behavior beyond
// construction, copying and simple derived reads; all mutation rules live in
// the engine package.
package habit

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Type distinguishes binary habits from habits that record a quantity.
type Type string

// Habit types.
const (
	TypeYesNo      Type = "yesNo"
	TypeMeasurable Type = "measurable"
)

// Frequency controls how a yes/no habit's check carries over to later days.
type Frequency string

// Habit frequencies. A weekly check counts for the following six days.
const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Entry values with special meaning for yes/no habits.
const (
	HardCheck = 1.0
	SoftCheck = 0.5
)

// SoftCheckSpan is the number of days after a weekly hard check that are
// counted as satisfied.
const SoftCheckSpan = 6

// ParseType parses a habit type name. Matching is case-insensitive and
// accepts "yesno", "yes-no" and "measurable".
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yesno", "yes-no", "yes_no", "":
		return TypeYesNo, nil
	case "measurable":
		return TypeMeasurable, nil
	}
	return "", fmt.Errorf("habit: unknown type %q", s)
}

// ParseFrequency parses a frequency name; empty means daily.
func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "":
		return FrequencyDaily, nil
	case "weekly":
		return FrequencyWeekly, nil
	}
	return "", fmt.Errorf("habit: unknown frequency %q", s)
}

// Entry is the record for one habit on one day.
type Entry struct {
	Value float64
	Memo  string // empty when there is no memo
}

// Habit is a tracked habit and its full completion history.
type Habit struct {
	ID        string
	Title     string
	Type      Type
	Frequency Frequency

	// Completed and Measurement cache today's entry. History is authoritative;
	// the engine recomputes these after every history write.
	Completed   bool
	Measurement *float64

	History    map[Day]Entry
	CreatedAt  time.Time
	Appearance Appearance
	Goal       *float64
}

// New returns a habit with empty history created at createdAt. An empty
// frequency defaults to daily and a zero appearance to DefaultAppearance.
func New(id, title string, typ Type, freq Frequency, createdAt time.Time) Habit {
	if freq == "" {
		freq = FrequencyDaily
	}
	return Habit{
		ID:         id,
		Title:      title,
		Type:       typ,
		Frequency:  freq,
		History:    make(map[Day]Entry),
		CreatedAt:  createdAt,
		Appearance: DefaultAppearance(),
	}
}

// Clone returns a deep copy of h. The copy shares no maps or pointers with h.
func (h Habit) Clone() Habit {
	c := h
	c.History = make(map[Day]Entry, len(h.History))
	for d, e := range h.History {
		c.History[d] = e
	}
	c.Measurement = cloneFloat(h.Measurement)
	c.Goal = cloneFloat(h.Goal)
	return c
}

// IsWeekly reports whether h is a yes/no habit on a weekly frequency, the
// only kind that propagates soft checks.
func (h Habit) IsWeekly() bool {
	return h.Type == TypeYesNo && h.Frequency == FrequencyWeekly
}

// EntryOn returns the entry recorded for d, if any.
func (h Habit) EntryOn(d Day) (Entry, bool) {
	e, ok := h.History[d]
	return e, ok
}

// GoalReached reports whether a measurable habit's value on d meets its goal.
// Habits without a goal or without an entry on d never reach it.
func (h Habit) GoalReached(d Day) bool {
	if h.Type != TypeMeasurable || h.Goal == nil {
		return false
	}
	e, ok := h.History[d]
	return ok && e.Value >= *h.Goal
}

// DatedEntry pairs an entry with its day.
type DatedEntry struct {
	Day Day
	Entry
}

// Entries returns the history ordered newest first.
func (h Habit) Entries() []DatedEntry {
	out := make([]DatedEntry, 0, len(h.History))
	for d, e := range h.History {
		out = append(out, DatedEntry{Day: d, Entry: e})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.After(out[j].Day) })
	return out
}

// Float returns a pointer to v, for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ErrInvalidValue reports entry text that is not a finite, non-negative number.
var ErrInvalidValue = errors.New("not a finite, non-negative number")

// ValidValue reports whether v can be stored as an entry value or goal.
func ValidValue(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

// ParseValue parses user-typed entry text. Surrounding space is ignored;
// NaN, infinities and negative numbers are rejected with ErrInvalidValue.
func ParseValue(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !ValidValue(v) {
		return 0, fmt.Errorf("invalid value %q: %w", s, ErrInvalidValue)
	}
	return v, nil
}
