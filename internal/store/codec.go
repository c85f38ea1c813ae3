// Package store persists the habit collection. Every backend saves and loads
// the whole collection as one unit using the same serialized record shape, so
// a collection can move between the JSON file, TOML file and SQLite backends
// without loss.
package store

import (
	"fmt"
	"time"

	"github.com/papapumpkin/habitrack/internal/habit"
)

// record is the serialized form of one habit.
type record struct {
	ID           string                 `json:"id" toml:"id"`
	Title        string                 `json:"title" toml:"title"`
	Type         string                 `json:"type" toml:"type"`
	Frequency    string                 `json:"frequency" toml:"frequency"`
	Completed    bool                   `json:"completed" toml:"completed"`
	Measurement  *float64               `json:"measurement" toml:"measurement,omitempty"`
	History      map[string]entryRecord `json:"history" toml:"history"`
	CreationDate string                 `json:"creationDate" toml:"creationDate"`
	Appearance   appearanceRecord       `json:"appearance" toml:"appearance"`
	Goal         *float64               `json:"goal" toml:"goal,omitempty"`
}

// entryRecord is one history entry; a nil memo means none.
type entryRecord struct {
	Value float64 `json:"value" toml:"value"`
	Memo  *string `json:"memo" toml:"memo,omitempty"`
}

type appearanceRecord struct {
	Red     float64 `json:"red" toml:"red"`
	Green   float64 `json:"green" toml:"green"`
	Blue    float64 `json:"blue" toml:"blue"`
	Opacity float64 `json:"opacity" toml:"opacity"`
}

// encode converts habits to records. History keys are YYYY-MM-DD.
func encode(habits []habit.Habit) []record {
	out := make([]record, 0, len(habits))
	for _, h := range habits {
		r := record{
			ID:           h.ID,
			Title:        h.Title,
			Type:         string(h.Type),
			Frequency:    string(h.Frequency),
			Completed:    h.Completed,
			Measurement:  copyFloat(h.Measurement),
			History:      make(map[string]entryRecord, len(h.History)),
			CreationDate: h.CreatedAt.Format(time.RFC3339Nano),
			Appearance: appearanceRecord{
				Red:     h.Appearance.Red,
				Green:   h.Appearance.Green,
				Blue:    h.Appearance.Blue,
				Opacity: h.Appearance.Opacity,
			},
			Goal: copyFloat(h.Goal),
		}
		for day, e := range h.History {
			er := entryRecord{Value: e.Value}
			if e.Memo != "" {
				memo := e.Memo
				er.Memo = &memo
			}
			r.History[day.String()] = er
		}
		out = append(out, r)
	}
	return out
}

// decode converts records back to habits. Any malformed field fails the
// whole decode so a corrupt blob is never half-loaded.
func decode(records []record) ([]habit.Habit, error) {
	out := make([]habit.Habit, 0, len(records))
	for i, r := range records {
		typ, err := habit.ParseType(r.Type)
		if err != nil {
			return nil, fmt.Errorf("store: habit %d (%s): %w", i, r.ID, err)
		}
		freq, err := habit.ParseFrequency(r.Frequency)
		if err != nil {
			return nil, fmt.Errorf("store: habit %d (%s): %w", i, r.ID, err)
		}
		created, err := time.Parse(time.RFC3339Nano, r.CreationDate)
		if err != nil {
			return nil, fmt.Errorf("store: habit %d (%s): parse creation date: %w", i, r.ID, err)
		}

		h := habit.Habit{
			ID:          r.ID,
			Title:       r.Title,
			Type:        typ,
			Frequency:   freq,
			Completed:   r.Completed,
			Measurement: copyFloat(r.Measurement),
			History:     make(map[habit.Day]habit.Entry, len(r.History)),
			CreatedAt:   created,
			Appearance: habit.Appearance{
				Red:     r.Appearance.Red,
				Green:   r.Appearance.Green,
				Blue:    r.Appearance.Blue,
				Opacity: r.Appearance.Opacity,
			},
			Goal: copyFloat(r.Goal),
		}
		for key, er := range r.History {
			day, err := habit.ParseDay(key)
			if err != nil {
				return nil, fmt.Errorf("store: habit %d (%s): %w", i, r.ID, err)
			}
			entry := habit.Entry{Value: er.Value}
			if er.Memo != nil {
				entry.Memo = *er.Memo
			}
			h.History[day] = entry
		}
		out = append(out, h)
	}
	return out, nil
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
