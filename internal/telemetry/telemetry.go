// Package telemetry provides a JSONL journal of habit mutations. Every add,
// check, value edit, memo, habit edit and delete is recorded as a structured
// JSON event so a user's history of actions can be audited or replayed
// independently of the current stored snapshot.
package telemetry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event kinds identify the mutation an event records.
const (
	KindHabitAdded     = "habit_added"
	KindHabitToggled   = "habit_toggled"
	KindEntrySet       = "entry_set"
	KindEntryCleared   = "entry_cleared"
	KindMemoSet        = "memo_set"
	KindMeasurementSet = "measurement_set"
	KindHabitEdited    = "habit_edited"
	KindHabitDeleted   = "habit_deleted"
	KindHabitsReloaded = "habits_reloaded"
)

// Event is a single journal record. Each event carries a timestamp, a kind
// tag, the affected habit ID when there is one, and optional structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	HabitID   string    `json:"habit,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes journal events to a JSONL file. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

// Emit writes a single event to the JSONL file. It is safe for concurrent use.
// Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close closes the underlying file. Calling Close on a nil Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}

// DecodeEvent decodes one line of the journal. A line without a kind is not
// an event.
func DecodeEvent(line []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(bytes.TrimSpace(line), &evt); err != nil {
		return Event{}, fmt.Errorf("telemetry: decode event: %w", err)
	}
	if evt.Kind == "" {
		return Event{}, errors.New("telemetry: decode event: missing kind")
	}
	return evt, nil
}
