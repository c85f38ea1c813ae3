package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/papapumpkin/habitrack/internal/habit"
)

// JSONFile stores the collection as a JSON array in a single file.
type JSONFile struct {
	Path string
}

// NewJSONFile returns a JSON file store rooted at path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{Path: path}
}

// Load reads the collection. A missing or empty file is an empty collection.
func (s *JSONFile) Load(_ context.Context) ([]habit.Habit, error) {
	data, err := readFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("store: parsing %s: %w", s.Path, err)
	}
	return decode(records)
}

// Save replaces the file contents with the given collection.
func (s *JSONFile) Save(_ context.Context, habits []habit.Habit) error {
	data, err := json.MarshalIndent(encode(habits), "", "  ")
	if err != nil {
		return fmt.Errorf("store: marshaling habits: %w", err)
	}
	if err := writeFileAtomic(s.Path, append(data, '\n')); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per call.
func (s *JSONFile) Close() error { return nil }
