package store

import (
	"context"
	"fmt"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/papapumpkin/habitrack/internal/habit"
)

// tomlDocument wraps the collection so it encodes as an array of tables.
type tomlDocument struct {
	Habits []record `toml:"habits"`
}

// TOMLFile stores the collection as [[habits]] tables in a TOML file.
type TOMLFile struct {
	Path string
}

// NewTOMLFile returns a TOML file store rooted at path.
func NewTOMLFile(path string) *TOMLFile {
	return &TOMLFile{Path: path}
}

// Load reads the collection. A missing file is an empty collection.
func (s *TOMLFile) Load(_ context.Context) ([]habit.Habit, error) {
	data, err := readFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	if data == nil {
		return nil, nil
	}

	var doc tomlDocument
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("store: parsing %s: %w", s.Path, err)
	}
	return decode(doc.Habits)
}

// Save replaces the file contents with the given collection.
func (s *TOMLFile) Save(_ context.Context, habits []habit.Habit) error {
	data, err := toml.Marshal(tomlDocument{Habits: encode(habits)})
	if err != nil {
		return fmt.Errorf("store: marshaling habits: %w", err)
	}
	if err := writeFileAtomic(s.Path, data); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	return nil
}

// Close is a no-op; the file is opened per call.
func (s *TOMLFile) Close() error { return nil }
