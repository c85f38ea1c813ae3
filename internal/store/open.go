package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/papapumpkin/habitrack/internal/habit"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendTOML   = "toml"
	BackendSQLite = "sqlite"
)

// ErrUnknownBackend is returned by Open for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown store backend")

// Backend is a store that holds resources until closed.
type Backend interface {
	Load(ctx context.Context) ([]habit.Habit, error)
	Save(ctx context.Context, habits []habit.Habit) error
	Close() error
}

// Open returns the backend named by backend, persisting to path.
func Open(ctx context.Context, backend, path string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendJSON, "":
		return NewJSONFile(path), nil
	case BackendTOML:
		return NewTOMLFile(path), nil
	case BackendSQLite:
		db, err := NewSQLite(ctx, path)
		if err != nil {
			return nil, err
		}
		return db, nil
	default:
		return nil, fmt.Errorf("store: %w: %q", ErrUnknownBackend, backend)
	}
}

// DefaultFileName returns the conventional file name for a backend.
func DefaultFileName(backend string) string {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendTOML:
		return "habits.toml"
	case BackendSQLite:
		return "habits.db"
	default:
		return "habits.json"
	}
}
