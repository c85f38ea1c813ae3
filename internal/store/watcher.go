package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounce is how long a file must stay quiet before a change is reported.
const debounce = 100 * time.Millisecond

// Change reports that the store file was written, replaced or removed.
type Change struct {
	File string // Absolute path of the file that changed
	At   time.Time
}

// Watcher monitors a store file for external changes using fsnotify. It
// watches the parent directory so atomic rename-into-place writes and SQLite
// WAL side files are both observed.
type Watcher struct {
	Path    string
	Changes <-chan Change // Read-only external channel

	changes chan Change
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the store file at path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("store: resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Path:    abs,
		Changes: ch,
		changes: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching. The parent directory must exist.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return fmt.Errorf("store: watch %s: %w", filepath.Dir(w.Path), err)
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emit()
				}
				return
			}
			if !w.isStoreFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case now := <-ticker.C:
			if !pending.IsZero() && now.Sub(pending) >= debounce {
				w.emit()
				pending = time.Time{}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

// isStoreFile matches the store file and its side files (habits.db-wal)
// but not the temp files written before an atomic rename.
func (w *Watcher) isStoreFile(name string) bool {
	base := filepath.Base(w.Path)
	got := filepath.Base(name)
	if strings.HasSuffix(got, ".tmp") {
		return false
	}
	return got == base || strings.HasPrefix(got, base+"-")
}

func (w *Watcher) emit() {
	select {
	case w.changes <- Change{File: w.Path, At: time.Now()}:
	default:
		// A change is already queued; the reader reloads everything anyway.
	}
}
