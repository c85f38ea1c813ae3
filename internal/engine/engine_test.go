package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/papapumpkin/habitrack/internal/habit"
	"github.com/papapumpkin/habitrack/internal/telemetry"
)

// memStore is an in-memory Store that records every save.
type memStore struct {
	mu      sync.Mutex
	habits  []habit.Habit
	loadErr error
	saveErr error
	saves   int
}

func (s *memStore) Load(_ context.Context) ([]habit.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return cloneAll(s.habits), nil
}

func (s *memStore) Save(_ context.Context, habits []habit.Habit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.habits = cloneAll(habits)
	return nil
}

func (s *memStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// monday is the fixed "now" for engine tests: Monday 2024-03-04, 10:00 local.
var monday = time.Date(2024, time.March, 4, 10, 0, 0, 0, time.Local)

var mondayDay = habit.Day{Year: 2024, Month: time.March, Day: 4}

// testEngine builds an engine over a fresh memStore with a fixed clock and
// sequential IDs.
func testEngine(t *testing.T, seed ...habit.Habit) (*Engine, *memStore) {
	t.Helper()
	store := &memStore{habits: seed}
	n := 0
	e := New(context.Background(), store,
		WithClock(func() time.Time { return monday }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("habit-%d", n) }),
	)
	return e, store
}

// mustHabit fetches a habit snapshot or fails the test.
func mustHabit(t *testing.T, e *Engine, id string) habit.Habit {
	t.Helper()
	h, ok := e.Habit(id)
	if !ok {
		t.Fatalf("Habit(%q) not found", id)
	}
	return h
}

// seeded returns a habit created a while before monday with the given
// entries keyed by offset from monday.
func seeded(id string, typ habit.Type, freq habit.Frequency, entries map[int]habit.Entry) habit.Habit {
	h := habit.New(id, id, typ, freq, monday.AddDate(0, 0, -30))
	for off, e := range entries {
		h.History[mondayDay.AddDays(off)] = e
	}
	return h
}

func TestNew_LoadFailureStartsEmpty(t *testing.T) {
	t.Parallel()

	store := &memStore{loadErr: errors.New("corrupt blob")}
	e := New(context.Background(), store)
	if got := len(e.Habits()); got != 0 {
		t.Errorf("len(Habits()) = %d, want 0", got)
	}
	if store.saveCount() != 0 {
		t.Errorf("load failure triggered %d saves, want 0", store.saveCount())
	}
}

func TestNew_RefreshesTodayCache(t *testing.T) {
	t.Parallel()

	stale := seeded("stale", habit.TypeYesNo, habit.FrequencyDaily, map[int]habit.Entry{-1: {Value: 1}})
	stale.Completed = true
	stale.Measurement = habit.Float(1)
	fresh := seeded("fresh", habit.TypeMeasurable, habit.FrequencyDaily, map[int]habit.Entry{0: {Value: 7}})

	e, _ := testEngine(t, stale, fresh)

	if h := mustHabit(t, e, "stale"); h.Completed || h.Measurement != nil {
		t.Errorf("stale cache kept: completed=%v measurement=%v", h.Completed, h.Measurement)
	}
	h := mustHabit(t, e, "fresh")
	if !h.Completed || h.Measurement == nil || *h.Measurement != 7 {
		t.Errorf("fresh cache = completed %v measurement %v, want true 7", h.Completed, h.Measurement)
	}
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	t.Parallel()
	e, store := testEngine(t, seeded("walk", habit.TypeYesNo, habit.FrequencyDaily, nil))
	store.saveErr = errors.New("disk full")

	if !e.Toggle(context.Background(), "walk") {
		t.Fatal("Toggle returned false")
	}
	if !mustHabit(t, e, "walk").Completed {
		t.Error("in-memory mutation rolled back after save failure")
	}
	if store.saveCount() != 1 {
		t.Errorf("save attempts = %d, want 1", store.saveCount())
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	t.Parallel()
	e, _ := testEngine(t, seeded("walk", habit.TypeYesNo, habit.FrequencyDaily, map[int]habit.Entry{0: {Value: 1}}))

	snap := e.Habits()
	snap[0].Title = "changed"
	snap[0].History[mondayDay.AddDays(1)] = habit.Entry{Value: 1}
	delete(snap[0].History, mondayDay)

	h := mustHabit(t, e, "walk")
	if h.Title != "walk" || len(h.History) != 1 {
		t.Errorf("engine state changed through snapshot: %+v", h)
	}
}

func TestFind(t *testing.T) {
	t.Parallel()
	e, _ := testEngine(t,
		habit.New("3f2a-1", "Gym", habit.TypeYesNo, habit.FrequencyWeekly, monday),
		habit.New("3f2b-2", "Read", habit.TypeMeasurable, habit.FrequencyDaily, monday),
	)

	tests := []struct {
		ref    string
		wantID string
		found  bool
	}{
		{"3f2a-1", "3f2a-1", true},
		{"3f2b", "3f2b-2", true},
		{"3f2", "", false}, // ambiguous prefix, no title match
		{"gym", "3f2a-1", true},
		{"  READ ", "3f2b-2", true},
		{"", "", false},
		{"swim", "", false},
	}
	for _, tt := range tests {
		h, ok := e.Find(tt.ref)
		if ok != tt.found || h.ID != tt.wantID {
			t.Errorf("Find(%q) = %q, %v; want %q, %v", tt.ref, h.ID, ok, tt.wantID, tt.found)
		}
	}
}

func TestReload(t *testing.T) {
	t.Parallel()
	e, store := testEngine(t, seeded("walk", habit.TypeYesNo, habit.FrequencyDaily, nil))
	ctx := context.Background()

	store.mu.Lock()
	store.habits = append(store.habits, seeded("swim", habit.TypeYesNo, habit.FrequencyDaily, map[int]habit.Entry{0: {Value: 1}}))
	store.mu.Unlock()

	e.Reload(ctx)
	if _, ok := e.Habit("swim"); !ok {
		t.Fatal("Reload did not pick up the new habit")
	}
	if !mustHabit(t, e, "swim").Completed {
		t.Error("Reload did not refresh today's cache")
	}

	store.mu.Lock()
	store.loadErr = errors.New("truncated file")
	store.mu.Unlock()
	e.Reload(ctx)
	if got := len(e.Habits()); got != 2 {
		t.Errorf("failed Reload changed collection: len = %d, want 2", got)
	}
}

func TestJournalRecordsMutations(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	j, err := telemetry.NewEmitter(path)
	if err != nil {
		t.Fatalf("NewEmitter(%q): %v", path, err)
	}

	store := &memStore{}
	e := New(context.Background(), store,
		WithClock(func() time.Time { return monday }),
		WithJournal(j),
	)
	ctx := context.Background()

	h := e.Add(ctx, AddRequest{Title: "Gym", Frequency: habit.FrequencyWeekly})
	e.Toggle(ctx, h.ID)
	e.SetMemo(ctx, h.ID, mondayDay, "legs")
	e.Toggle(ctx, "missing")
	e.Delete(ctx, h.ID)
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := readJournal(t, path)

	want := []string{telemetry.KindHabitAdded, telemetry.KindHabitToggled, telemetry.KindMemoSet, telemetry.KindHabitDeleted}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(want), events)
	}
	for i, k := range want {
		if events[i].Kind != k {
			t.Errorf("event %d kind = %q, want %q", i, events[i].Kind, k)
		}
		if events[i].HabitID != h.ID {
			t.Errorf("event %d habit = %q, want %q", i, events[i].HabitID, h.ID)
		}
	}
}

// readJournal decodes every event in the journal file at path.
func readJournal(t *testing.T, path string) []telemetry.Event {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%q): %v", path, err)
	}
	var events []telemetry.Event
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		evt, err := telemetry.DecodeEvent([]byte(line))
		if err != nil {
			t.Fatalf("DecodeEvent(%q): %v", line, err)
		}
		events = append(events, evt)
	}
	return events
}
