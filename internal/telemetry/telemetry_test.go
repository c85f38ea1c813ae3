package telemetry_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/papapumpkin/habitrack/internal/engine"
	"github.com/papapumpkin/habitrack/internal/habit"
	"github.com/papapumpkin/habitrack/internal/store"
	"github.com/papapumpkin/habitrack/internal/telemetry"
)

// sunday is the fixed clock for journal tests: 2024-03-10 08:30 local.
var sunday = time.Date(2024, time.March, 10, 8, 30, 0, 0, time.Local)

// session opens a journal and an engine over a JSON store in dir, the way the
// CLI wires them for one command.
func session(t *testing.T, dir string) (*engine.Engine, *telemetry.Emitter) {
	t.Helper()
	j, err := telemetry.NewEmitter(filepath.Join(dir, "journal.jsonl"))
	if err != nil {
		t.Fatalf("NewEmitter: %v", err)
	}
	n := 0
	e := engine.New(context.Background(), store.NewJSONFile(filepath.Join(dir, "habits.json")),
		engine.WithClock(func() time.Time { return sunday }),
		engine.WithJournal(j),
		engine.WithIDGenerator(func() string { n++; return fmt.Sprintf("%s-%d", filepath.Base(dir), n) }),
	)
	return e, j
}

// journal decodes every line of the journal in dir.
func journal(t *testing.T, dir string) []telemetry.Event {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "journal.jsonl"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
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

func TestJournalRecordsHabitActivity(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()
	e, j := session(t, dir)

	gym := e.Add(ctx, engine.AddRequest{Title: "Gym", Frequency: habit.FrequencyWeekly})
	push := e.Add(ctx, engine.AddRequest{Title: "Pushups", Type: habit.TypeMeasurable})
	e.Toggle(ctx, gym.ID)
	yesterday := sunday.AddDate(0, 0, -1)
	e.SetValue(ctx, gym.ID, yesterday, habit.Float(habit.HardCheck), "")
	e.ClearValue(ctx, gym.ID, yesterday)
	e.SetMeasurement(ctx, push.ID, 25)
	e.SetMemo(ctx, push.ID, habit.DayOf(sunday), "felt strong")
	e.EditHabit(ctx, push.ID, engine.EditRequest{Title: "Push-ups"})
	e.Delete(ctx, gym.ID)
	e.Reload(ctx)
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	type row struct {
		Kind  string
		Habit string
		Data  any
	}
	var got []row
	for _, evt := range journal(t, dir) {
		if !evt.Timestamp.Equal(sunday) {
			t.Errorf("%s timestamp = %v, want %v", evt.Kind, evt.Timestamp, sunday)
		}
		got = append(got, row{evt.Kind, evt.HabitID, evt.Data})
	}

	want := []row{
		{telemetry.KindHabitAdded, gym.ID, map[string]any{"title": "Gym", "type": "yesNo", "frequency": "weekly"}},
		{telemetry.KindHabitAdded, push.ID, map[string]any{"title": "Pushups", "type": "measurable", "frequency": "daily"}},
		{telemetry.KindHabitToggled, gym.ID, map[string]any{"day": "2024-03-10", "completed": true}},
		{telemetry.KindEntrySet, gym.ID, map[string]any{"day": "2024-03-09", "value": 1.0}},
		{telemetry.KindEntryCleared, gym.ID, map[string]any{"day": "2024-03-09"}},
		{telemetry.KindMeasurementSet, push.ID, map[string]any{"day": "2024-03-10", "value": 25.0}},
		{telemetry.KindMemoSet, push.ID, map[string]any{"day": "2024-03-10"}},
		{telemetry.KindHabitEdited, push.ID, map[string]any{
			"title": "Push-ups", "type": "measurable", "frequency": "daily", "frequency_changed": false,
		}},
		{telemetry.KindHabitDeleted, gym.ID, map[string]any{"title": "Gym"}},
		{telemetry.KindHabitsReloaded, "", map[string]any{"habits": 1.0}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("journal mismatch (-want +got):\n%s", diff)
	}
}

func TestJournalSkipsMissingHabits(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()
	e, j := session(t, dir)

	e.Add(ctx, engine.AddRequest{Title: "Read"})
	e.Toggle(ctx, "nope")
	e.SetMemo(ctx, "nope", habit.DayOf(sunday), "x")
	e.Delete(ctx, "nope")
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if events := journal(t, dir); len(events) != 1 || events[0].Kind != telemetry.KindHabitAdded {
		t.Errorf("events = %+v, want only habit_added", events)
	}
}

func TestJournalAppendsAcrossSessions(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()

	first, j1 := session(t, dir)
	h := first.Add(ctx, engine.AddRequest{Title: "Walk"})
	if err := j1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, j2 := session(t, dir)
	if !second.Toggle(ctx, h.ID) {
		t.Fatal("second session did not load the habit")
	}
	if err := j2.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	events := journal(t, dir)
	if len(events) != 2 || events[1].Kind != telemetry.KindHabitToggled || events[1].HabitID != h.ID {
		t.Errorf("events = %+v, want habit_added then habit_toggled", events)
	}
}

func TestJournalConcurrentToggles(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	ctx := context.Background()
	e, j := session(t, dir)

	const n = 20
	ids := make([]string, n)
	for i := range ids {
		ids[i] = e.Add(ctx, engine.AddRequest{Title: fmt.Sprintf("habit %d", i)}).ID
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			e.Toggle(ctx, id)
		}(id)
	}
	wg.Wait()
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	toggled := make(map[string]bool)
	for _, evt := range journal(t, dir) {
		if evt.Kind == telemetry.KindHabitToggled {
			toggled[evt.HabitID] = true
		}
	}
	if len(toggled) != n {
		t.Errorf("toggled %d distinct habits, want %d", len(toggled), n)
	}
}

func TestNilEmitterKeepsEngineWorking(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var j *telemetry.Emitter
	e := engine.New(ctx, store.NewJSONFile(filepath.Join(t.TempDir(), "habits.json")), engine.WithJournal(j))
	h := e.Add(ctx, engine.AddRequest{Title: "Stretch"})
	if !e.Toggle(ctx, h.ID) {
		t.Error("Toggle with a nil journal returned false")
	}
	if err := j.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestNewEmitterBadPath(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "missing", "journal.jsonl")
	if _, err := telemetry.NewEmitter(path); err == nil || !strings.Contains(err.Error(), "telemetry: open") {
		t.Errorf("NewEmitter(%q) error = %v, want wrapped open error", path, err)
	}
}

func TestDecodeEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		want    telemetry.Event
		wantErr bool
	}{
		{
			name: "entry with day payload",
			line: `{"ts":"2024-03-10T08:30:00Z","kind":"entry_set","habit":"h1","data":{"day":"2024-03-10","value":0.5}}` + "\n",
			want: telemetry.Event{
				Timestamp: time.Date(2024, time.March, 10, 8, 30, 0, 0, time.UTC),
				Kind:      telemetry.KindEntrySet,
				HabitID:   "h1",
				Data:      map[string]any{"day": "2024-03-10", "value": 0.5},
			},
		},
		{
			name: "reload without habit",
			line: `{"ts":"2024-03-10T08:30:00Z","kind":"habits_reloaded"}`,
			want: telemetry.Event{
				Timestamp: time.Date(2024, time.March, 10, 8, 30, 0, 0, time.UTC),
				Kind:      telemetry.KindHabitsReloaded,
			},
		},
		{name: "not json", line: "toggled gym", wantErr: true},
		{name: "no kind", line: `{"habit":"h1"}`, wantErr: true},
		{name: "blank", line: "  ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := telemetry.DecodeEvent([]byte(tt.line))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeEvent error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Timestamp.Equal(tt.want.Timestamp) {
				t.Errorf("Timestamp = %v, want %v", got.Timestamp, tt.want.Timestamp)
			}
			got.Timestamp, tt.want.Timestamp = time.Time{}, time.Time{}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DecodeEvent mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
