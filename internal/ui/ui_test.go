package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/papapumpkin/habitrack/internal/engine"
	"github.com/papapumpkin/habitrack/internal/habit"
	"github.com/papapumpkin/habitrack/internal/telemetry"
)

var testNow = time.Date(2024, time.March, 4, 10, 0, 0, 0, time.Local)

func testPrinter() (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return New(&out, &errOut).NoColor(), &out, &errOut
}

func gymHabit() habit.Habit {
	today := habit.DayOf(testNow)
	h := habit.New("0f8e1c2d-aaaa-bbbb", "Gym", habit.TypeYesNo, habit.FrequencyWeekly, testNow.AddDate(0, 0, -10))
	h.History[today.AddDays(-1)] = habit.Entry{Value: habit.HardCheck, Memo: "legs day"}
	h.History[today] = habit.Entry{Value: habit.SoftCheck}
	return h
}

func pushupsHabit() habit.Habit {
	today := habit.DayOf(testNow)
	h := habit.New("p", "Pushups", habit.TypeMeasurable, habit.FrequencyDaily, testNow.AddDate(0, 0, -2))
	h.Goal = habit.Float(20)
	h.History[today] = habit.Entry{Value: 25}
	h.History[today.AddDays(-1)] = habit.Entry{Value: 10}
	return h
}

func TestHabitList(t *testing.T) {
	t.Parallel()
	p, out, _ := testPrinter()

	gym, push := gymHabit(), pushupsHabit()
	p.HabitList([]ListItem{
		{Habit: gym, Summary: engine.Summarize(gym, testNow)},
		{Habit: push, Summary: engine.Summarize(push, testNow)},
	})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), out.String())
	}

	checks := []struct {
		line   int
		substr string
	}{
		{0, " 0  " + markSoft},
		{0, "Gym    "},
		{0, "weekly"},
		{0, "yes/no"},
		{0, "streak 2"},
		{0, "0f8e1c2d"},
		{1, " 1  25"},
		{1, "measurable"},
	}
	for _, c := range checks {
		if !strings.Contains(lines[c.line], c.substr) {
			t.Errorf("line %d = %q, want it to contain %q", c.line, lines[c.line], c.substr)
		}
	}
	if strings.Contains(lines[0], "aaaa") {
		t.Errorf("id not shortened: %q", lines[0])
	}
}

func TestHabitList_Empty(t *testing.T) {
	t.Parallel()
	p, out, _ := testPrinter()

	p.HabitList(nil)
	if !strings.Contains(out.String(), "no habits yet") {
		t.Errorf("output = %q", out.String())
	}
}

func TestHabitDetail(t *testing.T) {
	t.Parallel()
	p, out, _ := testPrinter()

	h := gymHabit()
	p.HabitDetail(h, engine.Summarize(h, testNow))
	text := out.String()

	for _, want := range []string{
		"Gym",
		"weekly · yes/no",
		"streak 2",
		"entries 2",
		"last 7 days",
		"2024 by month",
		"  Mar  2",
		"  Jan  0",
		"2024-03-04  " + markSoft + " soft",
		"2024-03-03  " + markDone + "  " + markMemo + " legs day",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("detail missing %q:\n%s", want, text)
		}
	}
	if strings.Contains(text, "goal:") {
		t.Error("yes/no habit shows a goal line")
	}
	// Newest entry first.
	if strings.Index(text, "2024-03-04") > strings.Index(text, "2024-03-03") {
		t.Error("history not ordered newest first")
	}
}

func TestHabitDetail_Measurable(t *testing.T) {
	t.Parallel()
	p, out, _ := testPrinter()

	h := pushupsHabit()
	p.HabitDetail(h, engine.Summarize(h, testNow))
	text := out.String()

	for _, want := range []string{
		"goal: 20 (reached today)",
		"2024-03-04  25",
		"2024-03-03  10",
		strings.Repeat(barFull, barWidth) + "  25",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("detail missing %q:\n%s", want, text)
		}
	}
}

func TestHabitDetail_NoEntries(t *testing.T) {
	t.Parallel()
	p, out, _ := testPrinter()

	h := habit.New("x", "Read", habit.TypeMeasurable, habit.FrequencyDaily, testNow)
	p.HabitDetail(h, engine.Summarize(h, testNow))
	if !strings.Contains(out.String(), "no entries") || !strings.Contains(out.String(), "goal: none") {
		t.Errorf("output = %s", out.String())
	}
}

func TestMessages(t *testing.T) {
	t.Parallel()
	p, out, errOut := testPrinter()

	p.Success("added Gym")
	p.Info("nothing to do")
	p.Error("habit \"x\" not found")

	if got := out.String(); got != markDone+" added Gym\nnothing to do\n" {
		t.Errorf("out = %q", got)
	}
	if got := errOut.String(); got != "error: habit \"x\" not found\n" {
		t.Errorf("errOut = %q", got)
	}
}

func TestJournalEvent(t *testing.T) {
	t.Parallel()
	p, out, _ := testPrinter()

	p.JournalEvent(telemetry.Event{
		Timestamp: testNow,
		Kind:      telemetry.KindHabitToggled,
		HabitID:   "gym",
		Data:      map[string]any{"completed": true},
	})
	p.JournalEvent(telemetry.Event{Timestamp: testNow, Kind: telemetry.KindHabitsReloaded})

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if want := "2024-03-04 10:00:00  habit_toggled      gym  {\"completed\":true}"; lines[0] != want {
		t.Errorf("line = %q, want %q", lines[0], want)
	}
	if strings.TrimSpace(lines[1]) != "2024-03-04 10:00:00  habits_reloaded" {
		t.Errorf("line = %q", lines[1])
	}
}

func TestBar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value, scale float64
		width        int
		want         string
	}{
		{1, 1, 4, "████"},
		{0.5, 1, 4, "██░░"},
		{0, 1, 4, "░░░░"},
		{3, 1, 4, "████"},
		{1, 0, 4, "░░░░"},
		{-1, 1, 2, "░░"},
	}
	for _, tt := range tests {
		if got := bar(tt.value, tt.scale, tt.width); got != tt.want {
			t.Errorf("bar(%v, %v, %d) = %q, want %q", tt.value, tt.scale, tt.width, got, tt.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	for in, want := range map[float64]string{1: "1", 0.5: "0.5", 25: "25", 2.25: "2.25"} {
		if got := formatValue(in); got != want {
			t.Errorf("formatValue(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestStats(t *testing.T) {
	t.Parallel()
	p, out, _ := testPrinter()

	gym, push := gymHabit(), pushupsHabit()
	read := habit.New("r", "Read", habit.TypeYesNo, habit.FrequencyDaily, testNow.AddDate(0, 0, -1))
	p.Stats([]ListItem{
		{Habit: gym, Summary: engine.Summarize(gym, testNow)},
		{Habit: push, Summary: engine.Summarize(push, testNow)},
		{Habit: read, Summary: engine.Summarize(read, testNow)},
	})
	text := out.String()

	for _, want := range []string{
		"habit    streak  completion  entries  this week",
		"Pushups       2        100%        2         35",
		"today: 2/3 habits have an entry",
		"longest streak: Gym (2)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("stats missing %q:\n%s", want, text)
		}
	}
}
