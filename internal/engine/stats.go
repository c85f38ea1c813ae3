package engine

import (
	"sort"
	"time"

	"github.com/papapumpkin/habitrack/internal/habit"
)

// Summary bundles the derived statistics shown for a habit.
type Summary struct {
	Today            habit.Day
	Streak           int
	CompletionRate   float64
	Weekly           [7]float64
	Monthly          [12]int
	Entries          int
	GoalReachedToday bool
	SoftCheckToday   bool
}

// Streak counts the run of consecutive calendar days ending at the most
// recent entry. The run is not anchored to today: a habit last done a month
// ago still reports the length of that old run.
func Streak(h habit.Habit) int {
	days := make([]habit.Day, 0, len(h.History))
	for d := range h.History {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 0
	var prev habit.Day
	for i, d := range days {
		if i > 0 && d != prev && d != prev.AddDays(-1) {
			break
		}
		streak++
		prev = d
	}
	return streak
}

// CompletionRate is the number of entries divided by the whole days elapsed
// since the habit was created, with at least one day in the denominator.
// Days are counted on the calendar in now's location: a day is complete once
// the wall clock passes the creation time of day, even across a daylight
// saving shift. Soft checks and future entries count like any other entry.
func CompletionRate(h habit.Habit, now time.Time) float64 {
	days := elapsedDays(h.CreatedAt.In(now.Location()), now)
	if days < 1 {
		days = 1
	}
	return float64(len(h.History)) / float64(days)
}

// elapsedDays counts the whole calendar days from start to end, both in the
// same location.
func elapsedDays(start, end time.Time) int {
	days := habit.DayOf(end).DaysSince(habit.DayOf(start))
	if days > 0 && clockOf(end) < clockOf(start) {
		days--
	}
	return days
}

// clockOf is the wall-clock time of day of t.
func clockOf(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second + time.Duration(t.Nanosecond())
}

// WeeklySeries returns the entry values for the seven days ending today,
// oldest first. Missing days are 0.
func WeeklySeries(h habit.Habit, today habit.Day) [7]float64 {
	var week [7]float64
	for i := 0; i < 7; i++ {
		if entry, ok := h.History[today.AddDays(-i)]; ok {
			week[6-i] = entry.Value
		}
	}
	return week
}

// MonthlySeries counts entries per month (index 0 is January) for the year
// containing today. It counts entries, not values.
func MonthlySeries(h habit.Habit, today habit.Day) [12]int {
	var months [12]int
	for d := range h.History {
		if d.Year == today.Year {
			months[d.Month-1]++
		}
	}
	return months
}

// IsSoftCheck reports whether the entry on day is exactly a soft check.
func IsSoftCheck(h habit.Habit, day habit.Day) bool {
	entry, ok := h.History[day]
	return ok && entry.Value == habit.SoftCheck
}

// Summarize computes every statistic for h as of now.
func Summarize(h habit.Habit, now time.Time) Summary {
	today := habit.DayOf(now.In(time.Local))
	return Summary{
		Today:            today,
		Streak:           Streak(h),
		CompletionRate:   CompletionRate(h, now),
		Weekly:           WeeklySeries(h, today),
		Monthly:          MonthlySeries(h, today),
		Entries:          len(h.History),
		GoalReachedToday: h.GoalReached(today),
		SoftCheckToday:   IsSoftCheck(h, today),
	}
}

// Summary computes statistics for h using the engine clock.
func (e *Engine) Summary(h habit.Habit) Summary {
	return Summarize(h, e.now())
}

// IsSoftCheck reports whether h holds a soft check on the day containing at.
func (e *Engine) IsSoftCheck(h habit.Habit, at time.Time) bool {
	return IsSoftCheck(h, habit.DayOf(at.In(time.Local)))
}
