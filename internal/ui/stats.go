package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Stats prints a table of streaks, completion rates and this week's total
// for every habit, followed by today's overall progress.
func (p *Printer) Stats(items []ListItem) {
	if len(items) == 0 {
		p.Info("no habits yet; add one with `habitrack add`")
		return
	}

	width := lipgloss.Width("habit")
	for _, it := range items {
		width = max(width, lipgloss.Width(it.Habit.Title))
	}
	pad := func(s string) string { return s + strings.Repeat(" ", width-lipgloss.Width(s)) }

	fmt.Fprintln(p.out, p.render(styleHeading,
		fmt.Sprintf("%s  %6s  %10s  %7s  %9s", pad("habit"), "streak", "completion", "entries", "this week")))

	doneToday, best := 0, 0
	var bestTitle string
	for _, it := range items {
		s := it.Summary
		week := 0.0
		for _, v := range s.Weekly {
			week += v
		}
		if _, ok := it.Habit.EntryOn(s.Today); ok {
			doneToday++
		}
		if s.Streak > best {
			best, bestTitle = s.Streak, it.Habit.Title
		}
		fmt.Fprintf(p.out, "%s  %6d  %9.0f%%  %7d  %9s\n",
			p.render(p.habitStyle(it.Habit), pad(it.Habit.Title)),
			s.Streak, s.CompletionRate*100, s.Entries, formatValue(week))
	}

	fmt.Fprintln(p.out)
	fmt.Fprintf(p.out, "today: %d/%d habits have an entry\n", doneToday, len(items))
	if best > 0 {
		fmt.Fprintf(p.out, "longest streak: %s (%d)\n", bestTitle, best)
	}
}
