// Package ui renders habits and command results for the terminal.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/papapumpkin/habitrack/internal/engine"
	"github.com/papapumpkin/habitrack/internal/habit"
)

// UI is the output surface used by commands.
type UI interface {
	HabitList(items []ListItem)
	HabitDetail(h habit.Habit, s engine.Summary)
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// ListItem pairs a habit with its statistics for list rendering.
type ListItem struct {
	Habit   habit.Habit
	Summary engine.Summary
}

// Printer writes human-readable output using lipgloss styles.
type Printer struct {
	out     io.Writer
	errOut  io.Writer
	noColor bool
}

// New returns a Printer writing results to out and errors to errOut.
func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

// NoColor disables all styling, including habit colors.
func (p *Printer) NoColor() *Printer {
	p.noColor = true
	return p
}

func (p *Printer) render(style lipgloss.Style, text string) string {
	if p.noColor {
		return text
	}
	return style.Render(text)
}

// habitStyle colors text with the habit's own appearance.
func (p *Printer) habitStyle(h habit.Habit) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(h.Appearance.Hex())).Bold(true)
}

// Success prints a confirmation line.
func (p *Printer) Success(msg string) {
	fmt.Fprintf(p.out, "%s %s\n", p.render(styleSuccess, markDone), msg)
}

// Error prints an error line to the error writer.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.errOut, "%s %s\n", p.render(styleError, "error:"), msg)
}

// Info prints a de-emphasized line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.out, p.render(styleMuted, msg))
}

// HabitList prints one line per habit with today's mark and streak.
func (p *Printer) HabitList(items []ListItem) {
	if len(items) == 0 {
		p.Info("no habits yet; add one with `habitrack add`")
		return
	}

	width := 0
	for _, it := range items {
		width = max(width, lipgloss.Width(it.Habit.Title))
	}

	for i, it := range items {
		h := it.Habit
		title := h.Title + strings.Repeat(" ", width-lipgloss.Width(h.Title))
		fmt.Fprintf(p.out, "%2d  %s  %s  %s  %s  %s\n",
			i,
			p.todayMark(h, it.Summary),
			p.render(p.habitStyle(h), title),
			p.render(styleMuted, fmt.Sprintf("%-7s %-10s", h.Frequency, typeLabel(h.Type))),
			fmt.Sprintf("streak %-3d", it.Summary.Streak),
			p.render(styleMuted, shortID(h.ID)),
		)
	}
}

// todayMark renders today's state: a check, a soft check, or a measured value.
func (p *Printer) todayMark(h habit.Habit, s engine.Summary) string {
	entry, ok := h.EntryOn(s.Today)
	switch {
	case !ok:
		return p.render(styleMuted, markMissing)
	case s.SoftCheckToday:
		return p.render(styleSoft, markSoft)
	case h.Type == habit.TypeMeasurable:
		style := styleBold
		if s.GoalReachedToday {
			style = styleSuccess
		}
		return p.render(style, formatValue(entry.Value))
	default:
		return p.render(styleSuccess, markDone)
	}
}

// HabitDetail prints a habit with its statistics and full history.
func (p *Printer) HabitDetail(h habit.Habit, s engine.Summary) {
	fmt.Fprintf(p.out, "%s  %s\n",
		p.render(p.habitStyle(h), h.Title),
		p.render(styleMuted, fmt.Sprintf("%s · %s · %s · id %s", h.Frequency, typeLabel(h.Type), h.Appearance.Hex(), h.ID)))
	fmt.Fprintf(p.out, "created %s\n", h.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(p.out, "streak %d · completion %.0f%% · entries %d\n", s.Streak, s.CompletionRate*100, s.Entries)
	if h.Type == habit.TypeMeasurable {
		p.goalLine(h, s)
	}

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.render(styleHeading, "last 7 days"))
	p.weekly(h, s)

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.render(styleHeading, fmt.Sprintf("%d by month", s.Today.Year)))
	p.monthly(s)

	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, p.render(styleHeading, "history"))
	p.history(h)
}

func (p *Printer) goalLine(h habit.Habit, s engine.Summary) {
	if h.Goal == nil {
		fmt.Fprintln(p.out, p.render(styleMuted, "goal: none"))
		return
	}
	status := p.render(styleMuted, "not reached today")
	if s.GoalReachedToday {
		status = p.render(styleSuccess, "reached today")
	}
	fmt.Fprintf(p.out, "goal: %s (%s)\n", formatValue(*h.Goal), status)
}

// weekly draws one bar per day, oldest first, scaled to the week's largest
// value or the goal, whichever is higher.
func (p *Printer) weekly(h habit.Habit, s engine.Summary) {
	scale := 1.0
	if h.Type == habit.TypeMeasurable {
		for _, v := range s.Weekly {
			scale = max(scale, v)
		}
		if h.Goal != nil {
			scale = max(scale, *h.Goal)
		}
	}
	for i, v := range s.Weekly {
		day := s.Today.AddDays(i - 6)
		label := day.Time(time.Local).Weekday().String()[:3]
		fmt.Fprintf(p.out, "  %s  %s  %s\n", label, p.render(p.habitStyle(h), bar(v, scale, barWidth)), formatValue(v))
	}
}

func (p *Printer) monthly(s engine.Summary) {
	for m, n := range s.Monthly {
		label := time.Month(m + 1).String()[:3]
		if n == 0 {
			fmt.Fprintf(p.out, "  %s  %s\n", label, p.render(styleMuted, "0"))
			continue
		}
		fmt.Fprintf(p.out, "  %s  %d\n", label, n)
	}
}

func (p *Printer) history(h habit.Habit) {
	entries := h.Entries()
	if len(entries) == 0 {
		p.Info("  no entries")
		return
	}
	for _, e := range entries {
		var mark string
		switch {
		case h.Type == habit.TypeYesNo && engine.IsSoftCheck(h, e.Day):
			mark = p.render(styleSoft, markSoft+" soft")
		case h.Type == habit.TypeMeasurable:
			mark = formatValue(e.Value)
		default:
			mark = p.render(styleSuccess, markDone)
		}
		line := fmt.Sprintf("  %s  %s", e.Day, mark)
		if e.Memo != "" {
			line += "  " + p.render(styleMuted, markMemo+" "+e.Memo)
		}
		fmt.Fprintln(p.out, line)
	}
}

// bar renders value as a proportion of scale, width cells wide.
func bar(value, scale float64, width int) string {
	if scale <= 0 {
		return strings.Repeat(barEmpty, width)
	}
	filled := int(value / scale * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat(barFull, filled) + strings.Repeat(barEmpty, width-filled)
}

// formatValue prints whole numbers without a decimal point.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func typeLabel(t habit.Type) string {
	if t == habit.TypeMeasurable {
		return "measurable"
	}
	return "yes/no"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
