package ui

import (
	"encoding/json"
	"fmt"

	"github.com/papapumpkin/habitrack/internal/telemetry"
)

// JournalEvent prints one journal event on a single line.
func (p *Printer) JournalEvent(ev telemetry.Event) {
	line := p.render(styleMuted, ev.Timestamp.Local().Format("2006-01-02 15:04:05")) +
		"  " + p.render(styleHeading, fmt.Sprintf("%-17s", ev.Kind))
	if ev.HabitID != "" {
		line += "  " + ev.HabitID
	}
	if ev.Data != nil {
		if data, err := json.Marshal(ev.Data); err == nil && string(data) != "null" {
			line += "  " + p.render(styleMuted, string(data))
		}
	}
	fmt.Fprintln(p.out, line)
}
