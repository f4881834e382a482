package chat

import (
	"fmt"
	"strings"
	"time"

	"calchat/internal/gcal"
	"calchat/internal/timeutil"
)

const recurringGlyph = " 🔄"

// FormatEventTime renders an event start as "Today at 3:00 PM",
// "Tomorrow at 9:30 AM" or "Sat, Jul 26 at 3:00 PM", relative to now.
func FormatEventTime(start, now time.Time) string {
	local := start.In(now.Location())

	var dateStr string
	switch {
	case timeutil.SameDay(now, local):
		dateStr = "Today"
	case timeutil.SameDay(now.AddDate(0, 0, 1), local):
		dateStr = "Tomorrow"
	default:
		dateStr = local.Format("Mon, Jan 2")
	}

	return fmt.Sprintf("%s at %s", dateStr, local.Format("3:04 PM"))
}

// FormatEventDuration renders the parenthesized duration suffix for an event.
// All-day events (no timestamps) get no suffix.
func FormatEventDuration(e gcal.Event) string {
	if e.AllDay {
		return ""
	}

	minutes := int(e.End.Sub(e.Start).Minutes())
	switch {
	case minutes == 60:
		return " (1 hour)"
	case minutes < 60:
		return fmt.Sprintf(" (%d min)", minutes)
	}

	hours := minutes / 60
	rest := minutes % 60
	if rest == 0 {
		if hours == 1 {
			return " (1 hour)"
		}
		return fmt.Sprintf(" (%d hours)", hours)
	}
	return fmt.Sprintf(" (%dh %dm)", hours, rest)
}

// formatEventLine renders one numbered list entry for an event.
func formatEventLine(index int, e gcal.Event, now time.Time) string {
	title := e.Summary
	if title == "" {
		title = "(No title)"
	}

	var timeStr string
	if e.AllDay {
		timeStr = e.Start.In(now.Location()).Format("2006-01-02")
	} else {
		timeStr = FormatEventTime(e.Start, now)
	}

	glyph := ""
	if e.Recurring {
		glyph = recurringGlyph
	}

	return fmt.Sprintf("%d. **%s**\n    📅 %s%s%s", index, title, timeStr, FormatEventDuration(e), glyph)
}

func formatEventList(events []gcal.Event, now time.Time) string {
	lines := make([]string, 0, len(events))
	for i, e := range events {
		lines = append(lines, formatEventLine(i+1, e, now))
	}
	return strings.Join(lines, "\n\n")
}

// durationText spells out a duration in minutes for confirmation prompts and
// creation replies: "1 hour", "45 minutes", "2 hours 30 minutes".
func durationText(minutes int) string {
	switch {
	case minutes == 60:
		return "1 hour"
	case minutes < 60:
		return fmt.Sprintf("%d minutes", minutes)
	}

	hours := minutes / 60
	rest := minutes % 60
	text := fmt.Sprintf("%d hours", hours)
	if hours == 1 {
		text = "1 hour"
	}
	if rest > 0 {
		text += fmt.Sprintf(" %d minutes", rest)
	}
	return text
}
