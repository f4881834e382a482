package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"calchat/internal/gcal"
)

func TestFormatEventTime(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		expected string
	}{
		{"same day", time.Date(2026, 8, 31, 15, 0, 0, 0, time.UTC), "Today at 3:00 PM"},
		{"next day", time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC), "Tomorrow at 9:30 AM"},
		{"later date", time.Date(2026, 9, 5, 18, 0, 0, 0, time.UTC), "Sat, Sep 5 at 6:00 PM"},
		{"earlier today still today", time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC), "Today at 8:00 AM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatEventTime(tt.start, now))
		})
	}
}

func TestFormatEventDuration(t *testing.T) {
	event := func(minutes int) gcal.Event {
		start := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
		return gcal.Event{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
	}

	tests := []struct {
		name     string
		event    gcal.Event
		expected string
	}{
		{"one hour", event(60), " (1 hour)"},
		{"under an hour", event(45), " (45 min)"},
		{"hour and a half", event(90), " (1h 30m)"},
		{"two hours exact", event(120), " (2 hours)"},
		{"two and a quarter", event(135), " (2h 15m)"},
		{"all day has no suffix", gcal.Event{AllDay: true}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatEventDuration(tt.event))
		})
	}
}

func TestFormatEventLine(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	start := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	t.Run("recurring event carries the glyph", func(t *testing.T) {
		e := gcal.Event{Summary: "Soccer Practice", Start: start, End: start.Add(time.Hour), Recurring: true}
		line := formatEventLine(1, e, now)
		assert.Equal(t, "1. **Soccer Practice**\n    📅 Tomorrow at 3:00 PM (1 hour) 🔄", line)
	})

	t.Run("untitled event gets a placeholder", func(t *testing.T) {
		e := gcal.Event{Start: start, End: start.Add(30 * time.Minute)}
		line := formatEventLine(2, e, now)
		assert.Contains(t, line, "**(No title)**")
	})

	t.Run("all day event shows the date only", func(t *testing.T) {
		e := gcal.Event{Summary: "Conference", Start: start, AllDay: true}
		line := formatEventLine(1, e, now)
		assert.Equal(t, "1. **Conference**\n    📅 2026-09-01", line)
	})
}

func TestDurationText(t *testing.T) {
	assert.Equal(t, "1 hour", durationText(60))
	assert.Equal(t, "45 minutes", durationText(45))
	assert.Equal(t, "2 hours", durationText(120))
	assert.Equal(t, "1 hour 30 minutes", durationText(90))
	assert.Equal(t, "2 hours 15 minutes", durationText(135))
}
