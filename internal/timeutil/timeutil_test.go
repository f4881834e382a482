package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLocation(t *testing.T) {
	t.Run("valid zone", func(t *testing.T) {
		loc, fellBack := ResolveLocation("America/New_York")
		assert.Equal(t, "America/New_York", loc.String())
		assert.False(t, fellBack)
	})

	t.Run("empty falls back to UTC", func(t *testing.T) {
		loc, fellBack := ResolveLocation("")
		assert.Equal(t, time.UTC, loc)
		assert.True(t, fellBack)
	})

	t.Run("garbage falls back to UTC", func(t *testing.T) {
		loc, fellBack := ResolveLocation("Nowhere/At_All")
		assert.Equal(t, time.UTC, loc)
		assert.True(t, fellBack)
	})
}

func TestSameDay(t *testing.T) {
	a := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	b := time.Date(2026, 8, 31, 0, 1, 0, 0, time.UTC)
	c := time.Date(2026, 9, 1, 0, 1, 0, 0, time.UTC)

	assert.True(t, SameDay(a, b))
	assert.False(t, SameDay(a, c))
}

func TestParseDateTime(t *testing.T) {
	t.Run("combines date and clock in location", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)

		got, err := ParseDateTime("2026-09-01", "15:30", loc)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 9, 1, 15, 30, 0, 0, loc), got)
	})

	t.Run("empty inputs", func(t *testing.T) {
		_, err := ParseDateTime("", "15:30", time.UTC)
		assert.Error(t, err)
		_, err = ParseDateTime("2026-09-01", "", time.UTC)
		assert.Error(t, err)
	})

	t.Run("unparseable", func(t *testing.T) {
		_, err := ParseDateTime("tomorrow", "3pm", time.UTC)
		assert.Error(t, err)
	})
}
