package gcal

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

func TestParseEventTimes(t *testing.T) {
	t.Run("timed event", func(t *testing.T) {
		item := &calendar.Event{
			Start: &calendar.EventDateTime{DateTime: "2026-09-01T15:00:00Z"},
			End:   &calendar.EventDateTime{DateTime: "2026-09-01T16:00:00Z"},
		}

		start, end, allDay, err := parseEventTimes(item, time.UTC)
		require.NoError(t, err)
		assert.False(t, allDay)
		assert.Equal(t, time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Hour, end.Sub(start))
	})

	t.Run("all day event", func(t *testing.T) {
		item := &calendar.Event{
			Start: &calendar.EventDateTime{Date: "2026-09-01"},
			End:   &calendar.EventDateTime{Date: "2026-09-02"},
		}

		start, _, allDay, err := parseEventTimes(item, time.UTC)
		require.NoError(t, err)
		assert.True(t, allDay)
		assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), start)
	})

	t.Run("offset datetimes keep their zone", func(t *testing.T) {
		item := &calendar.Event{
			Start: &calendar.EventDateTime{DateTime: "2026-09-01T11:00:00-04:00"},
			End:   &calendar.EventDateTime{DateTime: "2026-09-01T12:00:00-04:00"},
		}

		start, _, _, err := parseEventTimes(item, time.UTC)
		require.NoError(t, err)
		assert.True(t, start.Equal(time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)))
	})

	t.Run("missing fields", func(t *testing.T) {
		_, _, _, err := parseEventTimes(nil, time.UTC)
		assert.Error(t, err)

		_, _, _, err = parseEventTimes(&calendar.Event{Start: &calendar.EventDateTime{}}, time.UTC)
		assert.Error(t, err)

		_, _, _, err = parseEventTimes(&calendar.Event{
			Start: &calendar.EventDateTime{DateTime: "not-a-time"},
			End:   &calendar.EventDateTime{DateTime: "2026-09-01T16:00:00Z"},
		}, time.UTC)
		assert.Error(t, err)
	})
}

func TestGatewayValidation(t *testing.T) {
	start := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)

	t.Run("uninitialized service", func(t *testing.T) {
		g := &Gateway{}

		_, err := g.ListUpcoming(context.Background(), 10)
		assert.Error(t, err)

		_, err = g.CreateEvent(context.Background(), EventInput{Summary: "x", Start: start, End: start.Add(time.Hour)})
		assert.Error(t, err)

		assert.Error(t, g.DeleteEvent(context.Background(), "ev1"))
	})

	t.Run("create requires a summary and a positive span", func(t *testing.T) {
		g := &Gateway{service: &calendar.Service{}}

		_, err := g.CreateEvent(context.Background(), EventInput{Start: start, End: start.Add(time.Hour)})
		assert.ErrorContains(t, err, "summary")

		_, err = g.CreateEvent(context.Background(), EventInput{Summary: "x", Start: start, End: start})
		assert.ErrorContains(t, err, "end must be after start")
	})

	t.Run("delete requires an id", func(t *testing.T) {
		g := &Gateway{service: &calendar.Service{}}
		assert.ErrorContains(t, g.DeleteEvent(context.Background(), ""), "event id")
	})
}

func TestIsEventNotFound(t *testing.T) {
	assert.True(t, IsEventNotFound(ErrEventNotFound))
	assert.True(t, IsEventNotFound(fmt.Errorf("wrapped: %w", ErrEventNotFound)))
	assert.False(t, IsEventNotFound(errors.New("other failure")))
	assert.False(t, IsEventNotFound(nil))
}

func TestNewGatewayRequiresToken(t *testing.T) {
	_, err := NewGateway(context.Background(), nil, nil)
	assert.ErrorContains(t, err, "no token")
}
