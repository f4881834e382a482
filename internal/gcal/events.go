package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
)

var ErrEventNotFound = errors.New("google calendar event not found")

// IsEventNotFound returns true when a Google Calendar event no longer exists.
func IsEventNotFound(err error) bool {
	return errors.Is(err, ErrEventNotFound)
}

// Event is one upcoming calendar event as the dialogue needs to see it.
type Event struct {
	ID        string
	Summary   string
	Start     time.Time
	End       time.Time
	AllDay    bool
	Recurring bool
}

// EventInput is the payload for creating an event. Recurrence holds RRULE
// lines in the Google wire form ("RRULE:FREQ=...").
type EventInput struct {
	Summary    string
	Start      time.Time
	End        time.Time
	Timezone   string
	Recurrence []string
}

func parseEventTimes(item *calendar.Event, loc *time.Location) (time.Time, time.Time, bool, error) {
	if item == nil || item.Start == nil || item.End == nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event is missing start or end")
	}

	// All-day events use Date instead of DateTime.
	if item.Start.Date != "" {
		startDate, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day start date: %w", err)
		}
		endDate, err := time.ParseInLocation("2006-01-02", item.End.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day end date: %w", err)
		}
		return startDate, endDate, true, nil
	}

	if item.Start.DateTime == "" || item.End.DateTime == "" {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event datetime is missing")
	}

	startTime, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse start datetime: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse end datetime: %w", err)
	}

	return startTime, endTime, false, nil
}

// ListUpcoming returns up to maxResults future events ordered by start time,
// with recurring series expanded into single instances.
func (g *Gateway) ListUpcoming(ctx context.Context, maxResults int64) ([]Event, error) {
	if g.service == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}

	now := time.Now()
	call := g.service.Events.List(g.calendarID).
		TimeMin(now.Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		ShowDeleted(false).
		OrderBy("startTime").
		Context(ctx)

	events, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}

	result := make([]Event, 0, len(events.Items))
	for _, item := range events.Items {
		if item == nil || item.Status == "cancelled" {
			continue
		}

		start, end, allDay, parseErr := parseEventTimes(item, now.Location())
		if parseErr != nil {
			// Skip malformed events rather than failing the whole request.
			continue
		}

		result = append(result, Event{
			ID:        item.Id,
			Summary:   item.Summary,
			Start:     start,
			End:       end,
			AllDay:    allDay,
			Recurring: len(item.Recurrence) > 0 || item.RecurringEventId != "",
		})
	}

	return result, nil
}

// CreateEvent creates an event and returns its Google event ID.
func (g *Gateway) CreateEvent(ctx context.Context, input EventInput) (string, error) {
	if g.service == nil {
		return "", fmt.Errorf("calendar service not initialized")
	}
	if input.Summary == "" {
		return "", fmt.Errorf("event summary is required")
	}
	if !input.End.After(input.Start) {
		return "", fmt.Errorf("event end must be after start")
	}

	event := &calendar.Event{
		Summary: input.Summary,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: input.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.Format(time.RFC3339),
			TimeZone: input.Timezone,
		},
		Recurrence: input.Recurrence,
	}

	created, err := g.service.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}

	return created.Id, nil
}

// DeleteEvent deletes an event by ID.
func (g *Gateway) DeleteEvent(ctx context.Context, eventID string) error {
	if g.service == nil {
		return fmt.Errorf("calendar service not initialized")
	}
	if eventID == "" {
		return fmt.Errorf("event id is required")
	}

	err := g.service.Events.Delete(g.calendarID, eventID).Context(ctx).Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) && (gErr.Code == http.StatusNotFound || gErr.Code == http.StatusGone) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return nil
}
