package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	"calchat/internal/gcal"
	"calchat/internal/timeutil"
)

// buildEventInput validates an action-ready draft and converts it into the
// gateway payload. The draft must already be merged and normalized; a missing
// title, date or time, or an unparseable date+time, is a validation failure
// and no remote call may happen after one.
func buildEventInput(draft EventDraft, tz string, loc *time.Location) (gcal.EventInput, error) {
	draft = draft.normalized()

	if draft.Title == "" {
		return gcal.EventInput{}, fmt.Errorf("event title is missing")
	}
	if draft.Date == "" || draft.Time == "" {
		return gcal.EventInput{}, fmt.Errorf("event date or time is missing")
	}

	clock := draft.Time
	if !strings.Contains(clock, ":") {
		// A bare hour like "15" still parses as 15:00.
		clock += ":00"
	}

	start, err := timeutil.ParseDateTime(draft.Date, clock, loc)
	if err != nil {
		return gcal.EventInput{}, err
	}

	duration := draft.Duration
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	input := gcal.EventInput{
		Summary:  draft.Title,
		Start:    start,
		End:      end,
		Timezone: tz,
	}

	if draft.Recurrence != "" {
		rule := strings.TrimPrefix(draft.Recurrence, "RRULE:")
		if _, err := rrule.StrToRRule(rule); err != nil {
			return gcal.EventInput{}, fmt.Errorf("invalid recurrence rule %q: %w", draft.Recurrence, err)
		}
		input.Recurrence = []string{"RRULE:" + rule}
	}

	return input, nil
}
