package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge(t *testing.T) {
	t.Run("fresh fields win over prior", func(t *testing.T) {
		fresh := EventDraft{Title: "Dentist", Date: "2026-09-02", Time: "14:00", Duration: 30}
		prior := &EventDraft{Title: "Old title", Date: "2026-09-01", Time: "09:00", Duration: 45}

		merged := Merge(fresh, prior)
		assert.Equal(t, "Dentist", merged.Title)
		assert.Equal(t, "2026-09-02", merged.Date)
		assert.Equal(t, "14:00", merged.Time)
		assert.Equal(t, 30, merged.Duration)
	})

	t.Run("prior fills the gaps", func(t *testing.T) {
		fresh := EventDraft{Time: "16:00"}
		prior := &EventDraft{Title: "Soccer Practice", Date: "2026-09-05", Duration: 90, Recurrence: "RRULE:FREQ=WEEKLY"}

		merged := Merge(fresh, prior)
		assert.Equal(t, "Soccer Practice", merged.Title)
		assert.Equal(t, "2026-09-05", merged.Date)
		assert.Equal(t, "16:00", merged.Time)
		assert.Equal(t, 90, merged.Duration)
		assert.Equal(t, "RRULE:FREQ=WEEKLY", merged.Recurrence)
	})

	t.Run("duration defaults to sixty minutes", func(t *testing.T) {
		merged := Merge(EventDraft{Title: "Lunch"}, nil)
		assert.Equal(t, 60, merged.Duration)

		merged = Merge(EventDraft{Title: "Lunch", Duration: -5}, &EventDraft{Duration: 0})
		assert.Equal(t, 60, merged.Duration)
	})

	t.Run("literal null strings read as unknown", func(t *testing.T) {
		fresh := EventDraft{Title: "null", Date: "null", Time: "null", Recurrence: "null"}
		prior := &EventDraft{Title: "Gym", Date: "2026-09-03"}

		merged := Merge(fresh, prior)
		assert.Equal(t, "Gym", merged.Title)
		assert.Equal(t, "2026-09-03", merged.Date)
		assert.Empty(t, merged.Time)
		assert.Empty(t, merged.Recurrence)
	})

	t.Run("null in prior does not resurrect", func(t *testing.T) {
		merged := Merge(EventDraft{Title: "Call"}, &EventDraft{Date: "null"})
		assert.Empty(t, merged.Date)
	})
}
