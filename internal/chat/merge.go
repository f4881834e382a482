package chat

const defaultDurationMinutes = 60

// Merge combines freshly extracted fields with a prior partial draft. For each
// field the fresh non-empty value wins, else the prior value, else empty.
// Duration falls back to 60 minutes when neither source supplies one. The
// function is pure and total: missing data stays missing, it is never an
// error here.
func Merge(fresh EventDraft, prior *EventDraft) EventDraft {
	fresh = fresh.normalized()
	merged := fresh

	if prior != nil {
		p := prior.normalized()
		if merged.Title == "" {
			merged.Title = p.Title
		}
		if merged.Date == "" {
			merged.Date = p.Date
		}
		if merged.Time == "" {
			merged.Time = p.Time
		}
		if merged.Recurrence == "" {
			merged.Recurrence = p.Recurrence
		}
		if merged.Duration <= 0 {
			merged.Duration = p.Duration
		}
	}

	if merged.Duration <= 0 {
		merged.Duration = defaultDurationMinutes
	}
	return merged
}

// normalized maps the literal string "null" (which language models emit for
// absent fields) to the empty string, so downstream code has a single
// representation of "unknown".
func (d EventDraft) normalized() EventDraft {
	clean := func(s string) string {
		if s == "null" {
			return ""
		}
		return s
	}
	d.Title = clean(d.Title)
	d.Date = clean(d.Date)
	d.Time = clean(d.Time)
	d.Recurrence = clean(d.Recurrence)
	if d.Duration < 0 {
		d.Duration = 0
	}
	return d
}
