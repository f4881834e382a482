package chat

// The dialogue carries no server-side session state. Every pending flow is
// represented by one of the context types below, returned to the client in a
// TurnResponse and echoed back verbatim in the next TurnRequest. The server
// treats echoed contexts as untrusted but structurally typed input.

// EventDraft accumulates the fields of a to-be-created event across turns.
// Empty string means the field is still unknown; Duration 0 means unspecified
// (it defaults to 60 minutes on merge).
type EventDraft struct {
	Title      string `json:"title,omitempty"`
	Date       string `json:"date,omitempty"` // YYYY-MM-DD
	Time       string `json:"time,omitempty"` // HH:MM, 24-hour
	Duration   int    `json:"duration,omitempty"`
	Recurrence string `json:"recurrence,omitempty"` // RRULE content, e.g. FREQ=WEEKLY;BYDAY=TU
}

// CancelContext is a single candidate event awaiting yes/no deletion
// confirmation. It is consumed on the next turn regardless of the answer.
type CancelContext struct {
	EventID     string `json:"eventId"`
	Summary     string `json:"summary"`
	IsRecurring bool   `json:"isRecurring"`
}

// CancelListEntry is one row of an ordered candidate list presented when a
// cancel request matched zero or several events. A valid 1-based index
// promotes the entry to a CancelContext.
type CancelListEntry struct {
	EventID     string `json:"eventId"`
	Summary     string `json:"summary"`
	IsRecurring bool   `json:"isRecurring"`
	Index       int    `json:"index"`
}

// DeleteCandidate is one event proposed for bulk deletion.
type DeleteCandidate struct {
	EventID     string `json:"eventId"`
	Summary     string `json:"summary"`
	IsRecurring bool   `json:"isRecurring"`
}

// DeleteAllContext is the set of events awaiting a bulk-delete yes/no.
// EventType records the category that actually produced the match set
// ("events" when the set came from an exact title match).
type DeleteAllContext struct {
	Events    []DeleteCandidate `json:"events"`
	EventType string            `json:"eventType"`
}

// TurnRequest is one inbound chat turn: the user message plus whatever pending
// context the previous response asked the client to hold.
type TurnRequest struct {
	Message          string            `json:"message"`
	Context          *EventDraft       `json:"context,omitempty"`
	CancelContext    *CancelContext    `json:"cancelContext,omitempty"`
	CancelList       []CancelListEntry `json:"cancelList,omitempty"`
	DeleteAllContext *DeleteAllContext `json:"deleteAllContext,omitempty"`
}

// TurnResponse is the reply plus at most one pending context for the client to
// hold until the next turn. ClearContext tells the client to drop everything.
type TurnResponse struct {
	Reply            string            `json:"reply"`
	Missing          []string          `json:"missing,omitempty"`
	Questions        []string          `json:"questions,omitempty"`
	Partial          *EventDraft       `json:"partial,omitempty"`
	Confirm          bool              `json:"confirm,omitempty"`
	CancelContext    *CancelContext    `json:"cancelContext,omitempty"`
	CancelList       []CancelListEntry `json:"cancelList,omitempty"`
	DeleteAllContext *DeleteAllContext `json:"deleteAllContext,omitempty"`
	ClearContext     bool              `json:"clearContext,omitempty"`
}
