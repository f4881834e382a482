package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"calchat/internal/gcal"
	"calchat/internal/openai"
)

// CalendarGateway performs the remote calendar operations a turn may need.
type CalendarGateway interface {
	ListUpcoming(ctx context.Context, maxResults int64) ([]gcal.Event, error)
	CreateEvent(ctx context.Context, input gcal.EventInput) (string, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Extractor turns free text into structured event fields.
type Extractor interface {
	ExtractEvent(ctx context.Context, message string, partial any) (*openai.Extraction, error)
}

// Dispatcher drives one dialogue turn. It holds no per-session state: every
// pending flow arrives in the TurnRequest and leaves in the TurnResponse.
type Dispatcher struct {
	gateway   CalendarGateway
	extractor Extractor
	loc       *time.Location
	timezone  string
	logger    *slog.Logger
	listMax   int64
	cancelMax int64
	now       func() time.Time
}

// Config wires a Dispatcher's collaborators.
type Config struct {
	Gateway   CalendarGateway
	Extractor Extractor
	// Timezone is the IANA zone events are created in.
	Timezone string
	Location *time.Location
	Logger   *slog.Logger
	// ListPageSize bounds plain listings; CancelPageSize bounds the search
	// window for cancellations.
	ListPageSize   int64
	CancelPageSize int64
	// Now is the clock, injectable for tests.
	Now func() time.Time
}

func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.ListPageSize <= 0 {
		cfg.ListPageSize = 20
	}
	if cfg.CancelPageSize <= 0 {
		cfg.CancelPageSize = 50
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Dispatcher{
		gateway:   cfg.Gateway,
		extractor: cfg.Extractor,
		loc:       cfg.Location,
		timezone:  cfg.Timezone,
		logger:    cfg.Logger,
		listMax:   cfg.ListPageSize,
		cancelMax: cfg.CancelPageSize,
		now:       cfg.Now,
	}
}

// HandleTurn executes one request/response cycle of the dialogue. Remote
// failures are logged and surfaced as a reply; they never propagate as errors.
func (d *Dispatcher) HandleTurn(ctx context.Context, req TurnRequest) TurnResponse {
	intent := Classify(req.Message, req.CancelContext != nil || len(req.CancelList) > 0, req.DeleteAllContext != nil)

	switch intent {
	case IntentBulkDeleteDecision:
		return d.handleBulkDeleteDecision(ctx, req)
	case IntentCancel:
		return d.handleCancel(ctx, req)
	case IntentList:
		return d.handleList(ctx, req)
	default:
		return d.handleCreate(ctx, req)
	}
}

// handleBulkDeleteDecision consumes a pending DeleteAllContext. Deletions run
// strictly sequentially and independently; per-item failures go into the
// report instead of aborting the batch.
func (d *Dispatcher) handleBulkDeleteDecision(ctx context.Context, req TurnRequest) TurnResponse {
	batch := req.DeleteAllContext

	switch {
	case IsAffirmative(req.Message):
		results := make([]string, 0, len(batch.Events))
		succeeded, failed := 0, 0

		for _, event := range batch.Events {
			if err := d.gateway.DeleteEvent(ctx, event.EventID); err != nil {
				// An already-deleted event is the outcome the user asked for.
				if gcal.IsEventNotFound(err) {
					succeeded++
					results = append(results, fmt.Sprintf("✅ **%s** - Already removed", event.Summary))
					continue
				}
				d.logger.Error("bulk delete: failed to delete event", "event_id", event.EventID, "error", err)
				failed++
				results = append(results, fmt.Sprintf("❌ **%s** - Failed to delete", event.Summary))
				continue
			}
			succeeded++
			results = append(results, fmt.Sprintf("✅ **%s** - Deleted successfully", event.Summary))
		}

		reply := fmt.Sprintf("🗑️ **Bulk Delete Results**\n\n%s\n\n📊 **Summary**: %d deleted, %d failed",
			strings.Join(results, "\n"), succeeded, failed)
		return TurnResponse{Reply: reply, ClearContext: true}

	case IsNegative(req.Message):
		return TurnResponse{Reply: "❌ Bulk deletion cancelled. No events were deleted.", ClearContext: true}

	default:
		return TurnResponse{
			Reply:            "Please reply with 'yes' to delete all listed events or 'no' to cancel.",
			DeleteAllContext: batch,
		}
	}
}

func (d *Dispatcher) handleCancel(ctx context.Context, req TurnRequest) TurnResponse {
	if req.CancelContext != nil {
		return d.handleCancelConfirmation(ctx, req)
	}
	if len(req.CancelList) > 0 {
		return d.handleCancelSelection(req)
	}
	return d.searchCancelCandidates(ctx, req)
}

// handleCancelConfirmation consumes a pending single-event CancelContext.
func (d *Dispatcher) handleCancelConfirmation(ctx context.Context, req TurnRequest) TurnResponse {
	cancelCtx := req.CancelContext

	switch {
	case IsAffirmative(req.Message):
		if err := d.gateway.DeleteEvent(ctx, cancelCtx.EventID); err != nil {
			if gcal.IsEventNotFound(err) {
				return TurnResponse{
					Reply:        fmt.Sprintf("✅ Event **%q** was already removed from your calendar.", cancelCtx.Summary),
					ClearContext: true,
				}
			}
			d.logger.Error("failed to delete event", "event_id", cancelCtx.EventID, "error", err)
			return TurnResponse{
				Reply:        "❌ Failed to cancel the event. Please try again or check your permissions.",
				ClearContext: true,
			}
		}
		return TurnResponse{
			Reply:        fmt.Sprintf("✅ Event **%q** has been successfully cancelled.", cancelCtx.Summary),
			ClearContext: true,
		}

	case IsNegative(req.Message):
		return TurnResponse{Reply: "❌ Event cancellation aborted.", ClearContext: true}

	default:
		return TurnResponse{
			Reply:         "Please reply with 'yes' to confirm cancellation or 'no' to abort.",
			CancelContext: cancelCtx,
		}
	}
}

// handleCancelSelection consumes a numeric selection from the last-presented
// candidate list, promoting the chosen entry to a CancelContext.
func (d *Dispatcher) handleCancelSelection(req TurnRequest) TurnResponse {
	if IsNegative(req.Message) {
		return TurnResponse{Reply: "❌ Event cancellation aborted.", ClearContext: true}
	}

	idx, err := strconv.Atoi(strings.TrimSpace(req.Message))
	if err == nil {
		for _, entry := range req.CancelList {
			if entry.Index == idx {
				return TurnResponse{
					Reply: fmt.Sprintf("Do you want to cancel this event: %q? (yes/no)", entry.Summary),
					CancelContext: &CancelContext{
						EventID:     entry.EventID,
						Summary:     entry.Summary,
						IsRecurring: entry.IsRecurring,
					},
				}
			}
		}
	}

	return TurnResponse{
		Reply:      "Invalid selection. Please reply with the number of the event you want to cancel.",
		CancelList: req.CancelList,
	}
}

// searchCancelCandidates builds the match set for a fresh cancel request.
// Exact title matches rank first; under a bulk-delete phrase the category
// keyword table is consulted before exact matches so "delete all soccer"
// targets the whole category rather than one literal title hit.
func (d *Dispatcher) searchCancelCandidates(ctx context.Context, req TurnRequest) TurnResponse {
	events, err := d.gateway.ListUpcoming(ctx, d.cancelMax)
	if err != nil {
		d.logger.Error("failed to fetch events for cancellation", "error", err)
		return TurnResponse{Reply: "❌ Failed to fetch your events. Please try again."}
	}
	if len(events) == 0 {
		return TurnResponse{Reply: "📅 You have no upcoming events to cancel."}
	}

	lowerMsg := strings.ToLower(req.Message)
	var exactMatches []gcal.Event
	for _, e := range events {
		if e.Summary != "" && strings.Contains(lowerMsg, strings.ToLower(e.Summary)) {
			exactMatches = append(exactMatches, e)
		}
	}

	bulk := IsBulkDeletePhrase(req.Message)
	matchedCategory := "events"
	var matches []gcal.Event

	categoryMatches := func() []gcal.Event {
		cat, ok := MatchCategory(req.Message)
		if !ok {
			return nil
		}
		var filtered []gcal.Event
		for _, e := range events {
			if e.Summary != "" && titleMatchesCategory(e.Summary, cat) {
				filtered = append(filtered, e)
			}
		}
		if len(filtered) > 0 {
			matchedCategory = cat.Name
		}
		return filtered
	}

	if bulk {
		matches = categoryMatches()
		if len(matches) == 0 {
			matches = exactMatches
		}
	} else {
		matches = exactMatches
		if len(matches) == 0 {
			matches = categoryMatches()
		}
	}

	now := d.now().In(d.loc)

	switch {
	case len(matches) == 1:
		event := matches[0]
		recurringNote := ""
		if event.Recurring {
			recurringNote = "\n⚠️ This is a recurring event. Deleting it will remove ALL future occurrences."
		}
		return TurnResponse{
			Reply: fmt.Sprintf("🗑️ Do you want to cancel this event?\n\n%s%s\n\nReply with 'yes' to confirm or 'no' to cancel.",
				formatEventLine(1, event, now), recurringNote),
			CancelContext: &CancelContext{
				EventID:     event.ID,
				Summary:     event.Summary,
				IsRecurring: event.Recurring,
			},
		}

	case len(matches) > 1 && bulk:
		return TurnResponse{
			Reply: fmt.Sprintf("🗑️ **Delete All Confirmation**\n\nYou want to delete %d event(s):\n\n%s\n\n⚠️ This action cannot be undone!\n\nReply with 'yes' to delete all or 'no' to cancel.",
				len(matches), formatEventList(matches, now)),
			DeleteAllContext: &DeleteAllContext{
				Events:    toDeleteCandidates(matches),
				EventType: matchedCategory,
			},
		}

	case len(matches) > 1:
		return TurnResponse{
			Reply: fmt.Sprintf("🔍 I found multiple events matching your request:\n\n%s\n\nPlease reply with the number of the event you want to cancel.",
				formatEventList(matches, now)),
			CancelList: toCancelList(matches),
		}

	default:
		// No matches: present everything and ask for a numeric selection.
		return TurnResponse{
			Reply: fmt.Sprintf("🔍 I couldn't find an exact match. Here are your upcoming events:\n\n%s\n\nPlease reply with the number of the event you want to cancel.",
				formatEventList(events, now)),
			CancelList: toCancelList(events),
		}
	}
}

// handleList renders upcoming events, filtered by category when the message
// names one. Listing never changes dialogue state.
func (d *Dispatcher) handleList(ctx context.Context, req TurnRequest) TurnResponse {
	events, err := d.gateway.ListUpcoming(ctx, d.listMax)
	if err != nil {
		d.logger.Error("failed to list events", "error", err)
		return TurnResponse{Reply: "❌ Failed to fetch your events. Please try again."}
	}
	if len(events) == 0 {
		return TurnResponse{Reply: "📅 You have no upcoming events."}
	}

	filtered := events
	if cat, ok := MatchCategory(req.Message); ok {
		filtered = nil
		for _, e := range events {
			if e.Summary != "" && titleMatchesCategory(e.Summary, cat) {
				filtered = append(filtered, e)
			}
		}
		if len(filtered) == 0 {
			return TurnResponse{Reply: fmt.Sprintf("📅 You have no upcoming %s events scheduled.", cat.Name)}
		}
	}

	now := d.now().In(d.loc)
	return TurnResponse{
		Reply: fmt.Sprintf("📅 **Your Upcoming Events**\n\n%s", formatEventList(filtered, now)),
	}
}

func (d *Dispatcher) handleCreate(ctx context.Context, req TurnRequest) TurnResponse {
	// A pending draft plus an explicit yes/no is the confirmation step; any
	// other message goes to extraction (possibly merging into the draft).
	if req.Context != nil && (IsAffirmative(req.Message) || IsNegative(req.Message)) {
		return d.handleCreateConfirmation(ctx, req)
	}
	return d.handleExtraction(ctx, req)
}

// handleCreateConfirmation consumes a pending, already-confirmed-or-rejected
// EventDraft. Creation only ever happens here, after an explicit yes.
func (d *Dispatcher) handleCreateConfirmation(ctx context.Context, req TurnRequest) TurnResponse {
	if IsNegative(req.Message) {
		return TurnResponse{Reply: "❌ Meeting request cancelled.", ClearContext: true}
	}

	merged := Merge(EventDraft{}, req.Context)
	input, err := buildEventInput(merged, d.timezone, d.loc)
	if err != nil {
		d.logger.Warn("draft failed validation", "error", err)
		return TurnResponse{
			Reply:        "I couldn't find a valid date or time in your request. Please specify the event with a clear date and time, e.g., 'Meeting with John tomorrow at 3pm'.",
			ClearContext: true,
		}
	}

	if _, err := d.gateway.CreateEvent(ctx, input); err != nil {
		d.logger.Error("failed to create event", "title", input.Summary, "error", err)
		return TurnResponse{
			Reply:        "❌ Failed to create the event. Please try again or check your calendar permissions.",
			ClearContext: true,
		}
	}

	glyph := ""
	if merged.Recurrence != "" {
		glyph = recurringGlyph
	}
	return TurnResponse{
		Reply: fmt.Sprintf("✅ Event **%q** has been successfully created!\n\n📅 %s (%s)%s",
			merged.Title, FormatEventTime(input.Start, d.now().In(d.loc)), durationText(merged.Duration), glyph),
		ClearContext: true,
	}
}

// handleExtraction invokes the extraction service, merges the result with any
// prior partial draft, and either asks follow-up questions or requests
// confirmation. No event is created on this path.
func (d *Dispatcher) handleExtraction(ctx context.Context, req TurnRequest) TurnResponse {
	extraction, err := d.extractor.ExtractEvent(ctx, req.Message, req.Context)
	if err != nil {
		d.logger.Error("extraction failed", "error", err)
		if openai.IsMalformedResponse(err) {
			return TurnResponse{Reply: "Sorry, I couldn't understand your request. Please try rephrasing."}
		}
		return TurnResponse{Reply: "❌ I couldn't reach the assistant right now. Please try again in a moment."}
	}

	fresh := EventDraft{
		Title:      extraction.Title,
		Date:       extraction.Date,
		Time:       extraction.Time,
		Duration:   extraction.Duration,
		Recurrence: extraction.Recurrence,
	}
	merged := Merge(fresh, req.Context)

	if len(extraction.Missing) > 0 {
		reply := fmt.Sprintf("I need more information: %s. Please provide these details.",
			strings.Join(extraction.Missing, ", "))
		if len(extraction.Questions) > 0 {
			reply = strings.Join(extraction.Questions, " ")
		}
		return TurnResponse{
			Reply:     reply,
			Missing:   extraction.Missing,
			Questions: extraction.Questions,
			Partial:   &merged,
		}
	}

	if _, err := buildEventInput(merged, d.timezone, d.loc); err != nil {
		d.logger.Warn("extracted draft failed validation", "error", err)
		return TurnResponse{
			Reply: "I couldn't find a valid date or time in your request. Please specify the event with a clear date and time, e.g., 'Meeting with John tomorrow at 3pm'.",
		}
	}

	glyph := ""
	if merged.normalized().Recurrence != "" {
		glyph = recurringGlyph
	}
	summary := fmt.Sprintf("📅 **Event Summary**\n\n**Title:** %s\n**Date:** %s\n**Time:** %s\n**Duration:** %s%s",
		merged.Title, merged.Date, merged.Time, durationText(merged.Duration), glyph)

	return TurnResponse{
		Reply:   fmt.Sprintf("%s\n\n✅ Do you want to create this event? (yes/no)", summary),
		Confirm: true,
		Partial: &merged,
	}
}

func toDeleteCandidates(events []gcal.Event) []DeleteCandidate {
	out := make([]DeleteCandidate, 0, len(events))
	for _, e := range events {
		out = append(out, DeleteCandidate{EventID: e.ID, Summary: e.Summary, IsRecurring: e.Recurring})
	}
	return out
}

func toCancelList(events []gcal.Event) []CancelListEntry {
	out := make([]CancelListEntry, 0, len(events))
	for i, e := range events {
		out = append(out, CancelListEntry{EventID: e.ID, Summary: e.Summary, IsRecurring: e.Recurring, Index: i + 1})
	}
	return out
}
