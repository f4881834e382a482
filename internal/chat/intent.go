package chat

import (
	"regexp"
	"strings"
)

// Intent is the coarse classification of a single user message.
type Intent string

const (
	// IntentBulkDeleteDecision means a bulk-delete confirmation is pending
	// and the message is its answer.
	IntentBulkDeleteDecision Intent = "bulk_delete_decision"
	// IntentCancel covers both a fresh cancel request and any answer while a
	// cancel confirmation or selection is pending.
	IntentCancel Intent = "cancel"
	// IntentList asks to display upcoming events.
	IntentList Intent = "list"
	// IntentCreate is the fallback: the message goes to the extraction flow.
	IntentCreate Intent = "create"
)

// Classify maps a message to an intent given which pending contexts exist.
// Rules are evaluated in fixed priority order, first match wins:
//
//  1. pending bulk-delete confirmation
//  2. cancel keyword, or any pending cancel context
//  3. list heuristics
//  4. fallback to the creation/extraction flow
//
// This order is also what resolves the "cancel" ambiguity: while a pending
// context exists the word is read as a negative answer inside that flow; with
// no pending context it triggers cancel intent.
func Classify(message string, hasCancelCtx, hasDeleteAllCtx bool) Intent {
	switch {
	case hasDeleteAllCtx:
		return IntentBulkDeleteDecision
	case IsCancelIntent(message) || hasCancelCtx:
		return IntentCancel
	case IsListIntent(message):
		return IntentList
	default:
		return IntentCreate
	}
}

var (
	listKeywords = []string{
		"list", "show", "upcoming", "events", "meetings",
		"what", "when", "schedule", "calendar",
	}

	activityWords = []string{
		"soccer", "football", "basketball", "tennis",
		"workout", "gym", "practice", "game",
	}

	listPattern = regexp.MustCompile(`(?i)\b(list|show|upcoming|my|what)\s+(soccer|football|basketball|tennis|workout|gym|practice|game)\b`)

	// Any explicit time or date token means the message is about scheduling
	// something, not listing.
	timeDatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\d{1,2}:\d{2}\s*(am|pm)`),
		regexp.MustCompile(`(?i)\d{1,2}\s*(am|pm)`),
		regexp.MustCompile(`(?i)\b(today|tomorrow|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
		regexp.MustCompile(`\d{1,2}/\d{1,2}`),
		regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	}
)

// IsListIntent reports whether the message asks to display events. A message
// carrying an explicit time or date token is never a list intent, even when a
// list keyword co-occurs ("show soccer practice at 3pm" is a creation request).
func IsListIntent(message string) bool {
	lower := strings.ToLower(message)

	for _, p := range timeDatePatterns {
		if p.MatchString(message) {
			return false
		}
	}

	for _, kw := range listKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	if listPattern.MatchString(message) {
		return true
	}

	// A bare one-or-two-word message naming a known activity reads as
	// "show me my soccer".
	if len(strings.Fields(message)) <= 2 {
		for _, w := range activityWords {
			if strings.Contains(lower, w) {
				return true
			}
		}
	}

	return false
}

// IsCancelIntent reports whether the message asks to cancel or delete events.
func IsCancelIntent(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "cancel") ||
		strings.Contains(lower, "delete") ||
		strings.Contains(lower, "remove")
}

// IsBulkDeletePhrase reports whether the message targets a whole category
// rather than a single event.
func IsBulkDeletePhrase(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "delete all") ||
		strings.Contains(lower, "cancel all") ||
		strings.Contains(lower, "remove all")
}

var affirmatives = []string{"yes", "confirm", "ok", "create", "sure", "y"}

var negatives = []string{"no", "cancel", "abort", "nope", "nah", "n"}

// IsAffirmative reports whether the trimmed, lower-cased message exactly
// equals one of the affirmative tokens.
func IsAffirmative(message string) bool {
	return isExactToken(message, affirmatives)
}

// IsNegative reports whether the trimmed, lower-cased message exactly equals
// one of the negative tokens. Callers must only consult this while a pending
// context exists; see Classify for the "cancel" precedence rule.
func IsNegative(message string) bool {
	return isExactToken(message, negatives)
}

func isExactToken(message string, tokens []string) bool {
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, t := range tokens {
		if normalized == t {
			return true
		}
	}
	return false
}

// eventCategory maps a canonical category to title keywords. Matching is
// case-insensitive substring search against event titles.
type eventCategory struct {
	Name     string
	Keywords []string
}

// Evaluation order matters: "practice" belongs to several categories and the
// first category hit wins.
var eventCategories = []eventCategory{
	{"soccer", []string{"soccer", "football", "futbol", "match", "game", "practice", "training"}},
	{"basketball", []string{"basketball", "bball", "hoops", "game", "practice", "training"}},
	{"tennis", []string{"tennis", "match", "game", "practice", "training"}},
	{"workout", []string{"workout", "gym", "exercise", "training", "fitness", "cardio"}},
	{"meeting", []string{"meeting", "call", "conference", "discussion", "sync"}},
	{"coding", []string{"coding", "programming", "development", "code", "hackathon", "project"}},
}

// MatchCategory returns the first event category whose keywords appear in the
// message.
func MatchCategory(message string) (eventCategory, bool) {
	lower := strings.ToLower(message)
	for _, cat := range eventCategories {
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				return cat, true
			}
		}
	}
	return eventCategory{}, false
}

// titleMatchesCategory reports whether an event title contains any of the
// category's keywords.
func titleMatchesCategory(title string, cat eventCategory) bool {
	lower := strings.ToLower(title)
	for _, kw := range cat.Keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
