package classify

import (
	"strings"
	"unicode"
)

// keywordSet binds an action to its trigger phrases. Matching is
// case-insensitive substring containment against the whole message.
type keywordSet struct {
	action   ActionType
	keywords []string
}

// keywordSets is checked in order; first match wins. The ordering is
// deliberate: DONE is checked before STARTED so that a message like
// "started and now done" resolves to the terminal, more actionable state.
// No disambiguation of multiple simultaneous matches is attempted.
var keywordSets = []keywordSet{
	{ActionAccept, []string{
		"accept", "accepted", "confirm", "confirmed", "yes", "sure",
		"okay", "ok", "on it", "will do", "got it", "understood",
		"roger", "👍", "✅", "✓",
	}},
	{ActionDecline, []string{
		"decline", "declined", "reject", "rejected", "can't", "cannot",
		"can not", "unable", "not available", "unavailable", "nope",
		"no thanks", "too busy", "pass on this", "❌", "👎",
	}},
	{ActionDone, []string{
		"done", "completed", "complete", "finished", "finish",
		"submitted", "filed", "delivered", "wrapped up", "all set", "✔",
	}},
	{ActionStarted, []string{
		"started", "starting", "begun", "on the story",
	}},
	{ActionArrived, []string{
		"arrived", "i'm here", "im here", "reached", "at the scene",
		"on site", "at the location", "on location",
	}},
	{ActionOnWay, []string{
		"on my way", "on the way", "omw", "en route", "heading there",
		"heading over", "leaving now", "driving over",
	}},
	{ActionDelay, []string{
		"delay", "delayed", "running late", "running behind",
		"need more time", "postpone", "stuck in traffic", "traffic",
	}},
	{ActionIssue, []string{
		"issue", "problem", "trouble", "blocked", "emergency",
		"need help", "urgent",
	}},
}

// Classify turns one raw message body into a ParsedMessage. knownTaskID is a
// task id already resolved by context (reply correlation); when empty the
// classifier falls back to extracting an id token from the text itself, and
// failing that resolves to TaskIDUnknown.
//
// Classify never fails: input matching no keyword set yields an UNKNOWN
// action carrying the raw text, at low confidence.
func Classify(text, knownTaskID string) ParsedMessage {
	lower := strings.ToLower(text)

	taskID := knownTaskID
	if taskID == "" {
		taskID = ExtractTaskID(text)
	}
	if taskID == "" {
		taskID = TaskIDUnknown
	}

	msg := ParsedMessage{
		OriginalText: text,
		Confidence:   ConfidenceLow,
		Action:       ParsedAction{Type: ActionUnknown, RawText: text},
	}

	for _, set := range keywordSets {
		matched := ""
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				matched = kw
				break
			}
		}
		if matched == "" {
			continue
		}
		msg.Action = buildAction(set.action, taskID, text, matched)
		msg.Confidence = ConfidenceHigh
		break
	}

	if extracted := extractAll(text); !extracted.Empty() {
		msg.Extracted = extracted
		// Extracted financial data is less certain than a keyword match
		// and warrants human confirmation.
		if extracted.BudgetRequest != nil && msg.Confidence == ConfidenceHigh {
			msg.Confidence = ConfidenceMedium
		}
	}

	return msg
}

func buildAction(t ActionType, taskID, text, matched string) ParsedAction {
	a := ParsedAction{Type: t, TaskID: taskID}
	switch t {
	case ActionDecline:
		a.Reason = trailingClause(text, matched)
	case ActionIssue:
		a.Description = strings.TrimSpace(text)
	case ActionDelay:
		a.Minutes = ExtractTimeEstimate(text)
	}
	return a
}

// trailingClause returns the text following the matched keyword, trimmed of
// leading separators. Used to capture a decline reason like
// "can't, covering the council vote".
//
// Lowercasing can change a rune's UTF-8 width (Ⱥ grows, İ shrinks), so a
// byte offset found in the lowered text cannot index the original directly.
// The text is lowered rune-by-rune with a boundary map back to original
// offsets.
func trailingClause(text, matched string) string {
	var lowered strings.Builder
	lowered.Grow(len(text))
	boundary := make(map[int]int, len(text)+1)
	for i, r := range text {
		boundary[lowered.Len()] = i
		lowered.WriteRune(unicode.ToLower(r))
	}
	low := lowered.String()
	boundary[len(low)] = len(text)

	idx := strings.Index(low, matched)
	if idx < 0 {
		return ""
	}
	orig, ok := boundary[idx+len(matched)]
	if !ok {
		// Keyword end falls inside a rune of the lowered text; no clause to
		// recover.
		return ""
	}
	rest := strings.TrimLeft(text[orig:], " ,.:;-")
	return strings.TrimSpace(rest)
}

// extractAll runs every extraction helper against the text. Extractors are
// independent; any of them may come back empty.
func extractAll(text string) *ExtractedData {
	d := &ExtractedData{
		ContactInfo:   ExtractContactInfo(text),
		BudgetRequest: ExtractBudgetRequest(text),
	}
	return d
}
