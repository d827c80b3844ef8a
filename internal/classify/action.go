package classify

// ActionType is a classified intent derived from one inbound message.
// The set is closed; unrecognized input maps to ActionUnknown rather than
// failing.
type ActionType string

const (
	ActionAccept         ActionType = "ACCEPT"
	ActionDecline        ActionType = "DECLINE"
	ActionStarted        ActionType = "STARTED"
	ActionOnWay          ActionType = "ON_WAY"
	ActionArrived        ActionType = "ARRIVED"
	ActionDone           ActionType = "DONE"
	ActionDelay          ActionType = "DELAY"
	ActionIssue          ActionType = "ISSUE"
	ActionExtend         ActionType = "EXTEND"
	ActionReassign       ActionType = "REASSIGN"
	ActionCancel         ActionType = "CANCEL"
	ActionCallRequest    ActionType = "CALL_REQUEST"
	ActionProgressUpdate ActionType = "PROGRESS_UPDATE"
	ActionUnknown        ActionType = "UNKNOWN"
)

// TaskIDUnknown is the sentinel task id meaning "could not resolve which task
// this message refers to". It is a deferred-resolution state, not an error;
// the transition resolver declines to act on it and the message is kept for
// manual linking.
const TaskIDUnknown = "unknown"

// ParsedAction is the structured result of classifying one message unit.
// Constructed once per inbound message, immutable, consumed exactly once by
// the transition resolver (or discarded).
type ParsedAction struct {
	Type   ActionType `json:"type"`
	TaskID string     `json:"task_id,omitempty"`

	// Minutes is set for DELAY/EXTEND when a duration was parseable.
	Minutes *int `json:"minutes,omitempty"`

	// Description carries free text for ISSUE.
	Description string `json:"description,omitempty"`

	// Reason carries free text for DECLINE.
	Reason string `json:"reason,omitempty"`

	// RawText preserves the original message for UNKNOWN, for audit and
	// manual review.
	RawText string `json:"raw_text,omitempty"`
}

// Confidence is a triage hint for downstream consumers (e.g. routing
// low-confidence parses to a human review queue). It never blocks a
// transition.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ParsedMessage is the classifier output envelope.
type ParsedMessage struct {
	Action       ParsedAction   `json:"action"`
	OriginalText string         `json:"original_text"`
	Confidence   Confidence     `json:"confidence"`
	Extracted    *ExtractedData `json:"extracted,omitempty"`
}

// ExtractedData is secondary structured data found alongside the primary
// classification. Every field is independently optional; a nil ExtractedData
// means nothing secondary was found.
type ExtractedData struct {
	Location      *Location      `json:"location,omitempty"`
	ContactInfo   *ContactInfo   `json:"contact_info,omitempty"`
	BudgetRequest *BudgetRequest `json:"budget_request,omitempty"`
	MediaURLs     []string       `json:"media_urls,omitempty"`
}

// Empty reports whether no extractor produced anything.
func (d *ExtractedData) Empty() bool {
	return d == nil || (d.Location == nil && d.ContactInfo == nil && d.BudgetRequest == nil && len(d.MediaURLs) == 0)
}

type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address,omitempty"`
}

type ContactInfo struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type BudgetRequest struct {
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}
