package whatsapp

import (
	"strings"
	"time"

	"newsdesk-platform/internal/classify"
)

// ParsedInbound is the provider-agnostic result of unwrapping one inbound
// message unit. It is what the task pipeline consumes; no webhook or
// provider detail leaks past this type.
type ParsedInbound struct {
	From      string
	MessageID string
	Timestamp time.Time
	Type      string

	Message classify.ParsedMessage

	// ReplyToMessageID correlates a reply back to the outbound message it
	// answers (and through the message-link store, to a task). This is the
	// primary task-id resolution path, stronger than an id embedded in text.
	ReplyToMessageID string
}

// buttonActions decodes the first token of a structured button payload.
// Button payloads are unambiguous by construction, so they bypass keyword
// matching entirely.
var buttonActions = map[string]classify.ActionType{
	"accept":   classify.ActionAccept,
	"decline":  classify.ActionDecline,
	"started":  classify.ActionStarted,
	"onway":    classify.ActionOnWay,
	"arrived":  classify.ActionArrived,
	"done":     classify.ActionDone,
	"delay":    classify.ActionDelay,
	"issue":    classify.ActionIssue,
	"extend":   classify.ActionExtend,
	"reassign": classify.ActionReassign,
	"cancel":   classify.ActionCancel,
	"call":     classify.ActionCallRequest,
}

// ParseIncoming unwraps one transport-level message and delegates its content
// to the classifier. knownTaskID, when non-empty, is a task id already
// resolved from reply correlation and takes precedence over anything found in
// the text.
func ParseIncoming(m IncomingMessage, knownTaskID string) ParsedInbound {
	out := ParsedInbound{
		From:      m.From,
		MessageID: m.ID,
		Timestamp: m.SentAt(),
		Type:      m.Type,
	}
	if m.Context != nil {
		out.ReplyToMessageID = m.Context.ID
	}

	switch m.Type {
	case "text":
		body := ""
		if m.Text != nil {
			body = m.Text.Body
		}
		out.Message = classify.Classify(body, knownTaskID)

	case "button":
		out.Message = parseButton(m.Button, knownTaskID)

	case "location":
		// A shared pin is an arrival signal in this protocol, not resolved
		// against task geofencing.
		out.Message = classify.ParsedMessage{
			Action:     classify.ParsedAction{Type: classify.ActionArrived, TaskID: classify.TaskIDUnknown},
			Confidence: classify.ConfidenceHigh,
		}
		if knownTaskID != "" {
			out.Message.Action.TaskID = knownTaskID
		}
		if m.Location != nil {
			out.Message.Extracted = &classify.ExtractedData{
				Location: &classify.Location{
					Lat:     m.Location.Latitude,
					Lng:     m.Location.Longitude,
					Address: m.Location.Address,
				},
			}
		}

	case "image", "video", "document":
		out.Message = parseMedia(mediaFor(m), knownTaskID, true)

	case "audio":
		// Audio has no caption; the media id is extracted but no action is
		// inferred.
		out.Message = parseMedia(m.Audio, knownTaskID, false)

	default:
		out.Message = classify.ParsedMessage{
			Action:     classify.ParsedAction{Type: classify.ActionUnknown},
			Confidence: classify.ConfidenceLow,
		}
	}

	return out
}

func parseButton(b *ButtonPayload, knownTaskID string) classify.ParsedMessage {
	if b == nil {
		return classify.ParsedMessage{
			Action:     classify.ParsedAction{Type: classify.ActionUnknown},
			Confidence: classify.ConfidenceLow,
		}
	}

	if b.Payload != "" {
		// Payload format is action_taskId; the task id may itself contain
		// underscores, so only the first token is the action.
		token, rest, found := strings.Cut(b.Payload, "_")
		if found {
			if action, ok := buttonActions[token]; ok && rest != "" {
				return classify.ParsedMessage{
					Action:       classify.ParsedAction{Type: action, TaskID: rest},
					OriginalText: b.Text,
					Confidence:   classify.ConfidenceHigh,
				}
			}
		}
	}

	// No structured payload: fall back to classifying the visible label.
	return classify.Classify(b.Text, knownTaskID)
}

func parseMedia(media *MediaPayload, knownTaskID string, caption bool) classify.ParsedMessage {
	msg := classify.ParsedMessage{
		Action:     classify.ParsedAction{Type: classify.ActionUnknown},
		Confidence: classify.ConfidenceLow,
	}
	if media == nil {
		return msg
	}

	msg.Extracted = &classify.ExtractedData{MediaURLs: []string{media.ID}}

	if caption && media.Caption != "" {
		classified := classify.Classify(media.Caption, knownTaskID)
		// Adopt the caption's action only when it resolves to something
		// concrete; an un-captioned or neutral-captioned media message must
		// not silently trigger a state change.
		if classified.Action.Type != classify.ActionUnknown {
			extracted := classified.Extracted
			if extracted == nil {
				extracted = &classify.ExtractedData{}
			}
			extracted.MediaURLs = append(extracted.MediaURLs, media.ID)
			classified.Extracted = extracted
			return classified
		}
		msg.OriginalText = media.Caption
	}

	return msg
}

func mediaFor(m IncomingMessage) *MediaPayload {
	switch m.Type {
	case "image":
		return m.Image
	case "video":
		return m.Video
	case "document":
		return m.Document
	}
	return nil
}
