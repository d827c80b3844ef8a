package whatsapp

import (
	"testing"

	"newsdesk-platform/internal/classify"
)

func textMessage(body string) IncomingMessage {
	return IncomingMessage{
		From:      "97312345678",
		ID:        "wamid.1",
		Timestamp: "1700000000",
		Type:      "text",
		Text:      &TextPayload{Body: body},
	}
}

func TestParseIncoming_Text(t *testing.T) {
	in := ParseIncoming(textMessage("accepted, on my way soon"), "t1")
	if in.Message.Action.Type != classify.ActionAccept {
		t.Fatalf("expected ACCEPT, got %s", in.Message.Action.Type)
	}
	if in.Message.Action.TaskID != "t1" {
		t.Fatalf("expected known task id, got %q", in.Message.Action.TaskID)
	}
	if in.From != "97312345678" || in.MessageID != "wamid.1" {
		t.Fatalf("envelope fields not carried over")
	}
	if in.Timestamp.Unix() != 1700000000 {
		t.Fatalf("unexpected timestamp: %v", in.Timestamp)
	}
}

func TestParseIncoming_ButtonPayload(t *testing.T) {
	msg := IncomingMessage{
		From: "973", ID: "wamid.2", Timestamp: "1700000000", Type: "button",
		Button: &ButtonPayload{Payload: "accept_abc123", Text: "Accept"},
	}
	in := ParseIncoming(msg, "")
	if in.Message.Action.Type != classify.ActionAccept {
		t.Fatalf("expected ACCEPT, got %s", in.Message.Action.Type)
	}
	if in.Message.Action.TaskID != "abc123" {
		t.Fatalf("expected task id abc123, got %q", in.Message.Action.TaskID)
	}
	if in.Message.Confidence != classify.ConfidenceHigh {
		t.Fatalf("button payloads are unambiguous; expected high confidence")
	}
}

func TestParseIncoming_ButtonPayloadUnderscoreTaskID(t *testing.T) {
	msg := IncomingMessage{
		Type:   "button",
		Button: &ButtonPayload{Payload: "delay_task_42_b"},
	}
	in := ParseIncoming(msg, "")
	if in.Message.Action.Type != classify.ActionDelay {
		t.Fatalf("expected DELAY, got %s", in.Message.Action.Type)
	}
	// Only the first token is the action; the rest is the task id verbatim.
	if in.Message.Action.TaskID != "task_42_b" {
		t.Fatalf("expected task_42_b, got %q", in.Message.Action.TaskID)
	}
}

func TestParseIncoming_ButtonFallbackToLabel(t *testing.T) {
	msg := IncomingMessage{
		Type:   "button",
		Button: &ButtonPayload{Text: "Done"},
	}
	in := ParseIncoming(msg, "t9")
	if in.Message.Action.Type != classify.ActionDone {
		t.Fatalf("expected DONE from label classification, got %s", in.Message.Action.Type)
	}
}

func TestParseIncoming_Location(t *testing.T) {
	msg := IncomingMessage{
		Type:     "location",
		Location: &LocationPayload{Latitude: 26.2, Longitude: 50.58, Address: "Manama"},
	}
	in := ParseIncoming(msg, "")
	if in.Message.Action.Type != classify.ActionArrived {
		t.Fatalf("expected ARRIVED, got %s", in.Message.Action.Type)
	}
	if in.Message.Action.TaskID != classify.TaskIDUnknown {
		t.Fatalf("expected unknown task id, got %q", in.Message.Action.TaskID)
	}
	loc := in.Message.Extracted.Location
	if loc == nil || loc.Lat != 26.2 || loc.Lng != 50.58 || loc.Address != "Manama" {
		t.Fatalf("expected extracted location, got %+v", loc)
	}
}

func TestParseIncoming_LocationReplyAdoptsLinkedTask(t *testing.T) {
	// A pin carries no task id of its own, but when it is sent as a reply the
	// link store has already resolved the task; that resolution carries over so
	// the ARRIVED transition can apply.
	msg := IncomingMessage{
		Type:     "location",
		Context:  &MessageContext{ID: "wamid.out.7"},
		Location: &LocationPayload{Latitude: 26.2, Longitude: 50.58},
	}
	in := ParseIncoming(msg, "t7")
	if in.Message.Action.Type != classify.ActionArrived {
		t.Fatalf("expected ARRIVED, got %s", in.Message.Action.Type)
	}
	if in.Message.Action.TaskID != "t7" {
		t.Fatalf("expected linked task id, got %q", in.Message.Action.TaskID)
	}
}

func TestParseIncoming_ImageCaptionAdoptsAction(t *testing.T) {
	msg := IncomingMessage{
		Type:  "image",
		Image: &MediaPayload{ID: "media-1", Caption: "done, photos attached"},
	}
	in := ParseIncoming(msg, "t1")
	if in.Message.Action.Type != classify.ActionDone {
		t.Fatalf("expected DONE from caption, got %s", in.Message.Action.Type)
	}
	if len(in.Message.Extracted.MediaURLs) != 1 || in.Message.Extracted.MediaURLs[0] != "media-1" {
		t.Fatalf("expected media id carried over, got %v", in.Message.Extracted.MediaURLs)
	}
}

func TestParseIncoming_ImageNeutralCaption(t *testing.T) {
	msg := IncomingMessage{
		Type:  "image",
		Image: &MediaPayload{ID: "media-2", Caption: "from the venue"},
	}
	in := ParseIncoming(msg, "t1")
	// A neutral caption must not silently trigger a state change.
	if in.Message.Action.Type != classify.ActionUnknown {
		t.Fatalf("expected UNKNOWN, got %s", in.Message.Action.Type)
	}
	if len(in.Message.Extracted.MediaURLs) != 1 {
		t.Fatalf("expected media id extraction")
	}
}

func TestParseIncoming_AudioNoAction(t *testing.T) {
	msg := IncomingMessage{
		Type:  "audio",
		Audio: &MediaPayload{ID: "voice-1"},
	}
	in := ParseIncoming(msg, "t1")
	if in.Message.Action.Type != classify.ActionUnknown {
		t.Fatalf("audio must not infer an action, got %s", in.Message.Action.Type)
	}
	if len(in.Message.Extracted.MediaURLs) != 1 || in.Message.Extracted.MediaURLs[0] != "voice-1" {
		t.Fatalf("expected media id only, got %v", in.Message.Extracted.MediaURLs)
	}
}

func TestParseIncoming_UnrecognizedType(t *testing.T) {
	in := ParseIncoming(IncomingMessage{Type: "sticker"}, "")
	if in.Message.Action.Type != classify.ActionUnknown {
		t.Fatalf("expected UNKNOWN for unrecognized type")
	}
	if in.Message.Extracted != nil {
		t.Fatalf("expected empty extraction")
	}
}

func TestParseIncoming_ReplyContext(t *testing.T) {
	msg := textMessage("on it")
	msg.Context = &MessageContext{ID: "wamid.prev"}
	in := ParseIncoming(msg, "t3")
	if in.ReplyToMessageID != "wamid.prev" {
		t.Fatalf("expected reply correlation id, got %q", in.ReplyToMessageID)
	}
}
