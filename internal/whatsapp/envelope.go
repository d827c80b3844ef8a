package whatsapp

import (
	"strconv"
	"time"
)

// Typed webhook payload for the WhatsApp Business Cloud API.
// The wire payload is validated into these structs at the boundary; nothing
// downstream reads loose maps.
//
// Ref: entry[].changes[].value.{messages[],statuses[]}

type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string            `json:"messaging_product"`
	Metadata         ChangeMetadata    `json:"metadata"`
	Contacts         []Contact         `json:"contacts,omitempty"`
	Messages         []IncomingMessage `json:"messages,omitempty"`
	Statuses         []MessageStatus   `json:"statuses,omitempty"`
}

type ChangeMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

type Contact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

// IncomingMessage is one inbound message unit. Exactly one of the per-type
// payload fields is set, matching Type.
type IncomingMessage struct {
	From      string `json:"from"`
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"` // unix seconds as a string
	Type      string `json:"type"`

	Text     *TextPayload     `json:"text,omitempty"`
	Button   *ButtonPayload   `json:"button,omitempty"`
	Location *LocationPayload `json:"location,omitempty"`
	Image    *MediaPayload    `json:"image,omitempty"`
	Audio    *MediaPayload    `json:"audio,omitempty"`
	Video    *MediaPayload    `json:"video,omitempty"`
	Document *MediaPayload    `json:"document,omitempty"`

	// Context is present when this message is a reply to a prior outbound
	// message; Context.ID is the replied-to message id.
	Context *MessageContext `json:"context,omitempty"`
}

type TextPayload struct {
	Body string `json:"body"`
}

type ButtonPayload struct {
	// Payload is the structured button id ("action_taskId"); Text is the
	// visible label.
	Payload string `json:"payload"`
	Text    string `json:"text"`
}

type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

type MediaPayload struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

type MessageContext struct {
	From string `json:"from,omitempty"`
	ID   string `json:"id"`
}

// MessageStatus is a delivery status update for a previously sent message.
type MessageStatus struct {
	ID          string `json:"id"`
	RecipientID string `json:"recipient_id"`
	Status      string `json:"status"` // sent | delivered | read | failed
	Timestamp   string `json:"timestamp"`
}

// SentAt converts the unix-seconds-string timestamp. A malformed timestamp
// falls back to the zero time; callers substitute the receive time.
func (m IncomingMessage) SentAt() time.Time {
	secs, err := strconv.ParseInt(m.Timestamp, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}

func (s MessageStatus) OccurredAt() time.Time {
	secs, err := strconv.ParseInt(s.Timestamp, 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}
