package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - Actor and ip capture are best-effort; do not block critical flows on audit failures.
//
// Storage recommendation (Postgres):
// - Table audit_events with an INSERT-only policy.
// - Optional: trigger to prevent UPDATE/DELETE.
// - Optional: partition by time for retention.

type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// ActorUserID is the authenticated user causing the event (if applicable).
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`

	// ActorPhone is the inbound WhatsApp sender for webhook-originated events.
	ActorPhone string `json:"actor_phone,omitempty" db:"actor_phone"`

	// IPAddress should capture the original client IP when available.
	// Prefer X-Forwarded-For processing at the edge; store the resolved client IP here.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// Target identifiers (optional, depending on the event type).
	TaskID    string `json:"task_id,omitempty" db:"task_id"`
	MessageID string `json:"message_id,omitempty" db:"message_id"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	// EventTypeUnauthorizedSender records an inbound message whose sender is
	// not the task's assignee. Security-relevant: possible spoofing or a
	// stale assignment, never a silent no-op.
	EventTypeUnauthorizedSender EventType = "unauthorized_sender"

	// EventTypeEditorOverride records a forced transition from the editor
	// API (cancel, reassign).
	EventTypeEditorOverride EventType = "editor_override"
)
