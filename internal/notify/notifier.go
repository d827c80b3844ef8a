package notify

import (
	"context"
	"time"
)

// Event is a system notification about field activity on a task, addressed
// to the task's creator. Emitting it after a successful transition is a
// required side effect: it is the creator's only signal that something
// happened in the field.
type Event struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"task_id"`
	RecipientID string    `json:"recipient_id"`
	ActorID     string    `json:"actor_id"`
	Action      string    `json:"action"`
	Message     string    `json:"message"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Notifier delivers creator notifications. Implementations must tolerate
// duplicate events (upstream delivery is at-least-once; the dedupe layer
// keeps duplicates rare, not impossible).
type Notifier interface {
	Publish(ctx context.Context, e Event) error
}
