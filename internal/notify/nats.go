package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// NATSNotifier publishes notification events to JetStream. Dashboard and
// alerting consumers subscribe to notifications.tasks.>.
type NATSNotifier struct {
	js      jetstream.JetStream
	subject string
}

const defaultSubjectPrefix = "notifications.tasks"

func NewNATSNotifier(nc *nats.Conn) (*NATSNotifier, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("notify: jetstream init: %w", err)
	}
	return &NATSNotifier{js: js, subject: defaultSubjectPrefix}, nil
}

func (n *NATSNotifier) Publish(ctx context.Context, e Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("notify: marshal event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s", n.subject, e.TaskID)
	// Publishing the event id as the dedupe id lets JetStream drop
	// duplicates within its dedupe window.
	if _, err := n.js.Publish(ctx, subject, data, jetstream.WithMsgID(e.ID)); err != nil {
		return fmt.Errorf("notify: publish: %w", err)
	}
	return nil
}
