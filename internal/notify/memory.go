package notify

import (
	"context"
	"sync"
)

// MemoryNotifier collects events for tests.
type MemoryNotifier struct {
	mu     sync.Mutex
	Events []Event
}

func (n *MemoryNotifier) Publish(ctx context.Context, e Event) error {
	_ = ctx
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Events = append(n.Events, e)
	return nil
}

// All returns a copy of the collected events.
func (n *MemoryNotifier) All() []Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Event, len(n.Events))
	copy(out, n.Events)
	return out
}
