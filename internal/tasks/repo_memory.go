package tasks

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository for tests and local development.
type MemoryRepo struct {
	mu        sync.RWMutex
	tasks     map[string]Task
	links     map[string]string // wa message id -> task id
	processed map[string]string // wa message id -> task id

	clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		tasks:     make(map[string]Task),
		links:     make(map[string]string),
		processed: make(map[string]string),
		clock:     time.Now,
	}
}

func (r *MemoryRepo) Create(_ context.Context, t Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[t.ID]; ok {
		return ErrInvalidArgument
	}
	r.tasks[t.ID] = t
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.tasks[id]; ok {
		return t, nil
	}
	// Footer short ids are the uppercased 8-char id prefix.
	if len(id) == 8 {
		for _, t := range r.tasks {
			if len(t.ID) >= 8 && strings.EqualFold(t.ID[:8], id) {
				return t, nil
			}
		}
	}
	return Task{}, ErrNotFound
}

func (r *MemoryRepo) ListByStatus(_ context.Context, status TaskStatus) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Task
	for _, t := range r.tasks {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *MemoryRepo) ApplyUpdate(_ context.Context, id string, upd TaskUpdate, sourceMessageID string) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok {
		return Task{}, ErrNotFound
	}
	if sourceMessageID != "" {
		if _, dup := r.processed[sourceMessageID]; dup {
			return Task{}, ErrAlreadyProcessed
		}
		r.processed[sourceMessageID] = id
	}

	if upd.Status != nil {
		t.Status = *upd.Status
	}
	if upd.AssigneeID != nil {
		t.AssigneeID = *upd.AssigneeID
	}
	if upd.SentAt != nil {
		t.SentAt = upd.SentAt
	}
	if upd.ReadAt != nil {
		t.ReadAt = upd.ReadAt
	}
	if upd.AcceptedAt != nil {
		t.AcceptedAt = upd.AcceptedAt
	}
	if upd.StartedAt != nil {
		t.StartedAt = upd.StartedAt
	}
	if upd.CompletedAt != nil {
		t.CompletedAt = upd.CompletedAt
	}
	if upd.ResponseTimeSecs != nil {
		t.ResponseTimeSecs = upd.ResponseTimeSecs
	}
	if upd.CompletionTimeSecs != nil {
		t.CompletionTimeSecs = upd.CompletionTimeSecs
	}
	if upd.Deadline != nil {
		t.Deadline = upd.Deadline
	}
	t.EscalationCount += upd.EscalationIncrement
	t.UpdatedAt = r.clock().UTC()

	r.tasks[id] = t
	return t, nil
}

func (r *MemoryRepo) SaveLink(_ context.Context, waMessageID, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.links[waMessageID]; !ok {
		r.links[waMessageID] = taskID
	}
	return nil
}

func (r *MemoryRepo) TaskIDByMessageID(_ context.Context, waMessageID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.links[waMessageID], nil
}
