package expenses

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repository for tests and local development.
type MemoryRepo struct {
	mu       sync.RWMutex
	byID     map[string]Expense
	ordering []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Expense)}
}

func (r *MemoryRepo) Create(_ context.Context, e Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[e.ID]; ok {
		return ErrInvalidArgument
	}
	r.byID[e.ID] = e
	r.ordering = append(r.ordering, e.ID)
	return nil
}

func (r *MemoryRepo) GetByID(_ context.Context, id string) (Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byID[id]
	if !ok {
		return Expense{}, ErrNotFound
	}
	return e, nil
}

func (r *MemoryRepo) ListByTask(_ context.Context, taskID string) ([]Expense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Expense
	for _, id := range r.ordering {
		if e := r.byID[id]; e.TaskID == taskID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *MemoryRepo) SetStatus(_ context.Context, id string, status ExpenseStatus, reviewedBy string, reviewedAt time.Time) (Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return Expense{}, ErrNotFound
	}
	e.Status = status
	e.ReviewedBy = reviewedBy
	e.ReviewedAt = &reviewedAt
	r.byID[id] = e
	return e, nil
}
