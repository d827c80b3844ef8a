package reporting

import (
	"context"
	"time"

	"newsdesk-platform/internal/expenses"
	"newsdesk-platform/internal/tasks"
)

// MemoryRepo serves summaries from in-memory slices. Useful for tests.
type MemoryRepo struct {
	Tasks    []tasks.Task
	Expenses []expenses.Expense
}

func (r *MemoryRepo) ListTasks(_ context.Context, from, to time.Time, assigneeID string) ([]tasks.Task, error) {
	var out []tasks.Task
	for _, t := range r.Tasks {
		if t.CreatedAt.Before(from) || !t.CreatedAt.Before(to) {
			continue
		}
		if assigneeID != "" && t.AssigneeID != assigneeID {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *MemoryRepo) ListExpenses(_ context.Context, from, to time.Time, taskID string) ([]expenses.Expense, error) {
	var out []expenses.Expense
	for _, e := range r.Expenses {
		if e.CreatedAt.Before(from) || !e.CreatedAt.Before(to) {
			continue
		}
		if taskID != "" && e.TaskID != taskID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
