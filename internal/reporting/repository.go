package reporting

import (
	"context"
	"database/sql"
	"time"

	"newsdesk-platform/internal/expenses"
	"newsdesk-platform/internal/tasks"
)

// Repo serves summaries straight from the task and expense tables. Only the
// columns the aggregators read are selected.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) ListTasks(ctx context.Context, from, to time.Time, assigneeID string) ([]tasks.Task, error) {
	const q = `
SELECT id, status, assignee_id, response_time, completion_time, escalation_count, created_at
FROM tasks
WHERE created_at >= $1 AND created_at < $2
  AND ($3 = '' OR assignee_id = $3)
`
	rows, err := r.db.QueryContext(ctx, q, from, to, assigneeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tasks.Task
	for rows.Next() {
		var t tasks.Task
		if err := rows.Scan(
			&t.ID, &t.Status, &t.AssigneeID,
			&t.ResponseTimeSecs, &t.CompletionTimeSecs,
			&t.EscalationCount, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Repo) ListExpenses(ctx context.Context, from, to time.Time, taskID string) ([]expenses.Expense, error) {
	const q = `
SELECT id, task_id, amount, currency, status, created_at
FROM expenses
WHERE created_at >= $1 AND created_at < $2
  AND ($3 = '' OR task_id = $3)
`
	rows, err := r.db.QueryContext(ctx, q, from, to, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []expenses.Expense
	for rows.Next() {
		var e expenses.Expense
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Amount, &e.Currency, &e.Status, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
