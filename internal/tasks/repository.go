package tasks

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"newsdesk-platform/pkg/utils"
)

// Repo is the Postgres-backed task repository.
//
// NOTE: This repository assumes the following tables exist:
// - tasks
// - message_links (wa_message_id PRIMARY KEY, task_id, created_at)
// - processed_messages (wa_message_id PRIMARY KEY, task_id, processed_at)
//
// processed_messages is the idempotency ledger: claiming the source message
// id and mutating the task happen in one transaction, so a redelivered
// webhook cannot double-apply an update.

type Repo struct {
	db    *sql.DB
	clock func() time.Time
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db, clock: time.Now}
}

const taskColumns = `
id, title, description, type, priority, status, creator_id, assignee_id,
location, deadline, sent_at, read_at, accepted_at, started_at, completed_at,
response_time, completion_time, escalation_count, deliverables,
budget_amount, currency, created_at, updated_at`

func (r *Repo) Create(ctx context.Context, t Task) error {
	deliverables, err := json.Marshal(t.Deliverables)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO tasks (` + taskColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
`
	_, err = r.db.ExecContext(ctx, q,
		t.ID, t.Title, t.Description, t.Type, t.Priority, t.Status,
		t.CreatorID, t.AssigneeID, t.Location, t.Deadline,
		t.SentAt, t.ReadAt, t.AcceptedAt, t.StartedAt, t.CompletedAt,
		t.ResponseTimeSecs, t.CompletionTimeSecs, t.EscalationCount,
		string(deliverables), t.BudgetAmount, t.Currency, t.CreatedAt, t.UpdatedAt,
	)
	return err
}

func (r *Repo) GetByID(ctx context.Context, id string) (Task, error) {
	// Replies may reference a task by the 8-char footer id rendered into
	// outbound messages (the uppercased id prefix); resolve those too. A
	// longer id can only take the exact-match arm.
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 OR UPPER(LEFT(id, 8)) = UPPER($1)`
	return scanTask(r.db.QueryRowContext(ctx, q, id))
}

func (r *Repo) ListByStatus(ctx context.Context, status TaskStatus) ([]Task, error) {
	const q = `SELECT ` + taskColumns + ` FROM tasks WHERE status = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ApplyUpdate mutates the task inside a transaction. When sourceMessageID is
// non-empty the message id is claimed first; a conflict means an earlier
// delivery already applied this message and ErrAlreadyProcessed is returned.
func (r *Repo) ApplyUpdate(ctx context.Context, id string, upd TaskUpdate, sourceMessageID string) (Task, error) {
	var out Task
	err := utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		if sourceMessageID != "" {
			claimed, err := claimMessage(ctx, tx, sourceMessageID, id, r.clock().UTC())
			if err != nil {
				return err
			}
			if !claimed {
				return ErrAlreadyProcessed
			}
		}

		set, args := buildUpdateSet(upd, r.clock().UTC())
		args = append(args, id)
		q := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d RETURNING `+taskColumns, strings.Join(set, ", "), len(args))

		t, err := scanTask(tx.QueryRowContext(ctx, q, args...))
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	return out, err
}

func (r *Repo) SaveLink(ctx context.Context, waMessageID, taskID string) error {
	const q = `
INSERT INTO message_links (wa_message_id, task_id, created_at)
VALUES ($1, $2, $3)
ON CONFLICT (wa_message_id) DO NOTHING
`
	_, err := r.db.ExecContext(ctx, q, waMessageID, taskID, r.clock().UTC())
	return err
}

func (r *Repo) TaskIDByMessageID(ctx context.Context, waMessageID string) (string, error) {
	const q = `SELECT task_id FROM message_links WHERE wa_message_id = $1`
	var taskID string
	if err := r.db.QueryRowContext(ctx, q, waMessageID).Scan(&taskID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return taskID, nil
}

func claimMessage(ctx context.Context, tx *sql.Tx, waMessageID, taskID string, now time.Time) (bool, error) {
	const q = `
INSERT INTO processed_messages (wa_message_id, task_id, processed_at)
VALUES ($1, $2, $3)
ON CONFLICT (wa_message_id) DO NOTHING
`
	res, err := tx.ExecContext(ctx, q, waMessageID, taskID, now)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func buildUpdateSet(upd TaskUpdate, now time.Time) ([]string, []any) {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.AssigneeID != nil {
		add("assignee_id", *upd.AssigneeID)
	}
	if upd.SentAt != nil {
		add("sent_at", *upd.SentAt)
	}
	if upd.ReadAt != nil {
		add("read_at", *upd.ReadAt)
	}
	if upd.AcceptedAt != nil {
		add("accepted_at", *upd.AcceptedAt)
	}
	if upd.StartedAt != nil {
		add("started_at", *upd.StartedAt)
	}
	if upd.CompletedAt != nil {
		add("completed_at", *upd.CompletedAt)
	}
	if upd.ResponseTimeSecs != nil {
		add("response_time", *upd.ResponseTimeSecs)
	}
	if upd.CompletionTimeSecs != nil {
		add("completion_time", *upd.CompletionTimeSecs)
	}
	if upd.Deadline != nil {
		add("deadline", *upd.Deadline)
	}
	if upd.EscalationIncrement != 0 {
		args = append(args, upd.EscalationIncrement)
		set = append(set, fmt.Sprintf("escalation_count = escalation_count + $%d", len(args)))
	}
	add("updated_at", now)
	return set, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var t Task
	var deliverables sql.NullString
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Type, &t.Priority, &t.Status,
		&t.CreatorID, &t.AssigneeID, &t.Location, &t.Deadline,
		&t.SentAt, &t.ReadAt, &t.AcceptedAt, &t.StartedAt, &t.CompletedAt,
		&t.ResponseTimeSecs, &t.CompletionTimeSecs, &t.EscalationCount,
		&deliverables, &t.BudgetAmount, &t.Currency, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Task{}, ErrNotFound
		}
		return Task{}, err
	}
	if deliverables.Valid && deliverables.String != "" {
		if err := json.Unmarshal([]byte(deliverables.String), &t.Deliverables); err != nil {
			return Task{}, err
		}
	}
	return t, nil
}
