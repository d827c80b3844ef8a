package expenses

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Repo is the Postgres-backed expense repository.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

const expenseColumns = `
id, task_id, employee_id, amount, currency, description, status,
reviewed_by, reviewed_at, created_at`

func (r *Repo) Create(ctx context.Context, e Expense) error {
	const q = `
INSERT INTO expenses (` + expenseColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.TaskID, e.EmployeeID, e.Amount, e.Currency, e.Description,
		e.Status, nullIfEmpty(e.ReviewedBy), e.ReviewedAt, e.CreatedAt,
	)
	return err
}

func (r *Repo) GetByID(ctx context.Context, id string) (Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expenses WHERE id = $1`
	return scanExpense(r.db.QueryRowContext(ctx, q, id))
}

func (r *Repo) ListByTask(ctx context.Context, taskID string) ([]Expense, error) {
	const q = `SELECT ` + expenseColumns + ` FROM expenses WHERE task_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, q, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) SetStatus(ctx context.Context, id string, status ExpenseStatus, reviewedBy string, reviewedAt time.Time) (Expense, error) {
	const q = `
UPDATE expenses
SET status = $2, reviewed_by = $3, reviewed_at = $4
WHERE id = $1
RETURNING ` + expenseColumns
	return scanExpense(r.db.QueryRowContext(ctx, q, id, status, reviewedBy, reviewedAt))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (Expense, error) {
	var e Expense
	var reviewedBy sql.NullString
	if err := row.Scan(
		&e.ID, &e.TaskID, &e.EmployeeID, &e.Amount, &e.Currency, &e.Description,
		&e.Status, &reviewedBy, &e.ReviewedAt, &e.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Expense{}, ErrNotFound
		}
		return Expense{}, err
	}
	e.ReviewedBy = reviewedBy.String
	return e, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
