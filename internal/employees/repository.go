package employees

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Repo is the Postgres-backed directory.
type Repo struct {
	db *sql.DB
}

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) FindByPhone(ctx context.Context, phone string) (Employee, error) {
	const q = `
SELECT id, name, phone, role, active, created_at
FROM employees
WHERE phone = $1 AND active = TRUE
`
	return r.scanOne(ctx, q, normalizePhone(phone))
}

func (r *Repo) FindByID(ctx context.Context, id string) (Employee, error) {
	const q = `
SELECT id, name, phone, role, active, created_at
FROM employees
WHERE id = $1
`
	return r.scanOne(ctx, q, id)
}

func (r *Repo) scanOne(ctx context.Context, q string, arg any) (Employee, error) {
	var e Employee
	if err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&e.ID,
		&e.Name,
		&e.Phone,
		&e.Role,
		&e.Active,
		&e.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Employee{}, ErrNotFound
		}
		return Employee{}, err
	}
	return e, nil
}

// normalizePhone strips formatting so webhook `from` values and stored
// numbers compare equal.
func normalizePhone(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
