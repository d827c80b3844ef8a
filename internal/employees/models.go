package employees

import (
	"context"
	"errors"
	"time"
)

// Employee is an internal actor: an editor at the desk or a reporter in the
// field. Phone is the WhatsApp number in international format without the
// leading plus, matching the webhook's `from` field.
type Employee struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Phone string `json:"phone" db:"phone"`
	Role  string `json:"role" db:"role"`

	Active bool `json:"active" db:"active"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

var ErrNotFound = errors.New("employees: not found")

// Directory resolves inbound senders to internal actors. The transition
// pipeline requires a successful lookup before it will authorize anything.
type Directory interface {
	FindByPhone(ctx context.Context, phone string) (Employee, error)
	FindByID(ctx context.Context, id string) (Employee, error)
}
