package expenses

import "time"

// Expense is a field-cost request raised by a reporter, usually mentioned
// inline in a WhatsApp message ("need BD 20 for taxi"). Amounts are kept in
// major units; the newsroom settles in one currency per deployment.
type Expense struct {
	ID         string `json:"id" db:"id"`
	TaskID     string `json:"task_id" db:"task_id"`
	EmployeeID string `json:"employee_id" db:"employee_id"`

	Amount      float64 `json:"amount" db:"amount"`
	Currency    string  `json:"currency" db:"currency"`
	Description string  `json:"description" db:"description"`

	Status ExpenseStatus `json:"status" db:"status"`

	// ReviewedBy is the editor who approved or rejected the request.
	ReviewedBy string     `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type ExpenseStatus string

const (
	StatusPending  ExpenseStatus = "PENDING"
	StatusApproved ExpenseStatus = "APPROVED"
	StatusRejected ExpenseStatus = "REJECTED"
)
