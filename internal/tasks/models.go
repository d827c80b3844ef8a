package tasks

import "time"

// Task is a unit of field work assigned to a reporter and tracked through a
// status lifecycle. The task aggregate owns its status; the transition
// resolver only proposes the next status and field mutations.
type Task struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description,omitempty" db:"description"`

	Type     TaskType `json:"type" db:"type"`
	Priority Priority `json:"priority" db:"priority"`

	Status TaskStatus `json:"status" db:"status"`

	CreatorID  string `json:"creator_id" db:"creator_id"`
	AssigneeID string `json:"assignee_id" db:"assignee_id"`

	Location string     `json:"location,omitempty" db:"location"`
	Deadline *time.Time `json:"deadline,omitempty" db:"deadline"`

	SentAt      *time.Time `json:"sent_at,omitempty" db:"sent_at"`
	ReadAt      *time.Time `json:"read_at,omitempty" db:"read_at"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty" db:"accepted_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`

	// ResponseTimeSecs is accepted_at - sent_at; CompletionTimeSecs is
	// completed_at - started_at. Both in whole seconds.
	ResponseTimeSecs   *int64 `json:"response_time,omitempty" db:"response_time"`
	CompletionTimeSecs *int64 `json:"completion_time,omitempty" db:"completion_time"`

	EscalationCount int `json:"escalation_count" db:"escalation_count"`

	Deliverables []string `json:"deliverables,omitempty" db:"deliverables"`

	BudgetAmount float64 `json:"budget_amount,omitempty" db:"budget_amount"`
	Currency     string  `json:"currency,omitempty" db:"currency"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type TaskStatus string

const (
	StatusDraft      TaskStatus = "DRAFT"
	StatusSent       TaskStatus = "SENT"
	StatusRead       TaskStatus = "READ"
	StatusAccepted   TaskStatus = "ACCEPTED"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusReview     TaskStatus = "REVIEW"
	StatusCompleted  TaskStatus = "COMPLETED"
	StatusRejected   TaskStatus = "REJECTED"
	StatusOverdue    TaskStatus = "OVERDUE"
	StatusCancelled  TaskStatus = "CANCELLED"
)

// KnownStatus reports whether s is part of the lifecycle. A status outside
// this set indicates corrupted upstream state.
func KnownStatus(s TaskStatus) bool {
	switch s {
	case StatusDraft, StatusSent, StatusRead, StatusAccepted, StatusInProgress,
		StatusReview, StatusCompleted, StatusRejected, StatusOverdue, StatusCancelled:
		return true
	default:
		return false
	}
}

type TaskType string

const (
	TypeBreakingNews TaskType = "BREAKING_NEWS"
	TypePressConf    TaskType = "PRESS_CONF"
	TypeInterview    TaskType = "INTERVIEW"
	TypePhotoAssign  TaskType = "PHOTO_ASSIGN"
	TypeVideoAssign  TaskType = "VIDEO_ASSIGN"
	TypeGeneral      TaskType = "GENERAL"
)

type Priority string

const (
	PriorityUrgent Priority = "URGENT"
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// TaskUpdate is the set of field mutations a resolved transition proposes.
// Nil fields are left untouched. Applying the same update twice keyed by the
// same source message id is a no-op (the repository claims the message id
// before writing).
type TaskUpdate struct {
	Status *TaskStatus

	AssigneeID *string

	SentAt      *time.Time
	ReadAt      *time.Time
	AcceptedAt  *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time

	ResponseTimeSecs   *int64
	CompletionTimeSecs *int64

	Deadline *time.Time

	// EscalationIncrement is added to escalation_count.
	EscalationIncrement int
}
