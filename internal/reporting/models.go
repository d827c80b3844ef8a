package reporting

import "time"

// Common filtering inputs.

type TimeRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// TasksSummaryRequest requests aggregated assignment metrics. AssigneeID
// narrows the summary to one reporter; empty means desk-wide.
type TasksSummaryRequest struct {
	Range      TimeRange `json:"range"`
	AssigneeID string    `json:"assignee_id,omitempty"`
}

type TasksSummary struct {
	AssigneeID string `json:"assignee_id,omitempty"`

	TotalTasks      int `json:"total_tasks"`
	CompletedTasks  int `json:"completed_tasks"`
	InProgressTasks int `json:"in_progress_tasks"`
	AcceptedTasks   int `json:"accepted_tasks"`
	RejectedTasks   int `json:"rejected_tasks"`
	CancelledTasks  int `json:"cancelled_tasks"`
	ReviewTasks     int `json:"review_tasks"`
	OverdueTasks    int `json:"overdue_tasks"`
	PendingTasks    int `json:"pending_tasks"` // DRAFT, SENT, READ

	// Averages over tasks that recorded the metric, whole seconds.
	AverageResponseSeconds   int64 `json:"average_response_seconds"`
	AverageCompletionSeconds int64 `json:"average_completion_seconds"`

	TotalEscalations int `json:"total_escalations"`
}

// ExpenseSummaryRequest requests aggregated field-cost metrics.
type ExpenseSummaryRequest struct {
	Range  TimeRange `json:"range"`
	TaskID string    `json:"task_id,omitempty"`
}

type ExpenseSummary struct {
	TaskID   string `json:"task_id,omitempty"`
	Currency string `json:"currency"`

	TotalRequests    int     `json:"total_requests"`
	PendingRequests  int     `json:"pending_requests"`
	ApprovedRequests int     `json:"approved_requests"`
	RejectedRequests int     `json:"rejected_requests"`
	ApprovedAmount   float64 `json:"approved_amount"`
	RequestedAmount  float64 `json:"requested_amount"`
}
